package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"wc3-stats/internal/config"
	"wc3-stats/internal/domain"
	"wc3-stats/internal/event"
	"wc3-stats/internal/service"
	"wc3-stats/internal/stats"

	"github.com/rs/zerolog"
)

type StatsServer struct {
	ingestSvc *service.IngestService
	statsSvc  *service.StatsService
	cfg       *config.Config
	logger    zerolog.Logger
}

func NewStatsServer(ingestSvc *service.IngestService, statsSvc *service.StatsService, cfg *config.Config, logger zerolog.Logger) *StatsServer {
	return &StatsServer{ingestSvc: ingestSvc, statsSvc: statsSvc, cfg: cfg, logger: logger}
}

func (s *StatsServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/events/match-finished", s.handleMatchFinished)
	mux.HandleFunc("GET /api/players/{battleTag}", s.handleGetPlayer)
	mux.HandleFunc("GET /api/players/{battleTag}/winrate", s.handleGetWinrate)
	mux.HandleFunc("GET /api/players/{battleTag}/game-mode-stats", s.handleGetGameModeStats)
}

type matchFinishedRequest struct {
	event.MatchFinishedEvent
	Season *int `json:"season,omitempty"`
}

func (s *StatsServer) handleMatchFinished(w http.ResponseWriter, r *http.Request) {
	var req matchFinishedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	season := s.cfg.CurrentSeason
	if req.Season != nil {
		season = *req.Season
	}

	err := s.ingestSvc.HandleMatchFinished(r.Context(), req.MatchFinishedEvent, season)
	if err != nil {
		if isRejectedEvent(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to apply match result")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *StatsServer) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	profile, err := s.statsSvc.GetPlayer(r.Context(), r.PathValue("battleTag"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load player")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *StatsServer) handleGetWinrate(w http.ResponseWriter, r *http.Request) {
	winrate, err := s.statsSvc.GetWinrate(r.Context(), r.PathValue("battleTag"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load winrate")
		return
	}
	writeJSON(w, http.StatusOK, winrate)
}

func (s *StatsServer) handleGetGameModeStats(w http.ResponseWriter, r *http.Request) {
	gateway, err := strconv.Atoi(r.URL.Query().Get("gateway"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid gateway")
		return
	}
	gameMode, err := strconv.Atoi(r.URL.Query().Get("gameMode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid gameMode")
		return
	}

	records, err := s.statsSvc.GetGameModeStats(r.Context(), r.PathValue("battleTag"),
		domain.Gateway(gateway), domain.GameMode(gameMode))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load game mode stats")
		return
	}
	if records == nil {
		records = []stats.RankedStat{}
	}
	writeJSON(w, http.StatusOK, records)
}

// isRejectedEvent separates malformed-input rejections (caller's fault) from
// storage failures.
func isRejectedEvent(err error) bool {
	return errors.Is(err, event.ErrMalformedMapPath) ||
		errors.Is(err, event.ErrMalformedPlayerTag) ||
		errors.Is(err, event.ErrUnsupportedMatchShape) ||
		errors.Is(err, stats.ErrDuplicateParticipant)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
