package service

import (
	"context"
	"fmt"
	"strings"

	"wc3-stats/internal/constants"
	"wc3-stats/internal/domain"
	"wc3-stats/internal/stats"

	"github.com/rs/zerolog"
)

type StatsService struct {
	profiles PlayerProfileStore
	modeStat GameModeStatStore
	ranks    RankSource
	logger   zerolog.Logger
}

func NewStatsService(profiles PlayerProfileStore, modeStat GameModeStatStore, ranks RankSource, logger zerolog.Logger) *StatsService {
	return &StatsService{
		profiles: profiles,
		modeStat: modeStat,
		ranks:    ranks,
		logger:   logger,
	}
}

type Winrate struct {
	BattleTag string  `json:"battleTag"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	Games     int     `json:"games"`
	Rate      float64 `json:"rate"`
}

// GetPlayer returns the player's global profile, or an all-zero default for a
// battle tag no match has touched yet. Never 404s on unknown players.
func (s *StatsService) GetPlayer(ctx context.Context, battleTag string) (*domain.PlayerProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	profile, err := s.profiles.Load(ctx, battleTag)
	if err != nil {
		s.logger.Error().Err(err).Str("battle_tag", battleTag).Msg("failed to load player profile")
		return nil, fmt.Errorf("failed to load player profile: %w", err)
	}
	if profile == nil {
		s.logger.Debug().Str("battle_tag", battleTag).Msg("player not found, returning default profile")
		return defaultProfile(battleTag), nil
	}

	return profile, nil
}

func (s *StatsService) GetWinrate(ctx context.Context, battleTag string) (Winrate, error) {
	profile, err := s.GetPlayer(ctx, battleTag)
	if err != nil {
		return Winrate{}, err
	}

	wr := Winrate{
		BattleTag: profile.BattleTag,
		Wins:      profile.TotalWins,
		Losses:    profile.TotalLosses,
		Games:     profile.TotalWins + profile.TotalLosses,
	}
	if wr.Games > 0 {
		wr.Rate = float64(wr.Wins) / float64(wr.Games)
	}
	return wr, nil
}

// GetGameModeStats returns the player's composite aggregates for one gateway
// and game mode across seasons, each enriched with the external rank. A
// missing or unreachable rank source degrades to the unranked default.
func (s *StatsService) GetGameModeStats(ctx context.Context, battleTag string, gateway domain.Gateway, gameMode domain.GameMode) ([]stats.RankedStat, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	records, err := s.modeStat.LoadAllSeasons(ctx, battleTag, gateway, gameMode)
	if err != nil {
		s.logger.Error().Err(err).Str("battle_tag", battleTag).Msg("failed to load game mode stats")
		return nil, fmt.Errorf("failed to load game mode stats: %w", err)
	}

	rankCtx, rankCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer rankCancel()

	rank, err := s.ranks.LookupRank(rankCtx, battleTag, gateway, gameMode)
	if err != nil {
		s.logger.Warn().Err(err).Str("battle_tag", battleTag).Msg("rank lookup failed, merging as unranked")
		rank = nil
	}

	result := make([]stats.RankedStat, len(records))
	for i, record := range records {
		result[i] = stats.MergeRank(record, rank)
	}
	return result, nil
}

func defaultProfile(battleTag string) *domain.PlayerProfile {
	name, _, _ := strings.Cut(battleTag, "#")
	return &domain.PlayerProfile{
		BattleTag:     battleTag,
		Name:          name,
		RaceStats:     []domain.RaceStat{},
		GameModeStats: []domain.GameModeStat{},
	}
}
