package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wc3-stats/internal/constants"
	"wc3-stats/internal/domain"
	"wc3-stats/internal/event"
	"wc3-stats/internal/repository"
	"wc3-stats/internal/stats"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type IngestService struct {
	profiles PlayerProfileStore
	modeStat GameModeStatStore
	locks    *keyedMutex
	logger   zerolog.Logger
}

func NewIngestService(profiles PlayerProfileStore, modeStat GameModeStatStore, logger zerolog.Logger) *IngestService {
	return &IngestService{
		profiles: profiles,
		modeStat: modeStat,
		locks:    newKeyedMutex(),
		logger:   logger,
	}
}

// HandleMatchFinished folds one match-completion event into every aggregate
// it touches. Participants are updated concurrently; updates to one player's
// aggregates run under that player's lock with optimistic retry on version
// conflicts. Each aggregate is either fully updated or untouched; a failure
// names the key that did not complete. The fold is additive, so redelivered
// events count again - dedup is owned by the delivery layer.
func (s *IngestService) HandleMatchFinished(ctx context.Context, ev event.MatchFinishedEvent, season int) error {
	ctx, cancel := context.WithTimeout(ctx, constants.IngestTimeout)
	defer cancel()

	eventID := ev.ID
	if eventID == "" {
		var err error
		eventID, err = gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate event id: %w", err)
		}
	}

	logger := s.logger.With().Str("event_id", eventID).Int64("match_id", ev.Match.ID).Logger()

	matchup, err := event.Normalize(ev)
	if err != nil {
		logger.Warn().Err(err).Msg("rejecting malformed match event")
		return err
	}

	keys, err := stats.ResolveKeys(matchup, season)
	if err != nil {
		logger.Warn().Err(err).Msg("rejecting match event with bad roster")
		return err
	}

	logger.Debug().
		Str("map", matchup.Map).
		Stringer("game_mode", matchup.GameMode).
		Stringer("gateway", matchup.Gateway).
		Int("participants", len(keys)).
		Int("season", season).
		Msg("applying match result")

	g, gCtx := errgroup.WithContext(ctx)
	for _, pk := range keys {
		g.Go(func() error {
			return s.applyParticipant(gCtx, pk, matchup.GameMode)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("failed to apply match result")
		return err
	}

	logger.Info().Int("participants", len(keys)).Msg("match result applied")
	return nil
}

// UpdateRank records externally computed MMR and ranking points on one
// composite aggregate. Rank numbers themselves stay in the ranking service
// and are merged in at read time.
func (s *IngestService) UpdateRank(ctx context.Context, key stats.CompositeKey, mmr, rankingPoints int) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	unlock := s.locks.lock(key.BattleTag)
	defer unlock()

	return s.withConflictRetry(func() error {
		stat, err := s.modeStat.Load(ctx, key)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if stat == nil {
			stat = &domain.GameModeStatPerGateway{
				BattleTag: key.BattleTag,
				Gateway:   key.Gateway,
				GameMode:  key.GameMode,
				Season:    key.Season,
				CreatedAt: now,
			}
		}
		stat.MMR = mmr
		stat.RankingPoints = rankingPoints
		stat.UpdatedAt = now
		return s.modeStat.Upsert(ctx, stat)
	})
}

// applyParticipant updates both aggregates one participant touches, under
// that participant's key lock.
func (s *IngestService) applyParticipant(ctx context.Context, pk stats.PlayerKeys, mode domain.GameMode) error {
	unlock := s.locks.lock(pk.Outcome.BattleTag)
	defer unlock()

	if err := s.applyProfile(ctx, pk.Outcome, mode); err != nil {
		return fmt.Errorf("profile %s: %w", pk.Outcome.BattleTag, err)
	}
	if err := s.applyGameModeStat(ctx, pk); err != nil {
		return fmt.Errorf("game mode stat %s/%s/%s/%d: %w",
			pk.Composite.BattleTag, pk.Composite.Gateway, pk.Composite.GameMode, pk.Composite.Season, err)
	}
	return nil
}

func (s *IngestService) applyProfile(ctx context.Context, o domain.PlayerOutcome, mode domain.GameMode) error {
	return s.withConflictRetry(func() error {
		profile, err := s.profiles.Load(ctx, o.BattleTag)
		if err != nil {
			return err
		}
		return s.profiles.Upsert(ctx, stats.ApplyToProfile(profile, o, mode))
	})
}

func (s *IngestService) applyGameModeStat(ctx context.Context, pk stats.PlayerKeys) error {
	return s.withConflictRetry(func() error {
		stat, err := s.modeStat.Load(ctx, pk.Composite)
		if err != nil {
			return err
		}
		return s.modeStat.Upsert(ctx, stats.ApplyToGameModeStat(stat, pk.Composite, pk.Outcome))
	})
}

// withConflictRetry reruns a full load-modify-upsert cycle while the store
// reports version conflicts, up to MaxConflictRetries attempts.
func (s *IngestService) withConflictRetry(apply func() error) error {
	var err error
	for attempt := 0; attempt < constants.MaxConflictRetries; attempt++ {
		err = apply()
		if !errors.Is(err, repository.ErrAggregateConflict) {
			return err
		}
		s.logger.Debug().Int("attempt", attempt+1).Msg("retrying after version conflict")
	}
	return fmt.Errorf("gave up after %d attempts: %w", constants.MaxConflictRetries, err)
}
