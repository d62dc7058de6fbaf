package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"wc3-stats/internal/domain"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// ErrAggregateConflict signals that a concurrent writer bumped the aggregate
// version between load and upsert. Callers retry the full load-modify-upsert
// cycle for that key.
var ErrAggregateConflict = errors.New("aggregate version conflict")

type PlayerProfileRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerProfileRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerProfileRepository {
	return &PlayerProfileRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Load returns the profile for a battle tag, or nil when the player has not
// been observed yet.
func (r *PlayerProfileRepository) Load(ctx context.Context, battleTag string) (*domain.PlayerProfile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT battle_tag, name, total_wins, total_losses, race_stats, game_mode_stats, version, created_at, updated_at
		FROM player_profiles
		WHERE battle_tag = ?`, battleTag)

	var p domain.PlayerProfile
	var raceStats, gameModeStats []byte
	err := row.Scan(&p.BattleTag, &p.Name, &p.TotalWins, &p.TotalLosses,
		&raceStats, &gameModeStats, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load player profile %s: %w", battleTag, err)
	}

	if err := json.Unmarshal(raceStats, &p.RaceStats); err != nil {
		return nil, fmt.Errorf("failed to decode race stats for %s: %w", battleTag, err)
	}
	if err := json.Unmarshal(gameModeStats, &p.GameModeStats); err != nil {
		return nil, fmt.Errorf("failed to decode game mode stats for %s: %w", battleTag, err)
	}

	return &p, nil
}

// Upsert writes the profile back under optimistic concurrency. A profile
// loaded at version N only writes if the row is still at version N; new
// profiles (version 0) insert and fail on a concurrent first write.
func (r *PlayerProfileRepository) Upsert(ctx context.Context, p *domain.PlayerProfile) error {
	raceStats, err := json.Marshal(p.RaceStats)
	if err != nil {
		return fmt.Errorf("failed to encode race stats: %w", err)
	}
	gameModeStats, err := json.Marshal(p.GameModeStats)
	if err != nil {
		return fmt.Errorf("failed to encode game mode stats: %w", err)
	}

	if p.Version == 0 {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO player_profiles (battle_tag, name, total_wins, total_losses, race_stats, game_mode_stats, version, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			p.BattleTag, p.Name, p.TotalWins, p.TotalLosses, raceStats, gameModeStats, p.CreatedAt, p.UpdatedAt)
		if isConstraintErr(err) {
			r.logger.Debug().Str("battle_tag", p.BattleTag).Msg("concurrent insert detected")
			return fmt.Errorf("insert player profile %s: %w", p.BattleTag, ErrAggregateConflict)
		}
		if err != nil {
			return fmt.Errorf("failed to insert player profile %s: %w", p.BattleTag, err)
		}
		p.Version = 1
		return nil
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE player_profiles
		SET name = ?, total_wins = ?, total_losses = ?, race_stats = ?, game_mode_stats = ?, version = version + 1, updated_at = ?
		WHERE battle_tag = ? AND version = ?`,
		p.Name, p.TotalWins, p.TotalLosses, raceStats, gameModeStats, p.UpdatedAt,
		p.BattleTag, p.Version)
	if err != nil {
		return fmt.Errorf("failed to update player profile %s: %w", p.BattleTag, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		r.logger.Debug().Str("battle_tag", p.BattleTag).Int64("version", p.Version).Msg("stale profile version")
		return fmt.Errorf("update player profile %s: %w", p.BattleTag, ErrAggregateConflict)
	}

	p.Version++
	return nil
}

func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
