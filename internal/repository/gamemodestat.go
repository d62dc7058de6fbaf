package repository

import (
	"context"
	"database/sql"
	"fmt"

	"wc3-stats/internal/domain"
	"wc3-stats/internal/stats"

	"github.com/rs/zerolog"
)

type GameModeStatRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewGameModeStatRepository(sqlDB *sql.DB, logger zerolog.Logger) *GameModeStatRepository {
	return &GameModeStatRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Load returns the composite aggregate for a key, or nil when no match has
// touched that key yet.
func (r *GameModeStatRepository) Load(ctx context.Context, key stats.CompositeKey) (*domain.GameModeStatPerGateway, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT battle_tag, gateway, game_mode, season, wins, losses, mmr, ranking_points, version, created_at, updated_at
		FROM game_mode_stats
		WHERE battle_tag = ? AND gateway = ? AND game_mode = ? AND season = ?`,
		key.BattleTag, int(key.Gateway), int(key.GameMode), key.Season)

	s, err := scanGameModeStat(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game mode stat %s/%s/%s/%d: %w",
			key.BattleTag, key.Gateway, key.GameMode, key.Season, err)
	}
	return s, nil
}

func (r *GameModeStatRepository) Upsert(ctx context.Context, s *domain.GameModeStatPerGateway) error {
	if s.Version == 0 {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO game_mode_stats (battle_tag, gateway, game_mode, season, wins, losses, mmr, ranking_points, version, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			s.BattleTag, int(s.Gateway), int(s.GameMode), s.Season,
			s.Wins, s.Losses, s.MMR, s.RankingPoints, s.CreatedAt, s.UpdatedAt)
		if isConstraintErr(err) {
			r.logger.Debug().Str("battle_tag", s.BattleTag).Msg("concurrent insert detected")
			return fmt.Errorf("insert game mode stat %s: %w", s.BattleTag, ErrAggregateConflict)
		}
		if err != nil {
			return fmt.Errorf("failed to insert game mode stat %s: %w", s.BattleTag, err)
		}
		s.Version = 1
		return nil
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE game_mode_stats
		SET wins = ?, losses = ?, mmr = ?, ranking_points = ?, version = version + 1, updated_at = ?
		WHERE battle_tag = ? AND gateway = ? AND game_mode = ? AND season = ? AND version = ?`,
		s.Wins, s.Losses, s.MMR, s.RankingPoints, s.UpdatedAt,
		s.BattleTag, int(s.Gateway), int(s.GameMode), s.Season, s.Version)
	if err != nil {
		return fmt.Errorf("failed to update game mode stat %s: %w", s.BattleTag, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		r.logger.Debug().Str("battle_tag", s.BattleTag).Int64("version", s.Version).Msg("stale stat version")
		return fmt.Errorf("update game mode stat %s: %w", s.BattleTag, ErrAggregateConflict)
	}

	s.Version++
	return nil
}

// LoadAllSeasons returns a player's composite aggregates for one gateway and
// game mode across every season, newest season first. Read path only, the
// aggregator never touches it.
func (r *GameModeStatRepository) LoadAllSeasons(ctx context.Context, battleTag string, gateway domain.Gateway, gameMode domain.GameMode) ([]domain.GameModeStatPerGateway, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT battle_tag, gateway, game_mode, season, wins, losses, mmr, ranking_points, version, created_at, updated_at
		FROM game_mode_stats
		WHERE battle_tag = ? AND gateway = ? AND game_mode = ?
		ORDER BY season DESC`,
		battleTag, int(gateway), int(gameMode))
	if err != nil {
		return nil, fmt.Errorf("failed to load game mode stats for %s: %w", battleTag, err)
	}
	defer rows.Close()

	var result []domain.GameModeStatPerGateway
	for rows.Next() {
		s, err := scanGameModeStat(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game mode stat: %w", err)
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game mode stats: %w", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGameModeStat(row rowScanner) (*domain.GameModeStatPerGateway, error) {
	var s domain.GameModeStatPerGateway
	var gateway, gameMode int
	err := row.Scan(&s.BattleTag, &gateway, &gameMode, &s.Season,
		&s.Wins, &s.Losses, &s.MMR, &s.RankingPoints, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Gateway = domain.Gateway(gateway)
	s.GameMode = domain.GameMode(gameMode)
	return &s, nil
}
