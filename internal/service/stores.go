package service

import (
	"context"

	"wc3-stats/internal/domain"
	"wc3-stats/internal/stats"
)

// PlayerProfileStore is the persistence gateway for global profiles. Load
// returns nil when the player has never been observed; Upsert must detect
// concurrent writers and return repository.ErrAggregateConflict.
type PlayerProfileStore interface {
	Load(ctx context.Context, battleTag string) (*domain.PlayerProfile, error)
	Upsert(ctx context.Context, p *domain.PlayerProfile) error
}

// GameModeStatStore is the persistence gateway for composite aggregates.
type GameModeStatStore interface {
	Load(ctx context.Context, key stats.CompositeKey) (*domain.GameModeStatPerGateway, error)
	Upsert(ctx context.Context, s *domain.GameModeStatPerGateway) error
	LoadAllSeasons(ctx context.Context, battleTag string, gateway domain.Gateway, gameMode domain.GameMode) ([]domain.GameModeStatPerGateway, error)
}

// RankSource is the external ranking subsystem, consulted at read time only.
type RankSource interface {
	LookupRank(ctx context.Context, battleTag string, gateway domain.Gateway, gameMode domain.GameMode) (*stats.Rank, error)
}
