package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"wc3-stats/internal/config"
	"wc3-stats/internal/database"
	"wc3-stats/internal/domain"
	"wc3-stats/internal/stats"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestPlayerProfileRoundtrip(t *testing.T) {
	repo := NewPlayerProfileRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	loaded, err := repo.Load(ctx, "peter#123")
	require.NoError(t, err)
	assert.Nil(t, loaded, "unknown player loads as nil")

	p := stats.ApplyToProfile(nil, domain.PlayerOutcome{
		Name:      "peter",
		BattleTag: "peter#123",
		Race:      domain.RaceHuman,
		Won:       true,
		OldMMR:    100,
		NewMMR:    120,
	}, domain.GameMode1v1)
	require.NoError(t, repo.Upsert(ctx, p))

	loaded, err = repo.Load(ctx, "peter#123")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "peter", loaded.Name)
	assert.Equal(t, 1, loaded.TotalWins)
	require.Len(t, loaded.RaceStats, 1)
	assert.Equal(t, domain.RaceHuman, loaded.RaceStats[0].Race)
	assert.Equal(t, int64(1), loaded.Version)
}

func TestPlayerProfileRaceOrderSurvivesRoundtrip(t *testing.T) {
	repo := NewPlayerProfileRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	var p *domain.PlayerProfile
	for _, race := range []domain.Race{domain.RaceUndead, domain.RaceHuman, domain.RaceOrc} {
		p = stats.ApplyToProfile(p, domain.PlayerOutcome{
			Name: "peter", BattleTag: "peter#123", Race: race, Won: true,
		}, domain.GameMode1v1)
	}
	require.NoError(t, repo.Upsert(ctx, p))

	loaded, err := repo.Load(ctx, "peter#123")
	require.NoError(t, err)
	require.Len(t, loaded.RaceStats, 3)
	assert.Equal(t, domain.RaceUndead, loaded.RaceStats[0].Race)
	assert.Equal(t, domain.RaceHuman, loaded.RaceStats[1].Race)
	assert.Equal(t, domain.RaceOrc, loaded.RaceStats[2].Race)
}

func TestPlayerProfileVersionConflict(t *testing.T) {
	repo := NewPlayerProfileRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	outcome := domain.PlayerOutcome{Name: "peter", BattleTag: "peter#123", Race: domain.RaceHuman, Won: true}

	first := stats.ApplyToProfile(nil, outcome, domain.GameMode1v1)
	require.NoError(t, repo.Upsert(ctx, first))

	t.Run("stale update", func(t *testing.T) {
		a, err := repo.Load(ctx, "peter#123")
		require.NoError(t, err)
		b, err := repo.Load(ctx, "peter#123")
		require.NoError(t, err)

		require.NoError(t, repo.Upsert(ctx, stats.ApplyToProfile(a, outcome, domain.GameMode1v1)))

		err = repo.Upsert(ctx, stats.ApplyToProfile(b, outcome, domain.GameMode1v1))
		require.ErrorIs(t, err, ErrAggregateConflict)
	})

	t.Run("concurrent first insert", func(t *testing.T) {
		dup := stats.ApplyToProfile(nil, outcome, domain.GameMode1v1)
		err := repo.Upsert(ctx, dup)
		require.ErrorIs(t, err, ErrAggregateConflict)
	})
}

func TestGameModeStatRoundtrip(t *testing.T) {
	repo := NewGameModeStatRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	key := stats.CompositeKey{
		BattleTag: "peter#123",
		Gateway:   domain.GatewayEurope,
		GameMode:  domain.GameMode1v1,
		Season:    0,
	}

	loaded, err := repo.Load(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, loaded, "untouched key loads as nil")

	s := stats.ApplyToGameModeStat(nil, key, domain.PlayerOutcome{
		BattleTag: "peter#123", Race: domain.RaceHuman, Won: true, OldMMR: 100, NewMMR: 120,
	})
	require.NoError(t, repo.Upsert(ctx, s))

	loaded, err = repo.Load(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 1, loaded.Wins)
	assert.Equal(t, 120, loaded.MMR)
	assert.Equal(t, domain.GatewayEurope, loaded.Gateway)

	loaded.Wins++
	require.NoError(t, repo.Upsert(ctx, loaded))

	again, err := repo.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Wins)
	assert.Equal(t, int64(2), again.Version)
}

func TestGameModeStatVersionConflict(t *testing.T) {
	repo := NewGameModeStatRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	key := stats.CompositeKey{BattleTag: "peter#123", Gateway: domain.GatewayEurope, GameMode: domain.GameMode1v1}
	outcome := domain.PlayerOutcome{BattleTag: "peter#123", Won: true, NewMMR: 120}

	require.NoError(t, repo.Upsert(ctx, stats.ApplyToGameModeStat(nil, key, outcome)))

	a, err := repo.Load(ctx, key)
	require.NoError(t, err)
	b, err := repo.Load(ctx, key)
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(ctx, stats.ApplyToGameModeStat(a, key, outcome)))
	err = repo.Upsert(ctx, stats.ApplyToGameModeStat(b, key, outcome))
	require.ErrorIs(t, err, ErrAggregateConflict)
}

func TestGameModeStatLoadAllSeasons(t *testing.T) {
	repo := NewGameModeStatRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	outcome := domain.PlayerOutcome{BattleTag: "peter#123", Won: true, NewMMR: 1500}
	for _, season := range []int{0, 2, 1} {
		key := stats.CompositeKey{
			BattleTag: "peter#123",
			Gateway:   domain.GatewayEurope,
			GameMode:  domain.GameMode1v1,
			Season:    season,
		}
		require.NoError(t, repo.Upsert(ctx, stats.ApplyToGameModeStat(nil, key, outcome)))
	}

	// Other gateway must not leak into the result.
	other := stats.CompositeKey{BattleTag: "peter#123", Gateway: domain.GatewayAmerica, GameMode: domain.GameMode1v1}
	require.NoError(t, repo.Upsert(ctx, stats.ApplyToGameModeStat(nil, other, outcome)))

	records, err := repo.LoadAllSeasons(ctx, "peter#123", domain.GatewayEurope, domain.GameMode1v1)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 2, records[0].Season, "newest season first")
	assert.Equal(t, 1, records[1].Season)
	assert.Equal(t, 0, records[2].Season)
}
