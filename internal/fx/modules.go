package fx

import (
	"wc3-stats/internal/api"
	"wc3-stats/internal/config"
	"wc3-stats/internal/database"
	"wc3-stats/internal/logger"
	"wc3-stats/internal/repository"
	"wc3-stats/internal/server"
	"wc3-stats/internal/service"

	"go.uber.org/fx"
)

func providePlayerProfileStore(r *repository.PlayerProfileRepository) service.PlayerProfileStore {
	return r
}

func provideGameModeStatStore(r *repository.GameModeStatRepository) service.GameModeStatStore {
	return r
}

func provideRankSource(c *api.RankClient) service.RankSource {
	return c
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewPlayerProfileRepository),
	fx.Provide(repository.NewGameModeStatRepository),
	fx.Provide(providePlayerProfileStore),
	fx.Provide(provideGameModeStatStore),
	// rank source client
	fx.Provide(api.NewRankClient),
	fx.Provide(provideRankSource),
	// svc
	fx.Provide(service.NewIngestService),
	fx.Provide(service.NewStatsService),
	// server
	fx.Provide(server.NewStatsServer),
)
