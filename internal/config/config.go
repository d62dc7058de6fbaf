package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath        string
	ServerPort    string
	LogLevel      string
	RankAPIURL    string
	CurrentSeason int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	season, err := getEnvInt("CURRENT_SEASON", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid CURRENT_SEASON: %w", err)
	}

	cfg := &Config{
		DBPath:        getEnv("DB_PATH", "wc3stats.db"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		RankAPIURL:    getEnv("RANK_API_URL", ""),
		CurrentSeason: season,
	}

	if cfg.RankAPIURL == "" {
		logger.Warn().Msg("RANK_API_URL not set, players will read as unranked")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Int("current_season", cfg.CurrentSeason).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

var Module = fx.Provide(Load)
