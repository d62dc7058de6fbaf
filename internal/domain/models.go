package domain

import (
	"time"
)

type Matchup struct {
	MatchID   int64
	Map       string
	GameMode  GameMode
	Gateway   Gateway
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Teams     []Team // winners first, then losers
}

type Team struct {
	Players []PlayerOutcome
}

type PlayerOutcome struct {
	Name      string
	BattleTag string // stable id, "name#discriminator"
	Race      Race
	Won       bool
	OldMMR    int
	NewMMR    int
}

type RaceStat struct {
	Race   Race `json:"race"`
	Wins   int  `json:"wins"`
	Losses int  `json:"losses"`
}

type GameModeStat struct {
	GameMode GameMode `json:"gameMode"`
	Wins     int      `json:"wins"`
	Losses   int      `json:"losses"`
}

type PlayerProfile struct {
	BattleTag     string
	Name          string
	TotalWins     int
	TotalLosses   int
	RaceStats     []RaceStat     // first-observed order
	GameModeStats []GameModeStat // first-observed order
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type GameModeStatPerGateway struct {
	BattleTag     string
	Gateway       Gateway
	GameMode      GameMode
	Season        int
	Wins          int
	Losses        int
	MMR           int
	RankingPoints int
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
