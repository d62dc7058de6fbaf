package stats

import (
	"wc3-stats/internal/domain"
)

const UnrankedLeague = "unranked"

// Rank is the externally supplied ranking for one composite aggregate.
// Rank numbers are computed by the ranking subsystem, never here.
type Rank struct {
	RankNumber int    `json:"rankNumber"`
	League     string `json:"league"`
}

// RankedStat is a composite aggregate enriched with its external rank for
// read responses. It exists only at read time and is never persisted.
type RankedStat struct {
	domain.GameModeStatPerGateway
	RankNumber int    `json:"rankNumber"`
	League     string `json:"league"`
}

// MergeRank composes an aggregate with its external rank. A missing rank
// yields the unranked sentinel so consumers never see absent fields.
func MergeRank(s domain.GameModeStatPerGateway, r *Rank) RankedStat {
	if r == nil {
		return RankedStat{
			GameModeStatPerGateway: s,
			RankNumber:             0,
			League:                 UnrankedLeague,
		}
	}
	return RankedStat{
		GameModeStatPerGateway: s,
		RankNumber:             r.RankNumber,
		League:                 r.League,
	}
}
