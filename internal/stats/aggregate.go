package stats

import (
	"time"

	"wc3-stats/internal/domain"
)

// ApplyToProfile folds a single outcome into a player's global profile,
// creating the profile when none exists yet. The fold is strictly additive
// and deterministic: the same outcome sequence applied in the same order
// always produces the same profile. Re-applying the same event counts it
// again; dedup belongs to the delivery layer.
func ApplyToProfile(p *domain.PlayerProfile, o domain.PlayerOutcome, mode domain.GameMode) *domain.PlayerProfile {
	now := time.Now().UTC()
	if p == nil {
		p = &domain.PlayerProfile{
			BattleTag: o.BattleTag,
			Name:      o.Name,
			CreatedAt: now,
		}
	}
	p.UpdatedAt = now

	if o.Won {
		p.TotalWins++
	} else {
		p.TotalLosses++
	}

	rs := raceStat(p, o.Race)
	ms := gameModeStat(p, mode)
	if o.Won {
		rs.Wins++
		ms.Wins++
	} else {
		rs.Losses++
		ms.Losses++
	}

	return p
}

// raceStat returns the counter entry for the race, appending a zeroed entry
// on first sight. Entries keep first-observed order for stable display.
func raceStat(p *domain.PlayerProfile, race domain.Race) *domain.RaceStat {
	for i := range p.RaceStats {
		if p.RaceStats[i].Race == race {
			return &p.RaceStats[i]
		}
	}
	p.RaceStats = append(p.RaceStats, domain.RaceStat{Race: race})
	return &p.RaceStats[len(p.RaceStats)-1]
}

func gameModeStat(p *domain.PlayerProfile, mode domain.GameMode) *domain.GameModeStat {
	for i := range p.GameModeStats {
		if p.GameModeStats[i].GameMode == mode {
			return &p.GameModeStats[i]
		}
	}
	p.GameModeStats = append(p.GameModeStats, domain.GameModeStat{GameMode: mode})
	return &p.GameModeStats[len(p.GameModeStats)-1]
}

// ApplyToGameModeStat folds one outcome into the composite
// (player, gateway, game mode, season) aggregate. Win/loss counters are
// additive; MMR is last-write-wins from the outcome's post-match rating, so
// callers must serialize updates per key to keep the latest rating.
// RankingPoints and rank fields are never touched on this path.
func ApplyToGameModeStat(s *domain.GameModeStatPerGateway, key CompositeKey, o domain.PlayerOutcome) *domain.GameModeStatPerGateway {
	now := time.Now().UTC()
	if s == nil {
		s = &domain.GameModeStatPerGateway{
			BattleTag: key.BattleTag,
			Gateway:   key.Gateway,
			GameMode:  key.GameMode,
			Season:    key.Season,
			CreatedAt: now,
		}
	}
	s.UpdatedAt = now

	if o.Won {
		s.Wins++
	} else {
		s.Losses++
	}
	s.MMR = o.NewMMR

	return s
}
