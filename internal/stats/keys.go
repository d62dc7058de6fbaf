package stats

import (
	"errors"
	"fmt"

	"wc3-stats/internal/domain"
)

var ErrDuplicateParticipant = errors.New("duplicate participant")

// CompositeKey addresses one (player, gateway, game mode, season) aggregate.
// Season boundaries are external policy, so the season always arrives as a
// parameter and is never derived from match timestamps.
type CompositeKey struct {
	BattleTag string
	Gateway   domain.Gateway
	GameMode  domain.GameMode
	Season    int
}

// PlayerKeys is the set of aggregates one participant touches: the global
// profile keyed by battle tag plus one composite aggregate.
type PlayerKeys struct {
	Outcome   domain.PlayerOutcome
	Composite CompositeKey
}

// ResolveKeys derives the aggregate keys touched by a normalized matchup,
// one entry per participant across both teams. A battle tag appearing twice
// in the same matchup is malformed input and is rejected before any fold
// begins, so partial application can never happen.
func ResolveKeys(m domain.Matchup, season int) ([]PlayerKeys, error) {
	var keys []PlayerKeys
	seen := make(map[string]bool)

	for _, team := range m.Teams {
		for _, outcome := range team.Players {
			if seen[outcome.BattleTag] {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, outcome.BattleTag)
			}
			seen[outcome.BattleTag] = true

			keys = append(keys, PlayerKeys{
				Outcome: outcome,
				Composite: CompositeKey{
					BattleTag: outcome.BattleTag,
					Gateway:   m.Gateway,
					GameMode:  m.GameMode,
					Season:    season,
				},
			})
		}
	}

	return keys, nil
}
