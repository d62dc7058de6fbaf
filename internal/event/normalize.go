package event

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wc3-stats/internal/domain"
)

var (
	ErrMalformedMapPath      = errors.New("malformed map path")
	ErrMalformedPlayerTag    = errors.New("malformed player tag")
	ErrUnsupportedMatchShape = errors.New("unsupported match shape")
)

const (
	mapPathSegment = 3
	mapSuffix      = ".w3x"
	mapPrefixLen   = 3 // "(2)", "(4)" style player-count prefix
)

// Normalize converts a raw match-finished payload into a canonical Matchup.
// Pure function: it validates shape and never touches stored state, so a
// rejected event leaves no trace anywhere.
func Normalize(ev MatchFinishedEvent) (domain.Matchup, error) {
	data := ev.Match

	mapName, err := parseMapName(data.Map)
	if err != nil {
		return domain.Matchup{}, err
	}

	if len(data.Players) < 2 {
		return domain.Matchup{}, fmt.Errorf("%w: %d players", ErrUnsupportedMatchShape, len(data.Players))
	}

	var winners, losers []domain.PlayerOutcome
	for _, p := range data.Players {
		outcome, err := parsePlayer(p)
		if err != nil {
			return domain.Matchup{}, err
		}
		if outcome.Won {
			winners = append(winners, outcome)
		} else {
			losers = append(losers, outcome)
		}
	}

	// A win/lose match has exactly two outcome classes, both non-empty.
	// Draws and free-for-all shapes are not supported.
	if len(winners) == 0 || len(losers) == 0 {
		return domain.Matchup{}, fmt.Errorf("%w: all players share one outcome", ErrUnsupportedMatchShape)
	}

	start := time.UnixMilli(data.StartTime).UTC()
	end := time.UnixMilli(data.EndTime).UTC()

	return domain.Matchup{
		MatchID:   data.ID,
		Map:       mapName,
		GameMode:  domain.GameMode(data.GameMode),
		Gateway:   domain.Gateway(data.Gateway),
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
		Teams: []domain.Team{
			{Players: winners},
			{Players: losers},
		},
	}, nil
}

// parseMapName extracts the bare map name from a path like
// "Maps/frozenthrone/community/(2)amazonia.w3x".
func parseMapName(path string) (string, error) {
	segments := strings.Split(path, "/")
	if len(segments) <= mapPathSegment {
		return "", fmt.Errorf("%w: %q has %d segments", ErrMalformedMapPath, path, len(segments))
	}

	name := strings.TrimSuffix(segments[mapPathSegment], mapSuffix)
	if len(name) <= mapPrefixLen {
		return "", fmt.Errorf("%w: %q", ErrMalformedMapPath, path)
	}

	return name[mapPrefixLen:], nil
}

func parsePlayer(p PlayerResult) (domain.PlayerOutcome, error) {
	name, _, found := strings.Cut(p.BattleTag, "#")
	if !found || name == "" {
		return domain.PlayerOutcome{}, fmt.Errorf("%w: %q", ErrMalformedPlayerTag, p.BattleTag)
	}

	return domain.PlayerOutcome{
		Name:      name,
		BattleTag: p.BattleTag,
		Race:      domain.Race(p.Race),
		Won:       p.Won,
		OldMMR:    int(p.MMR.Rating),
		NewMMR:    int(p.UpdatedMMR.Rating),
	}, nil
}
