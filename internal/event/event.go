package event

// MatchFinishedEvent is the raw payload delivered by the match event source.
// Delivery is at-least-once and ordering per player is not guaranteed across
// gateways; dedup is the delivery layer's problem, not ours.
type MatchFinishedEvent struct {
	ID    string    `json:"id,omitempty"`
	Match MatchData `json:"match"`
}

type MatchData struct {
	ID        int64          `json:"id"`
	Map       string         `json:"map"`
	GameMode  int            `json:"gameMode"`
	Gateway   int            `json:"gateway"`
	StartTime int64          `json:"startTime"` // epoch millis
	EndTime   int64          `json:"endTime"`   // epoch millis
	Players   []PlayerResult `json:"players"`
}

type PlayerResult struct {
	BattleTag  string    `json:"battleTag"` // "name#discriminator"
	Race       int       `json:"race"`
	Won        bool      `json:"won"`
	MMR        MMRRating `json:"mmr"`
	UpdatedMMR MMRRating `json:"updatedMmr"`
}

type MMRRating struct {
	Rating float64 `json:"rating"`
}
