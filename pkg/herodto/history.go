package herodto

import "time"

type MoveRecord struct {
	Seq       int       `json:"seq"`
	Kind      string    `json:"kind"` // "place" | "move"
	Player    int       `json:"player"`
	Character string    `json:"character"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Direction string    `json:"direction,omitempty"`
	Captured  []string  `json:"captured,omitempty"`
	At        time.Time `json:"at"`
}

// MatchResult is emitted once per finished match.
type MatchResult struct {
	MatchID   string       `json:"match_id"`
	Winner    int          `json:"winner"`
	Killed1   []string     `json:"killed_player1"`
	Killed2   []string     `json:"killed_player2"`
	Moves     []MoveRecord `json:"moves"`
	StartedAt time.Time    `json:"started_at"`
	EndedAt   time.Time    `json:"ended_at"`
}

type Scoreboard struct {
	Player1Wins int64          `json:"player1_wins"`
	Player2Wins int64          `json:"player2_wins"`
	Recent      []ResultDigest `json:"recent"`
}

// ResultDigest is the short form kept in the recent-results list.
type ResultDigest struct {
	MatchID string    `json:"match_id"`
	Winner  int       `json:"winner"`
	Moves   int       `json:"moves"`
	EndedAt time.Time `json:"ended_at"`
}
