package herodto

// Message types on the wire.
const (
	TypePlace = "PLACE"
	TypeMove  = "MOVE"
	TypeReset = "RESET"

	TypeInit        = "INIT"
	TypeUpdate      = "UPDATE"
	TypeInvalidMove = "INVALID_MOVE"
	TypeWin         = "WIN"
)

// Request is a client frame. Row/Col are pointers so a missing field can be
// told apart from zero.
type Request struct {
	Type      string `json:"type"`
	Character string `json:"character,omitempty"`
	Row       *int   `json:"row,omitempty"`
	Col       *int   `json:"col,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// Event is a server frame.
type Event struct {
	Type      string     `json:"type"`
	GameState *GameState `json:"gameState,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	Winner    int        `json:"winner,omitempty"`
}
