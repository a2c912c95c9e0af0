package herogrid

import "strings"

// BoardSize is the width and height of the grid.
const BoardSize = 5

// Seat identifies one of the two logical players.
type Seat int

const (
	SeatNone Seat = iota
	SeatA
	SeatB
)

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	switch s {
	case SeatA:
		return SeatB
	case SeatB:
		return SeatA
	default:
		return SeatNone
	}
}

// Number is the 1-based player number used on the wire (A=1, B=2).
func (s Seat) Number() int {
	switch s {
	case SeatA:
		return 1
	case SeatB:
		return 2
	default:
		return 0
	}
}

// StartRow is the only row the seat may place pieces on.
func (s Seat) StartRow() int {
	if s == SeatB {
		return BoardSize - 1
	}
	return 0
}

func (s Seat) String() string {
	switch s {
	case SeatA:
		return "A"
	case SeatB:
		return "B"
	default:
		return "-"
	}
}

// Archetype decides how a piece moves and whether it captures.
type Archetype string

const (
	Pawn         Archetype = "pawn"
	StraightHero Archetype = "straight_hero"
	DiagonalHero Archetype = "diagonal_hero"
)

// PieceID is the fixed identity token of a piece, e.g. "H2".
type PieceID string

// Piece is a registry entry.
type Piece struct {
	ID        PieceID
	Seat      Seat
	Archetype Archetype
}

// Cell is a (row, col) coordinate. Cells outside the grid are representable
// so that move planning can describe out-of-bounds targets.
type Cell struct {
	Row int
	Col int
}

func (c Cell) InBounds() bool {
	return c.Row >= 0 && c.Row < BoardSize && c.Col >= 0 && c.Col < BoardSize
}

func (c Cell) offset(v vector, n int) Cell {
	return Cell{Row: c.Row + v.dRow*n, Col: c.Col + v.dCol*n}
}

// Direction is a logical direction relative to the mover's forward.
type Direction string

const (
	Forward      Direction = "F"
	Backward     Direction = "B"
	Left         Direction = "L"
	Right        Direction = "R"
	ForwardLeft  Direction = "FL"
	ForwardRight Direction = "FR"
	BackLeft     Direction = "BL"
	BackRight    Direction = "BR"
)

// ParseDirection accepts the wire spelling (case-insensitive).
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := canonicalVectors[d]; !ok {
		return "", false
	}
	return d, true
}
