package herogrid

// 말 식별자는 접두사가 아닌 값 비교로만 조회한다 (P1 vs P10 오분류 방지).
var registry = map[PieceID]Piece{
	"P1": {ID: "P1", Seat: SeatA, Archetype: Pawn},
	"H1": {ID: "H1", Seat: SeatA, Archetype: StraightHero},
	"H2": {ID: "H2", Seat: SeatA, Archetype: DiagonalHero},
	"P2": {ID: "P2", Seat: SeatA, Archetype: Pawn},
	"P3": {ID: "P3", Seat: SeatA, Archetype: Pawn},

	"P4": {ID: "P4", Seat: SeatB, Archetype: Pawn},
	"H3": {ID: "H3", Seat: SeatB, Archetype: StraightHero},
	"H4": {ID: "H4", Seat: SeatB, Archetype: DiagonalHero},
	"P5": {ID: "P5", Seat: SeatB, Archetype: Pawn},
	"P6": {ID: "P6", Seat: SeatB, Archetype: Pawn},
}

// rosterOrder keeps the initial roster listing stable for snapshots.
var rosterOrder = map[Seat][]PieceID{
	SeatA: {"P1", "H1", "H2", "P2", "P3"},
	SeatB: {"P4", "H3", "H4", "P5", "P6"},
}

// Lookup returns the registry entry for id.
func Lookup(id PieceID) (Piece, bool) {
	p, ok := registry[id]
	return p, ok
}

// Pieces lists a seat's pieces in roster order.
func Pieces(seat Seat) []Piece {
	ids := rosterOrder[seat]
	out := make([]Piece, 0, len(ids))
	for _, id := range ids {
		out = append(out, registry[id])
	}
	return out
}

// RosterSize is the number of pieces a seat starts with.
func RosterSize(seat Seat) int { return len(rosterOrder[seat]) }
