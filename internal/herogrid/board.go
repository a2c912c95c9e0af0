package herogrid

// Board is the 5×5 grid. The zero value is an empty board.
type Board struct {
	cells [BoardSize][BoardSize]PieceID
}

// At returns the occupant of c, or "" when c is empty or out of bounds.
func (b *Board) At(c Cell) PieceID {
	if !c.InBounds() {
		return ""
	}
	return b.cells[c.Row][c.Col]
}

func (b *Board) IsEmpty(c Cell) bool { return b.At(c) == "" }

func (b *Board) set(c Cell, id PieceID) {
	if c.InBounds() {
		b.cells[c.Row][c.Col] = id
	}
}

func (b *Board) clear(c Cell) { b.set(c, "") }

// Find returns the cell holding id.
func (b *Board) Find(id PieceID) (Cell, bool) {
	if id == "" {
		return Cell{}, false
	}
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			if b.cells[r][c] == id {
				return Cell{Row: r, Col: c}, true
			}
		}
	}
	return Cell{}, false
}

// Grid copies the raw cells.
func (b *Board) Grid() [BoardSize][BoardSize]PieceID { return b.cells }

// Roster holds a seat's not-yet-placed pieces in their initial order.
type Roster struct {
	ids []PieceID
}

func newRoster(seat Seat) *Roster {
	return &Roster{ids: append([]PieceID(nil), rosterOrder[seat]...)}
}

func (r *Roster) Contains(id PieceID) bool {
	for _, x := range r.ids {
		if x == id {
			return true
		}
	}
	return false
}

func (r *Roster) Len() int { return len(r.ids) }

// IDs returns a copy; never nil.
func (r *Roster) IDs() []PieceID { return append([]PieceID{}, r.ids...) }

func (r *Roster) remove(id PieceID) {
	out := r.ids[:0]
	for _, x := range r.ids {
		if x != id {
			out = append(out, x)
		}
	}
	r.ids = out
}
