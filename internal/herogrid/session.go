package herogrid

// Snapshot is a deep copy of the session. Casualties are keyed by the
// capturing seat.
type Snapshot struct {
	Grid       [BoardSize][BoardSize]PieceID
	Unplaced   map[Seat][]PieceID
	Casualties map[Seat][]PieceID
	Turn       Seat
}

// Outcome is returned by a committed Place or Move.
type Outcome struct {
	// State is the session after the commit (after the reset when Winner is set).
	State    Snapshot
	Captured []PieceID
	Winner   Seat
	// Final is the board that produced the win, taken before the reset.
	Final *Snapshot
}

// Session is one match. It is not safe for concurrent use; callers serialize
// access (see match.Manager).
type Session struct {
	board      Board
	rosters    map[Seat]*Roster
	casualties map[Seat][]PieceID
	turn       Seat
}

func NewSession() *Session {
	s := &Session{}
	s.Reset()
	return s
}

// Reset restores the initial configuration.
func (s *Session) Reset() {
	s.board = Board{}
	s.rosters = map[Seat]*Roster{SeatA: newRoster(SeatA), SeatB: newRoster(SeatB)}
	s.casualties = map[Seat][]PieceID{SeatA: {}, SeatB: {}}
	s.turn = SeatA
}

func (s *Session) Turn() Seat { return s.turn }

// InPlacement reports whether either roster still holds pieces.
func (s *Session) InPlacement() bool {
	return s.rosters[SeatA].Len() > 0 || s.rosters[SeatB].Len() > 0
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Grid: s.board.Grid(),
		Unplaced: map[Seat][]PieceID{
			SeatA: s.rosters[SeatA].IDs(),
			SeatB: s.rosters[SeatB].IDs(),
		},
		Casualties: map[Seat][]PieceID{
			SeatA: append([]PieceID{}, s.casualties[SeatA]...),
			SeatB: append([]PieceID{}, s.casualties[SeatB]...),
		},
		Turn: s.turn,
	}
}

// Place puts a roster piece on the acting seat's starting row. The turn only
// passes once the acting seat's roster is empty.
func (s *Session) Place(id PieceID, at Cell) (*Outcome, error) {
	seat := s.turn
	fail := func(kind error) error {
		e := reject(kind, id, at, "")
		e.Seat = seat
		return e
	}
	if !at.InBounds() {
		return nil, fail(ErrOutOfBounds)
	}
	piece, ok := Lookup(id)
	if !ok {
		return nil, fail(ErrUnknownPiece)
	}
	if !s.board.IsEmpty(at) {
		return nil, fail(ErrOccupiedCell)
	}
	if at.Row != seat.StartRow() {
		return nil, fail(ErrWrongStartingRow)
	}
	if piece.Seat != seat {
		return nil, fail(ErrWrongTurn)
	}
	roster := s.rosters[seat]
	if !roster.Contains(id) {
		return nil, fail(ErrNotInRoster)
	}

	s.board.set(at, id)
	roster.remove(id)
	if roster.Len() == 0 {
		s.turn = seat.Other()
	}
	return &Outcome{State: s.Snapshot(), Captured: []PieceID{}}, nil
}

// Move resolves a move for the piece owned by the seat to act. A placed piece
// may move while rosters still hold pieces. Path captures and the landing are
// committed together or not at all.
func (s *Session) Move(id PieceID, d Direction) (*Outcome, error) {
	seat := s.turn
	fail := func(kind error, at Cell) error {
		e := reject(kind, id, at, d)
		e.Seat = seat
		return e
	}
	piece, ok := Lookup(id)
	if !ok {
		return nil, fail(ErrUnknownPiece, Cell{})
	}
	if piece.Seat != seat {
		return nil, fail(ErrWrongTurn, Cell{})
	}
	if r, ok := archetypeRules[piece.Archetype]; !ok || !r.allows(d) {
		return nil, fail(ErrIllegalDirection, Cell{})
	}
	from, ok := s.board.Find(id)
	if !ok {
		return nil, fail(ErrPieceNotFound, Cell{})
	}
	step, err := PlanStep(piece, from, d)
	if err != nil {
		return nil, err
	}

	// capture pass is computed first but only applied after the landing check
	var swept []Cell
	for _, c := range step.Path {
		occ := s.board.At(c)
		if occ == "" {
			continue
		}
		if p, ok := Lookup(occ); ok && p.Seat != seat {
			swept = append(swept, c)
		}
	}
	if !step.To.InBounds() {
		return nil, fail(ErrOutOfBounds, step.To)
	}
	if !s.board.IsEmpty(step.To) && !containsCell(swept, step.To) {
		return nil, fail(ErrOccupiedCell, step.To)
	}

	captured := make([]PieceID, 0, len(swept))
	for _, c := range swept {
		victim := s.board.At(c)
		s.board.clear(c)
		s.casualties[seat] = append(s.casualties[seat], victim)
		captured = append(captured, victim)
	}
	s.board.clear(from)
	s.board.set(step.To, id)
	s.turn = seat.Other()

	out := &Outcome{Captured: captured}
	if w := s.winner(); w != SeatNone {
		final := s.Snapshot()
		out.Winner = w
		out.Final = &final
		s.Reset()
	}
	out.State = s.Snapshot()
	return out, nil
}

// winner returns the seat whose casualty list holds the whole opposing roster.
func (s *Session) winner() Seat {
	for _, seat := range []Seat{SeatA, SeatB} {
		if len(s.casualties[seat]) >= RosterSize(seat.Other()) {
			return seat
		}
	}
	return SeatNone
}

func containsCell(cells []Cell, c Cell) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}
