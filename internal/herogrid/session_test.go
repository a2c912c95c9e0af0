package herogrid

import (
	"errors"
	"reflect"
	"testing"
)

// arrange builds a session past the placement phase with the given pieces on
// the board. Pieces not listed are treated as off the board.
func arrange(t *testing.T, turn Seat, placed map[PieceID]Cell) *Session {
	t.Helper()
	s := NewSession()
	s.rosters[SeatA] = &Roster{}
	s.rosters[SeatB] = &Roster{}
	for id, c := range placed {
		if _, ok := Lookup(id); !ok {
			t.Fatalf("unknown piece %q", id)
		}
		if !c.InBounds() || !s.board.IsEmpty(c) {
			t.Fatalf("cannot arrange %s at %+v", id, c)
		}
		s.board.set(c, id)
	}
	s.turn = turn
	return s
}

func wantReject(t *testing.T, err error, kind error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
	if !IsRejection(err) {
		t.Fatalf("expected *RejectError, got %T", err)
	}
}

func TestPlaceOutsideStartingRowNeverMutates(t *testing.T) {
	for _, seat := range []Seat{SeatA, SeatB} {
		s := NewSession()
		s.turn = seat
		before := s.Snapshot()
		for _, p := range Pieces(seat) {
			for row := 0; row < BoardSize; row++ {
				if row == seat.StartRow() {
					continue
				}
				for col := 0; col < BoardSize; col++ {
					_, err := s.Place(p.ID, Cell{Row: row, Col: col})
					wantReject(t, err, ErrWrongStartingRow)
				}
			}
		}
		if !reflect.DeepEqual(before, s.Snapshot()) {
			t.Fatalf("seat %s: state changed by rejected placements", seat)
		}
	}
}

func TestPlaceRosterExhaustionAdvancesTurn(t *testing.T) {
	s := NewSession()
	for i, p := range Pieces(SeatA) {
		out, err := s.Place(p.ID, Cell{Row: 0, Col: i})
		if err != nil {
			t.Fatalf("place %s: %v", p.ID, err)
		}
		last := i == RosterSize(SeatA)-1
		if !last && out.State.Turn != SeatA {
			t.Fatalf("turn changed after placement %d", i+1)
		}
		if last && out.State.Turn != SeatB {
			t.Fatalf("turn did not pass to B after last placement")
		}
	}
	if !s.InPlacement() {
		t.Fatalf("B still has pieces to place")
	}
	for i, p := range Pieces(SeatB) {
		if _, err := s.Place(p.ID, Cell{Row: 4, Col: i}); err != nil {
			t.Fatalf("place %s: %v", p.ID, err)
		}
	}
	if s.Turn() != SeatA {
		t.Fatalf("turn = %s, want A", s.Turn())
	}
	if s.InPlacement() {
		t.Fatalf("placement phase should be over")
	}
	snap := s.Snapshot()
	if len(snap.Unplaced[SeatA]) != 0 || len(snap.Unplaced[SeatB]) != 0 {
		t.Fatalf("rosters not empty: %+v", snap.Unplaced)
	}
}

func TestPlaceRejections(t *testing.T) {
	s := NewSession()
	if _, err := s.Place("P1", Cell{Row: 0, Col: 0}); err != nil {
		t.Fatalf("place P1: %v", err)
	}
	before := s.Snapshot()

	tests := []struct {
		name string
		id   PieceID
		at   Cell
		want error
	}{
		{"occupied", "H1", Cell{0, 0}, ErrOccupiedCell},
		{"out of bounds", "H1", Cell{0, 5}, ErrOutOfBounds},
		{"negative", "H1", Cell{-1, 0}, ErrOutOfBounds},
		{"unknown", "P10", Cell{0, 1}, ErrUnknownPiece},
		{"opponent piece", "P4", Cell{0, 1}, ErrWrongTurn},
		{"already placed", "P1", Cell{0, 1}, ErrNotInRoster},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Place(tt.id, tt.at)
			wantReject(t, err, tt.want)
			if !reflect.DeepEqual(before, s.Snapshot()) {
				t.Fatalf("state changed")
			}
		})
	}
}

// 배치가 끝나지 않아도 판 위의 말은 움직일 수 있다.
func TestMoveWhileRosterNotEmpty(t *testing.T) {
	s := NewSession()
	for i, p := range Pieces(SeatA) {
		if _, err := s.Place(p.ID, Cell{Row: 0, Col: i}); err != nil {
			t.Fatalf("place %s: %v", p.ID, err)
		}
	}
	if _, err := s.Place("P4", Cell{Row: 4, Col: 0}); err != nil {
		t.Fatalf("place P4: %v", err)
	}
	if s.Turn() != SeatB {
		t.Fatalf("turn = %s, want B", s.Turn())
	}

	out, err := s.Move("P4", Forward)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := out.State.Grid[3][0]; got != "P4" {
		t.Fatalf("cell (3,0) = %q, want P4", got)
	}
	if out.State.Grid[4][0] != "" {
		t.Fatalf("origin not cleared")
	}
	if out.State.Turn != SeatA {
		t.Fatalf("turn = %s, want A", out.State.Turn)
	}
	if n := len(out.State.Unplaced[SeatB]); n != RosterSize(SeatB)-1 {
		t.Fatalf("B roster = %d, want %d", n, RosterSize(SeatB)-1)
	}

	// 아직 배치하지 않은 말은 판에 없다.
	_, err = s.Move("H1", Forward)
	wantReject(t, err, ErrPieceNotFound)
}

func TestPawnDirectionsMirrored(t *testing.T) {
	tests := []struct {
		id   PieceID
		dir  Direction
		want Cell
	}{
		// Seat A faces increasing rows; its left is increasing columns.
		{"P1", Forward, Cell{3, 2}},
		{"P1", Backward, Cell{1, 2}},
		{"P1", Left, Cell{2, 3}},
		{"P1", Right, Cell{2, 1}},
		{"P4", Forward, Cell{1, 2}},
		{"P4", Backward, Cell{3, 2}},
		{"P4", Left, Cell{2, 1}},
		{"P4", Right, Cell{2, 3}},
	}
	for _, tt := range tests {
		t.Run(string(tt.id)+"_"+string(tt.dir), func(t *testing.T) {
			p, _ := Lookup(tt.id)
			s := arrange(t, p.Seat, map[PieceID]Cell{tt.id: {2, 2}})
			out, err := s.Move(tt.id, tt.dir)
			if err != nil {
				t.Fatalf("move: %v", err)
			}
			if got := out.State.Grid[tt.want.Row][tt.want.Col]; got != tt.id {
				t.Fatalf("expected %s at %+v, grid=%v", tt.id, tt.want, out.State.Grid)
			}
			if out.State.Grid[2][2] != "" {
				t.Fatalf("origin not cleared")
			}
		})
	}
}

func TestPawnNeverCaptures(t *testing.T) {
	for _, blocker := range []PieceID{"P4", "P2"} {
		t.Run(string(blocker), func(t *testing.T) {
			s := arrange(t, SeatA, map[PieceID]Cell{"P1": {2, 2}, blocker: {3, 2}})
			before := s.Snapshot()
			_, err := s.Move("P1", Forward)
			wantReject(t, err, ErrOccupiedCell)
			if !reflect.DeepEqual(before, s.Snapshot()) {
				t.Fatalf("state changed")
			}
		})
	}
}

func TestStraightHeroPathCapture(t *testing.T) {
	// Seat B faces decreasing rows.
	s := arrange(t, SeatB, map[PieceID]Cell{"H3": {2, 2}, "P1": {1, 2}})
	out, err := s.Move("H3", Forward)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	g := out.State.Grid
	if g[2][2] != "" || g[1][2] != "" || g[0][2] != "H3" {
		t.Fatalf("unexpected grid: %v", g)
	}
	if !reflect.DeepEqual(out.State.Casualties[SeatB], []PieceID{"P1"}) {
		t.Fatalf("casualties = %v", out.State.Casualties[SeatB])
	}
	if !reflect.DeepEqual(out.Captured, []PieceID{"P1"}) {
		t.Fatalf("captured = %v", out.Captured)
	}
	if out.State.Turn != SeatA {
		t.Fatalf("turn = %s", out.State.Turn)
	}

	// same scenario from Seat A's side of the board
	s = arrange(t, SeatA, map[PieceID]Cell{"H1": {2, 2}, "P4": {3, 2}})
	out, err = s.Move("H1", Forward)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if out.State.Grid[4][2] != "H1" || out.State.Grid[3][2] != "" {
		t.Fatalf("unexpected grid: %v", out.State.Grid)
	}
	if !reflect.DeepEqual(out.State.Casualties[SeatA], []PieceID{"P4"}) {
		t.Fatalf("casualties = %v", out.State.Casualties[SeatA])
	}
}

func TestHeroCapturesTwoAndLandsOnSecond(t *testing.T) {
	s := arrange(t, SeatA, map[PieceID]Cell{"H1": {1, 1}, "P4": {2, 1}, "P5": {3, 1}})
	out, err := s.Move("H1", Forward)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !reflect.DeepEqual(out.Captured, []PieceID{"P4", "P5"}) {
		t.Fatalf("captured = %v", out.Captured)
	}
	if out.State.Grid[3][1] != "H1" {
		t.Fatalf("hero did not land: %v", out.State.Grid)
	}
}

func TestHeroNotBlockedByOwnPiece(t *testing.T) {
	s := arrange(t, SeatA, map[PieceID]Cell{"H1": {1, 1}, "P1": {2, 1}})
	out, err := s.Move("H1", Forward)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if out.State.Grid[2][1] != "P1" || out.State.Grid[3][1] != "H1" {
		t.Fatalf("unexpected grid: %v", out.State.Grid)
	}
	if len(out.Captured) != 0 || len(out.State.Casualties[SeatA]) != 0 {
		t.Fatalf("own piece must not be captured")
	}
}

func TestHeroOccupiedLandingRejectsCaptures(t *testing.T) {
	s := arrange(t, SeatA, map[PieceID]Cell{"H1": {2, 2}, "P4": {3, 2}, "P2": {4, 2}})
	before := s.Snapshot()
	_, err := s.Move("H1", Forward)
	wantReject(t, err, ErrOccupiedCell)
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Fatalf("rejected move mutated state")
	}
}

func TestHeroOutOfBoundsRejectsCaptures(t *testing.T) {
	s := arrange(t, SeatA, map[PieceID]Cell{"H1": {3, 2}, "P4": {4, 2}})
	before := s.Snapshot()
	_, err := s.Move("H1", Forward)
	wantReject(t, err, ErrOutOfBounds)
	var re *RejectError
	if !errors.As(err, &re) || re.Cell != (Cell{5, 2}) {
		t.Fatalf("expected destination (5,2) in rejection, got %v", err)
	}
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Fatalf("rejected move mutated state")
	}
}

func TestDiagonalHero(t *testing.T) {
	s := arrange(t, SeatA, map[PieceID]Cell{"H2": {1, 1}, "H4": {2, 2}})
	out, err := s.Move("H2", ForwardLeft)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if out.State.Grid[3][3] != "H2" || !reflect.DeepEqual(out.Captured, []PieceID{"H4"}) {
		t.Fatalf("grid=%v captured=%v", out.State.Grid, out.Captured)
	}

	s = arrange(t, SeatB, map[PieceID]Cell{"H4": {3, 3}})
	out, err = s.Move("H4", ForwardLeft)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if out.State.Grid[1][1] != "H4" {
		t.Fatalf("grid=%v", out.State.Grid)
	}
}

func TestMoveRejections(t *testing.T) {
	tests := []struct {
		name string
		id   PieceID
		dir  Direction
		want error
	}{
		{"pawn diagonal", "P1", ForwardLeft, ErrIllegalDirection},
		{"diagonal hero straight", "H2", Forward, ErrIllegalDirection},
		{"straight hero diagonal", "H1", BackRight, ErrIllegalDirection},
		{"opponent piece", "P4", Forward, ErrWrongTurn},
		{"not on board", "P3", Forward, ErrPieceNotFound},
		{"unknown", "X9", Forward, ErrUnknownPiece},
		{"off the edge", "P2", Right, ErrOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := arrange(t, SeatA, map[PieceID]Cell{"P1": {2, 2}, "H1": {1, 1}, "H2": {1, 3}, "P2": {2, 0}, "P4": {4, 4}})
			before := s.Snapshot()
			_, err := s.Move(tt.id, tt.dir)
			wantReject(t, err, tt.want)
			if !reflect.DeepEqual(before, s.Snapshot()) {
				t.Fatalf("state changed")
			}
		})
	}
}

func TestTurnAlternatesOnEveryMove(t *testing.T) {
	s := arrange(t, SeatA, map[PieceID]Cell{"P1": {1, 0}, "P4": {3, 4}, "H1": {1, 2}, "P5": {2, 2}})
	moves := []struct {
		id  PieceID
		dir Direction
	}{
		{"P1", Forward},  // A, no capture
		{"P4", Forward},  // B, no capture
		{"H1", Forward},  // A, captures P5
		{"P4", Backward}, // B
	}
	want := SeatB
	for _, mv := range moves {
		out, err := s.Move(mv.id, mv.dir)
		if err != nil {
			t.Fatalf("move %s %s: %v", mv.id, mv.dir, err)
		}
		if out.State.Turn != want {
			t.Fatalf("after %s turn = %s, want %s", mv.id, out.State.Turn, want)
		}
		want = want.Other()
	}
}

func TestWinResetsSession(t *testing.T) {
	s := arrange(t, SeatA, map[PieceID]Cell{"H1": {2, 2}, "P6": {3, 2}})
	s.casualties[SeatA] = []PieceID{"P4", "H3", "H4", "P5"}

	out, err := s.Move("H1", Forward)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if out.Winner != SeatA {
		t.Fatalf("winner = %s", out.Winner)
	}
	if out.Final == nil || len(out.Final.Casualties[SeatA]) != RosterSize(SeatB) {
		t.Fatalf("final snapshot missing the winning capture: %+v", out.Final)
	}
	if !reflect.DeepEqual(out.State, NewSession().Snapshot()) {
		t.Fatalf("state after win is not the initial configuration: %+v", out.State)
	}
	if !reflect.DeepEqual(s.Snapshot(), NewSession().Snapshot()) {
		t.Fatalf("session not reset")
	}
}

func TestNoWinBelowThreshold(t *testing.T) {
	s := arrange(t, SeatA, map[PieceID]Cell{"H1": {2, 2}, "P6": {3, 2}, "P5": {0, 0}})
	s.casualties[SeatA] = []PieceID{"P4", "H3"}
	out, err := s.Move("H1", Forward)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if out.Winner != SeatNone || out.Final != nil {
		t.Fatalf("unexpected win")
	}
	if len(out.State.Casualties[SeatA]) != 3 {
		t.Fatalf("casualties = %v", out.State.Casualties[SeatA])
	}
}
