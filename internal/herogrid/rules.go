package herogrid

type vector struct {
	dRow int
	dCol int
}

// canonicalVectors are written for Seat B, whose forward decreases the row
// index. Seat A uses the 180° reflection, see orient.
var canonicalVectors = map[Direction]vector{
	Forward:      {-1, 0},
	Backward:     {1, 0},
	Left:         {0, -1},
	Right:        {0, 1},
	ForwardLeft:  {-1, -1},
	ForwardRight: {-1, 1},
	BackLeft:     {1, -1},
	BackRight:    {1, 1},
}

type archetypeRule struct {
	reach  int
	sweeps bool
	dirs   []Direction
}

var archetypeRules = map[Archetype]archetypeRule{
	Pawn:         {reach: 1, sweeps: false, dirs: []Direction{Forward, Backward, Left, Right}},
	StraightHero: {reach: 2, sweeps: true, dirs: []Direction{Forward, Backward, Left, Right}},
	DiagonalHero: {reach: 2, sweeps: true, dirs: []Direction{ForwardLeft, ForwardRight, BackLeft, BackRight}},
}

func (r archetypeRule) allows(d Direction) bool {
	for _, x := range r.dirs {
		if x == d {
			return true
		}
	}
	return false
}

func orient(seat Seat, v vector) vector {
	if seat == SeatA {
		return vector{dRow: -v.dRow, dCol: -v.dCol}
	}
	return v
}

// Step is a planned displacement. Path lists the cells swept for capture in
// travel order; it may contain out-of-bounds cells.
type Step struct {
	From Cell
	To   Cell
	Path []Cell
}

// Directions returns the directions an archetype accepts.
func Directions(a Archetype) []Direction {
	r, ok := archetypeRules[a]
	if !ok {
		return nil
	}
	return append([]Direction(nil), r.dirs...)
}

// PlanStep resolves the rule table for p standing on from. It does not look at
// the board.
func PlanStep(p Piece, from Cell, d Direction) (Step, error) {
	rule, ok := archetypeRules[p.Archetype]
	if !ok || !rule.allows(d) {
		return Step{}, reject(ErrIllegalDirection, p.ID, from, d)
	}
	v := orient(p.Seat, canonicalVectors[d])
	st := Step{From: from, To: from.offset(v, rule.reach)}
	if rule.sweeps {
		st.Path = make([]Cell, 0, rule.reach)
		for i := 1; i <= rule.reach; i++ {
			st.Path = append(st.Path, from.offset(v, i))
		}
	}
	return st, nil
}
