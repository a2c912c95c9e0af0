package match

import (
	"github.com/park285/herogrid/internal/herogrid"
	"github.com/park285/herogrid/pkg/herodto"
)

// ToGameState converts an engine snapshot into the wire shape.
func ToGameState(s herogrid.Snapshot) *herodto.GameState {
	grid := make([][]*string, herogrid.BoardSize)
	for r := range grid {
		grid[r] = make([]*string, herogrid.BoardSize)
		for c := range grid[r] {
			if id := s.Grid[r][c]; id != "" {
				v := string(id)
				grid[r][c] = &v
			}
		}
	}
	return &herodto.GameState{
		Grid:              grid,
		Player1Characters: idStrings(s.Unplaced[herogrid.SeatA]),
		Player2Characters: idStrings(s.Unplaced[herogrid.SeatB]),
		PlayerTurn:        s.Turn.Number(),
		// killedPlayer1 = A 의 말 중 잡힌 것 = B 가 잡은 목록
		KilledPlayer1Characters: idStrings(s.Casualties[herogrid.SeatB]),
		KilledPlayer2Characters: idStrings(s.Casualties[herogrid.SeatA]),
	}
}

func idStrings(ids []herogrid.PieceID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}
