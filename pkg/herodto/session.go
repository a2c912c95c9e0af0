package herodto

// GameState mirrors the snapshot shape browsers already consume.
// KilledPlayerN lists player N's pieces that the opponent captured.
type GameState struct {
	Grid                    [][]*string `json:"grid"`
	Player1Characters       []string    `json:"player1Characters"`
	Player2Characters       []string    `json:"player2Characters"`
	PlayerTurn              int         `json:"playerTurn"`
	KilledPlayer1Characters []string    `json:"killedPlayer1Characters"`
	KilledPlayer2Characters []string    `json:"killedPlayer2Characters"`
}
