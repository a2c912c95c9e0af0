package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/park285/herogrid/internal/herogrid"
	"github.com/park285/herogrid/internal/match"
	"github.com/park285/herogrid/pkg/herodto"
)

// frame-level rejections; they never reach the engine
var (
	errBadRequest  = errors.New("bad request")
	errUnknownType = errors.New("unknown message type")
)

type frameError struct {
	kind error
	typ  string
}

func (e *frameError) Error() string { return fmt.Sprintf("%s: %q", e.kind, e.typ) }
func (e *frameError) Unwrap() error { return e.kind }

func (g *Gateway) handleFrame(c *client, data []byte) {
	var req herodto.Request
	if err := json.Unmarshal(data, &req); err != nil {
		g.reply(c, g.describe(errBadRequest))
		return
	}

	switch strings.ToUpper(strings.TrimSpace(req.Type)) {
	case herodto.TypePlace:
		id := herogrid.PieceID(strings.TrimSpace(req.Character))
		if id == "" || req.Row == nil || req.Col == nil {
			g.reply(c, g.describe(errBadRequest))
			return
		}
		at := herogrid.Cell{Row: *req.Row, Col: *req.Col}
		g.mu.Lock()
		defer g.mu.Unlock()
		up, err := g.mgr.Place(id, at)
		if err != nil {
			g.replyLocked(c, g.describe(err))
			return
		}
		g.publish(up)

	case herodto.TypeMove:
		id := herogrid.PieceID(strings.TrimSpace(req.Character))
		if id == "" || strings.TrimSpace(req.Direction) == "" {
			g.reply(c, g.describe(errBadRequest))
			return
		}
		dir, ok := herogrid.ParseDirection(req.Direction)
		if !ok {
			g.reply(c, g.describe(&herogrid.RejectError{Kind: herogrid.ErrIllegalDirection, Piece: id, Direction: herogrid.Direction(req.Direction)}))
			return
		}
		g.mu.Lock()
		defer g.mu.Unlock()
		up, err := g.mgr.Move(id, dir)
		if err != nil {
			g.replyLocked(c, g.describe(err))
			return
		}
		g.publish(up)

	case herodto.TypeReset:
		g.mu.Lock()
		defer g.mu.Unlock()
		g.publish(g.mgr.Reset())

	default:
		g.reply(c, g.describe(&frameError{kind: errUnknownType, typ: req.Type}))
	}
}

// publish broadcasts a committed update; caller holds mu.
func (g *Gateway) publish(up *match.Update) {
	if up.Result != nil {
		g.broadcast(herodto.Event{Type: herodto.TypeWin, Winner: up.Result.Winner})
	}
	g.broadcast(herodto.Event{Type: herodto.TypeUpdate, GameState: match.ToGameState(up.State)})
	if up.Result != nil {
		g.archive(up.Result)
	}
}

// describe maps a rejection to its catalog message.
func (g *Gateway) describe(err error) herodto.DomainError {
	var fe *frameError
	if errors.As(err, &fe) {
		return g.message("unknown_type", map[string]any{"Type": fe.typ}, err)
	}
	var re *herogrid.RejectError
	if !errors.As(err, &re) {
		return g.message("bad_request", nil, err)
	}
	data := map[string]any{
		"Row":       re.Cell.Row,
		"Col":       re.Cell.Col,
		"StartRow":  re.Seat.StartRow(),
		"Player":    re.Seat.Number(),
		"Piece":     string(re.Piece),
		"Direction": string(re.Direction),
	}
	return g.message(rejectCode(re.Kind), data, err)
}

func (g *Gateway) message(code string, data any, err error) herodto.DomainError {
	return herodto.DomainError{Code: code, Message: g.cat.RenderOr("reject."+code, data, err.Error())}
}

func rejectCode(kind error) string {
	switch {
	case errors.Is(kind, herogrid.ErrOccupiedCell):
		return "occupied"
	case errors.Is(kind, herogrid.ErrWrongStartingRow):
		return "wrong_starting_row"
	case errors.Is(kind, herogrid.ErrWrongTurn):
		return "wrong_turn"
	case errors.Is(kind, herogrid.ErrIllegalDirection):
		return "illegal_direction"
	case errors.Is(kind, herogrid.ErrPieceNotFound):
		return "not_found"
	case errors.Is(kind, herogrid.ErrOutOfBounds):
		return "out_of_bounds"
	case errors.Is(kind, herogrid.ErrUnknownPiece):
		return "unknown_piece"
	case errors.Is(kind, herogrid.ErrNotInRoster):
		return "not_in_roster"
	default:
		return "bad_request"
	}
}
