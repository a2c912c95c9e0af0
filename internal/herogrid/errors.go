package herogrid

import (
	"errors"
	"fmt"
)

// Rejections. Every one is detected before the session is touched.
var (
	ErrOccupiedCell     = errors.New("cell occupied")
	ErrWrongStartingRow = errors.New("wrong starting row")
	ErrWrongTurn        = errors.New("wrong turn")
	ErrIllegalDirection = errors.New("cannot move in that direction")
	ErrPieceNotFound    = errors.New("piece not found")
	ErrOutOfBounds      = errors.New("move out of bounds")
	ErrUnknownPiece     = errors.New("unknown piece")
	ErrNotInRoster      = errors.New("piece already placed")
)

// RejectError carries the request context of a rejection. Kind is one of the
// sentinels above and is what errors.Is matches.
type RejectError struct {
	Kind      error
	Piece     PieceID
	Cell      Cell
	Direction Direction
	Seat      Seat
}

func (e *RejectError) Error() string {
	switch {
	case e.Direction != "":
		return fmt.Sprintf("%s: %s dir=%s at (%d, %d)", e.Kind, e.Piece, e.Direction, e.Cell.Row, e.Cell.Col)
	case e.Piece != "":
		return fmt.Sprintf("%s: %s at (%d, %d)", e.Kind, e.Piece, e.Cell.Row, e.Cell.Col)
	default:
		return fmt.Sprintf("%s: (%d, %d)", e.Kind, e.Cell.Row, e.Cell.Col)
	}
}

func (e *RejectError) Unwrap() error { return e.Kind }

func reject(kind error, id PieceID, c Cell, d Direction) *RejectError {
	return &RejectError{Kind: kind, Piece: id, Cell: c, Direction: d}
}

// IsRejection reports whether err is a rule rejection (as opposed to a bug).
func IsRejection(err error) bool {
	var re *RejectError
	return errors.As(err, &re)
}
