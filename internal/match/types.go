package match

import (
	"context"

	"github.com/park285/herogrid/internal/herogrid"
	"github.com/park285/herogrid/pkg/herodto"
)

// Update is what a committed request produces.
type Update struct {
	MatchID  string
	State    herogrid.Snapshot
	Captured []herogrid.PieceID
	// Result is set when the request ended the match; State is then the fresh board.
	Result *herodto.MatchResult
}

// ResultRecorder receives finished matches (scoreboard, archive, webhook).
type ResultRecorder interface {
	RecordResult(ctx context.Context, r *herodto.MatchResult) error
}

// RecorderFunc adapts a plain function.
type RecorderFunc func(ctx context.Context, r *herodto.MatchResult) error

func (f RecorderFunc) RecordResult(ctx context.Context, r *herodto.MatchResult) error {
	return f(ctx, r)
}
