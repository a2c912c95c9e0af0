package match

import (
	"context"
	"testing"
	"time"

	"github.com/park285/herogrid/pkg/herodto"
)

func TestResultRow(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	res := &herodto.MatchResult{
		MatchID:   " m-1 ",
		Winner:    2,
		Killed1:   []string{"P1"},
		Moves:     []herodto.MoveRecord{{Seq: 1, Kind: "place", Player: 1, Character: "P1"}},
		StartedAt: start,
		EndedAt:   start.Add(90 * time.Second),
	}
	row, err := resultRow(res)
	if err != nil {
		t.Fatalf("resultRow: %v", err)
	}
	if row.matchID != "m-1" || row.result != "0-1" || row.moveCount != 1 || row.durationMS != 90000 {
		t.Fatalf("unexpected row: %+v", row)
	}
	if row.killed1 != `["P1"]` || row.killed2 != `[]` {
		t.Fatalf("killed columns: %s / %s", row.killed1, row.killed2)
	}

	res.EndedAt = start.Add(-time.Second)
	row, _ = resultRow(res)
	if row.durationMS != 0 {
		t.Fatalf("negative duration must clamp to 0")
	}

	if _, err := resultRow(&herodto.MatchResult{}); err == nil {
		t.Fatalf("expected error for missing match id")
	}
}

func TestResultToken(t *testing.T) {
	if resultToken(1) != "1-0" || resultToken(2) != "0-1" || resultToken(0) != "*" {
		t.Fatalf("unexpected result tokens")
	}
}

func TestNilRepositoryIsNoop(t *testing.T) {
	var r *Repository
	if err := r.RecordResult(context.Background(), &herodto.MatchResult{MatchID: "x"}); err != nil {
		t.Fatalf("nil repository: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
	if _, err := NewRepository(" "); err == nil {
		t.Fatalf("expected DATABASE_URL error")
	}
}
