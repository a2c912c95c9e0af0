package scoreboard

import (
	"context"
	"fmt"
	"testing"

	"github.com/park285/herogrid/pkg/herodto"
)

func TestMemoryStoreTallies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(2)
	for i, w := range []int{1, 2, 1} {
		if err := m.RecordResult(ctx, &herodto.MatchResult{MatchID: fmt.Sprintf("m%d", i), Winner: w}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	// 같은 매치는 한 번만 센다
	_ = m.RecordResult(ctx, &herodto.MatchResult{MatchID: "m0", Winner: 1})

	sb, _ := m.Scoreboard(ctx)
	if sb.Player1Wins != 2 || sb.Player2Wins != 1 {
		t.Fatalf("wins = %d/%d", sb.Player1Wins, sb.Player2Wins)
	}
	if len(sb.Recent) != 2 || sb.Recent[0].MatchID != "m2" || sb.Recent[1].MatchID != "m1" {
		t.Fatalf("recent = %+v", sb.Recent)
	}
	if err := m.RecordResult(ctx, &herodto.MatchResult{MatchID: "x", Winner: 0}); err == nil {
		t.Fatalf("expected invalid winner error")
	}
}

func TestMemoryStoreSeenIsBounded(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(10)
	m.seenCap = 2
	for i := 0; i < 3; i++ {
		if err := m.RecordResult(ctx, &herodto.MatchResult{MatchID: fmt.Sprintf("m%d", i), Winner: 1}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if len(m.seen) != 2 || len(m.seenOrder) != 2 {
		t.Fatalf("seen = %d, order = %d, want 2", len(m.seen), len(m.seenOrder))
	}
	if _, ok := m.seen["m0"]; ok {
		t.Fatalf("oldest id should be evicted")
	}
	// 아직 기억하는 id 는 계속 한 번만 센다
	_ = m.RecordResult(ctx, &herodto.MatchResult{MatchID: "m2", Winner: 1})
	sb, _ := m.Scoreboard(ctx)
	if sb.Player1Wins != 3 {
		t.Fatalf("wins = %d, want 3", sb.Player1Wins)
	}
}
