package scoreboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/park285/herogrid/pkg/herodto"
)

// 중복 판정용으로 기억하는 match id 개수
const defaultSeenCap = 1024

// MemoryStore is the in-process scoreboard used when no REDIS_URL is configured.
// Tallies are lost on restart. Only the most recent match ids are remembered
// for dedup, the way the Redis keys expire.
type MemoryStore struct {
	mu sync.RWMutex

	limit     int
	wins      map[int]int64
	recent    []herodto.ResultDigest // newest first
	seen      map[string]struct{}
	seenOrder []string // oldest first
	seenCap   int
}

func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return &MemoryStore{
		limit:   limit,
		wins:    make(map[int]int64),
		seen:    make(map[string]struct{}),
		seenCap: defaultSeenCap,
	}
}

func (m *MemoryStore) RecordResult(_ context.Context, res *herodto.MatchResult) error {
	if res == nil {
		return nil
	}
	if res.Winner != 1 && res.Winner != 2 {
		return fmt.Errorf("invalid winner %d", res.Winner)
	}
	key := strings.TrimSpace(res.MatchID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.seen[key]; dup {
		return nil
	}
	m.remember(key)
	m.wins[res.Winner]++
	d := herodto.ResultDigest{MatchID: res.MatchID, Winner: res.Winner, Moves: len(res.Moves), EndedAt: res.EndedAt}
	m.recent = append([]herodto.ResultDigest{d}, m.recent...)
	if len(m.recent) > m.limit {
		m.recent = m.recent[:m.limit]
	}
	return nil
}

func (m *MemoryStore) remember(key string) {
	m.seen[key] = struct{}{}
	m.seenOrder = append(m.seenOrder, key)
	for len(m.seenOrder) > m.seenCap {
		delete(m.seen, m.seenOrder[0])
		m.seenOrder = m.seenOrder[1:]
	}
}

func (m *MemoryStore) Scoreboard(context.Context) (*herodto.Scoreboard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &herodto.Scoreboard{
		Player1Wins: m.wins[1],
		Player2Wins: m.wins[2],
		Recent:      append([]herodto.ResultDigest{}, m.recent...),
	}, nil
}
