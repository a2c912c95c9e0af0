package scoreboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/park285/herogrid/pkg/herodto"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRecentLimit = 20
	// 같은 match id 가 다시 들어와도 한 번만 집계
	dedupTTL = 7 * 24 * time.Hour
	// WATCH 충돌 시 재시도 횟수
	maxTxRetries = 3
)

// Store keeps win tallies and a bounded list of recent results in Redis.
type Store struct {
	rdb    *redis.Client
	prefix string
	limit  int
}

func NewStore(rdb *redis.Client, limit int) *Store {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return &Store{rdb: rdb, prefix: "herogrid", limit: limit}
}

// NewStoreFromURL dials REDIS_URL and pings it. rediss:// enables TLS.
func NewStoreFromURL(ctx context.Context, raw string, limit int) (*Store, error) {
	opts, err := clientOptions(raw)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewStore(rdb, limit), nil
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func (s *Store) keyWins() string { return s.prefix + ":score:wins" }
func (s *Store) keyRecent() string { return s.prefix + ":score:recent" }
func (s *Store) keyMatch(id string) string { return s.prefix + ":score:match:" + strings.TrimSpace(id) }

func winsField(player int) string { return strconv.Itoa(player) }

// RecordResult counts the win and pushes a digest. A match id is only
// counted once; replays of the same result are ignored. The dedup key is
// written in the same MULTI as the tally, so a failed write can be retried.
func (s *Store) RecordResult(ctx context.Context, res *herodto.MatchResult) error {
	if s == nil || s.rdb == nil || res == nil {
		return nil
	}
	if res.Winner != 1 && res.Winner != 2 {
		return fmt.Errorf("invalid winner %d", res.Winner)
	}
	digest, err := json.Marshal(herodto.ResultDigest{
		MatchID: res.MatchID,
		Winner:  res.Winner,
		Moves:   len(res.Moves),
		EndedAt: res.EndedAt,
	})
	if err != nil {
		return err
	}

	key := s.keyMatch(res.MatchID)
	record := func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, res.Winner, dedupTTL)
			pipe.HIncrBy(ctx, s.keyWins(), winsField(res.Winner), 1)
			pipe.LPush(ctx, s.keyRecent(), digest)
			pipe.LTrim(ctx, s.keyRecent(), 0, int64(s.limit-1))
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err = s.rdb.Watch(ctx, record, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("record %s: %w", res.MatchID, err)
}

// Scoreboard reads the tallies and recent results (newest first).
func (s *Store) Scoreboard(ctx context.Context) (*herodto.Scoreboard, error) {
	out := &herodto.Scoreboard{Recent: []herodto.ResultDigest{}}
	if s == nil || s.rdb == nil {
		return out, nil
	}
	wins, err := s.rdb.HGetAll(ctx, s.keyWins()).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	out.Player1Wins, _ = strconv.ParseInt(wins[winsField(1)], 10, 64)
	out.Player2Wins, _ = strconv.ParseInt(wins[winsField(2)], 10, 64)

	raw, err := s.rdb.LRange(ctx, s.keyRecent(), 0, int64(s.limit-1)).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	for _, r := range raw {
		var d herodto.ResultDigest
		if err := json.Unmarshal([]byte(r), &d); err != nil {
			continue
		}
		out.Recent = append(out.Recent, d)
	}
	return out, nil
}

func clientOptions(raw string) (*redis.Options, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return opts, nil
}
