package match

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/park285/herogrid/pkg/herodto"
)

// Schema is applied by EnsureSchema; kept here so deployments can read it.
const Schema = `CREATE TABLE IF NOT EXISTS herogrid_matches (
    match_id        TEXT PRIMARY KEY,
    winner          SMALLINT NOT NULL,
    result          TEXT NOT NULL,
    killed_player1  JSONB NOT NULL,
    killed_player2  JSONB NOT NULL,
    moves           JSONB NOT NULL,
    move_count      INTEGER NOT NULL,
    started_at      TIMESTAMPTZ NOT NULL,
    ended_at        TIMESTAMPTZ NOT NULL,
    duration_ms     BIGINT NOT NULL
)`

// Repository archives finished matches in postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if r == nil || r.db == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

// RecordResult upserts a finished match.
func (r *Repository) RecordResult(ctx context.Context, res *herodto.MatchResult) error {
	if r == nil || r.db == nil || res == nil {
		return nil
	}
	row, err := resultRow(res)
	if err != nil {
		return err
	}

	const q = `INSERT INTO herogrid_matches (
        match_id, winner, result, killed_player1, killed_player2,
        moves, move_count, started_at, ended_at, duration_ms
      ) VALUES (
        $1,$2,$3,$4::jsonb,$5::jsonb,$6::jsonb,$7,$8,$9,$10
      ) ON CONFLICT (match_id) DO UPDATE SET
        winner=EXCLUDED.winner,
        result=EXCLUDED.result,
        killed_player1=EXCLUDED.killed_player1,
        killed_player2=EXCLUDED.killed_player2,
        moves=EXCLUDED.moves,
        move_count=EXCLUDED.move_count,
        started_at=EXCLUDED.started_at,
        ended_at=EXCLUDED.ended_at,
        duration_ms=EXCLUDED.duration_ms`

	_, err = r.db.ExecContext(ctx, q,
		row.matchID, row.winner, row.result,
		row.killed1, row.killed2, row.moves, row.moveCount,
		row.startedAt, row.endedAt, row.durationMS,
	)
	return err
}

type matchRow struct {
	matchID    string
	winner     int
	result     string
	killed1    string
	killed2    string
	moves      string
	moveCount  int
	startedAt  time.Time
	endedAt    time.Time
	durationMS int64
}

func resultRow(res *herodto.MatchResult) (*matchRow, error) {
	if strings.TrimSpace(res.MatchID) == "" {
		return nil, fmt.Errorf("match result without id")
	}
	k1, err := json.Marshal(nonNil(res.Killed1))
	if err != nil {
		return nil, fmt.Errorf("marshal killed_player1: %w", err)
	}
	k2, err := json.Marshal(nonNil(res.Killed2))
	if err != nil {
		return nil, fmt.Errorf("marshal killed_player2: %w", err)
	}
	moves := res.Moves
	if moves == nil {
		moves = []herodto.MoveRecord{}
	}
	mv, err := json.Marshal(moves)
	if err != nil {
		return nil, fmt.Errorf("marshal moves: %w", err)
	}
	duration := res.EndedAt.Sub(res.StartedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}
	return &matchRow{
		matchID:    strings.TrimSpace(res.MatchID),
		winner:     res.Winner,
		result:     resultToken(res.Winner),
		killed1:    string(k1),
		killed2:    string(k2),
		moves:      string(mv),
		moveCount:  len(res.Moves),
		startedAt:  res.StartedAt,
		endedAt:    res.EndedAt,
		durationMS: duration,
	}, nil
}

// resultToken follows the "1-0" / "0-1" convention used for board game records.
func resultToken(winner int) string {
	switch winner {
	case 1:
		return "1-0"
	case 2:
		return "0-1"
	default:
		return "*"
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
