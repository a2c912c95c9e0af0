package match

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/park285/herogrid/internal/herogrid"
	"github.com/park285/herogrid/internal/obslog"
	"github.com/park285/herogrid/pkg/herodto"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 200

type namedRecorder struct {
	name string
	rec  ResultRecorder
}

// Manager owns the single authoritative session. Every mutator runs under mu,
// so one request is resolved and committed before the next one starts.
type Manager struct {
	mu        sync.Mutex
	session   *herogrid.Session
	matchID   string
	startedAt time.Time
	seq       int
	moves     []herodto.MoveRecord

	historyLimit int
	recorders    []namedRecorder
	now          func() time.Time
	newID        func() string
}

type Option func(*Manager)

// WithHistoryLimit caps the per-match move log (oldest entries are dropped).
func WithHistoryLimit(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.historyLimit = n
		}
	}
}

// WithRecorder registers a sink for finished matches.
func WithRecorder(name string, r ResultRecorder) Option {
	return func(m *Manager) {
		if r != nil {
			m.recorders = append(m.recorders, namedRecorder{name: name, rec: r})
		}
	}
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		session:      herogrid.NewSession(),
		historyLimit: defaultHistoryLimit,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.startMatch()
	return m
}

// startMatch assigns a fresh match id; caller holds mu (or is the constructor).
func (m *Manager) startMatch() {
	m.matchID = m.newID()
	m.startedAt = m.now()
	m.seq = 0
	m.moves = nil
}

// Current returns the match id and a snapshot of the session.
func (m *Manager) Current() (string, herogrid.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchID, m.session.Snapshot()
}

// History returns the move log of the running match.
func (m *Manager) History() []herodto.MoveRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]herodto.MoveRecord{}, m.moves...)
}

// Place handles a PLACE request.
func (m *Manager) Place(id herogrid.PieceID, at herogrid.Cell) (*Update, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seat := m.session.Turn()
	out, err := m.session.Place(id, at)
	if err != nil {
		m.logReject("place", id, err)
		return nil, err
	}
	m.record(herodto.MoveRecord{
		Kind:      "place",
		Player:    seat.Number(),
		Character: string(id),
		Row:       at.Row,
		Col:       at.Col,
	})
	obslog.L().Info("match_place",
		zap.String("match_id", m.matchID),
		zap.String("piece", string(id)),
		zap.Int("row", at.Row),
		zap.Int("col", at.Col),
		zap.Int("turn", out.State.Turn.Number()),
	)
	return &Update{MatchID: m.matchID, State: out.State, Captured: out.Captured}, nil
}

// Move handles a MOVE request. When the move wins the match the session is
// already reset and Update.Result describes the finished match.
func (m *Manager) Move(id herogrid.PieceID, d herogrid.Direction) (*Update, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seat := m.session.Turn()
	out, err := m.session.Move(id, d)
	if err != nil {
		m.logReject("move", id, err)
		return nil, err
	}

	// 최종 위치는 Final(리셋 전) 스냅샷에서 찾는다
	landed := out.State
	if out.Final != nil {
		landed = *out.Final
	}
	rec := herodto.MoveRecord{
		Kind:      "move",
		Player:    seat.Number(),
		Character: string(id),
		Direction: string(d),
		Captured:  idStrings(out.Captured),
	}
	if c, ok := findIn(landed, id); ok {
		rec.Row, rec.Col = c.Row, c.Col
	}
	m.record(rec)

	obslog.L().Info("match_move",
		zap.String("match_id", m.matchID),
		zap.String("piece", string(id)),
		zap.String("direction", string(d)),
		zap.Strings("captured", rec.Captured),
		zap.Int("turn", landed.Turn.Number()),
	)

	up := &Update{MatchID: m.matchID, State: out.State, Captured: out.Captured}
	if out.Winner != herogrid.SeatNone {
		up.Result = m.finish(out.Winner, *out.Final)
		m.startMatch()
		up.MatchID = m.matchID
	}
	return up, nil
}

// Reset abandons the running match and starts a new one.
func (m *Manager) Reset() *Update {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.matchID
	m.session.Reset()
	m.startMatch()
	obslog.L().Info("match_reset", zap.String("previous_match_id", prev), zap.String("match_id", m.matchID))
	return &Update{MatchID: m.matchID, State: m.session.Snapshot(), Captured: []herogrid.PieceID{}}
}

// finish builds the result of the running match; caller holds mu.
func (m *Manager) finish(winner herogrid.Seat, final herogrid.Snapshot) *herodto.MatchResult {
	res := &herodto.MatchResult{
		MatchID:   m.matchID,
		Winner:    winner.Number(),
		Killed1:   idStrings(final.Casualties[herogrid.SeatB]),
		Killed2:   idStrings(final.Casualties[herogrid.SeatA]),
		Moves:     append([]herodto.MoveRecord{}, m.moves...),
		StartedAt: m.startedAt,
		EndedAt:   m.now(),
	}
	obslog.L().Info("match_win",
		zap.String("match_id", res.MatchID),
		zap.Int("winner", res.Winner),
		zap.Int("moves", len(res.Moves)),
	)
	return res
}

// Archive hands a finished match to every recorder. It must be called without
// holding any session lock; recorder failures are logged and never returned.
func (m *Manager) Archive(ctx context.Context, res *herodto.MatchResult) {
	if m == nil || res == nil {
		return
	}
	for _, r := range m.recorders {
		if err := r.rec.RecordResult(ctx, res); err != nil {
			obslog.L().Error("match_archive_error",
				zap.String("recorder", r.name),
				zap.String("match_id", res.MatchID),
				zap.Error(err),
			)
			continue
		}
		obslog.L().Debug("match_archive", zap.String("recorder", r.name), zap.String("match_id", res.MatchID))
	}
}

func (m *Manager) record(rec herodto.MoveRecord) {
	m.seq++
	rec.Seq = m.seq
	rec.At = m.now()
	m.moves = append(m.moves, rec)
	if over := len(m.moves) - m.historyLimit; over > 0 {
		m.moves = append([]herodto.MoveRecord(nil), m.moves[over:]...)
	}
}

func (m *Manager) logReject(op string, id herogrid.PieceID, err error) {
	obslog.L().Debug("match_reject",
		zap.String("match_id", m.matchID),
		zap.String("op", op),
		zap.String("piece", strings.TrimSpace(string(id))),
		zap.Error(err),
	)
}

func findIn(s herogrid.Snapshot, id herogrid.PieceID) (herogrid.Cell, bool) {
	for r := 0; r < herogrid.BoardSize; r++ {
		for c := 0; c < herogrid.BoardSize; c++ {
			if s.Grid[r][c] == id {
				return herogrid.Cell{Row: r, Col: c}, true
			}
		}
	}
	return herogrid.Cell{}, false
}
