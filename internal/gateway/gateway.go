package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/park285/herogrid/internal/match"
	"github.com/park285/herogrid/internal/msgcat"
	"github.com/park285/herogrid/internal/obslog"
	"github.com/park285/herogrid/internal/render"
	"github.com/park285/herogrid/pkg/herodto"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

const (
	sendBuffer     = 32
	readLimit      = 4096
	archiveTimeout = 30 * time.Second
)

// ScoreReader is the read side of the scoreboard.
type ScoreReader interface {
	Scoreboard(ctx context.Context) (*herodto.Scoreboard, error)
}

// Gateway fans one authoritative match out to every connected browser.
// mu serializes dispatch with broadcast so clients observe commits in order.
type Gateway struct {
	mgr      *match.Manager
	cat      *msgcat.Catalog
	renderer render.BoardRenderer
	scores   ScoreReader

	resetOnConnect bool
	origins        []string
	writeTimeout   time.Duration

	mu      sync.Mutex
	clients map[*client]struct{}

	archives sync.WaitGroup
}

type Option func(*Gateway)

func WithRenderer(r render.BoardRenderer) Option {
	return func(g *Gateway) { g.renderer = r }
}

func WithScoreReader(s ScoreReader) Option {
	return func(g *Gateway) { g.scores = s }
}

// WithResetOnConnect starts a new match whenever a browser connects.
func WithResetOnConnect(v bool) Option {
	return func(g *Gateway) { g.resetOnConnect = v }
}

// WithOrigins restricts the WebSocket handshake; empty accepts any origin.
func WithOrigins(patterns []string) Option {
	return func(g *Gateway) { g.origins = append([]string(nil), patterns...) }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.writeTimeout = d
		}
	}
}

func New(mgr *match.Manager, cat *msgcat.Catalog, opts ...Option) *Gateway {
	g := &Gateway{
		mgr:          mgr,
		cat:          cat,
		renderer:     render.NewRenderer(),
		writeTimeout: 5 * time.Second,
		clients:      make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan herodto.Event
}

// register adds c and queues its INIT; caller holds mu.
func (g *Gateway) register(c *client) {
	if g.resetOnConnect {
		up := g.mgr.Reset()
		g.broadcast(herodto.Event{Type: herodto.TypeUpdate, GameState: match.ToGameState(up.State)})
	}
	g.clients[c] = struct{}{}
	_, snap := g.mgr.Current()
	g.enqueue(c, herodto.Event{Type: herodto.TypeInit, GameState: match.ToGameState(snap)})
	obslog.L().Info("gateway_connect", zap.String("client_id", c.id), zap.Int("clients", len(g.clients)))
}

func (g *Gateway) unregister(c *client) {
	g.mu.Lock()
	if _, ok := g.clients[c]; ok {
		delete(g.clients, c)
		close(c.send)
	}
	n := len(g.clients)
	g.mu.Unlock()
	obslog.L().Info("gateway_disconnect", zap.String("client_id", c.id), zap.Int("clients", n))
}

// broadcast queues ev for every client; caller holds mu.
func (g *Gateway) broadcast(ev herodto.Event) {
	for c := range g.clients {
		g.enqueue(c, ev)
	}
}

// enqueue never blocks; a client whose buffer is full is dropped. Caller holds mu.
func (g *Gateway) enqueue(c *client, ev herodto.Event) {
	select {
	case c.send <- ev:
	default:
		obslog.L().Warn("gateway_slow_client", zap.String("client_id", c.id))
		delete(g.clients, c)
		close(c.send)
		go func() { _ = c.conn.Close(websocket.StatusPolicyViolation, "slow consumer") }()
	}
}

func (g *Gateway) writeLoop(ctx context.Context, c *client) {
	for ev := range c.send {
		wctx, cancel := context.WithTimeout(ctx, g.writeTimeout)
		err := writeEvent(wctx, c.conn, ev)
		cancel()
		if err != nil {
			obslog.L().Debug("gateway_write_error", zap.String("client_id", c.id), zap.Error(err))
			_ = c.conn.Close(websocket.StatusInternalError, "write failed")
			// 남은 이벤트는 버린다 (unregister 가 채널을 닫을 때까지)
			for range c.send {
			}
			return
		}
	}
}

// archive hands a finished match to the recorders without holding mu.
func (g *Gateway) archive(res *herodto.MatchResult) {
	g.archives.Add(1)
	go func() {
		defer g.archives.Done()
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		g.mgr.Archive(ctx, res)
	}()
}

// Close disconnects every client and waits for pending archives.
func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(g.clients))
	for c := range g.clients {
		conns = append(conns, c.conn)
	}
	g.mu.Unlock()
	for _, conn := range conns {
		_ = conn.Close(websocket.StatusGoingAway, "server shutdown")
	}

	done := make(chan struct{})
	go func() {
		g.archives.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func newClient(conn *websocket.Conn) *client {
	return &client{id: uuid.NewString(), conn: conn, send: make(chan herodto.Event, sendBuffer)}
}
