package gateway

import (
	"context"
	"net/http"

	"github.com/park285/herogrid/internal/obslog"
	"github.com/park285/herogrid/pkg/herodto"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func (g *Gateway) acceptOptions() *websocket.AcceptOptions {
	opts := &websocket.AcceptOptions{CompressionMode: websocket.CompressionNoContextTakeover}
	if len(g.origins) == 0 {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = g.origins
	}
	return opts
}

// ServeWS upgrades the request and runs the client until it disconnects.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, g.acceptOptions())
	if err != nil {
		obslog.L().Warn("gateway_accept_error", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	conn.SetReadLimit(readLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := newClient(conn)
	g.mu.Lock()
	g.register(c)
	g.mu.Unlock()
	defer g.unregister(c)

	go g.writeLoop(ctx, c)
	g.readLoop(ctx, c)
}

func (g *Gateway) readLoop(ctx context.Context, c *client) {
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status == -1 {
				obslog.L().Debug("gateway_read_error", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}
		if typ != websocket.MessageText {
			g.reply(c, g.describe(errBadRequest))
			continue
		}
		g.handleFrame(c, data)
	}
}

// reply unicasts a rejection to c.
func (g *Gateway) reply(c *client, de herodto.DomainError) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.replyLocked(c, de)
}

func (g *Gateway) replyLocked(c *client, de herodto.DomainError) {
	obslog.L().Debug("gateway_invalid", zap.String("client_id", c.id), zap.String("code", de.Code))
	if _, ok := g.clients[c]; ok {
		g.enqueue(c, herodto.Event{Type: herodto.TypeInvalidMove, Reason: de.Message})
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, ev herodto.Event) error {
	return wsjson.Write(ctx, conn, ev)
}
