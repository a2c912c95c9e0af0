package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/park285/herogrid/internal/match"
	"github.com/park285/herogrid/internal/obslog"
	"github.com/park285/herogrid/internal/render"
	"github.com/park285/herogrid/pkg/herodto"
	"go.uber.org/zap"
)

type stateResponse struct {
	MatchID   string               `json:"matchId"`
	GameState *herodto.GameState   `json:"gameState"`
	Moves     []herodto.MoveRecord `json:"moves"`
}

// Routes mounts the WebSocket endpoint (at / and /ws) and the HTTP API.
func (g *Gateway) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /api/state", g.handleState)
	mux.HandleFunc("POST /api/reset", g.handleReset)
	mux.HandleFunc("GET /board.png", g.handleBoard)
	mux.HandleFunc("GET /api/scoreboard", g.handleScoreboard)
	mux.HandleFunc("/ws", g.ServeWS)
	mux.HandleFunc("/{$}", g.ServeWS)
	return mux
}

func (g *Gateway) state() stateResponse {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, snap := g.mgr.Current()
	return stateResponse{MatchID: id, GameState: match.ToGameState(snap), Moves: g.mgr.History()}
}

func (g *Gateway) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, g.state())
}

func (g *Gateway) handleReset(w http.ResponseWriter, _ *http.Request) {
	g.mu.Lock()
	up := g.mgr.Reset()
	g.publish(up)
	g.mu.Unlock()
	writeJSON(w, http.StatusOK, stateResponse{MatchID: up.MatchID, GameState: match.ToGameState(up.State), Moves: []herodto.MoveRecord{}})
}

func (g *Gateway) handleBoard(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	id, snap := g.mgr.Current()
	g.mu.Unlock()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	opts := render.Options{Header: "Match " + shortID(id)}
	png, err := g.renderer.RenderPNG(ctx, snap, opts)
	if err != nil {
		obslog.L().Error("gateway_render_error", zap.String("match_id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "render failed"})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (g *Gateway) handleScoreboard(w http.ResponseWriter, r *http.Request) {
	if g.scores == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "scoreboard disabled"})
		return
	}
	sb, err := g.scores.Scoreboard(r.Context())
	if err != nil {
		obslog.L().Error("gateway_scoreboard_error", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "scoreboard unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, sb)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, fmt.Sprintf("encode: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
