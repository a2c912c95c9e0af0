package notify

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"

	"github.com/park285/herogrid/pkg/herodto"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

type hook struct {
	mu       sync.Mutex
	statuses []int // consumed per request; 200 once exhausted
	bodies   [][]byte
	headers  []string
}

func startHook(t *testing.T, h *hook) func(string) (net.Conn, error) {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.bodies = append(h.bodies, append([]byte(nil), ctx.PostBody()...))
		h.headers = append(h.headers, string(ctx.Request.Header.Peek("X-Hook-Token")))
		status := fasthttp.StatusOK
		if len(h.statuses) > 0 {
			status, h.statuses = h.statuses[0], h.statuses[1:]
		}
		ctx.SetStatusCode(status)
	}}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })
	return func(string) (net.Conn, error) { return ln.Dial() }
}

func TestRecordResultPostsPayload(t *testing.T) {
	h := &hook{}
	c := NewClient("http://hook.local/results",
		WithDial(startHook(t, h)),
		WithHeaderProvider(func() map[string]string { return map[string]string{"X-Hook-Token": "t0k", "": "skip"} }),
		WithFormatter(func(r *herodto.MatchResult) string { return "player wins" }),
	)
	res := &herodto.MatchResult{MatchID: "m-1", Winner: 1, Killed2: []string{"P4"}}
	if err := c.RecordResult(context.Background(), res); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	if len(h.bodies) != 1 {
		t.Fatalf("requests = %d", len(h.bodies))
	}
	var p Payload
	if err := json.Unmarshal(h.bodies[0], &p); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if p.Type != "match_result" || p.Text != "player wins" || p.Result == nil || p.Result.MatchID != "m-1" {
		t.Fatalf("unexpected payload: %+v", p)
	}
	if h.headers[0] != "t0k" {
		t.Fatalf("header not forwarded: %q", h.headers[0])
	}
}

func TestRetriesOnServerError(t *testing.T) {
	h := &hook{statuses: []int{503, 502}}
	c := NewClient("http://hook.local/results", WithDial(startHook(t, h)), WithRetry(3))
	if err := c.RecordResult(context.Background(), &herodto.MatchResult{MatchID: "m"}); err != nil {
		t.Fatalf("expected success after retries: %v", err)
	}
	if len(h.bodies) != 3 {
		t.Fatalf("attempts = %d", len(h.bodies))
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	h := &hook{statuses: []int{400}}
	c := NewClient("http://hook.local/results", WithDial(startHook(t, h)), WithRetry(3))
	if err := c.RecordResult(context.Background(), &herodto.MatchResult{MatchID: "m"}); err == nil {
		t.Fatalf("expected error")
	}
	if len(h.bodies) != 1 {
		t.Fatalf("attempts = %d", len(h.bodies))
	}
}

func TestEmptyURLIsNoop(t *testing.T) {
	c := NewClient("")
	if err := c.RecordResult(context.Background(), &herodto.MatchResult{MatchID: "m"}); err != nil {
		t.Fatalf("noop client: %v", err)
	}
}
