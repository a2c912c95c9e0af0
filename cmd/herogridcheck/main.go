package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/park285/herogrid/pkg/herodto"
	"github.com/valyala/fasthttp"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func main() {
	baseURL := strings.TrimRight(os.Getenv("HEROGRID_URL"), "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:3001"
	}

	status, body, err := fasthttp.GetTimeout(nil, baseURL+"/healthz", 5*time.Second)
	if err != nil {
		log.Printf("/healthz error: %v", err)
	} else {
		log.Printf("/healthz status=%d body=%s", status, strings.TrimSpace(string(body)))
	}

	wsURL := "ws" + strings.TrimPrefix(baseURL, "http") + "/ws"
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		log.Fatalf("WS connect error: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "check done")

	var ev herodto.Event
	if err := wsjson.Read(ctx, conn, &ev); err != nil {
		log.Fatalf("WS read error: %v", err)
	}
	if ev.Type != herodto.TypeInit || ev.GameState == nil {
		log.Fatalf("unexpected first frame: %+v", ev)
	}
	gs := ev.GameState
	fmt.Printf("INIT turn=%d unplaced=%d/%d killed=%d/%d\n",
		gs.PlayerTurn,
		len(gs.Player1Characters), len(gs.Player2Characters),
		len(gs.KilledPlayer1Characters), len(gs.KilledPlayer2Characters))
	for _, row := range gs.Grid {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = " . "
			if c != nil {
				cells[i] = fmt.Sprintf("%-3s", *c)
			}
		}
		fmt.Println(strings.Join(cells, " "))
	}
}
