package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	appcfg "github.com/park285/herogrid/internal/config"
	"github.com/park285/herogrid/internal/gateway"
	"github.com/park285/herogrid/internal/match"
	"github.com/park285/herogrid/internal/msgcat"
	"github.com/park285/herogrid/internal/notify"
	"github.com/park285/herogrid/internal/obslog"
	"github.com/park285/herogrid/internal/scoreboard"
	"github.com/park285/herogrid/pkg/herodto"
	"go.uber.org/zap"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = obslog.L().Sync() }()

	cat, err := msgcat.New(cfg.MessagesLocale, cfg.MessagesDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	mopts := []match.Option{match.WithHistoryLimit(cfg.HistoryLimit)}
	var gopts []gateway.Option

	// redis 가 없으면 메모리 스코어보드, 나머지 기록기는 선택 사항
	var store *scoreboard.Store
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		store, err = scoreboard.NewStoreFromURL(ctx, cfg.RedisURL, cfg.ScoreboardLimit)
		cancel()
		if err != nil {
			log.Fatalf("scoreboard init error: %v", err)
		}
		mopts = append(mopts, match.WithRecorder("scoreboard", store))
		gopts = append(gopts, gateway.WithScoreReader(store))
	} else {
		mem := scoreboard.NewMemoryStore(cfg.ScoreboardLimit)
		mopts = append(mopts, match.WithRecorder("scoreboard", mem))
		gopts = append(gopts, gateway.WithScoreReader(mem))
	}

	var repo *match.Repository
	if cfg.DatabaseURL != "" {
		repo, err = match.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("match repo init error: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = repo.EnsureSchema(ctx)
		cancel()
		if err != nil {
			log.Fatalf("match repo schema error: %v", err)
		}
		mopts = append(mopts, match.WithRecorder("postgres", repo))
	}

	if cfg.WebhookURL != "" {
		hook := notify.NewClient(cfg.WebhookURL, notify.WithFormatter(func(r *herodto.MatchResult) string {
			return cat.RenderOr("notify.win", map[string]any{
				"Winner":  r.Winner,
				"MatchID": r.MatchID,
				"Moves":   len(r.Moves),
			}, "Player "+strconv.Itoa(r.Winner)+" wins")
		}))
		mopts = append(mopts, match.WithRecorder("webhook", hook))
	}

	gopts = append(gopts,
		gateway.WithResetOnConnect(cfg.ResetOnConnect),
		gateway.WithOrigins(cfg.AllowedOrigins),
		gateway.WithWriteTimeout(cfg.WriteTimeout),
	)
	mgr := match.NewManager(mopts...)
	gw := gateway.New(mgr, cat, gopts...)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           gw.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		obslog.L().Info("server_listen", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	// Wait for termination signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	obslog.L().Info("server_shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := gw.Close(ctx); err != nil {
		obslog.L().Warn("gateway_close_error", zap.Error(err))
	}
	if err := srv.Shutdown(ctx); err != nil {
		obslog.L().Warn("server_shutdown_error", zap.Error(err))
	}
	if store != nil {
		_ = store.Close()
	}
	if repo != nil {
		_ = repo.Close()
	}
}
