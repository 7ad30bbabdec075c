package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcfg "github.com/park285/gridchess/internal/config"
	"github.com/park285/gridchess/internal/httpapi"
	"github.com/park285/gridchess/internal/msgcat"
	"github.com/park285/gridchess/internal/obslog"
	"github.com/park285/gridchess/internal/render"
	"github.com/park285/gridchess/internal/session"
	"go.uber.org/zap"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.RequireServer(); err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.Init(cfg.Log); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		logger.Fatal("messages init error", zap.Error(err))
	}

	// Finished games go to Postgres when configured, memory otherwise.
	var results session.ResultStore = session.NewMemoryResults()
	var repo *session.Repository
	if cfg.DatabaseURL != "" {
		repo, err = session.NewRepository(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("results repo init error", zap.Error(err))
		}
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = repo.EnsureSchema(sctx)
		cancel()
		if err != nil {
			logger.Fatal("results schema error", zap.Error(err))
		}
		results = repo
	}

	mgr, err := session.NewManager(cfg.RedisURL,
		session.WithTTL(cfg.SessionTTL),
		session.WithResultStore(results),
	)
	if err != nil {
		logger.Fatal("session manager init error", zap.Error(err))
	}

	api := httpapi.NewServer(mgr, render.NewPNGRenderer(cfg.RenderSquareSize), cat)
	srv := api.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("grid_http_listen", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe(cfg.HTTPAddr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("grid_shutdown", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("grid_http_error", zap.Error(err))
		}
	}

	shctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.ShutdownWithContext(shctx)
	_ = mgr.Close()
	_ = repo.Close()
}
