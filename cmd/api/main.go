package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shinyyama/points-api/internal/config"
	"github.com/shinyyama/points-api/internal/db"
	"github.com/shinyyama/points-api/internal/logger"
	"github.com/shinyyama/points-api/internal/model"
	"github.com/shinyyama/points-api/internal/server"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	zlog := logger.New(cfg.LogLevel)
	defer func() { _ = zlog.Sync() }()

	srv, err := server.New(cfg, nil, zlog)
	if err != nil {
		zlog.Fatal("server init", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		zlog.Info("starting server", zap.String("addr", addr))
		errCh <- srv.Start(addr)
	}()

	// Listen first; the store is injected once reachable.
	go func() {
		conn, err := db.Connect(cfg)
		if err != nil {
			zlog.Error("db connect error", zap.Error(err))
			return
		}
		if cfg.DBAutoMigrate {
			if err := conn.AutoMigrate(&model.User{}); err != nil {
				zlog.Error("auto migrate error", zap.Error(err))
			}
		}
		srv.SetDB(conn)
		zlog.Info("database connected", zap.String("driver", cfg.DBDriver))
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zlog.Error("shutdown", zap.Error(err))
		}
		zlog.Info("shutdown complete")
	}
}
