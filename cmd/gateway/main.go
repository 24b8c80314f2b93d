package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/synergy-credit/scorenorm/internal/api/http"
	auth "github.com/synergy-credit/scorenorm/internal/auth/middleware"
	"github.com/synergy-credit/scorenorm/internal/calibration"
	"github.com/synergy-credit/scorenorm/internal/config"
	"github.com/synergy-credit/scorenorm/internal/db"
	"github.com/synergy-credit/scorenorm/internal/logging"
	"github.com/synergy-credit/scorenorm/internal/ratelimit"
	"github.com/synergy-credit/scorenorm/internal/settings"
	"github.com/synergy-credit/scorenorm/internal/storage"
	syncx "github.com/synergy-credit/scorenorm/internal/sync"
	"github.com/synergy-credit/scorenorm/internal/users"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.NewStructuredLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		logging.LogError(logger, "db open failed", err, slog.String("driver", cfg.DBDriver))
		os.Exit(1)
	}
	defer logging.SafeClose(dbh, logger, "database")

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		logging.LogError(logger, "blob store", err, slog.String("path", cfg.BlobBasePath))
		os.Exit(1)
	}

	events := syncx.NewEventRepo(dbh)
	svc := calibration.NewService(calibration.NewSQLStore(dbh), calibration.Options{
		Defaults: calibration.Selection{Origin: cfg.DefaultOrigin, Dest: cfg.DefaultDest},
		Strict:   cfg.StrictAnchors,
		Events:   events,
		Logger:   logger,
	})

	limiter := ratelimit.New(cfg.RateLimitPerSec)
	go limiter.Run(ctx.Done())

	handler := api.NewRouter(api.Deps{
		Config:      cfg,
		Logger:      logger,
		DB:          dbh,
		Auth:        auth.NewAuthService(cfg.AuthSecret),
		Users:       users.NewDirectory(dbh, cfg.AdminUser, cfg.AdminPassHash),
		Calibration: svc,
		Settings:    settings.NewSQLStore(dbh),
		Events:      events,
		Blobs:       bs,
		Limiter:     limiter,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logging.LogOperation(logger, "listening",
		slog.String("addr", cfg.HTTPAddr),
		slog.String("mode", string(cfg.Mode)),
		slog.String("db", cfg.DBDriver),
		slog.String("default_pair", cfg.DefaultOrigin+"-"+cfg.DefaultDest))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}
