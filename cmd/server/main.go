/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the flock accounting engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, then environment)
  2. Initialize structured logger
  3. Open SQLite store (runs migrations)
  4. Create API handler and router
  5. Start the snapshot scheduler (if enabled)
  6. Start server with graceful shutdown

CONFIGURATION (environment, optionally via .env):
  APP_PORT          HTTP server port (default: 8080)
  DB_PATH           SQLite database path (default: flock.db)
                    Use ":memory:" for an in-memory database
  CORS_ORIGINS      Comma-separated allowed origins
  SNAPSHOT_ENABLED  "true" to run the weekly snapshot scheduler
  SNAPSHOT_CRON     Five-field cron spec (default: "0 6 * * 1")

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the snapshot scheduler
  4. Close the database connection

SEE ALSO:
  - api/server.go: Router configuration
  - api/scheduler.go: Snapshot scheduler
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/avigest/flock-engine/api"
	"github.com/avigest/flock-engine/config"
	"github.com/avigest/flock-engine/logger"
	"github.com/avigest/flock-engine/store/sqlite"
)

func main() {
	envFile := flag.String("env", "", "Path to an optional .env file")
	flag.Parse()

	log := logger.Must(logger.New())
	defer log.Sync()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	handler := api.NewHandler(store, store, logger.Named(log, "api"))
	router := api.NewRouter(handler, cfg.Server.CORSOrigins)

	var sched *api.SnapshotScheduler
	if cfg.Snapshot.Enabled {
		sched = api.NewSnapshotScheduler(store, store, logger.Named(log, "scheduler"))
		if err := sched.Start(cfg.Snapshot.CronSchedule); err != nil {
			log.Fatal("failed to start snapshot scheduler", zap.Error(err))
		}
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("db", cfg.Database.Path))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	if sched != nil {
		sched.Stop()
	}

	log.Info("server stopped")
}
