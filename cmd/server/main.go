/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the petty-cash reconciliation server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load config (.env, environment), then apply command-line flags
  2. Open the ledger store (SQLite or MySQL)
  3. Create the reconciler and API handler
  4. Start the low-balance monitor
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS (override the environment):
  -port    HTTP server port
  -db      SQLite database path; ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the balance monitor
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

EXAMPLES:
  ./server -db="./data/kas.db"
  DB_DRIVER=mysql DB_DSN="user:pass@tcp(localhost:3306)/pettycash?parseTime=true" ./server

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/pettycash/api"
	"github.com/warp/pettycash/config"
	"github.com/warp/pettycash/ledger"
	"github.com/warp/pettycash/reconcile"
	"github.com/warp/pettycash/store/gormdb"
	"github.com/warp/pettycash/store/sqlite"
)

type closableStore interface {
	ledger.TxStore
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()
	cfg.Port = *port
	cfg.DBPath = *dbPath
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	logger := config.NewLogger(cfg.LogLevel)

	store, err := openStore(cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize database")
	}
	defer store.Close()

	rec := reconcile.NewReconciler(store, logger)
	rec.Location = cfg.Location

	handler := api.NewHandler(rec, logger)
	handler.Monitor.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.NewRouter(handler, cfg.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":     cfg.Port,
			"driver":   cfg.DBDriver,
			"location": cfg.Location.String(),
		}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	handler.Monitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
		return
	}
	logger.Info("server stopped")
}

func openStore(cfg *config.Config) (closableStore, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return gormdb.Open(cfg.DBDSN)
	default:
		return sqlite.New(cfg.DBPath)
	}
}
