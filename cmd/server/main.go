/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the attendance engine server: configuration,
  dependency wiring, seed data, scheduler, graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load configuration (viper) and initialize logging
  3. Open the SQLite store
  4. Seed default windows when the database is empty
  5. Wire intake + recomputer, start the rank scheduler
  6. Start the HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Config file path (default: ./config.yaml when present)
  -port    Override server.port
  -db      Override database.path (":memory:" for in-memory)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait for active requests
  (30s timeout), stop the scheduler, close the database, exit.

SEE ALSO:
  - api/server.go:     router configuration
  - config/config.go:  configuration schema
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

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/api"
	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/config"
	"github.com/warp/attendance-engine/factory"
	"github.com/warp/attendance-engine/logger"
	"github.com/warp/attendance-engine/ranking"
	"github.com/warp/attendance-engine/schedule"
	"github.com/warp/attendance-engine/store/sqlite"
	"github.com/warp/attendance-engine/xp"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "config file path")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	loc, err := cfg.Clock.Location()
	if err != nil {
		logger.Errorf("clock configuration: %v", err)
		os.Exit(1)
	}
	clock := schedule.NewClock(loc)

	// Storage
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		logger.Errorf("failed to initialize database: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := seedWindows(store); err != nil {
		logger.Errorf("failed to seed windows: %v", err)
		os.Exit(1)
	}

	// Domain services
	intake := attendance.NewIntake(store, store, clock)
	blender := xp.NewBlender(decimal.NewFromFloat(cfg.Scoring.XPWeight))
	recomputer := ranking.NewRecomputer(store, store, store,
		ranking.NewAggregator(blender), xp.Table(cfg.Scoring.XPTable))

	// Scheduler
	scheduler := api.NewRankScheduler(recomputer, clock, cfg.Scheduler)
	if err := scheduler.Start(); err != nil {
		logger.Errorf("failed to start scheduler: %v", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	// HTTP
	handler := api.NewHandler(store, store, intake, recomputer, store, clock)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("server starting on http://localhost:%d (zone %s)", cfg.Server.Port, loc)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("server failed: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// seedWindows installs the default window set on an empty database so a
// fresh deployment is usable immediately.
func seedWindows(store *sqlite.Store) error {
	ctx := context.Background()
	existing, err := store.Windows(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	windows, err := factory.NewWindowFactory().ParseWindows(factory.DefaultWindowsJSON())
	if err != nil {
		return err
	}
	for _, w := range windows {
		if err := store.SaveWindow(ctx, w); err != nil {
			return err
		}
	}
	logger.Infof("seeded %d default windows", len(windows))
	return nil
}
