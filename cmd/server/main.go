/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the multi-job wage manager server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, then flags)
  2. Initialize logger
  3. Initialize SQLite store
  4. Create API handler with a cached holiday calendar
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port       HTTP server port (default: PORT or 8080)
  -db         SQLite database path (default: DB_PATH or njob.db)
              Use ":memory:" for in-memory database
  -log-level  debug, info, warn, error (default: LOG_LEVEL or info)

ENVIRONMENT:
  PORT, DB_PATH, ALLOWED_ORIGINS, HOLIDAY_CACHE_TTL, LOG_LEVEL, ENVIRONMENT.
  A .env file in the working directory is read when present.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the holiday cache purger
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/njob.db"

  # Run with in-memory database and verbose logs
  ./server -db=":memory:" -log-level=debug

SEE ALSO:
  - config/config.go: Environment configuration
  - api/server.go: Router configuration
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

	"github.com/sirupsen/logrus"

	"github.com/warp/njob-manager/api"
	"github.com/warp/njob-manager/config"
	"github.com/warp/njob-manager/holiday"
	"github.com/warp/njob-manager/logging"
	"github.com/warp/njob-manager/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Flags override the environment
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.Parse()
	cfg.Port, cfg.DBPath, cfg.LogLevel = *port, *dbPath, *logLevel

	log := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.WithError(err).WithField("db", cfg.DBPath).Fatal("Failed to initialize database")
	}
	defer store.Close()

	// Holiday lookups are cached; the purger keeps the cache bounded
	cache := holiday.NewCache(cfg.HolidayCacheTTL)
	purger := api.NewCachePurger(cache, log)
	purger.Start()
	defer purger.Stop()

	handler := api.NewHandler(store, api.WithHolidayCache(cache), api.WithLogger(log))
	router := api.NewRouter(handler, api.RouterOptions{AllowedOrigins: cfg.AllowedOrigins})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":        cfg.Addr(),
			"db":          cfg.DBPath,
			"environment": cfg.Environment,
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		return
	}

	log.Info("Server stopped")
}
