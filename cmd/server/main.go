package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/i9-energia/solar-estimator/internal/api"
	"github.com/i9-energia/solar-estimator/internal/api/handlers"
	"github.com/i9-energia/solar-estimator/internal/api/middleware"
	"github.com/i9-energia/solar-estimator/internal/catalog"
	"github.com/i9-energia/solar-estimator/internal/config"
	"github.com/i9-energia/solar-estimator/internal/db"
	"github.com/i9-energia/solar-estimator/internal/models"
	"github.com/i9-energia/solar-estimator/internal/repository"
)

func main() {
	// Initialize structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("starting solar-estimator service")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store := catalog.NewStore(nil)

	// Import history is optional; without it the service runs on the built-in tables.
	var imports handlers.ImportStore
	if cfg.Database.Enabled {
		pool := connectWithRetry(ctx, cfg, 30)
		defer pool.Close()

		repo := repository.NewImportRepository(pool)
		restoreLatest(ctx, repo, store)
		imports = repo
	}

	router := api.NewRouter(cfg, store, imports)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("server listening",
			"port", cfg.Server.Port,
			"service", middleware.ServiceName,
			"database", cfg.Database.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server exited")
}

type latestImport interface {
	Latest(ctx context.Context) (*models.TableImport, error)
}

// restoreLatest installs the most recent accepted import. A broken record is
// logged and skipped; the built-in tables stay in effect.
func restoreLatest(ctx context.Context, repo latestImport, store *catalog.Store) {
	latest, err := repo.Latest(ctx)
	if err != nil {
		slog.Warn("could not load latest table import", "error", err)
		return
	}
	if latest == nil {
		slog.Info("no table import recorded, using built-in tables")
		return
	}

	if latest.Source == models.SourceBuiltin {
		slog.Info("tables were last reset, using built-in tables", "import_id", latest.ID)
		return
	}

	ts, err := repository.DecodeTables(latest)
	if err != nil {
		slog.Warn("latest table import is unusable, using built-in tables", "import_id", latest.ID, "error", err)
		return
	}
	store.Replace(ts)

	stats := ts.Stats()
	slog.Info("restored lookup tables",
		"import_id", latest.ID,
		"filename", latest.Filename,
		"cities", stats.TotalCities,
		"kits", stats.TotalKits,
		"tariffs", stats.TotalTariffs,
	)
}

func connectWithRetry(ctx context.Context, cfg *config.Config, maxRetries int) *db.Pool {
	for i := 0; i < maxRetries; i++ {
		pool, err := db.Open(ctx, cfg.Database)
		if err == nil {
			return pool
		}
		slog.Warn("database not ready, retrying...",
			"attempt", i+1,
			"max_retries", maxRetries,
			"error", err,
		)
		time.Sleep(2 * time.Second)
	}
	slog.Error("failed to connect to database after retries")
	os.Exit(1)
	return nil
}
