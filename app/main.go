package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/lysyi3m/deal-comb/app/api"
	"github.com/lysyi3m/deal-comb/app/bluesky"
	"github.com/lysyi3m/deal-comb/app/cfg"
	"github.com/lysyi3m/deal-comb/app/database"
	"github.com/lysyi3m/deal-comb/app/feed"
	"github.com/lysyi3m/deal-comb/app/tasks"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Deal Comb stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		return err
	}
	if appCfg == nil {
		return nil
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Deal Comb", "version", appCfg.Version, "actor", appCfg.Actor, "source", appCfg.Source)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	configCache := feed.NewConfigCache(appCfg.FeedsDir)
	if err := configCache.Run(); err != nil {
		return fmt.Errorf("failed to load feed configurations: %w", err)
	}
	slog.Info("Feed configurations loaded", "dir", appCfg.FeedsDir, "count", configCache.GetConfigCount())

	limiter := bluesky.NewLimiter(appCfg.RateLimit, appCfg.RateBurst)
	sources := map[string]feed.Source{
		feed.SourceAppView: bluesky.NewClient(bluesky.Options{
			BaseURL:   appCfg.AppViewURL,
			UserAgent: appCfg.UserAgent,
			Limiter:   limiter,
		}, appCfg.UpstreamTimeout),
		feed.SourceRSS: bluesky.NewRSSSource(bluesky.Options{
			BaseURL:   appCfg.WebURL,
			UserAgent: appCfg.UserAgent,
			Limiter:   limiter,
		}, appCfg.UpstreamTimeout),
	}

	seenRepo := database.NewSeenRepository(db)

	scheduler := tasks.NewScheduler(seenRepo, appCfg.SchedulerInterval, appCfg.SeenRetention, appCfg.WorkerCount)

	defaultFeed := feed.NewConfig("deals", appCfg.Actor, appCfg.Source, appCfg.Limit, int(appCfg.UpstreamTimeout/time.Second))

	handler := api.NewHandler(
		defaultFeed,
		configCache,
		feed.NewBuilder(sources),
		feed.NewGenerator(appCfg.BaseUrl, appCfg.WebURL, appCfg.Version),
		seenRepo,
		scheduler,
		appCfg.Version,
	)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "api_enabled", appCfg.APIAccessKey != "")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Start()
		slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval.String())

		<-gCtx.Done()
		slog.Info("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := httpServer.Shutdown(shutdownCtx)
		scheduler.Stop()
		slog.Info("Background scheduler stopped")

		if err != nil {
			return fmt.Errorf("HTTP server shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("Deal Comb shutdown complete")
	return nil
}
