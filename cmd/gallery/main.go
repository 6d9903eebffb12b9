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

	"github.com/sydlexius/gallery/internal/api"
	"github.com/sydlexius/gallery/internal/config"
	"github.com/sydlexius/gallery/internal/gallery"
	"github.com/sydlexius/gallery/internal/logging"
	"github.com/sydlexius/gallery/internal/provider"
	"github.com/sydlexius/gallery/internal/provider/unsplash"
	"github.com/sydlexius/gallery/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("GALLERY_CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logManager, logger := logging.NewManager(logging.FromConfig(cfg.Logging))
	defer logManager.Close() //nolint:errcheck
	slog.SetDefault(logger)

	logger.Info("starting gallery",
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
	)
	if cfg.Unsplash.AccessKey == "" {
		logger.Warn("no Unsplash access key configured; set UNSPLASH_ACCESS_KEY or unsplash.access_key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache, closeCache, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer closeCache()
	logger.Info("cache ready", slog.String("backend", cfg.Cache.Backend), slog.Duration("ttl", cfg.Cache.TTL))

	limiter := provider.NewRateLimiter(cfg.Unsplash.RateLimit, 1)
	client := unsplash.New(limiter, logger)
	fetcher := gallery.NewFetcher(gallery.Endpoints{
		BaseURL:   cfg.Unsplash.BaseURL,
		AccessKey: cfg.Unsplash.AccessKey,
	}, client, cache, logger)

	// Only logging is applied on reload; everything else needs a restart.
	watcher := config.NewWatcher(configPath, func(c *config.Config) {
		next := logging.FromConfig(c.Logging)
		logManager.Reconfigure(next)
		logger.Info("logging reconfigured", "config", next.String())
	}, logger)
	go watcher.Start(ctx)

	router := api.NewRouter(api.RouterDeps{
		Fetcher:           fetcher,
		LogManager:        logManager,
		Logger:            logger,
		BasePath:          cfg.Server.BasePath,
		StaticDir:         cfg.Server.StaticDir,
		RequestsPerMinute: cfg.Server.RequestsPerMinute,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.Handler(ctx),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", addr), slog.String("base_path", cfg.Server.BasePath))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// openCache builds the configured cache backend and returns its closer.
func openCache(ctx context.Context, cfg config.CacheConfig) (gallery.Cache, func(), error) {
	switch cfg.Backend {
	case config.CacheRedis:
		rc, err := gallery.NewRedisCache(ctx, gallery.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.TTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return rc, func() { _ = rc.Close() }, nil
	default:
		return gallery.NewMemoryCache(cfg.Size, cfg.TTL), func() {}, nil
	}
}
