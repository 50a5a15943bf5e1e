package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/auth"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/cache"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/config"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/database"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/logs"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/middleware"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/migrate"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/storage"
)

// OpenCache returns the configured fragment store.
func OpenCache(cfg config.Cache) (cache.Store, error) {
	switch cfg.Backend {
	case "badger":
		return cache.OpenBadger(cfg.Path)
	case "memory", "":
		return cache.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// OpenMedia returns the configured media store.
func OpenMedia(ctx context.Context, cfg config.Media) (storage.MediaStore, error) {
	switch cfg.Backend {
	case "s3":
		return storage.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region, cfg.AccessKey, cfg.SecretKey)
	case "local", "":
		return storage.NewLocalStore(cfg.Dir, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Backend)
	}
}

// Run connects every backing store, serves HTTP until ctx is cancelled or
// the process gets SIGINT/SIGTERM, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.Config, autoMigrate bool) error {
	gin.SetMode(cfg.Server.Mode)
	auth.Configure(cfg.Auth)

	if err := database.Connect(cfg.Database); err != nil {
		return err
	}
	defer database.Close()

	if autoMigrate {
		if err := migrate.Run(database.DB); err != nil {
			return err
		}
	}

	store, err := OpenCache(cfg.Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	media, err := OpenMedia(ctx, cfg.Media)
	if err != nil {
		return err
	}

	limiter := middleware.NewRateLimiter(cfg.Auth.LoginRatePerMin, time.Minute)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           NewRouter(cfg, store, media, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logs.LogJSON("INFO", "Server listening", map[string]interface{}{
			"addr":  cfg.Server.Addr,
			"cache": cfg.Cache.Backend,
			"media": cfg.Media.Backend,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logs.LogJSON("INFO", "Shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
