package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Shivam1272/backend-revision/internal/accounts"
	"github.com/Shivam1272/backend-revision/internal/auth"
	"github.com/Shivam1272/backend-revision/internal/config"
	"github.com/Shivam1272/backend-revision/internal/db"
	"github.com/Shivam1272/backend-revision/internal/handlers"
	"github.com/Shivam1272/backend-revision/internal/media"
	"github.com/Shivam1272/backend-revision/internal/middleware"
	"github.com/Shivam1272/backend-revision/internal/repositories"
	"github.com/Shivam1272/backend-revision/internal/storage"
	"github.com/Shivam1272/backend-revision/internal/subscriptions"
	"github.com/Shivam1272/backend-revision/internal/tweets"
	"github.com/Shivam1272/backend-revision/internal/videos"
)

type objectStore interface {
	media.ObjectStore
	media.Remover
}

// buildDependencies wires together concrete implementations used by the HTTP handlers.
// The returned cleanup drains background media deletion.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, logger *slog.Logger) (handlers.Dependencies, func(context.Context) error, error) {
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
		Issuer:        cfg.Auth.Issuer,
	})
	if err != nil {
		return handlers.Dependencies{}, nil, err
	}

	store, err := newObjectStore(ctx, cfg.Media)
	if err != nil {
		return handlers.Dependencies{}, nil, err
	}

	janitor := media.NewJanitor(store, media.JanitorConfig{
		Workers:   cfg.Janitor.Workers,
		QueueSize: cfg.Janitor.QueueSize,
	}, logger)
	library := media.NewLibrary(store, media.NewFFProbe(cfg.Media.FFProbePath, cfg.Media.FFProbeTimeout), janitor)

	users := repositories.NewPostgresUserRepository(pool)
	manager := auth.NewManager(tokens, users)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := handlers.Dependencies{
		Logger:         logger,
		Sessions:       manager,
		Authenticator:  manager,
		Accounts:       accounts.NewService(users, library),
		Tweets:         tweets.NewService(repositories.NewPostgresTweetRepository(pool)),
		Videos:         videos.NewService(repositories.NewPostgresVideoRepository(pool), library),
		Subscriptions:  subscriptions.NewService(repositories.NewPostgresSubscriptionRepository(pool), users),
		DB:             pool,
		Limiter:        middleware.NewIPRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Burst, cfg.RateLimit.TTL),
		Metrics:        middleware.NewMetrics(registry),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Cookies:        handlers.CookieConfig{Secure: cfg.Auth.SecureCookies},
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
	}

	return deps, janitor.Shutdown, nil
}

func newObjectStore(ctx context.Context, cfg config.ObjectStoreConfig) (objectStore, error) {
	switch cfg.Backend {
	case "s3", "":
		s3, err := storage.NewS3Storage(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s3, nil
	case "minio":
		minio, err := storage.NewMinIOStorage(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return minio, nil
	default:
		return nil, fmt.Errorf("unsupported media backend %q", cfg.Backend)
	}
}
