package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivam1272/backend-revision/internal/config"
)

type fakePool struct{}

func (fakePool) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("not implemented")
}

func (fakePool) Ping(context.Context) error { return nil }

func (fakePool) Close() {}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			AccessSecret:  "access",
			RefreshSecret: "refresh",
			AccessTTL:     time.Minute,
			RefreshTTL:    time.Hour,
		},
		Media: config.ObjectStoreConfig{
			Backend:        "s3",
			Bucket:         "test-bucket",
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			AccessKey:      "test",
			SecretKey:      "test",
			FFProbePath:    "ffprobe",
			FFProbeTimeout: time.Second,
			MaxUploadBytes: 1 << 20,
		},
		Janitor:   config.JanitorConfig{Workers: 1, QueueSize: 4},
		RateLimit: config.RateLimitConfig{Requests: 10, Window: time.Minute, Burst: 5, TTL: time.Minute},
	}
}

func TestBuildDependencies(t *testing.T) {
	deps, cleanup, err := buildDependencies(context.Background(), fakePool{}, testConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cleanup == nil {
		t.Fatal("expected cleanup function")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := cleanup(ctx); err != nil {
			t.Errorf("cleanup: %v", err)
		}
	}()

	if deps.Sessions == nil || deps.Authenticator == nil {
		t.Fatal("expected session manager to be configured")
	}
	if deps.Accounts == nil {
		t.Fatal("expected account service to be configured")
	}
	if deps.Tweets == nil {
		t.Fatal("expected tweet service to be configured")
	}
	if deps.Videos == nil {
		t.Fatal("expected video service to be configured")
	}
	if deps.Subscriptions == nil {
		t.Fatal("expected subscription service to be configured")
	}
	if deps.Limiter == nil || deps.Metrics == nil || deps.MetricsHandler == nil {
		t.Fatal("expected rate limiter and metrics to be configured")
	}
	if deps.MaxUploadBytes != 1<<20 {
		t.Fatalf("expected upload limit to be carried over, got %d", deps.MaxUploadBytes)
	}
}

func TestBuildDependenciesRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Media.Backend = "ftp"
	if _, _, err := buildDependencies(context.Background(), fakePool{}, cfg, nil); err == nil {
		t.Fatal("expected unsupported backend to fail")
	}

	cfg = testConfig()
	cfg.Auth.RefreshSecret = cfg.Auth.AccessSecret
	if _, _, err := buildDependencies(context.Background(), fakePool{}, cfg, nil); err == nil {
		t.Fatal("expected identical token secrets to fail")
	}
}
