package media

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Shivam1272/backend-revision/internal/models"
)

// Remover deletes hosted objects by key.
type Remover interface {
	Delete(ctx context.Context, key string) error
}

// JanitorConfig controls the concurrency characteristics of the janitor.
type JanitorConfig struct {
	QueueSize int
	Workers   int
	Timeout   time.Duration
}

var (
	errJanitorClosed = errors.New("media janitor closed")
	errJanitorBusy   = errors.New("media janitor queue full")
)

// Janitor deletes released media in the background with a bounded worker pool.
type Janitor struct {
	remover Remover
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
	jobs   chan models.MediaAsset
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewJanitor starts cfg.Workers goroutines deleting released assets through remover.
func NewJanitor(remover Remover, cfg JanitorConfig, logger *slog.Logger) *Janitor {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	j := &Janitor{
		remover: remover,
		timeout: cfg.Timeout,
		logger:  logger,
		jobs:    make(chan models.MediaAsset, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	j.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go j.worker()
	}

	return j
}

// Enqueue schedules deletion of asset without blocking.
func (j *Janitor) Enqueue(asset models.MediaAsset) error {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		return errJanitorClosed
	}

	select {
	case j.jobs <- asset:
		return nil
	default:
		return errJanitorBusy
	}
}

// Shutdown stops accepting work and waits for queued deletions to finish.
// In-flight deletions are cancelled if ctx expires first.
func (j *Janitor) Shutdown(ctx context.Context) error {
	j.mu.Lock()
	if !j.closed {
		j.closed = true
		close(j.jobs)
	}
	j.mu.Unlock()

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		j.cancel()
		return ctx.Err()
	case <-done:
		j.cancel()
		return nil
	}
}

func (j *Janitor) worker() {
	defer j.wg.Done()

	for asset := range j.jobs {
		j.remove(asset)
	}
}

func (j *Janitor) remove(asset models.MediaAsset) {
	ctx, cancel := context.WithTimeout(j.ctx, j.timeout)
	defer cancel()

	if err := j.remover.Delete(ctx, asset.ID); err != nil {
		j.logger.Warn("media release failed", "key", asset.ID, "kind", asset.Kind, "error", err)
		return
	}
	j.logger.Debug("media released", "key", asset.ID, "kind", asset.Kind)
}
