package httpserver

import (
	"context"
	"time"
)

// ShutdownTimeout bounds each graceful shutdown step: draining HTTP connections and draining
// queued media deletions.
var ShutdownTimeout = 10 * time.Second

// ShutdownContext returns a context that keeps parent's values but not its cancellation, and
// expires after ShutdownTimeout.
func ShutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(context.WithoutCancel(parent), ShutdownTimeout)
}
