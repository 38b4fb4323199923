package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/green-campus/internal/observability"
	"github.com/spec-kit/green-campus/internal/service"
)

// Pinger reports whether a storage dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures the background workers.
type Options struct {
	Notifications *service.NotificationService
	Storage       Pinger
	Metrics       *observability.Metrics
	Logger        *zap.Logger
	// ReportInterval of zero disables the periodic status report.
	ReportInterval time.Duration
}

// Start registers the audit subscribers and launches the status reporter.
// The returned function blocks until the reporter has exited after ctx is done.
func Start(ctx context.Context, opts Options) (wait func()) {
	if opts.Notifications != nil {
		opts.Notifications.RegisterHandlers()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var wg sync.WaitGroup
	if opts.ReportInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(opts.ReportInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					report(ctx, opts, logger)
				}
			}
		}()
	}
	return wg.Wait
}

func report(ctx context.Context, opts Options, logger *zap.Logger) {
	snap := opts.Metrics.Snapshot()
	fields := []zap.Field{
		zap.Int64("uptime_seconds", snap.UptimeSeconds),
		zap.Int("routes", len(snap.Requests)),
		zap.Int64("emails_sent", snap.EmailsSent),
		zap.Int64("emails_failed", snap.EmailsFailed),
	}
	if opts.Storage != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := opts.Storage.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Warn("storage unreachable", append(fields, zap.Error(err))...)
			return
		}
	}
	logger.Info("status report", fields...)
}
