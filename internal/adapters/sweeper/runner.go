// Package sweeper provides the overdue payment sweeper loop.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hosteldesk/hosteldesk/config"
	obserrors "github.com/hosteldesk/hosteldesk/internal/observability/errors"
	"github.com/hosteldesk/hosteldesk/internal/observability/metrics"
	"github.com/hosteldesk/hosteldesk/internal/observability/notify"
	"github.com/hosteldesk/hosteldesk/internal/observability/statsd"
)

const workerName = "overdue_sweeper"

// OverdueMarker flags pending payments whose due date has passed.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

// Runner periodically flags overdue payments so wardens see them without
// anyone having to trigger the sweep by hand.
type Runner struct {
	payments OverdueMarker
	interval time.Duration
	logger   *slog.Logger
	metrics  statsd.Sink
	notifier notify.Sink
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Payments OverdueMarker
	Config   config.OverdueSweepConfig
	Logger   *slog.Logger

	// Optional observability sinks.
	Metrics  statsd.Sink
	Notifier notify.Sink
}

// NewRunner creates a new overdue sweeper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Payments == nil {
		return nil, errors.New("payment service is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Config.Sanitize()

	return &Runner{
		payments: opts.Payments,
		interval: opts.Config.Interval,
		logger:   opts.Logger.With("component", workerName),
		metrics:  opts.Metrics,
		notifier: opts.Notifier,
	}, nil
}

// Run starts the sweeper loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting overdue sweeper", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "overdue sweeper stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case now := <-ticker.C:
			r.tick(ctx, now)
		}
	}
}

func (r *Runner) tick(ctx context.Context, now time.Time) {
	start := time.Now()
	flagged, err := r.payments.MarkOverdue(ctx, now)
	elapsed := time.Since(start)

	result := metrics.ResultSuccess
	switch {
	case err != nil:
		result = metrics.ResultError
	case flagged == 0:
		result = metrics.ResultNoop
	}

	metrics.EmitSweep(r.metrics, metrics.SweepMetric{
		Worker:    workerName,
		Result:    result,
		Processed: flagged,
		Duration:  elapsed,
		Err:       err,
	})

	if err != nil {
		r.logger.ErrorContext(ctx, "overdue sweep failed", "error", err)
		r.notify(ctx, notify.OpsEventPayload{
			Worker:     workerName,
			Summary:    "overdue payment sweep failed",
			Error:      err.Error(),
			ErrorClass: obserrors.Classify(err),
			Severity:   notify.SeverityCritical,
			OccurredAt: time.Now().UTC(),
		})
		return
	}

	if flagged > 0 {
		r.logger.InfoContext(ctx, "overdue sweep complete", "flagged", flagged, "elapsed", elapsed)
		r.notify(ctx, notify.OpsEventPayload{
			Worker:     workerName,
			Summary:    fmt.Sprintf("flagged %d payments overdue", flagged),
			Severity:   notify.SeverityInfo,
			OccurredAt: time.Now().UTC(),
		})
	}
}

func (r *Runner) notify(ctx context.Context, payload notify.OpsEventPayload) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.SendOpsEvent(ctx, payload); err != nil {
		r.logger.WarnContext(ctx, "ops notification not delivered", "error", err)
	}
}
