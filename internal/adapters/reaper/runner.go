// Package reaper provides the expired session reaper loop.
package reaper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hosteldesk/hosteldesk/config"
	obserrors "github.com/hosteldesk/hosteldesk/internal/observability/errors"
	"github.com/hosteldesk/hosteldesk/internal/observability/metrics"
	"github.com/hosteldesk/hosteldesk/internal/observability/notify"
	"github.com/hosteldesk/hosteldesk/internal/observability/statsd"
)

const workerName = "session_reaper"

// SessionSweeper deletes expired sessions in batches.
type SessionSweeper interface {
	DeleteExpired(ctx context.Context, now time.Time, batchSize int) (int, error)
}

// TokenPurger clears expired password reset tokens in batches.
type TokenPurger interface {
	PurgeExpiredResetTokens(ctx context.Context, now time.Time, batchSize int) (int, error)
}

// Runner periodically removes expired sessions and stale reset tokens.
type Runner struct {
	sessions SessionSweeper
	tokens   TokenPurger
	interval time.Duration
	batch    int
	logger   *slog.Logger
	metrics  statsd.Sink
	notifier notify.Sink
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Sessions SessionSweeper
	Config   config.SessionReaperConfig
	Logger   *slog.Logger

	// Optional: password reset token cleanup (only the local auth provider has one).
	Tokens TokenPurger

	// Optional observability sinks.
	Metrics  statsd.Sink
	Notifier notify.Sink
}

// NewRunner creates a new session reaper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Sessions == nil {
		return nil, errors.New("session sweeper is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Config.Sanitize()

	return &Runner{
		sessions: opts.Sessions,
		tokens:   opts.Tokens,
		interval: opts.Config.Interval,
		batch:    opts.Config.BatchSize,
		logger:   opts.Logger.With("component", workerName),
		metrics:  opts.Metrics,
		notifier: opts.Notifier,
	}, nil
}

// Run starts the reaper loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting session reaper", "interval", r.interval, "batch_size", r.batch)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "session reaper stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case now := <-ticker.C:
			r.tick(ctx, now)
		}
	}
}

// Tick runs one sweep pass. Exposed for the admin CLI and tests.
func (r *Runner) Tick(ctx context.Context, now time.Time) (int, error) {
	removed, err := r.sessions.DeleteExpired(ctx, now, r.batch)
	if err != nil {
		return removed, err
	}

	if r.tokens == nil {
		return removed, nil
	}

	purged, err := r.tokens.PurgeExpiredResetTokens(ctx, now, r.batch)
	return removed + purged, err
}

func (r *Runner) tick(ctx context.Context, now time.Time) {
	start := time.Now()
	processed, err := r.Tick(ctx, now)
	elapsed := time.Since(start)

	result := metrics.ResultSuccess
	switch {
	case err != nil:
		result = metrics.ResultError
	case processed == 0:
		result = metrics.ResultNoop
	}

	metrics.EmitSweep(r.metrics, metrics.SweepMetric{
		Worker:    workerName,
		Result:    result,
		Processed: processed,
		Duration:  elapsed,
		Err:       err,
	})

	if err != nil {
		r.logger.ErrorContext(ctx, "session reap failed", "error", err)
		r.notifyFailure(ctx, err)
		return
	}

	if processed > 0 {
		r.logger.InfoContext(ctx, "session reap complete", "processed", processed, "elapsed", elapsed)
	}
}

func (r *Runner) notifyFailure(ctx context.Context, cause error) {
	if r.notifier == nil {
		return
	}

	payload := notify.OpsEventPayload{
		Worker:     workerName,
		Summary:    "expired session sweep failed",
		Error:      cause.Error(),
		ErrorClass: obserrors.Classify(cause),
		Severity:   notify.SeverityCritical,
		OccurredAt: time.Now().UTC(),
	}
	if err := r.notifier.SendOpsEvent(ctx, payload); err != nil {
		r.logger.WarnContext(ctx, "failure notification not delivered", "error", err)
	}
}
