// Package poller implements the wait loop shared by every asynchronous
// Leonardo job: submitting returns a job id, and the caller polls the
// status endpoint at a fixed interval until the job completes, fails,
// or the timeout budget runs out.
package poller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Default polling parameters
const (
	DefaultTimeout      = 2 * time.Minute
	DefaultInterval     = 3 * time.Second
	DefaultErrorBackoff = 5 * time.Second
)

// FetchFunc performs one status round-trip for the given job. Callers
// capture the result payload inside the closure; the poller only looks
// at the returned Snapshot.
type FetchFunc func(ctx context.Context, jobID string) (Snapshot, error)

// ProgressFunc receives one human-readable progress line per loop
// iteration together with the time elapsed since polling started.
type ProgressFunc func(elapsed time.Duration, message string)

// Options controls a single Wait call
type Options struct {
	// Timeout is the total budget for the wait (default DefaultTimeout)
	Timeout time.Duration

	// Interval is the fixed pause between successful status checks.
	// It stays fixed for the whole wait, no exponential growth.
	Interval time.Duration

	// ErrorBackoff is the pause after a failed status check
	ErrorBackoff time.Duration

	// Description names the job in progress messages, e.g. "generation"
	Description string

	// Progress receives progress updates when set
	Progress ProgressFunc

	// Logger receives debug-level polling events
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.ErrorBackoff <= 0 {
		o.ErrorBackoff = DefaultErrorBackoff
	}
	if o.Description == "" {
		o.Description = "job"
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

func (o Options) report(start time.Time, message string) {
	if o.Progress == nil {
		return
	}
	o.Progress(time.Since(start), message)
}

// Wait polls fetch until the job reaches a terminal state, the timeout
// budget is exhausted, or ctx is canceled.
//
// A transient fetch error never ends the wait by itself: it is reported
// through Progress, remembered, and retried after ErrorBackoff. A FAILED
// status ends the wait immediately with a *JobFailedError. When the
// budget runs out the result is a *TimeoutError wrapping the last
// transient fetch error, even if the very next check would have
// succeeded.
func Wait(ctx context.Context, jobID string, fetch FetchFunc, opts Options) error {
	if strings.TrimSpace(jobID) == "" {
		return ErrMissingJobID
	}
	if fetch == nil {
		return ErrNilFetch
	}

	opts = opts.withDefaults()

	var lastFetchErr error
	start := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("waiting for %s canceled: %w", opts.Description, err)
		}

		elapsed := time.Since(start)
		if elapsed >= opts.Timeout {
			break
		}

		snap, err := fetch(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("waiting for %s canceled: %w", opts.Description, ctx.Err())
			}

			lastFetchErr = err
			opts.report(start, fmt.Sprintf("Error checking status: %v", err))
			opts.Logger.Debug("status check failed",
				slog.String("job_id", jobID),
				slog.String("error", err.Error()),
			)

			if err := sleep(ctx, opts.ErrorBackoff); err != nil {
				return fmt.Errorf("waiting for %s canceled: %w", opts.Description, err)
			}
			continue
		}

		switch snap.State {
		case StateComplete:
			return nil

		case StateFailed:
			reason := snap.Detail
			if reason == "" {
				reason = "Unknown error"
			}
			return &JobFailedError{JobID: jobID, Reason: reason}
		}

		if !snap.State.Known() {
			opts.Logger.Debug("unrecognized job status, continuing to poll",
				slog.String("job_id", jobID),
				slog.String("status", string(snap.State)),
			)
		}

		opts.report(start, fmt.Sprintf("Waiting for %s... (%ds)", opts.Description, int(elapsed.Seconds())))

		if err := sleep(ctx, opts.Interval); err != nil {
			return fmt.Errorf("waiting for %s canceled: %w", opts.Description, err)
		}
	}

	return &TimeoutError{JobID: jobID, Budget: opts.Timeout, LastFetchErr: lastFetchErr}
}

// sleep pauses for d or until ctx is done, whichever comes first
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
