package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastOptions keeps test waits in the millisecond range
func fastOptions() Options {
	return Options{
		Timeout:      100 * time.Millisecond,
		Interval:     time.Millisecond,
		ErrorBackoff: time.Millisecond,
		Description:  "generation",
	}
}

// scriptedFetch returns each step in order and repeats the last one
func scriptedFetch(calls *int, steps ...func() (Snapshot, error)) FetchFunc {
	return func(ctx context.Context, jobID string) (Snapshot, error) {
		i := *calls
		if i >= len(steps) {
			i = len(steps) - 1
		}
		*calls++
		return steps[i]()
	}
}

func snapStep(state State, detail string) func() (Snapshot, error) {
	return func() (Snapshot, error) {
		return Snapshot{State: state, Detail: detail}, nil
	}
}

func errStep(err error) func() (Snapshot, error) {
	return func() (Snapshot, error) {
		return Snapshot{}, err
	}
}

func TestWait_InvalidJobID(t *testing.T) {
	tests := []struct {
		name  string
		jobID string
	}{
		{name: "empty", jobID: ""},
		{name: "whitespace only", jobID: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			fetch := scriptedFetch(&calls, snapStep(StateComplete, ""))

			start := time.Now()
			err := Wait(context.Background(), tt.jobID, fetch, Options{Timeout: time.Hour})

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingJobID)
			assert.Zero(t, calls, "fetch must not be called for an invalid job id")
			assert.Less(t, time.Since(start), time.Second, "invalid input must fail without sleeping")
		})
	}
}

func TestWait_NilFetch(t *testing.T) {
	err := Wait(context.Background(), "job-1", nil, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNilFetch)
}

func TestWait_ImmediateComplete(t *testing.T) {
	calls := 0
	fetch := scriptedFetch(&calls, snapStep(StateComplete, ""))

	opts := fastOptions()
	opts.Timeout = time.Hour
	opts.Interval = time.Hour // would hang the test if the loop slept

	var progress []string
	opts.Progress = func(elapsed time.Duration, message string) {
		progress = append(progress, message)
	}

	start := time.Now()
	err := Wait(context.Background(), "job-1", fetch, opts)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, progress, "terminal first check must not emit progress")
	assert.Less(t, time.Since(start), time.Second)
}

func TestWait_ImmediateFailure(t *testing.T) {
	tests := []struct {
		name       string
		detail     string
		wantReason string
	}{
		{
			name:       "failure with detail",
			detail:     "content moderation rejected the prompt",
			wantReason: "content moderation rejected the prompt",
		},
		{
			name:       "failure without detail",
			detail:     "",
			wantReason: "Unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			fetch := scriptedFetch(&calls, snapStep(StateFailed, tt.detail))

			opts := fastOptions()
			opts.Interval = time.Hour

			start := time.Now()
			err := Wait(context.Background(), "job-1", fetch, opts)

			require.Error(t, err)

			var failed *JobFailedError
			require.ErrorAs(t, err, &failed)
			assert.Equal(t, "job-1", failed.JobID)
			assert.Equal(t, tt.wantReason, failed.Reason)
			assert.Equal(t, 1, calls, "a FAILED job must never be re-fetched")
			assert.Less(t, time.Since(start), time.Second)
		})
	}
}

func TestWait_ProgressesThroughStates(t *testing.T) {
	calls := 0
	fetch := scriptedFetch(&calls,
		snapStep(StatePending, ""),
		snapStep(StateRunning, ""),
		snapStep(StateComplete, ""),
	)

	opts := fastOptions()

	var progress []string
	opts.Progress = func(elapsed time.Duration, message string) {
		progress = append(progress, message)
	}

	err := Wait(context.Background(), "job-1", fetch, opts)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	require.Len(t, progress, 2, "one progress line per non-terminal check")
	assert.Contains(t, progress[0], "Waiting for generation")
}

func TestWait_TransientErrorsAbsorbed(t *testing.T) {
	errConnReset := errors.New("connection reset by peer")

	calls := 0
	fetch := scriptedFetch(&calls,
		errStep(errConnReset),
		errStep(errConnReset),
		snapStep(StateComplete, ""),
	)

	opts := fastOptions()

	var progress []string
	opts.Progress = func(elapsed time.Duration, message string) {
		progress = append(progress, message)
	}

	err := Wait(context.Background(), "job-1", fetch, opts)

	require.NoError(t, err, "transient fetch errors must not end the wait")
	assert.Equal(t, 3, calls)
	require.Len(t, progress, 2)
	assert.Contains(t, progress[0], "Error checking status")
	assert.Contains(t, progress[0], "connection reset by peer")
}

func TestWait_Timeout(t *testing.T) {
	calls := 0
	fetch := scriptedFetch(&calls, snapStep(StatePending, ""))

	opts := fastOptions()
	opts.Timeout = 30 * time.Millisecond

	err := Wait(context.Background(), "job-1", fetch, opts)

	require.Error(t, err)

	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "job-1", timeout.JobID)
	assert.Equal(t, opts.Timeout, timeout.Budget)
	assert.NoError(t, timeout.LastFetchErr)
	assert.Greater(t, calls, 1, "the loop must keep checking until the budget runs out")
}

func TestWait_TimeoutKeepsLastFetchError(t *testing.T) {
	errUpstream := errors.New("bad gateway")

	calls := 0
	fetch := scriptedFetch(&calls, errStep(errUpstream))

	opts := fastOptions()
	opts.Timeout = 20 * time.Millisecond

	err := Wait(context.Background(), "job-1", fetch, opts)

	require.Error(t, err)

	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.ErrorIs(t, err, errUpstream, "the last transient error must survive in the chain")
}

func TestWait_TimeoutWinsOverPendingJob(t *testing.T) {
	// The job would complete on a later check, but the budget runs out
	// first and the wait must still report a timeout.
	calls := 0
	fetch := func(ctx context.Context, jobID string) (Snapshot, error) {
		calls++
		if calls > 1000 {
			return Snapshot{State: StateComplete}, nil
		}
		return Snapshot{State: StatePending}, nil
	}

	opts := fastOptions()
	opts.Timeout = 25 * time.Millisecond
	opts.Interval = 5 * time.Millisecond

	err := Wait(context.Background(), "job-1", fetch, opts)

	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
}

func TestWait_ContextCanceled(t *testing.T) {
	t.Run("canceled before the first check", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		fetch := scriptedFetch(&calls, snapStep(StateComplete, ""))

		err := Wait(ctx, "job-1", fetch, Options{})

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls)
	})

	t.Run("canceled during the interval sleep", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		calls := 0
		fetch := scriptedFetch(&calls, snapStep(StatePending, ""))

		opts := fastOptions()
		opts.Timeout = time.Hour
		opts.Interval = time.Hour

		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		start := time.Now()
		err := Wait(ctx, "job-1", fetch, opts)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Second, "cancellation must interrupt the sleep")
	})
}

func TestWait_UnrecognizedStatusKeepsPolling(t *testing.T) {
	calls := 0
	fetch := scriptedFetch(&calls,
		snapStep(State("QUEUED"), ""),
		snapStep(State(""), ""),
		snapStep(StateComplete, ""),
	)

	err := Wait(context.Background(), "job-1", fetch, fastOptions())

	require.NoError(t, err)
	assert.Equal(t, 3, calls, "unknown states must be treated as still in progress")
}

func TestWait_ProgressElapsedMonotonic(t *testing.T) {
	calls := 0
	fetch := scriptedFetch(&calls,
		snapStep(StatePending, ""),
		snapStep(StatePending, ""),
		snapStep(StatePending, ""),
		snapStep(StateComplete, ""),
	)

	opts := fastOptions()

	var elapsed []time.Duration
	opts.Progress = func(d time.Duration, message string) {
		elapsed = append(elapsed, d)
	}

	err := Wait(context.Background(), "job-1", fetch, opts)

	require.NoError(t, err)
	require.Len(t, elapsed, 3)
	for i := 1; i < len(elapsed); i++ {
		assert.GreaterOrEqual(t, elapsed[i], elapsed[i-1], "elapsed time must never go backwards")
	}
}

func TestState_Terminal(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		terminal bool
		known    bool
	}{
		{name: "pending", state: StatePending, terminal: false, known: true},
		{name: "running", state: StateRunning, terminal: false, known: true},
		{name: "complete", state: StateComplete, terminal: true, known: true},
		{name: "failed", state: StateFailed, terminal: true, known: true},
		{name: "empty", state: State(""), terminal: false, known: false},
		{name: "vendor surprise", state: State("QUEUED"), terminal: false, known: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.state.Terminal())
			assert.Equal(t, tt.known, tt.state.Known())
		})
	}
}

func TestTimeoutError_Message(t *testing.T) {
	err := &TimeoutError{JobID: "job-1", Budget: 2 * time.Minute}
	assert.Equal(t, "operation timed out after 120 seconds", err.Error())
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}.withDefaults()

	assert.Equal(t, DefaultTimeout, opts.Timeout)
	assert.Equal(t, DefaultInterval, opts.Interval)
	assert.Equal(t, DefaultErrorBackoff, opts.ErrorBackoff)
	assert.Equal(t, "job", opts.Description)
	assert.NotNil(t, opts.Logger)
}
