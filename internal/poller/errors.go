package poller

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMissingJobID is returned when Wait is called with an empty job id
	ErrMissingJobID = errors.New("job id is required")

	// ErrNilFetch is returned when Wait is called without a fetch function
	ErrNilFetch = errors.New("fetch function is required")
)

// JobFailedError reports that the remote service marked the job FAILED.
// The failure comes from the service itself, not from the transport, so
// it is never retried.
type JobFailedError struct {
	JobID  string
	Reason string
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("job %s failed: %s", e.JobID, e.Reason)
}

// TimeoutError reports that the polling budget ran out before the job
// reached a terminal state. LastFetchErr holds the most recent transient
// fetch error, if any, so the cause of a flaky wait survives in the chain.
type TimeoutError struct {
	JobID        string
	Budget       time.Duration
	LastFetchErr error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation timed out after %d seconds", int(e.Budget.Seconds()))
}

func (e *TimeoutError) Unwrap() error {
	return e.LastFetchErr
}
