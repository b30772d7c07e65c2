package poller

// State is the lifecycle state the remote API reports for an async job.
type State string

// Canonical job states. The API reports status as an upper-case string;
// anything outside this set counts as still in progress.
const (
	StatePending  State = "PENDING"
	StateRunning  State = "RUNNING"
	StateComplete State = "COMPLETE"
	StateFailed   State = "FAILED"
)

// Terminal reports whether the state ends the polling loop.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateFailed
}

// Known reports whether the state is one of the canonical values.
func (s State) Known() bool {
	switch s {
	case StatePending, StateRunning, StateComplete, StateFailed:
		return true
	}
	return false
}

// Snapshot is a single observation of a remote job.
type Snapshot struct {
	// State is the lifecycle state as reported by the API.
	State State

	// Detail carries the API's failure message when the job has failed.
	Detail string
}
