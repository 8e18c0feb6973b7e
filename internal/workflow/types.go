package workflow

import (
	"errors"
	"time"

	"github.com/michael-freling/testcase-generator/internal/testcase"
)

// Phase is the visible state of a workflow run
type Phase string

const (
	PhaseIdle              Phase = "IDLE"
	PhaseValidating        Phase = "VALIDATING"
	PhaseInFlight          Phase = "IN_FLIGHT"
	PhaseSucceeded         Phase = "SUCCEEDED"
	PhaseDegradedSucceeded Phase = "DEGRADED_SUCCEEDED"
	PhaseFailed            Phase = "FAILED"
)

// IsTerminal reports whether the phase ends a run
func (p Phase) IsTerminal() bool {
	switch p {
	case PhaseSucceeded, PhaseDegradedSucceeded, PhaseFailed:
		return true
	default:
		return false
	}
}

// State is a snapshot of a Controller.
// Outcome is set for SUCCEEDED and DEGRADED_SUCCEEDED; Message and Err for FAILED.
type State struct {
	Phase Phase
	// Token orders runs of one controller; a larger token is a newer run
	Token uint64
	// RunID identifies the run in logs
	RunID   string
	Outcome *testcase.Outcome
	// Notice is the human-readable status line of a succeeded run
	Notice  string
	Message string
	Err     error
	// StartedAt is when the run was submitted; FinishedAt is set on terminal phases
	StartedAt  time.Time
	FinishedAt time.Time
}

// Elapsed is the wall time of a finished run, or zero while it is still going
func (s State) Elapsed() time.Duration {
	if !s.Phase.IsTerminal() || s.StartedAt.IsZero() || s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Error variables for common error conditions
var (
	ErrSuperseded  = errors.New("workflow run superseded by a newer submission")
	ErrCancelled   = errors.New("workflow run cancelled")
	ErrRunInFlight = errors.New("workflow run in flight")
)
