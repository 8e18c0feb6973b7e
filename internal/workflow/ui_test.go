package workflow

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michael-freling/testcase-generator/internal/testcase"
)

// syncHooks provides channel-based synchronization for spinner tests
type syncHooks struct {
	started chan struct{}
	stopped chan struct{}
}

func newSyncHooks() *syncHooks {
	return &syncHooks{
		started: make(chan struct{}, 1),
		stopped: make(chan struct{}, 1),
	}
}

func (h *syncHooks) OnStart() {
	select {
	case h.started <- struct{}{}:
	default:
	}
}

func (h *syncHooks) OnStop() {
	select {
	case h.stopped <- struct{}{}:
	default:
	}
}

func (h *syncHooks) WaitForStart(t *testing.T) {
	t.Helper()
	select {
	case <-h.started:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for spinner to start")
	}
}

func (h *syncHooks) WaitForStop(t *testing.T) {
	t.Helper()
	select {
	case <-h.stopped:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for spinner to stop")
	}
}

// lockedBuffer is a bytes.Buffer safe for the spinner goroutine
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestColorFunctions(t *testing.T) {
	tests := []struct {
		name      string
		colorFunc func(string) string
		input     string
	}{
		{name: "Green keeps text", colorFunc: Green, input: "success"},
		{name: "Red keeps text", colorFunc: Red, input: "error"},
		{name: "Yellow keeps text", colorFunc: Yellow, input: "warning"},
		{name: "Cyan keeps text", colorFunc: Cyan, input: "info"},
		{name: "Bold keeps text", colorFunc: Bold, input: "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.colorFunc(tt.input), tt.input)
		})
	}
}

func TestSpinner_Lifecycle(t *testing.T) {
	out := &lockedBuffer{}
	spinner := NewSpinner(out, "Generating")
	hooks := newSyncHooks()
	spinner.SetHooks(hooks)

	spinner.Start()
	hooks.WaitForStart(t)
	spinner.Stop()
	hooks.WaitForStop(t)

	assert.Contains(t, out.String(), "\r\033[K")
}

func TestSpinner_DoubleStartAndStop(t *testing.T) {
	out := &lockedBuffer{}
	spinner := NewSpinner(out, "Generating")
	hooks := newSyncHooks()
	spinner.SetHooks(hooks)

	spinner.Start()
	hooks.WaitForStart(t)
	spinner.Start()
	select {
	case <-hooks.started:
		t.Fatal("second Start should be a no-op")
	default:
	}

	spinner.Stop()
	hooks.WaitForStop(t)
	spinner.Stop()
	select {
	case <-hooks.stopped:
		t.Fatal("second Stop should be a no-op")
	default:
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	out := &lockedBuffer{}
	spinner := NewSpinner(out, "Generating")

	assert.NotPanics(t, spinner.Stop)
	assert.Empty(t, out.String())
}

func TestSpinner_FinalMessages(t *testing.T) {
	tests := []struct {
		name    string
		finish  func(*Spinner, string)
		message string
	}{
		{name: "success", finish: (*Spinner).Success, message: "done"},
		{name: "warn", finish: (*Spinner).Warn, message: "fallback used"},
		{name: "fail", finish: (*Spinner).Fail, message: "bad input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &lockedBuffer{}
			spinner := NewSpinner(out, "Working")
			spinner.Start()
			tt.finish(spinner, tt.message)

			got := out.String()
			assert.Contains(t, got, tt.message+"\n")
		})
	}
}

func TestSpinnerObserver(t *testing.T) {
	tests := []struct {
		name     string
		states   []State
		contains []string
	}{
		{
			name: "succeeded run prints notice",
			states: []State{
				{Phase: PhaseValidating},
				{Phase: PhaseInFlight},
				{Phase: PhaseSucceeded, Notice: testcase.NoticeGenerationSucceeded},
			},
			contains: []string{testcase.NoticeGenerationSucceeded},
		},
		{
			name: "degraded run prints notice",
			states: []State{
				{Phase: PhaseValidating},
				{Phase: PhaseInFlight},
				{Phase: PhaseDegradedSucceeded, Notice: testcase.NoticeCoverageDegraded},
			},
			contains: []string{testcase.NoticeCoverageDegraded},
		},
		{
			name: "failed validation prints message",
			states: []State{
				{Phase: PhaseValidating},
				{Phase: PhaseFailed, Message: "Please enter requirements before generating test cases."},
			},
			contains: []string{"Please enter requirements before generating test cases."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &lockedBuffer{}
			observe := SpinnerObserver(NewSpinner(out, "Working"))
			for _, s := range tt.states {
				observe(s)
			}
			for _, want := range tt.contains {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestSpinnerObserver_CancelStopsSpinner(t *testing.T) {
	out := &lockedBuffer{}
	spinner := NewSpinner(out, "Working")
	hooks := newSyncHooks()
	spinner.SetHooks(hooks)
	observe := SpinnerObserver(spinner)

	observe(State{Phase: PhaseInFlight})
	hooks.WaitForStart(t)
	observe(State{Phase: PhaseIdle})
	hooks.WaitForStop(t)

	assert.NotContains(t, out.String(), "✓")
	assert.NotContains(t, out.String(), "✗")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "seconds", d: 5 * time.Second, want: "5s"},
		{name: "rounds", d: 1499 * time.Millisecond, want: "1s"},
		{name: "minutes", d: 90 * time.Second, want: "1m 30s"},
		{name: "hours", d: time.Hour + 2*time.Minute + 3*time.Second, want: "1h 2m 3s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.d))
		})
	}
}

func TestGetPhaseName(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseIdle, "Idle"},
		{PhaseValidating, "Validating"},
		{PhaseInFlight, "In Progress"},
		{PhaseSucceeded, "Succeeded"},
		{PhaseDegradedSucceeded, "Succeeded (fallback)"},
		{PhaseFailed, "Failed"},
		{Phase("OTHER"), "OTHER"},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			assert.Equal(t, tt.want, getPhaseName(tt.phase))
		})
	}
}

func TestFormatState(t *testing.T) {
	tests := []struct {
		name        string
		state       State
		contains    []string
		notContains []string
	}{
		{
			name:        "idle",
			state:       State{Phase: PhaseIdle},
			contains:    []string{"Status:", "Idle"},
			notContains: []string{"Run:", "Error:", "Elapsed:"},
		},
		{
			name: "finished run shows elapsed time",
			state: State{
				Phase:      PhaseSucceeded,
				RunID:      "run-1",
				StartedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
				FinishedAt: time.Date(2026, 1, 2, 3, 5, 10, 0, time.UTC),
			},
			contains: []string{"run-1", "Elapsed: 1m 5s"},
		},
		{
			name:        "run in flight has no elapsed time",
			state:       State{Phase: PhaseInFlight, RunID: "run-1", StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
			contains:    []string{"In Progress", "run-1"},
			notContains: []string{"Elapsed:"},
		},
		{
			name:     "succeeded",
			state:    State{Phase: PhaseSucceeded, RunID: "abc", Notice: "ok"},
			contains: []string{"Succeeded", "Run: abc", "Notice: ok"},
		},
		{
			name: "degraded shows backend cause",
			state: State{
				Phase:   PhaseDegradedSucceeded,
				Notice:  testcase.NoticeGenerationDegraded,
				Outcome: &testcase.Outcome{Status: testcase.StatusDegradedSucceeded, Cause: errors.New("connection refused")},
			},
			contains: []string{"Succeeded (fallback)", "Backend:", "connection refused"},
		},
		{
			name:     "failed",
			state:    State{Phase: PhaseFailed, Message: "bad input"},
			contains: []string{"Failed", "Error:", "bad input"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatState(tt.state)
			require.NotEmpty(t, got)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, notWant := range tt.notContains {
				assert.NotContains(t, got, notWant)
			}
		})
	}
}
