package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/michael-freling/testcase-generator/internal/remote"
	"github.com/michael-freling/testcase-generator/internal/testcase"
)

// phaseRecorder collects observed transitions
type phaseRecorder struct {
	mu     sync.Mutex
	phases []Phase
}

func (r *phaseRecorder) observe(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases = append(r.phases, s.Phase)
}

func (r *phaseRecorder) get() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Phase(nil), r.phases...)
}

// blockingAction blocks in Execute until released
type blockingAction struct {
	name     string
	started  chan struct{}
	release  chan struct{}
	outcome  *testcase.Outcome
	ctxErrCh chan error
}

func newBlockingAction(name string, outcome *testcase.Outcome) *blockingAction {
	return &blockingAction{
		name:     name,
		started:  make(chan struct{}),
		release:  make(chan struct{}),
		outcome:  outcome,
		ctxErrCh: make(chan error, 1),
	}
}

func (a *blockingAction) Name() string    { return a.name }
func (a *blockingAction) Validate() error { return nil }

func (a *blockingAction) Execute(ctx context.Context) (*testcase.Outcome, error) {
	close(a.started)
	<-a.release
	a.ctxErrCh <- ctx.Err()
	return a.outcome, nil
}

func waitStarted(t *testing.T, a *blockingAction) {
	t.Helper()
	select {
	case <-a.started:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for action to start")
	}
}

func TestNewController(t *testing.T) {
	c := NewController()
	require.NotNil(t, c)
	assert.Equal(t, PhaseIdle, c.State().Phase)
}

func TestController_Submit_Generate(t *testing.T) {
	succeeded := &testcase.Outcome{
		Status:     testcase.StatusSucceeded,
		Generation: &testcase.GenerationResult{Mode: testcase.ModeText, Text: "cases"},
		Notice:     testcase.NoticeGenerationSucceeded,
	}
	degraded := &testcase.Outcome{
		Status:     testcase.StatusDegradedSucceeded,
		Generation: testcase.SynthesizeGeneration("Login must work.", testcase.ModeStructured),
		Notice:     testcase.NoticeGenerationDegraded,
		Cause:      testcase.ErrRemoteUnavailable,
	}
	validationErr := &testcase.ValidationError{Code: testcase.CodeRequirementsEmpty, Message: "Please enter requirements before generating test cases."}

	tests := []struct {
		name        string
		setupMock   func(*MockGenerator)
		wantPhases  []Phase
		wantPhase   Phase
		wantNotice  string
		wantMessage string
	}{
		{
			name: "succeeds",
			setupMock: func(m *MockGenerator) {
				m.On("Validate", "Login must work.").Return(nil)
				m.On("Generate", mock.Anything, "Login must work.").Return(succeeded, nil)
			},
			wantPhases: []Phase{PhaseValidating, PhaseInFlight, PhaseSucceeded},
			wantPhase:  PhaseSucceeded,
			wantNotice: testcase.NoticeGenerationSucceeded,
		},
		{
			name: "degrades when the service falls back",
			setupMock: func(m *MockGenerator) {
				m.On("Validate", "Login must work.").Return(nil)
				m.On("Generate", mock.Anything, "Login must work.").Return(degraded, nil)
			},
			wantPhases: []Phase{PhaseValidating, PhaseInFlight, PhaseDegradedSucceeded},
			wantPhase:  PhaseDegradedSucceeded,
			wantNotice: testcase.NoticeGenerationDegraded,
		},
		{
			name: "fails validation without entering in flight",
			setupMock: func(m *MockGenerator) {
				m.On("Validate", "Login must work.").Return(validationErr)
			},
			wantPhases:  []Phase{PhaseValidating, PhaseFailed},
			wantPhase:   PhaseFailed,
			wantMessage: "Please enter requirements before generating test cases.",
		},
		{
			name: "fails when the service returns no outcome",
			setupMock: func(m *MockGenerator) {
				m.On("Validate", "Login must work.").Return(nil)
				m.On("Generate", mock.Anything, "Login must work.").Return(nil, nil)
			},
			wantPhases:  []Phase{PhaseValidating, PhaseInFlight, PhaseFailed},
			wantPhase:   PhaseFailed,
			wantMessage: "generate returned no outcome",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := &MockGenerator{}
			tt.setupMock(generator)
			recorder := &phaseRecorder{}
			c := NewController(WithObserver(recorder.observe), WithRunIDFunc(func() string { return "run-1" }))

			got, err := c.Submit(context.Background(), GenerateAction(generator, "Login must work."))

			require.NoError(t, err)
			assert.Equal(t, tt.wantPhase, got.Phase)
			assert.Equal(t, tt.wantNotice, got.Notice)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.Equal(t, "run-1", got.RunID)
			assert.Equal(t, got, c.State())
			assert.Equal(t, tt.wantPhases, recorder.get())
			generator.AssertExpectations(t)
			if tt.wantPhase == PhaseFailed && tt.wantMessage == validationErr.Message {
				generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
				assert.ErrorIs(t, got.Err, testcase.ErrValidation)
			}
		})
	}
}

func TestController_Submit_AnalyzeWithBlankTestCases(t *testing.T) {
	c := NewController()
	svc := testcase.NewCoverageService(remote.NewDisabledClient())

	got, err := c.Submit(context.Background(), AnalyzeAction(svc, "R1: login. R2: logout.", ""))

	require.NoError(t, err)
	assert.Equal(t, PhaseFailed, got.Phase)
	var validationErr *testcase.ValidationError
	require.True(t, errors.As(got.Err, &validationErr))
	assert.Equal(t, testcase.CodeMissingInputs, validationErr.Code)
	assert.Nil(t, got.Outcome)
}

func TestController_Submit_AnalyzeDegraded(t *testing.T) {
	analyzer := &MockAnalyzer{}
	outcome := &testcase.Outcome{
		Status:   testcase.StatusDegradedSucceeded,
		Coverage: testcase.SynthesizeCoverage("R1", "T1"),
		Notice:   testcase.NoticeCoverageDegraded,
	}
	analyzer.On("Validate", "R1", "T1").Return(nil)
	analyzer.On("Analyze", mock.Anything, "R1", "T1").Return(outcome, nil)

	c := NewController()
	got, err := c.Submit(context.Background(), AnalyzeAction(analyzer, "R1", "T1"))

	require.NoError(t, err)
	assert.Equal(t, PhaseDegradedSucceeded, got.Phase)
	assert.Same(t, outcome, got.Outcome)
	analyzer.AssertExpectations(t)
}

func TestController_RemoteFailureNeverFails(t *testing.T) {
	c := NewController()
	svc := testcase.NewGenerationService(remote.NewDisabledClient())

	got, err := c.Submit(context.Background(), GenerateAction(svc, "Users must log in with email and password."))

	require.NoError(t, err)
	assert.Equal(t, PhaseDegradedSucceeded, got.Phase)
	assert.Contains(t, got.Notice, "backend not connected")
	assert.Contains(t, got.Outcome.Generation.TestCases[0].Description, "Users must log in with email and password.")
}

func TestController_StateIsInFlightDuringCall(t *testing.T) {
	c := NewController()
	action := newBlockingAction("slow", &testcase.Outcome{Status: testcase.StatusSucceeded, Notice: "done"})

	done := make(chan State)
	go func() {
		got, _ := c.Submit(context.Background(), action)
		done <- got
	}()

	waitStarted(t, action)
	assert.Equal(t, PhaseInFlight, c.State().Phase)
	assert.ErrorIs(t, c.Reset(), ErrRunInFlight)

	close(action.release)
	got := <-done
	assert.Equal(t, PhaseSucceeded, got.Phase)
	assert.Equal(t, PhaseSucceeded, c.State().Phase)
}

func TestController_LateResultOfSupersededRunIsDiscarded(t *testing.T) {
	c := NewController()
	older := newBlockingAction("older", &testcase.Outcome{Status: testcase.StatusSucceeded, Notice: "older"})
	newer := newBlockingAction("newer", &testcase.Outcome{Status: testcase.StatusSucceeded, Notice: "newer"})

	type result struct {
		state State
		err   error
	}
	olderDone := make(chan result)
	go func() {
		s, err := c.Submit(context.Background(), older)
		olderDone <- result{s, err}
	}()
	waitStarted(t, older)
	olderToken := c.State().Token

	newerDone := make(chan result)
	go func() {
		s, err := c.Submit(context.Background(), newer)
		newerDone <- result{s, err}
	}()
	waitStarted(t, newer)

	// newer finishes first, then the older response arrives late
	close(newer.release)
	newerResult := <-newerDone
	require.NoError(t, newerResult.err)
	assert.Equal(t, "newer", newerResult.state.Notice)

	close(older.release)
	olderResult := <-olderDone
	assert.ErrorIs(t, olderResult.err, ErrSuperseded)
	assert.Equal(t, "older", olderResult.state.Notice)
	assert.ErrorIs(t, <-older.ctxErrCh, context.Canceled)
	assert.NoError(t, <-newer.ctxErrCh)

	final := c.State()
	assert.Equal(t, PhaseSucceeded, final.Phase)
	assert.Equal(t, "newer", final.Notice)
	assert.Greater(t, final.Token, olderToken)
}

func TestController_LateResultAfterNewerRunFinishedIsDiscarded(t *testing.T) {
	c := NewController()
	older := newBlockingAction("older", &testcase.Outcome{Status: testcase.StatusSucceeded, Notice: "older"})

	olderErr := make(chan error)
	go func() {
		_, err := c.Submit(context.Background(), older)
		olderErr <- err
	}()
	waitStarted(t, older)

	generator := &MockGenerator{}
	generator.On("Validate", "R").Return(nil)
	generator.On("Generate", mock.Anything, "R").Return(&testcase.Outcome{Status: testcase.StatusDegradedSucceeded, Notice: "newer"}, nil)
	got, err := c.Submit(context.Background(), GenerateAction(generator, "R"))
	require.NoError(t, err)
	assert.Equal(t, PhaseDegradedSucceeded, got.Phase)

	close(older.release)
	assert.ErrorIs(t, <-olderErr, ErrSuperseded)
	assert.Equal(t, "newer", c.State().Notice)
}

func TestController_Cancel(t *testing.T) {
	recorder := &phaseRecorder{}
	c := NewController(WithObserver(recorder.observe))
	action := newBlockingAction("slow", &testcase.Outcome{Status: testcase.StatusSucceeded, Notice: "late"})

	errCh := make(chan error)
	go func() {
		_, err := c.Submit(context.Background(), action)
		errCh <- err
	}()
	waitStarted(t, action)

	c.Cancel()
	assert.Equal(t, PhaseIdle, c.State().Phase)

	close(action.release)
	assert.ErrorIs(t, <-errCh, ErrCancelled)
	assert.ErrorIs(t, <-action.ctxErrCh, context.Canceled)
	assert.Equal(t, PhaseIdle, c.State().Phase)
	assert.Equal(t, []Phase{PhaseValidating, PhaseInFlight, PhaseIdle}, recorder.get())
}

func TestController_Reset(t *testing.T) {
	c := NewController()
	generator := &MockGenerator{}
	generator.On("Validate", "").Return(&testcase.ValidationError{Code: testcase.CodeRequirementsEmpty, Message: "empty"})

	got, err := c.Submit(context.Background(), GenerateAction(generator, ""))
	require.NoError(t, err)
	require.Equal(t, PhaseFailed, got.Phase)

	require.NoError(t, c.Reset())
	state := c.State()
	assert.Equal(t, PhaseIdle, state.Phase)
	assert.Empty(t, state.Message)
	assert.Nil(t, state.Err)
}

func TestController_ResetWhenIdleIsNoop(t *testing.T) {
	recorder := &phaseRecorder{}
	c := NewController(WithObserver(recorder.observe))

	require.NoError(t, c.Reset())
	assert.Equal(t, PhaseIdle, c.State().Phase)
	assert.Empty(t, recorder.get())
}

func TestController_RecordsRunTimes(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var mu sync.Mutex
	ticks := 0
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		ticks++
		return start.Add(time.Duration(ticks-1) * 90 * time.Second)
	}

	var observed []State
	c := NewController(
		WithClock(clock),
		WithObserver(func(s State) { observed = append(observed, s) }),
	)
	generator := &MockGenerator{}
	generator.On("Validate", "R").Return(nil)
	generator.On("Generate", mock.Anything, "R").Return(&testcase.Outcome{Status: testcase.StatusSucceeded, Notice: "ok"}, nil)

	got, err := c.Submit(context.Background(), GenerateAction(generator, "R"))
	require.NoError(t, err)

	assert.Equal(t, start, got.StartedAt)
	assert.Equal(t, start.Add(90*time.Second), got.FinishedAt)
	assert.Equal(t, 90*time.Second, got.Elapsed())
	require.Len(t, observed, 3)
	for _, s := range observed[:2] {
		assert.Equal(t, start, s.StartedAt)
		assert.True(t, s.FinishedAt.IsZero())
		assert.Zero(t, s.Elapsed())
	}
}

func TestController_ResubmitAfterTerminalState(t *testing.T) {
	c := NewController()
	generator := &MockGenerator{}
	generator.On("Validate", "").Return(&testcase.ValidationError{Code: testcase.CodeRequirementsEmpty, Message: "empty"})
	generator.On("Validate", "R").Return(nil)
	generator.On("Generate", mock.Anything, "R").Return(&testcase.Outcome{Status: testcase.StatusSucceeded, Notice: "ok"}, nil)

	first, err := c.Submit(context.Background(), GenerateAction(generator, ""))
	require.NoError(t, err)
	second, err := c.Submit(context.Background(), GenerateAction(generator, "R"))
	require.NoError(t, err)

	assert.Equal(t, PhaseFailed, first.Phase)
	assert.Equal(t, PhaseSucceeded, second.Phase)
	assert.Empty(t, second.Message)
	assert.Greater(t, second.Token, first.Token)
}

func TestController_IndependentInstances(t *testing.T) {
	generation := NewController()
	coverage := NewController()
	action := newBlockingAction("slow", &testcase.Outcome{Status: testcase.StatusSucceeded})

	done := make(chan struct{})
	go func() {
		_, _ = generation.Submit(context.Background(), action)
		close(done)
	}()
	waitStarted(t, action)

	svc := testcase.NewCoverageService(remote.NewDisabledClient())
	got, err := coverage.Submit(context.Background(), AnalyzeAction(svc, "R1", "T1"))
	require.NoError(t, err)
	assert.Equal(t, PhaseDegradedSucceeded, got.Phase)
	assert.Equal(t, PhaseInFlight, generation.State().Phase)

	close(action.release)
	<-done
	assert.Equal(t, PhaseSucceeded, generation.State().Phase)
}

func TestPhase_IsTerminal(t *testing.T) {
	tests := []struct {
		phase Phase
		want  bool
	}{
		{PhaseIdle, false},
		{PhaseValidating, false},
		{PhaseInFlight, false},
		{PhaseSucceeded, true},
		{PhaseDegradedSucceeded, true},
		{PhaseFailed, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.phase.IsTerminal())
		})
	}
}

func TestState_Elapsed(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		state State
		want  time.Duration
	}{
		{
			name:  "finished run",
			state: State{Phase: PhaseFailed, StartedAt: start, FinishedAt: start.Add(3 * time.Second)},
			want:  3 * time.Second,
		},
		{
			name:  "run in flight",
			state: State{Phase: PhaseInFlight, StartedAt: start, FinishedAt: start.Add(3 * time.Second)},
		},
		{
			name:  "no timestamps",
			state: State{Phase: PhaseSucceeded},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Elapsed())
		})
	}
}
