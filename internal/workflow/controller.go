package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/michael-freling/testcase-generator/internal/logging"
	"github.com/michael-freling/testcase-generator/internal/testcase"
)

// Controller owns the state machine of one screen:
//
//	IDLE -> VALIDATING -> IN_FLIGHT -> SUCCEEDED | DEGRADED_SUCCEEDED
//	              \-> FAILED
//
// A Submit while another run is in flight supersedes it: the older run's context is
// cancelled and whatever it returns later is discarded. Staleness is decided by the
// run token, never by the order in which results arrive.
type Controller struct {
	mu        sync.Mutex
	state     State
	seq       uint64
	active    uint64
	cancel    context.CancelFunc
	abandoned map[uint64]error

	observers []func(State)
	logger    logging.Logger
	newRunID  func() string
	now       func() time.Time
}

// Option configures a Controller
type Option func(*Controller)

// WithObserver registers fn to receive every applied transition in order.
// fn runs while the controller is locked and must not call back into it.
func WithObserver(fn func(State)) Option {
	return func(c *Controller) {
		c.observers = append(c.observers, fn)
	}
}

// WithLogger sets the logger
func WithLogger(logger logging.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithRunIDFunc overrides run id generation
func WithRunIDFunc(fn func() string) Option {
	return func(c *Controller) {
		c.newRunID = fn
	}
}

// WithClock overrides the time source used for run timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController creates an idle controller
func NewController(opts ...Option) *Controller {
	c := &Controller{
		state:     State{Phase: PhaseIdle},
		abandoned: make(map[uint64]error),
		logger:    logging.NewNopLogger(),
		newRunID:  uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit runs action to completion and returns the state it produced.
// If the run is superseded or cancelled before it finishes, its result is not applied and
// ErrSuperseded or ErrCancelled is returned along with the discarded state.
func (c *Controller) Submit(ctx context.Context, action Action) (State, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if c.active != 0 {
		c.abandonLocked(ErrSuperseded)
	}
	c.seq++
	token := c.seq
	run := State{Token: token, RunID: c.newRunID(), StartedAt: c.now()}
	c.active = token
	c.cancel = cancel
	c.setLocked(run.with(PhaseValidating), action)
	c.mu.Unlock()

	if err := action.Validate(); err != nil {
		return c.finish(token, failedState(run, err), action)
	}

	if !c.advance(token, run.with(PhaseInFlight), action) {
		return c.finish(token, run.with(PhaseValidating), action)
	}

	outcome, err := action.Execute(runCtx)
	if err == nil && outcome == nil {
		err = fmt.Errorf("%s returned no outcome", action.Name())
	}
	if err != nil {
		return c.finish(token, failedState(run, err), action)
	}
	return c.finish(token, completedState(run, outcome), action)
}

// Cancel abandons the run in flight, if any, and returns to IDLE
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != 0 {
		c.abandonLocked(ErrCancelled)
	}
	c.seq++
	c.setLocked(State{Phase: PhaseIdle, Token: c.seq}, nil)
}

// Reset returns a finished controller to IDLE. It fails with ErrRunInFlight while a run is active.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != 0 {
		return ErrRunInFlight
	}
	if !c.state.Phase.IsTerminal() {
		return nil
	}
	c.setLocked(State{Phase: PhaseIdle, Token: c.state.Token}, nil)
	return nil
}

// abandonLocked cancels the active run and remembers why
func (c *Controller) abandonLocked(reason error) {
	c.abandoned[c.active] = reason
	if c.cancel != nil {
		c.cancel()
	}
	c.logger.Debug("workflow run abandoned", "token", c.active, "reason", reason)
	c.active = 0
	c.cancel = nil
}

// advance applies an intermediate state if token still owns the controller
func (c *Controller) advance(token uint64, next State, action Action) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.active {
		return false
	}
	c.setLocked(next, action)
	return true
}

// finish applies a terminal state if token still owns the controller
func (c *Controller) finish(token uint64, next State, action Action) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if next.Phase.IsTerminal() {
		next.FinishedAt = c.now()
	}

	if token != c.active {
		reason, ok := c.abandoned[token]
		delete(c.abandoned, token)
		if !ok {
			reason = ErrSuperseded
		}
		c.logger.Debug("discarding stale workflow result", "token", token, "phase", next.Phase, "current_token", c.state.Token)
		return next, reason
	}

	c.active = 0
	c.cancel = nil
	c.setLocked(next, action)
	return next, nil
}

func (c *Controller) setLocked(next State, action Action) {
	c.state = next

	name := ""
	if action != nil {
		name = action.Name()
	}
	c.logger.Debug("workflow transition", "action", name, "phase", next.Phase, "token", next.Token, "run_id", next.RunID)

	for _, fn := range c.observers {
		fn(next)
	}
}

// with copies the run identity into a state of the given phase
func (s State) with(phase Phase) State {
	return State{Phase: phase, Token: s.Token, RunID: s.RunID, StartedAt: s.StartedAt}
}

func failedState(run State, err error) State {
	message := err.Error()
	var validationErr *testcase.ValidationError
	if errors.As(err, &validationErr) {
		message = validationErr.Message
	}
	next := run.with(PhaseFailed)
	next.Message = message
	next.Err = err
	return next
}

func completedState(run State, outcome *testcase.Outcome) State {
	phase := PhaseSucceeded
	if outcome.Degraded() {
		phase = PhaseDegradedSucceeded
	}
	next := run.with(phase)
	next.Outcome = outcome
	next.Notice = outcome.Notice
	return next
}
