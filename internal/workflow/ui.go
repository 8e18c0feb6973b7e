package workflow

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	cyanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
)

// Green returns a green colored string
func Green(s string) string {
	return greenStyle.Render(s)
}

// Red returns a red colored string
func Red(s string) string {
	return redStyle.Render(s)
}

// Yellow returns a yellow colored string
func Yellow(s string) string {
	return yellowStyle.Render(s)
}

// Cyan returns a cyan colored string
func Cyan(s string) string {
	return cyanStyle.Render(s)
}

// Bold returns a bold string
func Bold(s string) string {
	return boldStyle.Render(s)
}

// SpinnerHooks lets tests synchronize with the spinner goroutine
type SpinnerHooks interface {
	OnStart()
	OnStop()
}

// Spinner provides a simple spinner for long-running operations
type Spinner struct {
	out     io.Writer
	message string
	done    chan struct{}
	running bool
	hooks   SpinnerHooks
	mu      sync.Mutex
}

// NewSpinner creates a new spinner writing to out
func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{
		out:     out,
		message: message,
		done:    make(chan struct{}),
	}
}

// SetHooks installs synchronization hooks
func (s *Spinner) SetHooks(hooks SpinnerHooks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = hooks
}

// Start begins the spinner animation
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.done = make(chan struct{})
	done := s.done
	hooks := s.hooks
	s.mu.Unlock()

	if hooks != nil {
		hooks.OnStart()
	}

	go func() {
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			s.mu.Lock()
			if !s.running {
				s.mu.Unlock()
				return
			}
			fmt.Fprintf(s.out, "\r%s %s", frames[i%len(frames)], s.message)
			s.mu.Unlock()

			select {
			case <-done:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the spinner and clears the line
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	fmt.Fprint(s.out, "\r\033[K")
	hooks := s.hooks
	s.mu.Unlock()

	if hooks != nil {
		hooks.OnStop()
	}
}

// Success stops the spinner and shows a success message
func (s *Spinner) Success(message string) {
	s.Stop()
	fmt.Fprintf(s.out, "%s %s\n", Green("✓"), message)
}

// Warn stops the spinner and shows a degraded-result message
func (s *Spinner) Warn(message string) {
	s.Stop()
	fmt.Fprintf(s.out, "%s %s\n", Yellow("!"), message)
}

// Fail stops the spinner and shows a failure message
func (s *Spinner) Fail(message string) {
	s.Stop()
	fmt.Fprintf(s.out, "%s %s\n", Red("✗"), message)
}

// SpinnerObserver drives s from controller transitions: it spins while a run is in
// flight and prints the outcome line when the run ends.
func SpinnerObserver(s *Spinner) func(State) {
	return func(state State) {
		if !state.Phase.IsTerminal() && state.Phase != PhaseInFlight {
			s.Stop()
			return
		}
		switch state.Phase {
		case PhaseInFlight:
			s.Start()
		case PhaseSucceeded:
			s.Success(state.Notice)
		case PhaseDegradedSucceeded:
			s.Warn(state.Notice)
		case PhaseFailed:
			s.Fail(state.Message)
		}
	}
}

// getPhaseName returns a human-readable phase name
func getPhaseName(phase Phase) string {
	switch phase {
	case PhaseIdle:
		return "Idle"
	case PhaseValidating:
		return "Validating"
	case PhaseInFlight:
		return "In Progress"
	case PhaseSucceeded:
		return "Succeeded"
	case PhaseDegradedSucceeded:
		return "Succeeded (fallback)"
	case PhaseFailed:
		return "Failed"
	default:
		return string(phase)
	}
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatState formats a controller state with colors
func FormatState(state State) string {
	var b strings.Builder

	status := getPhaseName(state.Phase)
	switch state.Phase {
	case PhaseSucceeded:
		status = Green(status)
	case PhaseDegradedSucceeded:
		status = Yellow(status)
	case PhaseFailed:
		status = Red(status)
	}
	b.WriteString(Bold("Status: ") + status + "\n")

	if state.RunID != "" {
		b.WriteString("Run: " + Cyan(state.RunID) + "\n")
	}
	if state.Phase.IsTerminal() && !state.StartedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Elapsed: %s\n", FormatDuration(state.Elapsed())))
	}
	if state.Notice != "" {
		b.WriteString(fmt.Sprintf("Notice: %s\n", state.Notice))
	}
	if state.Phase == PhaseFailed {
		b.WriteString(Red("Error: ") + state.Message + "\n")
	}
	if state.Phase == PhaseDegradedSucceeded && state.Outcome != nil && state.Outcome.Cause != nil {
		b.WriteString(Yellow("Backend: ") + state.Outcome.Cause.Error() + "\n")
	}

	return b.String()
}
