package testcase

import (
	"errors"
	"fmt"
)

// TestStep is one action and its expected observable outcome
type TestStep struct {
	Action         string `json:"action" yaml:"action"`
	ExpectedOutput string `json:"expectedOutput" yaml:"expectedOutput"`
}

// TestCase is a named, described unit of verification composed of ordered steps
type TestCase struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	TestSteps   []TestStep `json:"testSteps" yaml:"testSteps"`
}

// Mode selects which GenerationResult representation a consumer expects
type Mode string

const (
	// ModeStructured yields a sequence of TestCase
	ModeStructured Mode = "structured"
	// ModeText yields a single pre-formatted text blob
	ModeText Mode = "text"
)

// GenerationResult holds either TestCases (structured mode) or Text (text mode)
type GenerationResult struct {
	Mode      Mode       `json:"mode" yaml:"mode"`
	TestCases []TestCase `json:"testCases,omitempty" yaml:"testCases,omitempty"`
	Text      string     `json:"text,omitempty" yaml:"text,omitempty"`
}

// CoverageReport is the opaque gap report text. It is never parsed by the client.
type CoverageReport struct {
	Text string `json:"analysis" yaml:"analysis"`
}

// Status is the outcome of a service call on valid input
type Status string

const (
	StatusSucceeded         Status = "succeeded"
	StatusDegradedSucceeded Status = "degraded_succeeded"
)

// Outcome is what GenerationService and CoverageService return for valid input.
// Exactly one of Generation and Coverage is set.
type Outcome struct {
	Status     Status
	Generation *GenerationResult
	Coverage   *CoverageReport
	Notice     string
	// Cause is the swallowed remote failure of a degraded outcome
	Cause error
}

// Degraded reports whether the outcome carries synthesized fallback content
func (o *Outcome) Degraded() bool {
	return o != nil && o.Status == StatusDegradedSucceeded
}

// Validation codes
const (
	CodeRequirementsEmpty = "requirements_empty"
	CodeMissingInputs     = "missing_inputs"
)

// User-facing notices
const (
	NoticeGenerationSucceeded = "Test cases generated successfully!"
	NoticeGenerationDegraded  = "Demo test cases generated (backend not connected)"
	NoticeCoverageSucceeded   = "Coverage analysis completed successfully!"
	NoticeCoverageDegraded    = "Demo coverage analysis completed (backend not connected)"
)

// Error variables for common error conditions
var (
	ErrValidation        = errors.New("validation failed")
	ErrRemoteUnavailable = errors.New("remote capability unavailable")
	ErrMalformedPayload  = errors.New("malformed response payload")
)

// ValidationError is a blank or otherwise unusable required input.
// It is reported before any remote call is made.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap lets callers match with errors.Is(err, ErrValidation)
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
