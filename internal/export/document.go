package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/michael-freling/testcase-generator/internal/testcase"
)

// Format is an export file format
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatGherkin  Format = "gherkin"
	FormatText     Format = "text"
)

// Formats lists the supported formats
var Formats = []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatGherkin, FormatText}

// Kind tells which operation produced a document
type Kind string

const (
	KindGeneration Kind = "generation"
	KindCoverage   Kind = "coverage"
)

// Error variables for common error conditions
var (
	ErrUnknownFormat     = errors.New("unknown export format")
	ErrUnsupportedFormat = errors.New("format not supported for this result")
	ErrInvalidGherkin    = errors.New("rendered gherkin is invalid")
	ErrFileLocked        = errors.New("export file is locked by another process")
	ErrNoOutcome         = errors.New("no outcome to export")
)

// ParseFormat parses a format name. "md" and "yml" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "gherkin", "feature":
		return FormatGherkin, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath infers a format from the file extension of path
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Document is the exported form of an outcome
type Document struct {
	Kind        Kind                `json:"kind" yaml:"kind"`
	RunID       string              `json:"runId,omitempty" yaml:"runId,omitempty"`
	Status      testcase.Status     `json:"status" yaml:"status"`
	Notice      string              `json:"notice,omitempty" yaml:"notice,omitempty"`
	GeneratedAt time.Time           `json:"generatedAt" yaml:"generatedAt"`
	Mode        testcase.Mode       `json:"mode,omitempty" yaml:"mode,omitempty"`
	TestCases   []testcase.TestCase `json:"testCases,omitempty" yaml:"testCases,omitempty"`
	Text        string              `json:"text,omitempty" yaml:"text,omitempty"`
	Analysis    string              `json:"analysis,omitempty" yaml:"analysis,omitempty"`
}

// NewDocument builds a document from a finished outcome
func NewDocument(runID string, outcome *testcase.Outcome, generatedAt time.Time) (*Document, error) {
	if outcome == nil {
		return nil, ErrNoOutcome
	}

	doc := &Document{
		RunID:       runID,
		Status:      outcome.Status,
		Notice:      outcome.Notice,
		GeneratedAt: generatedAt.UTC(),
	}
	switch {
	case outcome.Generation != nil:
		doc.Kind = KindGeneration
		doc.Mode = outcome.Generation.Mode
		doc.TestCases = outcome.Generation.TestCases
		doc.Text = outcome.Generation.Text
	case outcome.Coverage != nil:
		doc.Kind = KindCoverage
		doc.Analysis = outcome.Coverage.Text
	default:
		return nil, ErrNoOutcome
	}
	return doc, nil
}

// Structured reports whether the document carries a test case list
func (d *Document) Structured() bool {
	return d.Kind == KindGeneration && d.Mode == testcase.ModeStructured
}

// Degraded reports whether the document was produced by the fallback path
func (d *Document) Degraded() bool {
	return d.Status == testcase.StatusDegradedSucceeded
}
