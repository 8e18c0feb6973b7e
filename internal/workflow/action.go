package workflow

import (
	"context"

	"github.com/michael-freling/testcase-generator/internal/testcase"
)

// Action is one user-initiated operation driven by a Controller
type Action interface {
	// Name identifies the action in logs
	Name() string
	// Validate checks preconditions without side effects
	Validate() error
	// Execute performs the remote call. It is the only blocking step of a run.
	Execute(ctx context.Context) (*testcase.Outcome, error)
}

// Generator is implemented by testcase.GenerationService
type Generator interface {
	Validate(requirements string) error
	Generate(ctx context.Context, requirements string) (*testcase.Outcome, error)
}

// Analyzer is implemented by testcase.CoverageService
type Analyzer interface {
	Validate(requirements, currentTestCases string) error
	Analyze(ctx context.Context, requirements, currentTestCases string) (*testcase.Outcome, error)
}

type generateAction struct {
	generator    Generator
	requirements string
}

// GenerateAction generates test cases for requirements
func GenerateAction(generator Generator, requirements string) Action {
	return &generateAction{generator: generator, requirements: requirements}
}

func (a *generateAction) Name() string {
	return "generate"
}

func (a *generateAction) Validate() error {
	return a.generator.Validate(a.requirements)
}

func (a *generateAction) Execute(ctx context.Context) (*testcase.Outcome, error) {
	return a.generator.Generate(ctx, a.requirements)
}

type analyzeAction struct {
	analyzer         Analyzer
	requirements     string
	currentTestCases string
}

// AnalyzeAction analyzes coverage of currentTestCases against requirements
func AnalyzeAction(analyzer Analyzer, requirements, currentTestCases string) Action {
	return &analyzeAction{analyzer: analyzer, requirements: requirements, currentTestCases: currentTestCases}
}

func (a *analyzeAction) Name() string {
	return "analyze"
}

func (a *analyzeAction) Validate() error {
	return a.analyzer.Validate(a.requirements, a.currentTestCases)
}

func (a *analyzeAction) Execute(ctx context.Context) (*testcase.Outcome, error) {
	return a.analyzer.Analyze(ctx, a.requirements, a.currentTestCases)
}
