package testcase

import (
	"context"
	"fmt"

	"github.com/michael-freling/testcase-generator/internal/remote"
)

// CoverageService analyzes how well existing test cases cover a requirements document
type CoverageService struct {
	client remote.Client
	opts   serviceOptions
}

// NewCoverageService creates a CoverageService backed by client
func NewCoverageService(client remote.Client, opts ...ServiceOption) *CoverageService {
	return &CoverageService{
		client: client,
		opts:   newServiceOptions(opts),
	}
}

// Validate runs the coverage precondition without calling the remote service
func (s *CoverageService) Validate(requirements, currentTestCases string) error {
	return ValidateCoverageInputs(requirements, currentTestCases)
}

// Analyze validates both inputs, makes a single remote call and returns the report verbatim.
// The only error it returns is a *ValidationError.
func (s *CoverageService) Analyze(ctx context.Context, requirements, currentTestCases string) (*Outcome, error) {
	if err := s.Validate(requirements, currentTestCases); err != nil {
		return nil, err
	}

	callCtx, cancel := s.opts.callContext(ctx)
	defer cancel()

	body, err := s.client.AnalyzeCoverage(callCtx, remote.AnalyzeRequest{
		Requirements:     requirements,
		CurrentTestCases: currentTestCases,
	})
	if err != nil {
		return s.fallback(requirements, currentTestCases, err), nil
	}

	report, err := s.opts.parser.ParseCoverage(body)
	if err != nil {
		return s.fallback(requirements, currentTestCases, err), nil
	}

	return &Outcome{
		Status:   StatusSucceeded,
		Coverage: report,
		Notice:   NoticeCoverageSucceeded,
	}, nil
}

func (s *CoverageService) fallback(requirements, currentTestCases string, cause error) *Outcome {
	cause = fmt.Errorf("%w: %w", ErrRemoteUnavailable, cause)
	s.opts.logger.Warn("coverage analysis degraded to fallback",
		"error", cause,
		"requirements_length", len(requirements),
		"test_cases_length", len(currentTestCases),
	)

	return &Outcome{
		Status:   StatusDegradedSucceeded,
		Coverage: SynthesizeCoverage(requirements, currentTestCases),
		Notice:   NoticeCoverageDegraded,
		Cause:    cause,
	}
}
