package testcase

import (
	"context"
	"fmt"

	"github.com/michael-freling/testcase-generator/internal/remote"
)

// GenerationService generates test cases from a requirements document.
// Remote failures never reach the caller; they degrade into synthesized fallback content.
type GenerationService struct {
	client remote.Client
	opts   serviceOptions
}

// NewGenerationService creates a GenerationService backed by client
func NewGenerationService(client remote.Client, opts ...ServiceOption) *GenerationService {
	return &GenerationService{
		client: client,
		opts:   newServiceOptions(opts),
	}
}

// Mode returns the shape used for fallback results
func (s *GenerationService) Mode() Mode {
	return s.opts.mode
}

// Validate runs the generation precondition without calling the remote service
func (s *GenerationService) Validate(requirements string) error {
	return ValidateRequirements(requirements)
}

// Generate validates requirements, makes a single remote call and parses the result.
// The only error it returns is a *ValidationError.
func (s *GenerationService) Generate(ctx context.Context, requirements string) (*Outcome, error) {
	if err := s.Validate(requirements); err != nil {
		return nil, err
	}

	callCtx, cancel := s.opts.callContext(ctx)
	defer cancel()

	body, err := s.client.GenerateTestCases(callCtx, remote.GenerateRequest{Requirements: requirements})
	if err != nil {
		return s.fallback(requirements, err), nil
	}

	result, err := s.opts.parser.ParseGeneration(body)
	if err != nil {
		return s.fallback(requirements, err), nil
	}

	return &Outcome{
		Status:     StatusSucceeded,
		Generation: result,
		Notice:     NoticeGenerationSucceeded,
	}, nil
}

func (s *GenerationService) fallback(requirements string, cause error) *Outcome {
	cause = fmt.Errorf("%w: %w", ErrRemoteUnavailable, cause)
	s.opts.logger.Warn("test case generation degraded to fallback",
		"error", cause,
		"mode", s.opts.mode,
		"requirements_length", len(requirements),
	)

	return &Outcome{
		Status:     StatusDegradedSucceeded,
		Generation: SynthesizeGeneration(requirements, s.opts.mode),
		Notice:     NoticeGenerationDegraded,
		Cause:      cause,
	}
}
