package workflow

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/michael-freling/testcase-generator/internal/testcase"
)

// MockGenerator is a mock implementation of Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Validate(requirements string) error {
	args := m.Called(requirements)
	return args.Error(0)
}

func (m *MockGenerator) Generate(ctx context.Context, requirements string) (*testcase.Outcome, error) {
	args := m.Called(ctx, requirements)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*testcase.Outcome), args.Error(1)
}

// MockAnalyzer is a mock implementation of Analyzer
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Validate(requirements, currentTestCases string) error {
	args := m.Called(requirements, currentTestCases)
	return args.Error(0)
}

func (m *MockAnalyzer) Analyze(ctx context.Context, requirements, currentTestCases string) (*testcase.Outcome, error) {
	args := m.Called(ctx, requirements, currentTestCases)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*testcase.Outcome), args.Error(1)
}
