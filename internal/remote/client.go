package remote

//go:generate mockgen -source=client.go -destination=mock_client.go -package=remote

import (
	"context"
	"errors"
	"fmt"
)

const (
	// GeneratePath is the generate-test-cases endpoint
	GeneratePath = "/generate-test-cases"
	// AnalyzePath is the analyze-coverage endpoint
	AnalyzePath = "/analyze-coverage"
	// HealthPath is the health check endpoint
	HealthPath = "/health"
)

// GenerateRequest is the body of POST generate-test-cases
type GenerateRequest struct {
	Requirements string `json:"requirements"`
}

// AnalyzeRequest is the body of POST analyze-coverage
type AnalyzeRequest struct {
	Requirements     string `json:"requirements"`
	CurrentTestCases string `json:"current_test_cases"`
}

// HealthStatus is the body of GET health
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Client is the outbound request/response boundary to the generation service.
// Successful calls return the raw response body; interpreting it is up to the caller.
type Client interface {
	GenerateTestCases(ctx context.Context, req GenerateRequest) ([]byte, error)
	AnalyzeCoverage(ctx context.Context, req AnalyzeRequest) ([]byte, error)
	Health(ctx context.Context) (*HealthStatus, error)
}

// Error variables for common error conditions
var (
	ErrRemoteDisabled = errors.New("remote generation service is disabled")
	ErrRequestFailed  = errors.New("request to generation service failed")
)

// StatusError is a non-2xx response
type StatusError struct {
	StatusCode int
	// Detail is the "detail" field of an error body, or the raw body when absent
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("generation service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("generation service returned status %d: %s", e.StatusCode, e.Detail)
}

// disabledClient never reaches a backend. It is the demo-only mode.
type disabledClient struct{}

// NewDisabledClient returns a Client whose calls always fail with ErrRemoteDisabled
func NewDisabledClient() Client {
	return disabledClient{}
}

func (disabledClient) GenerateTestCases(context.Context, GenerateRequest) ([]byte, error) {
	return nil, ErrRemoteDisabled
}

func (disabledClient) AnalyzeCoverage(context.Context, AnalyzeRequest) ([]byte, error) {
	return nil, ErrRemoteDisabled
}

func (disabledClient) Health(context.Context) (*HealthStatus, error) {
	return nil, ErrRemoteDisabled
}
