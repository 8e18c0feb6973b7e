package testcase

import (
	"context"
	"time"

	"github.com/michael-freling/testcase-generator/internal/logging"
)

// DefaultTimeout bounds a single remote call. Expiry is handled like any other remote failure.
const DefaultTimeout = 30 * time.Second

type serviceOptions struct {
	parser  PayloadParser
	logger  logging.Logger
	timeout time.Duration
	mode    Mode
}

// ServiceOption configures GenerationService and CoverageService
type ServiceOption func(*serviceOptions)

// WithLogger sets the logger used for diagnostics of swallowed remote failures
func WithLogger(logger logging.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithTimeout bounds each remote call. Zero or negative disables the bound.
func WithTimeout(timeout time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		o.timeout = timeout
	}
}

// WithMode selects the fallback shape of GenerationService. It is ignored by CoverageService.
func WithMode(mode Mode) ServiceOption {
	return func(o *serviceOptions) {
		o.mode = mode
	}
}

func newServiceOptions(opts []ServiceOption) serviceOptions {
	o := serviceOptions{
		parser:  NewPayloadParser(),
		logger:  logging.NewNopLogger(),
		timeout: DefaultTimeout,
		mode:    ModeStructured,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o serviceOptions) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.timeout > 0 {
		return context.WithTimeout(ctx, o.timeout)
	}
	return context.WithCancel(ctx)
}
