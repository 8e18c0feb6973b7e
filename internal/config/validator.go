package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/michael-freling/testcase-generator/internal/testcase"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidModes returns the list of valid generation modes
func ValidModes() []string {
	return []string{string(testcase.ModeStructured), string(testcase.ModeText)}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if u, err := url.Parse(c.Backend.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "backend.url",
			Value:   c.Backend.URL,
			Message: "must be an absolute http or https URL",
		})
	}
	if c.Backend.Timeout <= 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.timeout",
			Value:   c.Backend.Timeout,
			Message: "must be positive",
		})
	}

	if !slices.Contains(ValidModes(), c.Generation.Mode) {
		errs = append(errs, ValidationError{
			Field:   "generation.mode",
			Value:   c.Generation.Mode,
			Message: fmt.Sprintf("must be one of %s", strings.Join(ValidModes(), ", ")),
		})
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, ValidationError{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "must not be empty",
		})
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errs
}
