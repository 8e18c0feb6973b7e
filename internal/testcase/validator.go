package testcase

import (
	"fmt"
	"strings"
)

// ValidateRequirements checks the generation precondition
func ValidateRequirements(requirements string) error {
	if strings.TrimSpace(requirements) == "" {
		return &ValidationError{
			Code:    CodeRequirementsEmpty,
			Message: "Please enter requirements before generating test cases.",
		}
	}
	return nil
}

// ValidateCoverageInputs checks the coverage precondition.
// Both inputs are checked; either one being blank fails.
func ValidateCoverageInputs(requirements, currentTestCases string) error {
	requirementsBlank := strings.TrimSpace(requirements) == ""
	testCasesBlank := strings.TrimSpace(currentTestCases) == ""
	if requirementsBlank || testCasesBlank {
		return &ValidationError{
			Code:    CodeMissingInputs,
			Message: "Please enter both requirements and current test cases before analyzing coverage.",
		}
	}
	return nil
}

// Validate checks the invariants of a single test case
func (tc TestCase) Validate() error {
	if strings.TrimSpace(tc.ID) == "" {
		return fmt.Errorf("test case %q missing required field 'id': %w", tc.Name, ErrMalformedPayload)
	}
	if strings.TrimSpace(tc.Name) == "" {
		return fmt.Errorf("test case %q missing required field 'name': %w", tc.ID, ErrMalformedPayload)
	}
	if len(tc.TestSteps) == 0 {
		return fmt.Errorf("test case %q has no test steps: %w", tc.ID, ErrMalformedPayload)
	}
	for i, step := range tc.TestSteps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("test case %q step %d: %w", tc.ID, i+1, err)
		}
	}
	return nil
}

// Validate checks that a step carries both an action and an expected output
func (s TestStep) Validate() error {
	if strings.TrimSpace(s.Action) == "" {
		return fmt.Errorf("missing required field 'action': %w", ErrMalformedPayload)
	}
	if strings.TrimSpace(s.ExpectedOutput) == "" {
		return fmt.Errorf("missing required field 'expectedOutput': %w", ErrMalformedPayload)
	}
	return nil
}

// ValidateTestCases checks every case and id uniqueness within the set
func ValidateTestCases(cases []TestCase) error {
	seen := make(map[string]struct{}, len(cases))
	for _, tc := range cases {
		if err := tc.Validate(); err != nil {
			return err
		}
		if _, ok := seen[tc.ID]; ok {
			return fmt.Errorf("duplicate test case id %q: %w", tc.ID, ErrMalformedPayload)
		}
		seen[tc.ID] = struct{}{}
	}
	return nil
}
