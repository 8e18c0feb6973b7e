package testcase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PayloadParser turns raw remote response bodies into result models
type PayloadParser interface {
	ParseGeneration(body []byte) (*GenerationResult, error)
	ParseCoverage(body []byte) (*CoverageReport, error)
}

// payloadParser implements PayloadParser interface
type payloadParser struct{}

// NewPayloadParser creates a new parser
func NewPayloadParser() PayloadParser {
	return &payloadParser{}
}

// generationEnvelope is the object form of a generate-test-cases response
type generationEnvelope struct {
	TestCases json.RawMessage `json:"test_cases"`
	Message   string          `json:"message"`
}

// coverageEnvelope is the analyze-coverage response
type coverageEnvelope struct {
	Analysis *string `json:"analysis"`
}

// ParseGeneration accepts {"test_cases": "<text>"}, {"test_cases": [...]} or a bare [...]
func (p *payloadParser) ParseGeneration(body []byte) (*GenerationResult, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("response is not valid JSON.\n\nResponse preview:\n%s\n\n%w", truncateOutput(string(body), 500), ErrMalformedPayload)
	}

	switch trimmed[0] {
	case '[':
		return p.parseTestCaseList(trimmed)
	case '{':
	default:
		return nil, fmt.Errorf("unexpected JSON value, want object or array: %w", ErrMalformedPayload)
	}

	var envelope generationEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %v: %w", err, ErrMalformedPayload)
	}

	raw := bytes.TrimSpace(envelope.TestCases)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("generation response missing required field 'test_cases': %w", ErrMalformedPayload)
	}

	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("failed to decode 'test_cases' text: %v: %w", err, ErrMalformedPayload)
		}
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("generation response has empty 'test_cases' text: %w", ErrMalformedPayload)
		}
		return &GenerationResult{Mode: ModeText, Text: text}, nil
	case '[':
		return p.parseTestCaseList(raw)
	default:
		return nil, fmt.Errorf("'test_cases' must be a string or a list: %w", ErrMalformedPayload)
	}
}

func (p *payloadParser) parseTestCaseList(raw []byte) (*GenerationResult, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()

	var cases []TestCase
	if err := decoder.Decode(&cases); err != nil {
		return nil, fmt.Errorf("failed to decode test case list: %v: %w", err, ErrMalformedPayload)
	}
	if err := ValidateTestCases(cases); err != nil {
		return nil, err
	}
	return &GenerationResult{Mode: ModeStructured, TestCases: cases}, nil
}

// ParseCoverage accepts {"analysis": "<text>"} with non-empty text
func (p *payloadParser) ParseCoverage(body []byte) (*CoverageReport, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) || len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("coverage response is not a JSON object.\n\nResponse preview:\n%s\n\n%w", truncateOutput(string(body), 500), ErrMalformedPayload)
	}

	var envelope coverageEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode coverage response: %v: %w", err, ErrMalformedPayload)
	}
	if envelope.Analysis == nil {
		return nil, fmt.Errorf("coverage response missing required field 'analysis': %w", ErrMalformedPayload)
	}
	if strings.TrimSpace(*envelope.Analysis) == "" {
		return nil, fmt.Errorf("coverage response has empty 'analysis': %w", ErrMalformedPayload)
	}

	return &CoverageReport{Text: *envelope.Analysis}, nil
}

// truncateOutput truncates output to maxLen characters with ellipsis
func truncateOutput(output string, maxLen int) string {
	if len(output) == 0 {
		return "(empty output)"
	}
	runes := []rune(output)
	if len(runes) <= maxLen {
		return output
	}
	return string(runes[:maxLen]) + fmt.Sprintf("...\n(truncated, showing first %d chars)", maxLen)
}
