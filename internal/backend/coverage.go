package backend

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const minTermRunes = 4

var stopWords = map[string]bool{
	"must": true, "should": true, "shall": true, "with": true, "that": true, "this": true,
	"from": true, "into": true, "have": true, "will": true, "when": true, "then": true,
	"their": true, "there": true, "able": true,
}

type coverageCategory struct {
	name     string
	keywords []string
}

var coverageCategories = []coverageCategory{
	{name: "Functional Testing", keywords: []string{"verify", "valid", "success", "submit", "create", "login", "logout"}},
	{name: "Performance Testing", keywords: []string{"performance", "load", "latency", "response time", "concurrent"}},
	{name: "Security Testing", keywords: []string{"security", "auth", "password", "permission", "token", "injection"}},
	{name: "UI/UX Testing", keywords: []string{"display", "screen", "button", "page", "layout", "message"}},
}

// terms returns the distinct significant lowercase words of s
func terms(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, word := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if utf8.RuneCountInString(word) < minTermRunes || stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		out = append(out, word)
	}
	return out
}

// requirementItems splits requirements into non-blank trimmed lines
func requirementItems(requirements string) []string {
	var items []string
	for _, line := range strings.Split(requirements, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items
}

// covered reports whether any significant term of requirement appears in tests
func covered(requirement, tests string) bool {
	for _, term := range terms(requirement) {
		if strings.Contains(tests, term) {
			return true
		}
	}
	return false
}

func priority(requirement string) string {
	lower := strings.ToLower(requirement)
	for _, word := range []string{"must", "security", "auth", "password", "payment"} {
		if strings.Contains(lower, word) {
			return "High"
		}
	}
	return "Medium"
}

// AnalyzeCoverage compares requirements with current test cases by keyword overlap
// and renders the coverage report.
func AnalyzeCoverage(requirements, currentTestCases string) string {
	tests := strings.ToLower(currentTestCases)
	items := requirementItems(requirements)

	var missing []string
	for _, item := range items {
		if !covered(item, tests) {
			missing = append(missing, item)
		}
	}
	coveredCount := len(items) - len(missing)
	percentage := 0
	if len(items) > 0 {
		percentage = coveredCount * 100 / len(items)
	}

	var b strings.Builder
	b.WriteString("Coverage Analysis Results:\n\n")

	b.WriteString("=== REQUIREMENTS COVERAGE ===\n")
	fmt.Fprintf(&b, "Total Requirements: %d\n", len(items))
	fmt.Fprintf(&b, "Covered Requirements: %d\n", coveredCount)
	fmt.Fprintf(&b, "Coverage Percentage: %d%%\n\n", percentage)

	b.WriteString("=== MISSING TEST CASES ===\n")
	if len(missing) == 0 {
		b.WriteString("None\n")
	}
	for i, item := range missing {
		fmt.Fprintf(&b, "%d. Requirement: %s\n", i+1, item)
		b.WriteString("   - Missing: No test case references this requirement\n")
		fmt.Fprintf(&b, "   - Priority: %s\n", priority(item))
	}
	b.WriteString("\n")

	b.WriteString("=== COVERAGE BREAKDOWN ===\n")
	var uncovered []string
	for _, category := range coverageCategories {
		mark := "✗"
		status := "not covered"
		for _, keyword := range category.keywords {
			if strings.Contains(tests, keyword) {
				mark = "✓"
				status = "covered"
				break
			}
		}
		if mark == "✗" {
			uncovered = append(uncovered, category.name)
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, category.name, status)
	}
	b.WriteString("\n")

	b.WriteString("=== RECOMMENDATIONS ===\n")
	n := 0
	for _, item := range missing {
		n++
		fmt.Fprintf(&b, "%d. Add test cases for: %s\n", n, item)
	}
	for _, name := range uncovered {
		n++
		fmt.Fprintf(&b, "%d. Add %s\n", n, strings.ToLower(name))
	}
	if n == 0 {
		b.WriteString("1. Keep test cases in sync as requirements change\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
