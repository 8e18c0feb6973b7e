package testcase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequirementsExcerpt(t *testing.T) {
	tests := []struct {
		name         string
		requirements string
		want         string
	}{
		{
			name:         "short text is kept whole",
			requirements: "Users must log in with email and password.",
			want:         "Users must log in with email and password.",
		},
		{
			name:         "surrounding whitespace is trimmed",
			requirements: "\n  R1: login.  \n",
			want:         "R1: login.",
		},
		{
			name:         "long text is cut at 100 runes",
			requirements: strings.Repeat("a", 150),
			want:         strings.Repeat("a", 100) + "...",
		},
		{
			name:         "multi-byte runes are not split",
			requirements: strings.Repeat("é", 101),
			want:         strings.Repeat("é", 100) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequirementsExcerpt(tt.requirements))
		})
	}
}

func TestSynthesizeGeneration_Structured(t *testing.T) {
	requirements := "Users must log in with email and password.\nThe dashboard should list orders.\nColors are blue."

	got := SynthesizeGeneration(requirements, ModeStructured)

	require.Equal(t, ModeStructured, got.Mode)
	assert.Empty(t, got.Text)
	require.Len(t, got.TestCases, 4)
	require.NoError(t, ValidateTestCases(got.TestCases))

	assert.Equal(t, "TC-001", got.TestCases[0].ID)
	assert.Equal(t, "Basic Functionality Test", got.TestCases[0].Name)
	assert.Equal(t, "Users must log in with email and password.", got.TestCases[2].Name)
	assert.Equal(t, "The dashboard should list orders.", got.TestCases[3].Name)
	for _, tc := range got.TestCases {
		assert.Contains(t, tc.Description, "Generated from requirements: Users must log in with email and password.")
	}
}

func TestSynthesizeGeneration_LimitsRequirementCases(t *testing.T) {
	lines := []string{
		"The system must do one thing",
		"The system must do two things",
		"Feature three",
		"Requirement four",
		"It should do five " + strings.Repeat("x", 80),
	}

	got := SynthesizeGeneration(strings.Join(lines, "\n"), ModeStructured)

	require.Len(t, got.TestCases, 2+maxRequirementCases)
	assert.Equal(t, "Feature three", got.TestCases[4].Name)
}

func TestSynthesizeGeneration_TruncatesRequirementNames(t *testing.T) {
	line := "The platform must " + strings.Repeat("support many things ", 5)

	got := SynthesizeGeneration(line, ModeStructured)

	require.Len(t, got.TestCases, 3)
	name := got.TestCases[2].Name
	assert.True(t, strings.HasSuffix(name, "..."))
	assert.Equal(t, requirementNameRunes+3, len([]rune(name)))
}

func TestSynthesizeGeneration_Text(t *testing.T) {
	got := SynthesizeGeneration("Users must log in with email and password.", ModeText)

	require.Equal(t, ModeText, got.Mode)
	assert.Empty(t, got.TestCases)
	assert.True(t, strings.HasPrefix(got.Text, "Sample Test Cases Generated:"))
	assert.Contains(t, got.Text, "Generated from requirements: Users must log in with email and password.\n")
}

func TestSynthesizeGeneration_DependsOnInput(t *testing.T) {
	shared := strings.Repeat("same prefix ", 20)

	for _, mode := range []Mode{ModeStructured, ModeText} {
		t.Run(string(mode), func(t *testing.T) {
			first := SynthesizeGeneration("Login must work.", mode)
			again := SynthesizeGeneration("Login must work.", mode)
			other := SynthesizeGeneration("Logout must work.", mode)
			assert.Equal(t, first, again)
			assert.NotEqual(t, first, other)

			// excerpts collide, full inputs differ
			assert.NotEqual(t, SynthesizeGeneration(shared+"A", mode), SynthesizeGeneration(shared+"B", mode))
		})
	}
}

func TestSynthesizeCoverage(t *testing.T) {
	got := SynthesizeCoverage("R1: login. R2: logout.", "TC1: login é")

	for _, section := range []string{
		"=== REQUIREMENTS COVERAGE ===",
		"=== MISSING TEST CASES ===",
		"=== COVERAGE BREAKDOWN ===",
		"=== RECOMMENDATIONS ===",
	} {
		assert.Contains(t, got.Text, section)
	}
	assert.Contains(t, got.Text, "Generated from analysis of 22 characters of requirements and 12 characters of test cases.")
}

func TestSynthesizeCoverage_DependsOnInput(t *testing.T) {
	assert.Equal(t, SynthesizeCoverage("R1", "T1"), SynthesizeCoverage("R1", "T1"))
	assert.NotEqual(t, SynthesizeCoverage("R1", "T1"), SynthesizeCoverage("R1 R2", "T1"))
	// same lengths, different content
	assert.NotEqual(t, SynthesizeCoverage("R1", "T1"), SynthesizeCoverage("R2", "T1"))
	assert.NotEqual(t, SynthesizeCoverage("R1", "T1"), SynthesizeCoverage("R1", "T2"))
}

func TestFallbackReference(t *testing.T) {
	assert.Equal(t, FallbackReference("a", "b"), FallbackReference("a", "b"))
	assert.NotEqual(t, FallbackReference("ab", ""), FallbackReference("a", "b"))
}
