package presentation

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	// EmptyStatePrompt is shown before any test cases were generated
	EmptyStatePrompt = `No test cases generated yet. Enter requirements and click "Generate Test Cases" to get started.`
	// NoItemsMessage is shown when a generation returned an empty list
	NoItemsMessage = "No test cases were returned for these requirements."
)

var (
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	nameStyle        = lipgloss.NewStyle().Bold(true)
	descriptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle       = lipgloss.NewStyle().Bold(true)
	mutedStyle       = lipgloss.NewStyle().Faint(true)
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
)

const (
	collapsedArrow = "▸"
	expandedArrow  = "▾"
)

// Render returns the text rendering of l
func Render(l *List) string {
	switch l.View() {
	case ViewNotRun:
		return mutedStyle.Render(EmptyStatePrompt) + "\n"
	case ViewNoItems:
		return mutedStyle.Render(NoItemsMessage) + "\n"
	}

	var b strings.Builder
	b.WriteString(renderHeader(l))
	for _, item := range l.items {
		b.WriteString(renderItem(item, false))
	}
	return b.String()
}

func renderHeader(l *List) string {
	return headerStyle.Render(fmt.Sprintf("Generated Test Cases (%d)", l.Len())) + "\n\n"
}

func renderItem(item Item, selected bool) string {
	var b strings.Builder

	arrow := collapsedArrow
	if item.Expanded {
		arrow = expandedArrow
	}
	cursor := "  "
	if selected {
		cursor = cursorStyle.Render("> ")
	}

	tc := item.TestCase
	fmt.Fprintf(&b, "%s%s %s %s\n", cursor, arrow, tc.ID, nameStyle.Render(tc.Name))
	if tc.Description != "" {
		fmt.Fprintf(&b, "    %s\n", descriptionStyle.Render(tc.Description))
	}
	if !item.Expanded {
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("    " + labelStyle.Render("Test Steps") + "\n")
	for i, step := range tc.TestSteps {
		fmt.Fprintf(&b, "    %d. %s %s\n", i+1, labelStyle.Render("Action:"), step.Action)
		fmt.Fprintf(&b, "       %s %s\n", labelStyle.Render("Expected Output:"), step.ExpectedOutput)
	}
	b.WriteString("\n")
	return b.String()
}
