package presentation

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const browserHelp = "↑/k up • ↓/j down • enter/space expand • q quit"

// Browse runs an interactive browser over l until the user quits or ctx is done.
// Toggles made in the browser are applied to l.
func Browse(ctx context.Context, l *List, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(newBrowser(l), opts...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run test case browser: %w", err)
	}
	return nil
}

type browser struct {
	list   *List
	cursor int
}

func newBrowser(l *List) browser {
	return browser{list: l}
}

func (m browser) Init() tea.Cmd {
	return nil
}

func (m browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.list.Len()-1 {
			m.cursor++
		}
	case "enter", " ":
		if item, ok := m.list.at(m.cursor); ok {
			m.list.Toggle(item.TestCase.ID)
		}
	}
	return m, nil
}

func (m browser) View() string {
	if m.list.View() != ViewItems {
		return Render(m.list) + "\n" + mutedStyle.Render("q quit") + "\n"
	}

	var b strings.Builder
	b.WriteString(renderHeader(m.list))
	for i, item := range m.list.items {
		b.WriteString(renderItem(item, i == m.cursor))
	}
	b.WriteString(mutedStyle.Render(browserHelp) + "\n")
	return b.String()
}
