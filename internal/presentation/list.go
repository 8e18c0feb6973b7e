package presentation

import (
	"github.com/michael-freling/testcase-generator/internal/testcase"
)

// ViewKind tells a renderer which of the three list views to show
type ViewKind int

const (
	// ViewNotRun means no generation has produced a list yet
	ViewNotRun ViewKind = iota
	// ViewNoItems means a generation ran and returned no test cases
	ViewNoItems
	// ViewItems means the list has at least one item
	ViewItems
)

func (k ViewKind) String() string {
	switch k {
	case ViewNotRun:
		return "not_run"
	case ViewNoItems:
		return "no_items"
	case ViewItems:
		return "items"
	default:
		return "unknown"
	}
}

// Item is a test case with its display state
type Item struct {
	TestCase testcase.TestCase
	Expanded bool
}

// List holds the displayed test cases. Each item is expanded or collapsed independently.
type List struct {
	items []Item
}

// Project builds a list with every item collapsed
func Project(testCases []testcase.TestCase) *List {
	items := make([]Item, 0, len(testCases))
	for _, tc := range testCases {
		items = append(items, Item{TestCase: tc})
	}
	return &List{items: items}
}

// Toggle flips the expanded flag of the item with id and reports whether it was found
func (l *List) Toggle(id string) bool {
	if l == nil {
		return false
	}
	for i := range l.items {
		if l.items[i].TestCase.ID == id {
			l.items[i].Expanded = !l.items[i].Expanded
			return true
		}
	}
	return false
}

// IsExpanded reports whether the item with id is expanded
func (l *List) IsExpanded(id string) bool {
	if l == nil {
		return false
	}
	for _, item := range l.items {
		if item.TestCase.ID == id {
			return item.Expanded
		}
	}
	return false
}

// View reports which view a renderer should show for l
func (l *List) View() ViewKind {
	if l == nil {
		return ViewNotRun
	}
	if len(l.items) == 0 {
		return ViewNoItems
	}
	return ViewItems
}

// Items returns a copy of the items in order
func (l *List) Items() []Item {
	if l == nil {
		return nil
	}
	return append([]Item(nil), l.items...)
}

// Len returns the number of items
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

func (l *List) at(i int) (Item, bool) {
	if l == nil || i < 0 || i >= len(l.items) {
		return Item{}, false
	}
	return l.items[i], true
}
