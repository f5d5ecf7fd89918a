package listing

import (
	"strings"

	"github.com/google/uuid"
)

// All is the sentinel filter value that disables a status or category predicate.
const All = "all"

// Item is a row the admin list screens can search, filter and act on.
type Item interface {
	ItemID() uuid.UUID
	ItemStatus() string
	ItemCategory() string
	SearchFields() []string
}

// Patchable items can produce a copy of themselves with only the status changed.
type Patchable[T any] interface {
	Item
	WithStatus(status string) T
}

// FilterState is owned by a list screen and discarded when the screen closes.
type FilterState struct {
	Search   string `json:"search"`
	Status   string `json:"status"`
	Category string `json:"category"`
}

func DefaultFilterState() FilterState {
	return FilterState{Status: All, Category: All}
}

func (s FilterState) normalized() FilterState {
	if strings.TrimSpace(s.Status) == "" {
		s.Status = All
	}
	if strings.TrimSpace(s.Category) == "" {
		s.Category = All
	}
	return s
}

// IsDefault reports whether the state lets every item through.
func (s FilterState) IsDefault() bool {
	s = s.normalized()
	return strings.TrimSpace(s.Search) == "" && s.Status == All && s.Category == All
}

// Matches applies the search, status and category predicates as a conjunction.
func (s FilterState) Matches(item Item) bool {
	s = s.normalized()
	if s.Status != All && item.ItemStatus() != s.Status {
		return false
	}
	if s.Category != All && item.ItemCategory() != s.Category {
		return false
	}
	return matchesSearch(item, strings.ToLower(strings.TrimSpace(s.Search)))
}

func matchesSearch(item Item, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range item.SearchFields() {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Filter returns the items matching state in their original order. It never
// mutates items and keeps no state between calls.
func Filter[T Item](items []T, state FilterState) []T {
	state = state.normalized()
	out := make([]T, 0, len(items))
	for _, item := range items {
		if state.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}
