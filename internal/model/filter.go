package model

import (
	"strings"

	tadaerrors "github.com/idilsaglam/tada/internal/errors"
)

// VisibilityFilter selects which subset of todos is shown.
type VisibilityFilter string

const (
	All       VisibilityFilter = "all"
	Active    VisibilityFilter = "active"
	Completed VisibilityFilter = "completed"
)

// Filters lists every filter in display order.
var Filters = []VisibilityFilter{All, Active, Completed}

// ParseFilter maps a user supplied name onto a filter. Matching is case-insensitive
// and the empty string means All.
func ParseFilter(s string) (VisibilityFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(All):
		return All, nil
	case string(Active):
		return Active, nil
	case string(Completed), "done":
		return Completed, nil
	}
	return "", tadaerrors.InvalidFilter(s)
}

func (f VisibilityFilter) String() string { return string(f) }

// Next cycles all -> active -> completed -> all.
func (f VisibilityFilter) Next() VisibilityFilter {
	switch f {
	case All:
		return Active
	case Active:
		return Completed
	default:
		return All
	}
}

// Apply returns the todos visible under f. The result never aliases the input.
func (f VisibilityFilter) Apply(todos []Todo) []Todo {
	switch f {
	case Active:
		return keep(todos, Todo.Active)
	case Completed:
		return keep(todos, func(t Todo) bool { return t.Completed })
	default:
		return Clone(todos)
	}
}

func keep(todos []Todo, pred func(Todo) bool) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}
