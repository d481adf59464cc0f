package model

import "time"

// Todo is the domain model for a todo entry.
// Identity is the ID; uniqueness is assumed, not enforced.
type Todo struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Active reports whether the todo still needs doing.
func (t Todo) Active() bool { return !t.Completed }

// Clone returns a copy of todos that shares no backing array with the input.
func Clone(todos []Todo) []Todo {
	out := make([]Todo, len(todos))
	copy(out, todos)
	return out
}

// Stats counts completed and active items.
func Stats(todos []Todo) (done, pending int) {
	for _, t := range todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
