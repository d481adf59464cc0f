// Package store holds the todo list state, its derived views and its
// synchronization with a KV slot.
package store

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/tada/internal/config"
	tadaerrors "github.com/idilsaglam/tada/internal/errors"
	"github.com/idilsaglam/tada/internal/model"
)

// Validator checks a raw stored payload.
type Validator interface {
	Validate(data []byte) error
}

// Store owns the todo state. It is not safe for concurrent use.
type Store struct {
	kv           KV
	log          *logrus.Entry
	now          func() time.Time
	validator    Validator
	todosKey     string
	createdKey   string
	trackCreated bool
	autoPersist  bool

	todos      []model.Todo
	created    []model.Todo
	visibility model.VisibilityFilter
	edited     *model.Todo
	nextID     int
}

// New returns an empty store over kv. Call Initialize to load saved state.
func New(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:           kv,
		log:          logrus.NewEntry(logrus.StandardLogger()),
		now:          time.Now,
		todosKey:     config.DefaultTodosKey,
		createdKey:   config.DefaultCreatedKey,
		trackCreated: true,
		todos:        []model.Todo{},
		created:      []model.Todo{},
		visibility:   model.All,
		nextID:       1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ---------------------------------------------------
// Derived views
// ---------------------------------------------------

// Todos returns a copy of the full list.
func (s *Store) Todos() []model.Todo { return model.Clone(s.todos) }

// FilteredTodos returns the todos visible under the current filter.
func (s *Store) FilteredTodos() []model.Todo { return s.visibility.Apply(s.todos) }

// Remaining counts active todos regardless of the current filter.
func (s *Store) Remaining() int { return len(model.Active.Apply(s.todos)) }

// AllCreatedTodos returns every todo ever added, including deleted ones.
func (s *Store) AllCreatedTodos() []model.Todo { return model.Clone(s.created) }

// TotalCreatedTodos is len(AllCreatedTodos()).
func (s *Store) TotalCreatedTodos() int { return len(s.created) }

// Visibility returns the active filter.
func (s *Store) Visibility() model.VisibilityFilter { return s.visibility }

// EditedTodo returns the snapshot taken by BeginEdit.
func (s *Store) EditedTodo() (model.Todo, bool) {
	if s.edited == nil {
		return model.Todo{}, false
	}
	return *s.edited, true
}

// Find returns the todo with id.
func (s *Store) Find(id int) (model.Todo, bool) {
	if i := s.index(id); i >= 0 {
		return s.todos[i], true
	}
	return model.Todo{}, false
}

// ---------------------------------------------------
// Mutations
// ---------------------------------------------------

// SetTodos replaces the list wholesale.
func (s *Store) SetTodos(todos []model.Todo) {
	s.todos = model.Clone(todos)
	s.bumpNextID()
	s.changed()
}

// SetTodosCreated replaces the created log wholesale.
func (s *Store) SetTodosCreated(todos []model.Todo) {
	s.created = model.Clone(todos)
	s.bumpNextID()
	s.changed()
}

// AddTodo appends a new active todo with a fresh id and the current time.
func (s *Store) AddTodo(title string) (model.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Todo{}, tadaerrors.EmptyTitle()
	}
	now := s.now()
	t := model.Todo{ID: s.nextID, Title: title, CreatedAt: &now}
	s.nextID++

	if s.trackCreated {
		s.created = append(s.created, t)
	}
	s.todos = append(s.todos, t)
	s.changed()
	return t, nil
}

// RemoveTodo deletes the first todo with id. It reports whether one was found.
func (s *Store) RemoveTodo(id int) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.todos = append(s.todos[:i:i], s.todos[i+1:]...)
	s.changed()
	return true
}

// ToggleTodo flips the completion flag of one todo.
func (s *Store) ToggleTodo(id int) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.todos[i].Completed = !s.todos[i].Completed
	s.changed()
	return true
}

// ToggleAll sets completed on every todo.
func (s *Store) ToggleAll(completed bool) {
	for i := range s.todos {
		s.todos[i].Completed = completed
	}
	s.changed()
}

// SetVisibility changes the active filter. Nothing is persisted.
func (s *Store) SetVisibility(f model.VisibilityFilter) {
	s.visibility = f
}

// UpdateTodoTitle sets the trimmed title of todo id, deleting the todo when
// the trimmed title is empty. It reports whether the todo existed.
func (s *Store) UpdateTodoTitle(id int, title string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	title = strings.TrimSpace(title)
	if title == "" {
		s.todos = append(s.todos[:i:i], s.todos[i+1:]...)
	} else {
		s.todos[i].Title = title
	}
	s.changed()
	return true
}

// BeginEdit snapshots todo id so CancelEdit can restore it.
func (s *Store) BeginEdit(id int) bool {
	t, ok := s.Find(id)
	if !ok {
		return false
	}
	s.edited = &t
	return true
}

// DoneEdit commits title through UpdateTodoTitle and ends the edit.
func (s *Store) DoneEdit(id int, title string) bool {
	ok := s.UpdateTodoTitle(id, title)
	s.edited = nil
	return ok
}

// CancelEdit restores the snapshot title onto todo id and ends the edit. A
// snapshot of another todo is dropped without touching id.
func (s *Store) CancelEdit(id int) {
	if s.edited != nil && s.edited.ID == id {
		if i := s.index(id); i >= 0 && s.todos[i].Title != s.edited.Title {
			s.todos[i].Title = s.edited.Title
			s.changed()
		}
	}
	s.edited = nil
}

// RemoveCompleted keeps only the active todos and returns how many were dropped.
func (s *Store) RemoveCompleted() int {
	before := len(s.todos)
	s.todos = model.Active.Apply(s.todos)
	removed := before - len(s.todos)
	if removed > 0 {
		s.changed()
	}
	return removed
}

func (s *Store) index(id int) int {
	for i, t := range s.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// bumpNextID keeps fresh ids above every id in either list.
func (s *Store) bumpNextID() {
	for _, list := range [][]model.Todo{s.todos, s.created} {
		for _, t := range list {
			if t.ID >= s.nextID {
				s.nextID = t.ID + 1
			}
		}
	}
}

func (s *Store) changed() {
	if s.autoPersist {
		s.Persist()
	}
}
