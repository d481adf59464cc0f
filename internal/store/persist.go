package store

import (
	"encoding/json"

	tadaerrors "github.com/idilsaglam/tada/internal/errors"
	"github.com/idilsaglam/tada/internal/model"
)

// Initialize loads the todos and the created log from storage. A missing key
// reads as an empty list. Any failure is logged and leaves the in-memory
// state as it was; nothing is committed unless every list loads.
func (s *Store) Initialize() {
	todos, err := s.load(s.todosKey)
	if err != nil {
		s.logFailure(err, "Failed to load todos from storage")
		return
	}
	var created []model.Todo
	if s.trackCreated {
		if created, err = s.load(s.createdKey); err != nil {
			s.logFailure(err, "Failed to load todos from storage")
			return
		}
	}

	s.todos = todos
	if s.trackCreated {
		s.created = created
	}
	s.bumpNextID()
	s.log.WithField("todos", len(s.todos)).
		WithField("created", len(s.created)).
		Debug("Loaded todos")
}

// Persist writes the todos and the created log to storage. When the backend
// enforces a quota both payloads are checked before either is written. A
// failure is logged and leaves the in-memory state untouched.
func (s *Store) Persist() {
	entries, err := s.encode()
	if err != nil {
		s.logFailure(err, "Failed to save todos to storage")
		return
	}
	if c, ok := s.kv.(Checker); ok {
		if err := c.Check(entries); err != nil {
			if tadaerrors.GetCode(err) == "" {
				err = tadaerrors.StorageUnavailable("check", s.todosKey, err)
			}
			s.logFailure(err, "Failed to save todos to storage")
			return
		}
	}
	for _, key := range s.keys() {
		if err := s.write(key, entries[key]); err != nil {
			s.logFailure(err, "Failed to save todos to storage")
			return
		}
	}
	s.log.WithField("todos", len(s.todos)).Debug("Saved todos")
}

// keys lists the storage keys in write order.
func (s *Store) keys() []string {
	if s.trackCreated {
		return []string{s.todosKey, s.createdKey}
	}
	return []string{s.todosKey}
}

func (s *Store) encode() (map[string]string, error) {
	lists := map[string][]model.Todo{s.todosKey: s.todos}
	if s.trackCreated {
		lists[s.createdKey] = s.created
	}
	entries := make(map[string]string, len(lists))
	for key, todos := range lists {
		if todos == nil {
			todos = []model.Todo{}
		}
		b, err := json.Marshal(todos)
		if err != nil {
			return nil, tadaerrors.Wrap(err, tadaerrors.ErrCodeStorageMalformed, "json marshal")
		}
		entries[key] = string(b)
	}
	return entries, nil
}

func (s *Store) load(key string) ([]model.Todo, error) {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		return nil, tadaerrors.StorageUnavailable("get", key, err)
	}
	if !ok {
		return []model.Todo{}, nil
	}
	if s.validator != nil {
		if err := s.validator.Validate([]byte(raw)); err != nil {
			return nil, tadaerrors.StorageMalformed(key, err)
		}
	}
	var todos []model.Todo
	if err := json.Unmarshal([]byte(raw), &todos); err != nil {
		return nil, tadaerrors.StorageMalformed(key, err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

func (s *Store) write(key, value string) error {
	if err := s.kv.Set(key, value); err != nil {
		if tadaerrors.GetCode(err) != "" {
			return err
		}
		return tadaerrors.StorageUnavailable("set", key, err)
	}
	return nil
}

func (s *Store) logFailure(err error, msg string) {
	s.log.WithError(err).
		WithField("code", string(tadaerrors.GetCode(err))).
		Error(msg)
}
