// Package memstore is a process-local key-value store.
package memstore

import "errors"

// ErrUnavailable is returned by a store marked unavailable with Fail.
var ErrUnavailable = errors.New("memstore: unavailable")

// Store keeps values in a map. The zero value is not usable; call New.
type Store struct {
	data map[string]string
	fail bool
}

func New() *Store {
	return &Store{data: make(map[string]string)}
}

// Fail makes every later Get and Set return ErrUnavailable until called with false.
func (s *Store) Fail(on bool) { s.fail = on }

func (s *Store) Get(key string) (string, bool, error) {
	if s.fail {
		return "", false, ErrUnavailable
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(key, value string) error {
	if s.fail {
		return ErrUnavailable
	}
	s.data[key] = value
	return nil
}

func (s *Store) Close() error { return nil }
