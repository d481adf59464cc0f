package store

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/tada/internal/config"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for storage failures.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Store) { s.log = log }
}

// WithClock sets the time source for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithKeys sets the storage keys for the active list and the created log.
func WithKeys(todosKey, createdKey string) Option {
	return func(s *Store) {
		s.todosKey = todosKey
		s.createdKey = createdKey
	}
}

// WithCreatedLog turns tracking of every created todo on or off.
func WithCreatedLog(on bool) Option {
	return func(s *Store) { s.trackCreated = on }
}

// WithAutoPersist makes every list mutation write through to storage.
func WithAutoPersist(on bool) Option {
	return func(s *Store) { s.autoPersist = on }
}

// WithValidator checks stored payloads before they are decoded.
func WithValidator(v Validator) Option {
	return func(s *Store) { s.validator = v }
}

// FromConfig maps the storage section of the config onto options.
func FromConfig(cfg config.Storage) []Option {
	return []Option{
		WithKeys(cfg.TodosKey, cfg.CreatedKey),
		WithCreatedLog(cfg.TrackCreated),
		WithAutoPersist(cfg.AutoPersist),
	}
}
