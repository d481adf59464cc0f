package store

import (
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/idilsaglam/tada/internal/config"
	tadaerrors "github.com/idilsaglam/tada/internal/errors"
	"github.com/idilsaglam/tada/internal/store/jsonstore"
	"github.com/idilsaglam/tada/internal/store/memstore"
	"github.com/idilsaglam/tada/internal/store/sqlitestore"
)

// KV is a string-keyed local persistence slot.
type KV interface {
	// Get returns the value under key; ok is false when nothing was stored.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Checker is implemented by stores that can refuse a batch of writes up front.
type Checker interface {
	Check(entries map[string]string) error
}

// Backend is a KV that holds resources until closed.
type Backend interface {
	KV
	io.Closer
}

// Open builds the backend selected by cfg, wrapped in a quota when one is set.
func Open(cfg config.Storage) (Backend, error) {
	var b Backend
	switch cfg.Backend {
	case config.BackendMemory:
		b = memstore.New()
	case config.BackendSQLite:
		dir, err := cfg.DataDir()
		if err != nil {
			return nil, tadaerrors.StorageUnavailable("open", cfg.Dir, err)
		}
		name := cfg.SQLiteFile
		if name == "" {
			name = config.DefaultSQLiteFile
		}
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, name)
		}
		s, err := sqlitestore.Open(path)
		if err != nil {
			return nil, tadaerrors.StorageUnavailable("open", path, err)
		}
		b = s
	case config.BackendFile, "":
		dir, err := cfg.DataDir()
		if err != nil {
			return nil, tadaerrors.StorageUnavailable("open", cfg.Dir, err)
		}
		b = jsonstore.New(dir)
	default:
		return nil, tadaerrors.ConfigInvalid("unknown storage backend " + cfg.Backend)
	}

	if cfg.QuotaBytes > 0 {
		return WithQuota(b, cfg.QuotaBytes), nil
	}
	return b, nil
}

// Quota caps the combined size of keys and values written through it, the
// way browser local storage does. Keys never touched through the wrapper are
// not counted.
type Quota struct {
	inner KV
	limit int
	sizes map[string]int
}

// WithQuota wraps kv so that writes beyond limit bytes fail.
func WithQuota(kv KV, limit int) *Quota {
	return &Quota{inner: kv, limit: limit, sizes: make(map[string]int)}
}

// Used returns the bytes currently accounted for.
func (q *Quota) Used() int {
	n := 0
	for _, sz := range q.sizes {
		n += sz
	}
	return n
}

func (q *Quota) Get(key string) (string, bool, error) {
	v, ok, err := q.inner.Get(key)
	if err == nil && ok {
		q.sizes[key] = len(key) + len(v)
	}
	return v, ok, err
}

func (q *Quota) Set(key, value string) error {
	if err := q.Check(map[string]string{key: value}); err != nil {
		return err
	}
	if err := q.inner.Set(key, value); err != nil {
		return err
	}
	q.sizes[key] = len(key) + len(value)
	return nil
}

// Check reports a quota error when writing every entry would exceed the
// limit. Nothing is written.
func (q *Quota) Check(entries map[string]string) error {
	keys := slices.Sorted(maps.Keys(entries))
	need := q.Used()
	for _, key := range keys {
		if _, seen := q.sizes[key]; !seen {
			if _, _, err := q.Get(key); err != nil {
				return err
			}
		}
		need += len(key) + len(entries[key]) - q.sizes[key]
	}
	if need > q.limit {
		return tadaerrors.QuotaExceeded(strings.Join(keys, ","), need, q.limit)
	}
	return nil
}

// Close closes the wrapped store when it holds resources.
func (q *Quota) Close() error {
	if c, ok := q.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
