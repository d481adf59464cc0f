package sqlitestore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "db", "todos.db"))
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get("todos")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("todos", `[{"id":1}]`))
	require.NoError(t, s.Set("todos", `[{"id":2}]`))

	v, ok, err := s.Get("todos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":2}]`, v)
}

func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("todos-created", "[]"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())

	v, ok, err := s.Get("todos-created")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

func TestInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set("k", "v"))
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
