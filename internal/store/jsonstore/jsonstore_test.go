package jsonstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissingKey(t *testing.T) {
	s := New(t.TempDir())

	v, ok, err := s.Get("todos")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSetWritesPrettyJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s := New(dir)

	require.NoError(t, s.Set("todos", `[{"id":1,"title":"milk","completed":false}]`))

	b, err := os.ReadFile(filepath.Join(dir, "todos.json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "\n  {\n    \"id\": 1,")

	v, ok, err := s.Get("todos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":1,"title":"milk","completed":false}]`, v)
}

func TestSetNonJSONVerbatim(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Set("note", "plain text"))

	v, _, err := s.Get("note")
	require.NoError(t, err)
	assert.Equal(t, "plain text", v)
}

func TestInvalidKeys(t *testing.T) {
	s := New(t.TempDir())
	for _, key := range []string{"", ".", "..", "../escape", `a\b`} {
		_, _, err := s.Get(key)
		assert.Error(t, err, "key %q", key)
		assert.Error(t, s.Set(key, "[]"), "key %q", key)
	}
}

func TestUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be makes the read fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "todos.json"), 0o755))

	_, _, err := New(dir).Get("todos")
	assert.Error(t, err)
}
