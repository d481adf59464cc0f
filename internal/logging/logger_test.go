package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/config"
)

func TestNewLoggerIsPerComponent(t *testing.T) {
	a := NewLogger("store")
	b := NewLogger("store")
	c := NewLogger("cli")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "store", a.Data["component"])
	assert.Same(t, a.Logger, c.Logger)
}

func TestSetupLevelAndFile(t *testing.T) {
	t.Setenv("TADA_LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "logs", "tada.log")

	require.NoError(t, Setup(config.Logging{Level: "debug", Format: "json", File: path}, nil))
	defer Close()

	log := NewLogger("test")
	assert.Equal(t, logrus.DebugLevel, log.Logger.GetLevel())
	log.Info("hello")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
	assert.Contains(t, string(b), `"component":"test"`)
}

func TestSetupLevelComesFromConfig(t *testing.T) {
	t.Setenv("TADA_LOG_LEVEL", "error")
	require.NoError(t, Setup(config.Logging{Level: "debug"}, nil))
	assert.Equal(t, logrus.DebugLevel, NewLogger("level").Logger.GetLevel())

	require.NoError(t, Setup(config.Logging{Level: "bogus"}, nil))
	assert.Equal(t, logrus.WarnLevel, NewLogger("level").Logger.GetLevel())
}

func TestSetupWritesToWriter(t *testing.T) {
	t.Setenv("TADA_LOG_LEVEL", "")
	var buf bytes.Buffer
	require.NoError(t, Setup(config.Logging{Level: "warn"}, &buf))
	defer Setup(config.Logging{}, nil)

	NewLogger("writer").Info("quiet")
	NewLogger("writer").Error("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), `msg=loud`)
	assert.Contains(t, buf.String(), "component=writer")
}
