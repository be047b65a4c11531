package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "vidya.log")

	l, err := New(Config{Level: "debug", File: path})
	require.NoError(t, err)
	defer l.Close()

	zl := l.GetZerolog()
	zl.Info().Str("key", "value").Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"key":"value"`)
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vidya.log")

	l, err := New(Config{Level: "chatty", File: path})
	require.NoError(t, err)
	defer l.Close()

	zl := l.GetZerolog()
	zl.Debug().Msg("hidden")
	zl.Info().Msg("visible")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible")
}

func TestNewWithRedaction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vidya.log")

	l, err := New(Config{Level: "info", File: path, Redaction: true})
	require.NoError(t, err)
	defer l.Close()

	zl := l.GetZerolog()
	zl.Info().Msg("key is AIzaSyA1234567890abcdefghijklmnopqrstu")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[REDACTED]")
	assert.NotContains(t, string(data), "AIzaSyA1234567890")
}

func TestCloseWithoutFile(t *testing.T) {
	l, err := New(Config{Level: "info", Console: true})
	require.NoError(t, err)
	assert.NoError(t, l.Close())
}
