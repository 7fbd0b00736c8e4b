package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_ConsoleColor(t *testing.T) {
	var buf bytes.Buffer
	l, c, err := New(Config{Level: "debug", Color: true}, &buf)
	require.NoError(t, err)
	defer c.Close()

	l.With("component", "monitor").Debug("status changed", "to", "running")
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\033[36m"), out)
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "\033[0m\n")
	assert.Contains(t, out, "component=monitor")
	assert.Contains(t, out, "to=running")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, _, err := New(Config{Level: "warn"}, &buf)
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "\033[")
}

func TestNew_RotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.log")
	l, c, err := New(Config{File: path}, nil)
	require.NoError(t, err)
	l.Info("hello file")
	require.NoError(t, c.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New(Config{Level: "chatty"}, nil)
	assert.Error(t, err)
}

func TestColorTextHandler_HidesTime(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewColorTextHandler(&buf, nil, false)).Info("x")
	assert.NotContains(t, buf.String(), "time=")
}
