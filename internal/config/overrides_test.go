package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOverrides_FlagsAndEnv(t *testing.T) {
	t.Setenv("GOTRAYWATCH_PROCESS", "from-env")
	t.Setenv("GOTRAYWATCH_MANUAL_ONLY", "true")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--interval=300", "--match=contains", "--metrics-listen=:9999"}))

	v, err := NewOverrides(fs)
	require.NoError(t, err)

	cfg := Default()
	cfg.Monitor.ProcessName = "from-file"
	cfg.Log.Level = "warn"
	require.NoError(t, ApplyOverrides(&cfg, v))

	assert.Equal(t, "from-env", cfg.Monitor.ProcessName)
	assert.True(t, cfg.Monitor.ManualOnly)
	assert.Equal(t, 300*time.Millisecond, cfg.Monitor.PollInterval.Duration)
	assert.Equal(t, "contains", cfg.Monitor.MatchMode)
	assert.Equal(t, ":9999", cfg.Metrics.Listen)
	assert.Equal(t, "warn", cfg.Log.Level, "unset keys keep file values")
	assert.True(t, cfg.Monitor.CaseSensitive)
}

func TestApplyOverrides_FlagBeatsEnv(t *testing.T) {
	t.Setenv("GOTRAYWATCH_PROCESS", "from-env")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--process=from-flag"}))

	v, err := NewOverrides(fs)
	require.NoError(t, err)
	cfg := Default()
	require.NoError(t, ApplyOverrides(&cfg, v))
	assert.Equal(t, "from-flag", cfg.Monitor.ProcessName)
}

func TestApplyOverrides_BadInterval(t *testing.T) {
	t.Setenv("GOTRAYWATCH_INTERVAL", "soon")
	v, err := NewOverrides(nil)
	require.NoError(t, err)
	cfg := Default()
	assert.Error(t, ApplyOverrides(&cfg, v))
}
