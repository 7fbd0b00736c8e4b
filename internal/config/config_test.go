package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goTrayWatch/internal/monitor"
	"goTrayWatch/internal/process"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeFile(t, "[monitor]\nprocessName=notepad\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "notepad", cfg.Monitor.ProcessName)
	assert.Equal(t, "exact", cfg.Monitor.MatchMode)
	assert.Equal(t, DefaultPollInterval, cfg.Monitor.PollInterval.Duration)
	assert.True(t, cfg.Monitor.CaseSensitive)
	assert.Equal(t, process.BackendGopsutil, cfg.Monitor.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
}

func TestLoad_AllSections(t *testing.T) {
	path := writeFile(t, `[monitor]
processName = "My App"
matchMode = contains
pollInterval = 250
manualOnly = true
caseSensitive = false
backend = ps

[log]
level = debug
file = "C:\\logs\\watch.log"

[metrics]
listen = 127.0.0.1:9310

[notify]
enabled = true
server = localhost:23053
onStop = false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "My App", cfg.Monitor.ProcessName)
	assert.Equal(t, 250*time.Millisecond, cfg.Monitor.PollInterval.Duration)
	assert.True(t, cfg.Monitor.ManualOnly)
	assert.False(t, cfg.Monitor.CaseSensitive)
	assert.Equal(t, "ps", cfg.Monitor.Backend)
	assert.Equal(t, `C:\logs\watch.log`, cfg.Log.File)
	assert.Equal(t, "127.0.0.1:9310", cfg.Metrics.Listen)
	assert.True(t, cfg.Notify.Enabled)
	assert.True(t, cfg.Notify.OnStart)
	assert.False(t, cfg.Notify.OnStop)

	mc, err := cfg.ToMonitor()
	require.NoError(t, err)
	assert.Equal(t, monitor.Config{
		ProcessName:  "My App",
		MatchMode:    process.MatchContains,
		PollInterval: 250 * time.Millisecond,
		ManualOnly:   true,
		IgnoreCase:   true,
	}, mc)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "[monitor]\npollInterval=soon\n"))
	assert.Error(t, err)
}

func TestToMonitor_UnknownMatchMode(t *testing.T) {
	cfg := Default()
	cfg.Monitor.ProcessName = "foo"
	cfg.Monitor.MatchMode = "regex"
	_, err := cfg.ToMonitor()
	assert.ErrorIs(t, err, monitor.ErrInvalidConfig)
}

func TestDuration_UnmarshalText(t *testing.T) {
	cases := map[string]time.Duration{
		"":      0,
		"100":   100 * time.Millisecond,
		"1500":  1500 * time.Millisecond,
		"0.5s":  500 * time.Millisecond,
		"250ms": 250 * time.Millisecond,
		" 2m ":  2 * time.Minute,
	}
	for in, want := range cases {
		var d Duration
		require.NoError(t, d.UnmarshalText([]byte(in)), in)
		assert.Equal(t, want, d.Duration, in)
	}
	var d Duration
	assert.Error(t, d.UnmarshalText([]byte("fast")))
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/etc/x.ini", ResolvePath("/etc/x.ini"))
	assert.NotEmpty(t, ResolvePath(""))
}

func TestWrite_LoadsBack(t *testing.T) {
	cfg := Default()
	cfg.Monitor.ProcessName = `C:\Program Files\App\app, "beta".exe`
	cfg.Monitor.MatchMode = "contains"
	cfg.Monitor.PollInterval = Duration{750 * time.Millisecond}
	cfg.Log.File = `C:\logs\a b.log`
	cfg.Metrics.Listen = ":9310"
	cfg.Notify.Server = "growl.local:23053"

	path := filepath.Join(t.TempDir(), DefaultConfigName)
	require.NoError(t, Write(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestRepairFile_QuotesPaths(t *testing.T) {
	path := writeFile(t, "[log]\nfile = C:\\logs\\watch.log\nlevel = info\n")
	_, err := Load(path)
	require.Error(t, err, "unescaped backslashes are rejected by gcfg")

	changed, err := RepairFile(path)
	require.NoError(t, err)
	assert.True(t, changed)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, `C:\logs\watch.log`, cfg.Log.File)

	changed, err = RepairFile(path)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRepairFile_SectionAwareAndKeepsLineEndings(t *testing.T) {
	src := "; watch settings\r\n[monitor]\r\nprocessName = \"C:\\temp\\My App\"\r\n" +
		"[notify]\r\nserver = 127.0.0.1:23053\r\n[log]\r\nlevel = info\r\nprocessName = C:\\x\r\n"
	path := writeFile(t, src)

	changed, err := RepairFile(path)
	require.NoError(t, err)
	assert.True(t, changed)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "; watch settings\r\n[monitor]\r\nprocessName = \"C:\\\\temp\\\\My App\"\r\n"+
		"[notify]\r\nserver = 127.0.0.1:23053\r\n[log]\r\nlevel = info\r\nprocessName = C:\\x\r\n", string(raw),
		"only known keys in their own section are touched")
}

func TestRepairFile_Missing(t *testing.T) {
	_, err := RepairFile(filepath.Join(t.TempDir(), "none.ini"))
	assert.Error(t, err)
}

func TestToDTO(t *testing.T) {
	cfg := Default()
	cfg.Monitor.ProcessName = "foo"
	cfg.Monitor.MatchMode = "CONTAINS"
	dto := ToDTO("config.ini", cfg)
	assert.Equal(t, "contains", dto.Monitor.MatchMode)
	assert.Equal(t, "1s", dto.Monitor.PollInterval)
	assert.Equal(t, "config.ini", dto.Path)
}
