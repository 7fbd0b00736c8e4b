package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/gcfg.v1"

	"goTrayWatch/internal/monitor"
	"goTrayWatch/internal/process"
)

const DefaultConfigName = "config.ini"

// DefaultPollInterval is used when [monitor] pollInterval is not set.
const DefaultPollInterval = time.Second

// Monitor is the [monitor] section.
type Monitor struct {
	ProcessName   string
	MatchMode     string // exact | contains
	PollInterval  Duration
	ManualOnly    bool
	CaseSensitive bool
	Backend       string // gopsutil | ps
}

// Log is the [log] section.
type Log struct {
	Level      string
	File       string
	Color      bool
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Metrics is the [metrics] section. An empty Listen disables the endpoint.
type Metrics struct {
	Listen string
}

// Notify is the [notify] section.
type Notify struct {
	Enabled bool
	Server  string
	OnStart bool
	OnStop  bool
}

// Config is the whole config.ini.
type Config struct {
	Monitor Monitor
	Log     Log
	Metrics Metrics
	Notify  Notify
}

// Default returns the values used for keys the file leaves out.
func Default() Config {
	return Config{
		Monitor: Monitor{
			MatchMode:     process.MatchExact.String(),
			PollInterval:  Duration{DefaultPollInterval},
			CaseSensitive: true,
			Backend:       process.BackendGopsutil,
		},
		Log: Log{
			Level:      "info",
			Color:      true,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Notify: Notify{
			OnStart: true,
			OnStop:  true,
		},
	}
}

// Load reads path over Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if err := gcfg.ReadFileInto(&cfg, path); err != nil {
		return Config{}, errors.Wrapf(err, "load config %s", path)
	}
	return cfg, nil
}

// ResolvePath picks the config file: an explicit path wins, then
// config.ini next to the executable, then config.ini in the working directory.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if exePath, err := os.Executable(); err == nil {
		exeConfig := filepath.Join(filepath.Dir(exePath), DefaultConfigName)
		if _, err := os.Stat(exeConfig); err == nil {
			return exeConfig
		}
	}
	return DefaultConfigName
}

// ToMonitor converts the [monitor] section. Range checks are left to
// monitor.Config.Validate.
func (c Config) ToMonitor() (monitor.Config, error) {
	mode, err := process.ParseMatchMode(c.Monitor.MatchMode)
	if err != nil {
		return monitor.Config{}, &monitor.ConfigError{Field: "matchMode", Message: err.Error()}
	}
	return monitor.Config{
		ProcessName:  strings.TrimSpace(c.Monitor.ProcessName),
		MatchMode:    mode,
		PollInterval: c.Monitor.PollInterval.Duration,
		ManualOnly:   c.Monitor.ManualOnly,
		IgnoreCase:   !c.Monitor.CaseSensitive,
	}, nil
}

// Duration supports values like "100ms", "0.1s", "1s", "2m", or plain
// numbers, which are milliseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		d.Duration = 0
		return nil
	}
	if parsed, err := time.ParseDuration(s); err == nil {
		d.Duration = parsed
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	d.Duration = time.Duration(float64(time.Millisecond) * f)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
