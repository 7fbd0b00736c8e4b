package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. GOTRAYWATCH_PROCESS.
const EnvPrefix = "GOTRAYWATCH"

const (
	keyProcess       = "process"
	keyMatch         = "match"
	keyInterval      = "interval"
	keyManualOnly    = "manual_only"
	keyCaseSensitive = "case_sensitive"
	keyBackend       = "backend"
	keyLogLevel      = "log_level"
	keyLogFile       = "log_file"
	keyMetricsListen = "metrics_listen"
)

var flagNames = map[string]string{
	keyProcess:       "process",
	keyMatch:         "match",
	keyInterval:      "interval",
	keyManualOnly:    "manual-only",
	keyCaseSensitive: "case-sensitive",
	keyBackend:       "backend",
	keyLogLevel:      "log-level",
	keyLogFile:       "log-file",
	keyMetricsListen: "metrics-listen",
}

// AddFlags registers the override flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String(flagNames[keyProcess], "", "process name to watch")
	fs.String(flagNames[keyMatch], "", "match mode: exact or contains")
	fs.String(flagNames[keyInterval], "", "poll interval, e.g. 500ms or 2s")
	fs.Bool(flagNames[keyManualOnly], false, "only check on demand")
	fs.Bool(flagNames[keyCaseSensitive], true, "case sensitive name matching")
	fs.String(flagNames[keyBackend], "", "process backend: gopsutil or ps")
	fs.String(flagNames[keyLogLevel], "", "log level: debug, info, warn, error")
	fs.String(flagNames[keyLogFile], "", "log file path")
	fs.String(flagNames[keyMetricsListen], "", "metrics listen address")
}

// NewOverrides returns a viper instance reading GOTRAYWATCH_* variables and
// the flags registered by AddFlags. fs may be nil.
func NewOverrides(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	for key, name := range flagNames {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "bind env %s", key)
		}
		if fs == nil {
			continue
		}
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrapf(err, "bind flag %s", name)
			}
		}
	}
	return v, nil
}

// ApplyOverrides copies every explicitly set flag or environment value
// into cfg. File values stay for everything else.
func ApplyOverrides(cfg *Config, v *viper.Viper) error {
	if v == nil {
		return nil
	}
	if v.IsSet(keyProcess) {
		cfg.Monitor.ProcessName = v.GetString(keyProcess)
	}
	if v.IsSet(keyMatch) {
		cfg.Monitor.MatchMode = v.GetString(keyMatch)
	}
	if v.IsSet(keyInterval) {
		var d Duration
		if err := d.UnmarshalText([]byte(v.GetString(keyInterval))); err != nil {
			return errors.Wrap(err, "interval override")
		}
		cfg.Monitor.PollInterval = d
	}
	if v.IsSet(keyManualOnly) {
		cfg.Monitor.ManualOnly = v.GetBool(keyManualOnly)
	}
	if v.IsSet(keyCaseSensitive) {
		cfg.Monitor.CaseSensitive = v.GetBool(keyCaseSensitive)
	}
	if v.IsSet(keyBackend) {
		cfg.Monitor.Backend = v.GetString(keyBackend)
	}
	if v.IsSet(keyLogLevel) {
		cfg.Log.Level = v.GetString(keyLogLevel)
	}
	if v.IsSet(keyLogFile) {
		cfg.Log.File = v.GetString(keyLogFile)
	}
	if v.IsSet(keyMetricsListen) {
		cfg.Metrics.Listen = v.GetString(keyMetricsListen)
	}
	return nil
}
