package config

import "goTrayWatch/internal/process"

// MonitorDTO is a JSON view of the [monitor] section.
type MonitorDTO struct {
	ProcessName   string `json:"processName"`
	MatchMode     string `json:"matchMode"`
	PollInterval  string `json:"pollInterval"`
	ManualOnly    bool   `json:"manualOnly"`
	CaseSensitive bool   `json:"caseSensitive"`
	Backend       string `json:"backend"`
}

// LogDTO is a JSON view of the [log] section.
type LogDTO struct {
	Level      string `json:"level"`
	File       string `json:"file,omitempty"`
	Color      bool   `json:"color"`
	MaxSizeMB  int    `json:"maxSizeMB"`
	MaxBackups int    `json:"maxBackups"`
	MaxAgeDays int    `json:"maxAgeDays"`
}

// NotifyDTO is a JSON view of the [notify] section.
type NotifyDTO struct {
	Enabled bool   `json:"enabled"`
	Server  string `json:"server,omitempty"`
	OnStart bool   `json:"onStart"`
	OnStop  bool   `json:"onStop"`
}

// ConfigDTO is the JSON view printed by the config command.
type ConfigDTO struct {
	Path          string     `json:"path,omitempty"`
	Monitor       MonitorDTO `json:"monitor"`
	Log           LogDTO     `json:"log"`
	MetricsListen string     `json:"metricsListen,omitempty"`
	Notify        NotifyDTO  `json:"notify"`
}

// ToDTO converts Config to ConfigDTO with normalized values.
func ToDTO(path string, cfg Config) ConfigDTO {
	mode := cfg.Monitor.MatchMode
	if m, err := process.ParseMatchMode(mode); err == nil {
		mode = m.String()
	}
	return ConfigDTO{
		Path: path,
		Monitor: MonitorDTO{
			ProcessName:   cfg.Monitor.ProcessName,
			MatchMode:     mode,
			PollInterval:  durString(cfg.Monitor.PollInterval),
			ManualOnly:    cfg.Monitor.ManualOnly,
			CaseSensitive: cfg.Monitor.CaseSensitive,
			Backend:       cfg.Monitor.Backend,
		},
		Log: LogDTO{
			Level:      cfg.Log.Level,
			File:       cfg.Log.File,
			Color:      cfg.Log.Color,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		},
		MetricsListen: cfg.Metrics.Listen,
		Notify: NotifyDTO{
			Enabled: cfg.Notify.Enabled,
			Server:  cfg.Notify.Server,
			OnStart: cfg.Notify.OnStart,
			OnStop:  cfg.Notify.OnStop,
		},
	}
}

func durString(d Duration) string {
	if d.Duration == 0 {
		return ""
	}
	return d.Duration.String()
}
