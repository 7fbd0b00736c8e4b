package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// Write writes cfg to path as config.ini content.
func Write(path string, cfg Config) error {
	var b strings.Builder

	b.WriteString("[monitor]\n")
	b.WriteString(fmt.Sprintf("processName=%s\n", quoteIfNeeded(cfg.Monitor.ProcessName)))
	if cfg.Monitor.MatchMode != "" {
		b.WriteString(fmt.Sprintf("matchMode=%s\n", cfg.Monitor.MatchMode))
	}
	if cfg.Monitor.PollInterval.Duration > 0 {
		b.WriteString(fmt.Sprintf("pollInterval=%s\n", cfg.Monitor.PollInterval.Duration))
	}
	b.WriteString(fmt.Sprintf("manualOnly=%v\n", cfg.Monitor.ManualOnly))
	b.WriteString(fmt.Sprintf("caseSensitive=%v\n", cfg.Monitor.CaseSensitive))
	if cfg.Monitor.Backend != "" {
		b.WriteString(fmt.Sprintf("backend=%s\n", cfg.Monitor.Backend))
	}
	b.WriteString("\n")

	b.WriteString("[log]\n")
	if cfg.Log.Level != "" {
		b.WriteString(fmt.Sprintf("level=%s\n", cfg.Log.Level))
	}
	if cfg.Log.File != "" {
		b.WriteString(fmt.Sprintf("file=%s\n", quoteIfNeeded(cfg.Log.File)))
	}
	b.WriteString(fmt.Sprintf("color=%v\n", cfg.Log.Color))
	b.WriteString(fmt.Sprintf("maxSizeMB=%d\n", cfg.Log.MaxSizeMB))
	b.WriteString(fmt.Sprintf("maxBackups=%d\n", cfg.Log.MaxBackups))
	b.WriteString(fmt.Sprintf("maxAgeDays=%d\n", cfg.Log.MaxAgeDays))
	b.WriteString("\n")

	b.WriteString("[metrics]\n")
	if cfg.Metrics.Listen != "" {
		b.WriteString(fmt.Sprintf("listen=%s\n", quoteIfNeeded(cfg.Metrics.Listen)))
	}
	b.WriteString("\n")

	b.WriteString("[notify]\n")
	b.WriteString(fmt.Sprintf("enabled=%v\n", cfg.Notify.Enabled))
	if cfg.Notify.Server != "" {
		b.WriteString(fmt.Sprintf("server=%s\n", quoteIfNeeded(cfg.Notify.Server)))
	}
	b.WriteString(fmt.Sprintf("onStart=%v\n", cfg.Notify.OnStart))
	b.WriteString(fmt.Sprintf("onStop=%v\n", cfg.Notify.OnStop))

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return "\"\""
	}
	need := false
	for _, r := range s {
		if r == ' ' || r == '\\' || r == '"' || r == ',' || r == ';' || r == '#' {
			need = true
			break
		}
	}
	if !need {
		return s
	}
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
