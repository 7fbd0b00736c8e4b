package monitor

import (
	"fmt"
	"strings"
	"time"

	"goTrayWatch/internal/process"
)

// MinPollInterval is the smallest accepted automatic polling interval.
const MinPollInterval = 100 * time.Millisecond

// Config is an immutable monitoring configuration. Controller.Apply replaces
// it as a whole.
type Config struct {
	ProcessName   string
	MatchMode     process.MatchMode
	PollInterval  time.Duration
	ManualOnly    bool
	// IgnoreCase selects case-insensitive matching. The zero value is
	// case-sensitive.
	IgnoreCase bool
}

// Validate returns a *ConfigError for the first invalid field.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ProcessName) == "" {
		return &ConfigError{Field: "processName", Message: "must not be empty"}
	}
	if !c.MatchMode.Valid() {
		return &ConfigError{Field: "matchMode", Message: fmt.Sprintf("unknown mode %d", int(c.MatchMode))}
	}
	if c.PollInterval < MinPollInterval {
		return &ConfigError{
			Field:   "pollInterval",
			Message: fmt.Sprintf("%v is below the minimum value of %dms", c.PollInterval, MinPollInterval.Milliseconds()),
		}
	}
	return nil
}

func (c Config) String() string {
	mode := "auto " + c.PollInterval.String()
	if c.ManualOnly {
		mode = "manual"
	}
	return fmt.Sprintf("%s (%s, %s)", c.ProcessName, c.MatchMode, mode)
}
