package monitor

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"goTrayWatch/internal/process"
)

var (
	// ErrInvalidConfig is matched by every *ConfigError.
	ErrInvalidConfig = errors.New("invalid monitor config")
	// ErrProcessQueryFailed marks a failed process listing.
	ErrProcessQueryFailed = process.ErrQueryFailed
	// ErrPermissionDenied marks an OS refusal to list or terminate.
	ErrPermissionDenied = process.ErrPermissionDenied
	// ErrTerminationFailed marks a failed terminate request.
	ErrTerminationFailed = errors.New("termination failed")

	ErrNotConfigured    = errors.New("monitor not configured")
	ErrNoWatchedProcess = errors.New("no watched process")
	ErrShutdown         = errors.New("monitor shut down")
	errWorkerStopped    = errors.New("poll worker not running")
)

// ConfigError describes a rejected Config field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid config %s: %s", e.Field, e.Message)
	}
	return "invalid config: " + e.Message
}

// Is makes errors.Is(err, ErrInvalidConfig) true for any ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
