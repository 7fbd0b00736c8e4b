//go:build windows

package process

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/windows"
)

// OpenProcess on a dead PID fails with ERROR_INVALID_PARAMETER.
func isGone(err error) bool {
	return errors.Is(err, windows.ERROR_INVALID_PARAMETER)
}
