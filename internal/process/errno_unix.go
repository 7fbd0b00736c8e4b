//go:build !windows

package process

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

func isGone(err error) bool {
	return errors.Is(err, unix.ESRCH)
}
