package process

import (
	"context"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shirou/gopsutil/v3/process"
)

// DefaultExitGrace bounds how long Terminate waits for the PID to disappear.
const DefaultExitGrace = 2 * time.Second

// Terminator asks the OS to end a process.
type Terminator interface {
	Terminate(ctx context.Context, pid int32) error
}

// GopsutilTerminator terminates through gopsutil and then waits up to
// ExitGrace for the process to be gone, so a follow-up check sees it stopped.
type GopsutilTerminator struct {
	ExitGrace time.Duration
	// PollEvery is the exit polling step. Zero means 50ms.
	PollEvery time.Duration
}

// Terminate returns ErrAlreadyExited if pid is not running and marks refusals
// with ErrPermissionDenied.
func (t GopsutilTerminator) Terminate(ctx context.Context, pid int32) error {
	if pid <= 0 {
		return errors.Newf("invalid pid %d", pid)
	}
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) || isGone(err) {
			return WithKind(errors.Wrapf(err, "pid %d", pid), ErrAlreadyExited)
		}
		return classifyKillErr(pid, err)
	}
	if err := p.TerminateWithContext(ctx); err != nil {
		if isGone(err) {
			return WithKind(errors.Wrapf(err, "pid %d", pid), ErrAlreadyExited)
		}
		return classifyKillErr(pid, err)
	}
	return t.waitExit(ctx, pid)
}

func (t GopsutilTerminator) waitExit(ctx context.Context, pid int32) error {
	grace := t.ExitGrace
	if grace <= 0 {
		grace = DefaultExitGrace
	}
	step := t.PollEvery
	if step <= 0 {
		step = 50 * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, grace)
	defer cancel()

	ticker := time.NewTicker(step)
	defer ticker.Stop()
	for {
		if !IsPidAlive(ctx, pid) {
			return nil
		}
		select {
		case <-ctx.Done():
			// The request was delivered; the next check decides the status.
			return nil
		case <-ticker.C:
		}
	}
}

// IsPidAlive reports if a PID is running.
func IsPidAlive(ctx context.Context, pid int32) bool {
	ok, err := process.PidExistsWithContext(ctx, pid)
	if err != nil {
		return false
	}
	return ok
}

func classifyKillErr(pid int32, err error) error {
	err = errors.Wrapf(err, "terminate pid %d", pid)
	if errors.Is(err, os.ErrPermission) {
		return WithKind(err, ErrPermissionDenied)
	}
	return err
}
