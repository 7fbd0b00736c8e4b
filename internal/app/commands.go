package app

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"goTrayWatch/internal/monitor"
)

// readCommands forwards trimmed, lower-cased input lines until r ends or
// ctx is done.
func readCommands(ctx context.Context, r io.Reader, out chan<- string) {
	defer close(out)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.ToLower(strings.TrimSpace(sc.Text()))
		if line == "" {
			continue
		}
		select {
		case out <- line:
		case <-ctx.Done():
			return
		}
	}
}

// handleCommand runs one console command and reports whether to quit.
func (a *App) handleCommand(ctx context.Context, cmd string) bool {
	a.notice = ""
	switch cmd {
	case "c", "check":
		if err := a.ctrl.CheckNow(ctx); err != nil {
			a.fail("check failed", err)
		}
	case "p", "pause", "resume":
		if cfg, ok := a.ctrl.Config(); ok && cfg.ManualOnly {
			a.notice = "pause is disabled in manual-only mode"
			return false
		}
		if err := a.ctrl.TogglePause(); err != nil {
			a.fail("pause failed", err)
		}
	case "k", "kill", "terminate":
		err := a.ctrl.TerminateWatchedProcess(ctx)
		switch {
		case err == nil:
			a.notice = "terminated"
		case errors.Is(err, monitor.ErrNoWatchedProcess):
			a.notice = "nothing to terminate"
		default:
			if errors.Is(err, monitor.ErrTerminationFailed) && a.notifier != nil {
				a.notifier.TerminationFailed(err)
			}
			a.fail("terminate failed", err)
		}
	case "q", "quit", "exit":
		return true
	default:
		a.notice = "unknown command " + cmd
	}
	return false
}

func (a *App) fail(msg string, err error) {
	a.notice = msg + ": " + err.Error()
	a.logger.Warn(msg, "error", err)
}
