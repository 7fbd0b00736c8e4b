package main

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getlantern/systray"

	"goTrayWatch/internal/app"
	"goTrayWatch/internal/config"
	"goTrayWatch/internal/metrics"
	"goTrayWatch/internal/monitor"
	"goTrayWatch/internal/notify"
	"goTrayWatch/internal/process"
)

const terminateTimeout = 10 * time.Second

type tray struct {
	boot    *app.Bootstrap
	logger  *slog.Logger
	version string

	ctrl     *monitor.Controller
	notifier *notify.Notifier
	updates  chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	err    error

	mStatus *systray.MenuItem
	mCheck  *systray.MenuItem
	mPause  *systray.MenuItem
	mTerm   *systray.MenuItem
	mQuit   *systray.MenuItem
}

func newTray(b *app.Bootstrap, version string) (*tray, error) {
	lister, err := process.NewLister(b.Config.Monitor.Backend)
	if err != nil {
		return nil, err
	}
	t := &tray{
		boot:    b,
		logger:  b.Logger.With("component", "tray"),
		version: version,
		updates: make(chan struct{}, 1),
	}
	t.ctx, t.cancel = context.WithCancel(context.Background())

	sinks := monitor.Sinks{monitor.SinkFunc(t.onStatusChanged)}
	if b.Config.Notify.Enabled {
		t.notifier = notify.New(notify.Options{
			Server:  b.Config.Notify.Server,
			OnStart: b.Config.Notify.OnStart,
			OnStop:  b.Config.Notify.OnStop,
		}, b.Logger, t.watchedName)
		sinks = append(sinks, t.notifier)
	}
	t.ctrl = monitor.New(lister, monitor.WithLogger(b.Logger), monitor.WithSink(sinks))
	return t, nil
}

func (t *tray) onReady() {
	systray.SetTitle("goTrayWatch")
	systray.SetIcon(iconFor(monitor.StatusStopped, runtime.GOOS == "windows"))
	systray.SetTooltip("goTrayWatch")

	t.mStatus = systray.AddMenuItem("", "Watched process")
	t.mStatus.Disable()
	systray.AddSeparator()
	t.mCheck = systray.AddMenuItem("Check now", "Check the process immediately")
	t.mPause = systray.AddMenuItem("Pause", "Pause or resume monitoring")
	t.mTerm = systray.AddMenuItem("Terminate", "Terminate the watched process")
	systray.AddSeparator()
	t.mQuit = systray.AddMenuItem("Quit", "Exit goTrayWatch")

	if t.notifier != nil {
		go t.notifier.Run(t.ctx)
	}
	if err := t.apply(t.boot.Config); err != nil {
		t.err = err
		t.logger.Error("invalid configuration", "error", err)
		systray.Quit()
		return
	}
	if t.notifier != nil {
		t.notifier.Started()
	}
	if listen := t.boot.Config.Metrics.Listen; listen != "" {
		t.serveMetrics(listen)
	}
	go func() {
		err := config.Watch(t.ctx, t.boot.Path, config.DefaultDebounce, t.logger, t.reload)
		if err != nil {
			t.logger.Warn("config watch stopped", "error", err)
		}
	}()

	go t.refreshLoop()
	go t.clickLoop()
	t.refresh()
}

func (t *tray) onExit() {
	t.cancel()
	t.ctrl.Shutdown()
}

func (t *tray) clickLoop() {
	for {
		select {
		case <-t.ctx.Done():
			return
		case <-t.mCheck.ClickedCh:
			if err := t.ctrl.CheckNow(t.ctx); err != nil {
				t.logger.Warn("check failed", "error", err)
			}
		case <-t.mPause.ClickedCh:
			if err := t.ctrl.TogglePause(); err != nil {
				t.logger.Warn("pause failed", "error", err)
			}
			t.signal()
		case <-t.mTerm.ClickedCh:
			t.terminate()
		case <-t.mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func (t *tray) terminate() {
	ctx, cancel := context.WithTimeout(t.ctx, terminateTimeout)
	defer cancel()
	err := t.ctrl.TerminateWatchedProcess(ctx)
	switch {
	case err == nil, errors.Is(err, monitor.ErrNoWatchedProcess):
	case errors.Is(err, monitor.ErrTerminationFailed):
		t.logger.Warn("terminate failed", "error", err)
		if t.notifier != nil {
			t.notifier.TerminationFailed(err)
		}
	default:
		t.logger.Warn("terminate failed", "error", err)
	}
}

func (t *tray) apply(cfg config.Config) error {
	mc, err := cfg.ToMonitor()
	if err != nil {
		return err
	}
	if err := t.ctrl.Apply(mc); err != nil {
		return err
	}
	t.signal()
	return nil
}

func (t *tray) reload() {
	cfg, err := t.boot.Reload()
	if err == nil {
		err = t.apply(cfg)
	}
	if err != nil {
		t.logger.Warn("config reload rejected, keeping previous", "path", t.boot.Path, "error", err)
		return
	}
	t.logger.Info("config reloaded", "path", t.boot.Path)
}

func (t *tray) serveMetrics(listen string) {
	if _, err := metrics.Serve(t.ctx, listen, t.logger); err != nil {
		t.logger.Warn("metrics disabled", "error", err)
	}
}

func (t *tray) onStatusChanged(from, to monitor.Status) { t.signal() }

func (t *tray) signal() {
	select {
	case t.updates <- struct{}{}:
	default:
	}
}

func (t *tray) refreshLoop() {
	for {
		select {
		case <-t.ctx.Done():
			return
		case <-t.updates:
			t.refresh()
		}
	}
}

func (t *tray) refresh() {
	snap := t.ctrl.Snapshot()
	v := app.Menu(snap, t.version)
	systray.SetIcon(iconFor(snap.Status, runtime.GOOS == "windows"))
	systray.SetTooltip(v.Tooltip)
	t.mStatus.SetTitle(v.Status)
	t.mPause.SetTitle(v.PauseLabel)
	if v.PauseEnabled {
		t.mPause.Enable()
	} else {
		t.mPause.Disable()
	}
	if v.TerminateEnabled {
		t.mTerm.Enable()
	} else {
		t.mTerm.Disable()
	}
}

func (t *tray) watchedName() string {
	if cfg, ok := t.ctrl.Config(); ok {
		return cfg.ProcessName
	}
	return ""
}
