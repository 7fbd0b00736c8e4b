package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"goTrayWatch/internal/config"
	"goTrayWatch/internal/metrics"
	"goTrayWatch/internal/monitor"
	"goTrayWatch/internal/notify"
	"goTrayWatch/internal/process"
)

const LogTag = "[goTrayWatch]"

// refreshEvery redraws the status line so uptime and usage stay current.
const refreshEvery = time.Second

// Options wires an App. Zero values select the real process backends,
// stdin and stdout.
type Options struct {
	ConfigPath string
	Overrides  *viper.Viper
	Logger     *slog.Logger
	Version    string
	In         io.Reader
	Out        io.Writer
	Lister     process.Lister
	Terminator process.Terminator
}

// App is the console host around a monitor.Controller.
type App struct {
	cfg       config.Config
	cfgPath   string
	overrides *viper.Viper
	logger    *slog.Logger
	version   string
	in        io.Reader
	out       io.Writer
	lister    process.Lister
	term      process.Terminator

	ctrl     *monitor.Controller
	notifier *notify.Notifier
	details  *detailer

	redraw   chan struct{}
	reloadCh chan struct{}
	notice   string

	lastRenderLines int
	lastRenderWidth int
}

// New builds an App for cfg. The process backend is fixed here; changing
// [monitor] backend needs a restart.
func New(cfg config.Config, opts Options) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	lister := opts.Lister
	if lister == nil {
		l, err := process.NewLister(cfg.Monitor.Backend)
		if err != nil {
			return nil, err
		}
		lister = l
	}
	a := &App{
		cfg:       cfg,
		cfgPath:   opts.ConfigPath,
		overrides: opts.Overrides,
		logger:    opts.Logger,
		version:   opts.Version,
		in:        opts.In,
		out:       opts.Out,
		lister:    lister,
		term:      opts.Terminator,
		details:   newDetailer(),
		redraw:    make(chan struct{}, 1),
		reloadCh:  make(chan struct{}, 1),
	}
	return a, nil
}

// Controller returns the controller once Run has started it.
func (a *App) Controller() *monitor.Controller { return a.ctrl }

func (a *App) newController(sink monitor.Sink) *monitor.Controller {
	return monitor.New(a.lister,
		monitor.WithLogger(a.logger),
		monitor.WithTerminator(a.term),
		monitor.WithSink(sink),
	)
}

// Run applies the configuration, then serves stdin commands, config file
// changes and the optional metrics endpoint until ctx is done or the user
// quits. Quitting returns nil.
func (a *App) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is nil")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sinks := monitor.Sinks{monitor.SinkFunc(a.onStatusChanged)}
	if a.cfg.Notify.Enabled {
		a.notifier = notify.New(notify.Options{
			Server:  a.cfg.Notify.Server,
			OnStart: a.cfg.Notify.OnStart,
			OnStop:  a.cfg.Notify.OnStop,
		}, a.logger, a.watchedName)
		sinks = append(sinks, a.notifier)
		go a.notifier.Run(ctx)
	}
	a.ctrl = a.newController(sinks)
	defer a.ctrl.Shutdown()

	if err := a.apply(a.cfg); err != nil {
		return err
	}
	if a.notifier != nil {
		a.notifier.Started()
	}

	if a.cfg.Metrics.Listen != "" {
		if _, err := metrics.Serve(ctx, a.cfg.Metrics.Listen, a.logger); err != nil {
			return err
		}
	}
	if a.cfgPath != "" {
		if _, err := os.Stat(a.cfgPath); err == nil {
			go func() {
				err := config.Watch(ctx, a.cfgPath, config.DefaultDebounce, a.logger, a.requestReload)
				if err != nil {
					a.logger.Warn("config watch stopped", "error", err)
				}
			}()
		}
	}

	cmds := make(chan string)
	go readCommands(ctx, a.in, cmds)

	hideCursor(a.out)
	a.draw(ctx)

	ticker := time.NewTicker(refreshEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.reloadCh:
			a.reload()
			a.draw(ctx)
		case cmd, ok := <-cmds:
			if !ok {
				cmds = nil
				continue
			}
			if a.handleCommand(ctx, cmd) {
				return nil
			}
			a.draw(ctx)
		case <-a.redraw:
			a.draw(ctx)
		case <-ticker.C:
			a.draw(ctx)
		}
	}
}

func (a *App) apply(cfg config.Config) error {
	mc, err := cfg.ToMonitor()
	if err != nil {
		return err
	}
	if err := a.ctrl.Apply(mc); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *App) requestReload() {
	select {
	case a.reloadCh <- struct{}{}:
	default:
	}
}

// reload re-reads the config file. A rejected file keeps the running
// configuration.
func (a *App) reload() {
	cfg, err := config.Load(a.cfgPath)
	if err == nil {
		err = config.ApplyOverrides(&cfg, a.overrides)
	}
	if err == nil {
		if cfg.Monitor.Backend != a.cfg.Monitor.Backend {
			a.logger.Warn("process backend change needs a restart", "current", a.cfg.Monitor.Backend, "requested", cfg.Monitor.Backend)
		}
		err = a.apply(cfg)
	}
	if err != nil {
		a.notice = "config rejected: " + err.Error()
		a.logger.Warn("config reload rejected, keeping previous", "path", a.cfgPath, "error", err)
		return
	}
	a.notice = "config reloaded"
	a.logger.Info("config reloaded", "path", a.cfgPath)
}

func (a *App) onStatusChanged(from, to monitor.Status) {
	select {
	case a.redraw <- struct{}{}:
	default:
	}
}

func (a *App) watchedName() string {
	if cfg, ok := a.ctrl.Config(); ok {
		return cfg.ProcessName
	}
	return ""
}

func (a *App) snapshot(ctx context.Context) DisplaySnapshot {
	snap := a.ctrl.Snapshot()
	return BuildDisplay(a.version, snap, a.details.read(ctx, snap.Watched), time.Now())
}

func (a *App) draw(ctx context.Context) {
	a.render(a.snapshot(ctx))
}
