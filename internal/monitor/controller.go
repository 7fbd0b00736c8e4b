package monitor

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"

	"goTrayWatch/internal/metrics"
	"goTrayWatch/internal/process"
)

// Controller is the monitor facade: it owns the configuration, the state
// machine, the watched process handle and the poll worker.
//
// Commands are serialized by mu. A command that changes status stops the
// poll cycle first, so the cycle goroutine and the command are never writers
// at the same time. Readers use atomics and never block the poll loop.
type Controller struct {
	lister process.Lister
	term   process.Terminator
	logger *slog.Logger
	sink   Sink

	mu       sync.Mutex
	shutdown bool

	sm      *StateMachine
	worker  *Worker
	cfg     atomic.Pointer[Config]
	watched atomic.Pointer[process.Ref]
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSink sets the presentation sink notified of every transition.
func WithSink(s Sink) Option {
	return func(c *Controller) { c.sink = s }
}

// WithTerminator replaces the gopsutil terminator.
func WithTerminator(t process.Terminator) Option {
	return func(c *Controller) {
		if t != nil {
			c.term = t
		}
	}
}

// New returns an unconfigured controller in StatusStopped. Polling starts on
// the first successful Apply. A nil lister selects gopsutil.
func New(lister process.Lister, opts ...Option) *Controller {
	if lister == nil {
		lister = process.GopsutilLister{}
	}
	c := &Controller{
		lister: lister,
		term:   process.GopsutilTerminator{},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With("component", "monitor")
	c.sm = NewStateMachine(c.onTransition)
	c.worker = NewWorker(c.sample, c.logger)
	return c
}

// Apply validates cfg and, if valid, replaces the configuration: the running
// cycle is stopped (waiting for an in-flight sample), the watched handle is
// cleared, the state machine is reset to StatusStopped, and a new cycle starts.
// An automatic config samples immediately. On error nothing changes.
func (c *Controller) Apply(cfg Config) error {
	cfg.ProcessName = strings.TrimSpace(cfg.ProcessName)
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shutdown {
		return ErrShutdown
	}

	c.worker.Reconfigure(cfg, func() {
		c.watched.Store(nil)
		c.cfg.Store(&cfg)
		c.sm.Reset()
	})
	metrics.IncConfigApplied()
	c.logger.Info("config applied", "process", cfg.ProcessName, "match", cfg.MatchMode.String(),
		"interval", cfg.PollInterval, "manual_only", cfg.ManualOnly, "ignore_case", cfg.IgnoreCase)
	return nil
}

// Pause stops polling and enters StatusPaused. Pausing twice is a no-op.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shutdown {
		return ErrShutdown
	}
	c.pauseLocked()
	return nil
}

// Resume leaves StatusPaused and re-enters the polling cycle. Automatic
// configs sample immediately; manual-only configs wait for CheckNow.
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shutdown {
		return ErrShutdown
	}
	c.resumeLocked()
	return nil
}

// TogglePause resumes when paused and pauses otherwise.
func (c *Controller) TogglePause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shutdown {
		return ErrShutdown
	}
	if c.sm.Status() == StatusPaused {
		c.resumeLocked()
	} else {
		c.pauseLocked()
	}
	return nil
}

func (c *Controller) pauseLocked() {
	if c.sm.Status() == StatusPaused {
		return
	}
	c.worker.Stop()
	c.sm.Pause()
	c.logger.Info("monitoring paused")
}

func (c *Controller) resumeLocked() {
	if !c.sm.Resume() {
		return
	}
	if cfg := c.cfg.Load(); cfg != nil {
		c.worker.Start(*cfg)
	}
	c.logger.Info("monitoring resumed")
}

// CheckNow samples immediately and waits for the result. It is a no-op while
// paused. When automatic polling is active the next tick is re-based to one
// interval after this sample.
func (c *Controller) CheckNow(ctx context.Context) error {
	c.mu.Lock()
	if c.shutdown {
		c.mu.Unlock()
		return ErrShutdown
	}
	if c.cfg.Load() == nil {
		c.mu.Unlock()
		return ErrNotConfigured
	}
	if c.sm.Status() == StatusPaused {
		c.mu.Unlock()
		return nil
	}
	done, err := c.worker.TriggerNow()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TerminateWatchedProcess asks the OS to end the watched process and then
// re-checks. Without a watched process it checks first to find one. A failed
// request is returned marked ErrTerminationFailed; the re-check still decides
// the status.
func (c *Controller) TerminateWatchedProcess(ctx context.Context) error {
	ref, ok := c.Watched()
	if !ok {
		if err := c.CheckNow(ctx); err != nil {
			return err
		}
		if ref, ok = c.Watched(); !ok {
			return ErrNoWatchedProcess
		}
	}

	c.logger.Info("terminating watched process", "pid", ref.PID, "name", ref.Name)
	termErr := c.term.Terminate(ctx, ref.PID)
	if termErr != nil {
		metrics.IncTermination("failed")
		termErr = process.WithKind(errors.Wrapf(termErr, "terminate %s (pid %d)", ref.Name, ref.PID), ErrTerminationFailed)
		c.logger.Warn("terminate failed", "pid", ref.PID, "error", termErr)
	} else {
		metrics.IncTermination("ok")
	}
	process.ForgetUsage(ref.PID)

	if err := c.CheckNow(ctx); err != nil && termErr == nil {
		return err
	}
	return termErr
}

// Shutdown stops polling for good. It is idempotent.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shutdown {
		return
	}
	c.shutdown = true
	c.worker.Stop()
	c.logger.Info("monitor shut down")
}

// Status returns the current status.
func (c *Controller) Status() Status { return c.sm.Status() }

// LastObserved returns the last result of a completed check.
func (c *Controller) LastObserved() Status { return c.sm.LastObserved() }

// Watched returns the watched process handle, if any.
func (c *Controller) Watched() (process.Ref, bool) {
	r := c.watched.Load()
	if r == nil {
		return process.Ref{}, false
	}
	return *r, true
}

// Config returns the applied configuration, if any.
func (c *Controller) Config() (Config, bool) {
	cfg := c.cfg.Load()
	if cfg == nil {
		return Config{}, false
	}
	return *cfg, true
}

// ActiveCycles reports how many poll cycles are live (0 or 1).
func (c *Controller) ActiveCycles() int { return c.worker.Active() }

// Snapshot is a consistent-enough view for presentation.
type Snapshot struct {
	Status       Status
	LastObserved Status
	Watched      *process.Ref
	Config       *Config
}

// Snapshot copies the read side in one call.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{Status: c.sm.Status(), LastObserved: c.sm.LastObserved()}
	if r, ok := c.Watched(); ok {
		s.Watched = &r
	}
	if cfg, ok := c.Config(); ok {
		s.Config = &cfg
	}
	return s
}

// sample runs on the poll cycle goroutine.
func (c *Controller) sample(ctx context.Context, cfg Config) {
	if !c.sm.BeginCheck() {
		return
	}
	var (
		found     bool
		cancelled bool
	)
	defer func() {
		if cancelled {
			c.sm.AbortCheck()
			return
		}
		c.sm.CompleteCheck(found)
	}()

	start := time.Now()
	ref, ok, err := process.NewMatcher(c.lister, !cfg.IgnoreCase).Find(ctx, cfg.ProcessName, cfg.MatchMode)
	metrics.IncSample()
	metrics.ObserveSampleDuration(time.Since(start).Seconds())

	if ctx.Err() != nil {
		cancelled = true
		return
	}
	if err != nil {
		kind := "query"
		if errors.Is(err, ErrPermissionDenied) {
			kind = "permission"
		}
		metrics.IncSampleFailure(kind)
		c.logger.Warn("process query failed", "process", cfg.ProcessName, "kind", kind, "error", err)
		c.watched.Store(nil)
		return
	}
	if !ok {
		c.watched.Store(nil)
		return
	}
	c.watched.Store(&ref)
	found = true
}

func (c *Controller) onTransition(from, to Status) {
	metrics.RecordStateTransition(from.String(), to.String())
	c.logger.Debug("status changed", "from", from.String(), "to", to.String())
	if c.sink != nil {
		c.sink.OnStatusChanged(from, to)
	}
}
