package monitor

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// SampleFunc takes one sample under cfg. ctx is cancelled when the cycle that
// runs the sample is stopped.
type SampleFunc func(ctx context.Context, cfg Config)

// Worker drives SampleFunc on a schedule or on demand.
//
// Each Start creates one cycle goroutine, and every sample of that cycle runs
// on it, so samples never overlap. Lifecycle calls are serialized by mu and a
// new cycle starts only after the previous one has fully exited.
//
// Automatic cycles sample immediately and then PollInterval after the end of
// each sample. A manual trigger re-bases that schedule.
type Worker struct {
	sample SampleFunc
	logger *slog.Logger

	mu  sync.Mutex
	cur *cycle

	active atomic.Int32
}

type cycle struct {
	cfg     Config
	cancel  context.CancelFunc
	done    chan struct{}
	trigger chan struct{}

	wmu     sync.Mutex
	waiters []chan struct{}
	closed  bool
}

// NewWorker returns a stopped worker.
func NewWorker(sample SampleFunc, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{sample: sample, logger: logger}
}

// Start begins a polling cycle for cfg, replacing any running cycle.
func (w *Worker) Start(cfg Config) {
	w.Reconfigure(cfg, nil)
}

// Reconfigure stops the current cycle, waiting for an in-flight sample, runs
// idle with no cycle active, then starts a cycle for cfg. The whole sequence
// holds the worker's lifecycle lock.
func (w *Worker) Reconfigure(cfg Config, idle func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
	if idle != nil {
		idle()
	}
	w.startLocked(cfg)
}

// Stop cancels the current cycle and returns once its goroutine has exited.
// It must not be called from inside a SampleFunc.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
}

// Running reports whether a cycle is active.
func (w *Worker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cur != nil
}

// Active returns the number of live cycle goroutines. It is never above one.
func (w *Worker) Active() int { return int(w.active.Load()) }

// TriggerNow requests an immediate sample. The returned channel is closed once
// a sample that started after the request has finished, or when the cycle
// stops. Requests made while a sample runs coalesce into one more sample.
func (w *Worker) TriggerNow() (<-chan struct{}, error) {
	w.mu.Lock()
	c := w.cur
	w.mu.Unlock()
	if c == nil {
		return nil, errWorkerStopped
	}

	ch := make(chan struct{})
	c.wmu.Lock()
	if c.closed {
		c.wmu.Unlock()
		return nil, errWorkerStopped
	}
	c.waiters = append(c.waiters, ch)
	c.wmu.Unlock()

	select {
	case c.trigger <- struct{}{}:
	default:
		// A trigger is already pending; it will serve this waiter too.
	}
	return ch, nil
}

func (w *Worker) startLocked(cfg Config) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &cycle{
		cfg:     cfg,
		cancel:  cancel,
		done:    make(chan struct{}),
		trigger: make(chan struct{}, 1),
	}
	w.cur = c
	w.active.Add(1)
	go w.run(ctx, c)
}

func (w *Worker) stopLocked() {
	c := w.cur
	if c == nil {
		return
	}
	w.cur = nil
	c.cancel()
	<-c.done
}

func (w *Worker) run(ctx context.Context, c *cycle) {
	defer func() {
		c.release()
		w.active.Add(-1)
		close(c.done)
	}()

	var (
		timer *time.Timer
		tick  <-chan time.Time
	)
	if !c.cfg.ManualOnly {
		timer = time.NewTimer(0)
		defer timer.Stop()
		tick = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			if ctx.Err() != nil {
				return
			}
			w.runSample(ctx, c.cfg)
			timer.Reset(c.cfg.PollInterval)
		case <-c.trigger:
			if ctx.Err() != nil {
				return
			}
			waiters := c.takeWaiters()
			w.runSample(ctx, c.cfg)
			for _, ch := range waiters {
				close(ch)
			}
			if timer != nil {
				timer.Reset(c.cfg.PollInterval)
			}
		}
	}
}

func (w *Worker) runSample(ctx context.Context, cfg Config) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("sample panicked", "process", cfg.ProcessName, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	w.sample(ctx, cfg)
}

func (c *cycle) takeWaiters() []chan struct{} {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	out := c.waiters
	c.waiters = nil
	return out
}

func (c *cycle) release() {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	c.closed = true
	for _, ch := range c.waiters {
		close(ch)
	}
	c.waiters = nil
}
