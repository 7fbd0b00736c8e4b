// Package notify posts desktop notifications through a GNTP (Growl) server.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mattn/go-gntp"

	"goTrayWatch/internal/monitor"
)

const (
	EventStarted           = "started"
	EventProcessStopped    = "process_stopped"
	EventTerminationFailed = "termination_failed"

	DefaultAppName = "goTrayWatch"
	queueSize      = 16
)

// Client is the subset of *gntp.Client the notifier uses.
type Client interface {
	Register(events []gntp.Notification) error
	Notify(msg *gntp.Message) error
}

// Options selects which notices are posted.
type Options struct {
	Server  string // host:port, empty for the gntp default
	AppName string
	OnStart bool
	OnStop  bool
}

// Notifier turns monitor events into GNTP messages. Posting happens on the
// Run goroutine so callers on the poll loop never wait on the network.
type Notifier struct {
	client  Client
	opts    Options
	logger  *slog.Logger
	process func() string

	queue chan *gntp.Message

	mu         sync.Mutex
	registered bool
	lastRest   monitor.Status
}

// New returns a notifier backed by a real gntp client. process reports the
// watched process name for message text; it may be nil.
func New(opts Options, logger *slog.Logger, process func() string) *Notifier {
	c := gntp.NewClient()
	if opts.AppName == "" {
		opts.AppName = DefaultAppName
	}
	c.AppName = opts.AppName
	if opts.Server != "" {
		c.Server = opts.Server
	}
	return NewWithClient(c, opts, logger, process)
}

// NewWithClient is New with an explicit client.
func NewWithClient(c Client, opts Options, logger *slog.Logger, process func() string) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.AppName == "" {
		opts.AppName = DefaultAppName
	}
	if process == nil {
		process = func() string { return "" }
	}
	return &Notifier{
		client:   c,
		opts:     opts,
		logger:   logger.With("component", "notify"),
		process:  process,
		queue:    make(chan *gntp.Message, queueSize),
		lastRest: monitor.StatusStopped,
	}
}

// Started posts the start-up notice when enabled.
func (n *Notifier) Started() {
	if !n.opts.OnStart {
		return
	}
	text := "Started"
	if p := n.process(); p != "" {
		text = fmt.Sprintf("Started, watching %s", p)
	}
	n.enqueue(&gntp.Message{Event: EventStarted, Title: n.opts.AppName, Text: text})
}

// OnStatusChanged posts a notice when a check finds that a process seen
// running has gone away.
func (n *Notifier) OnStatusChanged(from, to monitor.Status) {
	if to != monitor.StatusStopped && to != monitor.StatusRunning {
		return
	}
	n.mu.Lock()
	prev := n.lastRest
	n.lastRest = to
	n.mu.Unlock()

	if !n.opts.OnStop || from != monitor.StatusChecking || prev != monitor.StatusRunning || to != monitor.StatusStopped {
		return
	}
	n.enqueue(&gntp.Message{
		Event: EventProcessStopped,
		Title: n.opts.AppName,
		Text:  fmt.Sprintf("%s is no longer running", n.process()),
	})
}

// TerminationFailed posts a sticky notice for a failed terminate request.
func (n *Notifier) TerminationFailed(err error) {
	n.enqueue(&gntp.Message{
		Event:  EventTerminationFailed,
		Title:  n.opts.AppName,
		Text:   fmt.Sprintf("Could not terminate %s: %v", n.process(), err),
		Sticky: true,
	})
}

func (n *Notifier) enqueue(m *gntp.Message) {
	select {
	case n.queue <- m:
	default:
		n.logger.Warn("notification dropped", "event", m.Event)
	}
}

// Run posts queued notices until ctx is done.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-n.queue:
			n.post(m)
		}
	}
}

func (n *Notifier) post(m *gntp.Message) {
	if !n.registered {
		err := n.client.Register([]gntp.Notification{
			{Event: EventStarted, Enabled: true},
			{Event: EventProcessStopped, Enabled: true},
			{Event: EventTerminationFailed, Enabled: true},
		})
		if err != nil {
			n.logger.Warn("failed to register notifications", "error", err)
			return
		}
		n.registered = true
	}
	if err := n.client.Notify(m); err != nil {
		n.logger.Warn("failed to send notification", "event", m.Event, "error", err)
	}
}
