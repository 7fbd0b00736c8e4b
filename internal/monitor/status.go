package monitor

// Status is the monitoring state shown to the user.
type Status int32

const (
	StatusStopped Status = iota
	StatusChecking
	StatusRunning
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusChecking:
		return "checking"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Icon returns the user-facing marker for a status.
func (s Status) Icon() string {
	switch s {
	case StatusRunning:
		return "★ RUN  "
	case StatusChecking:
		return "… CHECK"
	case StatusStopped:
		return "✗ NRUN "
	case StatusPaused:
		return "‖ PAUSE"
	default:
		return "☠ ???  "
	}
}

// Sink receives every status transition, including into and out of
// StatusChecking. It is called on the goroutine that made the transition and
// must not call back into the Controller synchronously.
type Sink interface {
	OnStatusChanged(from, to Status)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(from, to Status)

func (f SinkFunc) OnStatusChanged(from, to Status) { f(from, to) }

// Sinks fans a transition out to several sinks in order.
type Sinks []Sink

func (ss Sinks) OnStatusChanged(from, to Status) {
	for _, s := range ss {
		if s != nil {
			s.OnStatusChanged(from, to)
		}
	}
}
