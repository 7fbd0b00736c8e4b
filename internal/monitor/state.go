package monitor

import "sync/atomic"

// StateMachine holds the current Status and performs the allowed transitions.
//
// Writers must be serialized by the caller; the Controller guarantees that
// either the active poll cycle or a command holding the lifecycle lock is the
// only writer at any time. Status and LastObserved may be read concurrently.
//
//	Stopped/Running --BeginCheck--> Checking --CompleteCheck--> Stopped/Running
//	any non-paused  --Pause-------> Paused   --Resume-------->  last observed
//
// A paused machine ignores BeginCheck and CompleteCheck.
type StateMachine struct {
	status   atomic.Int32
	last     atomic.Int32
	observer func(from, to Status)
}

// NewStateMachine returns a machine in StatusStopped. observer, if non-nil,
// is called after every transition.
func NewStateMachine(observer func(from, to Status)) *StateMachine {
	m := &StateMachine{observer: observer}
	m.status.Store(int32(StatusStopped))
	m.last.Store(int32(StatusStopped))
	return m
}

// Status returns the current status.
func (m *StateMachine) Status() Status { return Status(m.status.Load()) }

// LastObserved returns the last resting status produced by a completed
// check (StatusStopped or StatusRunning). It survives a pause.
func (m *StateMachine) LastObserved() Status { return Status(m.last.Load()) }

// Pause enters StatusPaused. It returns false if already paused.
func (m *StateMachine) Pause() bool {
	if m.Status() == StatusPaused {
		return false
	}
	m.set(StatusPaused)
	return true
}

// Resume leaves StatusPaused for the last observed status.
func (m *StateMachine) Resume() bool {
	if m.Status() != StatusPaused {
		return false
	}
	m.set(m.LastObserved())
	return true
}

// BeginCheck enters StatusChecking from Stopped or Running.
func (m *StateMachine) BeginCheck() bool {
	switch m.Status() {
	case StatusStopped, StatusRunning:
		m.set(StatusChecking)
		return true
	default:
		return false
	}
}

// CompleteCheck leaves StatusChecking for Running or Stopped.
func (m *StateMachine) CompleteCheck(found bool) bool {
	if m.Status() != StatusChecking {
		return false
	}
	to := StatusStopped
	if found {
		to = StatusRunning
	}
	m.last.Store(int32(to))
	m.set(to)
	return true
}

// AbortCheck leaves StatusChecking without a result, restoring the last
// observed status. Used when a sample is cancelled mid-flight.
func (m *StateMachine) AbortCheck() bool {
	if m.Status() != StatusChecking {
		return false
	}
	m.set(m.LastObserved())
	return true
}

// Reset returns the machine to StatusStopped and forgets the last
// observation, as if newly created.
func (m *StateMachine) Reset() {
	m.last.Store(int32(StatusStopped))
	m.set(StatusStopped)
}

func (m *StateMachine) set(to Status) {
	from := Status(m.status.Swap(int32(to)))
	if from != to && m.observer != nil {
		m.observer(from, to)
	}
}
