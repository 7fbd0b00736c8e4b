package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type transition struct{ from, to Status }

func newRecordedMachine() (*StateMachine, *[]transition) {
	var got []transition
	m := NewStateMachine(func(from, to Status) { got = append(got, transition{from, to}) })
	return m, &got
}

func TestStateMachine_InitialStopped(t *testing.T) {
	m, _ := newRecordedMachine()
	assert.Equal(t, StatusStopped, m.Status())
	assert.Equal(t, StatusStopped, m.LastObserved())
}

func TestStateMachine_CheckCycle(t *testing.T) {
	m, got := newRecordedMachine()

	assert.True(t, m.BeginCheck())
	assert.Equal(t, StatusChecking, m.Status())
	assert.False(t, m.BeginCheck(), "cannot begin a check while checking")
	assert.True(t, m.CompleteCheck(true))
	assert.Equal(t, StatusRunning, m.Status())

	assert.True(t, m.BeginCheck())
	assert.True(t, m.CompleteCheck(false))
	assert.Equal(t, StatusStopped, m.Status())
	assert.False(t, m.CompleteCheck(true), "complete without begin is ignored")

	assert.Equal(t, []transition{
		{StatusStopped, StatusChecking},
		{StatusChecking, StatusRunning},
		{StatusRunning, StatusChecking},
		{StatusChecking, StatusStopped},
	}, *got)
}

func TestStateMachine_PausedIsFixedPointForSamples(t *testing.T) {
	m, got := newRecordedMachine()
	m.BeginCheck()
	m.CompleteCheck(true)

	assert.True(t, m.Pause())
	assert.False(t, m.Pause(), "second pause is a no-op")
	n := len(*got)

	assert.False(t, m.BeginCheck())
	assert.False(t, m.CompleteCheck(false))
	assert.False(t, m.AbortCheck())
	assert.Equal(t, StatusPaused, m.Status())
	assert.Equal(t, StatusRunning, m.LastObserved())
	assert.Len(t, *got, n, "ignored calls must not notify")

	assert.True(t, m.Resume())
	assert.Equal(t, StatusRunning, m.Status())
	assert.False(t, m.Resume())
}

func TestStateMachine_PauseDuringCheckDropsResult(t *testing.T) {
	m, _ := newRecordedMachine()
	m.BeginCheck()
	m.Pause()
	assert.False(t, m.CompleteCheck(true))
	assert.Equal(t, StatusStopped, m.LastObserved())
	m.Resume()
	assert.Equal(t, StatusStopped, m.Status())
}

func TestStateMachine_AbortRestoresLastObserved(t *testing.T) {
	m, _ := newRecordedMachine()
	m.BeginCheck()
	m.CompleteCheck(true)
	m.BeginCheck()
	assert.True(t, m.AbortCheck())
	assert.Equal(t, StatusRunning, m.Status())
}

func TestStateMachine_Reset(t *testing.T) {
	m, _ := newRecordedMachine()
	m.BeginCheck()
	m.CompleteCheck(true)
	m.Pause()
	m.Reset()
	assert.Equal(t, StatusStopped, m.Status())
	assert.Equal(t, StatusStopped, m.LastObserved())
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "paused", StatusPaused.String())
	assert.Equal(t, "unknown", Status(42).String())
	assert.NotEqual(t, StatusRunning.Icon(), StatusStopped.Icon())
}

func TestSinks_FanOut(t *testing.T) {
	var a, b []transition
	s := Sinks{
		SinkFunc(func(f, to Status) { a = append(a, transition{f, to}) }),
		nil,
		SinkFunc(func(f, to Status) { b = append(b, transition{f, to}) }),
	}
	s.OnStatusChanged(StatusStopped, StatusChecking)
	assert.Len(t, a, 1)
	assert.Equal(t, a, b)
}
