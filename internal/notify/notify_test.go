package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mattn/go-gntp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goTrayWatch/internal/monitor"
)

type fakeClient struct {
	mu          sync.Mutex
	registerErr error
	registers   int
	sent        []*gntp.Message
}

func (f *fakeClient) Register(events []gntp.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registers++
	return f.registerErr
}

func (f *fakeClient) Notify(m *gntp.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeClient) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		out = append(out, m.Event)
	}
	return out
}

func run(t *testing.T, n *Notifier) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestNotifier_StartedAndStopped(t *testing.T) {
	fc := &fakeClient{}
	n := NewWithClient(fc, Options{OnStart: true, OnStop: true}, nil, func() string { return "notepad" })
	run(t, n)

	n.Started()
	n.OnStatusChanged(monitor.StatusStopped, monitor.StatusChecking)
	n.OnStatusChanged(monitor.StatusChecking, monitor.StatusRunning)
	n.OnStatusChanged(monitor.StatusRunning, monitor.StatusChecking)
	n.OnStatusChanged(monitor.StatusChecking, monitor.StatusStopped)
	n.OnStatusChanged(monitor.StatusStopped, monitor.StatusChecking)
	n.OnStatusChanged(monitor.StatusChecking, monitor.StatusStopped)

	require.Eventually(t, func() bool { return len(fc.events()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{EventStarted, EventProcessStopped}, fc.events())
	assert.Contains(t, fc.sent[0].Text, "notepad")
	assert.Equal(t, 1, fc.registers)
}

func TestNotifier_PauseIsNotAStop(t *testing.T) {
	fc := &fakeClient{}
	n := NewWithClient(fc, Options{OnStop: true}, nil, nil)
	run(t, n)

	n.OnStatusChanged(monitor.StatusChecking, monitor.StatusRunning)
	n.OnStatusChanged(monitor.StatusRunning, monitor.StatusPaused)
	n.OnStatusChanged(monitor.StatusPaused, monitor.StatusRunning)
	n.TerminationFailed(errors.New("access denied"))

	require.Eventually(t, func() bool { return len(fc.events()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{EventTerminationFailed}, fc.events())
	assert.True(t, fc.sent[0].Sticky)
}

func TestNotifier_DisabledNotices(t *testing.T) {
	fc := &fakeClient{}
	n := NewWithClient(fc, Options{}, nil, nil)
	run(t, n)

	n.Started()
	n.OnStatusChanged(monitor.StatusChecking, monitor.StatusRunning)
	n.OnStatusChanged(monitor.StatusChecking, monitor.StatusStopped)
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, fc.events())
}

func TestNotifier_RetriesRegistration(t *testing.T) {
	fc := &fakeClient{registerErr: errors.New("no growl")}
	n := NewWithClient(fc, Options{OnStart: true}, nil, nil)
	run(t, n)

	n.Started()
	require.Eventually(t, func() bool {
		fc.mu.Lock()
		defer fc.mu.Unlock()
		return fc.registers == 1
	}, time.Second, 5*time.Millisecond)

	fc.mu.Lock()
	fc.registerErr = nil
	fc.mu.Unlock()
	n.Started()
	require.Eventually(t, func() bool { return len(fc.events()) == 1 }, time.Second, 5*time.Millisecond)
}
