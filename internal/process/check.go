package process

import (
	"context"

	"github.com/shirou/gopsutil/v3/process"
)

// Info is one entry of a live process listing.
type Info struct {
	PID  int32
	Name string
}

// Ref identifies the process a monitor is currently watching.
type Ref struct {
	PID  int32
	Name string
}

// Lister enumerates running processes. Implementations must be safe for
// concurrent use and return entries in the order the OS reports them.
type Lister interface {
	List(ctx context.Context) ([]Info, error)
}

// GopsutilLister lists processes through gopsutil.
type GopsutilLister struct{}

// List returns every process whose name could be read. Processes that vanish
// or deny access while being inspected are skipped.
func (GopsutilLister) List(ctx context.Context) ([]Info, error) {
	processes, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, classifyListErr(err)
	}
	out := make([]Info, 0, len(processes))
	for _, p := range processes {
		n, err := p.NameWithContext(ctx)
		if err != nil || n == "" {
			continue
		}
		out = append(out, Info{PID: p.Pid, Name: n})
	}
	return out, nil
}

// Matcher finds the first live process matching a target name.
type Matcher struct {
	Lister Lister
	// IgnoreCase folds case. The zero value matches case-sensitively.
	IgnoreCase bool
}

// NewMatcher returns a Matcher over l, falling back to gopsutil when l is nil.
func NewMatcher(l Lister, caseSensitive bool) Matcher {
	if l == nil {
		l = GopsutilLister{}
	}
	return Matcher{Lister: l, IgnoreCase: !caseSensitive}
}

// Find reports the first process matching name under mode. A missing process
// is not an error; only a failed listing is.
func (m Matcher) Find(ctx context.Context, name string, mode MatchMode) (Ref, bool, error) {
	l := m.Lister
	if l == nil {
		l = GopsutilLister{}
	}
	procs, err := l.List(ctx)
	if err != nil {
		return Ref{}, false, classifyListErr(err)
	}
	p, ok := Match(procs, name, mode, !m.IgnoreCase)
	if !ok {
		return Ref{}, false, nil
	}
	return Ref(p), true, nil
}
