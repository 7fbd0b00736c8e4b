package process

import (
	"context"

	ps "github.com/mitchellh/go-ps"
)

// PsLister lists processes through go-ps. It reads only the executable name,
// which makes it cheaper than gopsutil on hosts with many processes.
type PsLister struct{}

func (PsLister) List(ctx context.Context) ([]Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	procs, err := ps.Processes()
	if err != nil {
		return nil, classifyListErr(err)
	}
	out := make([]Info, 0, len(procs))
	for _, p := range procs {
		n := p.Executable()
		if n == "" {
			continue
		}
		out = append(out, Info{PID: int32(p.Pid()), Name: n})
	}
	return out, nil
}

// Backend names accepted by NewLister.
const (
	BackendGopsutil = "gopsutil"
	BackendPs       = "ps"
)

// NewLister returns the Lister for a backend name. Empty selects gopsutil.
func NewLister(backend string) (Lister, error) {
	switch backend {
	case "", BackendGopsutil:
		return GopsutilLister{}, nil
	case BackendPs:
		return PsLister{}, nil
	default:
		return nil, errUnknownBackend(backend)
	}
}
