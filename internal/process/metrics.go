package process

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Usage is a point-in-time resource reading for one PID.
type Usage struct {
	CPUPercent float64
	MemoryMB   int
}

// ReadUsage returns the CPU percentage since the previous reading of the same
// PID and the resident set size. The first reading of a PID reports 0% CPU.
func ReadUsage(ctx context.Context, pid int32) (Usage, error) {
	if pid <= 0 {
		return Usage{}, nil
	}
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return Usage{}, err
	}
	var u Usage
	if times, err := p.TimesWithContext(ctx); err == nil {
		u.CPUPercent = cpuPercentFromSample(pid, time.Now(), times.User+times.System)
	}
	if mem, err := p.MemoryInfoWithContext(ctx); err == nil {
		u.MemoryMB = int(mem.RSS / (1024 * 1024))
	}
	return u, nil
}

type cpuSample struct {
	at    time.Time
	total float64
}

var (
	cpuMu      sync.Mutex
	cpuSamples = map[int32]cpuSample{}
)

// ForgetUsage drops the CPU baseline kept for pid.
func ForgetUsage(pid int32) {
	cpuMu.Lock()
	delete(cpuSamples, pid)
	cpuMu.Unlock()
}

func cpuPercentFromSample(pid int32, now time.Time, total float64) float64 {
	cpuMu.Lock()
	defer cpuMu.Unlock()

	prev, ok := cpuSamples[pid]
	cpuSamples[pid] = cpuSample{at: now, total: total}
	if !ok {
		return 0
	}
	dt := now.Sub(prev.at).Seconds()
	if dt <= 0 {
		return 0
	}
	dproc := total - prev.total
	if dproc <= 0 {
		return 0
	}
	cores := float64(runtime.NumCPU())
	if cores <= 0 {
		cores = 1
	}
	return (dproc / dt) / cores * 100.0
}

// StartTime returns the creation time of pid.
func StartTime(ctx context.Context, pid int32) (time.Time, bool) {
	if pid <= 0 {
		return time.Time{}, false
	}
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return time.Time{}, false
	}
	ms, err := p.CreateTimeWithContext(ctx)
	if err != nil || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
