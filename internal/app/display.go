package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"goTrayWatch/internal/monitor"
	"goTrayWatch/internal/process"
)

// DisplayStatus is a stable, UI-friendly view of the watched process.
type DisplayStatus struct {
	Process   string `json:"process"`
	Match     string `json:"match"`
	Poll      string `json:"poll"`
	Status    string `json:"status"`
	Icon      string `json:"icon"`
	Last      string `json:"last_observed"`
	Pid       string `json:"pid"`
	StartedAt string `json:"started_at"`
	Uptime    string `json:"uptime"`
	Hung      bool   `json:"hung"`
	Cpu       string `json:"cpu"`
	MemMB     string `json:"mem_mb"`
}

// DisplaySnapshot is a UI-friendly snapshot of the monitor.
type DisplaySnapshot struct {
	Updated string        `json:"updated"`
	Version string        `json:"version"`
	Item    DisplayStatus `json:"item"`
}

// Details are per-PID readings shown next to the monitor status.
type Details struct {
	Usage     process.Usage
	StartedAt time.Time
	Hung      bool
}

// detailer reads Details for the watched process. The start time is cached
// for one Ref and dropped whenever the watched Ref changes or goes away.
type detailer struct {
	ref       process.Ref
	startedAt time.Time
}

func newDetailer() *detailer {
	return &detailer{}
}

func (d *detailer) read(ctx context.Context, ref *process.Ref) Details {
	if ref == nil || ref.PID <= 0 {
		d.forget()
		return Details{}
	}
	if *ref != d.ref {
		d.forget()
		d.ref = *ref
	}
	var out Details
	if u, err := process.ReadUsage(ctx, ref.PID); err == nil {
		out.Usage = u
	}
	if d.startedAt.IsZero() {
		if t, ok := process.StartTime(ctx, ref.PID); ok {
			d.startedAt = t
		}
	}
	out.StartedAt = d.startedAt
	out.Hung = isProcessHung(ref.PID)
	return out
}

func (d *detailer) forget() {
	if d.ref.PID > 0 {
		process.ForgetUsage(d.ref.PID)
	}
	d.ref = process.Ref{}
	d.startedAt = time.Time{}
}

// BuildDisplay converts a monitor snapshot and PID details for presentation.
func BuildDisplay(version string, snap monitor.Snapshot, det Details, now time.Time) DisplaySnapshot {
	item := DisplayStatus{
		Status:    snap.Status.String(),
		Icon:      snap.Status.Icon(),
		Last:      snap.LastObserved.String(),
		Pid:       "-",
		StartedAt: "-",
		Uptime:    "-",
		Cpu:       "-",
		MemMB:     "-",
	}
	if snap.Config != nil {
		item.Process = snap.Config.ProcessName
		item.Match = snap.Config.MatchMode.String()
		if snap.Config.IgnoreCase {
			item.Match += "/i"
		}
		if snap.Config.ManualOnly {
			item.Poll = "manual"
		} else {
			item.Poll = snap.Config.PollInterval.String()
		}
	}
	if snap.Watched != nil {
		item.Pid = fmt.Sprintf("%d", snap.Watched.PID)
		if snap.Watched.Name != "" && !strings.EqualFold(snap.Watched.Name, item.Process) {
			item.Process += " (" + snap.Watched.Name + ")"
		}
		item.Cpu = formatPercent(det.Usage.CPUPercent)
		item.MemMB = formatMemMB(det.Usage.MemoryMB)
		item.Hung = det.Hung
		if !det.StartedAt.IsZero() {
			item.StartedAt = det.StartedAt.Format("2006-01-02 15:04:05")
			item.Uptime = formatUptime(now.Sub(det.StartedAt))
		}
	}
	return DisplaySnapshot{
		Updated: now.Format("2006-01-02 15:04:05"),
		Version: version,
		Item:    item,
	}
}

// Tooltip is a one-line summary for a tray icon.
func Tooltip(d DisplaySnapshot) string {
	it := d.Item
	if it.Process == "" {
		return "not configured"
	}
	s := fmt.Sprintf("%s: %s", it.Process, it.Status)
	if it.Pid != "-" {
		s += fmt.Sprintf(" (pid %s, cpu %s%%, %s MB)", it.Pid, it.Cpu, it.MemMB)
	}
	if it.Hung {
		s += " [not responding]"
	}
	return s
}

func formatPercent(v float64) string {
	if v <= 0 {
		return "0"
	}
	if v >= 999 {
		return "999"
	}
	return fmt.Sprintf("%.0f", v)
}

func formatMemMB(v int) string {
	if v <= 0 {
		return "0"
	}
	return fmt.Sprintf("%d", v)
}

func formatUptime(d time.Duration) string {
	if d < 0 {
		return "-"
	}
	d = d.Truncate(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
