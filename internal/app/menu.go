package app

import (
	"time"

	"goTrayWatch/internal/monitor"
)

// MenuState is what a tray menu shows for one snapshot.
type MenuState struct {
	Tooltip          string
	Status           string
	PauseLabel       string
	PauseEnabled     bool
	TerminateEnabled bool
}

// Menu derives the tray menu state from a snapshot.
func Menu(snap monitor.Snapshot, version string) MenuState {
	d := BuildDisplay(version, snap, Details{}, time.Now())
	m := MenuState{
		Tooltip:          Tooltip(d),
		Status:           d.Item.Icon + "  " + d.Item.Process,
		PauseLabel:       "Pause",
		PauseEnabled:     snap.Config != nil,
		TerminateEnabled: snap.Config != nil && snap.Status != monitor.StatusPaused,
	}
	if snap.Status == monitor.StatusPaused {
		m.PauseLabel = "Resume"
	}
	// Manual-only monitoring has no timer to pause.
	if snap.Config != nil && snap.Config.ManualOnly {
		m.PauseEnabled = false
	}
	return m
}
