package main

import (
	_ "embed"

	"goTrayWatch/internal/monitor"
)

var (
	//go:embed icons/running.png
	pngRunning []byte
	//go:embed icons/stopped.png
	pngStopped []byte
	//go:embed icons/checking.png
	pngChecking []byte
	//go:embed icons/paused.png
	pngPaused []byte

	//go:embed icons/running.ico
	icoRunning []byte
	//go:embed icons/stopped.ico
	icoStopped []byte
	//go:embed icons/checking.ico
	icoChecking []byte
	//go:embed icons/paused.ico
	icoPaused []byte
)

// iconFor returns the tray image for s. Windows needs ICO data; the other
// platforms take PNG.
func iconFor(s monitor.Status, windows bool) []byte {
	switch s {
	case monitor.StatusRunning:
		return pick(windows, icoRunning, pngRunning)
	case monitor.StatusChecking:
		return pick(windows, icoChecking, pngChecking)
	case monitor.StatusPaused:
		return pick(windows, icoPaused, pngPaused)
	default:
		return pick(windows, icoStopped, pngStopped)
	}
}

func pick(windows bool, ico, png []byte) []byte {
	if windows {
		return ico
	}
	return png
}
