//go:build !windows

package app

import "io"

var ansiEnabled = true

func enableANSI(io.Writer) {}

func clearConsole(w io.Writer) {
	_, _ = io.WriteString(w, "\x1b[H")
}

func hideCursor(w io.Writer) {
	_, _ = io.WriteString(w, "\x1b[?25l")
}

func isProcessHung(pid int32) bool { return false }
