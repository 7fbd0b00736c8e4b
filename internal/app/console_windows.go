//go:build windows

package app

import (
	"io"
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// ansiEnabled is set once the output console accepts VT sequences.
var ansiEnabled bool

var procSetConsoleCursorInfo = syscall.NewLazyDLL("kernel32.dll").NewProc("SetConsoleCursorInfo")

type consoleCursorInfo struct {
	Size    uint32
	Visible int32
}

// consoleHandle returns the console behind w. Writers that are not files
// fall back to stdout, which is where the console host draws.
func consoleHandle(w io.Writer) (windows.Handle, bool) {
	if f, ok := w.(*os.File); ok {
		return windows.Handle(f.Fd()), true
	}
	h, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return 0, false
	}
	return h, true
}

// enableANSI turns on VT processing for w's console. Redirected output has
// no console mode and keeps plain text.
func enableANSI(w io.Writer) {
	if ansiEnabled {
		return
	}
	h, ok := consoleHandle(w)
	if !ok {
		return
	}
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING == 0 {
		if err := windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING); err != nil {
			return
		}
	}
	ansiEnabled = true
}

func clearConsole(w io.Writer) {
	if ansiEnabled {
		_, _ = io.WriteString(w, "\x1b[H")
		return
	}
	if h, ok := consoleHandle(w); ok {
		_ = windows.SetConsoleCursorPosition(h, windows.Coord{X: 0, Y: 0})
	}
}

func hideCursor(w io.Writer) {
	enableANSI(w)
	if ansiEnabled {
		_, _ = io.WriteString(w, "\x1b[?25l")
		return
	}
	h, ok := consoleHandle(w)
	if !ok {
		return
	}
	info := consoleCursorInfo{Size: 1}
	_, _, _ = procSetConsoleCursorInfo.Call(uintptr(h), uintptr(unsafe.Pointer(&info)))
}
