//go:build windows

package app

import (
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                       = syscall.NewLazyDLL("user32.dll")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procIsHungAppWindow          = user32.NewProc("IsHungAppWindow")

	enumMu           sync.Mutex
	hungPID          int32
	enumHungCallback = syscall.NewCallback(enumHungProc)
)

// isProcessHung reports whether a visible top-level window of pid has
// stopped pumping messages.
func isProcessHung(pid int32) bool {
	if pid <= 0 {
		return false
	}
	enumMu.Lock()
	hungPID = pid
	r, _, _ := procEnumWindows.Call(enumHungCallback, 0)
	hungPID = 0
	enumMu.Unlock()
	return r == 0
}

func enumHungProc(hwnd uintptr, lparam uintptr) uintptr {
	if !windows.IsWindowVisible(windows.HWND(hwnd)) {
		return 1
	}
	var wpid uint32
	_, _, _ = procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&wpid)))
	if int32(wpid) != hungPID {
		return 1
	}
	r, _, _ := procIsHungAppWindow.Call(hwnd)
	if r != 0 {
		return 0
	}
	return 1
}
