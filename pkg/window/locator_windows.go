//go:build windows

package window

import (
	"fmt"
	"image"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procWindowFromPoint          = user32.NewProc("WindowFromPoint")
	procGetParent                = user32.NewProc("GetParent")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW     = user32.NewProc("GetWindowTextLengthW")
	procGetClassNameW            = user32.NewProc("GetClassNameW")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
)

type rect struct {
	Left, Top, Right, Bottom int32
}

// win32Locator queries windows through user32.dll.
type win32Locator struct{}

// NewLocator returns the Win32 Locator.
func NewLocator() Locator {
	return win32Locator{}
}

func (win32Locator) WindowAt(x, y int) (Handle, error) {
	if err := procWindowFromPoint.Find(); err != nil {
		return 0, err
	}
	// POINT is passed by value; on 64-bit it packs into one register.
	pt := uintptr(uint32(int32(x))) | uintptr(uint32(int32(y)))<<32
	h, _, _ := procWindowFromPoint.Call(pt)
	if h == 0 {
		return 0, ErrNoWindow
	}
	return Handle(h), nil
}

func (win32Locator) Parent(h Handle) (Handle, error) {
	p, _, _ := procGetParent.Call(uintptr(h))
	return Handle(p), nil
}

func (win32Locator) PID(h Handle) (int32, error) {
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(windows.HWND(h), &pid); err != nil {
		return 0, fmt.Errorf("GetWindowThreadProcessId: %w", err)
	}
	return int32(pid), nil
}

func (win32Locator) Title(h Handle) (string, error) {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(h))
	if n == 0 {
		return "", nil
	}
	buf := make([]uint16, n+1)
	r, _, err := procGetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r == 0 {
		return "", fmt.Errorf("GetWindowTextW: %w", err)
	}
	return windows.UTF16ToString(buf[:r]), nil
}

func (win32Locator) Class(h Handle) (string, error) {
	buf := make([]uint16, 256)
	r, _, err := procGetClassNameW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r == 0 {
		return "", fmt.Errorf("GetClassNameW: %w", err)
	}
	return windows.UTF16ToString(buf[:r]), nil
}

func (win32Locator) Bounds(h Handle) (image.Rectangle, error) {
	var rc rect
	r, _, err := procGetWindowRect.Call(uintptr(h), uintptr(unsafe.Pointer(&rc)))
	if r == 0 {
		return image.Rectangle{}, fmt.Errorf("GetWindowRect: %w", err)
	}
	return image.Rect(int(rc.Left), int(rc.Top), int(rc.Right), int(rc.Bottom)), nil
}
