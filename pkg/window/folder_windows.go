//go:build windows

package window

import (
	"errors"
	"fmt"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// shellFolderQuerier reads the folder of an Explorer window through the
// Shell.Application automation object.
type shellFolderQuerier struct{}

// NewFolderQuerier returns the Explorer automation querier.
func NewFolderQuerier() FolderQuerier {
	return shellFolderQuerier{}
}

// FolderFor enumerates Shell.Application.Windows() and returns
// Document.Folder.Self.Path of the one whose HWND equals h. COM is
// initialized on a locked OS thread for the duration of the call.
func (shellFolderQuerier) FolderFor(h Handle) (string, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		// S_FALSE: already initialized on this thread, still needs the
		// matching uninitialize.
		if !errors.As(err, &oleErr) || oleErr.Code() != 1 {
			return "", fmt.Errorf("CoInitializeEx: %w", err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("Shell.Application")
	if err != nil {
		return "", fmt.Errorf("create Shell.Application: %w", err)
	}
	defer unknown.Release()

	shell, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return "", fmt.Errorf("query IDispatch: %w", err)
	}
	defer shell.Release()

	windowsV, err := oleutil.CallMethod(shell, "Windows")
	if err != nil {
		return "", fmt.Errorf("Shell.Windows: %w", err)
	}
	windows := windowsV.ToIDispatch()
	defer windows.Release()

	countV, err := oleutil.GetProperty(windows, "Count")
	if err != nil {
		return "", fmt.Errorf("Windows.Count: %w", err)
	}
	count := int(countV.Val)

	for i := 0; i < count; i++ {
		path, ok := shellWindowPath(windows, i, h)
		if ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("no shell window with handle %#x", uintptr(h))
}

// shellWindowPath returns the folder of window i if its HWND is h. Windows
// that are not folder views (e.g. Internet Explorer) fail somewhere along
// the property chain and are skipped.
func shellWindowPath(windows *ole.IDispatch, i int, h Handle) (string, bool) {
	itemV, err := oleutil.CallMethod(windows, "Item", i)
	if err != nil {
		return "", false
	}
	item := itemV.ToIDispatch()
	if item == nil {
		return "", false
	}
	defer item.Release()

	hwndV, err := oleutil.GetProperty(item, "HWND")
	if err != nil || Handle(hwndV.Val) != h {
		return "", false
	}

	cur := item
	for _, prop := range []string{"Document", "Folder", "Self"} {
		v, err := oleutil.GetProperty(cur, prop)
		if err != nil {
			return "", false
		}
		next := v.ToIDispatch()
		if next == nil {
			return "", false
		}
		defer next.Release()
		cur = next
	}

	pathV, err := oleutil.GetProperty(cur, "Path")
	if err != nil {
		return "", false
	}
	return pathV.ToString(), true
}
