//go:build !windows && !linux

package window

import "image"

type unsupportedLocator struct{}

// NewLocator returns a Locator that always fails. Inspect then yields an
// empty Context and resolution falls through to the default directory.
func NewLocator() Locator {
	return unsupportedLocator{}
}

func (unsupportedLocator) WindowAt(x, y int) (Handle, error)       { return 0, ErrUnsupported }
func (unsupportedLocator) Parent(h Handle) (Handle, error)         { return 0, ErrUnsupported }
func (unsupportedLocator) PID(h Handle) (int32, error)             { return 0, ErrUnsupported }
func (unsupportedLocator) Title(h Handle) (string, error)          { return "", ErrUnsupported }
func (unsupportedLocator) Class(h Handle) (string, error)          { return "", ErrUnsupported }
func (unsupportedLocator) Bounds(h Handle) (image.Rectangle, error) { return image.Rectangle{}, ErrUnsupported }
