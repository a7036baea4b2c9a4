// Package capture saves a screenshot of a window region next to the
// directory a trigger resolved to, so the launched tool can be pointed at it.
package capture

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/kbinani/screenshot"
)

// DefaultPrefix names captured files: <prefix><YYYYMMDD_HHMMSS>.png.
const DefaultPrefix = "gemini_screenshot_"

// timestampLayout has second resolution.
const timestampLayout = "20060102_150405"

// ErrEmptyRegion is returned by grabbers asked for a zero-size rectangle.
var ErrEmptyRegion = errors.New("empty capture region")

// Artifact is an image file produced for one trigger.
type Artifact struct {
	Path      string    `yaml:"path" json:"path"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
}

// Name returns the artifact's base filename.
func (a Artifact) Name() string {
	return filepath.Base(a.Path)
}

// ClipboardHint is the text placed on the clipboard so the artifact can be
// referenced from the tool's prompt.
func (a Artifact) ClipboardHint() string {
	return "@" + a.Name()
}

// Grabber captures a screen region.
type Grabber interface {
	Grab(r image.Rectangle) (image.Image, error)
}

// GrabberFunc adapts a function to Grabber.
type GrabberFunc func(r image.Rectangle) (image.Image, error)

func (f GrabberFunc) Grab(r image.Rectangle) (image.Image, error) { return f(r) }

// ScreenGrabber reads pixels from the display.
type ScreenGrabber struct{}

func (ScreenGrabber) Grab(r image.Rectangle) (image.Image, error) {
	if r.Empty() {
		return nil, ErrEmptyRegion
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, fmt.Errorf("capture %v: %w", r, err)
	}
	return img, nil
}

// Options configures a Capturer.
type Options struct {
	// Prefix defaults to DefaultPrefix.
	Prefix string
	// MaxWidth downscales wider captures; 0 keeps the native size.
	MaxWidth int
	Grabber  Grabber
	Now      func() time.Time
	Logger   *slog.Logger
}

// Capturer writes window screenshots to disk.
type Capturer struct {
	prefix   string
	maxWidth int
	grabber  Grabber
	now      func() time.Time
	logger   *slog.Logger
}

// New creates a Capturer. Zero options select the display grabber and the
// default prefix.
func New(opts Options) *Capturer {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.Grabber == nil {
		opts.Grabber = ScreenGrabber{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Capturer{
		prefix:   opts.Prefix,
		maxWidth: opts.MaxWidth,
		grabber:  opts.Grabber,
		now:      opts.Now,
		logger:   opts.Logger,
	}
}

// FileName returns the artifact name for a capture taken at t.
func (c *Capturer) FileName(t time.Time) string {
	return c.prefix + t.Format(timestampLayout) + ".png"
}

// Capture grabs bounds and saves it under dir. Any failure is logged and
// reported as no artifact; it is never an error for the caller.
func (c *Capturer) Capture(bounds image.Rectangle, dir string) (*Artifact, bool) {
	if bounds.Empty() {
		c.logger.Debug("capture skipped: empty window bounds")
		return nil, false
	}
	if dir == "" {
		c.logger.Debug("capture skipped: no target directory")
		return nil, false
	}

	at := c.now()
	img, err := c.grab(bounds)
	if err != nil {
		c.logger.Warn("screen capture failed", "bounds", bounds.String(), "error", err)
		return nil, false
	}
	img = FitWidth(img, c.maxWidth)

	want := filepath.Join(dir, c.FileName(at))
	path, err := writePNG(want, img)
	if err != nil {
		c.logger.Warn("saving capture failed", "path", want, "error", err)
		return nil, false
	}
	if path != want {
		c.logger.Debug("capture name taken, saved under a suffix", "wanted", want)
	}

	c.logger.Info("capture saved", "path", path)
	return &Artifact{Path: path, CreatedAt: at}, true
}

func (c *Capturer) grab(bounds image.Rectangle) (img image.Image, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("grabber panicked: %v", rec)
		}
	}()
	img, err = c.grabber.Grab(bounds)
	if err == nil && img == nil {
		err = errors.New("grabber returned no image")
	}
	return img, err
}

// maxNameAttempts bounds the numbered names tried when captures land in the
// same second.
const maxNameAttempts = 100

// writePNG encodes img to a temporary file in the target directory and
// places it at path, or at path with a _2, _3, ... suffix when that name is
// taken. An existing artifact is never replaced and a partially written one
// is never visible. It returns the path actually written.
func writePNG(path string, img image.Image) (string, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+strings.TrimSuffix(filepath.Base(path), ".png")+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := imaging.Encode(tmp, img, imaging.PNG); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp: %w", err)
	}

	for n := 1; n <= maxNameAttempts; n++ {
		name := numberedName(path, n)
		placed, err := placeNew(tmpName, name)
		if err != nil {
			return "", err
		}
		if placed {
			return name, nil
		}
	}
	return "", fmt.Errorf("%s: %d names already taken", filepath.Base(path), maxNameAttempts)
}

// numberedName returns path for n == 1 and inserts _n before the extension
// otherwise.
func numberedName(path string, n int) string {
	if n <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(path, ext), n, ext)
}

// placeNew moves tmp to name unless name exists. A hard link fails atomically
// on an existing name; filesystems without links fall back to a stat check.
func placeNew(tmp, name string) (bool, error) {
	err := os.Link(tmp, name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrExist):
		return false, nil
	}
	if _, err := os.Lstat(name); err == nil {
		return false, nil
	}
	if err := os.Rename(tmp, name); err != nil {
		return false, fmt.Errorf("rename: %w", err)
	}
	return true, nil
}
