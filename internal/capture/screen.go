// Package capture produces image files from the screen, the clipboard or
// the file system.
package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"screen-translator/pkg/geometry"
)

// Screen grabs pixels from the display.
type Screen interface {
	// Bounds returns the primary display's bounds in screen coordinates.
	Bounds() (geometry.RectInt, error)
	// Capture grabs the given rectangle in screen coordinates.
	Capture(r geometry.RectInt) (image.Image, error)
}

// Display captures the real screen.
type Display struct {
	// Index selects the display; 0 is the primary one.
	Index int
}

// Bounds implements Screen.
func (d Display) Bounds() (geometry.RectInt, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return geometry.RectInt{}, fmt.Errorf("no active displays")
	}
	if d.Index < 0 || d.Index >= n {
		return geometry.RectInt{}, fmt.Errorf("display %d out of range (have %d)", d.Index, n)
	}
	b := screenshot.GetDisplayBounds(d.Index)
	return geometry.RectInt{X: b.Min.X, Y: b.Min.Y, Width: b.Dx(), Height: b.Dy()}, nil
}

// Capture implements Screen.
func (d Display) Capture(r geometry.RectInt) (image.Image, error) {
	if r.Empty() {
		return nil, fmt.Errorf("empty capture region")
	}
	img, err := screenshot.CaptureRect(r.Image())
	if err != nil {
		return nil, fmt.Errorf("screen capture failed: %w", err)
	}
	return img, nil
}
