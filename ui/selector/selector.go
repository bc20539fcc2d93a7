// Package selector provides the fullscreen drag-to-select overlay used to
// pick a screen region.
package selector

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"screen-translator/internal/capture"
	"screen-translator/pkg/geometry"
)

const hintText = "Drag to select an area · Esc to cancel"

// DoneFunc receives the selected region in screen coordinates, or ok=false
// when the selection was cancelled or too small.
type DoneFunc func(r geometry.RectInt, ok bool)

// Selector shows a frozen screenshot and lets the user drag a rectangle
// over it.
type Selector struct {
	widget.BaseWidget

	bounds   geometry.RectInt
	backdrop *canvas.Image
	shade    *canvas.Rectangle
	frame    *canvas.Rectangle
	hint     *canvas.Text

	dragging   bool
	start, end fyne.Position
	finished   bool
	onDone     DoneFunc
}

// New creates a selector over shot, which covers bounds on screen.
func New(shot image.Image, bounds geometry.RectInt, onDone DoneFunc) *Selector {
	s := &Selector{
		bounds:   bounds,
		backdrop: canvas.NewImageFromImage(shot),
		shade:    canvas.NewRectangle(color.NRGBA{A: 0x50}),
		frame:    canvas.NewRectangle(color.NRGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0x30}),
		hint:     canvas.NewText(hintText, color.White),
		onDone:   onDone,
	}
	s.backdrop.FillMode = canvas.ImageFillStretch
	s.frame.StrokeColor = color.NRGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF}
	s.frame.StrokeWidth = 2
	s.frame.Hide()
	s.hint.TextSize = 18
	s.ExtendBaseWidget(s)
	return s
}

func (s *Selector) CreateRenderer() fyne.WidgetRenderer {
	return &selectorRenderer{s: s}
}

// Dragged implements fyne.Draggable.
func (s *Selector) Dragged(ev *fyne.DragEvent) {
	if s.finished {
		return
	}
	if !s.dragging {
		s.dragging = true
		s.start = fyne.NewPos(ev.Position.X-ev.Dragged.DX, ev.Position.Y-ev.Dragged.DY)
	}
	s.end = ev.Position

	x1, y1 := min(s.start.X, s.end.X), min(s.start.Y, s.end.Y)
	x2, y2 := max(s.start.X, s.end.X), max(s.start.Y, s.end.Y)
	s.frame.Move(fyne.NewPos(x1, y1))
	s.frame.Resize(fyne.NewSize(x2-x1, y2-y1))
	s.frame.Show()
	s.frame.Refresh()
}

// DragEnd implements fyne.Draggable.
func (s *Selector) DragEnd() {
	if s.finished || !s.dragging {
		return
	}
	s.dragging = false
	s.frame.Hide()

	r := ToScreen(s.start, s.end, s.Size(), s.bounds)
	if r.Width <= capture.MinRegionSize || r.Height <= capture.MinRegionSize {
		s.finish(geometry.RectInt{}, false)
		return
	}
	s.finish(r, true)
}

// Cancel ends the selection without a region.
func (s *Selector) Cancel() {
	s.finish(geometry.RectInt{}, false)
}

func (s *Selector) finish(r geometry.RectInt, ok bool) {
	if s.finished {
		return
	}
	s.finished = true
	if s.onDone != nil {
		s.onDone(r, ok)
	}
}

// ToScreen maps a drag from a to b inside a view of the given size onto
// screen coordinates within bounds. The result is clipped to bounds.
func ToScreen(a, b fyne.Position, view fyne.Size, bounds geometry.RectInt) geometry.RectInt {
	sx, sy := float32(1), float32(1)
	if view.Width > 0 {
		sx = float32(bounds.Width) / view.Width
	}
	if view.Height > 0 {
		sy = float32(bounds.Height) / view.Height
	}
	px := func(v, scale float32, limit int) int {
		n := int(math.Round(float64(v * scale)))
		return max(0, min(n, limit))
	}
	r := geometry.NewRectFromCorners(
		px(a.X, sx, bounds.Width), px(a.Y, sy, bounds.Height),
		px(b.X, sx, bounds.Width), px(b.Y, sy, bounds.Height),
	)
	return r.Offset(bounds.X, bounds.Y)
}

type selectorRenderer struct {
	s *Selector
}

func (r *selectorRenderer) Layout(size fyne.Size) {
	r.s.backdrop.Resize(size)
	r.s.shade.Resize(size)
	hs := r.s.hint.MinSize()
	r.s.hint.Move(fyne.NewPos((size.Width-hs.Width)/2, 24))
}

func (r *selectorRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *selectorRenderer) Refresh() {
	r.s.backdrop.Refresh()
	r.s.frame.Refresh()
}

func (r *selectorRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.s.backdrop, r.s.shade, r.s.frame, r.s.hint}
}

func (r *selectorRenderer) Destroy() {}

// Show opens a fullscreen window hosting a Selector. onDone runs once,
// after the window has closed.
func Show(a fyne.App, shot image.Image, bounds geometry.RectInt, onDone DoneFunc) fyne.Window {
	win := a.NewWindow("Select area")
	win.SetPadded(false)

	var sel *Selector
	sel = New(shot, bounds, func(r geometry.RectInt, ok bool) {
		win.Close()
		if onDone != nil {
			onDone(r, ok)
		}
	})

	win.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			sel.Cancel()
		}
	})
	win.SetCloseIntercept(func() {
		sel.Cancel()
	})
	win.SetContent(sel)
	win.SetFullScreen(true)
	win.Show()
	return win
}
