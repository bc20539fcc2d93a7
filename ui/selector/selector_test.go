package selector

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"screen-translator/pkg/geometry"
)

func TestToScreenScalesAndNormalizes(t *testing.T) {
	bounds := geometry.RectInt{X: 0, Y: 0, Width: 1920, Height: 1080}
	view := fyne.NewSize(960, 540)

	r := ToScreen(fyne.NewPos(200, 150), fyne.NewPos(100, 50), view, bounds)

	assert.Equal(t, geometry.RectInt{X: 200, Y: 100, Width: 200, Height: 200}, r)
}

func TestToScreenClipsAndOffsets(t *testing.T) {
	bounds := geometry.RectInt{X: 1920, Y: 0, Width: 800, Height: 600}
	view := fyne.NewSize(800, 600)

	r := ToScreen(fyne.NewPos(-20, 500), fyne.NewPos(100, 900), view, bounds)

	assert.Equal(t, geometry.RectInt{X: 1920, Y: 500, Width: 100, Height: 100}, r)
}

type result struct {
	r     geometry.RectInt
	ok    bool
	calls int
}

func newTestSelector(t *testing.T) (*Selector, *result) {
	t.Helper()
	test.NewTempApp(t)
	res := &result{}
	s := New(image.NewRGBA(image.Rect(0, 0, 400, 300)),
		geometry.RectInt{Width: 400, Height: 300},
		func(r geometry.RectInt, ok bool) {
			res.r, res.ok = r, ok
			res.calls++
		})
	s.Resize(fyne.NewSize(400, 300))
	return s, res
}

func drag(s *Selector, from, to fyne.Position) {
	s.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: to},
		Dragged:    fyne.NewDelta(to.X-from.X, to.Y-from.Y),
	})
	s.DragEnd()
}

func TestDragSelectsRegion(t *testing.T) {
	s, res := newTestSelector(t)

	drag(s, fyne.NewPos(10, 20), fyne.NewPos(110, 80))

	assert.Equal(t, 1, res.calls)
	assert.True(t, res.ok)
	assert.Equal(t, geometry.RectInt{X: 10, Y: 20, Width: 100, Height: 60}, res.r)
}

func TestSmallDragCancels(t *testing.T) {
	s, res := newTestSelector(t)

	drag(s, fyne.NewPos(10, 20), fyne.NewPos(20, 200))

	assert.Equal(t, 1, res.calls)
	assert.False(t, res.ok)
}

func TestCancelIsReportedOnce(t *testing.T) {
	s, res := newTestSelector(t)

	s.Cancel()
	s.Cancel()
	drag(s, fyne.NewPos(0, 0), fyne.NewPos(200, 200))

	assert.Equal(t, 1, res.calls)
	assert.False(t, res.ok)
}
