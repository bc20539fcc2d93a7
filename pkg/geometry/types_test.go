package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRectFromCornersNormalizes(t *testing.T) {
	r := NewRectFromCorners(50, 40, 10, 20)
	assert.Equal(t, RectInt{X: 10, Y: 20, Width: 40, Height: 20}, r)
	assert.False(t, r.Empty())
	assert.True(t, NewRectFromCorners(5, 5, 5, 30).Empty())
}

func TestQuadFromRect(t *testing.T) {
	q := QuadFromRect(image.Rect(3, 4, 13, 9))
	assert.Equal(t, PointInt{X: 3, Y: 4}, q.First())
	assert.Equal(t, PointInt{X: 13, Y: 9}, q[2])
}

func TestPointLessReadingOrder(t *testing.T) {
	assert.True(t, PointInt{X: 90, Y: 1}.Less(PointInt{X: 0, Y: 2}))
	assert.True(t, PointInt{X: 1, Y: 5}.Less(PointInt{X: 2, Y: 5}))
	assert.False(t, PointInt{X: 2, Y: 5}.Less(PointInt{X: 2, Y: 5}))
}

func TestRectImageAndOffset(t *testing.T) {
	r := RectInt{X: 1, Y: 2, Width: 3, Height: 4}
	assert.Equal(t, image.Rect(1, 2, 4, 6), r.Image())
	assert.Equal(t, RectInt{X: 11, Y: 0, Width: 3, Height: 4}, r.Offset(10, -2))
}
