// Package geometry provides basic geometric types used throughout the application.
package geometry

import "image"

// PointInt represents a 2D point with integer coordinates.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Less orders points top-to-bottom, then left-to-right.
func (p PointInt) Less(other PointInt) bool {
	if p.Y != other.Y {
		return p.Y < other.Y
	}
	return p.X < other.X
}

// RectInt represents a rectangle with integer coordinates.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRectFromCorners builds a RectInt from two opposite corners in any order.
func NewRectFromCorners(x1, y1, x2, y2 int) RectInt {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return RectInt{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Empty reports whether the rectangle has no area.
func (r RectInt) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Image converts to an image.Rectangle.
func (r RectInt) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Offset returns the rectangle translated by dx, dy.
func (r RectInt) Offset(dx, dy int) RectInt {
	return RectInt{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Quad is a four-corner text box in the order top-left, top-right,
// bottom-right, bottom-left.
type Quad [4]PointInt

// QuadFromRect returns the axis-aligned quad covering r.
func QuadFromRect(r image.Rectangle) Quad {
	return Quad{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
	}
}

// First returns the quad's first corner, used as its reading-order anchor.
func (q Quad) First() PointInt {
	return q[0]
}
