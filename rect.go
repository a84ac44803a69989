package relrect

import "math"

// Rect is an integer rectangle, the form consumed and produced by geometry
// owners.
type Rect struct {
	X, Y          int
	Width, Height int
}

// NewRect creates a new Rect with the given position and dimensions.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ToRectF converts to the float form used during symbolic resolution.
func (r Rect) ToRectF() RectF {
	return RectF{
		X:      float64(r.X),
		Y:      float64(r.Y),
		Width:  float64(r.Width),
		Height: float64(r.Height),
	}
}

// RectF is a float rectangle, the result of resolving a symbolic rectangle.
type RectF struct {
	X, Y          float64
	Width, Height float64
}

// NewRectF creates a new RectF with the given position and dimensions.
func NewRectF(x, y, width, height float64) RectF {
	return RectF{X: x, Y: y, Width: width, Height: height}
}

// Right returns the x-coordinate of the right edge.
func (r RectF) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y-coordinate of the bottom edge.
func (r RectF) Bottom() float64 {
	return r.Y + r.Height
}

// SmallestIntegerContainer returns the smallest integer rectangle that fully
// contains this one.
func (r RectF) SmallestIntegerContainer() Rect {
	x := int(math.Floor(r.X))
	y := int(math.Floor(r.Y))
	right := int(math.Ceil(r.X + r.Width))
	bottom := int(math.Ceil(r.Y + r.Height))
	return Rect{X: x, Y: y, Width: right - x, Height: bottom - y}
}
