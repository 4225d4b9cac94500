package grid

// Rect is a pixel-space rectangle. X and Y are the top-left corner.
// It is used for visibility testing of item placeholders against the
// scrollport.
type Rect struct {
	X, Y          int
	Width, Height int
}

// NewRect creates a Rect with the given position and dimensions.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Right returns the x-coordinate of the right edge (exclusive).
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// IsEmpty reports whether the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point (x, y) is inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Outset returns the rectangle expanded outward by n pixels on every edge.
// A negative n shrinks it. This is how the visibility margin is applied to
// the scrollport.
func (r Rect) Outset(n int) Rect {
	return Rect{
		X:      r.X - n,
		Y:      r.Y - n,
		Width:  r.Width + 2*n,
		Height: r.Height + 2*n,
	}
}

// Intersect returns the intersection of two rectangles, or an empty Rect
// when they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	right := min(r.Right(), other.Right())
	bottom := min(r.Bottom(), other.Bottom())

	width := right - x
	height := bottom - y
	if width <= 0 || height <= 0 {
		return Rect{}
	}
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Intersects reports whether the two rectangles overlap.
// Touching edges do not count as overlapping.
func (r Rect) Intersects(other Rect) bool {
	return !r.Intersect(other).IsEmpty()
}
