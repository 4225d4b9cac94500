package grid

// Adjusted is the result of constraining a placement to canvas bounds.
type Adjusted struct {
	X, Y, Width, Height int

	// PositionAdjusted reports whether X or Y was clamped.
	PositionAdjusted bool

	// SizeAdjusted reports whether the size was clamped.
	SizeAdjusted bool
}

// FitsCanvas reports whether a component's minimum size can fit the
// horizontal extent of a canvas at all.
func FitsCanvas(min Size, canvasWidthUnits int) bool {
	return min.Width <= canvasWidthUnits
}

// ConstrainSize clamps a default size to the canvas width, never below min
// and never above max (zero max means unbounded). Height is left alone:
// canvases grow downward. The bool reports whether anything changed.
func ConstrainSize(def, min, max Size, canvasWidthUnits int) (Size, bool) {
	out := def
	adjusted := false
	if max.Width > 0 && out.Width > max.Width {
		out.Width = max.Width
		adjusted = true
	}
	if out.Width > canvasWidthUnits {
		out.Width = canvasWidthUnits
		adjusted = true
	}
	if out.Width < min.Width {
		out.Width = min.Width
		adjusted = true
	}
	return out, adjusted
}

// ConstrainPosition clamps x into [0, canvasWidthUnits-width] and y to >= 0.
// There is no upper bound on y.
func ConstrainPosition(x, y, width, height, canvasWidthUnits int) Adjusted {
	adj := Adjusted{X: x, Y: y, Width: width, Height: height}
	maxX := canvasWidthUnits - width
	if maxX < 0 {
		maxX = 0
	}
	if adj.X < 0 {
		adj.X = 0
		adj.PositionAdjusted = true
	} else if adj.X > maxX {
		adj.X = maxX
		adj.PositionAdjusted = true
	}
	if adj.Y < 0 {
		adj.Y = 0
		adj.PositionAdjusted = true
	}
	return adj
}

// Constrain composes FitsCanvas, ConstrainSize and ConstrainPosition for a
// drop at (x, y). Returns nil when the component's minimum size cannot fit
// the canvas, signaling the placement must be rejected.
func Constrain(def Definition, x, y, canvasWidthUnits int) *Adjusted {
	if !FitsCanvas(def.Min, canvasWidthUnits) {
		return nil
	}
	size, sizeAdjusted := ConstrainSize(def.Default, def.Min, def.Max, canvasWidthUnits)
	adj := ConstrainPosition(x, y, size.Width, size.Height, canvasWidthUnits)
	adj.SizeAdjusted = sizeAdjusted
	return &adj
}
