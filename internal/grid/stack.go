package grid

// AutoStack derives placements for items whose secondary-viewport layout has
// not been customized: each occupies the full canvas width and stacks below
// the previous one, in array order, starting at y = 0.
//
// heights are the items' effective heights in grid units, in the order they
// appear in the canvas's item list. The result is a pure function of its
// inputs; callers must recompute it whenever the item set or viewport
// changes rather than caching it.
func AutoStack(heights []int, canvasWidthUnits int) []Placement {
	out := make([]Placement, len(heights))
	y := 0
	for i, h := range heights {
		out[i] = Placement{X: 0, Y: y, Width: canvasWidthUnits, Height: h}
		y += h
	}
	return out
}
