package grid

// Position is an (X, Y) coordinate in grid units.
type Position struct {
	X, Y int
}

// Size is a width/height pair in grid units.
type Size struct {
	Width, Height int
}

// Placement is a resolved position and size in grid units.
type Placement struct {
	X, Y, Width, Height int
}

// Definition carries a component type's sizing contract in grid units.
// Max dimensions of zero mean "unbounded".
type Definition struct {
	Default Size
	Min     Size
	Max     Size
}

// Config holds the sizing parameters for unit<->pixel conversion.
//
// The horizontal axis is responsive: one grid unit spans
// containerWidth * SizePercent pixels, clamped to [MinCellPx, MaxCellPx].
// The vertical axis is fixed: one grid unit is always RowHeightPx pixels,
// independent of container size.
type Config struct {
	// SizePercent is the horizontal cell width as a fraction of the
	// container width. The default of 0.02 makes 50 units span full width.
	SizePercent float64

	// MinCellPx and MaxCellPx clamp the computed horizontal cell width.
	MinCellPx int
	MaxCellPx int

	// RowHeightPx is the fixed vertical cell height in pixels.
	RowHeightPx int

	// CanvasWidthUnits is the horizontal extent of every canvas.
	// Vertical extent is unbounded; canvases grow downward.
	CanvasWidthUnits int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		SizePercent:      0.02,
		MinCellPx:        10,
		MaxCellPx:        50,
		RowHeightPx:      20,
		CanvasWidthUnits: 50,
	}
}
