package gridbuilder

import "github.com/pagegrid/gridbuilder/internal/grid"

// This file re-exports geometry types from internal/grid so hosts only
// import this package. Any changes to internal/grid types must be
// mirrored here.

// Position is an (X, Y) coordinate in grid units.
type Position = grid.Position

// Size is a width/height pair in grid units.
type Size = grid.Size

// Placement is a resolved position and size in grid units.
type Placement = grid.Placement

// Rect is a pixel-space rectangle used for visibility testing.
type Rect = grid.Rect

// GridConfig holds the unit<->pixel conversion parameters.
type GridConfig = grid.Config

// WidthProvider reports a canvas container's rendered width in pixels.
type WidthProvider = grid.WidthProvider

// NewRect creates a pixel-space rectangle.
func NewRect(x, y, width, height int) Rect {
	return grid.NewRect(x, y, width, height)
}

// DefaultGridConfig returns the stock conversion parameters.
func DefaultGridConfig() GridConfig {
	return grid.DefaultConfig()
}
