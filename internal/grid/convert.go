package grid

import "math"

// WidthProvider reports the rendered width of a canvas container in pixels.
// A return of 0 or less means the container is not measurable yet (not
// mounted, or mid-reflow).
type WidthProvider func(canvasID string) int

// Converter performs bidirectional conversion between grid units and pixels.
//
// Measuring a container's rendered width is a layout read; doing it once per
// item per render is O(items) reads per frame. Converter caches the computed
// horizontal cell width per canvas so it is O(canvases) instead. Entries are
// repopulated lazily from the WidthProvider after invalidation.
type Converter struct {
	cfg     Config
	measure WidthProvider
	cache   map[string]float64
}

// NewConverter creates a Converter. measure may be nil, in which case only
// primed cache entries yield usable horizontal conversions.
func NewConverter(cfg Config, measure WidthProvider) *Converter {
	return &Converter{
		cfg:     cfg,
		measure: measure,
		cache:   make(map[string]float64),
	}
}

// Config returns the conversion configuration.
func (c *Converter) Config() Config {
	return c.cfg
}

// CellWidth returns the horizontal cell width in pixels for a canvas, or 0
// when the canvas cannot be measured yet. The cached value is preferred over
// a fresh measurement so a transient zero-width container (initial mount,
// viewport-switch reflow) does not collapse coordinates to zero.
func (c *Converter) CellWidth(canvasID string) float64 {
	if w, ok := c.cache[canvasID]; ok {
		return w
	}
	if c.measure == nil {
		return 0
	}
	px := c.measure(canvasID)
	if px <= 0 {
		// Not measurable; do not cache, callers should defer.
		return 0
	}
	w := c.clampCell(float64(px) * c.cfg.SizePercent)
	c.cache[canvasID] = w
	return w
}

func (c *Converter) clampCell(w float64) float64 {
	if min := float64(c.cfg.MinCellPx); w < min {
		return min
	}
	if max := float64(c.cfg.MaxCellPx); max > 0 && w > max {
		return max
	}
	return w
}

// ToPixelsX converts horizontal grid units to pixels for a canvas.
func (c *Converter) ToPixelsX(units int, canvasID string) int {
	return int(math.Round(float64(units) * c.CellWidth(canvasID)))
}

// ToPixelsY converts vertical grid units to pixels.
func (c *Converter) ToPixelsY(units int) int {
	return units * c.cfg.RowHeightPx
}

// ToUnitsX converts horizontal pixels to grid units for a canvas.
// Returns 0 when the canvas width is unavailable rather than dividing by zero.
func (c *Converter) ToUnitsX(px int, canvasID string) int {
	w := c.CellWidth(canvasID)
	if w <= 0 {
		return 0
	}
	return int(math.Round(float64(px) / w))
}

// ToUnitsY converts vertical pixels to grid units.
func (c *Converter) ToUnitsY(px int) int {
	if c.cfg.RowHeightPx <= 0 {
		return 0
	}
	return int(math.Round(float64(px) / float64(c.cfg.RowHeightPx)))
}

// Prime populates the cache for a canvas from an externally supplied width
// measurement. Hosts call this before a reflow so conversions keep working
// while the live container briefly reports zero width.
func (c *Converter) Prime(canvasID string, measuredWidthPx int) {
	if measuredWidthPx <= 0 {
		return
	}
	c.cache[canvasID] = c.clampCell(float64(measuredWidthPx) * c.cfg.SizePercent)
}

// Invalidate drops the cached cell width for one canvas.
func (c *Converter) Invalidate(canvasID string) {
	delete(c.cache, canvasID)
}

// InvalidateAll drops every cached cell width. This is the default reaction
// to any resize signal; the next access per canvas re-measures lazily.
// Hosts with many canvases can call Invalidate per canvas instead.
func (c *Converter) InvalidateAll() {
	c.cache = make(map[string]float64)
}
