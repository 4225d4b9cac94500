// Package grid implements the coordinate engine for the page builder:
// conversion between grid units and pixels with a per-canvas width cache,
// boundary constraints for placing components on a fixed-width canvas,
// and the auto-stacking layout used for non-customized secondary viewports.
//
// The package is pure: it never measures anything itself. Container widths
// come in through an injected WidthProvider, so the engine is testable
// without a rendering environment and portable across renderers.
package grid
