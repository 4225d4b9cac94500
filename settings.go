package gridbuilder

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pagegrid/gridbuilder/internal/grid"
)

// Settings holds the host-configurable knobs of a builder instance. The
// zero value is not usable; start from DefaultSettings or LoadSettings.
type Settings struct {
	// GridSizePercent is the horizontal cell width as a fraction of the
	// container width. 0.02 makes 50 units span the full width.
	GridSizePercent float64 `yaml:"gridSizePercent"`

	// MinGridSize and MaxGridSize clamp the horizontal cell width, px.
	MinGridSize int `yaml:"minGridSize"`
	MaxGridSize int `yaml:"maxGridSize"`

	// RowHeight is the fixed vertical cell height, px.
	RowHeight int `yaml:"rowHeight"`

	// CanvasWidth is the horizontal extent of every canvas, grid units.
	CanvasWidth int `yaml:"canvasWidth"`

	// HistoryCapacity bounds the undo stack.
	HistoryCapacity int `yaml:"historyCapacity"`

	// VisibilityMargin is how far outside the scrollport an item still
	// counts as visible, px.
	VisibilityMargin int `yaml:"visibilityMargin"`

	// EnableVirtualRendering gates lazy mounting of complex components.
	// Disable for tests and for small layouts where observation overhead
	// exceeds the savings.
	EnableVirtualRendering bool `yaml:"enableVirtualRendering"`

	// PrimaryViewport always holds concrete coordinates.
	PrimaryViewport string `yaml:"primaryViewport"`
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		GridSizePercent:        0.02,
		MinGridSize:            10,
		MaxGridSize:            50,
		RowHeight:              20,
		CanvasWidth:            50,
		HistoryCapacity:        DefaultHistoryCapacity,
		VisibilityMargin:       DefaultVisibilityMargin,
		EnableVirtualRendering: true,
		PrimaryViewport:        string(ViewportDesktop),
	}
}

// Validate checks the settings for values the engine cannot work with.
func (s Settings) Validate() error {
	if s.GridSizePercent <= 0 || s.GridSizePercent > 1 {
		return fmt.Errorf("gridSizePercent must be in (0, 1], got %v", s.GridSizePercent)
	}
	if s.MinGridSize <= 0 {
		return fmt.Errorf("minGridSize must be positive, got %d", s.MinGridSize)
	}
	if s.MaxGridSize < s.MinGridSize {
		return fmt.Errorf("maxGridSize %d is below minGridSize %d", s.MaxGridSize, s.MinGridSize)
	}
	if s.RowHeight <= 0 {
		return fmt.Errorf("rowHeight must be positive, got %d", s.RowHeight)
	}
	if s.CanvasWidth <= 0 {
		return fmt.Errorf("canvasWidth must be positive, got %d", s.CanvasWidth)
	}
	if s.HistoryCapacity < 1 {
		return fmt.Errorf("historyCapacity must be at least 1, got %d", s.HistoryCapacity)
	}
	if s.VisibilityMargin < 0 {
		return fmt.Errorf("visibilityMargin cannot be negative, got %d", s.VisibilityMargin)
	}
	if s.PrimaryViewport == "" {
		return fmt.Errorf("primaryViewport cannot be empty")
	}
	return nil
}

// gridConfig converts the settings for the coordinate engine.
func (s Settings) gridConfig() grid.Config {
	return grid.Config{
		SizePercent:      s.GridSizePercent,
		MinCellPx:        s.MinGridSize,
		MaxCellPx:        s.MaxGridSize,
		RowHeightPx:      s.RowHeight,
		CanvasWidthUnits: s.CanvasWidth,
	}
}

// LoadSettings reads a YAML settings file. Fields missing from the file
// keep their defaults, so a file may set only what it overrides.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	content, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(content, &s); err != nil {
		return s, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// SaveSettings writes settings to a YAML file.
func SaveSettings(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	content, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
