package gridbuilder

import (
	"fmt"

	"github.com/pagegrid/gridbuilder/internal/grid"
)

// Option is a functional option for configuring a Builder.
type Option func(*Builder) error

// WithSettings replaces the default settings wholesale.
func WithSettings(s Settings) Option {
	return func(b *Builder) error {
		if err := s.Validate(); err != nil {
			return err
		}
		b.settings = s
		return nil
	}
}

// WithSettingsFile loads settings from a YAML file.
func WithSettingsFile(path string) Option {
	return func(b *Builder) error {
		s, err := LoadSettings(path)
		if err != nil {
			return err
		}
		b.settings = s
		return nil
	}
}

// WithWidthProvider injects the container width measurement. Without one,
// horizontal conversions yield 0 until PrimeCanvasWidth supplies a width.
func WithWidthProvider(fn grid.WidthProvider) Option {
	return func(b *Builder) error {
		b.widthProvider = fn
		return nil
	}
}

// WithHistoryCapacity bounds the undo stack. Must be at least 1.
func WithHistoryCapacity(n int) Option {
	return func(b *Builder) error {
		if n < 1 {
			return fmt.Errorf("history capacity must be at least 1, got %d", n)
		}
		b.settings.HistoryCapacity = n
		return nil
	}
}

// WithPrimaryViewport sets the viewport that always holds concrete
// coordinates. Defaults to desktop.
func WithPrimaryViewport(vp Viewport) Option {
	return func(b *Builder) error {
		if vp == "" {
			return fmt.Errorf("primary viewport cannot be empty")
		}
		b.settings.PrimaryViewport = string(vp)
		return nil
	}
}

// WithViewerMode creates a read-only rendering instance: it never mutates
// layout, selection or activation.
func WithViewerMode() Option {
	return func(b *Builder) error {
		b.viewer = true
		return nil
	}
}

// WithComponentType registers a component type during construction.
func WithComponentType(desc TypeDescriptor) Option {
	return func(b *Builder) error {
		if desc.Type == "" {
			return fmt.Errorf("component type key cannot be empty")
		}
		b.registry.Register(desc)
		return nil
	}
}

// WithRegistry shares a pre-populated registry between builder instances.
func WithRegistry(r *Registry) Option {
	return func(b *Builder) error {
		if r == nil {
			return fmt.Errorf("nil registry")
		}
		b.registry = r
		return nil
	}
}

// WithInitialState seeds the builder from a previously exported state.
// The import happens after all other options are applied.
func WithInitialState(st ExportedState) Option {
	return func(b *Builder) error {
		b.pendingImport = &st
		return nil
	}
}

// WithoutVirtualRendering forces immediate rendering for all component
// types, complex or not.
func WithoutVirtualRendering() Option {
	return func(b *Builder) error {
		b.settings.EnableVirtualRendering = false
		return nil
	}
}

// WithVisibilityMargin overrides the visibility margin in pixels.
func WithVisibilityMargin(px int) Option {
	return func(b *Builder) error {
		if px < 0 {
			return fmt.Errorf("visibility margin cannot be negative, got %d", px)
		}
		b.settings.VisibilityMargin = px
		return nil
	}
}
