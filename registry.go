package gridbuilder

import (
	"sync"

	"github.com/pagegrid/gridbuilder/internal/grid"
)

// TypeDescriptor describes a registrable component type: its sizing
// contract, default config, and an opaque render capability.
type TypeDescriptor struct {
	// Type is the registry key.
	Type string

	// Name is the default display label for new items of this type.
	Name string

	// DefaultSize, MinSize and MaxSize are in grid units. Zero max
	// dimensions mean unbounded.
	DefaultSize grid.Size
	MinSize     grid.Size
	MaxSize     grid.Size

	// Complex marks types that are expensive to mount (carousels,
	// live-polling widgets). Their content is gated behind the visibility
	// scheduler; everything else renders immediately.
	Complex bool

	// DefaultConfig seeds a new item's config bag.
	DefaultConfig map[string]any

	// Renderer is an opaque capability token the host's rendering layer
	// interprets. The core only stores and forwards it.
	Renderer any
}

// definition converts the sizing contract for the constraint engine.
func (d TypeDescriptor) definition() grid.Definition {
	def := grid.Definition{Default: d.DefaultSize, Min: d.MinSize, Max: d.MaxSize}
	if def.Default.Width <= 0 {
		def.Default.Width = def.Min.Width
	}
	if def.Default.Height <= 0 {
		def.Default.Height = def.Min.Height
	}
	return def
}

// Registry maps component type keys to descriptors. Lookups are by the
// string key items carry in their Type field.
type Registry struct {
	mu    sync.RWMutex
	types map[string]TypeDescriptor
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]TypeDescriptor)}
}

// Register adds or replaces a descriptor. Registering under an empty type
// key is a no-op.
func (r *Registry) Register(desc TypeDescriptor) {
	if desc.Type == "" {
		return
	}
	if desc.Name == "" {
		desc.Name = desc.Type
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[desc.Type]; !exists {
		r.order = append(r.order, desc.Type)
	}
	r.types[desc.Type] = desc
}

// Lookup returns the descriptor for a type key.
func (r *Registry) Lookup(componentType string) (TypeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.types[componentType]
	return desc, ok
}

// Types returns the registered type keys in registration order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
