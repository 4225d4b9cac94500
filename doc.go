// Package gridbuilder implements the core of a drag-and-drop page builder:
// a responsive grid coordinate engine, a canonical layout state with
// command-based undo/redo, and a visibility scheduler that gates expensive
// component mounting.
//
// Hosts import this single package for the complete public API: the Builder
// facade, the layout model, grid geometry types, events, and gestures.
// The core renders nothing itself; rendering, persistence and presentation
// are the embedding host's responsibility.
package gridbuilder
