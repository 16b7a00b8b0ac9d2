package emit

import (
	"github.com/teranos/glbind/ctype"
	"github.com/teranos/glbind/layout"
	"github.com/teranos/glbind/registry"
	"github.com/teranos/glbind/target"
)

// Model is a fully resolved binding. The emitter makes no decisions of its
// own: every symbol in a Model is emitted.
type Model struct {
	// Package is the Go package name of the generated file.
	Package string
	Target  target.Version
	// Partial is set when an allow-list restricted the output.
	Partial bool
	// Extensions are the requested extensions in request order.
	Extensions []string
	// Comments are the registry's top-level <comment> texts.
	Comments []string

	// Types and Values are the selected declarations in emission order.
	Types  []registry.Type
	Values []registry.Value

	// Commands holds every extracted command; Layout says which are emitted.
	Commands   *registry.Table[registry.Command]
	Layout     *layout.Layout
	Translator *ctype.Translator

	// AllValues resolves probe constants that were not selected for output.
	AllValues *registry.Table[registry.Value]

	// DisableEnv names the environment variable listing extensions to treat
	// as absent at runtime.
	DisableEnv string
	// GeneratorVersion is recorded in the file header.
	GeneratorVersion string
}
