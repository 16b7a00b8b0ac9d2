package ctype

import (
	"strings"

	"github.com/teranos/glbind/errors"
)

// Translator renders parsed C types as Go type expressions. Base names
// resolve against the primitive table first, then against the registry's own
// types through the known callback.
//
// A Translator is not safe for concurrent use: it remembers whether any cgo
// type was produced so the emitter knows to import "C".
type Translator struct {
	prims map[string]string
	known func(name string) bool
	cgo   bool
	// voids are registry typedefs of plain void, such as GLvoid
	voids map[string]bool
}

// NewTranslator returns a Translator over the host (cgo) primitive table, or
// the portable one when withoutCgo is set. known reports whether a registry
// type has been declared; it may be nil when only primitives are expected.
func NewTranslator(withoutCgo bool, known func(name string) bool) *Translator {
	if known == nil {
		known = func(string) bool { return false }
	}
	return &Translator{
		prims: Primitives(withoutCgo),
		known: known,
		voids: make(map[string]bool),
	}
}

// UsesCgo reports whether any type translated since the last ResetCgo came
// from the cgo table.
func (t *Translator) UsesCgo() bool {
	return t.cgo
}

// ResetCgo clears the flag UsesCgo reports.
func (t *Translator) ResetCgo() {
	t.cgo = false
}

// IsType reports whether name resolves to a primitive or a known registry type.
func (t *Translator) IsType(name string) bool {
	if name == "void" {
		return true
	}
	if _, ok := t.prims[name]; ok {
		return true
	}
	return t.known(name)
}

// Resolve maps a non-void base name to its Go spelling. Registry types are
// recorded in deps.
func (t *Translator) Resolve(base string, deps *Deps) (string, error) {
	if goType, ok := t.prims[base]; ok {
		if strings.HasPrefix(goType, "C.") {
			t.cgo = true
		}
		return goType, nil
	}
	if t.known(base) {
		deps.Add(base)
		return GoName(base), nil
	}
	return "", errors.UnknownType(base)
}

// Go renders e. Plain void renders as the empty string, meaning "no value";
// void behind n pointers is unsafe.Pointer behind n-1. Go has no
// pointer-to-const so const qualifiers do not change the result.
func (t *Translator) Go(e Expr, deps *Deps) (string, error) {
	if t.voids[e.Base] && t.known(e.Base) {
		deps.Add(e.Base)
		e.Base = "void"
	}
	if e.Base == "void" {
		if e.Depth() == 0 {
			return "", nil
		}
		return strings.Repeat("*", e.Depth()-1) + "unsafe.Pointer", nil
	}
	base, err := t.Resolve(e.Base, deps)
	if err != nil {
		return "", err
	}
	return strings.Repeat("*", e.Depth()) + base, nil
}

// GoType parses and renders raw in one step.
func (t *Translator) GoType(raw string, deps *Deps) (string, error) {
	e, ok := Parse(raw)
	if !ok {
		return "", errors.Malformed(raw, "not a type expression")
	}
	return t.Go(e, deps)
}

// Deps is an ordered set of registry type names a declaration refers to.
// The zero value is ready to use and a nil *Deps discards everything.
type Deps struct {
	names []string
	seen  map[string]bool
}

// Add records name once, keeping first-use order.
func (d *Deps) Add(name string) {
	if d == nil || d.seen[name] {
		return
	}
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	d.seen[name] = true
	d.names = append(d.names, name)
}

// Names returns the recorded names in first-use order.
func (d *Deps) Names() []string {
	if d == nil {
		return nil
	}
	return d.names
}
