package emit

import (
	"strings"

	"github.com/teranos/glbind/errors"
	"github.com/teranos/glbind/registry"
)

// probe is the generated extensions() method: either indexed enumeration
// through glGetStringi or a split of the glGetString(GL_EXTENSIONS) string.
type probe struct {
	indexed bool

	getString proc
	getInt    proc

	// numExtensions and extensions are constant names or literals
	numExtensions string
	extensions    string
}

func (f *file) findProbe() (*probe, error) {
	core := func(name string) (proc, bool) {
		p, ok := f.byName[name]
		if !ok || !f.m.Layout.OwnerOf(name).IsCore() {
			return proc{}, false
		}
		return p, true
	}

	extensions, haveExtensions := f.constant(registry.ProbeExtensions)
	if !haveExtensions {
		return nil, errors.Malformed(registry.ProbeExtensions, "%s is not defined, so requested extensions cannot be detected", registry.ProbeExtensions)
	}

	getStringi, okStringi := core(registry.ProbeGetStringi)
	getIntegerv, okIntegerv := core(registry.ProbeGetIntegerv)
	numExtensions, okNum := f.constant(registry.ProbeNumExtensions)
	if okStringi && okIntegerv && okNum && len(getStringi.params) == 2 && len(getIntegerv.params) == 2 {
		return &probe{
			indexed:       true,
			getString:     getStringi,
			getInt:        getIntegerv,
			numExtensions: numExtensions,
			extensions:    extensions,
		}, nil
	}

	getString, ok := core(registry.ProbeGetString)
	if !ok || len(getString.params) != 1 {
		err := errors.Malformed(registry.ProbeGetString, "%s is not part of %s, so requested extensions cannot be detected", registry.ProbeGetString, f.m.Target)
		return nil, errors.WithHint(err, "choose a target that includes glGetString or glGetStringi, or request no extensions")
	}
	return &probe{getString: getString, extensions: extensions}, nil
}

// constant returns how the generated file spells a probe constant: its name
// when emitted, otherwise its literal.
func (f *file) constant(name string) (string, bool) {
	for _, v := range f.m.Values {
		if v.Name == name {
			return name, true
		}
	}
	if f.m.AllValues != nil {
		if v, ok := f.m.AllValues.Get(name); ok {
			return v.Literal(), true
		}
	}
	return "", false
}

func (pr *probe) write(w *writer) {
	w.line("// extensions returns the names of the extensions the current context advertises.")
	w.line("func (p *Procs) extensions() map[string]bool {")
	w.line("present := make(map[string]bool)")
	if pr.indexed {
		count := strings.TrimPrefix(pr.getInt.params[1].Type, "*")
		index := pr.getString.params[1].Type
		w.line("var n %s", count)
		w.line("p.%s(%s, &n)", pr.getInt.name, pr.numExtensions)
		w.line("for i := %s(0); i < n; i++ {", count)
		w.line("present[goString(unsafe.Pointer(p.%s(%s, %s(i))))] = true", pr.getString.name, pr.extensions, index)
		w.line("}")
	} else {
		w.line("for _, name := range strings.Fields(goString(unsafe.Pointer(p.%s(%s)))) {", pr.getString.name, pr.extensions)
		w.line("present[name] = true")
		w.line("}")
	}
	w.line("return present")
	w.line("}")
	w.blank()
}
