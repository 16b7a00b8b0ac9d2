// Package emit renders a resolved Model as a single Go source file. The
// generated file binds entry points at runtime with purego, so the program
// that imports it needs no link-time GL library.
package emit

import (
	"fmt"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/teranos/glbind/ctype"
	"github.com/teranos/glbind/errors"
	"github.com/teranos/glbind/layout"
	"github.com/teranos/glbind/logger"
	"github.com/teranos/glbind/registry"
)

// DefaultDisableEnv is the environment variable the generated constructor
// reads for extensions to ignore.
const DefaultDisableEnv = "GLBIND_DISABLED_EXTENSIONS"

// OutputName is the file name used when no output path is given.
const OutputName = "gl.go"

const header = "// Code generated by glbind. DO NOT EDIT."

// versionPrefix marks the metadata line that changes between generator builds.
const versionPrefix = "// Generator version:"

const purego = "github.com/ebitengine/purego"

const cgoPreamble = `/*
#include <stddef.h>
#include <stdint.h>
#include <sys/types.h>
*/
import "C"`

// Generator turns a Model into Go source.
type Generator struct{}

// NewGenerator creates a new Generator
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateFile renders m and formats the result. Nothing is returned unless
// the whole file translated and formatted.
func (g *Generator) GenerateFile(m *Model) ([]byte, error) {
	f, err := newFile(m)
	if err != nil {
		return nil, err
	}
	src := f.render()

	out, err := imports.Process(OutputName, []byte(src), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		err = errors.Wrap(err, "generated code does not parse")
		return nil, errors.WithDetail(err, src)
	}
	logger.Debugw("Rendered binding",
		logger.FieldTarget, m.Target.Token(),
		logger.FieldCount, len(f.procs),
		logger.FieldSize, len(out))
	return out, nil
}

// proc is one emitted command with its translated signature.
type proc struct {
	name   string
	method string
	index  int
	params []ctype.Param
	result string
}

func (p proc) funcType(placeholders bool) string {
	params := p.params
	if placeholders {
		params = make([]ctype.Param, len(p.params))
		for i, param := range p.params {
			params[i] = ctype.Param{Name: "_", Type: param.Type}
		}
	}
	return ctype.Signature(params, p.result)
}

// file holds everything render needs, translated up front so rendering
// cannot fail.
type file struct {
	m      *Model
	procs  []proc
	byName map[string]proc
	cgo    bool
	probe  *probe
}

func newFile(m *Model) (*file, error) {
	f := &file{m: m, byName: make(map[string]proc)}

	for _, t := range m.Types {
		if t.Cgo {
			f.cgo = true
		}
	}

	m.Translator.ResetCgo()
	for i, name := range m.Layout.Order {
		cmd, ok := m.Commands.Get(name)
		if !ok {
			return nil, errors.Malformed(name, "command is laid out but not defined")
		}
		params, result, err := cmd.Signature(m.Translator, false)
		if err != nil {
			return nil, err
		}
		p := proc{
			name:   name,
			method: ctype.Exported(name),
			index:  i,
			params: params,
			result: result,
		}
		f.procs = append(f.procs, p)
		f.byName[name] = p
	}
	if m.Translator.UsesCgo() {
		f.cgo = true
	}

	if len(m.Extensions) > 0 {
		pr, err := f.findProbe()
		if err != nil {
			return nil, err
		}
		f.probe = pr
	}
	return f, nil
}

func (f *file) render() string {
	var w writer
	f.writeHeader(&w)
	f.writeTypes(&w)
	f.writeValues(&w)
	f.writeProcs(&w)
	f.writeConstructor(&w)
	f.writeStubs(&w)
	f.writeBinders(&w)
	f.writeMethods(&w)
	return w.String()
}

func (f *file) writeHeader(w *writer) {
	m := f.m
	w.line(header)
	w.line("%s %s", versionPrefix, m.GeneratorVersion)
	w.blank()

	kind := "binding"
	if m.Partial {
		kind = "partial binding"
	}
	w.line("// Package %s is a %s for %s.", m.Package, kind, m.Target)
	w.line("//")
	if len(m.Extensions) == 0 {
		w.line("// It does not support any extensions.")
	} else {
		w.line("// It supports the following extensions:")
		for _, ext := range m.Extensions {
			w.line("//   - %s", ext)
		}
	}
	w.line("package %s", m.Package)
	w.blank()

	if len(m.Comments) > 0 {
		w.line("// The comments below are copied from the registry document. They describe")
		w.line("// that document, not this file, but carry its copyright and provenance.")
		w.line("//")
		for _, c := range m.Comments {
			for _, l := range strings.Split(strings.Trim(c, "\n"), "\n") {
				l = strings.TrimRight(l, " \t\r")
				if l == "" {
					w.line("//")
				} else {
					w.line("// %s", l)
				}
			}
		}
		w.blank()
	}

	if f.cgo {
		w.line(cgoPreamble)
		w.blank()
	}

	// imports.Process drops whichever of these the file ends up not using
	w.line("import (")
	for _, path := range []string{"errors", "os", "strings", "unicode", "unsafe", "", purego} {
		if path == "" {
			w.blank()
			continue
		}
		w.line("%q", path)
	}
	w.line(")")
	w.blank()
}

func (f *file) writeTypes(w *writer) {
	for _, t := range f.m.Types {
		if t.Code == "" {
			continue
		}
		if t.Comment != "" {
			w.line("// %s: %s", ctype.GoName(t.Name), t.Comment)
		}
		w.line("%s", t.Code)
		w.blank()
	}
}

func (f *file) writeValues(w *writer) {
	if len(f.m.Values) == 0 {
		return
	}
	w.line("const (")
	for _, v := range f.m.Values {
		w.line("%s = %s", v.Name, v.Literal())
	}
	w.line(")")
	w.blank()
}

func (f *file) writeProcs(w *writer) {
	m := f.m
	w.line("// Procs holds the entry points of %s and the requested extensions.", m.Target)
	w.line("// Create one with NewProcs while a context is current.")
	w.line("type Procs struct {")
	w.line("procs [%d]uintptr", len(f.procs))
	if len(m.Extensions) > 0 {
		w.blank()
		for _, ext := range m.Extensions {
			field := ctype.PresenceField(ext)
			w.line("// %s reports whether %s is present and not disabled.", field, ext)
			w.line("%s bool", field)
		}
	}
	if len(f.procs) > 0 {
		w.blank()
		for _, p := range f.procs {
			w.line("%s %s", p.name, p.funcType(false))
		}
	}
	w.line("}")
	w.blank()

	if len(f.procs) > 0 {
		w.line("var procNames = [%d]string{", len(f.procs))
		for _, p := range f.procs {
			w.line("%q,", p.name)
		}
		w.line("}")
		w.blank()
	}

	w.line("// load resolves names into dst. A lookup error is returned unchanged.")
	w.line("func load(getProc func(name string) (uintptr, error), dst []uintptr, names []string) error {")
	w.line("for i, name := range names {")
	w.line("addr, err := getProc(name)")
	w.line("if err != nil {")
	w.line("return err")
	w.line("}")
	w.line("if addr == 0 {")
	w.line(`return errors.New(name + " resolved to a null address")`)
	w.line("}")
	w.line("dst[i] = addr")
	w.line("}")
	w.line("return nil")
	w.line("}")
	w.blank()
}

// bindName and stubName are the per-owner method names.
func bindName(o registry.Owner) string {
	if o.IsCore() {
		return "bindCore"
	}
	return "bind" + strings.TrimPrefix(o.Extension(), "GL_")
}

func stubName(ext string) string {
	return "stub" + strings.TrimPrefix(ext, "GL_")
}

func loadCall(r layout.Range) string {
	return fmt.Sprintf("load(getProc, p.procs[%d:%d], procNames[%d:%d])", r.Start, r.End, r.Start, r.End)
}

func (f *file) writeConstructor(w *writer) {
	m := f.m
	w.line("// NewProcs resolves every entry point through getProc. Core entry points")
	w.line("// are loaded first; an extension's entry points are loaded only when the")
	w.line("// extension is present, and otherwise panic when called.")
	w.line("func NewProcs(getProc func(name string) (uintptr, error)) (*Procs, error) {")
	w.line("p := &Procs{}")

	if r, ok := m.Layout.Ranges[registry.Core]; ok {
		w.line("if err := %s; err != nil {", loadCall(r))
		w.line("return nil, err")
		w.line("}")
		w.line("p.%s()", bindName(registry.Core))
	}

	if len(m.Extensions) > 0 {
		w.blank()
		w.line("present := p.extensions()")
		if m.DisableEnv != "" {
			w.line("for _, name := range disabledExtensions() {")
			w.line("delete(present, name)")
			w.line("}")
		}
		for _, ext := range m.Extensions {
			w.line("p.%s = present[%q]", ctype.PresenceField(ext), ext)
		}
		for _, ext := range m.Extensions {
			r, ok := m.Layout.Ranges[registry.Extension(ext)]
			if !ok {
				continue
			}
			w.blank()
			w.line("if p.%s {", ctype.PresenceField(ext))
			w.line("if err := %s; err != nil {", loadCall(r))
			w.line("return nil, err")
			w.line("}")
			w.line("p.%s()", bindName(registry.Extension(ext)))
			w.line("} else {")
			w.line("p.%s()", stubName(ext))
			w.line("}")
		}
	}
	w.line("return p, nil")
	w.line("}")
	w.blank()

	if f.probe != nil {
		f.probe.write(w)
		if m.DisableEnv != "" {
			w.line("// disabledExtensions lists the extensions named in $%s.", m.DisableEnv)
			w.line("func disabledExtensions() []string {")
			w.line("return strings.FieldsFunc(os.Getenv(%q), func(r rune) bool {", m.DisableEnv)
			w.line("return r == ',' || unicode.IsSpace(r)")
			w.line("})")
			w.line("}")
			w.blank()
		}
		w.line("// goString copies a NUL-terminated C string.")
		w.line("func goString(s unsafe.Pointer) string {")
		w.line("if s == nil {")
		w.line(`return ""`)
		w.line("}")
		w.line("n := 0")
		w.line("for *(*byte)(unsafe.Add(s, n)) != 0 {")
		w.line("n++")
		w.line("}")
		w.line("return string(unsafe.Slice((*byte)(s), n))")
		w.line("}")
		w.blank()
	}
}

func (f *file) writeStubs(w *writer) {
	m := f.m
	var stubbed bool
	for _, ext := range m.Extensions {
		r, ok := m.Layout.Ranges[registry.Extension(ext)]
		if !ok {
			continue
		}
		stubbed = true
		w.line("func (p *Procs) %s() {", stubName(ext))
		for _, name := range m.Layout.Names(r) {
			pr := f.byName[name]
			w.line("p.%s = %s {", pr.name, pr.funcType(true))
			w.line("panic(missingExtension(%q, %q))", pr.name, ext)
			w.line("}")
		}
		w.line("}")
		w.blank()
	}
	if stubbed {
		w.line("func missingExtension(command, extension string) string {")
		w.line(`return command + " called, but the requisite extension (" + extension + ") is not present"`)
		w.line("}")
		w.blank()
	}
}

func (f *file) writeBinders(w *writer) {
	m := f.m
	for _, owner := range m.Layout.Owners {
		w.line("func (p *Procs) %s() {", bindName(owner))
		for _, name := range m.Layout.Names(m.Layout.Ranges[owner]) {
			pr := f.byName[name]
			w.line("purego.RegisterFunc(&p.%s, p.procs[%d])", pr.name, pr.index)
		}
		w.line("}")
		w.blank()
	}
}

func (f *file) writeMethods(w *writer) {
	for _, p := range f.procs {
		args := make([]string, len(p.params))
		for i, param := range p.params {
			args[i] = param.Name
		}
		call := fmt.Sprintf("p.%s(%s)", p.name, strings.Join(args, ", "))

		w.line("// %s calls %s.", p.method, p.name)
		w.line("func (p *Procs) %s%s {", p.method, strings.TrimPrefix(ctype.Signature(p.params, p.result), "func"))
		if p.result == "" {
			w.line("%s", call)
		} else {
			w.line("return %s", call)
		}
		w.line("}")
		w.blank()
	}
}

// writer accumulates generated lines.
type writer struct {
	strings.Builder
}

func (w *writer) line(format string, args ...interface{}) {
	if len(args) == 0 {
		w.WriteString(format)
	} else {
		fmt.Fprintf(w, format, args...)
	}
	w.WriteByte('\n')
}

func (w *writer) blank() {
	w.WriteByte('\n')
}
