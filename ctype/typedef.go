package ctype

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/teranos/glbind/errors"
)

// Kind classifies a <type> declaration.
type Kind int

const (
	KindSimple Kind = iota
	KindOpaqueStruct
	KindFuncPointer
	KindHandleARB
	KindPreprocessor
)

func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "typedef"
	case KindOpaqueStruct:
		return "opaque struct"
	case KindFuncPointer:
		return "function pointer"
	case KindHandleARB:
		return "platform handle"
	case KindPreprocessor:
		return "preprocessor"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Decl is one translated <type>.
type Decl struct {
	Name string
	Kind Kind
	// Code is the Go declaration; empty for suppressed preprocessor entries.
	Code string
	// Deps lists the registry types Code refers to.
	Deps []string
	// Cgo is set when Code names a cgo type.
	Cgo bool
}

// Suppressed reports whether the declaration produces no Go code.
func (d Decl) Suppressed() bool {
	return d.Code == ""
}

const ident = `[_a-zA-Z][_a-zA-Z0-9]*`

var (
	simpleTypedef = regexp.MustCompile(`^typedef\s+(.+?[\s*])(` + ident + `)\s*;$`)
	opaqueStruct  = regexp.MustCompile(`^(struct\s+` + ident + `)\s*;$`)
	funcPointer   = regexp.MustCompile(`(?s)^typedef\s+(.+?)\s*\(\s*(?:APIENTRY[A-Z_]*\s*)?\*\s*(` + ident + `)\s*\)\s*\((.*)\)\s*;$`)
	nameAndType   = regexp.MustCompile(`^(.*[\s*])(` + ident + `)$`)
)

// preprocessorTypes are registry entries that only carry an #include.
var preprocessorTypes = map[string]bool{
	"stddef":      true,
	"khrplatform": true,
	"inttypes":    true,
}

// Declare classifies the full text of a <type> element and translates it to
// a Go declaration. name is the declared name (the "name" attribute or the
// <name> child); it must agree with the name the declaration itself defines.
func (t *Translator) Declare(name, text string) (Decl, error) {
	saved := t.cgo
	t.cgo = false
	decl, err := t.declare(name, strings.TrimSpace(text))
	decl.Cgo = t.cgo
	t.cgo = saved || t.cgo
	return decl, err
}

func (t *Translator) declare(name, text string) (Decl, error) {
	if preprocessorTypes[name] {
		return Decl{Name: name, Kind: KindPreprocessor}, nil
	}
	if name == "GLhandleARB" {
		return t.declareHandleARB(name, text)
	}
	if m := funcPointer.FindStringSubmatch(text); m != nil {
		if err := checkName(name, m[2]); err != nil {
			return Decl{}, err
		}
		return t.declareFuncPointer(name, m[1], m[3])
	}
	if m := opaqueStruct.FindStringSubmatch(text); m != nil {
		// gl.xml spells these both as <name>_cl_context</name> and as name="struct _cl_context"
		declared := strings.TrimPrefix(name, "struct ")
		if err := checkName(declared, strings.Fields(m[1])[1]); err != nil {
			return Decl{}, err
		}
		return Decl{
			Name: name,
			Kind: KindOpaqueStruct,
			Code: fmt.Sprintf("type %s struct{}", GoName(name)),
		}, nil
	}
	if m := simpleTypedef.FindStringSubmatch(text); m != nil {
		if err := checkName(name, m[2]); err != nil {
			return Decl{}, err
		}
		return t.declareSimple(name, m[1])
	}
	return Decl{}, errors.Malformed(name, "unrecognised type declaration %q", text)
}

func checkName(declared, inferred string) error {
	if declared != inferred {
		return errors.Duplicate(declared, "declaration defines %q instead", inferred)
	}
	return nil
}

func (t *Translator) declareSimple(name, raw string) (Decl, error) {
	e, ok := Parse(raw)
	if !ok {
		return Decl{}, errors.Malformed(name, "cannot parse type %q", raw)
	}
	var deps Deps
	goType, err := t.Go(e, &deps)
	if err != nil {
		return Decl{}, errors.Wrapf(err, "type %s", name)
	}
	if goType == "" {
		t.voids[name] = true
		goType = "struct{}"
	}
	return Decl{
		Name: name,
		Kind: KindSimple,
		Code: fmt.Sprintf("type %s = %s", GoName(name), goType),
		Deps: deps.Names(),
	}, nil
}

func (t *Translator) declareFuncPointer(name, ret, params string) (Decl, error) {
	var deps Deps
	goRet, err := t.GoType(ret, &deps)
	if err != nil {
		return Decl{}, errors.Wrapf(err, "return type of %s", name)
	}
	goParams, err := t.params(name, params, &deps)
	if err != nil {
		return Decl{}, err
	}

	goName := GoName(name)
	var sb strings.Builder
	fmt.Fprintf(&sb, "// %s is a C function pointer. Build one from a %sFunc with purego.NewCallback.\n", goName, goName)
	fmt.Fprintf(&sb, "type %s = uintptr\n\n", goName)
	fmt.Fprintf(&sb, "// %sFunc is the Go signature of %s.\n", goName, goName)
	fmt.Fprintf(&sb, "type %sFunc = %s", goName, Signature(goParams, goRet))

	return Decl{
		Name: name,
		Kind: KindFuncPointer,
		Code: sb.String(),
		Deps: deps.Names(),
	}, nil
}

func (t *Translator) declareHandleARB(name, text string) (Decl, error) {
	if !strings.Contains(text, "#ifdef __APPLE__") {
		return Decl{}, errors.Malformed(name, "expected the __APPLE__ conditional form, got %q", text)
	}
	return Decl{
		Name: name,
		Kind: KindHandleARB,
		Code: "// GLhandleARB is a pointer on macOS and an unsigned int elsewhere. uintptr holds either.\ntype GLhandleARB = uintptr",
	}, nil
}

// Param is one rendered function parameter.
type Param struct {
	Name string
	Type string
}

// params translates a C parameter list. Unnamed parameters are named "_".
func (t *Translator) params(owner, list string, deps *Deps) ([]Param, error) {
	list = strings.TrimSpace(list)
	if list == "" || list == "void" {
		return nil, nil
	}
	var out []Param
	for _, raw := range SplitTopLevel(list, ',') {
		raw = strings.TrimSpace(raw)
		typ, pname := raw, "_"
		if m := nameAndType.FindStringSubmatch(raw); m != nil && !t.IsType(m[2]) && m[2] != "const" {
			typ, pname = m[1], Ident(m[2])
		}
		goType, err := t.GoType(typ, deps)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %q of %s", raw, owner)
		}
		if goType == "" {
			return nil, errors.Malformed(owner, "parameter %q has type void", raw)
		}
		out = append(out, Param{Name: pname, Type: goType})
	}
	return out, nil
}

// SplitTopLevel splits s on sep, ignoring separators nested in parentheses.
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// Signature renders a Go func type from rendered parameters and result.
func Signature(params []Param, result string) string {
	var sb strings.Builder
	sb.WriteString("func(")
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		sb.WriteByte(' ')
		sb.WriteString(p.Type)
	}
	sb.WriteByte(')')
	if result != "" {
		sb.WriteByte(' ')
		sb.WriteString(result)
	}
	return sb.String()
}
