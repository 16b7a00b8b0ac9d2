// Package ctype translates C declaration fragments from the registry into Go
// type expressions.
//
// Translation happens in two steps. Parse reduces a fragment such as
// "const GLchar *const*" to an Expr: the base type name, whether the base is
// const, and one qualifier per pointer level. A Translator then resolves the
// base name against a primitive table or the registry's own types and renders
// Go source.
package ctype

import (
	"regexp"
	"strings"
)

// Expr is a parsed C type: a base name plus a run of pointer levels.
type Expr struct {
	// Const is set when the base type itself is const ("const GLchar *").
	Const bool
	// Base is the C base type name, e.g. "GLuint", "unsigned int" or "void".
	Base string
	// Quals has one entry per '*', nearest the base first. An entry is true
	// when that pointer is itself const ("*const").
	Quals []bool
}

// Depth returns the number of pointer levels.
func (e Expr) Depth() int {
	return len(e.Quals)
}

// IsVoid reports whether e is plain void with no pointer levels, i.e. no value.
func (e Expr) IsVoid() bool {
	return e.Base == "void" && len(e.Quals) == 0
}

// PointeeConst reports whether the value pointer level i points at is const.
// Level 0 is the outermost pointer, the one a caller actually holds. C reads
// right to left: the outermost pointer's pointee is the next level in, and the
// innermost pointer's pointee is the base.
func (e Expr) PointeeConst(i int) bool {
	star := len(e.Quals) - 1 - i
	if star <= 0 {
		return e.Const
	}
	return e.Quals[star-1]
}

// String renders e in a canonical C spelling.
func (e Expr) String() string {
	var sb strings.Builder
	if e.Const {
		sb.WriteString("const ")
	}
	sb.WriteString(e.Base)
	if len(e.Quals) > 0 {
		sb.WriteByte(' ')
	}
	for _, c := range e.Quals {
		sb.WriteByte('*')
		if c {
			sb.WriteString("const")
		}
	}
	return sb.String()
}

var (
	spacesAroundStar = regexp.MustCompile(`\s*\*\s*`)
	repeatedSpace    = regexp.MustCompile(`\s+`)
	structReference  = regexp.MustCompile(`\bstruct\s+[_a-zA-Z][_a-zA-Z0-9]*`)
	pointerShape     = regexp.MustCompile(`^(const )?([^*]+?)((?:\*(?:const)?)*)$`)
	starRun          = regexp.MustCompile(`\*(const)?`)
	trailingConst    = regexp.MustCompile(`\s+const$`)
)

// Normalize applies the whitespace and struct rewrites to a raw fragment:
// whitespace around '*' is removed, other runs collapse to one space, and
// inline "struct NAME" becomes "void" since opaque structs never get a layout.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = spacesAroundStar.ReplaceAllString(s, "*")
	s = repeatedSpace.ReplaceAllString(s, " ")
	s = structReference.ReplaceAllString(s, "void")
	return s
}

// Parse splits a raw C type fragment into an Expr. It reports false when the
// fragment has no base type.
func Parse(raw string) (Expr, bool) {
	s := Normalize(raw)
	m := pointerShape.FindStringSubmatch(s)
	if m == nil {
		return Expr{}, false
	}

	e := Expr{Const: m[1] != ""}
	base := strings.TrimSpace(m[2])
	// "GLchar const *" spells the same thing as "const GLchar *"
	if trailingConst.MatchString(base) {
		base = trailingConst.ReplaceAllString(base, "")
		e.Const = true
	}
	if base == "" || base == "const" {
		return Expr{}, false
	}
	e.Base = base

	for _, star := range starRun.FindAllStringSubmatch(m[3], -1) {
		e.Quals = append(e.Quals, star[1] != "")
	}
	return e, true
}
