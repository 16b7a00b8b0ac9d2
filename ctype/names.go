package ctype

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// reserved are parameter names that cannot appear in generated signatures:
// every Go keyword, "ref", and "p", the receiver of the forwarding methods.
var reserved = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
	"ref": true, "p": true,
}

// Ident returns name, suffixed with an underscore if it is reserved.
func Ident(name string) string {
	if reserved[name] {
		return name + "_"
	}
	return name
}

// GoName is the Go spelling of a registry type name.
func GoName(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// Exported returns the method name for a command: a leading "gl" is dropped
// when an upper-case letter follows, otherwise the first letter is upper-cased.
func Exported(command string) string {
	if rest := strings.TrimPrefix(command, "gl"); rest != command && rest != "" {
		if r, _ := utf8.DecodeRuneInString(rest); unicode.IsUpper(r) {
			return rest
		}
	}
	r, size := utf8.DecodeRuneInString(command)
	return string(unicode.ToUpper(r)) + command[size:]
}

// PresenceField returns the Procs field reporting whether ext was detected,
// e.g. "GL_EXT_texture_filter_anisotropic" becomes "HasEXT_texture_filter_anisotropic".
func PresenceField(ext string) string {
	return "Has" + strings.TrimPrefix(ext, "GL_")
}
