package registry

import (
	"github.com/teranos/glbind/ctype"
	"github.com/teranos/glbind/dom"
	"github.com/teranos/glbind/errors"
	"github.com/teranos/glbind/target"
)

// Type is one translated <type> entry.
type Type struct {
	Name    string
	Kind    ctype.Kind
	Code    string // empty when suppressed
	Comment string
	// Deps are the registry types Code refers to plus any "requires" entry.
	Deps []string
	// Cgo is set when Code names a cgo type.
	Cgo bool
	// Position orders declarations as the document does.
	Position int
}

// Types is the types table and the translator that built it. The translator
// keeps resolving against the finished table, so command signatures translate
// with it later.
type Types struct {
	*Table[Type]
	Translator *ctype.Translator
}

// ExtractTypes translates every <types>/<type> for the selected api, in
// document order so each declaration may refer to the ones before it. A later
// entry of the same name replaces an earlier one.
func ExtractTypes(root *dom.Element, v target.Version, withoutCgo bool) (*Types, error) {
	table := NewTable[Type]()
	tr := ctype.NewTranslator(withoutCgo, table.Has)
	position := 0

	for _, container := range root.ElementsNamed("types") {
		for _, el := range container.ElementsNamed("type") {
			if !v.CorrectAPI(el) {
				continue
			}
			name, err := typeName(el)
			if err != nil {
				return nil, err
			}
			decl, err := tr.Declare(name, el.Text())
			if err != nil {
				return nil, err
			}

			typ := Type{
				Name:     name,
				Kind:     decl.Kind,
				Code:     decl.Code,
				Deps:     decl.Deps,
				Cgo:      decl.Cgo,
				Position: position,
			}
			position++
			typ.Comment, _ = el.Attr("comment")
			if req, ok := el.Attr("requires"); ok && !contains(typ.Deps, req) {
				typ.Deps = append(typ.Deps, req)
			}
			table.Put(name, typ)
		}
	}
	return &Types{Table: table, Translator: tr}, nil
}

// typeName is the "name" attribute, or the text of the single <name> child.
func typeName(el *dom.Element) (string, error) {
	if name, ok := el.Attr("name"); ok {
		return name, nil
	}
	names := el.ElementsNamed("name")
	switch len(names) {
	case 0:
		return "", errors.Malformed(el.Text(), "type has no name")
	case 1:
		return names[0].Text(), nil
	}
	return "", errors.Duplicate(names[0].Text(), "type declares %d names", len(names))
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
