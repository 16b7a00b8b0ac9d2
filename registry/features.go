package registry

import (
	"fmt"

	"github.com/teranos/glbind/dom"
	"github.com/teranos/glbind/errors"
	"github.com/teranos/glbind/target"
)

// Selection maps every visible symbol to the owner that made it visible.
type Selection struct {
	Types    map[string]Owner
	Values   map[string]Owner
	Commands map[string]Owner
	// Extensions are the requested extensions in request order.
	Extensions []string
}

func newSelection(extensions []string) *Selection {
	return &Selection{
		Types:      make(map[string]Owner),
		Values:     make(map[string]Owner),
		Commands:   make(map[string]Owner),
		Extensions: extensions,
	}
}

// blockKind is the kind of a child block of <feature> or <extension>.
type blockKind int

const (
	blockRequire blockKind = iota
	blockRemove
)

func parseBlockKind(name string) (blockKind, bool) {
	switch name {
	case "require":
		return blockRequire, true
	case "remove":
		return blockRemove, true
	}
	return 0, false
}

// requireSymbol makes name visible, owned by o. A later require wins.
func requireSymbol(m map[string]Owner, name string, o Owner) {
	m[name] = o
}

// removeSymbol hides name whoever owned it.
func removeSymbol(m map[string]Owner, name string) {
	delete(m, name)
}

func (k blockKind) apply(m map[string]Owner, name string, o Owner) {
	switch k {
	case blockRequire:
		requireSymbol(m, name, o)
	case blockRemove:
		removeSymbol(m, name)
	}
}

// Resolve walks the <feature> blocks that apply to v and the <extension>
// blocks named in extensions, applying require and remove in document order.
// Every unresolvable extension is reported in one *errors.ExtensionError.
func Resolve(root *dom.Element, v target.Version, extensions []string) (*Selection, error) {
	sel := newSelection(extensions)

	var problems []errors.ExtensionProblem
	requested := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if requested[ext] {
			problems = append(problems, errors.ExtensionProblem{Name: ext, Reason: "requested more than once"})
			continue
		}
		requested[ext] = true
	}

	found := make(map[string]bool)
	for _, el := range root.Elements() {
		switch el.Name {
		case "feature":
			if !v.CorrectAPI(el) || !v.CorrectVersion(el) {
				continue
			}
			if err := sel.applyBlocks(el, v, Core); err != nil {
				return nil, err
			}

		case "extensions":
			for _, ext := range el.ElementsNamed("extension") {
				name, _ := ext.Attr("name")
				if !requested[name] || found[name] {
					continue
				}
				found[name] = true
				if !v.Supported(ext) {
					problems = append(problems, errors.ExtensionProblem{
						Name:   name,
						Reason: fmt.Sprintf("not supported by %s", v.API()),
					})
					continue
				}
				if err := sel.applyBlocks(ext, v, Extension(name)); err != nil {
					return nil, err
				}
			}
		}
	}

	for _, ext := range extensions {
		if requested[ext] && !found[ext] {
			problems = append(problems, errors.ExtensionProblem{Name: ext, Reason: "not found in registry"})
			// report each missing name once even if it was requested twice
			requested[ext] = false
		}
	}

	if err := errors.NewExtensionError(problems); err != nil {
		return nil, err
	}
	return sel, nil
}

func (sel *Selection) applyBlocks(parent *dom.Element, v target.Version, o Owner) error {
	for _, block := range parent.Elements() {
		kind, ok := parseBlockKind(block.Name)
		if !ok || !v.CorrectProfile(block) || !v.CorrectAPI(block) {
			continue
		}
		for _, item := range block.Elements() {
			var m map[string]Owner
			switch item.Name {
			case "type":
				m = sel.Types
			case "enum":
				m = sel.Values
			case "command":
				m = sel.Commands
			default:
				continue
			}
			name, ok := item.Attr("name")
			if !ok {
				symbol, _ := parent.Attr("name")
				return errors.Malformed(symbol, "<%s> in <%s> has no name", item.Name, block.Name)
			}
			kind.apply(m, name, o)
		}
	}
	return nil
}

// Feature describes one <feature> block.
type Feature struct {
	API    string
	Number string
	Name   string
}

// ListFeatures returns every <feature> block in document order.
func ListFeatures(root *dom.Element) []Feature {
	var out []Feature
	for _, el := range root.ElementsNamed("feature") {
		var f Feature
		f.API, _ = el.Attr("api")
		f.Number, _ = el.Attr("number")
		f.Name, _ = el.Attr("name")
		out = append(out, f)
	}
	return out
}
