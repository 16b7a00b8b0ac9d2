package registry

import (
	"sort"
	"strings"

	"github.com/teranos/glbind/dom"
	"github.com/teranos/glbind/errors"
)

// GroupKind tells plain enumerations from bit masks.
type GroupKind int

const (
	GroupOrdinary GroupKind = iota
	GroupBitmask
)

func (k GroupKind) String() string {
	if k == GroupBitmask {
		return "bitmask"
	}
	return "ordinary"
}

// Group is a named set of related constants.
type Group struct {
	Name    string
	Kind    GroupKind
	Comment string
	// Members are sorted and unique.
	Members []string
}

// ExtractGroups gathers groups from the three places a registry declares
// them: <groups>/<group> lists, the "group" attribute of an <enums> block, and
// the comma-separated "group" attribute of individual <enum> elements.
func ExtractGroups(root *dom.Element) (*Table[Group], error) {
	groups := make(map[string]*Group)
	get := func(name string) *Group {
		g, ok := groups[name]
		if !ok {
			g = &Group{Name: name}
			groups[name] = g
		}
		return g
	}

	for _, container := range root.ElementsNamed("groups") {
		for _, el := range container.ElementsNamed("group") {
			name, ok := el.Attr("name")
			if !ok {
				return nil, errors.Malformed(el.Text(), "group has no name")
			}
			g := get(name)
			if c, ok := el.Attr("comment"); ok {
				g.Comment = c
			}
			for _, member := range el.ElementsNamed("enum") {
				if n, ok := member.Attr("name"); ok {
					g.Members = append(g.Members, n)
				}
			}
		}
	}

	for _, block := range root.ElementsNamed("enums") {
		blockGroup, hasBlockGroup := block.Attr("group")
		if hasBlockGroup {
			g := get(blockGroup)
			switch typ, _ := block.Attr("type"); typ {
			case "":
			case "bitmask":
				g.Kind = GroupBitmask
			default:
				return nil, errors.Malformed(blockGroup, "unknown enums type %q", typ)
			}
			if c, ok := block.Attr("comment"); ok && g.Comment == "" {
				g.Comment = c
			}
		}

		for _, el := range block.ElementsNamed("enum") {
			name, ok := el.Attr("name")
			if !ok || el.HasAttr("alias") {
				continue
			}
			if hasBlockGroup {
				g := get(blockGroup)
				g.Members = append(g.Members, name)
			}
			if list, ok := el.Attr("group"); ok {
				for _, gname := range strings.Split(list, ",") {
					if gname = strings.TrimSpace(gname); gname != "" {
						g := get(gname)
						g.Members = append(g.Members, name)
					}
				}
			}
		}
	}

	table := NewTable[Group]()
	for name, g := range groups {
		g.Members = uniqueSorted(g.Members)
		table.Put(name, *g)
	}
	return table, nil
}

func uniqueSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	sort.Strings(in)
	out := in[:1]
	for _, s := range in[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
