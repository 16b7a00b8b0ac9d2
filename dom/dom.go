// Package dom holds the attributed declaration tree the registry passes
// operate on. The tree is built once by Read and is read-only afterwards.
package dom

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/teranos/glbind/errors"
)

// Node is either an *Element or a Text.
type Node interface {
	node()
}

// Text is a run of character data.
type Text string

func (Text) node() {}

// Element is a named node with attributes and ordered children.
type Element struct {
	Name     string
	Attrs    map[string]string
	Children []Node
}

func (*Element) node() {}

// Attr returns the named attribute and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attrs[name]
	return ok
}

// Elements returns the element children in document order.
func (e *Element) Elements() []*Element {
	out := make([]*Element, 0, len(e.Children))
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// ElementsNamed returns the element children called name, in document order.
func (e *Element) ElementsNamed(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Name == name {
			out = append(out, el)
		}
	}
	return out
}

// Text concatenates all descendant character data in document order.
func (e *Element) Text() string {
	var sb strings.Builder
	e.writeText(&sb)
	return sb.String()
}

func (e *Element) writeText(sb *strings.Builder) {
	for _, c := range e.Children {
		switch n := c.(type) {
		case Text:
			sb.WriteString(string(n))
		case *Element:
			n.writeText(sb)
		}
	}
}

// Read builds the declaration tree for the single root element of r.
// Comments, processing instructions and directives are dropped; text
// outside the root is ignored.
func Read(r io.Reader) (*Element, error) {
	decoder := xml.NewDecoder(r)

	var stack []*Element
	var root *Element

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse registry XML")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, errors.Newf("unexpected element %s after document end", t.Name.Local)
			}
			el := &Element{
				Name:  t.Name.Local,
				Attrs: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				el.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			} else {
				root = el
			}
			stack = append(stack, el)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, Text(string(t)))
			}
		}
	}

	if root == nil {
		return nil, errors.Wrap(io.ErrUnexpectedEOF, "registry XML has no root element")
	}
	return root, nil
}
