package registry

import (
	"regexp"

	"github.com/teranos/glbind/ctype"
	"github.com/teranos/glbind/dom"
	"github.com/teranos/glbind/errors"
	"github.com/teranos/glbind/target"
)

// Command is one entry point. Types stay unresolved until the command is
// selected, so commands outside the selection may mention any type.
type Command struct {
	Name string
	// Position is the command's index among <command> elements in the document.
	Position int
	Result   ctype.Expr
	Params   []Param
	// Touched lists the base type names the signature mentions, in first-use order.
	Touched []string
}

// Param is a named command parameter. Names are already safe Go identifiers.
type Param struct {
	Name string
	Type ctype.Expr
}

// typeAndName splits "<type> <identifier>[N]" blobs from <proto> and <param>.
var typeAndName = regexp.MustCompile(`^(.+?)([_a-zA-Z][_a-zA-Z0-9]*)((?:\[[0-9]+\])?)$`)

// Signature translates the command into Go parameters and a result type.
// With placeholders set every parameter is named "_".
func (c Command) Signature(tr *ctype.Translator, placeholders bool) ([]ctype.Param, string, error) {
	result, err := tr.Go(c.Result, nil)
	if err != nil {
		return nil, "", errors.Wrapf(err, "return type of %s", c.Name)
	}
	params := make([]ctype.Param, 0, len(c.Params))
	for _, p := range c.Params {
		goType, err := tr.Go(p.Type, nil)
		if err != nil {
			return nil, "", errors.Wrapf(err, "parameter %s of %s", p.Name, c.Name)
		}
		name := p.Name
		if placeholders {
			name = "_"
		}
		params = append(params, ctype.Param{Name: name, Type: goType})
	}
	return params, result, nil
}

// ExtractCommands parses every <commands>/<command> for the selected api.
func ExtractCommands(root *dom.Element, v target.Version) (*Table[Command], error) {
	table := NewTable[Command]()
	position := 0
	for _, container := range root.ElementsNamed("commands") {
		for _, el := range container.ElementsNamed("command") {
			if !v.CorrectAPI(el) {
				continue
			}
			cmd, err := parseCommand(el)
			if err != nil {
				return nil, err
			}
			if table.Has(cmd.Name) {
				return nil, errors.Duplicate(cmd.Name, "command defined more than once")
			}
			cmd.Position = position
			position++
			table.Put(cmd.Name, cmd)
		}
	}
	return table, nil
}

func parseCommand(el *dom.Element) (Command, error) {
	var cmd Command
	var touched ctype.Deps
	touch := func(e ctype.Expr) {
		if e.Base != "void" {
			touched.Add(e.Base)
		}
	}

	protos := el.ElementsNamed("proto")
	switch len(protos) {
	case 0:
		return Command{}, errors.Malformed(el.Text(), "command has no <proto>")
	case 1:
	default:
		return Command{}, errors.Duplicate(protos[0].Text(), "command has %d <proto> elements", len(protos))
	}

	proto := protos[0].Text()
	m := typeAndName.FindStringSubmatch(proto)
	if m == nil {
		return Command{}, errors.Malformed(proto, "cannot split return type and name")
	}
	cmd.Name = m[2]
	result, ok := ctype.Parse(m[1])
	if !ok {
		return Command{}, errors.Malformed(cmd.Name, "cannot parse return type %q", m[1])
	}
	cmd.Result = result
	touch(result)

	for _, p := range el.ElementsNamed("param") {
		text := p.Text()
		m := typeAndName.FindStringSubmatch(text)
		if m == nil {
			return Command{}, errors.Malformed(cmd.Name, "cannot parse parameter %q", text)
		}
		raw := m[1]
		// a fixed-size array parameter decays to a pointer
		if m[3] != "" {
			raw += "*"
		}
		typ, ok := ctype.Parse(raw)
		if !ok {
			return Command{}, errors.Malformed(cmd.Name, "cannot parse parameter type %q", raw)
		}
		cmd.Params = append(cmd.Params, Param{Name: ctype.Ident(m[2]), Type: typ})
		touch(typ)
	}

	cmd.Touched = touched.Names()
	return cmd, nil
}
