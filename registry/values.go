package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teranos/glbind/dom"
	"github.com/teranos/glbind/errors"
	"github.com/teranos/glbind/target"
)

// Width is the numeric type of a constant.
type Width int

const (
	U32 Width = iota
	I32
	U64
)

func (w Width) String() string {
	switch w {
	case U32:
		return "uint32"
	case I32:
		return "int32"
	case U64:
		return "uint64"
	}
	return fmt.Sprintf("Width(%d)", int(w))
}

// Value is a named integer constant.
type Value struct {
	Name  string
	Width Width
	// Bits holds the value; I32 values are stored sign-extended.
	Bits uint64
	// Position is the constant's index among extracted constants.
	Position int
}

// Int returns the value as a signed integer. Only meaningful for I32.
func (v Value) Int() int64 {
	return int64(v.Bits)
}

// Literal renders the value in Go: unsigned values in upper-case hex, signed
// values in decimal.
func (v Value) Literal() string {
	if v.Width == I32 {
		return strconv.FormatInt(v.Int(), 10)
	}
	return fmt.Sprintf("0x%X", v.Bits)
}

// ParseValue parses an <enum> value. typ is the "type" attribute: "u" and
// "ull" select uint32 and uint64; without it a leading '-' selects int32 and
// anything else uint32. Values that do not fit their width are rejected.
func ParseValue(name, literal, typ string, hasType bool) (Value, error) {
	width := U32
	switch {
	case !hasType && strings.HasPrefix(literal, "-"):
		width = I32
	case !hasType, typ == "u":
	case typ == "ull":
		width = U64
	default:
		return Value{}, errors.Malformed(name, "unknown enum type %q", typ)
	}

	digits, base := literal, 10
	negative := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits, base = digits[2:], 16
	}

	switch width {
	case I32:
		n, err := strconv.ParseInt(digits, base, 64)
		if err == nil && negative {
			n = -n
		}
		if err != nil || n < -1<<31 || n > 1<<31-1 {
			return Value{}, errors.Malformed(name, "value %q does not fit int32", literal)
		}
		return Value{Name: name, Width: I32, Bits: uint64(n)}, nil
	case U64:
		n, err := strconv.ParseUint(digits, base, 64)
		if err != nil || negative {
			return Value{}, errors.Malformed(name, "value %q does not fit uint64", literal)
		}
		return Value{Name: name, Width: U64, Bits: n}, nil
	}
	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil || negative {
		return Value{}, errors.Malformed(name, "value %q does not fit uint32", literal)
	}
	return Value{Name: name, Width: U32, Bits: n}, nil
}

// ExtractValues collects every non-alias <enums>/<enum> for the selected api.
func ExtractValues(root *dom.Element, v target.Version) (*Table[Value], error) {
	table := NewTable[Value]()
	for _, container := range root.ElementsNamed("enums") {
		for _, el := range container.ElementsNamed("enum") {
			if el.HasAttr("alias") || !v.CorrectAPI(el) {
				continue
			}
			name, ok := el.Attr("name")
			if !ok {
				continue
			}
			if table.Has(name) {
				return nil, errors.Duplicate(name, "constant defined more than once")
			}
			literal, ok := el.Attr("value")
			if !ok {
				return nil, errors.Malformed(name, "constant has no value")
			}
			typ, hasType := el.Attr("type")
			val, err := ParseValue(name, literal, typ, hasType)
			if err != nil {
				return nil, err
			}
			val.Position = table.Len()
			table.Put(name, val)
		}
	}
	return table, nil
}
