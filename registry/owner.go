package registry

// Owner records what made a symbol visible: the core version selection or a
// named extension.
type Owner struct {
	ext string
}

// Core owns everything selected by a <feature> block.
var Core = Owner{}

// Extension returns the owner for symbols required by the named extension.
func Extension(name string) Owner {
	if name == "" {
		panic("registry: extension owner needs a name")
	}
	return Owner{ext: name}
}

// IsCore reports whether o is Core.
func (o Owner) IsCore() bool {
	return o.ext == ""
}

// Extension returns the extension name, or "" for Core.
func (o Owner) Extension() string {
	return o.ext
}

func (o Owner) String() string {
	if o.IsCore() {
		return "core"
	}
	return o.ext
}
