package registry

import "sort"

// Table is a symbol table: items by name plus the names in lexicographic
// order. Extractors fill a Table and hand it over read-only.
type Table[T any] struct {
	items map[string]T
	names []string
}

// NewTable returns an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{items: make(map[string]T)}
}

// Put stores v under name, replacing any earlier entry.
func (t *Table[T]) Put(name string, v T) {
	if _, ok := t.items[name]; !ok {
		i := sort.SearchStrings(t.names, name)
		t.names = append(t.names, "")
		copy(t.names[i+1:], t.names[i:])
		t.names[i] = name
	}
	t.items[name] = v
}

// Get returns the entry for name.
func (t *Table[T]) Get(name string) (T, bool) {
	v, ok := t.items[name]
	return v, ok
}

// Has reports whether name has an entry.
func (t *Table[T]) Has(name string) bool {
	_, ok := t.items[name]
	return ok
}

// Len returns the number of entries.
func (t *Table[T]) Len() int {
	return len(t.items)
}

// Names returns every name in lexicographic order. The slice is shared.
func (t *Table[T]) Names() []string {
	return t.names
}
