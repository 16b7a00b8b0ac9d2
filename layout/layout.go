// Package layout orders the selected commands so that every owner's entry
// points sit in one contiguous run of the procedure table. The generated
// constructor loads or stubs each run in bulk.
package layout

import (
	"sort"

	"github.com/teranos/glbind/registry"
)

// Entry is one selected command awaiting a table index.
type Entry struct {
	Name     string
	Owner    registry.Owner
	Position int
}

// Range is the half-open index interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices in r.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether i lies in r.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Layout is the procedure table arrangement.
type Layout struct {
	// Order holds command names by table index.
	Order []string
	Index map[string]int
	// Owners lists the owners that have commands, in table order.
	Owners []registry.Owner
	Ranges map[registry.Owner]Range
	owners map[string]registry.Owner
}

// Size returns the table length.
func (l *Layout) Size() int {
	return len(l.Order)
}

// OwnerOf returns the owner of the named command.
func (l *Layout) OwnerOf(name string) registry.Owner {
	return l.owners[name]
}

// Select lists the commands the binding exposes: selected, defined in the
// commands table and allowed. Entries come back in document order.
func Select(sel *registry.Selection, commands *registry.Table[registry.Command], allow *registry.AllowList) []Entry {
	var entries []Entry
	for name, owner := range sel.Commands {
		cmd, ok := commands.Get(name)
		if !ok || !allow.Allows(name) {
			continue
		}
		entries = append(entries, Entry{Name: name, Owner: owner, Position: cmd.Position})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })
	return entries
}

// Sort orders entries by owner (Core first, then extensions in request
// order) and by original position within an owner, then records each
// owner's range.
func Sort(entries []Entry, extensions []string) *Layout {
	rank := make(map[registry.Owner]int, len(extensions)+1)
	rank[registry.Core] = 0
	for i, ext := range extensions {
		if _, ok := rank[registry.Extension(ext)]; !ok {
			rank[registry.Extension(ext)] = i + 1
		}
	}
	rankOf := func(o registry.Owner) int {
		if r, ok := rank[o]; ok {
			return r
		}
		return len(extensions) + 1
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := rankOf(sorted[i].Owner), rankOf(sorted[j].Owner)
		if ri != rj {
			return ri < rj
		}
		if ri == len(extensions)+1 && sorted[i].Owner != sorted[j].Owner {
			return sorted[i].Owner.String() < sorted[j].Owner.String()
		}
		return sorted[i].Position < sorted[j].Position
	})

	l := &Layout{
		Order:  make([]string, len(sorted)),
		Index:  make(map[string]int, len(sorted)),
		Ranges: make(map[registry.Owner]Range),
		owners: make(map[string]registry.Owner, len(sorted)),
	}
	start := 0
	for i, e := range sorted {
		l.Order[i] = e.Name
		l.Index[e.Name] = i
		l.owners[e.Name] = e.Owner
		if i > 0 && e.Owner != sorted[i-1].Owner {
			l.close(sorted[i-1].Owner, start, i)
			start = i
		}
	}
	if len(sorted) > 0 {
		l.close(sorted[len(sorted)-1].Owner, start, len(sorted))
	}
	return l
}

func (l *Layout) close(o registry.Owner, start, end int) {
	l.Owners = append(l.Owners, o)
	l.Ranges[o] = Range{Start: start, End: end}
}

// Names returns the command names in r.
func (l *Layout) Names(r Range) []string {
	return l.Order[r.Start:r.End]
}
