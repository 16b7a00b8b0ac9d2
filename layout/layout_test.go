package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	glbindtest "github.com/teranos/glbind/internal/testing"
	"github.com/teranos/glbind/registry"
	"github.com/teranos/glbind/target"
)

var (
	extA = registry.Extension("GL_EXT_a")
	extB = registry.Extension("GL_EXT_b")
)

func TestSortTilesTableByOwner(t *testing.T) {
	// document order interleaves owners
	entries := []Entry{
		{Name: "glA1", Owner: extA, Position: 0},
		{Name: "glCore1", Owner: registry.Core, Position: 1},
		{Name: "glB1", Owner: extB, Position: 2},
		{Name: "glCore2", Owner: registry.Core, Position: 3},
		{Name: "glA2", Owner: extA, Position: 4},
		{Name: "glCore3", Owner: registry.Core, Position: 5},
	}

	l := Sort(entries, []string{"GL_EXT_a", "GL_EXT_b"})

	assert.Equal(t, 6, l.Size())
	assert.Equal(t, []string{"glCore1", "glCore2", "glCore3", "glA1", "glA2", "glB1"}, l.Order)
	assert.Equal(t, Range{0, 3}, l.Ranges[registry.Core])
	assert.Equal(t, Range{3, 5}, l.Ranges[extA])
	assert.Equal(t, Range{5, 6}, l.Ranges[extB])
	assert.Equal(t, []registry.Owner{registry.Core, extA, extB}, l.Owners)
	assert.Equal(t, []string{"glA1", "glA2"}, l.Names(l.Ranges[extA]))
}

func TestSortFollowsRequestOrder(t *testing.T) {
	entries := []Entry{
		{Name: "glA", Owner: extA, Position: 0},
		{Name: "glB", Owner: extB, Position: 1},
	}
	l := Sort(entries, []string{"GL_EXT_b", "GL_EXT_a"})
	assert.Equal(t, []string{"glB", "glA"}, l.Order)
	_, hasCore := l.Ranges[registry.Core]
	assert.False(t, hasCore, "no core range without core commands")
}

func TestSortRangesPartitionTable(t *testing.T) {
	var entries []Entry
	owners := []registry.Owner{extB, registry.Core, extA, registry.Core, extB, extA, registry.Core}
	for i, o := range owners {
		entries = append(entries, Entry{Name: string(rune('a' + i)), Owner: o, Position: i})
	}
	l := Sort(entries, []string{"GL_EXT_a", "GL_EXT_b"})

	// ranges tile [0, size) with no gaps or overlaps
	next := 0
	for _, o := range l.Owners {
		r := l.Ranges[o]
		assert.Equal(t, next, r.Start)
		assert.Greater(t, r.Len(), 0)
		next = r.End
	}
	assert.Equal(t, l.Size(), next)

	// every command's index lies in its owner's range
	for _, e := range entries {
		assert.True(t, l.Ranges[e.Owner].Contains(l.Index[e.Name]), e.Name)
		assert.Equal(t, e.Owner, l.OwnerOf(e.Name))
	}
}

func TestSortEmpty(t *testing.T) {
	l := Sort(nil, nil)
	assert.Equal(t, 0, l.Size())
	assert.Empty(t, l.Ranges)
}

func TestSelect(t *testing.T) {
	root := glbindtest.Mini(t)
	v := target.MustParse("gles2.0")

	commands, err := registry.ExtractCommands(root, v)
	require.NoError(t, err)
	sel, err := registry.Resolve(root, v, []string{"GL_OES_vertex_array_object"})
	require.NoError(t, err)

	entries := Select(sel, commands, nil)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"glClear", "glDrawArrays", "glGetString", "glGetIntegerv", "glShaderSource", "glBindVertexArrayOES"}, names)

	l := Sort(entries, sel.Extensions)
	assert.Equal(t, Range{0, 5}, l.Ranges[registry.Core])
	assert.Equal(t, Range{5, 6}, l.Ranges[registry.Extension("GL_OES_vertex_array_object")])

	allow, err := registry.ParseAllowList(strings.NewReader("glClear\nglBindVertexArrayOES\n"))
	require.NoError(t, err)
	entries = Select(sel, commands, allow)
	require.Len(t, entries, 2)
	assert.Equal(t, "glClear", entries[0].Name)
}
