package ctype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw   string
		want  Expr
		canon string
	}{
		{"GLenum", Expr{Base: "GLenum"}, "GLenum"},
		{"  unsigned   int ", Expr{Base: "unsigned int"}, "unsigned int"},
		{"void", Expr{Base: "void"}, "void"},
		{"void *", Expr{Base: "void", Quals: []bool{false}}, "void *"},
		{"const GLchar *", Expr{Const: true, Base: "GLchar", Quals: []bool{false}}, "const GLchar *"},
		{"GLchar const*", Expr{Const: true, Base: "GLchar", Quals: []bool{false}}, "const GLchar *"},
		{"const GLchar *const*", Expr{Const: true, Base: "GLchar", Quals: []bool{true, false}}, "const GLchar *const*"},
		{"GLuint **", Expr{Base: "GLuint", Quals: []bool{false, false}}, "GLuint **"},
		{"struct _cl_context *", Expr{Base: "void", Quals: []bool{false}}, "void *"},
		{"void*const", Expr{Base: "void", Quals: []bool{true}}, "void *const"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Parse(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want.Const, got.Const)
			assert.Equal(t, tt.want.Base, got.Base)
			assert.Equal(t, len(tt.want.Quals), got.Depth())
			for i := range tt.want.Quals {
				assert.Equal(t, tt.want.Quals[i], got.Quals[i], "qualifier %d", i)
			}
			assert.Equal(t, tt.canon, got.String())
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, raw := range []string{"", "   ", "*", "const", "const *", "void (*fn)(int)"} {
		_, ok := Parse(raw)
		assert.False(t, ok, "%q should not parse", raw)
	}
}

func TestParseIsWhitespaceInsensitive(t *testing.T) {
	variants := []string{
		"const GLchar*const *",
		"const GLchar *const*",
		"const GLchar * const *",
		"  const   GLchar*const*  ",
		"const GLchar\t*\nconst *",
	}

	want, ok := Parse(variants[0])
	require.True(t, ok)

	for _, raw := range variants[1:] {
		got, ok := Parse(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got, "%q", raw)
	}
}

func TestPointeeConst(t *testing.T) {
	// const GLchar *const* : pointer to (const pointer to const GLchar)
	e, ok := Parse("const GLchar *const*")
	require.True(t, ok)
	assert.True(t, e.PointeeConst(0), "outer pointer points at a const pointer")
	assert.True(t, e.PointeeConst(1), "inner pointer points at const GLchar")

	// const GLchar ** : pointer to (mutable pointer to const GLchar)
	e, ok = Parse("const GLchar **")
	require.True(t, ok)
	assert.False(t, e.PointeeConst(0))
	assert.True(t, e.PointeeConst(1))

	// single level: outermost const iff the base is const
	e, ok = Parse("const void *")
	require.True(t, ok)
	assert.True(t, e.PointeeConst(0))

	e, ok = Parse("void *")
	require.True(t, ok)
	assert.False(t, e.PointeeConst(0))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "const void*", Normalize("const struct __GLsync *"))
	assert.Equal(t, "GLuint*const*", Normalize("GLuint * const * "))
}
