package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestSentinelConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		contains string
	}{
		{"invalid version", InvalidVersion("gx1.0", "bad prefix"), ErrInvalidVersionToken, "gx1.0"},
		{"unknown type", UnknownType("GLfoo"), ErrUnknownType, "GLfoo"},
		{"malformed", Malformed("GLbar", "no rule matches %q", "typedef"), ErrMalformedDeclaration, "GLbar"},
		{"duplicate", Duplicate("GL_ONE", "defined twice"), ErrDuplicateName, "GL_ONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.True(t, Is(tt.err, tt.sentinel))
			assert.Contains(t, tt.err.Error(), tt.contains)

			// Marks survive wrapping
			wrapped := Wrap(tt.err, "context")
			assert.True(t, Is(wrapped, tt.sentinel))
		})
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	err := UnknownType("GLfoo")
	assert.False(t, Is(err, ErrMalformedDeclaration))
	assert.False(t, Is(err, ErrDuplicateName))
}

func TestInvalidVersionHasHint(t *testing.T) {
	err := InvalidVersion("vk1.0", "must start with gl, glcore, or gles")
	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Contains(t, hints[0], "glcore3.3")
}

func TestNewExtensionError(t *testing.T) {
	assert.NoError(t, NewExtensionError(nil))

	err := NewExtensionError([]ExtensionProblem{
		{Name: "GL_EXT_missing", Reason: "not found"},
		{Name: "GL_OES_desktop", Reason: "not supported for api gl"},
	})
	require.Error(t, err)
	assert.True(t, Is(err, ErrUnresolvableExtension))
	assert.Contains(t, err.Error(), "GL_EXT_missing")
	assert.Contains(t, err.Error(), "GL_OES_desktop")

	var extErr *ExtensionError
	require.True(t, As(err, &extErr))
	assert.Len(t, extErr.Problems, 2)

	details := FlattenDetails(err)
	assert.Contains(t, details, "GL_EXT_missing: not found")
	assert.Contains(t, details, "GL_OES_desktop: not supported for api gl")
}
