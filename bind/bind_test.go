package bind

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/glbind/config"
	"github.com/teranos/glbind/errors"
	"github.com/teranos/glbind/internal/httpclient"
	glt "github.com/teranos/glbind/internal/testing"
	"github.com/teranos/glbind/registry"
	"github.com/teranos/glbind/target"
)

func TestFromRootModel(t *testing.T) {
	r, err := FromRoot(context.Background(), glt.Mini(t), Options{
		Target:     target.MustParse("gles2.0"),
		Extensions: []string{"GL_KHR_debug"},
	})
	require.NoError(t, err)

	m := r.Model
	assert.Equal(t, "gl", m.Package, "package defaults")
	assert.False(t, m.Partial)
	assert.Equal(t, []string{"GL_KHR_debug"}, m.Extensions)
	require.Len(t, m.Comments, 1)
	assert.Contains(t, m.Comments[0], "SPDX-License-Identifier")
	assert.NotEmpty(t, m.GeneratorVersion)

	// types follow document order
	var names []string
	for _, typ := range m.Types {
		names = append(names, typ.Name)
	}
	assert.Equal(t, "khrplatform", names[0])
	assert.Contains(t, names, "GLDEBUGPROC")
	assert.Contains(t, names, "GLDEBUGPROCKHR")
	for i := 1; i < len(m.Types); i++ {
		assert.Less(t, m.Types[i-1].Position, m.Types[i].Position)
	}

	var values []string
	for _, v := range m.Values {
		values = append(values, v.Name)
	}
	assert.Equal(t, []string{
		"GL_COLOR_BUFFER_BIT", "GL_DEPTH_BUFFER_BIT", "GL_FALSE", "GL_TRUE",
		"GL_TRIANGLES", "GL_VENDOR", "GL_EXTENSIONS", "GL_DEBUG_OUTPUT",
	}, values)

	assert.Equal(t, []string{"glClear", "glDrawArrays", "glGetString", "glGetIntegerv", "glShaderSource", "glDebugMessageCallbackKHR"}, r.Layout.Order)
	assert.Equal(t, registry.Extension("GL_KHR_debug"), r.Layout.OwnerOf("glDebugMessageCallbackKHR"))

	// groups are extracted for inspection even though nothing emits them
	g, ok := r.Groups.Get("StringName")
	require.True(t, ok)
	assert.Equal(t, []string{"GL_EXTENSIONS", "GL_VENDOR"}, g.Members)
}

func TestFromRootAllowListAddsProbe(t *testing.T) {
	allow := glt.WriteFile(t, "allow.txt", "glBindVertexArrayOES\n")
	r, err := FromRoot(context.Background(), glt.Mini(t), Options{
		Target:     target.MustParse("gles2.0"),
		Extensions: []string{"GL_OES_vertex_array_object"},
		AllowList:  allow,
	})
	require.NoError(t, err)
	assert.True(t, r.Model.Partial)
	assert.True(t, r.Allow.Allows(registry.ProbeGetString))
	assert.Equal(t, []string{"glGetString", "glGetIntegerv", "glBindVertexArrayOES"}, r.Layout.Order)
}

func TestFromRootErrors(t *testing.T) {
	ctx := context.Background()

	_, err := FromRoot(ctx, glt.Parse(t, `<notregistry/>`), Options{Target: target.MustParse("gl1.0")})
	assert.True(t, errors.Is(err, errors.ErrMalformedDeclaration))

	_, err = FromRoot(ctx, glt.Mini(t), Options{
		Target:     target.MustParse("gles2.0"),
		Extensions: []string{"GL_OES_fixed_point", "GL_NV_nonexistent"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnresolvableExtension))
	var extErr *errors.ExtensionError
	require.True(t, errors.As(err, &extErr))
	assert.Len(t, extErr.Problems, 2)

	_, err = FromRoot(ctx, glt.Mini(t), Options{
		Target:    target.MustParse("gles2.0"),
		AllowList: "/nonexistent/allow.txt",
	})
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = FromRoot(cancelled, glt.Mini(t), Options{Target: target.MustParse("gles2.0")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateFromFile(t *testing.T) {
	path := glt.WriteFile(t, "gl.xml", glt.MiniRegistry)
	res, err := Generate(context.Background(), Options{
		Registry: path,
		Target:   target.MustParse("gl3.2"),
		Package:  "glcompat",
	})
	require.NoError(t, err)
	assert.Contains(t, string(res.Source), "package glcompat")
	assert.Contains(t, string(res.Source), "binding for OpenGL 3.2")
	// compatibility profile keeps what the core profile removes
	assert.Contains(t, res.Layout.Order, "glLoadMatrixf")
}

func TestGenerateFromHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(glt.MiniRegistry))
	}))
	defer server.Close()

	res, err := Generate(context.Background(), Options{
		Registry: server.URL + "/gl.xml",
		HTTP:     httpclient.Options{AllowPrivate: true},
		Target:   target.MustParse("glcore3.2"),
	})
	require.NoError(t, err)
	assert.NotContains(t, res.Layout.Order, "glLoadMatrixf")
	assert.Contains(t, res.Layout.Order, "glGetStringi")
}

func TestLoadBadXML(t *testing.T) {
	path := glt.WriteFile(t, "gl.xml", "<registry><types>")
	_, err := Load(context.Background(), Options{Registry: path})
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	c := &config.Config{
		Registry:             "gl.xml",
		AllowPrivateRegistry: true,
		Target:               "glcore4.5",
		Extensions:           []string{"GL_KHR_debug"},
		Package:              "gl45",
		DisableEnv:           "NO_GL_EXT",
	}
	opts, err := OptionsFromConfig(c)
	require.NoError(t, err)
	assert.Equal(t, "glcore", opts.Target.Namespace())
	assert.True(t, opts.HTTP.AllowPrivate)
	assert.Equal(t, "gl45", opts.Package)
	assert.Equal(t, "NO_GL_EXT", opts.DisableEnv)

	c.Target = "gl"
	_, err = OptionsFromConfig(c)
	assert.True(t, errors.Is(err, errors.ErrInvalidVersionToken))
}
