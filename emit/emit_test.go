package emit_test

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/glbind/bind"
	"github.com/teranos/glbind/emit"
	"github.com/teranos/glbind/errors"
	glt "github.com/teranos/glbind/internal/testing"
	"github.com/teranos/glbind/target"
)

func generate(t *testing.T, src string, opts bind.Options) (string, error) {
	t.Helper()
	r, err := bind.FromRoot(context.Background(), glt.Parse(t, src), opts)
	if err != nil {
		return "", err
	}
	out, err := emit.NewGenerator().GenerateFile(r.Model)
	return string(out), err
}

func mustGenerate(t *testing.T, opts bind.Options) string {
	t.Helper()
	out, err := generate(t, glt.MiniRegistry, opts)
	require.NoError(t, err)
	return out
}

func options(token string, extensions ...string) bind.Options {
	return bind.Options{
		Target:     target.MustParse(token),
		Extensions: extensions,
		Package:    "gl",
		DisableEnv: emit.DefaultDisableEnv,
	}
}

func assertMatches(t *testing.T, pattern, s string) {
	t.Helper()
	assert.Regexp(t, regexp.MustCompile(pattern), s)
}

func TestGenerateCoreOnly(t *testing.T) {
	out := mustGenerate(t, options("gles2.0"))

	assert.True(t, strings.HasPrefix(out, "// Code generated by glbind. DO NOT EDIT.\n// Generator version: "))
	assert.Contains(t, out, "// Package gl is a binding for OpenGL ES 2.0.")
	assert.Contains(t, out, "// It does not support any extensions.")
	assert.Contains(t, out, "package gl\n")

	// registry comments keep their text with trailing blanks removed
	assert.Contains(t, out, "// SPDX-License-Identifier: Apache-2.0\n")

	// host types go through cgo
	assert.Contains(t, out, `import "C"`)
	assert.Contains(t, out, "#include <stddef.h>")
	assert.Contains(t, out, "type GLenum = C.uint")
	assert.Contains(t, out, "type GLubyte = uint8")
	assert.NotContains(t, out, "khrplatform")

	assertMatches(t, `GL_COLOR_BUFFER_BIT\s+= 0x4000\n`, out)
	assertMatches(t, `GL_FALSE\s+= 0x0\n`, out)
	assert.NotContains(t, out, "GL_NUM_EXTENSIONS")

	assert.Contains(t, out, "procs [5]uintptr")
	assertMatches(t, `glClear\s+func\(mask GLbitfield\)\n`, out)
	assert.Contains(t, out, "func (p *Procs) Clear(mask GLbitfield) {\n\tp.glClear(mask)\n}")
	assert.Contains(t, out, "func (p *Procs) GetString(name GLenum) *GLubyte {\n\treturn p.glGetString(name)\n}")
	assert.Contains(t, out, "func (p *Procs) ShaderSource(shader GLuint, count GLsizei, string **GLchar, length *GLint) {")
	assert.Contains(t, out, "purego.RegisterFunc(&p.glClear, p.procs[0])")
	assert.Contains(t, out, "purego.RegisterFunc(&p.glShaderSource, p.procs[4])")
	assert.Contains(t, out, "if err := load(getProc, p.procs[0:5], procNames[0:5]); err != nil {")

	// no extensions, no probe
	assert.NotContains(t, out, "func (p *Procs) extensions()")
	assert.NotContains(t, out, "missingExtension")
	assert.NotContains(t, out, `"os"`)
	assert.NotContains(t, out, `"strings"`)
	assert.NotContains(t, out, `"unsafe"`)
}

func TestGenerateWithoutCgo(t *testing.T) {
	opts := options("gles2.0")
	opts.WithoutCgo = true
	out := mustGenerate(t, opts)

	assert.NotContains(t, out, `import "C"`)
	assert.NotContains(t, out, "C.uint")
	assert.NotContains(t, out, "C.int")
	assert.Contains(t, out, "type GLenum = uint32")
	assert.Contains(t, out, "type GLchar = byte")
}

func TestGenerateExtensions(t *testing.T) {
	out := mustGenerate(t, options("gles2.0",
		"GL_KHR_debug", "GL_OES_vertex_array_object", "GL_EXT_texture_filter_anisotropic"))

	assert.Contains(t, out, "// It supports the following extensions:\n//   - GL_KHR_debug\n//   - GL_OES_vertex_array_object\n//   - GL_EXT_texture_filter_anisotropic\n")
	assert.Contains(t, out, "procs [7]uintptr")

	// presence flags in request order
	khr := strings.Index(out, "HasKHR_debug bool")
	oes := strings.Index(out, "HasOES_vertex_array_object bool")
	aniso := strings.Index(out, "HasEXT_texture_filter_anisotropic bool")
	require.True(t, khr > 0 && oes > khr && aniso > oes)

	// the function pointer typedef and its alias come along with the command
	assert.Contains(t, out, "type GLDEBUGPROC = uintptr")
	assert.Contains(t, out, "type GLDEBUGPROCFunc = func(source GLenum, type_ GLenum, id GLuint, severity GLenum, length GLsizei, message *GLchar, userParam unsafe.Pointer)")
	assert.Contains(t, out, "type GLDEBUGPROCKHR = GLDEBUGPROC")

	assertMatches(t, `GL_DEBUG_OUTPUT\s+= 0x92E0\n`, out)
	assertMatches(t, `GL_MAX_TEXTURE_MAX_ANISOTROPY_EXT\s+= 0x84FF\n`, out)

	// gles2.0 has no glGetStringi, so the probe splits the extension string
	assert.Contains(t, out, "for _, name := range strings.Fields(goString(unsafe.Pointer(p.glGetString(GL_EXTENSIONS)))) {")
	assert.Contains(t, out, `os.Getenv("GLBIND_DISABLED_EXTENSIONS")`)
	assert.Contains(t, out, `p.HasKHR_debug = present["GL_KHR_debug"]`)

	// each extension range is loaded or stubbed
	assert.Contains(t, out, "if p.HasKHR_debug {\n\t\tif err := load(getProc, p.procs[5:6], procNames[5:6]); err != nil {")
	assert.Contains(t, out, "p.bindKHR_debug()\n\t} else {\n\t\tp.stubKHR_debug()\n\t}")
	assert.Contains(t, out, "if err := load(getProc, p.procs[6:7], procNames[6:7]); err != nil {")
	assert.Contains(t, out, "p.glDebugMessageCallbackKHR = func(_ GLDEBUGPROCKHR, _ unsafe.Pointer) {\n\t\tpanic(missingExtension(\"glDebugMessageCallbackKHR\", \"GL_KHR_debug\"))")
	assert.Contains(t, out, `" called, but the requisite extension ("`)
	assert.Contains(t, out, "purego.RegisterFunc(&p.glBindVertexArrayOES, p.procs[6])")

	// anisotropic filtering has no commands, so no range and no stub
	assert.NotContains(t, out, "stubEXT_texture_filter_anisotropic")
	assert.Contains(t, out, `p.HasEXT_texture_filter_anisotropic = present["GL_EXT_texture_filter_anisotropic"]`)

	// core loads before the probe runs
	assert.Less(t, strings.Index(out, "p.bindCore()\n"), strings.Index(out, "present := p.extensions()"))
}

func TestGenerateIndexedProbe(t *testing.T) {
	out := mustGenerate(t, options("gles3.0", "GL_KHR_debug"))

	assert.Contains(t, out, "var n GLint")
	assert.Contains(t, out, "p.glGetIntegerv(GL_NUM_EXTENSIONS, &n)")
	assert.Contains(t, out, "for i := GLint(0); i < n; i++ {")
	assert.Contains(t, out, "present[goString(unsafe.Pointer(p.glGetStringi(GL_EXTENSIONS, GLuint(i))))] = true")
	assert.Contains(t, out, "type GLsync = unsafe.Pointer")
	assertMatches(t, `GL_TIMEOUT_IGNORED\s+= 0xFFFFFFFFFFFFFFFF\n`, out)
}

func TestGenerateNoDisableEnv(t *testing.T) {
	opts := options("gles2.0", "GL_KHR_debug")
	opts.DisableEnv = ""
	out := mustGenerate(t, opts)

	assert.NotContains(t, out, "disabledExtensions")
	assert.NotContains(t, out, `"os"`)
}

func TestGeneratePartial(t *testing.T) {
	opts := options("gles2.0")
	opts.AllowList = glt.WriteFile(t, "allow.txt", "glClear\r\nGL_COLOR_BUFFER_BIT\r\nglNotInRegistry\r\n")
	out := mustGenerate(t, opts)

	assert.Contains(t, out, "// Package gl is a partial binding for OpenGL ES 2.0.")
	assert.Contains(t, out, "procs [1]uintptr")
	assert.Contains(t, out, "GL_COLOR_BUFFER_BIT = 0x4000")
	assert.NotContains(t, out, "GL_DEPTH_BUFFER_BIT")
	assert.NotContains(t, out, "glDrawArrays")
	// touched by glClear even though the allow-list does not name it
	assert.Contains(t, out, "type GLbitfield = C.uint")
}

func TestGeneratePartialWithExtensionsKeepsProbe(t *testing.T) {
	opts := options("gles2.0", "GL_OES_vertex_array_object")
	opts.AllowList = glt.WriteFile(t, "allow.txt", "glBindVertexArrayOES\n")
	out := mustGenerate(t, opts)

	assert.Contains(t, out, "procs [3]uintptr")
	assert.Contains(t, out, "p.glGetString(GL_EXTENSIONS)")
	assertMatches(t, `GL_EXTENSIONS\s+= 0x1F03\n`, out)
}

func TestGenerateIsDeterministic(t *testing.T) {
	opts := options("gles2.0", "GL_KHR_debug", "GL_OES_vertex_array_object")
	first := mustGenerate(t, opts)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, mustGenerate(t, opts))
	}
}

const noProbeRegistry = `<registry>
    <types>
        <type>typedef unsigned int <name>GLbitfield</name>;</type>
    </types>
    <enums><enum value="0x4000" name="GL_COLOR_BUFFER_BIT"/></enums>
    <commands>
        <command>
            <proto>void <name>glClear</name></proto>
            <param><ptype>GLbitfield</ptype> <name>mask</name></param>
        </command>
        <command>
            <proto>void <name>glFlushMappedBufferRangeEXT</name></proto>
        </command>
    </commands>
    <feature api="gles2" name="GL_ES_VERSION_2_0" number="2.0">
        <require><command name="glClear"/></require>
    </feature>
    <extensions>
        <extension name="GL_EXT_map_buffer_range" supported="gles2">
            <require><command name="glFlushMappedBufferRangeEXT"/></require>
        </extension>
    </extensions>
</registry>`

func TestGenerateWithoutProbe(t *testing.T) {
	_, err := generate(t, noProbeRegistry, options("gles2.0", "GL_EXT_map_buffer_range"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedDeclaration))

	// without extensions the probe is not needed
	out, err := generate(t, noProbeRegistry, options("gles2.0"))
	require.NoError(t, err)
	assert.Contains(t, out, "func (p *Procs) Clear(mask GLbitfield)")
}

func TestGenerateUnknownCommandType(t *testing.T) {
	src := `<registry>
    <commands>
        <command>
            <proto>void <name>glFoo</name></proto>
            <param><ptype>GLmystery</ptype> <name>x</name></param>
        </command>
    </commands>
    <feature api="gl" name="GL_VERSION_1_0" number="1.0">
        <require><command name="glFoo"/></require>
    </feature>
</registry>`
	_, err := generate(t, src, options("gl1.0"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownType))
	assert.Contains(t, err.Error(), "GLmystery")
}
