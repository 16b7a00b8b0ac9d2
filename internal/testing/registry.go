package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teranos/glbind/dom"
)

// Parse builds the declaration tree for an inline registry.
func Parse(t testing.TB, src string) *dom.Element {
	t.Helper()
	root, err := dom.Read(strings.NewReader(src))
	require.NoError(t, err)
	return root
}

// Mini parses MiniRegistry.
func Mini(t testing.TB) *dom.Element {
	t.Helper()
	return Parse(t, MiniRegistry)
}

// WriteFile writes content to name inside a per-test temp directory and
// returns the full path. The directory is removed when the test ends.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// MiniRegistry is a small registry with the shape of gl.xml: two gles2
// versions, a gl compatibility version whose core profile removes a command,
// and extensions with differing support lists.
const MiniRegistry = `<?xml version="1.0" encoding="UTF-8"?>
<registry>
    <comment>
Copyright 2013-2020 The Khronos Group Inc.
SPDX-License-Identifier: Apache-2.0   
    </comment>

    <types>
        <type name="khrplatform">#include &lt;KHR/khrplatform.h&gt;</type>
        <type>typedef unsigned int <name>GLenum</name>;</type>
        <type>typedef unsigned char <name>GLboolean</name>;</type>
        <type>typedef unsigned int <name>GLbitfield</name>;</type>
        <type>typedef int <name>GLint</name>;</type>
        <type>typedef unsigned int <name>GLuint</name>;</type>
        <type>typedef int <name>GLsizei</name>;</type>
        <type requires="khrplatform">typedef khronos_uint8_t <name>GLubyte</name>;</type>
        <type requires="khrplatform">typedef khronos_float_t <name>GLfloat</name>;</type>
        <type comment="Not an actual GL type, though used in headers in the past">typedef void <name>GLvoid</name>;</type>
        <type>typedef char <name>GLchar</name>;</type>
        <type requires="khrplatform">typedef khronos_uint64_t <name>GLuint64</name>;</type>
        <type requires="khrplatform" api="gles1">typedef khronos_int32_t <name>GLfixed</name>;</type>
        <type requires="khrplatform">typedef khronos_int32_t <name>GLfixed</name>;</type>
        <type name="GLhandleARB">#ifdef __APPLE__
typedef void *GLhandleARB;
#else
typedef unsigned int GLhandleARB;
#endif</type>
        <type>typedef struct __GLsync *<name>GLsync</name>;</type>
        <type>struct <name>_cl_context</name>;</type>
        <type>typedef void (<apientry/> *<name>GLDEBUGPROC</name>)(GLenum source,GLenum type,GLuint id,GLenum severity,GLsizei length,const GLchar *message,const void *userParam);</type>
        <type>typedef GLDEBUGPROC <name>GLDEBUGPROCKHR</name>;</type>
    </types>

    <groups>
        <group name="StringName">
            <enum name="GL_EXTENSIONS"/>
            <enum name="GL_VENDOR"/>
            <enum name="GL_EXTENSIONS"/>
        </group>
    </groups>

    <enums namespace="GL" group="ClearBufferMask" type="bitmask" comment="Clear masks">
        <enum value="0x00004000" name="GL_COLOR_BUFFER_BIT"/>
        <enum value="0x00000100" name="GL_DEPTH_BUFFER_BIT"/>
    </enums>

    <enums namespace="GL" start="0x0000" end="0xFFFF" vendor="ARB">
        <enum value="0" name="GL_FALSE"/>
        <enum value="1" name="GL_TRUE"/>
        <enum value="0x0004" name="GL_TRIANGLES" group="PrimitiveType"/>
        <enum value="0x1F00" name="GL_VENDOR"/>
        <enum value="0x1F03" name="GL_EXTENSIONS"/>
        <enum value="0x0B70" name="GL_DEPTH_RANGE" group="GetPName"/>
        <enum value="0x821D" name="GL_NUM_EXTENSIONS" group="GetPName"/>
        <enum value="0xFFFFFFFF" name="GL_INVALID_INDEX" type="u"/>
        <enum value="0xFFFFFFFFFFFFFFFF" name="GL_TIMEOUT_IGNORED" type="ull"/>
        <enum value="-1" name="GL_ALL_PIXELS_SIGNED_EXT"/>
        <enum value="0x92E0" name="GL_DEBUG_OUTPUT"/>
        <enum value="0x92E0" name="GL_DEBUG_OUTPUT_KHR" alias="GL_DEBUG_OUTPUT"/>
        <enum value="0x84FF" name="GL_MAX_TEXTURE_MAX_ANISOTROPY_EXT" group="GetPName,TextureParameterName"/>
    </enums>

    <commands namespace="GL">
        <command>
            <proto>void <name>glClear</name></proto>
            <param group="ClearBufferMask"><ptype>GLbitfield</ptype> <name>mask</name></param>
        </command>
        <command>
            <proto>void <name>glDrawArrays</name></proto>
            <param group="PrimitiveType"><ptype>GLenum</ptype> <name>mode</name></param>
            <param><ptype>GLint</ptype> <name>first</name></param>
            <param><ptype>GLsizei</ptype> <name>count</name></param>
        </command>
        <command>
            <proto>const <ptype>GLubyte</ptype> *<name>glGetString</name></proto>
            <param group="StringName"><ptype>GLenum</ptype> <name>name</name></param>
        </command>
        <command>
            <proto>const <ptype>GLubyte</ptype> *<name>glGetStringi</name></proto>
            <param><ptype>GLenum</ptype> <name>name</name></param>
            <param><ptype>GLuint</ptype> <name>index</name></param>
        </command>
        <command>
            <proto>void <name>glGetIntegerv</name></proto>
            <param group="GetPName"><ptype>GLenum</ptype> <name>pname</name></param>
            <param len="COMPSIZE(pname)"><ptype>GLint</ptype> *<name>data</name></param>
        </command>
        <command>
            <proto>void <name>glShaderSource</name></proto>
            <param><ptype>GLuint</ptype> <name>shader</name></param>
            <param><ptype>GLsizei</ptype> <name>count</name></param>
            <param len="count">const <ptype>GLchar</ptype> *const*<name>string</name></param>
            <param len="count">const <ptype>GLint</ptype> *<name>length</name></param>
        </command>
        <command>
            <proto><ptype>GLsync</ptype> <name>glFenceSync</name></proto>
            <param><ptype>GLenum</ptype> <name>condition</name></param>
            <param><ptype>GLbitfield</ptype> <name>flags</name></param>
        </command>
        <command>
            <proto>void <name>glLoadMatrixf</name></proto>
            <param len="16">const <ptype>GLfloat</ptype> *<name>m</name></param>
        </command>
        <command>
            <proto>void <name>glMultMatrixf</name></proto>
            <param>const <ptype>GLfloat</ptype> <name>m</name>[16]</param>
        </command>
        <command>
            <proto>void <name>glDebugMessageCallbackKHR</name></proto>
            <param><ptype>GLDEBUGPROCKHR</ptype> <name>callback</name></param>
            <param>const void *<name>userParam</name></param>
        </command>
        <command>
            <proto>void <name>glMultiDrawArraysEXT</name></proto>
            <param><ptype>GLenum</ptype> <name>mode</name></param>
            <param len="primcount">const <ptype>GLint</ptype> *<name>first</name></param>
            <param len="primcount">const <ptype>GLsizei</ptype> *<name>count</name></param>
            <param><ptype>GLsizei</ptype> <name>primcount</name></param>
        </command>
        <command>
            <proto>void <name>glBindVertexArrayOES</name></proto>
            <param><ptype>GLuint</ptype> <name>array</name></param>
        </command>
        <command>
            <proto>void <name>glClipPlanexOES</name></proto>
            <param><ptype>GLenum</ptype> <name>plane</name></param>
            <param len="4">const <ptype>GLfixed</ptype> *<name>equation</name></param>
        </command>
    </commands>

    <feature api="gles2" name="GL_ES_VERSION_2_0" number="2.0">
        <require>
            <enum name="GL_COLOR_BUFFER_BIT"/>
            <enum name="GL_DEPTH_BUFFER_BIT"/>
            <enum name="GL_FALSE"/>
            <enum name="GL_TRUE"/>
            <enum name="GL_TRIANGLES"/>
            <enum name="GL_VENDOR"/>
            <enum name="GL_EXTENSIONS"/>
            <command name="glClear"/>
            <command name="glDrawArrays"/>
            <command name="glGetString"/>
            <command name="glGetIntegerv"/>
            <command name="glShaderSource"/>
        </require>
    </feature>
    <feature api="gles2" name="GL_ES_VERSION_3_0" number="3.0">
        <require>
            <enum name="GL_NUM_EXTENSIONS"/>
            <enum name="GL_INVALID_INDEX"/>
            <enum name="GL_TIMEOUT_IGNORED"/>
            <type name="GLuint64"/>
            <command name="glGetStringi"/>
            <command name="glFenceSync"/>
        </require>
    </feature>
    <feature api="gl" name="GL_VERSION_1_0" number="1.0">
        <require>
            <enum name="GL_COLOR_BUFFER_BIT"/>
            <enum name="GL_TRIANGLES"/>
            <enum name="GL_VENDOR"/>
            <enum name="GL_EXTENSIONS"/>
            <enum name="GL_DEPTH_RANGE"/>
            <command name="glClear"/>
            <command name="glDrawArrays"/>
            <command name="glGetString"/>
            <command name="glGetIntegerv"/>
            <command name="glLoadMatrixf"/>
            <command name="glMultMatrixf"/>
        </require>
    </feature>
    <feature api="gl" name="GL_VERSION_3_2" number="3.2">
        <require>
            <enum name="GL_NUM_EXTENSIONS"/>
            <command name="glGetStringi"/>
        </require>
        <remove profile="core">
            <enum name="GL_DEPTH_RANGE"/>
            <command name="glLoadMatrixf"/>
            <command name="glMultMatrixf"/>
        </remove>
    </feature>
    <feature api="gles1" name="GL_VERSION_ES_CM_1_0" number="1.0">
        <require>
            <enum name="GL_COLOR_BUFFER_BIT"/>
            <enum name="GL_EXTENSIONS"/>
            <command name="glClear"/>
            <command name="glGetString"/>
        </require>
    </feature>

    <extensions>
        <extension name="GL_KHR_debug" supported="gl|glcore|gles2">
            <require>
                <enum name="GL_DEBUG_OUTPUT"/>
                <type name="GLDEBUGPROCKHR"/>
                <command name="glDebugMessageCallbackKHR"/>
            </require>
        </extension>
        <extension name="GL_EXT_texture_filter_anisotropic" supported="gl|gles1|gles2">
            <require>
                <enum name="GL_MAX_TEXTURE_MAX_ANISOTROPY_EXT"/>
            </require>
        </extension>
        <extension name="GL_EXT_multi_draw_arrays" supported="gl|gles1|gles2">
            <require>
                <command name="glMultiDrawArraysEXT"/>
            </require>
        </extension>
        <extension name="GL_OES_vertex_array_object" supported="gles2">
            <require>
                <command name="glBindVertexArrayOES"/>
            </require>
        </extension>
        <extension name="GL_OES_fixed_point" supported="gles1">
            <require>
                <type name="GLfixed"/>
                <command name="glClipPlanexOES"/>
            </require>
        </extension>
    </extensions>
</registry>
`
