package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoStrings(t *testing.T) {
	i := Info{CommitHash: "0123456789abcdef", BuildTime: "2026-01-02", Version: "v1.2.3"}
	assert.Equal(t, "glbind v1.2.3 (commit 0123456789abcdef, built 2026-01-02)", i.String())
	assert.Equal(t, "0123456", i.Short())
	assert.Equal(t, "v1.2.3", i.Generator())

	dev := Info{CommitHash: "abc", Version: "dev"}
	assert.Equal(t, "abc", dev.Short())
	assert.Equal(t, "dev-abc", dev.Generator())
}

func TestGetFillsRuntime(t *testing.T) {
	i := Get()
	assert.NotEmpty(t, i.GoVersion)
	assert.Contains(t, i.Platform, "/")
	assert.NotEmpty(t, i.Version)
}
