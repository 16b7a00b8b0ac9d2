package config

import (
	"go/token"
	"regexp"

	"github.com/teranos/glbind/errors"
	"github.com/teranos/glbind/target"
)

var envName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := target.Parse(c.Target); err != nil {
		return err
	}

	if !token.IsIdentifier(c.Package) {
		return errors.WithHint(errors.Newf("package %q is not a Go identifier", c.Package),
			"use a short lower-case name such as gl or gles2")
	}

	// empty disables the runtime override entirely
	if c.DisableEnv != "" && !envName.MatchString(c.DisableEnv) {
		return errors.Newf("disable_env %q is not a valid environment variable name", c.DisableEnv)
	}

	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	for _, ext := range c.Extensions {
		if ext == "" {
			return errors.New("extensions contains an empty name")
		}
	}
	return nil
}
