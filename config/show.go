package config

import (
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/glbind/emit"
	"github.com/teranos/glbind/errors"
)

// Formats lists the encodings Marshal supports.
var Formats = []string{"toml", "json", "yaml"}

// Marshal renders c in format, one of Formats.
func Marshal(c *Config, format string) ([]byte, error) {
	switch format {
	case "toml", "":
		return toml.Marshal(c)
	case "json":
		out, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case "yaml":
		return yaml.Marshal(c)
	}
	return nil, errors.WithHintf(errors.Newf("unknown format %q", format), "use one of %v", Formats)
}

// Template is a starting glbind.toml.
func Template() ([]byte, error) {
	c := &Config{
		Registry:   "gl.xml",
		Target:     DefaultTarget,
		Extensions: []string{},
		Package:    DefaultPackage,
		Output:     "gl/gl.go",
		DisableEnv: emit.DefaultDisableEnv,
	}
	return toml.Marshal(c)
}
