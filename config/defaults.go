package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/glbind/emit"
	"github.com/teranos/glbind/fetch"
)

// Default values
const (
	DefaultTarget  = "gles2.0"
	DefaultPackage = "gl"
)

// Keys lists every configuration key.
var Keys = []string{
	"registry",
	"registry_file",
	"allow_private_registry",
	"target",
	"extensions",
	"allow_list",
	"without_cgo",
	"package",
	"output",
	"disable_env",
	"log.json",
	"log.verbosity",
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("registry", fetch.KhronosRegistry)
	v.SetDefault("registry_file", "")
	v.SetDefault("allow_private_registry", false)

	v.SetDefault("target", DefaultTarget)
	v.SetDefault("extensions", []string{})
	v.SetDefault("allow_list", "")
	v.SetDefault("without_cgo", false)

	v.SetDefault("package", DefaultPackage)
	v.SetDefault("output", "") // stdout
	v.SetDefault("disable_env", emit.DefaultDisableEnv)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}
