// Package config loads glbind settings from flags, GLBIND_* environment
// variables, a project glbind.toml and the user's ~/.glbind/glbind.toml.
package config

// Config is the merged glbind configuration.
type Config struct {
	// Registry is a path or go-getter source for gl.xml.
	Registry string `mapstructure:"registry" toml:"registry" json:"registry" yaml:"registry"`
	// RegistryFile names the registry inside a fetched directory.
	RegistryFile string `mapstructure:"registry_file" toml:"registry_file,omitempty" json:"registry_file,omitempty" yaml:"registry_file,omitempty"`
	// AllowPrivateRegistry permits downloads from loopback and private hosts.
	AllowPrivateRegistry bool `mapstructure:"allow_private_registry" toml:"allow_private_registry" json:"allow_private_registry" yaml:"allow_private_registry"`

	Target     string   `mapstructure:"target" toml:"target" json:"target" yaml:"target"`
	Extensions []string `mapstructure:"extensions" toml:"extensions" json:"extensions" yaml:"extensions"`
	AllowList  string   `mapstructure:"allow_list" toml:"allow_list,omitempty" json:"allow_list,omitempty" yaml:"allow_list,omitempty"`
	WithoutCgo bool     `mapstructure:"without_cgo" toml:"without_cgo" json:"without_cgo" yaml:"without_cgo"`

	Package    string `mapstructure:"package" toml:"package" json:"package" yaml:"package"`
	Output     string `mapstructure:"output" toml:"output,omitempty" json:"output,omitempty" yaml:"output,omitempty"`
	DisableEnv string `mapstructure:"disable_env" toml:"disable_env" json:"disable_env" yaml:"disable_env"`

	Log LogConfig `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// LogConfig configures the logger.
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" json:"verbosity" yaml:"verbosity"`
}

// FileName is the project and user config file name.
const FileName = "glbind.toml"

// EnvPrefix prefixes every environment override, e.g. GLBIND_TARGET.
const EnvPrefix = "GLBIND"
