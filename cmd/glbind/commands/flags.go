package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teranos/glbind/config"
	"github.com/teranos/glbind/errors"
	"github.com/teranos/glbind/logger"
)

// verbosity is the effective -v count, updated once configuration is loaded
var verbosity int

// flagKeys maps command-line flags to configuration keys
var flagKeys = map[string]string{
	"registry":               "registry",
	"registry-file":          "registry_file",
	"allow-private-registry": "allow_private_registry",
	"target":                 "target",
	"extensions":             "extensions",
	"allow-list":             "allow_list",
	"without-cgo":            "without_cgo",
	"package":                "package",
	"output":                 "output",
	"disable-env":            "disable_env",
	"verbose":                "log.verbosity",
	"json-log":               "log.json",
}

// InitLogging sets up the logger from the global flags. Commands that load
// configuration initialise it again with the merged settings.
func InitLogging(jsonOutput bool, v int) error {
	verbosity = v
	if err := logger.Initialize(jsonOutput, v); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	return nil
}

func addRegistryFlags(fs *pflag.FlagSet) {
	fs.StringP("registry", "r", "", "Registry path or go-getter source (default: Khronos gl.xml)")
	fs.String("registry-file", "", "Registry file name inside a fetched directory")
	fs.Bool("allow-private-registry", false, "Allow registry downloads from loopback and private hosts")
}

func addBindingFlags(fs *pflag.FlagSet) {
	addRegistryFlags(fs)
	fs.StringP("target", "t", "", "Target version, e.g. gles2.0, gl4.5, glcore3.3 (default: gles2.0)")
	fs.StringSliceP("extensions", "e", nil, "Extensions to bind, in procedure table order")
	fs.StringP("allow-list", "a", "", "File listing the constants and commands to emit")
	fs.Bool("without-cgo", false, "Use portable Go types instead of cgo types")
	fs.StringP("package", "p", "", "Package name of the generated file (default: gl)")
	fs.StringP("output", "o", "", "Output file (default: stdout)")
	fs.String("disable-env", "", "Environment variable the generated code reads to disable extensions")
}

// loadConfig merges flags, environment and config files, validates the
// result and reinitialises logging from it.
func loadConfig(cmd *cobra.Command) (*config.Config, *config.Loader, error) {
	l := config.NewLoader()
	if f := cmd.Flags().Lookup("config"); f != nil {
		l.Explicit = f.Value.String()
	}
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := l.Viper().BindPFlag(key, f); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to bind --%s", name)
		}
	}

	cfg, err := l.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := InitLogging(cfg.Log.JSON, cfg.Log.Verbosity); err != nil {
		return nil, nil, err
	}

	for _, src := range l.Sources() {
		logger.Debugw("Config file", logger.FieldPath, src.Path, "scope", src.Scope, "found", src.Found)
	}
	return cfg, l, nil
}
