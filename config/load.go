package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/viper"

	"github.com/teranos/glbind/errors"
	"github.com/teranos/glbind/fetch"
)

// Scope says where a config file sits in the precedence order.
type Scope string

const (
	ScopeUser    Scope = "user"    // ~/.glbind/glbind.toml
	ScopeProject Scope = "project" // nearest glbind.toml upward from the working directory
	ScopeFile    Scope = "file"    // --config
)

// FileSource is one config file that was considered.
type FileSource struct {
	Path  string `json:"path" yaml:"path"`
	Scope Scope  `json:"scope" yaml:"scope"`
	Found bool   `json:"found" yaml:"found"`
}

// Loader builds a Config from every source.
type Loader struct {
	v *viper.Viper
	// Dir is where the upward search for a project file starts.
	Dir string
	// Explicit, when set, replaces the project search.
	Explicit string
	// Home overrides the user's home directory.
	Home string

	sources []FileSource
}

// NewLoader creates a Loader rooted at the working directory.
func NewLoader() *Loader {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return &Loader{v: v, Dir: dir}
}

// Viper returns the underlying instance so the CLI can bind flags to keys.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Sources returns the files considered by the last Load, lowest precedence
// first.
func (l *Loader) Sources() []FileSource {
	return l.sources
}

// Load merges the config files and unmarshals the result. Precedence, lowest
// to highest: defaults, user file, project file, environment, flags.
func (l *Loader) Load() (*Config, error) {
	l.sources = l.candidates()
	for i, src := range l.sources {
		if _, err := os.Stat(src.Path); err != nil {
			if src.Scope == ScopeFile {
				return nil, errors.Wrapf(err, "config file %s", src.Path)
			}
			continue
		}
		l.sources[i].Found = true

		file := viper.New()
		file.SetConfigFile(src.Path)
		file.SetConfigType("toml")
		if err := file.ReadInConfig(); err != nil {
			return nil, errors.WithHint(errors.Wrapf(err, "failed to read %s", src.Path),
				"glbind.toml must be valid TOML")
		}
		settings := file.AllSettings()
		relativize(settings, filepath.Dir(src.Path))
		if err := l.v.MergeConfigMap(settings); err != nil {
			return nil, errors.Wrapf(err, "failed to merge %s", src.Path)
		}
	}

	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	exts, err := splitList(l.v.Get("extensions"))
	if err != nil {
		return nil, errors.Wrap(err, "extensions")
	}
	c.Extensions = exts
	return &c, nil
}

// candidates lists the config files in precedence order.
func (l *Loader) candidates() []FileSource {
	var out []FileSource
	home := l.Home
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	if home != "" {
		out = append(out, FileSource{Path: filepath.Join(home, ".glbind", FileName), Scope: ScopeUser})
	}
	if l.Explicit != "" {
		return append(out, FileSource{Path: l.Explicit, Scope: ScopeFile})
	}
	if project := FindProjectConfig(l.Dir); project != "" {
		out = append(out, FileSource{Path: project, Scope: ScopeProject})
	}
	return out
}

// FindProjectConfig searches for glbind.toml by walking up from dir.
// Returns the path to the first file found, or "" if none.
func FindProjectConfig(dir string) string {
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// splitList accepts a TOML array or a single string such as the value of
// GLBIND_EXTENSIONS. Strings are split like a shell would, with commas
// treated as spaces.
func splitList(raw interface{}) ([]string, error) {
	switch val := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return shellquote.Split(strings.ReplaceAll(val, ",", " "))
	case []string:
		return val, nil
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, errors.Newf("list item %v is not a string", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, errors.Newf("expected a list of strings, got %T", raw)
}

// relativize makes path settings read from a config file relative to that
// file rather than to the working directory.
func relativize(settings map[string]interface{}, base string) {
	for _, key := range []string{"allow_list", "output", "registry"} {
		p, ok := settings[key].(string)
		if !ok || p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "~") {
			continue
		}
		if key == "registry" && fetch.IsRemote(p) {
			continue
		}
		settings[key] = filepath.Join(base, p)
	}
}
