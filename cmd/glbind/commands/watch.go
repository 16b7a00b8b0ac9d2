package commands

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/glbind/config"
	"github.com/teranos/glbind/errors"
	"github.com/teranos/glbind/fetch"
	"github.com/teranos/glbind/watch"
)

var watchDebounce time.Duration

// WatchCmd represents the watch command
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the binding whenever its inputs change",
	Long: `Generate the binding, then regenerate it each time the registry, the
allow-list or a config file changes. Runs until interrupted.

Remote registries are fetched on every run but not watched.

Examples:
  glbind watch -r gl.xml -o internal/gl/gl.go
  glbind watch --debounce 2s`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addBindingFlags(WatchCmd.Flags())
	WatchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Wait this long after the last change before regenerating")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Output == "" {
		return errors.WithHint(errors.New("watch needs an output file"), "pass --output or set output in glbind.toml")
	}

	files := watchedFiles(cfg, l.Sources())
	w, err := watch.New(files, watchDebounce)
	if err != nil {
		return err
	}
	w.Ignore(cfg.Output)
	info(cmd, "Watching %d files, writing %s (Ctrl+C to stop)", len(files), cfg.Output)

	return w.Run(cmd.Context(), func(ctx context.Context) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		res, err := generate(ctx, cmd, cfg)
		if err != nil {
			return err
		}
		return writeResult(cmd, cfg.Output, res)
	})
}

// watchedFiles lists the local inputs of cfg.
func watchedFiles(cfg *config.Config, sources []config.FileSource) []string {
	var files []string
	if cfg.Registry != "" && !fetch.IsRemote(cfg.Registry) {
		files = append(files, cfg.Registry)
	}
	if cfg.AllowList != "" {
		files = append(files, cfg.AllowList)
	}
	for _, src := range sources {
		if src.Found {
			files = append(files, src.Path)
		}
	}
	for i, f := range files {
		if abs, err := filepath.Abs(f); err == nil {
			files[i] = abs
		}
	}
	return files
}
