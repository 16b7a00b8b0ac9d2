package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/glbind/config"
	"github.com/teranos/glbind/emit"
	"github.com/teranos/glbind/errors"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage glbind configuration",
	Long: `Display and manage glbind configuration.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (GLBIND_* prefix, e.g. GLBIND_TARGET)
3. Project config (glbind.toml, searched upward from the working directory)
4. User config (~/.glbind/glbind.toml)
5. Default values

Examples:
  glbind config show                 # Show current configuration
  glbind config show --format json   # Show configuration in JSON format
  glbind config where                # Show which files were read
  glbind config init                 # Write a starting glbind.toml`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the configuration merged from all sources",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Args:  cobra.NoArgs,
	RunE:  runConfigWhere,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starting glbind.toml in the working directory",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var (
	configFormat string
	configForce  bool
)

func init() {
	addBindingFlags(configShowCmd.Flags())
	configShowCmd.Flags().StringVarP(&configFormat, "format", "f", "toml", "Output format: toml, json, yaml")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing glbind.toml")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configWhereCmd)
	ConfigCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg, configFormat)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	_, l, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(w, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintln(w, "  2. [USER]     ~/.glbind/glbind.toml")
	fmt.Fprintln(w, "  3. [PROJECT]  ./glbind.toml (searches up directories), or --config")
	fmt.Fprintln(w, "  4. [ENV]      GLBIND_* environment variables")
	fmt.Fprintln(w, "  5. [FLAGS]    Command line flags")
	fmt.Fprintln(w)

	data := pterm.TableData{{"Scope", "Path", "Status"}}
	for _, src := range l.Sources() {
		status := "missing"
		if src.Found {
			status = "loaded"
		}
		data = append(data, []string{string(src.Scope), src.Path, status})
	}
	if len(l.Sources()) == 1 && l.Sources()[0].Scope == config.ScopeUser {
		data = append(data, []string{string(config.ScopeProject), "(no glbind.toml found)", "missing"})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to get working directory")
	}
	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil && !configForce {
		return errors.WithHint(errors.Newf("%s already exists", path), "pass --force to overwrite it")
	}

	data, err := config.Template()
	if err != nil {
		return errors.Wrap(err, "failed to render template")
	}
	if err := emit.WriteFile(path, data); err != nil {
		return err
	}
	success(cmd, "Wrote %s", path)
	return nil
}
