package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/glbind/cmd/glbind/commands"
	"github.com/teranos/glbind/logger"
)

var rootCmd = &cobra.Command{
	Use:   "glbind",
	Short: "glbind - Go bindings from the OpenGL registry",
	Long: `glbind - Go bindings from the OpenGL registry.

glbind reads the Khronos GL registry (gl.xml) and writes a single Go file
binding one OpenGL, OpenGL ES or core-profile version plus a chosen set of
extensions. The generated code resolves entry points at run time through a
caller-supplied loader, without cgo trampolines.

Available commands:
  generate - Generate a binding
  check    - Check that a generated binding is up to date
  inspect  - Show what a binding would contain
  versions - List the versions a registry defines
  watch    - Regenerate when the registry, allow-list or config changes
  config   - Show and locate configuration

Examples:
  glbind generate -t gles3.0 -o gl/gl.go   # Write a GLES 3.0 binding
  glbind check -o gl/gl.go                 # Fail CI when the binding is stale
  glbind versions --api gl                 # List desktop GL versions`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, _ := cmd.Flags().GetCount("verbose")
		jsonLog, _ := cmd.Flags().GetBool("json-log")
		return commands.InitLogging(jsonLog, v)
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().String("config", "", "Config file (default: glbind.toml searched upward)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-log", false, "Write logs to stderr as JSON")

	// Add commands
	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.InspectCmd)
	rootCmd.AddCommand(commands.VersionsCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Cleanup()

	if err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(commands.ExitCode(err))
	}
}
