package commands

import (
	"github.com/spf13/cobra"
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate a Go binding from the GL registry",
	Long: `Generate a Go binding from the GL registry.

The registry is translated for one target version plus the requested
extensions. The result is a single Go file declaring the registry types and
constants, and a Procs table whose methods call the driver's entry points.

Nothing is written unless every stage succeeds.

Examples:
  glbind generate                                  # gles2.0 to stdout
  glbind generate -t gl4.5 -o internal/gl/gl.go    # write a file
  glbind generate -t gles3.0 -e GL_KHR_debug,GL_EXT_texture_filter_anisotropic
  glbind generate -a allow.txt --without-cgo       # partial, cgo-free binding
  glbind generate -r ./gl.xml                      # local registry`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	addBindingFlags(GenerateCmd.Flags())
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := generate(cmd.Context(), cmd, cfg)
	if err != nil {
		return err
	}
	return writeResult(cmd, cfg.Output, res)
}
