package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/glbind/emit"
	"github.com/teranos/glbind/errors"
)

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that a generated binding is up to date",
	Long: `Regenerate the binding in memory and compare it with the output file.

The "// Generator version:" line is ignored, so upgrading glbind alone does
not make a binding stale.

Exit status:
  0  the output file is up to date
  1  the output file is missing or stale
  2  the check could not run

Examples:
  glbind check -o internal/gl/gl.go
  glbind check             # output taken from glbind.toml`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	addBindingFlags(CheckCmd.Flags())
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return errors.Mark(err, errCheckFailed)
	}
	if cfg.Output == "" {
		err := errors.WithHint(errors.New("no output file to check"), "pass --output or set output in glbind.toml")
		return errors.Mark(err, errCheckFailed)
	}

	res, err := generate(cmd.Context(), cmd, cfg)
	if err != nil {
		return errors.Mark(err, errCheckFailed)
	}
	result, err := emit.Compare(res.Source, cfg.Output)
	if err != nil {
		return errors.Mark(err, errCheckFailed)
	}

	switch {
	case result.Missing:
		err = errors.Newf("%s does not exist", cfg.Output)
	case !result.UpToDate:
		err = errors.Newf("%s is out of date (first difference at line %d)", cfg.Output, result.FirstDifference)
	default:
		success(cmd, "%s is up to date", cfg.Output)
		return nil
	}
	return errors.WithHint(errors.Mark(err, errors.ErrOutOfDate), "run glbind generate to update it")
}
