package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/glbind/bind"
	"github.com/teranos/glbind/config"
	"github.com/teranos/glbind/emit"
	"github.com/teranos/glbind/errors"
	"github.com/teranos/glbind/logger"
)

// errCheckFailed marks errors that stop check from reaching a verdict
var errCheckFailed = errors.New("check could not complete")

// ExitCode maps a command error to the process exit status: 1 for ordinary
// failures and stale output, 2 when check itself could not run.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errCheckFailed):
		return 2
	}
	return 1
}

// PrintError writes err with its details and hints.
func PrintError(w io.Writer, err error) {
	pterm.Error.WithWriter(w).Println(err.Error())
	for _, detail := range errors.GetAllDetails(err) {
		for _, line := range strings.Split(strings.TrimRight(detail, "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}

func success(cmd *cobra.Command, format string, args ...interface{}) {
	pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln(format, args...)
}

func info(cmd *cobra.Command, format string, args ...interface{}) {
	pterm.Info.WithWriter(cmd.ErrOrStderr()).Printfln(format, args...)
}

// generate runs the whole pipeline for cfg.
func generate(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (*bind.Result, error) {
	opts, err := bind.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := bind.Generate(ctx, opts)
	if err != nil {
		return nil, err
	}
	if logger.ShouldOutput(verbosity, logger.OutputSummary) {
		info(cmd, "%s: %d types, %d constants, %d commands",
			opts.Target, len(res.Model.Types), len(res.Model.Values), res.Layout.Size())
	}
	if logger.ShouldOutput(verbosity, logger.OutputTiming) {
		info(cmd, "Generated in %s", time.Since(start).Round(time.Millisecond))
	}
	return res, nil
}

// writeResult writes the generated source to output, or to stdout when
// output is empty.
func writeResult(cmd *cobra.Command, output string, res *bind.Result) error {
	if output == "" {
		_, err := cmd.OutOrStdout().Write(res.Source)
		return errors.Wrap(err, "failed to write binding")
	}
	if err := emit.WriteFile(output, res.Source); err != nil {
		return err
	}
	if logger.ShouldOutput(verbosity, logger.OutputFiles) {
		success(cmd, "Wrote %s", output)
	}
	return nil
}
