package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/glbind/bind"
	"github.com/teranos/glbind/errors"
	"github.com/teranos/glbind/registry"
)

var (
	versionsAPI        string
	versionsConstraint string
)

// VersionsCmd represents the versions command
var VersionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List the versions a registry defines",
	Long: `List every feature block of the registry with the target token that
selects it.

Examples:
  glbind versions
  glbind versions --api gles2
  glbind versions --api gl --constraint ">=3.2"`,
	Args: cobra.NoArgs,
	RunE: runVersions,
}

func init() {
	addRegistryFlags(VersionsCmd.Flags())
	VersionsCmd.Flags().StringVar(&versionsAPI, "api", "", "Only list versions of this api (gl, gles1, gles2)")
	VersionsCmd.Flags().StringVar(&versionsConstraint, "constraint", "", `Only list versions matching a semver constraint, e.g. ">=3.0"`)
}

// featureRow is one listed feature.
type featureRow struct {
	API     string
	Number  string
	Name    string
	Target  string
	version *semver.Version
}

func runVersions(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := bind.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	root, err := bind.Load(cmd.Context(), opts)
	if err != nil {
		return err
	}
	rows, err := filterFeatures(registry.ListFeatures(root), versionsAPI, versionsConstraint)
	if err != nil {
		return err
	}
	return renderFeatures(cmd.OutOrStdout(), rows)
}

// filterFeatures keeps the features of api (any when empty) whose number
// satisfies constraint, sorted by api then version.
func filterFeatures(features []registry.Feature, api, constraint string) ([]featureRow, error) {
	var c *semver.Constraints
	if constraint != "" {
		var err error
		c, err = semver.NewConstraint(constraint)
		if err != nil {
			return nil, errors.WithHint(errors.Wrapf(err, "invalid constraint %q", constraint),
				`constraints look like ">=3.0" or "~2.0"`)
		}
	}

	var rows []featureRow
	for _, f := range features {
		if api != "" && f.API != api {
			continue
		}
		v, err := semver.NewVersion(f.Number)
		if err != nil {
			return nil, errors.Malformed(f.Name, "version number %q: %v", f.Number, err)
		}
		if c != nil && !c.Check(v) {
			continue
		}
		rows = append(rows, featureRow{
			API:     f.API,
			Number:  f.Number,
			Name:    f.Name,
			Target:  targetToken(f.API, f.Number),
			version: v,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].API != rows[j].API {
			return rows[i].API < rows[j].API
		}
		return rows[i].version.LessThan(rows[j].version)
	})
	return rows, nil
}

// targetToken is the --target value selecting a feature, or "" for apis
// glbind cannot target.
func targetToken(api, number string) string {
	switch api {
	case "gl":
		return "gl" + number
	case "gles1", "gles2":
		return "gles" + number
	}
	return ""
}

func renderFeatures(w io.Writer, rows []featureRow) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No matching versions")
		return nil
	}
	data := pterm.TableData{{"API", "Version", "Feature", "Target"}}
	for _, r := range rows {
		data = append(data, []string{r.API, r.Number, r.Name, r.Target})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render(); err != nil {
		return errors.Wrap(err, "failed to render versions")
	}
	return nil
}
