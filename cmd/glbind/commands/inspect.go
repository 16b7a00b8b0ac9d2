package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/glbind/bind"
	"github.com/teranos/glbind/errors"
)

var inspectFormat string

// InspectCmd represents the inspect command
var InspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show what a binding would contain",
	Long: `Resolve the registry without emitting code and print the selection.

Shows how many types, constants and commands the binding would have, the
procedure table range of core and of each extension, and the enumeration
groups that have at least one selected member.

Examples:
  glbind inspect -t gl3.3 -e GL_KHR_debug
  glbind inspect --format yaml`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	addBindingFlags(InspectCmd.Flags())
	InspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "table", "Output format: table, json, yaml")
}

type inspectReport struct {
	Target     string        `json:"target" yaml:"target"`
	Package    string        `json:"package" yaml:"package"`
	Partial    bool          `json:"partial" yaml:"partial"`
	Types      int           `json:"types" yaml:"types"`
	Constants  int           `json:"constants" yaml:"constants"`
	Commands   int           `json:"commands" yaml:"commands"`
	Extensions []string      `json:"extensions" yaml:"extensions"`
	Owners     []ownerReport `json:"owners" yaml:"owners"`
	Groups     []groupReport `json:"groups" yaml:"groups"`
}

type ownerReport struct {
	Owner    string   `json:"owner" yaml:"owner"`
	Start    int      `json:"start" yaml:"start"`
	End      int      `json:"end" yaml:"end"`
	Commands []string `json:"commands" yaml:"commands"`
}

type groupReport struct {
	Name    string   `json:"name" yaml:"name"`
	Kind    string   `json:"kind" yaml:"kind"`
	Members []string `json:"members" yaml:"members"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := bind.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	r, err := bind.Resolve(cmd.Context(), opts)
	if err != nil {
		return err
	}
	return printReport(cmd.OutOrStdout(), newInspectReport(r), inspectFormat)
}

// newInspectReport summarizes r. Groups list only their selected members.
func newInspectReport(r *bind.Resolved) inspectReport {
	m := r.Model
	report := inspectReport{
		Target:     m.Target.String(),
		Package:    m.Package,
		Partial:    m.Partial,
		Types:      len(m.Types),
		Constants:  len(m.Values),
		Commands:   r.Layout.Size(),
		Extensions: m.Extensions,
	}

	for _, o := range r.Layout.Owners {
		rng := r.Layout.Ranges[o]
		report.Owners = append(report.Owners, ownerReport{
			Owner:    o.String(),
			Start:    rng.Start,
			End:      rng.End,
			Commands: r.Layout.Names(rng),
		})
	}

	selected := make(map[string]bool, len(m.Values))
	for _, v := range m.Values {
		selected[v.Name] = true
	}
	for _, name := range r.Groups.Names() {
		g, _ := r.Groups.Get(name)
		var members []string
		for _, member := range g.Members {
			if selected[member] {
				members = append(members, member)
			}
		}
		if len(members) > 0 {
			report.Groups = append(report.Groups, groupReport{Name: g.Name, Kind: g.Kind.String(), Members: members})
		}
	}
	return report
}

func printReport(w io.Writer, report inspectReport, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal report to JSON")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return errors.Wrap(err, "failed to marshal report to YAML")
		}
		_, err = w.Write(data)
		return err

	case "table", "":
		return renderReport(w, report)
	}
	return errors.WithHint(errors.Newf("unsupported format: %s", format), "use table, json or yaml")
}

func renderReport(w io.Writer, report inspectReport) error {
	kind := "binding"
	if report.Partial {
		kind = "partial binding"
	}
	fmt.Fprintf(w, "%s %s for %s\n", report.Package, kind, report.Target)
	fmt.Fprintf(w, "%d types, %d constants, %d commands\n\n", report.Types, report.Constants, report.Commands)

	owners := pterm.TableData{{"Owner", "Range", "Commands"}}
	for _, o := range report.Owners {
		owners = append(owners, []string{o.Owner, fmt.Sprintf("[%d, %d)", o.Start, o.End), fmt.Sprint(len(o.Commands))})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(owners).WithWriter(w).Render(); err != nil {
		return errors.Wrap(err, "failed to render owners")
	}

	if len(report.Groups) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	groups := pterm.TableData{{"Group", "Kind", "Selected members"}}
	for _, g := range report.Groups {
		groups = append(groups, []string{g.Name, g.Kind, strings.Join(g.Members, " ")})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(groups).WithWriter(w).Render(); err != nil {
		return errors.Wrap(err, "failed to render groups")
	}
	return nil
}
