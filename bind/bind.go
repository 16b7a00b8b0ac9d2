// Package bind runs the whole translation: fetch the registry, extract its
// tables, resolve the selection and lay out the procedure table. Generate
// then renders the result with emit.
package bind

import (
	"context"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/glbind/config"
	"github.com/teranos/glbind/dom"
	"github.com/teranos/glbind/emit"
	"github.com/teranos/glbind/errors"
	"github.com/teranos/glbind/fetch"
	"github.com/teranos/glbind/internal/httpclient"
	"github.com/teranos/glbind/layout"
	"github.com/teranos/glbind/logger"
	"github.com/teranos/glbind/registry"
	"github.com/teranos/glbind/target"
	"github.com/teranos/glbind/version"
)

// Options selects what to translate.
type Options struct {
	// Registry is a path or go-getter source.
	Registry string
	// RegistryFile names the registry inside a fetched directory.
	RegistryFile string
	HTTP         httpclient.Options

	Target     target.Version
	Extensions []string
	// AllowList is the path of an allow-list file; empty means no restriction.
	AllowList  string
	WithoutCgo bool

	Package    string
	DisableEnv string
}

// OptionsFromConfig converts a validated Config.
func OptionsFromConfig(c *config.Config) (Options, error) {
	v, err := target.Parse(c.Target)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Registry:     c.Registry,
		RegistryFile: c.RegistryFile,
		HTTP:         httpclient.Options{AllowPrivate: c.AllowPrivateRegistry},
		Target:       v,
		Extensions:   c.Extensions,
		AllowList:    c.AllowList,
		WithoutCgo:   c.WithoutCgo,
		Package:      c.Package,
		DisableEnv:   c.DisableEnv,
	}, nil
}

// Resolved is everything known about a registry once the selection is
// final. Model is ready for emit.
type Resolved struct {
	Types     *registry.Types
	Values    *registry.Table[registry.Value]
	Commands  *registry.Table[registry.Command]
	Groups    *registry.Table[registry.Group]
	Selection *registry.Selection
	Allow     *registry.AllowList
	Layout    *layout.Layout
	Model     *emit.Model
}

// Result is a rendered binding.
type Result struct {
	*Resolved
	Source []byte
}

// Load fetches and parses the registry named by opts.
func Load(ctx context.Context, opts Options) (*dom.Element, error) {
	src, err := fetch.Resolve(ctx, opts.Registry, fetch.Options{HTTP: opts.HTTP, File: opts.RegistryFile})
	if err != nil {
		return nil, err
	}
	defer src.Cleanup()

	f, err := os.Open(src.Path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to open %s", src.Path), errors.ErrRegistryFetch)
	}
	defer f.Close()

	root, err := dom.Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "registry %s", opts.Registry)
	}
	return root, nil
}

// Resolve loads the registry and resolves it.
func Resolve(ctx context.Context, opts Options) (*Resolved, error) {
	root, err := Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	return FromRoot(ctx, root, opts)
}

// Generate resolves and renders a binding. No output is produced unless
// every stage succeeded.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	r, err := Resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	return Render(r)
}

// Render emits r.Model.
func Render(r *Resolved) (*Result, error) {
	src, err := emit.NewGenerator().GenerateFile(r.Model)
	if err != nil {
		return nil, err
	}
	return &Result{Resolved: r, Source: src}, nil
}

// FromRoot runs every stage after parsing.
func FromRoot(ctx context.Context, root *dom.Element, opts Options) (*Resolved, error) {
	log := logger.ComponentLogger("bind").With(logger.FieldTarget, opts.Target.Token())
	start := time.Now()

	if root.Name != "registry" {
		return nil, errors.Malformed(root.Name, "root element must be <registry>")
	}
	if opts.Package == "" {
		opts.Package = config.DefaultPackage
	}

	types, err := registry.ExtractTypes(root, opts.Target, opts.WithoutCgo)
	if err != nil {
		return nil, err
	}
	log.Debugw("Extracted types", logger.FieldTypes, types.Len())

	r := &Resolved{Types: types}
	var g errgroup.Group
	g.Go(func() error {
		values, err := registry.ExtractValues(root, opts.Target)
		r.Values = values
		return err
	})
	g.Go(func() error {
		groups, err := registry.ExtractGroups(root)
		r.Groups = groups
		return err
	})
	g.Go(func() error {
		commands, err := registry.ExtractCommands(root, opts.Target)
		r.Commands = commands
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Debugw("Extracted tables",
		logger.FieldConstants, r.Values.Len(),
		logger.FieldCommands, r.Commands.Len(),
		"groups", r.Groups.Len())

	sel, err := registry.Resolve(root, opts.Target, opts.Extensions)
	if err != nil {
		return nil, err
	}
	r.Selection = sel

	if opts.AllowList != "" {
		allow, err := registry.LoadAllowList(opts.AllowList)
		if err != nil {
			return nil, err
		}
		if len(opts.Extensions) > 0 {
			allow.Add(registry.ProbeNames...)
		}
		r.Allow = allow
		log.Debugw("Loaded allow-list", logger.FieldPath, opts.AllowList, logger.FieldCount, allow.Len())
	}

	registry.Touch(sel, r.Commands, types.Table, r.Allow)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.Layout = layout.Sort(layout.Select(sel, r.Commands, r.Allow), opts.Extensions)
	logLayout(log, r.Layout)

	r.Model = &emit.Model{
		Package:          opts.Package,
		Target:           opts.Target,
		Partial:          r.Allow.Partial(),
		Extensions:       opts.Extensions,
		Comments:         comments(root),
		Types:            r.selectedTypes(),
		Values:           r.selectedValues(),
		Commands:         r.Commands,
		Layout:           r.Layout,
		Translator:       types.Translator,
		AllValues:        r.Values,
		DisableEnv:       opts.DisableEnv,
		GeneratorVersion: version.Get().Generator(),
	}

	log.Infow("Resolved registry",
		logger.FieldTypes, len(r.Model.Types),
		logger.FieldConstants, len(r.Model.Values),
		logger.FieldCommands, r.Layout.Size(),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return r, nil
}

func logLayout(log *zap.SugaredLogger, l *layout.Layout) {
	for _, o := range l.Owners {
		rng := l.Ranges[o]
		log.Debugw("Laid out owner", logger.FieldOwner, o.String(), "start", rng.Start, "end", rng.End)
	}
}

// selectedTypes are the visible types in document order.
func (r *Resolved) selectedTypes() []registry.Type {
	var out []registry.Type
	for name := range r.Selection.Types {
		if t, ok := r.Types.Get(name); ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// selectedValues are the visible, allowed constants in document order.
func (r *Resolved) selectedValues() []registry.Value {
	var out []registry.Value
	for name := range r.Selection.Values {
		v, ok := r.Values.Get(name)
		if ok && r.Allow.Allows(name) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// comments returns the text of the registry's top-level <comment> elements.
func comments(root *dom.Element) []string {
	var out []string
	for _, c := range root.ElementsNamed("comment") {
		if text := strings.TrimSpace(c.Text()); text != "" {
			out = append(out, text)
		}
	}
	return out
}
