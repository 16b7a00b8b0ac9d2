package registry

import "sort"

// Touch makes every type reachable from an emitted command visible. Each
// allowed, selected command marks the types its signature mentions with the
// command's owner, then the type selection is closed over type dependencies.
// Types that are already selected keep their owner.
func Touch(sel *Selection, commands *Table[Command], types *Table[Type], allow *AllowList) {
	names := make([]string, 0, len(sel.Commands))
	for name := range sel.Commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd, ok := commands.Get(name)
		if !ok || !allow.Allows(name) {
			continue
		}
		owner := sel.Commands[name]
		for _, typ := range cmd.Touched {
			if _, selected := sel.Types[typ]; !selected && types.Has(typ) {
				sel.Types[typ] = owner
			}
		}
	}

	pending := make([]string, 0, len(sel.Types))
	for name := range sel.Types {
		pending = append(pending, name)
	}
	sort.Strings(pending)

	for len(pending) > 0 {
		name := pending[0]
		pending = pending[1:]
		typ, ok := types.Get(name)
		if !ok {
			continue
		}
		for _, dep := range typ.Deps {
			if _, selected := sel.Types[dep]; !selected && types.Has(dep) {
				sel.Types[dep] = sel.Types[name]
				pending = append(pending, dep)
			}
		}
	}
}
