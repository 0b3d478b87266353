// Package mods collects the base library modules. The store module is not
// among them, since it needs a store to work on.
package mods

import (
	"fmt"
	"sort"

	"src.scenar.sh/pkg/errutil"
	"src.scenar.sh/pkg/eval"
	"src.scenar.sh/pkg/mods/arith"
	"src.scenar.sh/pkg/mods/container"
	"src.scenar.sh/pkg/mods/file"
	"src.scenar.sh/pkg/mods/math"
	"src.scenar.sh/pkg/mods/path"
	"src.scenar.sh/pkg/mods/re"
	"src.scenar.sh/pkg/mods/str"
	"src.scenar.sh/pkg/mods/structure"
	"src.scenar.sh/pkg/mods/types"
)

// Module is a base library module.
type Module struct {
	Name    string
	Install func(*eval.Evaler) error
}

// All lists all modules in the order they are installed. Modules that wrap
// operators come after the modules that define them.
var All = []Module{
	{"arith", arith.Install},
	{"types", types.Install},
	{"container", container.Install},
	{"struct", structure.Install},
	{"file", file.Install},
	{"str", str.Install},
	{"math", math.Install},
	{"re", re.Install},
	{"path", path.Install},
}

// Names returns the names of all modules.
func Names() []string {
	names := make([]string, len(All))
	for i, m := range All {
		names[i] = m.Name
	}
	return names
}

// AddTo installs all modules on ev.
func AddTo(ev *eval.Evaler) error {
	return Install(ev, Names()...)
}

// Install installs the named modules on ev, in the order of All regardless of
// the order of names. Modules that can be installed are installed even if
// others fail; the error reports every failure.
func Install(ev *eval.Evaler, names ...string) error {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	var errs []error
	for _, m := range All {
		if !wanted[m.Name] {
			continue
		}
		delete(wanted, m.Name)
		if err := m.Install(ev); err != nil {
			errs = append(errs, fmt.Errorf("module %s: %w", m.Name, err))
		}
	}
	unknown := make([]string, 0, len(wanted))
	for name := range wanted {
		unknown = append(unknown, name)
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		errs = append(errs, fmt.Errorf("no such module: %s", name))
	}
	return errutil.Multi(errs...)
}
