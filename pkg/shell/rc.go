package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
	"src.scenar.sh/pkg/errutil"
	"src.scenar.sh/pkg/eval"
	"src.scenar.sh/pkg/mods"
)

// RC is the content of rc.yaml.
type RC struct {
	// Base modules to install. All modules are installed when absent.
	Modules nameList `yaml:"modules"`
	// Macros registered with SetMacro.
	Macros map[string]string `yaml:"macros"`
	// Initial values of variables.
	Variables map[string]string `yaml:"variables"`
	// Attributes registered with AddAttribute.
	Attributes nameList `yaml:"attributes"`
	// Variables saved to the store after each run and restored at start.
	Persist nameList `yaml:"persist"`
}

// ReadRC reads an rc file. A missing file yields an empty RC.
func ReadRC(path string) (*RC, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &RC{}, nil
	} else if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseRC(path, file)
}

func parseRC(name string, r io.Reader) (*RC, error) {
	var rc RC
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&rc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &rc, nil
}

// Apply installs the modules and registers the names of rc on ev. It goes on
// after a failure, and the error reports every failure.
func (rc *RC) Apply(ev *eval.Evaler) error {
	var errs []error
	if rc.Modules == nil {
		errs = append(errs, mods.AddTo(ev))
	} else {
		errs = append(errs, mods.Install(ev, rc.Modules...))
	}
	for _, name := range rc.Attributes {
		errs = append(errs, ev.AddAttribute(name))
	}
	for _, name := range sortedKeys(rc.Macros) {
		errs = append(errs, ev.SetMacro(name, rc.Macros[name]))
	}
	for _, name := range sortedKeys(rc.Variables) {
		errs = append(errs, ev.SetVariable(name, rc.Variables[name]))
	}
	return errutil.Multi(errs...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// A list of names that can also be written as a single scalar.
type nameList []string

func (l *nameList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = nameList{value.Value}
		return nil
	case yaml.SequenceNode:
		names := []string{}
		if err := value.Decode(&names); err != nil {
			return err
		}
		// An empty list is kept non-nil: "modules: []" installs nothing.
		*l = names
		return nil
	}
	return fmt.Errorf("line %d: expected a name or a list of names", value.Line)
}
