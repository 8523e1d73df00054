package filters

import (
	"errors"
	"fmt"
	"strings"

	"github.com/redactyl/sekret/internal/inject"
	"github.com/redactyl/sekret/internal/luamod"
)

var (
	ErrModuleNotFound    = errors.New("module not found")
	ErrAttributeNotFound = errors.New("attribute not found")
	ErrUnsupportedScheme = errors.New("unsupported scheme")
	ErrMalformedPath     = errors.New("malformed filter path")
)

// FileScheme prefixes identifiers that load a function from a Lua file.
const FileScheme = "file://"

var importLua = luamod.ImportFile

// Predicate reports whether the candidate described by args is excluded.
type Predicate func(args inject.Args) (bool, error)

// Callable is what a filter identifier resolves to before configuration is
// bound to it.
type Callable interface {
	Parameters() []string
	Bind(config map[string]any) (Predicate, error)
}

// Module is a namespace of callables addressable by attribute name.
type Module interface {
	Lookup(name string) (Callable, bool)
}

// Filter is a resolved, configured exclusion predicate.
type Filter struct {
	// Path is the identifier the filter was resolved from.
	Path string
	// InjectableVariables are the argument names the filter consumes.
	InjectableVariables inject.Set

	params    []string
	predicate Predicate
}

// Applicable reports whether args carries every injectable variable.
func (f *Filter) Applicable(args inject.Args) bool {
	return f.InjectableVariables.Satisfied(args)
}

// Exclude runs the predicate. Filters whose variables are not all present in
// args never exclude.
func (f *Filter) Exclude(args inject.Args) (bool, error) {
	if !f.Applicable(args) {
		return false, nil
	}
	ok, err := f.predicate(args)
	if err != nil {
		return false, fmt.Errorf("filter %s: %w", f.Path, err)
	}
	return ok, nil
}

// Parameters returns the injectable variables in declaration order.
func (f *Filter) Parameters() []string {
	return f.params
}

// Resolve turns an identifier and its stored configuration into a Filter.
func Resolve(path string, config map[string]any) (*Filter, error) {
	c, err := lookup(path)
	if err != nil {
		return nil, err
	}
	pred, err := c.Bind(config)
	if err != nil {
		return nil, fmt.Errorf("configure %s: %w", path, err)
	}
	params := inject.InjectableVariables(c)
	return &Filter{
		Path:                path,
		InjectableVariables: inject.NewSet(params...),
		params:              params,
		predicate:           pred,
	}, nil
}

func lookup(path string) (Callable, error) {
	switch scheme(path) {
	case "":
		i := strings.LastIndex(path, ".")
		if i <= 0 || i == len(path)-1 {
			return nil, fmt.Errorf("%w: %s", ErrMalformedPath, path)
		}
		mod, err := Import(path[:i])
		if err != nil {
			return nil, err
		}
		return attr(mod, path[:i], path[i+1:])

	case "file":
		filePath, name, ok := strings.Cut(path[len(FileScheme):], "::")
		if !ok || filePath == "" || name == "" || strings.Contains(name, "::") {
			return nil, fmt.Errorf("%w: %s", ErrMalformedPath, path)
		}
		mod, err := importLua(filePath)
		if err != nil {
			return nil, err
		}
		c, err := attr(luaModule{mod}, filePath, name)
		if err != nil {
			mod.Close()
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, path)
	}
}

func attr(mod Module, modPath, name string) (Callable, error) {
	c, ok := mod.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %s", ErrAttributeNotFound, modPath, name)
	}
	return c, nil
}

// scheme returns the URI scheme of path, lowercased, or "" when path has
// none. Only "<scheme>://" prefixes count, so dotted module paths and bare
// Windows drive letters are treated as plain paths.
func scheme(path string) string {
	i := strings.Index(path, "://")
	if i <= 0 {
		return ""
	}
	s := path[:i]
	for j, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return ""
		}
	}
	return strings.ToLower(s)
}
