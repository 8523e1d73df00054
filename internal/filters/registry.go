package filters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/redactyl/sekret/internal/inject"
)

// Prefix is the module path shared by all built-in filters.
const Prefix = "sekret.filters"

// Identifiers of built-in filters referenced outside this package.
const (
	InvalidFilePath      = Prefix + ".common.is_invalid_file"
	BaselineFilePath     = Prefix + ".common.is_baseline_file"
	NonTextFilePath      = Prefix + ".heuristic.is_non_text_file"
	WordlistFilterPath   = Prefix + ".wordlist.should_exclude_secret"
	GibberishFilterPath  = Prefix + ".gibberish.should_exclude_secret"
	AllowlistFilterPath  = Prefix + ".allowlist.is_line_allowlisted"
	RegexLineFilterPath  = Prefix + ".regex.should_exclude_line"
	RegexFileFilterPath  = Prefix + ".regex.should_exclude_file"
	RegexSecretFilter    = Prefix + ".regex.should_exclude_secret"
	GlobFileFilterPath   = Prefix + ".glob.should_exclude_file"
	ExpressionFilterPath = Prefix + ".expr.should_exclude"
)

// Builtin is a Go-implemented filter function.
type Builtin struct {
	params []string
	bind   func(config map[string]any) (func(inject.Args) bool, error)
}

// Parameters returns the variables the builtin consumes.
func (b *Builtin) Parameters() []string {
	return b.params
}

// Bind applies stored configuration and returns the predicate.
func (b *Builtin) Bind(config map[string]any) (Predicate, error) {
	fn, err := b.bind(config)
	if err != nil {
		return nil, err
	}
	return func(args inject.Args) (bool, error) {
		return fn(args), nil
	}, nil
}

// simple wraps a predicate that takes no configuration.
func simple(params []string, fn func(inject.Args) bool) *Builtin {
	return &Builtin{
		params: params,
		bind: func(map[string]any) (func(inject.Args) bool, error) {
			return fn, nil
		},
	}
}

func configured(params []string, bind func(map[string]any) (func(inject.Args) bool, error)) *Builtin {
	return &Builtin{params: params, bind: bind}
}

type builtinModule map[string]*Builtin

func (m builtinModule) Lookup(name string) (Callable, bool) {
	b, ok := m[name]
	if !ok {
		return nil, false
	}
	return b, true
}

var modules = map[string]builtinModule{
	Prefix + ".common":    commonModule(),
	Prefix + ".heuristic": heuristicModule(),
	Prefix + ".allowlist": allowlistModule(),
	Prefix + ".regex":     regexModule(),
	Prefix + ".glob":      globModule(),
	Prefix + ".expr":      exprModule(),
	Prefix + ".wordlist":  wordlistModule(),
	Prefix + ".gibberish": gibberishModule(),
}

// Import returns the registered module at modulePath.
func Import(modulePath string) (Module, error) {
	m, ok := modules[modulePath]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, modulePath)
	}
	return m, nil
}

// Register adds fn as modulePath.name, creating the module if needed. It is
// meant for package init of embedders and for tests; registering over an
// existing name replaces it.
func Register(modulePath, name string, params []string, fn func(inject.Args) bool) {
	m, ok := modules[modulePath]
	if !ok {
		m = builtinModule{}
		modules[modulePath] = m
	}
	m[name] = simple(params, fn)
}

// Unregister removes modulePath.name, dropping the module once empty.
func Unregister(modulePath, name string) {
	m, ok := modules[modulePath]
	if !ok {
		return
	}
	delete(m, name)
	if len(m) == 0 {
		delete(modules, modulePath)
	}
}

// Available lists every registered filter identifier, sorted.
func Available() []string {
	var out []string
	for mod, funcs := range modules {
		for name := range funcs {
			out = append(out, mod+"."+name)
		}
	}
	sort.Strings(out)
	return out
}

// DefaultPaths are the filters that stay active through every filter
// reconfiguration.
func DefaultPaths() []string {
	return []string{InvalidFilePath, NonTextFilePath}
}

// RecommendedPaths are the heuristic and allowlist filters a new
// configuration enables in addition to the defaults.
func RecommendedPaths() []string {
	return []string{
		AllowlistFilterPath,
		Prefix + ".heuristic.is_indirect_reference",
		Prefix + ".heuristic.is_likely_id_string",
		Prefix + ".heuristic.is_lock_file",
		Prefix + ".heuristic.is_potential_uuid",
		Prefix + ".heuristic.is_prefixed_with_dollar_sign",
		Prefix + ".heuristic.is_sequential_string",
		Prefix + ".heuristic.is_swagger_file",
		Prefix + ".heuristic.is_templated_secret",
	}
}

func argString(args inject.Args, name string) string {
	switch v := args[name].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// stringList reads a config value that may be a single string or a list.
func stringList(config map[string]any, key string) ([]string, error) {
	switch v := config[key].(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%s: expected strings, got %T", key, e)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: expected string or list, got %T", key, v)
	}
}

func requireString(config map[string]any, key string) (string, error) {
	s, ok := config[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("missing %q", key)
	}
	return s, nil
}
