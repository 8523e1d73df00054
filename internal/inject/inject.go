// Package inject matches the parameters a callable declares against the
// variables a scanning stage has on hand.
package inject

import "sort"

// Args holds the variables available for injection, keyed by parameter name.
type Args map[string]any

// Parameterized is implemented by callables that can report the names of
// their parameters.
type Parameterized interface {
	Parameters() []string
}

// InjectableVariables returns the parameter names fn declares, or nil when fn
// does not describe its signature.
func InjectableVariables(fn any) []string {
	p, ok := fn.(Parameterized)
	if !ok {
		return nil
	}
	params := p.Parameters()
	out := make([]string, len(params))
	copy(out, params)
	return out
}

// Set is a set of parameter names.
type Set map[string]struct{}

// NewSet builds a Set from names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the names in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Satisfied reports whether args provides every name in s.
func (s Set) Satisfied(args Args) bool {
	for n := range s {
		if _, ok := args[n]; !ok {
			return false
		}
	}
	return true
}

// Select returns the values for names in order. ok is false when any name is
// missing from args.
func Select(names []string, args Args) (values []any, ok bool) {
	values = make([]any, 0, len(names))
	for _, n := range names {
		v, found := args[n]
		if !found {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}
