// Package filters resolves filter identifiers into callable exclusion
// predicates.
//
// Two addressing schemes are supported. A plain dotted path such as
// "sekret.filters.heuristic.is_sequential_string" names a function in a
// registered module: everything before the last dot is the module, the rest
// is the function. A "file://<path>::<function>" identifier names a global
// function in a Lua source file. Every resolved Filter records the
// identifier it came from and the variables it wants injected.
package filters
