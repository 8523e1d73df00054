// Package sekret provides the command-line interface for the sekret scanner.
// It wires configuration files, baselines and flags into the process-wide
// settings, then runs the selected subcommand (scan, baseline, settings,
// plugins, filters, config, history).
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/redactyl/sekret/cmd/sekret"
//	func main() { sekret.Execute() }
package sekret
