// Package core provides a small, stable facade over sekret's internal
// packages for external integrations. It re-exports a narrow API surface so
// other tools can scan with an explicit configuration without importing
// internal packages.
//
// Example:
//
//	cfg := core.Settings{PluginsUsed: []core.Entry{{"name": "AWSKeyDetector"}}}
//	secrets, err := core.Scan(ctx, core.Config{Root: "."}, cfg)
//	if err != nil { /* handle */ }
//	_ = core.MarshalSecrets(os.Stdout, secrets)
package core
