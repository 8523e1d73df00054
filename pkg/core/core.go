package core

import (
	"context"

	"github.com/redactyl/sekret/internal/plugins"
	"github.com/redactyl/sekret/internal/scan"
	"github.com/redactyl/sekret/internal/settings"
	"github.com/redactyl/sekret/internal/types"
)

// Re-export selected internal types as a stable public API surface.
type Config = scan.Config
type Settings = settings.Config
type Entry = settings.Entry
type Secret = types.PotentialSecret

// Scan runs a scan of cfg.Root under s. The process-wide settings are
// swapped for s for the duration of the call and restored afterwards, so
// callers embedding sekret do not disturb each other's configuration as long
// as scans are not run concurrently.
func Scan(ctx context.Context, cfg Config, s Settings) ([]Secret, error) {
	var out []Secret
	err := settings.Transient(s, func(*settings.Settings) error {
		res, err := scan.Files(ctx, cfg)
		out = res.Secrets
		return err
	})
	return out, err
}

// PluginNames returns the registered plugin class names.
func PluginNames() []string { return plugins.Names() }
