package settings

import (
	"fmt"

	"github.com/redactyl/sekret/internal/plugins"
)

// Transient runs fn with cfg applied as the global configuration, then
// restores the configuration that was active before. Restoration happens on
// every exit path: after fn returns, after it fails and while a panic from fn
// unwinds. fn's error is returned once the previous settings are back.
func Transient(cfg Config, fn func(*Settings) error) (err error) {
	original, err := Get().JSON()
	if err != nil {
		return fmt.Errorf("snapshot settings: %w", err)
	}

	CacheBust()
	defer func() {
		CacheBust()
		if _, rerr := ConfigureFromBaseline(original, ""); rerr != nil && err == nil {
			err = fmt.Errorf("restore settings: %w", rerr)
		}
	}()

	s, err := ConfigureFromBaseline(cfg, "")
	if err != nil {
		return err
	}
	return fn(s)
}

// Default runs fn with every registered plugin enabled with default params
// and filters left at their defaults.
func Default(fn func(*Settings) error) error {
	names := plugins.Names()
	cfg := Config{PluginsUsed: make([]Entry, 0, len(names))}
	for _, n := range names {
		cfg.PluginsUsed = append(cfg.PluginsUsed, Entry{"name": n})
	}
	return Transient(cfg, fn)
}
