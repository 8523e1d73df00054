package settings

import (
	"github.com/redactyl/sekret/internal/filters"
	"github.com/redactyl/sekret/internal/logging"
	"github.com/redactyl/sekret/internal/plugins"
)

var (
	current *Settings

	pluginCache  []plugins.Plugin
	pluginsReady bool

	filterCache  []*filters.Filter
	filtersReady bool
)

// Get returns the process-wide settings, creating them on first use. The same
// value is returned until CacheBust.
func Get() *Settings {
	if current == nil {
		current = New()
	}
	return current
}

// CacheBust forgets the settings instance and both resolution caches. The
// next Get, Plugins or Filters call starts from scratch.
func CacheBust() {
	current = nil
	clearPluginCache()
	clearFilterCache()
}

func clearPluginCache() {
	pluginCache, pluginsReady = nil, false
}

func clearFilterCache() {
	filterCache, filtersReady = nil, false
}

// Plugins instantiates every configured plugin, in configuration order, and
// caches the result. A factory error is returned unchanged and nothing is
// cached, so the next call retries.
func Plugins() ([]plugins.Plugin, error) {
	if pluginsReady {
		return pluginCache, nil
	}
	s := Get()
	out := make([]plugins.Plugin, 0, len(s.plugins.keys))
	for _, name := range s.plugins.list() {
		params, _ := s.plugins.get(name)
		p, err := plugins.FromClassname(name, copyValue(params).(Params))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	pluginCache, pluginsReady = out, true
	return pluginCache, nil
}

// Filters resolves every configured filter, in configuration order, and
// caches the result. Identifiers that cannot be resolved are logged and left
// out; they never fail the call.
func Filters() []*filters.Filter {
	if filtersReady {
		return filterCache
	}
	log := logging.GetLogger("settings")
	s := Get()
	out := make([]*filters.Filter, 0, len(s.filters.keys))
	for _, path := range s.filters.list() {
		params, _ := s.filters.get(path)
		f, err := filters.Resolve(path, params)
		if err != nil {
			log.Warn().Err(err).Msgf("Invalid filter: %s", path)
			continue
		}
		out = append(out, f)
	}
	filterCache, filtersReady = out, true
	return filterCache
}

// FilterByPath returns the resolved filter with the given identifier.
func FilterByPath(path string) (*filters.Filter, bool) {
	for _, f := range Filters() {
		if f.Path == path {
			return f, true
		}
	}
	return nil, false
}
