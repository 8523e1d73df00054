package settings

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redactyl/sekret/internal/filters"
)

// ErrMissingKey reports a plugin entry without "name" or a filter entry
// without "path".
var ErrMissingKey = errors.New("missing key")

// Settings records the configured plugins and filters.
type Settings struct {
	// class name -> initialization params
	plugins *mapping
	// filter identifier -> configuration
	filters *mapping
}

// DefaultFilters returns the identifiers present after every reset. They are
// never serialized.
func DefaultFilters() []string {
	return filters.DefaultPaths()
}

func isDefaultFilter(path string) bool {
	for _, p := range filters.DefaultPaths() {
		if p == path {
			return true
		}
	}
	return false
}

// New returns cleared settings.
func New() *Settings {
	s := &Settings{}
	s.Clear()
	return s
}

// Clear drops every plugin and resets filters to the defaults.
func (s *Settings) Clear() {
	s.plugins = newMapping()
	s.filters = defaultFilterMapping()
	clearPluginCache()
	clearFilterCache()
}

func defaultFilterMapping() *mapping {
	m := newMapping()
	for _, p := range DefaultFilters() {
		m.set(p, Params{})
	}
	return m
}

// Set adopts other's plugins and filters. The mappings are shared, not
// copied: later changes through either value are visible through both.
func (s *Settings) Set(other *Settings) {
	s.plugins = other.plugins
	s.filters = other.filters
	clearPluginCache()
	clearFilterCache()
}

// ConfigurePlugins merges entries into the plugin configuration, keyed by
// their "name". An entry replaces any earlier configuration of the same
// name; other plugins are kept. Nothing is changed when an entry lacks a name.
func (s *Settings) ConfigurePlugins(config []Entry) (*Settings, error) {
	type item struct {
		name   string
		params Params
	}
	items := make([]item, 0, len(config))
	for i, e := range config {
		name, ok := e["name"].(string)
		if !ok {
			return s, fmt.Errorf("plugins_used[%d]: %w %q", i, ErrMissingKey, "name")
		}
		params := make(Params, len(e))
		for k, v := range e {
			if k != "name" {
				params[k] = v
			}
		}
		items = append(items, item{name, params})
	}
	for _, it := range items {
		s.plugins.set(it.name, it.params)
	}
	clearPluginCache()
	return s, nil
}

// DisablePlugins removes the named plugins. Unknown names are ignored.
func (s *Settings) DisablePlugins(names ...string) *Settings {
	for _, n := range names {
		s.plugins.delete(n)
	}
	clearPluginCache()
	return s
}

// ConfigureFilters replaces the filter configuration with the defaults plus
// entries, keyed by their "path". Unlike ConfigurePlugins this does not merge:
// previously configured filters are dropped. Entries are deep-copied.
func (s *Settings) ConfigureFilters(config []Entry) (*Settings, error) {
	cfg := make([]Entry, len(config))
	for i, e := range config {
		cfg[i] = copyValue(e).(Entry)
	}
	next := defaultFilterMapping()
	for i, e := range cfg {
		path, ok := e["path"].(string)
		if !ok {
			return s, fmt.Errorf("filters_used[%d]: %w %q", i, ErrMissingKey, "path")
		}
		params := make(Params, len(e))
		for k, v := range e {
			if k != "path" {
				params[k] = v
			}
		}
		next.set(path, params)
	}
	s.filters = next
	clearFilterCache()
	return s, nil
}

// DisableFilters removes the given filters. Unknown paths are ignored.
func (s *Settings) DisableFilters(paths ...string) *Settings {
	for _, p := range paths {
		s.filters.delete(p)
	}
	clearFilterCache()
	return s
}

// PluginNames returns the configured plugin names in configuration order.
func (s *Settings) PluginNames() []string {
	return s.plugins.list()
}

// PluginConfig returns the stored params of a plugin.
func (s *Settings) PluginConfig(name string) (Params, bool) {
	return s.plugins.get(name)
}

// FilterPaths returns the configured filter identifiers in configuration
// order, defaults included.
func (s *Settings) FilterPaths() []string {
	return s.filters.list()
}

// FilterConfig returns the stored params of a filter.
func (s *Settings) FilterConfig(path string) (Params, bool) {
	return s.filters.get(path)
}

// JSON serializes the settings. Plugin entries are built from the resolved
// plugins (see Plugins) rather than from stored configuration alone, so
// defaults a plugin computes for itself are included. Errors come from plugin
// resolution.
func (s *Settings) JSON() (Config, error) {
	resolved, err := Plugins()
	if err != nil {
		return Config{}, err
	}
	out := Config{
		PluginsUsed: make([]Entry, 0, len(resolved)),
		FiltersUsed: []Entry{},
	}
	for _, p := range resolved {
		live := p.JSON()
		name, _ := live["name"].(string)
		if name == "" {
			name = p.Name()
		}
		stored, _ := s.plugins.get(name)
		out.PluginsUsed = append(out.PluginsUsed, mergePluginEntry(name, stored, live))
	}
	sortEntries(out.PluginsUsed, "name")

	for _, path := range s.filters.list() {
		if isDefaultFilter(path) {
			continue
		}
		params, _ := s.filters.get(path)
		e := Entry{"path": path}
		for k, v := range params {
			if k != "path" {
				e[k] = v
			}
		}
		out.FiltersUsed = append(out.FiltersUsed, e)
	}
	sortEntries(out.FiltersUsed, "path")
	return out, nil
}

// mergePluginEntry layers, in increasing precedence, the plugin name, its
// stored params and its live serialization. Stored params carry settings the
// plugin does not report itself; live fields override them.
func mergePluginEntry(name string, stored Params, live map[string]any) Entry {
	e := Entry{"name": name}
	for k, v := range stored {
		e[k] = v
	}
	for k, v := range live {
		e[k] = v
	}
	return e
}

func sortEntries(entries []Entry, key string) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, _ := entries[i][key].(string)
		b, _ := entries[j][key].(string)
		return strings.ToLower(a) < strings.ToLower(b)
	})
}
