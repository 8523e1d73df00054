package sekret

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/redactyl/sekret/internal/filters"
	"github.com/redactyl/sekret/internal/plugins"
	"github.com/redactyl/sekret/internal/settings"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "plugins",
		Short: "List available plugins and whether they are enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listPlugins(cmd.OutOrStdout())
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "filters",
		Short: "List available filters and whether they are enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listFilters(cmd.OutOrStdout())
		},
	})
}

func listPlugins(w io.Writer) error {
	s := settings.Get()
	table := tablewriter.NewWriter(w)
	table.Header("PLUGIN", "ENABLED", "CONFIG")
	for _, name := range plugins.Names() {
		enabled := "no"
		conf := ""
		if params, ok := s.PluginConfig(name); ok {
			enabled = "yes"
			p, err := plugins.FromClassname(name, params)
			if err != nil {
				return err
			}
			conf = compactParams(p.JSON(), "name")
		}
		if err := table.Append([]string{name, enabled, conf}); err != nil {
			return err
		}
	}
	return table.Render()
}

func listFilters(w io.Writer) error {
	s := settings.Get()
	paths := filters.Available()
	// configured identifiers outside the registry (Lua files, typos)
	known := map[string]bool{}
	for _, p := range paths {
		known[p] = true
	}
	for _, p := range s.FilterPaths() {
		if !known[p] {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	table := tablewriter.NewWriter(w)
	table.Header("FILTER", "STATUS", "VARIABLES")
	for _, path := range paths {
		status := "available"
		vars := ""
		if params, ok := s.FilterConfig(path); ok {
			status = "enabled"
			if isDefault(path) {
				status = "default"
			}
			if f, err := filters.Resolve(path, params); err == nil {
				vars = strings.Join(f.Parameters(), ", ")
			} else {
				status = "invalid"
			}
		}
		if err := table.Append([]string{path, status, vars}); err != nil {
			return err
		}
	}
	return table.Render()
}

func isDefault(path string) bool {
	for _, p := range settings.DefaultFilters() {
		if p == path {
			return true
		}
	}
	return false
}

// compactParams renders params without the identity key as one line of JSON.
func compactParams(params map[string]any, skip string) string {
	rest := make(map[string]any, len(params))
	for k, v := range params {
		if k != skip {
			rest[k] = v
		}
	}
	if len(rest) == 0 {
		return ""
	}
	b, err := json.Marshal(rest)
	if err != nil {
		return fmt.Sprint(rest)
	}
	return string(b)
}
