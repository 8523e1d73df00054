package sekret

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/redactyl/sekret/internal/settings"
)

var flagSettingsYAML bool

func init() {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the effective plugins_used and filters_used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := settings.Get().JSON()
			if err != nil {
				return err
			}
			if flagSettingsYAML {
				b, err := yaml.Marshal(cfg)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			b, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagSettingsYAML, "yaml", false, "emit YAML instead of JSON")
	rootCmd.AddCommand(cmd)
}
