package sekret

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/redactyl/sekret/internal/config"
	"github.com/redactyl/sekret/internal/files"
	"github.com/redactyl/sekret/internal/settings"
)

var (
	cfgOutput    string
	cfgForce     bool
	cfgMinimal   bool
	cfgBaseline  string
	cfgVerbosity int
	cfgGitignore bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .sekret.yml with every plugin and the recommended filters",
		Args:  cobra.NoArgs,
		// the file being generated may not parse yet, so skip loading it
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE:              runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".sekret.yml", "output file path")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
	initCmd.Flags().BoolVar(&cfgMinimal, "minimal", false, "enable only the default filters")
	initCmd.Flags().StringVar(&cfgBaseline, "baseline-path", defaultBaselineFile, "baseline path to record in the config (empty to omit)")
	initCmd.Flags().IntVar(&cfgVerbosity, "verbosity", 0, "default log verbosity")
	initCmd.Flags().BoolVar(&cfgGitignore, "gitignore", true, "add the scan cache file to .gitignore")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(cfgOutput); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	fc := config.FileConfig{
		PluginsUsed: defaultPlugins(),
		FiltersUsed: []settings.Entry{},
	}
	if !cfgMinimal {
		fc.FiltersUsed = recommendedFilters()
	}
	if cfgBaseline != "" {
		fc.Baseline = &cfgBaseline
	}
	if cmd.Flags().Changed("verbosity") {
		fc.Verbosity = &cfgVerbosity
	}

	b, err := yaml.Marshal(fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfgOutput)

	if cfgGitignore {
		for _, p := range files.DefaultIgnores() {
			added, err := files.AppendIgnore(".", p)
			if err != nil {
				return fmt.Errorf("update .gitignore: %w", err)
			}
			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to .gitignore\n", p)
			}
		}
	}
	return nil
}
