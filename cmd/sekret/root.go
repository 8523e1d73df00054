package sekret

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/redactyl/sekret/internal/baseline"
	"github.com/redactyl/sekret/internal/config"
	"github.com/redactyl/sekret/internal/filters"
	"github.com/redactyl/sekret/internal/logging"
	"github.com/redactyl/sekret/internal/plugins"
	"github.com/redactyl/sekret/internal/settings"
)

var (
	flagVerbose  int
	flagNoColor  bool
	flagConfig   string
	flagBaseline string

	version = "0.1.0"

	// populated by setup for the running command
	fileCfg        config.FileConfig
	activeBaseline *baseline.Baseline
)

// errSecretsFound makes Execute exit 1 without printing an error.
var errSecretsFound = errors.New("potential secrets found")

// rootCmd is the base Cobra command for the sekret CLI.
var rootCmd = &cobra.Command{
	Use:   "sekret",
	Short: "Find secrets with configurable plugins and filters",
	Long: "sekret scans files with detector plugins and drops false positives with filters. " +
		"Plugins and filters come from a baseline, a .sekret.yml or the built-in defaults.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the sekret CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errSecretsFound) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "increase log verbosity (-v info, -vv debug, -vvv trace)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file (default: .sekret.yml in the current directory)")
	rootCmd.PersistentFlags().StringVarP(&flagBaseline, "baseline", "b", "", "baseline file to read settings from and exclude from scans")
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(".", flagConfig)
	if err != nil {
		return err
	}
	fileCfg = cfg

	verbosity := flagVerbose
	if !cmd.Flags().Changed("verbose") && cfg.Verbosity != nil {
		verbosity = *cfg.Verbosity
	}
	logging.SetupWriter(cmd.ErrOrStderr(), verbosity, noColor())

	return applySettings()
}

// noColor reports whether output should be plain: by flag, by config or
// because stdout is not a terminal.
func noColor() bool {
	if flagNoColor || (fileCfg.NoColor != nil && *fileCfg.NoColor) {
		return true
	}
	return !term.IsTerminal(int(os.Stdout.Fd()))
}

func baselinePath() string {
	if flagBaseline != "" {
		return flagBaseline
	}
	if fileCfg.Baseline != nil {
		return *fileCfg.Baseline
	}
	return ""
}

// applySettings rebuilds the global settings. Each list comes from the
// baseline when it has one, else the config file, else the defaults: every
// plugin, and the recommended filters.
func applySettings() error {
	settings.CacheBust()
	activeBaseline = nil

	sc := fileCfg.Settings()
	path := baselinePath()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			b, err := baseline.Load(path)
			if err != nil {
				return err
			}
			activeBaseline = b
			bc := b.Config()
			if bc.PluginsUsed != nil {
				sc.PluginsUsed = bc.PluginsUsed
			}
			if bc.FiltersUsed != nil {
				sc.FiltersUsed = bc.FiltersUsed
			}
		}
	}
	if sc.PluginsUsed == nil {
		sc.PluginsUsed = defaultPlugins()
	}
	if sc.FiltersUsed == nil {
		sc.FiltersUsed = recommendedFilters()
	}
	_, err := settings.ConfigureFromBaseline(sc, path)
	return err
}

func defaultPlugins() []settings.Entry {
	var out []settings.Entry
	for _, n := range plugins.Names() {
		out = append(out, settings.Entry{"name": n})
	}
	return out
}

func recommendedFilters() []settings.Entry {
	var out []settings.Entry
	for _, p := range filters.RecommendedPaths() {
		out = append(out, settings.Entry{"path": p})
	}
	return out
}
