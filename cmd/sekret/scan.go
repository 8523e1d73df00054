package sekret

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/redactyl/sekret/internal/audit"
	"github.com/redactyl/sekret/internal/baseline"
	"github.com/redactyl/sekret/internal/report"
	"github.com/redactyl/sekret/internal/scan"
	"github.com/redactyl/sekret/internal/types"
)

var (
	flagInclude         []string
	flagExclude         []string
	flagMaxBytes        int64
	flagDefaultExcludes bool
	flagNoCache         bool
	flagAllFiles        bool
	flagStaged          bool
	flagAudit           bool
	flagJSON            bool
	flagSARIF           bool
	flagText            bool
	flagOnlyNew         bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan files for secrets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	addScanFlags(cmd)
	cmd.Flags().BoolVar(&flagJSON, "json", false, "emit JSON")
	cmd.Flags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	cmd.Flags().BoolVar(&flagText, "text", false, "output in plain text instead of a table")
	cmd.Flags().BoolVar(&flagOnlyNew, "only-new", false, "report only secrets missing from the baseline")
	cmd.Flags().BoolVar(&flagStaged, "staged", false, "scan the staged content of the git index")
	cmd.Flags().BoolVar(&flagAudit, "audit", false, "append a summary of this scan to the audit log")
}

// addScanFlags registers the file selection flags shared by scan and
// baseline create.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&flagInclude, "include", nil, "include globs (repeatable or comma-separated)")
	cmd.Flags().StringSliceVar(&flagExclude, "exclude", nil, "exclude globs (repeatable or comma-separated)")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 1<<20, "skip files larger than this")
	cmd.Flags().BoolVar(&flagDefaultExcludes, "default-excludes", true, "skip vendored and generated directories (node_modules, dist, .venv, ...)")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "disable incremental scan cache")
	cmd.Flags().BoolVar(&flagAllFiles, "all-files", false, "scan untracked files too when inside a git repository")
}

func scanConfig(cmd *cobra.Command, root string) scan.Config {
	cfg := scan.Config{
		Root:            root,
		Include:         flagInclude,
		Exclude:         flagExclude,
		MaxBytes:        flagMaxBytes,
		DefaultExcludes: flagDefaultExcludes,
		UseCache:        !flagNoCache,
		GitTracked:      !flagAllFiles,
	}
	// CLI > config file
	if !cmd.Flags().Changed("include") && fileCfg.Include != nil {
		cfg.Include = fileCfg.Include
	}
	if !cmd.Flags().Changed("exclude") && fileCfg.Exclude != nil {
		cfg.Exclude = fileCfg.Exclude
	}
	if !cmd.Flags().Changed("max-bytes") && fileCfg.MaxBytes != nil {
		cfg.MaxBytes = *fileCfg.MaxBytes
	}
	if !cmd.Flags().Changed("default-excludes") && fileCfg.DefaultExcludes != nil {
		cfg.DefaultExcludes = *fileCfg.DefaultExcludes
	}
	return cfg
}

func runScan(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	start := time.Now()
	scanFn := scan.Files
	if flagStaged {
		scanFn = scan.Staged
	}
	res, err := scanFn(cmd.Context(), scanConfig(cmd, root))
	if err != nil {
		return err
	}
	secrets := res.Secrets
	if flagOnlyNew && activeBaseline != nil {
		secrets = baseline.FilterNew(secrets, activeBaseline)
	}
	if flagAudit {
		fresh := res.Secrets
		if activeBaseline != nil {
			fresh = baseline.FilterNew(res.Secrets, activeBaseline)
		}
		rec := audit.NewRecord(root, res.Secrets, fresh, res.FilesScanned+res.FilesCached, time.Since(start), baselinePath())
		if err := audit.New(root).Append(rec); err != nil {
			return err
		}
	}

	if err := writeSecrets(cmd, secrets, report.PrintOptions{
		NoColor:      noColor(),
		Duration:     time.Since(start),
		FilesScanned: res.FilesScanned + res.FilesCached,
	}); err != nil {
		return err
	}
	if len(secrets) > 0 {
		return errSecretsFound
	}
	return nil
}

func writeSecrets(cmd *cobra.Command, secrets []types.PotentialSecret, opts report.PrintOptions) error {
	w := cmd.OutOrStdout()
	switch {
	case flagSARIF:
		return report.WriteSARIF(w, secrets, version)
	case flagJSON:
		if secrets == nil {
			secrets = []types.PotentialSecret{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(secrets)
	case flagText:
		report.PrintText(w, secrets, opts)
		return nil
	default:
		if err := report.PrintTable(w, secrets, opts); err != nil {
			return fmt.Errorf("render table: %w", err)
		}
		return nil
	}
}
