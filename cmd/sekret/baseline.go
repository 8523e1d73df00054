package sekret

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redactyl/sekret/internal/baseline"
	"github.com/redactyl/sekret/internal/scan"
	"github.com/redactyl/sekret/internal/settings"
)

const defaultBaselineFile = ".secrets.baseline"

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	create := &cobra.Command{
		Use:   "create [path]",
		Short: "Scan and record the current settings and secrets as a baseline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			out := baselinePath()
			if out == "" {
				out = defaultBaselineFile
				// the new baseline must not be scanned into itself
				if _, err := settings.ConfigureFromBaseline(settings.Config{}, out); err != nil {
					return err
				}
			}
			res, err := scan.Files(cmd.Context(), scanConfig(cmd, root))
			if err != nil {
				return err
			}
			b, err := baseline.New(res.Secrets)
			if err != nil {
				return err
			}
			if err := baseline.Save(out, b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline written to %s (%d secrets).\n", out, len(res.Secrets))
			return nil
		},
	}
	addScanFlags(create)

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(create)
}
