package sekret

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/redactyl/sekret/internal/audit"
)

var flagHistoryDelete int

func init() {
	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show scans recorded with scan --audit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			log := audit.New(root)
			if flagHistoryDelete >= 0 {
				if err := log.Delete(flagHistoryDelete); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted record %d.\n", flagHistoryDelete)
				return nil
			}
			records, err := log.History()
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().IntVar(&flagHistoryDelete, "delete", -1, "delete the record at this index (0 is the newest)")
	rootCmd.AddCommand(cmd)
}

func printHistory(w io.Writer, records []audit.ScanRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No scans recorded.")
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("#", "WHEN", "FILES", "SECRETS", "NEW", "TYPES")
	for i, r := range records {
		row := []string{
			strconv.Itoa(i),
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(r.FilesScanned),
			strconv.Itoa(r.TotalSecrets),
			strconv.Itoa(r.NewSecrets),
			typeSummary(r.TypeCounts),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func typeSummary(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%d", n, counts[n])
	}
	return strings.Join(parts, ", ")
}
