package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/redactyl/sekret/internal/types"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
}

// PrintText writes one line per secret followed by a summary footer.
func PrintText(w io.Writer, secrets []types.PotentialSecret, opts PrintOptions) {
	if len(secrets) == 0 {
		fmt.Fprintln(w, "No secrets found ✅")
	} else {
		maxType := 8
		for _, s := range secrets {
			if l := len(s.Type); l > maxType {
				maxType = l
			}
		}
		fmt.Fprintf(w, "Potential secrets: %d\n", len(secrets))
		for _, s := range secrets {
			typ := fmt.Sprintf("%-*s", maxType, s.Type)
			if !opts.NoColor {
				typ = colorType(typ)
			}
			fmt.Fprintf(w, "%s %s:%d  %s\n", typ, s.Filename, s.LineNumber, maskValue(s))
		}
	}
	printFooter(w, secrets, opts)
}

// PrintTable renders secrets as a bordered table followed by the footer.
func PrintTable(w io.Writer, secrets []types.PotentialSecret, opts PrintOptions) error {
	if len(secrets) == 0 {
		fmt.Fprintln(w, "No secrets found ✅")
		printFooter(w, secrets, opts)
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("TYPE", "FILE", "LINE", "SECRET")
	for _, s := range secrets {
		if err := table.Append([]string{s.Type, s.Filename, strconv.Itoa(s.LineNumber), maskValue(s)}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	printFooter(w, secrets, opts)
	return nil
}

func printFooter(w io.Writer, secrets []types.PotentialSecret, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	files := map[string]bool{}
	for _, s := range secrets {
		files[s.Filename] = true
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Potential secrets: %d in %d files\n", len(secrets), len(files))
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
	}
}

// maskValue shows the ends of the raw secret, or a hash prefix when the raw
// value is not at hand (for example results read back from a cache).
func maskValue(s types.PotentialSecret) string {
	v := s.Secret
	if v == "" {
		if len(s.HashedSecret) >= 8 {
			return "sha1:" + s.HashedSecret[:8]
		}
		return "********"
	}
	if len(v) <= 8 {
		return "********"
	}
	return v[:4] + "…" + v[len(v)-4:]
}

func colorType(s string) string {
	return "\x1b[33m" + s + "\x1b[0m"
}
