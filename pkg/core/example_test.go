package core_test

import (
	"context"
	"fmt"
	"os"

	"github.com/redactyl/sekret/pkg/core"
)

// ExampleScan demonstrates how to scan a directory with an explicit plugin
// and filter configuration.
func ExampleScan() {
	s := core.Settings{
		PluginsUsed: []core.Entry{
			{"name": "AWSKeyDetector"},
			{"name": "Base64HighEntropyString", "limit": 4.5},
		},
		FiltersUsed: []core.Entry{
			{"path": "sekret.filters.allowlist.is_line_allowlisted"},
		},
	}
	secrets, err := core.Scan(context.Background(), core.Config{Root: ".", MaxBytes: 1 << 20}, s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
		return
	}
	if len(secrets) == 0 {
		fmt.Println("No secrets found.")
		return
	}
	fmt.Printf("Found %d secrets.\n", len(secrets))
	_ = core.MarshalSecrets(os.Stdout, secrets)
}
