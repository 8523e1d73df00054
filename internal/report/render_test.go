package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/redactyl/sekret/internal/types"
)

func sample() []types.PotentialSecret {
	return []types.PotentialSecret{
		types.NewPotentialSecret("GitHub Token", "a.go", "ghp_abcdefghijklmnop", 1),
	}
}

func TestPrintText_NoFindings_ShowsFooter(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, nil, PrintOptions{Duration: 1200 * time.Millisecond, FilesScanned: 10})
	out := buf.String()
	if !strings.Contains(out, "No secrets found") {
		t.Fatalf("expected friendly no-findings message; got: %q", out)
	}
	if !strings.Contains(out, "Files scanned: 10") {
		t.Fatalf("expected footer with files scanned; got: %q", out)
	}
}

func TestPrintText_WithFindings(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, sample(), PrintOptions{NoColor: true})
	out := buf.String()
	if !strings.Contains(out, "Potential secrets: 1") {
		t.Fatalf("expected header; got: %q", out)
	}
	if !strings.Contains(out, "GitHub Token") || !strings.Contains(out, "a.go:1") {
		t.Fatalf("expected type and location; got: %q", out)
	}
	if strings.Contains(out, "ghp_abcdefghijklmnop") {
		t.Fatalf("raw secret leaked; got: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("unexpected colour codes; got: %q", out)
	}
}

func TestPrintTable_WithFindings(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintTable(&buf, sample(), PrintOptions{NoColor: true}); err != nil {
		t.Fatalf("PrintTable: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "TYPE") {
		t.Fatalf("expected table header with TYPE; got: %q", out)
	}
	if !strings.Contains(out, "GitHub Token") {
		t.Fatalf("expected type in table; got: %q", out)
	}
	if !strings.Contains(out, "ghp_…mnop") {
		t.Fatalf("expected masked secret; got: %q", out)
	}
}

func TestMaskValue_FallsBackToHash(t *testing.T) {
	s := sample()[0]
	s.Secret = ""
	if got := maskValue(s); got != "sha1:"+s.HashedSecret[:8] {
		t.Fatalf("unexpected mask %q", got)
	}
}
