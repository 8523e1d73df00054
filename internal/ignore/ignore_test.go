package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIgnoreMatch(t *testing.T) {
	dir := t.TempDir()
	ig := filepath.Join(dir, FileName)
	content := "node_modules/\n*.pem\n# comment\n\nsecret.env\nfixtures/**/*.json\n!fixtures/keep/ok.json\n"
	if err := os.WriteFile(ig, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(ig)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]bool{
		"node_modules/pkg/index.js":  true,
		"node_modules":               false,
		"certs/key.pem":              true,
		"secret.env":                 true,
		"config/secret.env":          true,
		"src/app.go":                 false,
		"fixtures/a/b.json":          true,
		"fixtures/keep/ok.json":      false,
		"other/fixtures/a/b.json":    false,
		"./certs/nested/server.pem":  true,
		"docs/node_modules/x/readme": true,
	}
	for p, want := range cases {
		if got := m.Match(p); got != want {
			t.Fatalf("Match(%q)=%v want %v", p, got, want)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatal(err)
	}
	if m.Match("anything") {
		t.Fatal("empty matcher should ignore nothing")
	}
}
