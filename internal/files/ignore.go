// Package files keeps sekret's generated artifacts out of version control.
package files

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// AppendIgnore adds pattern to repoRoot/.gitignore unless a line already
// matches it. The file is created when missing.
func AppendIgnore(repoRoot, pattern string) (bool, error) {
	path := filepath.Join(repoRoot, ".gitignore")
	existing := map[string]bool{}
	endsWithNewline := true
	if b, err := os.ReadFile(path); err == nil {
		sc := bufio.NewScanner(strings.NewReader(string(b)))
		for sc.Scan() {
			existing[strings.TrimSpace(sc.Text())] = true
		}
		endsWithNewline = len(b) == 0 || b[len(b)-1] == '\n'
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if existing[pattern] {
		return false, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()
	line := pattern + "\n"
	if !endsWithNewline {
		line = "\n" + line
	}
	if _, err := f.WriteString(line); err != nil {
		return false, err
	}
	return true, nil
}

// DefaultIgnores lists the files sekret writes into a work tree that should
// not be committed.
func DefaultIgnores() []string {
	return []string{
		".sekretcache.json",
		".sekret_audit.jsonl",
	}
}
