// Package git lists the files a scan should cover in a git work tree by
// shelling out to the git binary.
package git

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// validateRoot validates and normalizes a git repository root path.
// Returns the cleaned absolute path or an error if invalid.
func validateRoot(root string) (string, error) {
	// Check for null bytes (potential injection)
	if strings.ContainsRune(root, 0) {
		return "", fmt.Errorf("invalid path: contains null byte")
	}
	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access path %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", root)
	}
	return abs, nil
}

// IsRepo reports whether root lies inside a git work tree. It is false when
// git is not installed.
func IsRepo(root string) bool {
	validRoot, err := validateRoot(root)
	if err != nil {
		return false
	}
	out, err := exec.Command("git", "-C", validRoot, "rev-parse", "--is-inside-work-tree").Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// TrackedFiles returns the paths git tracks under root, relative to root.
func TrackedFiles(root string) ([]string, error) {
	validRoot, err := validateRoot(root)
	if err != nil {
		return nil, err
	}
	out, err := exec.Command("git", "-C", validRoot, "ls-files", "-z", "--cached").Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}
	return splitNul(out), nil
}

// StagedFiles returns the added, copied, modified or renamed paths in the
// index together with their staged content.
func StagedFiles(root string) ([]string, [][]byte, error) {
	validRoot, err := validateRoot(root)
	if err != nil {
		return nil, nil, err
	}
	out, err := exec.Command("git", "-C", validRoot, "diff", "--cached", "--name-only", "--diff-filter=ACMR", "-z", "--relative").Output()
	if err != nil {
		return nil, nil, fmt.Errorf("git diff --cached: %w", err)
	}
	paths := splitNul(out)
	data := make([][]byte, 0, len(paths))
	for _, p := range paths {
		b, err := exec.Command("git", "-C", validRoot, "show", ":./"+filepath.ToSlash(p)).Output()
		if err != nil {
			return nil, nil, fmt.Errorf("git show :%s: %w", p, err)
		}
		data = append(data, b)
	}
	return paths, data, nil
}

func splitNul(b []byte) []string {
	var out []string
	for _, f := range bytes.Split(b, []byte{0}) {
		if len(f) > 0 {
			out = append(out, filepath.FromSlash(string(f)))
		}
	}
	return out
}
