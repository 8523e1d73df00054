package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"

	"github.com/redactyl/sekret/internal/audit"
	"github.com/redactyl/sekret/internal/cache"
	"github.com/redactyl/sekret/internal/git"
	"github.com/redactyl/sekret/internal/ignore"
)

var defaultExcludeDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"coverage":     true,
}

func isDefaultDirExcluded(name string) bool {
	return defaultExcludeDirs[name] || strings.HasPrefix(name, ".git")
}

// inDefaultExcludedDir checks every directory component of rel.
func inDefaultExcludedDir(rel string) bool {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for _, p := range parts[:len(parts)-1] {
		if isDefaultDirExcluded(p) {
			return true
		}
	}
	return false
}

// Walk visits every eligible file under cfg.Root in lexical order. handle
// receives the path joined onto cfg.Root. In a git work tree with
// cfg.GitTracked set only tracked files are visited.
func Walk(ctx context.Context, cfg Config, handle func(path string) error) error {
	ign, err := ignore.Load(filepath.Join(cfg.Root, ignore.FileName))
	if err != nil {
		return err
	}
	if cfg.GitTracked && git.IsRepo(cfg.Root) {
		return walkTracked(ctx, cfg, ign, handle)
	}
	return filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if p != cfg.Root && cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || cache.IsCacheFile(p) || audit.IsLogFile(p) {
			return nil
		}
		rel, _ := filepath.Rel(cfg.Root, p)
		if !allowedByGlobs(rel, cfg) || ign.Match(rel) {
			return nil
		}
		if cfg.MaxBytes > 0 {
			if info, _ := d.Info(); info != nil && info.Size() > cfg.MaxBytes {
				return nil
			}
		}
		return handle(p)
	})
}

func walkTracked(ctx context.Context, cfg Config, ign ignore.Matcher, handle func(path string) error) error {
	files, err := git.TrackedFiles(cfg.Root)
	if err != nil {
		return err
	}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cfg.DefaultExcludes && inDefaultExcludedDir(rel) {
			continue
		}
		if !allowedByGlobs(rel, cfg) || ign.Match(rel) {
			continue
		}
		p := filepath.Join(cfg.Root, rel)
		info, err := os.Lstat(p)
		if err != nil || !info.Mode().IsRegular() || cache.IsCacheFile(p) || audit.IsLogFile(p) {
			continue
		}
		if cfg.MaxBytes > 0 && info.Size() > cfg.MaxBytes {
			continue
		}
		if err := handle(p); err != nil {
			return err
		}
	}
	return nil
}

// allowedByGlobs applies include then exclude patterns to a slash-separated
// relative path.
func allowedByGlobs(rel string, cfg Config) bool {
	rp := filepath.ToSlash(rel)
	if len(cfg.Include) > 0 && !matchAnyGlob(rp, cfg.Include) {
		return false
	}
	return !matchAnyGlob(rp, cfg.Exclude)
}

func matchAnyGlob(path string, globs []string) bool {
	for _, g := range globs {
		g = strings.TrimPrefix(strings.TrimSpace(g), "./")
		if g == "" {
			continue
		}
		if ok, _ := doublestar.Match(g, path); ok {
			return true
		}
		// bare patterns like "*.env" also match in subdirectories
		if !strings.Contains(g, "/") {
			if ok, _ := doublestar.Match(g, filepath.Base(path)); ok {
				return true
			}
		}
	}
	return false
}

func readText(path string) ([]byte, bool) {
	b, err := os.ReadFile(path)
	if err != nil || looksBinary(b) {
		return nil, false
	}
	return b, true
}

func looksBinary(b []byte) bool {
	const sniff = 800
	n := sniff
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}
