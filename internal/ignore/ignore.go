// Package ignore reads .sekretignore files: one gitignore-style pattern per
// line, matched against slash-separated paths relative to the scan root.
package ignore

import (
	"bufio"
	"errors"
	"os"
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// FileName is the ignore file looked up at the scan root.
const FileName = ".sekretignore"

type rule struct {
	pattern string
	negate  bool
	dirOnly bool
	// anchored patterns contain a slash and match from the root only
	anchored bool
}

// Matcher decides whether a path is ignored. The zero value ignores nothing.
type Matcher struct {
	rules []rule
}

// Load parses the ignore file at p. A missing file yields an empty matcher
// and no error.
func Load(p string) (Matcher, error) {
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Matcher{}, nil
		}
		return Matcher{}, err
	}
	defer f.Close()

	var m Matcher
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var r rule
		if strings.HasPrefix(line, "!") {
			r.negate = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			r.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		if strings.Contains(line, "/") {
			r.anchored = true
			line = strings.TrimPrefix(line, "/")
		}
		if line == "" || !doublestar.ValidatePattern(line) {
			continue
		}
		r.pattern = line
		m.rules = append(m.rules, r)
	}
	return m, sc.Err()
}

// Match reports whether rel is ignored. The last matching rule wins, so a
// later "!pattern" re-includes a path.
func (m Matcher) Match(rel string) bool {
	rel = strings.TrimPrefix(path.Clean(strings.ReplaceAll(rel, "\\", "/")), "./")
	ignored := false
	for _, r := range m.rules {
		if r.matches(rel) {
			ignored = !r.negate
		}
	}
	return ignored
}

func (r rule) matches(rel string) bool {
	segs := strings.Split(rel, "/")
	// a directory rule matches any path below that directory
	limit := len(segs)
	if r.dirOnly {
		limit--
	}
	for i := 1; i <= limit; i++ {
		prefix := strings.Join(segs[:i], "/")
		if r.anchored {
			if ok, _ := doublestar.Match(r.pattern, prefix); ok {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(r.pattern, segs[i-1]); ok {
			return true
		}
	}
	return false
}
