package plugins

import (
	"fmt"
	"regexp"

	"github.com/redactyl/sekret/internal/types"
)

var reKeyword = regexp.MustCompile(`(?i)(?:api_?key|auth_?key|service_?key|account_?key|db_?key|database_?key|priv_?key|private_?key|client_?key|db_?pass|database_?pass|key_?pass|password|passwd|pwd|secret|contraseña|contrasena)[\w.-]*["']?\s*(?::=|=>|==|=|:)\s*(?:[\w.]+\()?["']([^"'\s]{1,})["']`)

// keywordDetector flags values assigned to credential-like names.
type keywordDetector struct {
	exclude *regexp.Regexp
	pattern string
}

func newKeywordDetector(params map[string]any) (Plugin, error) {
	pattern, err := stringParam(params, "keyword_exclude")
	if err != nil {
		return nil, err
	}
	d := &keywordDetector{pattern: pattern}
	if pattern != "" {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: keyword_exclude: %v", ErrInvalidParam, err)
		}
		d.exclude = re
	}
	return d, nil
}

func (d *keywordDetector) Name() string       { return "KeywordDetector" }
func (d *keywordDetector) SecretType() string { return "Secret Keyword" }

func (d *keywordDetector) JSON() map[string]any {
	out := map[string]any{"name": d.Name()}
	if d.pattern != "" {
		out["keyword_exclude"] = d.pattern
	}
	return out
}

func (d *keywordDetector) AnalyzeLine(filename, line string, lineNumber int) []types.PotentialSecret {
	if d.exclude != nil && d.exclude.MatchString(line) {
		return nil
	}
	var out []types.PotentialSecret
	for _, m := range reKeyword.FindAllStringSubmatch(line, -1) {
		out = append(out, types.NewPotentialSecret(d.SecretType(), filename, m[1], lineNumber))
	}
	return out
}
