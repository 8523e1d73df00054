package filters

import (
	"regexp"

	"github.com/redactyl/sekret/internal/inject"
)

func allowlistModule() builtinModule {
	return builtinModule{
		"is_line_allowlisted": simple([]string{"line", "previous_line"}, isLineAllowlisted),
	}
}

var (
	reAllowLine = regexp.MustCompile(`(?i)(pragma:\s*allowlist[\s-]secret|sekret:\s*allow(\s|$)|sekret:\s*ignore(\s|$))`)
	reAllowNext = regexp.MustCompile(`(?i)(pragma:\s*allowlist[\s-]nextline[\s-]secret|sekret:\s*allow-next-line|sekret:\s*ignore-next-line)`)
)

// IsLineAllowlisted reports lines carrying an inline allow marker, or lines
// preceded by a next-line marker.
func IsLineAllowlisted(line, previousLine string) bool {
	return reAllowLine.MatchString(line) || reAllowNext.MatchString(previousLine)
}

func isLineAllowlisted(args inject.Args) bool {
	return IsLineAllowlisted(argString(args, "line"), argString(args, "previous_line"))
}
