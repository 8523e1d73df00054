package filters

import (
	"os"
	"path/filepath"

	"github.com/redactyl/sekret/internal/inject"
)

func commonModule() builtinModule {
	return builtinModule{
		"is_invalid_file":  simple([]string{"filename"}, isInvalidFile),
		"is_baseline_file": configured([]string{"filename"}, bindBaselineFile),
	}
}

// isInvalidFile excludes paths that are not regular files.
func isInvalidFile(args inject.Args) bool {
	st, err := os.Stat(argString(args, "filename"))
	if err != nil {
		return true
	}
	return !st.Mode().IsRegular()
}

// bindBaselineFile excludes the baseline file itself, so hashes recorded in a
// baseline are never reported as findings.
func bindBaselineFile(config map[string]any) (func(inject.Args) bool, error) {
	name, err := requireString(config, "filename")
	if err != nil {
		return nil, err
	}
	want := filepath.Clean(name)
	return func(args inject.Args) bool {
		return filepath.Clean(argString(args, "filename")) == want
	}, nil
}
