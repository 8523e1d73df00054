package filters

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/redactyl/sekret/internal/inject"
)

func regexModule() builtinModule {
	return builtinModule{
		"should_exclude_line":   configured([]string{"line"}, bindRegex("line")),
		"should_exclude_file":   configured([]string{"filename"}, bindRegex("filename")),
		"should_exclude_secret": configured([]string{"secret"}, bindRegex("secret")),
	}
}

// bindRegex compiles the "pattern" setting (one pattern or a list) and
// matches it against the named argument.
func bindRegex(arg string) func(map[string]any) (func(inject.Args) bool, error) {
	return func(config map[string]any) (func(inject.Args) bool, error) {
		patterns, err := stringList(config, "pattern")
		if err != nil {
			return nil, err
		}
		if len(patterns) == 0 {
			return nil, fmt.Errorf("missing %q", "pattern")
		}
		res := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", p, err)
			}
			res = append(res, re)
		}
		return func(args inject.Args) bool {
			v := argString(args, arg)
			for _, re := range res {
				if re.MatchString(v) {
					return true
				}
			}
			return false
		}, nil
	}
}

func globModule() builtinModule {
	return builtinModule{
		"should_exclude_file": configured([]string{"filename"}, bindGlob),
	}
}

// bindGlob matches doublestar patterns against the slash form of the
// filename and against its base name.
func bindGlob(config map[string]any) (func(inject.Args) bool, error) {
	patterns, err := stringList(config, "pattern")
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("missing %q", "pattern")
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	return func(args inject.Args) bool {
		name := filepath.ToSlash(argString(args, "filename"))
		base := filepath.Base(name)
		for _, p := range patterns {
			if ok, _ := doublestar.Match(p, name); ok {
				return true
			}
			if ok, _ := doublestar.Match(p, base); ok {
				return true
			}
		}
		return false
	}, nil
}

func exprModule() builtinModule {
	return builtinModule{
		"should_exclude": configured([]string{"filename", "line", "secret"}, bindExpr),
	}
}

// bindExpr compiles the "expression" setting as a boolean expr-lang program
// over filename, line and secret.
func bindExpr(config map[string]any) (func(inject.Args) bool, error) {
	expression, err := requireString(config, "expression")
	if err != nil {
		return nil, err
	}
	env := map[string]any{"filename": "", "line": "", "secret": ""}
	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", expression, err)
	}
	return func(args inject.Args) bool {
		return runExpr(program, args)
	}, nil
}

func runExpr(program *vm.Program, args inject.Args) bool {
	env := map[string]any{
		"filename": argString(args, "filename"),
		"line":     argString(args, "line"),
		"secret":   argString(args, "secret"),
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false
	}
	b, _ := out.(bool)
	return b
}
