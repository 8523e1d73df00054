package filters

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/redactyl/sekret/internal/inject"
)

func heuristicModule() builtinModule {
	return builtinModule{
		"is_sequential_string":         simple([]string{"secret"}, secretPredicate(IsSequentialString)),
		"is_potential_uuid":            simple([]string{"secret"}, secretPredicate(IsPotentialUUID)),
		"is_likely_id_string":          simple([]string{"secret", "line"}, isLikelyIDString),
		"is_templated_secret":          simple([]string{"secret"}, secretPredicate(IsTemplatedSecret)),
		"is_prefixed_with_dollar_sign": simple([]string{"secret"}, secretPredicate(IsPrefixedWithDollarSign)),
		"is_indirect_reference":        simple([]string{"line"}, isIndirectReference),
		"is_lock_file":                 simple([]string{"filename"}, filenamePredicate(IsLockFile)),
		"is_non_text_file":             simple([]string{"filename"}, filenamePredicate(IsNonTextFile)),
		"is_swagger_file":              simple([]string{"filename"}, filenamePredicate(IsSwaggerFile)),
	}
}

func secretPredicate(fn func(string) bool) func(inject.Args) bool {
	return func(args inject.Args) bool { return fn(argString(args, "secret")) }
}

func filenamePredicate(fn func(string) bool) func(inject.Args) bool {
	return func(args inject.Args) bool { return fn(argString(args, "filename")) }
}

var sequences = []string{
	// base64, letters first
	"ABCDEFGHIJKLMNOPQRSTUVWXYZABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789+/",
	// base64, numbers first
	"0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZABCDEFGHIJKLMNOPQRSTUVWXYZ+/",
	"0123456789ABCDEF0123456789ABCDEF",
	"0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"01234567890123456789",
}

const asciiRun = "!\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

// IsSequentialString reports strings such as "ABCDEF" or "0123456789" that
// are runs of a well-known alphabet.
func IsSequentialString(secret string) bool {
	if secret == "" {
		return false
	}
	upper := strings.ToUpper(secret)
	for _, seq := range sequences {
		if strings.Contains(seq, upper) {
			return true
		}
	}
	return strings.Contains(asciiRun, secret)
}

var reUUID = regexp.MustCompile(`(?i)[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}`)

// IsPotentialUUID reports secrets containing a UUID; they are identifiers far
// more often than credentials.
func IsPotentialUUID(secret string) bool {
	return reUUID.MatchString(secret)
}

var reIDPrefix = regexp.MustCompile(`(?i)(^(id|myid|userid)|_id)s?[^a-z0-9]`)

// IsLikelyIDString reports secrets assigned to an id-like name, e.g.
// `user_id = "..."`. Only the text before the secret is considered.
func IsLikelyIDString(secret, line string) bool {
	if secret == "" {
		return false
	}
	i := strings.Index(line, secret)
	if i < 0 {
		return false
	}
	return reIDPrefix.MatchString(line[:i])
}

func isLikelyIDString(args inject.Args) bool {
	return IsLikelyIDString(argString(args, "secret"), argString(args, "line"))
}

// IsTemplatedSecret reports placeholders like {secret}, <token> or ${VALUE}.
func IsTemplatedSecret(secret string) bool {
	if len(secret) < 3 {
		return false
	}
	first, last := secret[0], secret[len(secret)-1]
	if first == '{' && last == '}' || first == '<' && last == '>' {
		return true
	}
	return strings.HasPrefix(secret, "${") && last == '}'
}

// IsPrefixedWithDollarSign reports values that read as shell or template
// variables.
func IsPrefixedWithDollarSign(secret string) bool {
	return strings.HasPrefix(secret, "$")
}

var reIndirect = regexp.MustCompile(`^\s*[\w.\-\[\]'"]+\s*(:=?|[!=]{1,3})\s*[\w.\-]+[\[(][^\n]*[\])]\s*[,;]?\s*$`)

// IsIndirectReference reports lines that assign the result of a lookup, e.g.
// `secret = get_secret_key()` or `token = headers['x-token']`.
func IsIndirectReference(line string) bool {
	return reIndirect.MatchString(line)
}

func isIndirectReference(args inject.Args) bool {
	return IsIndirectReference(argString(args, "line"))
}

var lockFiles = map[string]bool{
	"brewfile.lock.json":  true,
	"cargo.lock":          true,
	"cartfile.resolved":   true,
	"composer.lock":       true,
	"gemfile.lock":        true,
	"package-lock.json":   true,
	"package.resolved":    true,
	"packages.lock.json":  true,
	"pipfile.lock":        true,
	"pnpm-lock.yaml":      true,
	"podfile.lock":        true,
	"poetry.lock":         true,
	"yarn.lock":           true,
	"go.sum":              true,
	"npm-shrinkwrap.json": true,
}

// IsLockFile reports package manager lock files, whose hashes look like
// secrets.
func IsLockFile(filename string) bool {
	return lockFiles[strings.ToLower(filepath.Base(filename))]
}

var nonTextSuffixes = []string{
	".7z", ".bin", ".bmp", ".class", ".dll", ".dylib", ".eot", ".exe",
	".gif", ".gz", ".ico", ".jar", ".jpeg", ".jpg", ".map", ".mo", ".mov",
	".mp3", ".mp4", ".otf", ".pdf", ".png", ".pyc", ".so", ".svg", ".tar",
	".tgz", ".tif", ".tiff", ".ttf", ".wasm", ".webp", ".woff", ".woff2",
	".zip", ".min.js",
}

// IsNonTextFile reports files whose extension marks them as binary or
// generated assets.
func IsNonTextFile(filename string) bool {
	lower := strings.ToLower(filename)
	for _, s := range nonTextSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// IsSwaggerFile reports API description files, which carry example keys.
func IsSwaggerFile(filename string) bool {
	return strings.Contains(strings.ToLower(filepath.ToSlash(filename)), "swagger")
}
