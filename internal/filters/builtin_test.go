package filters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redactyl/sekret/internal/inject"
)

func TestHeuristics(t *testing.T) {
	assert.True(t, IsSequentialString("abcdefgh"))
	assert.True(t, IsSequentialString("0123456789"))
	assert.True(t, IsSequentialString("6789ABCDEF"))
	assert.True(t, IsSequentialString("+/"))
	assert.False(t, IsSequentialString("hunter2isnotsequential"))
	assert.False(t, IsSequentialString(""))

	assert.True(t, IsPotentialUUID("3e1b7bc8-1d0a-4f6a-9a7e-2f5c4b1a9d00"))
	assert.False(t, IsPotentialUUID("3e1b7bc81d0a4f6a9a7e2f5c4b1a9d00"))

	assert.True(t, IsLikelyIDString("abc123", `user_id = "abc123"`))
	assert.True(t, IsLikelyIDString("abc123", `id: abc123`))
	assert.False(t, IsLikelyIDString("abc123", `password = "abc123"`))
	assert.False(t, IsLikelyIDString("abc123", `other`))

	assert.True(t, IsTemplatedSecret("{secret}"))
	assert.True(t, IsTemplatedSecret("<token>"))
	assert.True(t, IsTemplatedSecret("${API_KEY}"))
	assert.False(t, IsTemplatedSecret("{}"))
	assert.False(t, IsTemplatedSecret("plainvalue"))

	assert.True(t, IsPrefixedWithDollarSign("$PASSWORD"))
	assert.False(t, IsPrefixedWithDollarSign("PASSWORD"))

	assert.True(t, IsIndirectReference(`secret = get_secret_key()`))
	assert.True(t, IsIndirectReference(`token = headers['x-token']`))
	assert.False(t, IsIndirectReference(`password = "hunter2"`))

	assert.True(t, IsLockFile("web/package-lock.json"))
	assert.True(t, IsLockFile("Gemfile.lock"))
	assert.False(t, IsLockFile("package.json"))

	assert.True(t, IsNonTextFile("logo.PNG"))
	assert.True(t, IsNonTextFile("dist/app.min.js"))
	assert.False(t, IsNonTextFile("main.go"))

	assert.True(t, IsSwaggerFile("api/Swagger.yaml"))
	assert.False(t, IsSwaggerFile("api/openapi.yaml"))
}

func TestIsLineAllowlisted(t *testing.T) {
	assert.True(t, IsLineAllowlisted(`key = "x"  # pragma: allowlist secret`, ""))
	assert.True(t, IsLineAllowlisted(`key = "x" // sekret:allow`, ""))
	assert.True(t, IsLineAllowlisted(`key = "x"`, `# pragma: allowlist nextline secret`))
	assert.True(t, IsLineAllowlisted(`key = "x"`, `// sekret:ignore-next-line`))
	assert.False(t, IsLineAllowlisted(`key = "x"`, `key2 = "y"`))
}

func TestIsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	assert.False(t, isInvalidFile(inject.Args{"filename": p}))
	assert.True(t, isInvalidFile(inject.Args{"filename": dir}))
	assert.True(t, isInvalidFile(inject.Args{"filename": filepath.Join(dir, "missing")}))
}

func TestBaselineFileFilter(t *testing.T) {
	f, err := Resolve(BaselineFilePath, map[string]any{"filename": "./.secrets.baseline"})
	require.NoError(t, err)

	ok, err := f.Exclude(inject.Args{"filename": ".secrets.baseline"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Exclude(inject.Args{"filename": "main.go"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Resolve(BaselineFilePath, nil)
	assert.Error(t, err)
}

func TestRegexFilters(t *testing.T) {
	f, err := Resolve(RegexLineFilterPath, map[string]any{"pattern": []any{`^\s*#`, `example\.com`}})
	require.NoError(t, err)
	ok, _ := f.Exclude(inject.Args{"line": "  # password = x"})
	assert.True(t, ok)
	ok, _ = f.Exclude(inject.Args{"line": "url = https://example.com/?k=1"})
	assert.True(t, ok)
	ok, _ = f.Exclude(inject.Args{"line": "password = x"})
	assert.False(t, ok)

	f, err = Resolve(RegexFileFilterPath, map[string]any{"pattern": `_test\.go$`})
	require.NoError(t, err)
	ok, _ = f.Exclude(inject.Args{"filename": "pkg/a_test.go"})
	assert.True(t, ok)

	_, err = Resolve(RegexSecretFilter, map[string]any{"pattern": "("})
	assert.Error(t, err)
	_, err = Resolve(RegexSecretFilter, map[string]any{})
	assert.Error(t, err)
	_, err = Resolve(RegexSecretFilter, map[string]any{"pattern": 4})
	assert.Error(t, err)
}

func TestGlobFilter(t *testing.T) {
	f, err := Resolve(GlobFileFilterPath, map[string]any{"pattern": []any{"**/testdata/**", "*.pem"}})
	require.NoError(t, err)

	ok, _ := f.Exclude(inject.Args{"filename": "a/b/testdata/c.txt"})
	assert.True(t, ok)
	ok, _ = f.Exclude(inject.Args{"filename": "keys/server.pem"})
	assert.True(t, ok)
	ok, _ = f.Exclude(inject.Args{"filename": "src/main.go"})
	assert.False(t, ok)

	_, err = Resolve(GlobFileFilterPath, map[string]any{"pattern": "[unclosed"})
	assert.Error(t, err)
}

func TestExpressionFilter(t *testing.T) {
	f, err := Resolve(ExpressionFilterPath, map[string]any{
		"expression": `filename endsWith ".md" && len(secret) < 12`,
	})
	require.NoError(t, err)
	assert.Equal(t, inject.NewSet("filename", "line", "secret"), f.InjectableVariables)

	ok, err := f.Exclude(inject.Args{"filename": "README.md", "line": "", "secret": "short"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Exclude(inject.Args{"filename": "main.go", "line": "", "secret": "short"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Resolve(ExpressionFilterPath, map[string]any{"expression": "secret +"})
	assert.Error(t, err)
	_, err = Resolve(ExpressionFilterPath, map[string]any{"expression": `len(secret)`})
	assert.Error(t, err, "non-boolean expressions are rejected")
}
