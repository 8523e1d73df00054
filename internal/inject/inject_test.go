package inject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeFn struct{ params []string }

func (f fakeFn) Parameters() []string { return f.params }

func TestInjectableVariables(t *testing.T) {
	fn := fakeFn{params: []string{"filename", "line"}}
	got := InjectableVariables(fn)
	assert.Equal(t, []string{"filename", "line"}, got)

	// returned slice must not alias the callable's own
	got[0] = "changed"
	assert.Equal(t, "filename", fn.params[0])

	assert.Nil(t, InjectableVariables(func() {}))
}

func TestSet(t *testing.T) {
	s := NewSet("secret", "line", "secret")
	assert.Len(t, s, 2)
	assert.True(t, s.Has("line"))
	assert.False(t, s.Has("filename"))
	assert.Equal(t, []string{"line", "secret"}, s.Sorted())

	assert.True(t, s.Satisfied(Args{"secret": "x", "line": "y", "filename": "z"}))
	assert.False(t, s.Satisfied(Args{"secret": "x"}))
	assert.True(t, NewSet().Satisfied(nil))
}

func TestSelect(t *testing.T) {
	args := Args{"filename": "a.txt", "line": "foo"}

	vals, ok := Select([]string{"line", "filename"}, args)
	assert.True(t, ok)
	assert.Equal(t, []any{"foo", "a.txt"}, vals)

	_, ok = Select([]string{"secret"}, args)
	assert.False(t, ok)
}
