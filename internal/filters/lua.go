package filters

import (
	"github.com/redactyl/sekret/internal/inject"
	"github.com/redactyl/sekret/internal/luamod"
)

type luaModule struct {
	m *luamod.Module
}

func (l luaModule) Lookup(name string) (Callable, bool) {
	fn, ok := l.m.Lookup(name)
	if !ok {
		return nil, false
	}
	return luaCallable{fn}, true
}

// luaCallable passes injected variables positionally, in the order the Lua
// function declares them. Stored configuration is not visible to Lua code.
type luaCallable struct {
	fn *luamod.Function
}

func (c luaCallable) Parameters() []string {
	return c.fn.Parameters()
}

func (c luaCallable) Bind(map[string]any) (Predicate, error) {
	params := c.fn.Parameters()
	return func(args inject.Args) (bool, error) {
		vals, ok := inject.Select(params, args)
		if !ok {
			return false, nil
		}
		return c.fn.Call(vals...)
	}, nil
}
