// Package luamod loads a Lua source file as a module whose global functions
// can be looked up by name and called with injected arguments.
//
// Each module owns its own gopher-lua state. The state is not goroutine-safe;
// callers must not invoke functions of one module concurrently.
package luamod

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultCallTimeout bounds a single function call.
const DefaultCallTimeout = 5 * time.Second

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidFile  = errors.New("invalid file")
)

// Module is a loaded Lua file.
type Module struct {
	Path    string
	L       *lua.LState
	timeout time.Duration
}

// Function is a global Lua function of a module.
type Function struct {
	Name   string
	module *Module
	fn     *lua.LFunction
	params []string
}

// ImportFile executes the file at path in a sandboxed state and returns it as
// a module. A missing path yields ErrFileNotFound; a path that is not a
// regular file or fails to compile or run yields ErrInvalidFile.
func ImportFile(path string) (*Module, error) {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFile, path, err)
	}
	if !st.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrInvalidFile, path)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	m := &Module{Path: path, L: L, timeout: DefaultCallTimeout}
	if err := m.protect(func() error { return L.DoFile(path) }); err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFile, path, err)
	}
	return m, nil
}

// openSafeLibraries opens base, table, string and math only, then strips the
// base functions that can load code from disk or strings.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (m *Module) protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Lookup returns the global function called name.
func (m *Module) Lookup(name string) (*Function, bool) {
	v := m.L.GetGlobal(name)
	fn, ok := v.(*lua.LFunction)
	if !ok {
		return nil, false
	}
	return &Function{Name: name, module: m, fn: fn, params: parameterNames(fn)}, true
}

// Close releases the module's Lua state.
func (m *Module) Close() {
	m.L.Close()
}

// parameterNames reads the declared parameter names off a Lua prototype. Go
// functions registered into the state have no prototype and declare none.
func parameterNames(fn *lua.LFunction) []string {
	if fn.IsG || fn.Proto == nil {
		return nil
	}
	n := int(fn.Proto.NumParameters)
	names := make([]string, 0, n)
	for i := 0; i < n && i < len(fn.Proto.DbgLocals); i++ {
		names = append(names, fn.Proto.DbgLocals[i].Name)
	}
	return names
}

// Parameters returns the function's declared parameter names in order.
func (f *Function) Parameters() []string {
	return f.params
}

// Call invokes the function with args in declaration order and returns the
// truthiness of its first result.
func (f *Function) Call(args ...any) (result bool, err error) {
	L := f.module.L
	ctx, cancel := context.WithTimeout(context.Background(), f.module.timeout)
	defer cancel()
	L.SetContext(ctx)
	defer L.RemoveContext()

	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = toLua(L, a)
	}
	err = f.module.protect(func() error {
		return L.CallByParam(lua.P{Fn: f.fn, NRet: 1, Protect: true}, largs...)
	})
	if err != nil {
		return false, fmt.Errorf("call %s in %s: %w", f.Name, f.module.Path, err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	return lua.LVAsBool(ret), nil
}

func toLua(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return x
	case string:
		return lua.LString(x)
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(x)
	case int64:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case []string:
		t := L.NewTable()
		for _, s := range x {
			t.Append(lua.LString(s))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, e := range x {
			t.RawSetString(k, toLua(L, e))
		}
		return t
	case fmt.Stringer:
		return lua.LString(x.String())
	default:
		return lua.LString(fmt.Sprint(x))
	}
}
