// Package scripting wraps a gopher-lua VM for the builder/storyteller
// "generate" verbs, adapted from the teacher's internal/scripting.Engine
// (single-goroutine VM, directory-of-.lua-files loading) but generalized to
// the dispatch-boundary contract internal/world/command.Scripting expects
// instead of hard-coded combat math.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for content-generation scripts.
// Single-goroutine access only; Engine takes no lock of its own, and the
// command dispatcher holds none around handlers, so callers serialize access.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file directly under
// scriptsDir and under its area, room, item and npc subdirectories; other
// subdirectories are not loaded.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	for _, sub := range []string{"area", "room", "item", "npc"} {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Call invokes a global Lua function by name with string arguments,
// returning its first string return value. This is the dispatch boundary
// internal/world/command.Scripting consumes for "generate" verbs; the
// content-authoring logic behind the function itself is out of scope.
func (e *Engine) Call(fn string, args ...string) (string, error) {
	f := e.vm.GetGlobal(fn)
	if f == lua.LNil {
		return "", fmt.Errorf("lua function %q not found", fn)
	}
	luaArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		luaArgs[i] = lua.LString(a)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, luaArgs...); err != nil {
		return "", fmt.Errorf("call %s: %w", fn, err)
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	return ret.String(), nil
}

func (e *Engine) Close() {
	e.vm.Close()
}
