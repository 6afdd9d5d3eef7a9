// Package luabind exposes an arbor.World to Lua scripts.
//
// Scripts see a global table "arbor". Units are passed as packed handle
// numbers and nodes as zero-based indices returned by arbor.node. Every call
// goes through the checked API, so a stale unit or a bad node index raises a
// Lua error instead of crashing the host.
package luabind

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/phanxgames/arbor"
)

// APIVersion is published to scripts as the global API_VERSION.
const APIVersion = 1

// Engine wraps a single gopher-lua VM bound to one world.
// Single-goroutine access only (game loop).
type Engine struct {
	vm    *lua.LState
	world *arbor.World
	units map[string]arbor.NodeLayout
	log   *zap.Logger
}

// NewEngine creates a Lua VM with the arbor module installed.
// A nil logger disables logging.
func NewEngine(world *arbor.World, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(APIVersion))

	e := &Engine{
		vm:    vm,
		world: world,
		units: make(map[string]arbor.NodeLayout),
		log:   log,
	}
	e.install()
	return e
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// RegisterUnit makes layout spawnable from Lua as arbor.spawn_unit(name, ...).
func (e *Engine) RegisterUnit(name string, layout arbor.NodeLayout) error {
	if err := arbor.ValidateLayout(layout); err != nil {
		return fmt.Errorf("register unit %s: %w", name, err)
	}
	e.units[name] = layout
	return nil
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// DoFile runs the Lua file at path.
func (e *Engine) DoFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// LoadDir runs every .lua file in dir in name order. A missing directory is
// not an error.
func (e *Engine) LoadDir(dir string) error {
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
		if err := e.DoFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// HasHook reports whether the script defined a global function name.
func (e *Engine) HasHook(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// CallHook calls the global function name with args. Missing hooks are
// skipped silently.
func (e *Engine) CallHook(name string, args ...lua.LValue) error {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return nil
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		return fmt.Errorf("lua %s: %w", name, err)
	}
	return nil
}

// Update calls the script's update(dt) hook. Errors are logged, not
// returned, so a broken script does not stop the simulation.
func (e *Engine) Update(dt float32) {
	if err := e.CallHook("update", lua.LNumber(dt)); err != nil {
		e.log.Error("lua update error", zap.Error(err))
	}
}
