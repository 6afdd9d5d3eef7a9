package luabind

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
	lua "github.com/yuin/gopher-lua"

	"github.com/phanxgames/arbor"
)

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in_quad":      ease.InQuad,
	"out_quad":     ease.OutQuad,
	"in_out_quad":  ease.InOutQuad,
	"out_cubic":    ease.OutCubic,
	"in_out_cubic": ease.InOutCubic,
	"in_out_sine":  ease.InOutSine,
	"out_bounce":   ease.OutBounce,
	"out_elastic":  ease.OutElastic,
}

func (e *Engine) install() {
	mod := e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"spawn_unit":   e.spawnUnit,
		"destroy_unit": e.destroyUnit,
		"has_unit":     e.hasUnit,
		"num_units":    e.numUnits,
		"units":        e.listUnits,
		"unit_name":    e.unitName,

		"node":      e.node,
		"num_nodes": e.numNodes,
		"parent":    e.parent,
		"children":  e.children,
		"link":      e.link,
		"unlink":    e.unlink,

		"local_position":     e.localPosition,
		"set_local_position": e.setLocalPosition,
		"local_rotation":     e.localRotation,
		"set_local_rotation": e.setLocalRotation,
		"local_scale":        e.localScale,
		"set_local_scale":    e.setLocalScale,
		"world_position":     e.worldPosition,
		"set_world_position": e.setWorldPosition,
		"world_rotation":     e.worldRotation,

		"tween_local_position": e.tweenLocalPosition,
	})
	mod.RawSetString("NO_PARENT", lua.LNumber(arbor.NoParent))
	e.vm.SetGlobal("arbor", mod)
}

// --- argument helpers ---

func checkUnitID(L *lua.LState, n int) arbor.Id {
	return arbor.UnpackId(uint32(L.CheckNumber(n)))
}

func (e *Engine) checkUnit(L *lua.LState, n int) *arbor.Unit {
	u, err := e.world.TryUnit(checkUnitID(L, n))
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	return u
}

// checkNode returns the unit's graph and the node index at argument n+1.
func (e *Engine) checkNode(L *lua.LState, n int) (*arbor.SceneGraph, int) {
	g := e.checkUnit(L, n).SceneGraph()
	node := L.CheckInt(n + 1)
	if err := g.CheckNode(node); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return g, node
}

func checkVec3(L *lua.LState, n int) arbor.Vec3 {
	return arbor.Vec3{
		float32(L.CheckNumber(n)),
		float32(L.CheckNumber(n + 1)),
		float32(L.CheckNumber(n + 2)),
	}
}

func checkQuat(L *lua.LState, n int) arbor.Quat {
	v := checkVec3(L, n)
	q := mgl32.Quat{W: float32(L.CheckNumber(n + 3)), V: v}
	if q.Len() < 1e-6 {
		L.ArgError(n, "zero quaternion")
	}
	return q
}

func pushVec3(L *lua.LState, v arbor.Vec3) int {
	L.Push(lua.LNumber(v[0]))
	L.Push(lua.LNumber(v[1]))
	L.Push(lua.LNumber(v[2]))
	return 3
}

func pushQuat(L *lua.LState, q arbor.Quat) int {
	pushVec3(L, q.V)
	L.Push(lua.LNumber(q.W))
	return 4
}

// --- units ---

// spawn_unit(name, x, y, z) -> unit
func (e *Engine) spawnUnit(L *lua.LState) int {
	name := L.CheckString(1)
	layout, ok := e.units[name]
	if !ok {
		L.ArgError(1, "unknown unit "+name)
	}
	pos := arbor.Vec3{}
	if L.GetTop() >= 2 {
		pos = checkVec3(L, 2)
	}
	id, err := e.world.TrySpawnUnit(name, layout, mgl32.Translate3D(pos[0], pos[1], pos[2]))
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	L.Push(lua.LNumber(id.Pack()))
	return 1
}

// destroy_unit(unit)
func (e *Engine) destroyUnit(L *lua.LState) int {
	if err := e.world.TryDestroyUnit(checkUnitID(L, 1)); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// has_unit(unit) -> bool
func (e *Engine) hasUnit(L *lua.LState) int {
	L.Push(lua.LBool(e.world.HasUnit(checkUnitID(L, 1))))
	return 1
}

// num_units() -> int
func (e *Engine) numUnits(L *lua.LState) int {
	L.Push(lua.LNumber(e.world.NumUnits()))
	return 1
}

// units() -> {unit, ...}
func (e *Engine) listUnits(L *lua.LState) int {
	t := L.NewTable()
	for _, id := range e.world.Units() {
		t.Append(lua.LNumber(id.Pack()))
	}
	L.Push(t)
	return 1
}

// unit_name(unit) -> string
func (e *Engine) unitName(L *lua.LState) int {
	L.Push(lua.LString(e.checkUnit(L, 1).Name()))
	return 1
}

// --- hierarchy ---

// node(unit, name) -> index
func (e *Engine) node(L *lua.LState) int {
	g := e.checkUnit(L, 1).SceneGraph()
	n, err := g.TryNode(L.CheckString(2))
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	L.Push(lua.LNumber(n))
	return 1
}

// num_nodes(unit) -> int
func (e *Engine) numNodes(L *lua.LState) int {
	L.Push(lua.LNumber(e.checkUnit(L, 1).SceneGraph().NumNodes()))
	return 1
}

// parent(unit, node) -> index or NO_PARENT
func (e *Engine) parent(L *lua.LState) int {
	g, n := e.checkNode(L, 1)
	L.Push(lua.LNumber(g.Parent(n)))
	return 1
}

// children(unit, node) -> {index, ...}
func (e *Engine) children(L *lua.LState) int {
	g, n := e.checkNode(L, 1)
	t := L.NewTable()
	for _, c := range g.Children(n) {
		t.Append(lua.LNumber(c))
	}
	L.Push(t)
	return 1
}

// link(unit, child, parent)
func (e *Engine) link(L *lua.LState) int {
	g, child := e.checkNode(L, 1)
	if err := g.TryLink(child, L.CheckInt(3)); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// unlink(unit, child)
func (e *Engine) unlink(L *lua.LState) int {
	g, child := e.checkNode(L, 1)
	if err := g.TryUnlink(child); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// --- poses ---

func (e *Engine) localPosition(L *lua.LState) int {
	g, n := e.checkNode(L, 1)
	return pushVec3(L, g.LocalPosition(n))
}

func (e *Engine) setLocalPosition(L *lua.LState) int {
	g, n := e.checkNode(L, 1)
	g.SetLocalPosition(n, checkVec3(L, 3))
	return 0
}

func (e *Engine) localRotation(L *lua.LState) int {
	g, n := e.checkNode(L, 1)
	return pushQuat(L, g.LocalRotation(n))
}

func (e *Engine) setLocalRotation(L *lua.LState) int {
	g, n := e.checkNode(L, 1)
	g.SetLocalRotation(n, checkQuat(L, 3))
	return 0
}

func (e *Engine) localScale(L *lua.LState) int {
	g, n := e.checkNode(L, 1)
	return pushVec3(L, g.LocalScale(n))
}

func (e *Engine) setLocalScale(L *lua.LState) int {
	g, n := e.checkNode(L, 1)
	s := checkVec3(L, 3)
	for i, v := range s {
		if v == 0 {
			L.ArgError(3+i, "zero scale")
		}
	}
	g.SetLocalScale(n, s)
	return 0
}

func (e *Engine) worldPosition(L *lua.LState) int {
	g, n := e.checkNode(L, 1)
	return pushVec3(L, g.WorldPosition(n))
}

func (e *Engine) setWorldPosition(L *lua.LState) int {
	g, n := e.checkNode(L, 1)
	g.SetWorldPosition(n, checkVec3(L, 3))
	return 0
}

func (e *Engine) worldRotation(L *lua.LState) int {
	g, n := e.checkNode(L, 1)
	return pushQuat(L, g.WorldRotation(n))
}

// tween_local_position(unit, node, x, y, z, duration [, easing])
func (e *Engine) tweenLocalPosition(L *lua.LState) int {
	g, n := e.checkNode(L, 1)
	to := checkVec3(L, 3)
	duration := float32(L.CheckNumber(6))
	fn := ease.Linear
	if name := L.OptString(7, ""); name != "" {
		f, ok := easings[name]
		if !ok {
			L.ArgError(7, "unknown easing "+name)
		}
		fn = f
	}
	e.world.AddTween(arbor.TweenLocalPosition(g, n, to, duration, fn))
	return 0
}
