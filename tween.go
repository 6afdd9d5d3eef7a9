package arbor

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates the local pose of one SceneGraph node. Create one via
// TweenLocalPosition or TweenLocalRotation and call Update(dt) each frame
// before the graph is resolved. The group writes through the graph's local
// setters, so the node is marked dirty. If the graph is destroyed, the group
// stops immediately.
//
// There is no global animation manager. Call Update yourself or register the
// group with World.AddTween.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	apply  func(vals [3]float32)
	graph  *SceneGraph
	node   int
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the node.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.graph == nil || g.graph.Destroyed() {
		g.Done = true
		return
	}

	allDone := true
	var vals [3]float32
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = val
		if !finished {
			allDone = false
		}
	}
	g.apply(vals)
	g.Done = allDone
}

// Node returns the animated node index.
func (g *TweenGroup) Node() int {
	return g.node
}

// TweenLocalPosition creates a TweenGroup that moves node's local translation
// to the given position over duration seconds using the easing function.
func TweenLocalPosition(graph *SceneGraph, node int, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := graph.LocalPosition(node)
	g := &TweenGroup{count: 3, graph: graph, node: node}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(from[i], to[i], duration, fn)
	}
	g.apply = func(vals [3]float32) {
		graph.SetLocalPosition(node, Vec3{vals[0], vals[1], vals[2]})
	}
	return g
}

// TweenLocalRotation creates a TweenGroup that rotates node toward the given
// local rotation over duration seconds. The easing function drives a
// spherical interpolation between the start and target rotations.
func TweenLocalRotation(graph *SceneGraph, node int, to Quat, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := graph.LocalRotation(node)
	to = to.Normalize()
	g := &TweenGroup{count: 1, graph: graph, node: node}
	g.tweens[0] = gween.New(0, 1, duration, fn)
	g.apply = func(vals [3]float32) {
		graph.SetLocalRotation(node, mgl32.QuatSlerp(from, to, vals[0]))
	}
	return g
}
