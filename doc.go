// Package arbor is a handle-based object table and transform hierarchy for
// game simulations.
//
// Arbor provides the generational slot tables, the structure-of-arrays scene
// graph and the per-tick resolve pass that rendering, physics and scripting
// subsystems share to reference spatial nodes without raw pointers.
//
// # Handles
//
// An [IdTable] hands out [Id] values: a generation paired with a slot index.
// A handle stays valid until it is destroyed; once the slot is reused for a
// new object the old handle permanently fails [IdTable.Has].
//
//	table := arbor.NewIdTable(1024)
//	id := table.Create()
//	if table.Has(id) {
//		table.Destroy(id)
//	}
//
// [IdArray] additionally stores one object per handle and keeps the objects
// densely packed for iteration:
//
//	bodies := arbor.NewIdArray[Body](4096)
//	id := bodies.Create(Body{Mass: 1})
//	bodies.Get(id).Mass = 2
//	for _, b := range bodies.Objects() {
//		// ...
//	}
//
// # Scene graph
//
// A [SceneGraph] is created from a [NodeLayout] whose nodes are sorted so
// that every parent precedes its children. That ordering lets
// [SceneGraph.Update] resolve all world poses in one forward pass.
//
//	pool := arbor.NewSceneGraphManager(logger)
//	g := pool.CreateSceneGraph()
//	g.Create(rootPose, layout)
//
//	hand := g.Node("hand")
//	g.SetLocalRotation(hand, q)
//	pool.Update()
//	pos := g.WorldPosition(hand)
//
// Local setters mark a node [LocalDirty]; world setters mark it [WorldDirty]
// and keep the written pose, re-deriving the local pose from it on the next
// update. Either way every descendant follows.
//
// # Errors
//
// Contract violations (stale handles, out-of-range nodes, parent ordering,
// exhausted tables) panic with an error wrapping an [ErrorCode]. Each
// panicking operation has a Try variant returning the same error, for
// callers that handle untrusted input such as scripts.
//
// # Units
//
// [World] ties the pieces together: it stores units in an IdArray, gives each
// its own graph from the pool, advances tweens (via [gween]) and forwards pose
// changes to an optional [EntityStore] such as the [Donburi] adapter in
// arbor/ecs.
//
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package arbor
