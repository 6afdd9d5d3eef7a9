package arbor

// SceneGraph is a structure-of-arrays transform hierarchy. Nodes are addressed
// by their index, which also encodes evaluation order: every node's parent has
// a smaller index than the node itself. Update relies on that ordering to
// resolve all world poses in one forward pass.
//
// A SceneGraph is not safe for concurrent use. Mutate it, then call Update.
type SceneGraph struct {
	// index is the graph's slot in its SceneGraphManager. It changes when
	// another graph is swap-removed from the pool; do not cache it.
	index int

	flags   []DirtyFlag
	world   []Mat4
	local   []Mat4
	parents []int32
	names   []StringID32

	// moved[i] is set during Update when node i's world pose changed in that
	// pass; children read it to decide whether to recompute.
	moved []bool
	// changed[i] accumulates world pose changes until ClearChanged.
	changed []bool

	created   bool
	destroyed bool
}

// NewSceneGraph returns an empty graph outside of any pool. Most callers
// obtain graphs from SceneGraphManager.CreateSceneGraph instead.
func NewSceneGraph() *SceneGraph {
	return &SceneGraph{index: -1}
}

// ValidateLayout checks that layout can be passed to SceneGraph.Create:
// parallel slices of equal, non-zero length, node 0 a root, and every parent
// index smaller than its child's index.
func ValidateLayout(layout NodeLayout) error {
	n := len(layout.Names)
	if n == 0 {
		return contractError(ErrMalformedLayout, "ValidateLayout", "no nodes")
	}
	if len(layout.Poses) != n || len(layout.Parents) != n {
		return contractError(ErrMalformedLayout, "ValidateLayout",
			"%d names, %d poses, %d parents", n, len(layout.Poses), len(layout.Parents))
	}
	for i, p := range layout.Parents {
		if p != NoParent && (p < 0 || int(p) >= i) {
			return contractError(ErrMalformedLayout, "ValidateLayout", "node %d has parent %d", i, p)
		}
	}
	return nil
}

// Create initializes the graph from layout. Every node whose parent is
// NoParent is placed relative to root; the first pass of Update then resolves
// all world poses. Panics if the graph was already created or if layout is
// malformed (see ValidateLayout).
func (g *SceneGraph) Create(root Mat4, layout NodeLayout) {
	must(g.TryCreate(root, layout))
}

// TryCreate is the checked variant of Create.
func (g *SceneGraph) TryCreate(root Mat4, layout NodeLayout) error {
	if g.created || g.destroyed {
		return contractError(ErrMalformedLayout, "SceneGraph.Create", "graph already created")
	}
	if err := ValidateLayout(layout); err != nil {
		return err
	}

	n := layout.Len()
	g.flags = make([]DirtyFlag, n)
	g.world = make([]Mat4, n)
	g.local = make([]Mat4, n)
	g.parents = make([]int32, n)
	g.names = make([]StringID32, n)
	g.moved = make([]bool, n)
	g.changed = make([]bool, n)

	copy(g.parents, layout.Parents)
	copy(g.names, layout.Names)
	for i := 0; i < n; i++ {
		g.flags[i] = Clean
		g.local[i] = layout.Poses[i]
		g.world[i] = identityPose
		if g.parents[i] == NoParent {
			g.local[i] = root.Mul4(layout.Poses[i])
			g.world[i] = g.local[i]
			g.flags[i] = WorldDirty
		}
	}
	g.created = true

	g.update()
	g.ClearChanged()
	return nil
}

// Destroy releases the node arrays. The graph must not be used afterwards.
func (g *SceneGraph) Destroy() {
	g.flags = nil
	g.world = nil
	g.local = nil
	g.parents = nil
	g.names = nil
	g.moved = nil
	g.changed = nil
	g.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (g *SceneGraph) Destroyed() bool {
	return g.destroyed
}

// Index returns the graph's current slot in its pool, or -1 when it is not
// pooled. The value changes when other graphs are destroyed.
func (g *SceneGraph) Index() int {
	return g.index
}

// NumNodes returns the number of nodes in the graph.
func (g *SceneGraph) NumNodes() int {
	return len(g.parents)
}

// --- Lookup ---

// Node returns the index of the node called name.
// Panics with ErrNodeNotFound if there is none.
func (g *SceneGraph) Node(name string) int {
	n, err := g.TryNodeByHash(HashName(name))
	must(err)
	return n
}

// NodeByHash returns the index of the node whose name hashes to name.
// Panics with ErrNodeNotFound if there is none.
func (g *SceneGraph) NodeByHash(name StringID32) int {
	n, err := g.TryNodeByHash(name)
	must(err)
	return n
}

// TryNode is the checked variant of Node.
func (g *SceneGraph) TryNode(name string) (int, error) {
	n, err := g.TryNodeByHash(HashName(name))
	if err != nil {
		return -1, contractError(ErrNodeNotFound, "SceneGraph.Node", "%q", name)
	}
	return n, nil
}

// TryNodeByHash is the checked variant of NodeByHash.
func (g *SceneGraph) TryNodeByHash(name StringID32) (int, error) {
	// Linear: graphs hold tens of nodes and lookups happen at bind time.
	for i, h := range g.names {
		if h == name {
			return i, nil
		}
	}
	return -1, contractError(ErrNodeNotFound, "SceneGraph.Node", "hash %#08x", uint32(name))
}

// HasNode reports whether a node called name exists.
func (g *SceneGraph) HasNode(name string) bool {
	_, err := g.TryNodeByHash(HashName(name))
	return err == nil
}

// NameHash returns the name hash of node.
func (g *SceneGraph) NameHash(node int) StringID32 {
	g.mustNode("SceneGraph.NameHash", node)
	return g.names[node]
}

// CheckNode returns an ErrNodeOutOfRange error if node does not exist.
func (g *SceneGraph) CheckNode(node int) error {
	return g.checkNode("SceneGraph.CheckNode", node)
}

func (g *SceneGraph) checkNode(op string, node int) error {
	if node < 0 || node >= len(g.parents) {
		return contractError(ErrNodeOutOfRange, op, "node %d of %d", node, len(g.parents))
	}
	return nil
}

func (g *SceneGraph) mustNode(op string, node int) {
	must(g.checkNode(op, node))
}

// --- Hierarchy ---

// CanLink reports whether child may be linked under parent.
func (g *SceneGraph) CanLink(child, parent int) bool {
	return parent < child
}

// Link makes child follow parent. The child's local pose is reset to
// identity, so it snaps to the parent's origin until a local pose is set.
// Panics with ErrParentOrder unless parent < child.
func (g *SceneGraph) Link(child, parent int) {
	must(g.TryLink(child, parent))
}

// TryLink is the checked variant of Link.
func (g *SceneGraph) TryLink(child, parent int) error {
	const op = "SceneGraph.Link"
	if err := g.checkNode(op, child); err != nil {
		return err
	}
	if err := g.checkNode(op, parent); err != nil {
		return err
	}
	if !g.CanLink(child, parent) {
		return contractError(ErrParentOrder, op, "child %d, parent %d", child, parent)
	}

	g.local[child] = identityPose
	g.world[child] = g.world[parent]
	g.parents[child] = int32(parent)
	g.flags[child] |= LocalDirty
	return nil
}

// Unlink detaches child from its parent, if any. The node's last resolved
// world pose becomes its local pose so it does not move.
func (g *SceneGraph) Unlink(child int) {
	must(g.TryUnlink(child))
}

// TryUnlink is the checked variant of Unlink.
func (g *SceneGraph) TryUnlink(child int) error {
	if err := g.checkNode("SceneGraph.Unlink", child); err != nil {
		return err
	}
	if g.parents[child] == NoParent {
		return nil
	}
	g.local[child] = g.world[child]
	g.parents[child] = NoParent
	g.flags[child] |= LocalDirty
	return nil
}

// Parent returns the parent of node, or NoParent for roots.
func (g *SceneGraph) Parent(node int) int {
	g.mustNode("SceneGraph.Parent", node)
	return int(g.parents[node])
}

// Children returns the direct children of node in index order. Children
// always follow their parent, so only the tail of the graph is scanned.
func (g *SceneGraph) Children(node int) []int {
	g.mustNode("SceneGraph.Children", node)
	var out []int
	for i := node + 1; i < len(g.parents); i++ {
		if int(g.parents[i]) == node {
			out = append(out, i)
		}
	}
	return out
}

// Flags returns the pending dirty state of node.
func (g *SceneGraph) Flags(node int) DirtyFlag {
	g.mustNode("SceneGraph.Flags", node)
	return g.flags[node]
}

// --- Local pose ---

// SetLocalPosition sets the translation of node relative to its parent.
func (g *SceneGraph) SetLocalPosition(node int, pos Vec3) {
	g.mustNode("SceneGraph.SetLocalPosition", node)
	setTranslation(&g.local[node], pos)
	g.flags[node] |= LocalDirty
}

// SetLocalRotation sets the rotation of node relative to its parent.
func (g *SceneGraph) SetLocalRotation(node int, rot Quat) {
	g.mustNode("SceneGraph.SetLocalRotation", node)
	setRotation(&g.local[node], rot)
	g.flags[node] |= LocalDirty
}

// SetLocalScale sets the scale of node relative to its parent.
func (g *SceneGraph) SetLocalScale(node int, scale Vec3) {
	g.mustNode("SceneGraph.SetLocalScale", node)
	setScale(&g.local[node], scale)
	g.flags[node] |= LocalDirty
}

// SetLocalPose sets the full pose of node relative to its parent.
func (g *SceneGraph) SetLocalPose(node int, pose Mat4) {
	g.mustNode("SceneGraph.SetLocalPose", node)
	g.local[node] = pose
	g.flags[node] |= LocalDirty
}

// LocalPosition returns the translation of node relative to its parent.
func (g *SceneGraph) LocalPosition(node int) Vec3 {
	g.mustNode("SceneGraph.LocalPosition", node)
	return translation(g.local[node])
}

// LocalRotation returns the rotation of node relative to its parent.
func (g *SceneGraph) LocalRotation(node int) Quat {
	g.mustNode("SceneGraph.LocalRotation", node)
	return rotation(g.local[node])
}

// LocalScale returns the scale of node relative to its parent.
func (g *SceneGraph) LocalScale(node int) Vec3 {
	g.mustNode("SceneGraph.LocalScale", node)
	return scaleOf(g.local[node])
}

// LocalPose returns the pose of node relative to its parent.
func (g *SceneGraph) LocalPose(node int) Mat4 {
	g.mustNode("SceneGraph.LocalPose", node)
	return g.local[node]
}

// --- World pose ---

// SetWorldPosition overwrites the world translation of node.
func (g *SceneGraph) SetWorldPosition(node int, pos Vec3) {
	g.mustNode("SceneGraph.SetWorldPosition", node)
	setTranslation(&g.world[node], pos)
	g.flags[node] |= WorldDirty
}

// SetWorldRotation overwrites the world rotation of node.
func (g *SceneGraph) SetWorldRotation(node int, rot Quat) {
	g.mustNode("SceneGraph.SetWorldRotation", node)
	setRotation(&g.world[node], rot)
	g.flags[node] |= WorldDirty
}

// SetWorldPose overwrites the world pose of node. Used when a simulation
// writes back a pose it owns.
func (g *SceneGraph) SetWorldPose(node int, pose Mat4) {
	g.mustNode("SceneGraph.SetWorldPose", node)
	g.world[node] = pose
	g.flags[node] |= WorldDirty
}

// SetWorldPoseAndRescale is SetWorldPose with the node's local scale
// reapplied, for simulations that only track rigid poses.
func (g *SceneGraph) SetWorldPoseAndRescale(node int, pose Mat4) {
	g.mustNode("SceneGraph.SetWorldPoseAndRescale", node)
	setScale(&pose, scaleOf(g.local[node]))
	g.world[node] = pose
	g.flags[node] |= WorldDirty
}

// WorldPosition returns the world translation of node as of the last Update
// or direct world write.
func (g *SceneGraph) WorldPosition(node int) Vec3 {
	g.mustNode("SceneGraph.WorldPosition", node)
	return translation(g.world[node])
}

// WorldRotation returns the world rotation of node.
func (g *SceneGraph) WorldRotation(node int) Quat {
	g.mustNode("SceneGraph.WorldRotation", node)
	return rotation(g.world[node])
}

// WorldPose returns the world pose of node.
func (g *SceneGraph) WorldPose(node int) Mat4 {
	g.mustNode("SceneGraph.WorldPose", node)
	return g.world[node]
}

// --- Resolve ---

// Update recomputes world poses in a single forward pass. A node is
// recomputed when its local pose is dirty or its parent's world pose changed
// earlier in the same pass. A node whose world pose was written directly
// keeps that pose, and its local pose is re-derived from it.
func (g *SceneGraph) Update() {
	g.update()
}

// update resolves the graph. It returns the number of recomputed nodes and
// the number of world writes whose parent pose could not be inverted; those
// nodes keep their previous local pose.
func (g *SceneGraph) update() (recomputed, singular int) {
	for i := range g.parents {
		flags := g.flags[i]
		p := g.parents[i]
		parentMoved := p != NoParent && g.moved[p]

		switch {
		case flags&LocalDirty != 0 || (parentMoved && flags&WorldDirty == 0):
			if p == NoParent {
				g.world[i] = g.local[i]
			} else {
				g.world[i] = g.world[p].Mul4(g.local[i])
			}
			g.moved[i] = true
			recomputed++
		case flags&WorldDirty != 0:
			switch {
			case p == NoParent:
				g.local[i] = g.world[i]
			case isSingular(g.world[p]):
				singular++
			default:
				g.local[i] = g.world[p].Inv().Mul4(g.world[i])
			}
			g.moved[i] = true
		default:
			g.moved[i] = false
		}

		if g.moved[i] {
			g.changed[i] = true
		}
		g.flags[i] = Clean
	}
	return recomputed, singular
}

// isSingular reports whether m has no usable inverse: its determinant
// vanishes or a basis column was collapsed to the minimum scale.
func isSingular(m Mat4) bool {
	if d := m.Det(); d > -1e-12 && d < 1e-12 {
		return true
	}
	s := scaleOf(m)
	return s[0] < 2*minScale || s[1] < 2*minScale || s[2] < 2*minScale
}

// ForEachChanged calls fn for every node whose world pose changed since the
// last ClearChanged, in index order.
func (g *SceneGraph) ForEachChanged(fn func(node int, world Mat4)) {
	for i, c := range g.changed {
		if c {
			fn(i, g.world[i])
		}
	}
}

// ClearChanged resets the changed set.
func (g *SceneGraph) ClearChanged() {
	for i := range g.changed {
		g.changed[i] = false
	}
}

// Validate re-checks the parent ordering of the whole graph. Link only checks
// the pair it is given, which is sufficient to keep the ordering, so this is
// a debugging aid rather than part of the update contract.
func (g *SceneGraph) Validate() error {
	for i, p := range g.parents {
		if p != NoParent && (p < 0 || int(p) >= i) {
			return contractError(ErrParentOrder, "SceneGraph.Validate", "node %d has parent %d", i, p)
		}
	}
	return nil
}
