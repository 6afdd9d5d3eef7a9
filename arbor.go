package arbor

import "github.com/go-gl/mathgl/mgl32"

// Vec3, Quat and Mat4 are the pose primitives used throughout the API.
// Matrices are column-major with the translation in the fourth column.
type (
	Vec3 = mgl32.Vec3
	Quat = mgl32.Quat
	Mat4 = mgl32.Mat4
)

// Id is a generation-checked handle to a slot in an IdTable or IdArray.
// Handles are plain values: copy them freely, check Has before use and never
// keep one past the Destroy of the same slot.
type Id struct {
	ID    uint16 // generation stamped when the slot was allocated
	Index uint16 // slot index
}

// invalidID marks a slot that holds no live object. It is never handed out
// as a generation because table capacity is capped below it.
const invalidID = 0xFFFF

// NoId is a handle that is never valid in any table.
var NoId = Id{ID: invalidID, Index: invalidID}

// Pack encodes the handle into a single 32-bit value with the generation in
// the upper half. Used to hand handles to scripting and ECS payloads.
func (id Id) Pack() uint32 {
	return uint32(id.ID)<<16 | uint32(id.Index)
}

// UnpackId is the inverse of Id.Pack.
func UnpackId(v uint32) Id {
	return Id{ID: uint16(v >> 16), Index: uint16(v)}
}

// DirtyFlag is the per-node resolve state of a SceneGraph node.
type DirtyFlag uint8

const (
	Clean      DirtyFlag = 0      // world pose is up to date
	LocalDirty DirtyFlag = 1      // local pose changed since the last Update
	WorldDirty DirtyFlag = 1 << 2 // world pose was written directly since the last Update
)

// NoParent is the parent index stored for root nodes.
const NoParent = -1

// NodeLayout is the node array a SceneGraph is created from. The three slices
// are parallel and must be sorted so that every parent index is smaller than
// the index of the node that references it.
type NodeLayout struct {
	Names   []StringID32
	Poses   []Mat4
	Parents []int32
}

// Len returns the number of nodes in the layout.
func (l NodeLayout) Len() int {
	return len(l.Names)
}

// EventType identifies a kind of World event.
type EventType uint8

const (
	EventUnitSpawned   EventType = iota // a unit was spawned
	EventUnitDestroyed                  // a unit was destroyed
	EventPoseChanged                    // a node's world pose changed during Update
)

// WorldEvent carries World notifications for an EntityStore.
type WorldEvent struct {
	Type EventType
	Unit Id
	// Node and Pose are the changed node for EventPoseChanged, and node 0 at
	// its initial pose for EventUnitSpawned.
	Node int
	Pose Mat4
}

// EntityStore is the interface for optional ECS integration.
// When set on a World, unit lifecycle and pose events are forwarded to it.
type EntityStore interface {
	EmitEvent(event WorldEvent)
}
