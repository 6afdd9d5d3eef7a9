package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"

	"github.com/phanxgames/arbor"
)

// WorldEventType is the Donburi event type for arbor world events.
// Subscribe to this in your ECS systems to receive spawn, destroy and pose
// events.
var WorldEventType = events.NewEventType[arbor.WorldEvent]()

// UnitData links an entity to the arbor unit it mirrors.
type UnitData struct {
	Unit arbor.Id
}

// PoseData holds the world pose of a unit's root node as of the last update.
type PoseData struct {
	World arbor.Mat4
}

var (
	UnitComponent = donburi.NewComponentType[UnitData]()
	PoseComponent = donburi.NewComponentType[PoseData]()
)

// UnitQuery matches every entity mirroring a unit.
var UnitQuery = donburi.NewQuery(filter.Contains(UnitComponent, PoseComponent))

// DonburiStore is an arbor.EntityStore backed by a Donburi world.
type DonburiStore struct {
	world    donburi.World
	entities map[arbor.Id]donburi.Entity
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Events are published to WorldEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{
		world:    world,
		entities: make(map[arbor.Id]donburi.Entity),
	}
}

func (s *DonburiStore) EmitEvent(event arbor.WorldEvent) {
	switch event.Type {
	case arbor.EventUnitSpawned:
		e := s.world.Create(UnitComponent, PoseComponent)
		UnitComponent.SetValue(s.world.Entry(e), UnitData{Unit: event.Unit})
		PoseComponent.SetValue(s.world.Entry(e), PoseData{World: event.Pose})
		s.entities[event.Unit] = e
	case arbor.EventUnitDestroyed:
		if e, ok := s.entities[event.Unit]; ok {
			if s.world.Valid(e) {
				s.world.Remove(e)
			}
			delete(s.entities, event.Unit)
		}
	case arbor.EventPoseChanged:
		if event.Node != 0 {
			break
		}
		if e, ok := s.entities[event.Unit]; ok && s.world.Valid(e) {
			PoseComponent.Get(s.world.Entry(e)).World = event.Pose
		}
	}
	WorldEventType.Publish(s.world, event)
}

// Entity returns the entity mirroring unit.
func (s *DonburiStore) Entity(unit arbor.Id) (donburi.Entity, bool) {
	e, ok := s.entities[unit]
	return e, ok
}

// Len returns the number of mirrored units.
func (s *DonburiStore) Len() int {
	return len(s.entities)
}

var _ arbor.EntityStore = (*DonburiStore)(nil)
