// Package ecs bridges arbor worlds into a [Donburi] ECS world.
//
// [NewDonburiStore] returns an arbor.EntityStore that republishes unit
// lifecycle and pose events as typed Donburi events and mirrors every unit as
// an entity carrying [UnitComponent] and [PoseComponent]. Subscribe to
// [WorldEventType] in your ECS systems to receive the raw events, or query
// for the components.
//
// Usage:
//
//	store := ecs.NewDonburiStore(ecsWorld)
//	world.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
