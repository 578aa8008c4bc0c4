// Package ecs provides ECS adapters for matprop.
//
// [NewDonburiStore] bridges matprop injection events into a [Donburi] world
// as typed events. Subscribe to [InjectionEventType] in your ECS systems to
// receive them.
//
// [DriveBindings] is the other direction: a system that writes
// [BindingDriver] component values into LiveBindings, acting as the
// external animation driver for animatable hosts.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
//	ecs.NewBindingDriver(world, host.Get("Amount").Binding())
//	// each tick, before scene.Update:
//	ecs.DriveBindings(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
