// Package ecs provides ECS adapters for matprop.
package ecs

import (
	"github.com/phanxgames/matprop"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// InjectionEventType is the Donburi event type for matprop injection events.
// Subscribe to this in your ECS systems to observe material writes.
var InjectionEventType = events.NewEventType[matprop.InjectionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Injection events are published to InjectionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) matprop.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event matprop.InjectionEvent) {
	InjectionEventType.Publish(s.world, event)
}

// BindingDriverData holds the value an ECS system wants a LiveBinding to
// carry. Only the field matching the binding's kind is used.
type BindingDriverData struct {
	Binding *matprop.LiveBinding

	Int     int
	Float   float64
	Color   matprop.Color
	Vector  matprop.Vec4
	Texture *matprop.Texture
}

// BindingDriver is the component that links an entity to a LiveBinding.
var BindingDriver = donburi.NewComponentType[BindingDriverData]()

// NewBindingDriver creates an entity driving b, seeded with b's current value.
func NewBindingDriver(world donburi.World, b *matprop.LiveBinding) donburi.Entity {
	e := world.Create(BindingDriver)
	d := BindingDriver.Get(world.Entry(e))
	d.Binding = b
	d.Int = b.Int()
	d.Float = b.Float()
	d.Color = b.Color()
	d.Vector = b.Vector()
	d.Texture = b.Texture()
	return e
}

// DriveBindings writes every BindingDriver value into its LiveBinding.
// Entities whose binding was destroyed are removed from the world.
// Returns the number of bindings written.
func DriveBindings(world donburi.World) int {
	var driven int
	var stale []donburi.Entity
	donburi.NewQuery(filter.Contains(BindingDriver)).Each(world, func(entry *donburi.Entry) {
		d := BindingDriver.Get(entry)
		b := d.Binding
		if b == nil || b.IsDisposed() {
			stale = append(stale, entry.Entity())
			return
		}
		switch b.Kind() {
		case matprop.PropertyInt:
			b.SetInt(d.Int)
		case matprop.PropertyFloat:
			b.SetFloat(d.Float)
		case matprop.PropertyColor:
			b.SetColor(d.Color)
		case matprop.PropertyVector:
			b.SetVector(d.Vector)
		case matprop.PropertyTexture:
			b.SetTexture(d.Texture)
		}
		driven++
	})
	for _, e := range stale {
		world.Remove(e)
	}
	return driven
}
