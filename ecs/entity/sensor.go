package entity

import (
	"image/color"

	"github.com/milk9111/pinball/assets"
	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
	"github.com/milk9111/pinball/mesh"
	"github.com/milk9111/pinball/units"
	"github.com/milk9111/pinball/vpx"
)

// NewKicker spawns a kicker hole as a sensor. Table rules react to balls
// entering it.
func NewKicker(w *ecs.World, item *vpx.Kicker, _ *assets.Set, tf units.Transform) (ecs.Entity, error) {
	name := "Kicker " + item.Name
	e, err := newSensor(w, name, tf.Point(item.Center.X, item.Center.Y), units.VPUToM(item.Radius),
		LoadSpecs().Table.KickerColor.NRGBA(green))
	if err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.KickerComponent.Kind(), &component.Kicker{Name: item.Name}); err != nil {
		return fail(w, e, name, "kicker", err)
	}
	return e, nil
}

func NewTrigger(w *ecs.World, item *vpx.Trigger, _ *assets.Set, tf units.Transform) (ecs.Entity, error) {
	name := "Trigger " + item.Name
	e, err := newSensor(w, name, tf.Point(item.Center.X, item.Center.Y), units.VPUToM(item.Radius),
		LoadSpecs().Table.TriggerColor.NRGBA(yellow))
	if err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.TriggerComponent.Kind(), &component.Trigger{Name: item.Name}); err != nil {
		return fail(w, e, name, "trigger", err)
	}
	return e, nil
}

// newSensor builds a static circular sensor drawn as a thin ring.
func newSensor(w *ecs.World, name string, pos units.Vec2, radius float64, col color.NRGBA) (ecs.Entity, error) {
	e, err := spawn(w, name, component.Transform{X: pos.X, Y: pos.Y}, component.LayerItem)
	if err != nil {
		return 0, err
	}
	inner := radius - 0.001
	if inner < 0 {
		inner = 0
	}
	if err := ecs.Add(w, e, component.VisualComponent.Kind(), &component.Visual{
		Mesh:    mesh.Annulus(inner, radius, 0),
		Color:   col,
		UVScale: 1,
	}); err != nil {
		return fail(w, e, name, "visual", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Collider:        component.ColliderCircle,
		Radius:          radius,
		Static:          true,
		Sensor:          true,
		CollisionEvents: true,
	}); err != nil {
		return fail(w, e, name, "physics body", err)
	}
	return e, nil
}
