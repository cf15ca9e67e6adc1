package entity

import (
	"github.com/milk9111/pinball/assets"
	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
	"github.com/milk9111/pinball/mesh"
	"github.com/milk9111/pinball/units"
	"github.com/milk9111/pinball/vpx"
)

// NewBumper spawns the bumper base with its collider and a separate, slightly
// larger translucent cap drawn above the ball.
func NewBumper(w *ecs.World, item *vpx.Bumper, set *assets.Set, tf units.Transform) (ecs.Entity, error) {
	name := "Bumper " + item.Name
	specs := LoadSpecs()
	spec := specs.Bumper
	missing := specs.Table.MissingMaterial.NRGBA(magenta)

	pos := tf.Point(item.Center.X, item.Center.Y)
	radius := units.VPUToM(item.Radius)

	e, err := spawn(w, name, component.Transform{X: pos.X, Y: pos.Y}, component.LayerItem)
	if err != nil {
		return 0, err
	}
	base, _ := materialColor(set, item.BaseMaterial, missing)
	if err := ecs.Add(w, e, component.VisualComponent.Kind(), &component.Visual{
		Mesh:    mesh.Circle(radius, 0),
		Color:   base,
		UVScale: 1,
	}); err != nil {
		return fail(w, e, name, "visual", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Collider:        component.ColliderCircle,
		Radius:          radius,
		Static:          true,
		CollisionEvents: true,
	}); err != nil {
		return fail(w, e, name, "physics body", err)
	}
	if err := ecs.Add(w, e, component.BumperComponent.Kind(), &component.Bumper{
		Name:  item.Name,
		Force: item.Force * spec.ForceScale,
	}); err != nil {
		return fail(w, e, name, "bumper", err)
	}

	capName := "Bumper Cap " + item.Name
	c, err := spawn(w, capName, component.Transform{X: pos.X, Y: pos.Y, Z: 0.01}, component.LayerCap)
	if err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	capColor, _ := materialColor(set, item.CapMaterial, missing)
	if err := ecs.Add(w, c, component.VisualComponent.Kind(), &component.Visual{
		Mesh:    mesh.Circle(radius+spec.CapMargin, 0),
		Color:   withAlpha(capColor, spec.CapAlpha),
		UVScale: 1,
		Blend:   true,
	}); err != nil {
		ecs.DestroyEntity(w, e)
		return fail(w, c, capName, "visual", err)
	}

	return e, nil
}
