package entity

import (
	"math"

	"github.com/milk9111/pinball/assets"
	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
	"github.com/milk9111/pinball/mesh"
	"github.com/milk9111/pinball/units"
	"github.com/milk9111/pinball/vpx"
)

// FlipperGeometry is the simulation placement of a flipper.
type FlipperGeometry struct {
	Anchor units.Vec2
	Length float64
	// MinAngle and MaxAngle bound the body rotation in radians.
	MinAngle  float64
	MaxAngle  float64
	RestAngle float64
	Left      bool
}

// Center is the body center when the flipper lies at angle.
func (g FlipperGeometry) Center(angle float64) units.Vec2 {
	return g.Anchor.Add(units.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(g.Length / 2))
}

// NewFlipperGeometry converts the native flipper angles. A flipper whose
// start angle is greater than its end angle points right from a left pivot.
func NewFlipperGeometry(item *vpx.Flipper, tf units.Transform) FlipperGeometry {
	start := units.FlipperAngle(item.StartAngle)
	end := units.FlipperAngle(item.EndAngle)
	return FlipperGeometry{
		Anchor:    tf.Point(item.Center.X, item.Center.Y),
		Length:    units.VPUToM(item.RadiusMax + item.EndRadius/2),
		MinAngle:  math.Min(start, end),
		MaxAngle:  math.Max(start, end),
		RestAngle: start,
		Left:      item.StartAngle > item.EndAngle,
	}
}

// NewFlipper spawns the flipper bat and its pivot marker. The physics host
// pins the bat to the table at the anchor and limits its swing.
func NewFlipper(w *ecs.World, item *vpx.Flipper, _ *assets.Set, tf units.Transform) (ecs.Entity, error) {
	name := "Flipper " + item.Name
	spec := LoadSpecs().Flipper
	geo := NewFlipperGeometry(item, tf)
	center := geo.Center(geo.RestAngle)
	z := units.VPUToM(item.Height)

	sign := 1.0
	if !geo.Left {
		sign = -1
	}

	e, err := spawn(w, name, component.Transform{
		X:        center.X,
		Y:        center.Y,
		Z:        z,
		Rotation: geo.RestAngle,
	}, component.LayerItem)
	if err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.VisualComponent.Kind(), &component.Visual{
		Mesh:    mesh.Rect(geo.Length, spec.Thickness),
		Color:   spec.Color.NRGBA(antiqueWhite),
		UVScale: 1,
	}); err != nil {
		return fail(w, e, name, "visual", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Collider:   component.ColliderBox,
		Width:      geo.Length,
		Height:     spec.Thickness,
		Mass:       spec.Mass,
		Elasticity: spec.Elasticity,
		Friction:   spec.Friction,
		NoSleep:    true,
	}); err != nil {
		return fail(w, e, name, "physics body", err)
	}
	if err := ecs.Add(w, e, component.FlipperComponent.Kind(), &component.Flipper{
		Name:           item.Name,
		Left:           geo.Left,
		MinAngle:       geo.MinAngle,
		MaxAngle:       geo.MaxAngle,
		RestAngle:      geo.RestAngle,
		Length:         geo.Length,
		AnchorX:        geo.Anchor.X,
		AnchorY:        geo.Anchor.Y,
		EnabledTorque:  sign * spec.EnabledTorque,
		DisabledTorque: sign * spec.DisabledTorque,
	}); err != nil {
		return fail(w, e, name, "flipper", err)
	}

	anchorName := name + " Anchor"
	a, err := spawn(w, anchorName, component.Transform{X: geo.Anchor.X, Y: geo.Anchor.Y, Z: z + 0.001}, component.LayerCap)
	if err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	if err := ecs.Add(w, a, component.VisualComponent.Kind(), &component.Visual{
		Mesh:    mesh.Circle(spec.AnchorRadius, 12),
		Color:   spec.AnchorColor.NRGBA(yellow),
		UVScale: 1,
	}); err != nil {
		ecs.DestroyEntity(w, e)
		return fail(w, a, anchorName, "visual", err)
	}
	if err := ecs.Add(w, a, component.AnchorTagComponent.Kind(), &component.AnchorTag{}); err != nil {
		ecs.DestroyEntity(w, e)
		return fail(w, a, anchorName, "anchor tag", err)
	}

	return e, nil
}
