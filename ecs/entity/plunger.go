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

// NewPlunger spawns the launcher body, two lane guides beside its rest
// position and an invisible stop below it. The physics host attaches the
// spring and the vertical groove.
func NewPlunger(w *ecs.World, item *vpx.Plunger, _ *assets.Set, tf units.Transform) (ecs.Entity, error) {
	name := "Plunger " + item.Name
	spec := LoadSpecs().Plunger

	anchor := tf.Point(item.Center.X, item.Center.Y)
	anchor.Y -= units.VPUToM(item.Height)
	stroke := units.VPUToM(item.Stroke)
	width := units.VPUToM(item.Width)
	height := units.VPUToM(item.Height)
	z := height

	e, err := spawn(w, name, component.Transform{X: anchor.X, Y: anchor.Y + stroke, Z: z}, component.LayerItem)
	if err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.VisualComponent.Kind(), &component.Visual{
		Mesh:    mesh.Rect(width, height),
		Color:   spec.Color.NRGBA(ghostWhite),
		UVScale: 1,
	}); err != nil {
		return fail(w, e, name, "visual", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Collider:     component.ColliderBox,
		Width:        width,
		Height:       height,
		Mass:         spec.Mass,
		Elasticity:   spec.Elasticity,
		LockRotation: true,
		NoSleep:      true,
		Continuous:   true,
	}); err != nil {
		return fail(w, e, name, "physics body", err)
	}
	if err := ecs.Add(w, e, component.PlungerComponent.Kind(), &component.Plunger{
		Name:         item.Name,
		Stroke:       stroke,
		AnchorX:      anchor.X,
		AnchorY:      anchor.Y,
		Compliance:   spec.Compliance,
		Damping:      spec.Damping,
		PullRate:     spec.PullRate,
		MaxForce:     spec.MaxForce,
		PullSound:    spec.PullSound,
		ReleaseSound: spec.ReleaseSound,
	}); err != nil {
		return fail(w, e, name, "plunger", err)
	}

	guideY := anchor.Y + stroke - spec.GuideOffset
	guideDX := width/2 + spec.GuideWidth/2 + spec.GuideMargin
	guideColor := spec.GuideColor.NRGBA(darkGray)
	helpers := []struct {
		name string
		pos  units.Vec2
		w, h float64
		col  *color.NRGBA
	}{
		{name: name + " Left Guide", pos: units.Vec2{X: anchor.X - guideDX, Y: guideY}, w: spec.GuideWidth, h: spec.GuideHeight, col: &guideColor},
		{name: name + " Right Guide", pos: units.Vec2{X: anchor.X + guideDX, Y: guideY}, w: spec.GuideWidth, h: spec.GuideHeight, col: &guideColor},
		{name: name + " Stop", pos: units.Vec2{X: anchor.X, Y: anchor.Y + spec.StopOffset}, w: width, h: spec.StopHeight},
	}
	for _, hp := range helpers {
		if _, err := newGuide(w, hp.name, hp.pos, z, hp.w, hp.h, hp.col); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
	}

	return e, nil
}

// newGuide spawns a static box collider. A nil col leaves it undrawn.
func newGuide(w *ecs.World, name string, pos units.Vec2, z, width, height float64, col *color.NRGBA) (ecs.Entity, error) {
	e, err := spawn(w, name, component.Transform{X: pos.X, Y: pos.Y, Z: z}, component.LayerItem)
	if err != nil {
		return 0, err
	}
	if col != nil {
		if err := ecs.Add(w, e, component.VisualComponent.Kind(), &component.Visual{
			Mesh:    mesh.Rect(width, height),
			Color:   *col,
			UVScale: 1,
		}); err != nil {
			return fail(w, e, name, "visual", err)
		}
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Collider: component.ColliderBox,
		Width:    width,
		Height:   height,
		Static:   true,
	}); err != nil {
		return fail(w, e, name, "physics body", err)
	}
	if err := ecs.Add(w, e, component.GuideTagComponent.Kind(), &component.GuideTag{}); err != nil {
		return fail(w, e, name, "guide tag", err)
	}
	return e, nil
}
