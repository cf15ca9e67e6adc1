package entity

import (
	"github.com/milk9111/pinball/assets"
	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
	"github.com/milk9111/pinball/mesh"
	"github.com/milk9111/pinball/units"
	"github.com/milk9111/pinball/vpx"
)

// NewLight spawns the bulb core and its falloff halo. Lights have no
// physics.
func NewLight(w *ecs.World, item *vpx.Light, _ *assets.Set, tf units.Transform) (ecs.Entity, error) {
	name := "Light " + item.Name
	pos := tf.Point(item.Center.X, item.Center.Y)
	z := units.VPUToM(item.Height)

	col := LoadSpecs().Table.LightColor.NRGBA(yellow)
	if !item.Color.IsZero() {
		col = nrgba(item.Color, 255)
	}

	e, err := spawn(w, name, component.Transform{X: pos.X, Y: pos.Y, Z: z}, component.LayerLight)
	if err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.VisualComponent.Kind(), &component.Visual{
		Mesh:    mesh.Circle(units.VPUToM(item.MeshRadius), 0),
		Color:   withAlpha(col, 128),
		UVScale: 1,
		Blend:   true,
	}); err != nil {
		return fail(w, e, name, "visual", err)
	}
	if err := ecs.Add(w, e, component.LightComponent.Kind(), &component.Light{Name: item.Name}); err != nil {
		return fail(w, e, name, "light", err)
	}

	haloName := "Light Halo " + item.Name
	h, err := spawn(w, haloName, component.Transform{X: pos.X, Y: pos.Y, Z: z}, component.LayerLightHalo)
	if err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	if err := ecs.Add(w, h, component.VisualComponent.Kind(), &component.Visual{
		Mesh:    mesh.Circle(units.VPUToM(item.FalloffRadius), 0),
		Color:   withAlpha(col, 26),
		UVScale: 1,
		Blend:   true,
	}); err != nil {
		ecs.DestroyEntity(w, e)
		return fail(w, h, haloName, "visual", err)
	}

	return e, nil
}
