package entity

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/pinball/assets"
	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
	"github.com/milk9111/pinball/logger"
	"github.com/milk9111/pinball/mesh"
	"github.com/milk9111/pinball/units"
	"github.com/milk9111/pinball/vpx"
)

// NewWall spawns a wall from its generated top mesh. Walls raised above the
// ball get no collider.
func NewWall(w *ecs.World, item *vpx.Wall, set *assets.Set, tf units.Transform) (ecs.Entity, error) {
	name := "Wall " + item.Name
	m, err := set.Mesh(mesh.WallKey(item.Name))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	spec := LoadSpecs().Table

	e, err := spawn(w, name, component.Transform{
		X: tf.Tx,
		Y: tf.Ty,
		Z: units.VPUToM(item.HeightTop),
	}, component.LayerWall)
	if err != nil {
		return 0, err
	}

	col, ok := materialColor(set, item.TopMaterial, spec.MissingMaterial.NRGBA(magenta))
	if !ok && item.TopMaterial != "" {
		logger.Debug("wall material missing", zap.String("wall", item.Name), zap.String("material", item.TopMaterial))
	}
	if !item.TopBottomVisible && !item.SideVisible {
		col.A = 128
	}
	visual := &component.Visual{Mesh: m, Color: col, UVScale: 1, Blend: col.A < 255}
	if item.Image != "" {
		if set.HasImage(item.Image) {
			visual.Image = item.Image
		} else if set.ImagesLoaded() {
			logger.Warn("wall image missing, drawing untextured", zap.String("wall", item.Name), zap.String("image", item.Image))
		}
	}
	if err := ecs.Add(w, e, component.VisualComponent.Kind(), visual); err != nil {
		return fail(w, e, name, "visual", err)
	}
	if err := ecs.Add(w, e, component.WallComponent.Kind(), &component.Wall{Name: item.Name}); err != nil {
		return fail(w, e, name, "wall", err)
	}

	if !mesh.WallCollidable(item.Collidable, item.HeightBottom) {
		return e, nil
	}
	outline := m.Polyline()
	if len(outline) < 3 {
		return e, nil
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Collider:   component.ColliderPolyline,
		Outlines:   [][]units.Vec2{outline},
		Static:     true,
		Elasticity: item.Elasticity,
		Friction:   item.Friction,
	}); err != nil {
		return fail(w, e, name, "physics body", err)
	}
	return e, nil
}

// NewRubber spawns a rubber band ring. Both outlines of the ring collide.
func NewRubber(w *ecs.World, item *vpx.Rubber, set *assets.Set, tf units.Transform) (ecs.Entity, error) {
	name := "Rubber " + item.Name
	m, err := set.Mesh(mesh.RubberKey(item.Name))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	spec := LoadSpecs().Table

	e, err := spawn(w, name, component.Transform{
		X: tf.Tx,
		Y: tf.Ty,
		Z: units.VPUToM(item.Height),
	}, component.LayerRubber)
	if err != nil {
		return 0, err
	}

	if err := ecs.Add(w, e, component.VisualComponent.Kind(), &component.Visual{
		Mesh:    m,
		Color:   spec.RubberColor.NRGBA(white),
		UVScale: 1,
	}); err != nil {
		return fail(w, e, name, "visual", err)
	}
	if err := ecs.Add(w, e, component.RubberComponent.Kind(), &component.Rubber{Name: item.Name}); err != nil {
		return fail(w, e, name, "rubber", err)
	}

	loops := m.Loops()
	if !item.Collidable || len(loops) == 0 {
		return e, nil
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Collider:   component.ColliderPolyline,
		Outlines:   loops,
		Static:     true,
		Elasticity: item.Elasticity,
		Friction:   item.Friction,
	}); err != nil {
		return fail(w, e, name, "physics body", err)
	}
	return e, nil
}
