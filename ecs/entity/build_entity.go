package entity

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
	"github.com/milk9111/pinball/mesh"
	"github.com/milk9111/pinball/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"transform":     addTransform,
	"render_layer":  addRenderLayer,
	"physics_body":  addPhysicsBody,
	"visual":        addVisual,
	"rolling_sound": addRollingSound,
}

// visual sizes its mesh from the physics body, so it must come after it.
var componentBuildOrder = []string{
	"transform",
	"render_layer",
	"physics_body",
	"visual",
	"rolling_sound",
}

// BuildEntity creates an entity from a prefab's component list. The entity
// is destroyed again when any component fails to build.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, names[0])
	}

	return e, nil
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		Z:        spec.Z,
		ScaleX:   1,
		ScaleY:   1,
		Rotation: spec.Rotation,
	})
}

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RenderLayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render layer spec: %w", err)
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PhysicsBodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}

	body := &component.PhysicsBody{
		Collider:        component.ColliderCircle,
		Radius:          spec.Radius,
		Width:           spec.Width,
		Height:          spec.Height,
		Mass:            spec.Mass,
		Friction:        spec.Friction,
		Elasticity:      spec.Elasticity,
		Static:          spec.Static,
		Sensor:          spec.Sensor,
		CollisionEvents: spec.CollisionEvents,
		NoSleep:         spec.NoSleep,
		Continuous:      spec.Continuous,
	}
	if spec.Radius <= 0 {
		if spec.Width <= 0 || spec.Height <= 0 {
			return fmt.Errorf("physics body needs a radius or a width and height")
		}
		body.Collider = component.ColliderBox
	}
	if !spec.Static && body.Mass == 0 {
		body.Mass = 1
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body)
}

func addVisual(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.VisualComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode visual spec: %w", err)
	}

	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || body == nil {
		return fmt.Errorf("visual requires physics_body on the same entity")
	}

	var m *mesh.Mesh
	switch body.Collider {
	case component.ColliderCircle:
		m = mesh.Circle(body.Radius, spec.Segments)
	default:
		m = mesh.Rect(body.Width, body.Height)
	}

	return ecs.Add(w, e, component.VisualComponent.Kind(), &component.Visual{
		Mesh:    m,
		Color:   spec.Color.NRGBA(color.NRGBA{R: 255, G: 255, B: 255, A: 255}),
		UVScale: 1,
	})
}

func addRollingSound(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RollingSoundComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode rolling sound spec: %w", err)
	}
	if spec.Sound == "" {
		return fmt.Errorf("rolling sound needs a sound name")
	}
	if spec.Volume <= 0 {
		spec.Volume = 1
	}
	return ecs.Add(w, e, component.RollingSoundComponent.Kind(), &component.RollingSound{
		Sound:    spec.Sound,
		Volume:   spec.Volume,
		MinSpeed: spec.MinSpeed,
		MaxSpeed: spec.MaxSpeed,
	})
}
