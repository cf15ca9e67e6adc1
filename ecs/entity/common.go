package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/pinball/assets"
	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
	"github.com/milk9111/pinball/vpx"
)

var (
	white   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	magenta = color.NRGBA{R: 255, B: 255, A: 255}
	yellow  = color.NRGBA{R: 255, G: 255, A: 255}
	green   = color.NRGBA{G: 255, A: 255}

	antiqueWhite = color.NRGBA{R: 0xFA, G: 0xEB, B: 0xD7, A: 255}
	ghostWhite   = color.NRGBA{R: 0xF8, G: 0xF8, B: 0xFF, A: 255}
	darkGray     = color.NRGBA{R: 0xA9, G: 0xA9, B: 0xA9, A: 255}
	black        = color.NRGBA{A: 255}
	felt         = color.NRGBA{R: 0x1E, G: 0x2A, B: 0x1E, A: 255}
)

// spawn creates an entity carrying the components every table item has.
func spawn(w *ecs.World, name string, tr component.Transform, layer int) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("%s: world is nil", name)
	}
	if tr.ScaleX == 0 {
		tr.ScaleX = 1
	}
	if tr.ScaleY == 0 {
		tr.ScaleY = 1
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("%s: add name: %w", name, err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &tr); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("%s: add transform: %w", name, err)
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: layer}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("%s: add render layer: %w", name, err)
	}
	return e, nil
}

// fail destroys the partially built entity and wraps err with what failed.
func fail(w *ecs.World, e ecs.Entity, name, what string, err error) (ecs.Entity, error) {
	ecs.DestroyEntity(w, e)
	return 0, fmt.Errorf("%s: add %s: %w", name, what, err)
}

func nrgba(c vpx.Color, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// materialColor returns the base color of a table material, or fallback when
// the material is not defined.
func materialColor(set *assets.Set, name string, fallback color.NRGBA) (color.NRGBA, bool) {
	if set == nil {
		return fallback, false
	}
	m, ok := set.Material(name)
	if !ok {
		return fallback, false
	}
	return nrgba(m.BaseColor, 255), true
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}
