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
)

// NewTable spawns the playfield floor and the four outer walls enclosing the
// table bounds. The floor entity carries the Table component.
func NewTable(w *ecs.World, set *assets.Set, id string) (ecs.Entity, error) {
	if set == nil || set.Table() == nil {
		return 0, fmt.Errorf("table: no table loaded")
	}
	table := set.Table()
	spec := LoadSpecs().Table

	width := units.VPUToM(table.Bounds.Width())
	depth := units.VPUToM(table.Bounds.Depth())
	name := table.Info.Name
	if name == "" {
		name = id
	}

	e, err := spawn(w, "Table Floor", component.Transform{}, component.LayerPlayfield)
	if err != nil {
		return 0, err
	}
	floor := &component.Visual{Mesh: mesh.Rect(width, depth), Color: spec.FloorColor.NRGBA(felt), UVScale: 1}
	if img := table.GameData.PlayfieldImage; img != "" {
		if set.HasImage(img) {
			floor.Image = img
			floor.Color = white
		} else if set.ImagesLoaded() {
			logger.Warn("playfield image missing", zap.String("image", img))
		}
	}
	if err := ecs.Add(w, e, component.VisualComponent.Kind(), floor); err != nil {
		return fail(w, e, "Table Floor", "visual", err)
	}
	if err := ecs.Add(w, e, component.TableComponent.Kind(), &component.Table{
		Name:  name,
		ID:    id,
		Width: width,
		Depth: depth,
	}); err != nil {
		return fail(w, e, "Table Floor", "table", err)
	}

	t := spec.WallThickness
	walls := []struct {
		name string
		x, y float64
		w, h float64
	}{
		{name: "Table Wall Bottom", y: -depth/2 - t/2, w: width + 2*t, h: t},
		{name: "Table Wall Top", y: depth/2 + t/2, w: width + 2*t, h: t},
		{name: "Table Wall Left", x: -width/2 - t/2, w: t, h: depth + 2*t},
		{name: "Table Wall Right", x: width/2 + t/2, w: t, h: depth + 2*t},
	}
	wallColor := spec.WallColor.NRGBA(black)
	for _, wall := range walls {
		if _, err := newGuide(w, wall.name, units.Vec2{X: wall.x, Y: wall.y}, 0, wall.w, wall.h, &wallColor); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
	}

	return e, nil
}
