package entity

import (
	"fmt"
	"strconv"

	"github.com/milk9111/pinball/assets"
	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
)

const ballPrefab = "ball.yaml"

// NewBall spawns a ball at (x, y) in simulation meters. The table's ball image
// textures it when named; a named image missing from the set is an error.
func NewBall(w *ecs.World, set *assets.Set, id int, x, y float64) (ecs.Entity, error) {
	name := "Ball " + strconv.Itoa(id)

	var image string
	if set != nil && set.Table() != nil {
		image = set.Table().GameData.BallImage
	}
	if image != "" && set.ImagesLoaded() && !set.HasImage(image) {
		_, err := set.Image(image)
		return 0, fmt.Errorf("%s: %w", name, err)
	}

	e, err := BuildEntity(w, ballPrefab)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if err := SetEntityTransform(w, e, x, y, 0); err != nil {
		return fail(w, e, name, "transform", err)
	}
	if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
		return fail(w, e, name, "name", err)
	}
	if err := ecs.Add(w, e, component.BallComponent.Kind(), &component.Ball{ID: id}); err != nil {
		return fail(w, e, name, "ball", err)
	}
	if !ecs.Has(w, e, component.RenderLayerComponent.Kind()) {
		if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: component.LayerBall}); err != nil {
			return fail(w, e, name, "render layer", err)
		}
	}
	if v, ok := ecs.Get(w, e, component.VisualComponent.Kind()); ok && image != "" && set.HasImage(image) {
		v.Image = image
		v.Color = white
	}
	return e, nil
}
