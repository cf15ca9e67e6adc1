package entity

import (
	"fmt"

	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
)

// NewCamera creates the entity holding the view and the player's input. It
// survives level changes.
func NewCamera(w *ecs.World) (ecs.Entity, error) {
	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}
	if err := ecs.Add(w, camera, component.NameComponent.Kind(), &component.Name{Value: "Camera"}); err != nil {
		return 0, fmt.Errorf("camera: add name: %w", err)
	}
	if err := ecs.Add(w, camera, component.CameraComponent.Kind(), &component.Camera{Fit: true}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}
	if err := ecs.Add(w, camera, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, fmt.Errorf("camera: add input: %w", err)
	}
	return camera, nil
}
