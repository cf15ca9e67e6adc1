package system

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
)

// grabStrength is the ball speed per meter of distance to the cursor.
const grabStrength = 5.0

// BallGrabSystem pulls every ball towards the cursor while the grab control
// is held, with gravity suspended. Letting go keeps the velocity so a ball
// can be flung.
type BallGrabSystem struct{}

func NewBallGrabSystem() *BallGrabSystem {
	return &BallGrabSystem{}
}

func (s *BallGrabSystem) Update(w *ecs.World) {
	if w == nil || Paused(w) {
		return
	}
	in, _ := playerInput(w)

	var target cp.Vector
	if in.Grab {
		cam, ok := activeCamera(w)
		if !ok {
			in.Grab = false
		} else {
			target.X, target.Y = cam.ScreenToWorld(in.CursorX, in.CursorY)
		}
	}

	ecs.ForEach2(w, component.BallComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, _ *component.Ball, body *component.PhysicsBody) {
		body.NoGravity = in.Grab
		if !in.Grab || body.Body == nil {
			return
		}
		offset := target.Sub(body.Body.Position())
		body.Body.SetVelocityVector(offset.Mult(grabStrength))
	})
}

func activeCamera(w *ecs.World) (component.Camera, bool) {
	e, ok := w.First(component.CameraComponent.Kind())
	if !ok {
		return component.Camera{}, false
	}
	cam, ok := ecs.Get(w, e, component.CameraComponent.Kind())
	if !ok {
		return component.Camera{}, false
	}
	return *cam, true
}
