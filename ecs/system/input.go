package system

import (
	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
)

// Action is a player control.
type Action int

const (
	ActionLeftFlipper Action = iota
	ActionRightFlipper
	ActionPlunger
	ActionPause
	ActionGrab
)

// Controls reports the state of the player's controls for the current tick.
type Controls interface {
	Pressed(a Action) bool
	JustPressed(a Action) bool
	JustReleased(a Action) bool
	// Cursor is the pointer position in screen pixels.
	Cursor() (x, y float64)
}

type InputSystem struct {
	controls Controls
}

func NewInputSystem(controls Controls) *InputSystem {
	return &InputSystem{controls: controls}
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || w == nil || i.controls == nil {
		return
	}
	c := i.controls

	cx, cy := c.Cursor()
	state := component.Input{
		LeftFlipper:     c.Pressed(ActionLeftFlipper),
		RightFlipper:    c.Pressed(ActionRightFlipper),
		Plunger:         c.Pressed(ActionPlunger),
		PlungerPressed:  c.JustPressed(ActionPlunger),
		PlungerReleased: c.JustReleased(ActionPlunger),
		PausePressed:    c.JustPressed(ActionPause),
		Grab:            c.Pressed(ActionGrab),
		CursorX:         cx,
		CursorY:         cy,
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		*input = state
	})

	if state.PausePressed {
		TogglePause(w)
	}
}

// TogglePause adds the Pause marker, or removes every Pause marker when one
// exists.
func TogglePause(w *ecs.World) bool {
	paused := w.Query(component.PauseComponent.Kind())
	if len(paused) > 0 {
		for _, e := range paused {
			ecs.DestroyEntity(w, e)
		}
		return false
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PauseComponent.Kind(), &component.Pause{}); err != nil {
		ecs.DestroyEntity(w, e)
		return false
	}
	return true
}

// Paused reports whether a Pause marker exists.
func Paused(w *ecs.World) bool {
	_, ok := w.First(component.PauseComponent.Kind())
	return ok
}
