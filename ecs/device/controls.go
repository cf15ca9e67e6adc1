// Package device binds the ebiten keyboard, mouse, gamepad and audio context
// to the controls and mixer interfaces the systems read from.
package device

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/pinball/ecs/system"
)

// Bindings maps each action to the inputs that trigger it. Any bound input
// triggers the action.
type Bindings struct {
	Keys    map[system.Action][]ebiten.Key
	Mouse   map[system.Action][]ebiten.MouseButton
	Gamepad map[system.Action][]ebiten.StandardGamepadButton
}

func DefaultBindings() Bindings {
	return Bindings{
		Keys: map[system.Action][]ebiten.Key{
			system.ActionLeftFlipper:  {ebiten.KeyArrowLeft, ebiten.KeyShiftLeft},
			system.ActionRightFlipper: {ebiten.KeyArrowRight, ebiten.KeyShiftRight},
			system.ActionPlunger:      {ebiten.KeyEnter, ebiten.KeyArrowDown},
			system.ActionPause:        {ebiten.KeyEscape, ebiten.KeyP},
		},
		Mouse: map[system.Action][]ebiten.MouseButton{
			system.ActionGrab: {ebiten.MouseButtonLeft},
		},
		Gamepad: map[system.Action][]ebiten.StandardGamepadButton{
			system.ActionLeftFlipper:  {ebiten.StandardGamepadButtonFrontTopLeft, ebiten.StandardGamepadButtonFrontBottomLeft},
			system.ActionRightFlipper: {ebiten.StandardGamepadButtonFrontTopRight, ebiten.StandardGamepadButtonFrontBottomRight},
			system.ActionPlunger:      {ebiten.StandardGamepadButtonRightBottom},
			system.ActionPause:        {ebiten.StandardGamepadButtonCenterRight},
		},
	}
}

// Controls reads the bound inputs from ebiten. It must be polled from the
// game's Update.
type Controls struct {
	bindings Bindings
	gamepads []ebiten.GamepadID
}

func NewControls(b Bindings) *Controls {
	return &Controls{bindings: b}
}

func (c *Controls) Pressed(a system.Action) bool {
	return c.any(a, ebiten.IsKeyPressed, ebiten.IsMouseButtonPressed, ebiten.IsStandardGamepadButtonPressed)
}

func (c *Controls) JustPressed(a system.Action) bool {
	return c.any(a, inpututil.IsKeyJustPressed, inpututil.IsMouseButtonJustPressed, inpututil.IsStandardGamepadButtonJustPressed)
}

func (c *Controls) JustReleased(a system.Action) bool {
	return c.any(a, inpututil.IsKeyJustReleased, inpututil.IsMouseButtonJustReleased, inpututil.IsStandardGamepadButtonJustReleased)
}

func (c *Controls) Cursor() (float64, float64) {
	x, y := ebiten.CursorPosition()
	return float64(x), float64(y)
}

func (c *Controls) any(
	a system.Action,
	key func(ebiten.Key) bool,
	mouse func(ebiten.MouseButton) bool,
	pad func(ebiten.GamepadID, ebiten.StandardGamepadButton) bool,
) bool {
	for _, k := range c.bindings.Keys[a] {
		if key(k) {
			return true
		}
	}
	for _, b := range c.bindings.Mouse[a] {
		if mouse(b) {
			return true
		}
	}
	buttons := c.bindings.Gamepad[a]
	if len(buttons) == 0 {
		return false
	}
	c.gamepads = ebiten.AppendGamepadIDs(c.gamepads[:0])
	for _, id := range c.gamepads {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for _, b := range buttons {
			if pad(id, b) {
				return true
			}
		}
	}
	return false
}
