package device

import (
	"testing"

	"github.com/milk9111/pinball/ecs/system"
)

func TestQuantizePan(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0, want: 0},
		{in: 0.04, want: 0},
		{in: 0.26, want: 0.3},
		{in: -0.55, want: -0.6},
		{in: 3, want: 1},
		{in: -3, want: -1},
	}
	for _, tt := range tests {
		if got := QuantizePan(tt.in); got != tt.want {
			t.Fatalf("QuantizePan(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultBindingsCoverActions(t *testing.T) {
	b := DefaultBindings()
	actions := []system.Action{
		system.ActionLeftFlipper,
		system.ActionRightFlipper,
		system.ActionPlunger,
		system.ActionPause,
		system.ActionGrab,
	}
	for _, a := range actions {
		if len(b.Keys[a])+len(b.Mouse[a])+len(b.Gamepad[a]) == 0 {
			t.Fatalf("action %d has no binding", a)
		}
	}
	for _, k := range b.Keys[system.ActionLeftFlipper] {
		for _, other := range b.Keys[system.ActionRightFlipper] {
			if k == other {
				t.Fatalf("key %v bound to both flippers", k)
			}
		}
	}
}
