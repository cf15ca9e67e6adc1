package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
	"github.com/milk9111/pinball/ecs/entity"
	"github.com/milk9111/pinball/logger"
)

func playerInput(w *ecs.World) (component.Input, bool) {
	e, ok := w.First(component.InputComponent.Kind())
	if !ok {
		return component.Input{}, false
	}
	in, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if !ok {
		return component.Input{}, false
	}
	return *in, true
}

// FlipperSystem energizes the flipper solenoids from the player input.
type FlipperSystem struct{}

func NewFlipperSystem() *FlipperSystem {
	return &FlipperSystem{}
}

func (s *FlipperSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	in, _ := playerInput(w)
	ecs.ForEach(w, component.FlipperComponent.Kind(), func(_ ecs.Entity, f *component.Flipper) {
		if f.Left {
			f.Active = in.LeftFlipper
		} else {
			f.Active = in.RightFlipper
		}
	})
}

// PlungerSystem builds up the pull force while the plunger control is held
// and lets go of it on release.
type PlungerSystem struct {
	log *zap.Logger
}

func NewPlungerSystem() *PlungerSystem {
	return &PlungerSystem{log: logger.Named("plunger")}
}

func (s *PlungerSystem) Update(w *ecs.World) {
	if w == nil || Paused(w) {
		return
	}
	in, _ := playerInput(w)
	const dt = 1.0 / tickRate

	ecs.ForEach2(w, component.PlungerComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, p *component.Plunger, tr *component.Transform) {
		if in.PlungerPressed {
			p.Pulling = true
			s.play(w, p.PullSound, tr)
		}

		if !in.Plunger {
			if p.Pulling || in.PlungerReleased {
				s.play(w, p.ReleaseSound, tr)
			}
			p.Pulling = false
			p.Force = 0
			return
		}

		p.Pulling = true
		if p.CanPull(tr.Y) {
			p.Force += p.PullRate * dt
			if p.MaxForce > 0 && p.Force > p.MaxForce {
				p.Force = p.MaxForce
			}
		}
	})
}

func (s *PlungerSystem) play(w *ecs.World, name string, tr *component.Transform) {
	if name == "" {
		return
	}
	if _, err := entity.PlaySoundAt(w, name, tr.X, tr.Y, 1); err != nil {
		s.log.Warn("queue plunger sound", zap.String("sound", name), zap.Error(err))
	}
}
