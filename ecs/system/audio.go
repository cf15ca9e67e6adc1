package system

import (
	"math"

	"go.uber.org/zap"

	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
	"github.com/milk9111/pinball/logger"
)

// Mixer plays table sounds by name. Pan runs from -1 (left) to 1 (right).
type Mixer interface {
	Play(name string, volume, pan float64) error
	// Loop starts or updates the looping voice identified by key.
	Loop(key uint64, name string, volume, pan float64) error
	Stop(key uint64)
}

// AudioSystem hands queued sound requests to the mixer.
type AudioSystem struct {
	mixer  Mixer
	failed map[string]bool
	log    *zap.Logger
}

func NewAudioSystem(mixer Mixer) *AudioSystem {
	return &AudioSystem{
		mixer:  mixer,
		failed: make(map[string]bool),
		log:    logger.Named("audio"),
	}
}

func (a *AudioSystem) Update(w *ecs.World) {
	if a == nil || w == nil || a.mixer == nil {
		return
	}
	halfWidth := tableHalfWidth(w)

	for _, e := range w.Query(component.SoundRequestComponent.Kind()) {
		req, ok := ecs.Get(w, e, component.SoundRequestComponent.Kind())
		if !ok {
			continue
		}
		pan := 0.0
		if req.Positional {
			pan = Pan(req.X, halfWidth)
		}
		if err := a.mixer.Play(req.Name, req.Volume, pan); err != nil && !a.failed[req.Name] {
			// Missing table sounds are common; report each name once.
			a.failed[req.Name] = true
			a.log.Warn("sound not played", zap.String("sound", req.Name), zap.Error(err))
		}
		ecs.DestroyEntity(w, e)
	}
}

// Pan maps a table x position to a stereo pan.
func Pan(x, halfWidth float64) float64 {
	if halfWidth <= 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, x/halfWidth))
}

func tableHalfWidth(w *ecs.World) float64 {
	e, ok := w.First(component.TableComponent.Kind())
	if !ok {
		return 0
	}
	t, ok := ecs.Get(w, e, component.TableComponent.Kind())
	if !ok {
		return 0
	}
	return t.Width / 2
}

// RollingSoundSystem loops each emitter's sound while its body moves, with
// volume following speed.
type RollingSoundSystem struct {
	mixer  Mixer
	voices map[ecs.Entity]bool
}

func NewRollingSoundSystem(mixer Mixer) *RollingSoundSystem {
	return &RollingSoundSystem{mixer: mixer, voices: make(map[ecs.Entity]bool)}
}

func (r *RollingSoundSystem) Update(w *ecs.World) {
	if r == nil || w == nil || r.mixer == nil {
		return
	}
	halfWidth := tableHalfWidth(w)
	paused := Paused(w)

	seen := make(map[ecs.Entity]bool, len(r.voices))
	ecs.ForEach3(w, component.RollingSoundComponent.Kind(), component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, rs *component.RollingSound, body *component.PhysicsBody, tr *component.Transform) {
			seen[e] = true
			speed := 0.0
			if body.Body != nil && !paused {
				speed = body.Body.Velocity().Length()
			}
			volume := RollingVolume(rs, speed)
			if volume <= 0 {
				if rs.Playing {
					r.mixer.Stop(uint64(e))
					rs.Playing = false
				}
				return
			}
			if err := r.mixer.Loop(uint64(e), rs.Sound, volume, Pan(tr.X, halfWidth)); err != nil {
				return
			}
			rs.Playing = true
			r.voices[e] = true
		})

	for e := range r.voices {
		if !seen[e] {
			r.mixer.Stop(uint64(e))
			delete(r.voices, e)
		}
	}
}

// RollingVolume is zero below MinSpeed and rises linearly to Volume at
// MaxSpeed.
func RollingVolume(rs *component.RollingSound, speed float64) float64 {
	if rs == nil || speed < rs.MinSpeed {
		return 0
	}
	span := rs.MaxSpeed - rs.MinSpeed
	if span <= 0 {
		return rs.Volume
	}
	return rs.Volume * math.Min(1, (speed-rs.MinSpeed)/span)
}
