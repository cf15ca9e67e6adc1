package entity

import (
	"fmt"

	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
)

// soundRequestTTL bounds how long an unplayed request lingers, e.g. while the
// audio device is unavailable.
const soundRequestTTL = 2

// PlaySound queues a one-shot sound request. Positional requests are panned
// by the audio system from X.
func PlaySound(w *ecs.World, req component.SoundRequest) (ecs.Entity, error) {
	if req.Name == "" {
		return 0, fmt.Errorf("sound request: empty name")
	}
	if req.Volume == 0 {
		req.Volume = 1
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.SoundRequestComponent.Kind(), &req); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("sound request %s: %w", req.Name, err)
	}
	if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: soundRequestTTL}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("sound request %s: add ttl: %w", req.Name, err)
	}
	return e, nil
}

// PlaySoundAt queues a positional sound at the given table position.
func PlaySoundAt(w *ecs.World, name string, x, y, volume float64) (ecs.Entity, error) {
	return PlaySound(w, component.SoundRequest{Name: name, X: x, Y: y, Volume: volume, Positional: true})
}
