package scripts

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
	"github.com/milk9111/pinball/ecs/entity"
	"github.com/milk9111/pinball/logger"
	"github.com/milk9111/pinball/prefabs"
)

// DrainRelease recycles the ball: a ball entering the drain kicker is
// removed and a new one appears on the release kicker.
type DrainRelease struct {
	id  string
	log *zap.Logger

	mu    sync.Mutex
	rules *prefabs.RulesSpec
}

// NewDrainRelease loads prefabs/tables/<id>.yaml, falling back to the
// Drain and BallRelease kickers.
func NewDrainRelease(id string, log *zap.Logger) Script {
	return newDrainRelease(id, log, prefabs.RulesSpec{
		Table:         id,
		DrainKicker:   "Drain",
		ReleaseKicker: "BallRelease",
	})
}

// NewTNA is the drain and release cycle plus removal of the plunger
// centering wall.
func NewTNA(id string, log *zap.Logger) Script {
	return newDrainRelease(id, log, prefabs.RulesSpec{
		Table:         id,
		DrainKicker:   "Drain",
		ReleaseKicker: "BallRelease",
		DrainSound:    prefabs.SoundSpec{Name: "SY_TNA_REV02_Trough_Drain_%d", Variants: 6},
		ReleaseSound:  prefabs.SoundSpec{Name: "SY_TNA_REV02_Shooter_Lane_Metal_BallDrop_%d", Variants: 3},
		RemoveWalls:   []string{"Wall348"},
	})
}

func newDrainRelease(id string, log *zap.Logger, defaults prefabs.RulesSpec) *DrainRelease {
	s := &DrainRelease{id: id, log: logger.OrNop(log).Named(id)}
	if err := s.Reload(); err != nil {
		s.log.Warn("table rules unavailable, using defaults", zap.Error(err))
		d := defaults
		s.rules = &d
	}
	return s
}

func (s *DrainRelease) Name() string { return s.id }

// Rules returns the rule set currently in effect.
func (s *DrainRelease) Rules() prefabs.RulesSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.rules
}

// Reload re-reads the table rules. The previous rules stay on error.
func (s *DrainRelease) Reload() error {
	rules, err := prefabs.LoadRulesSpec(s.id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.rules = rules
	s.mu.Unlock()
	return nil
}

func (s *DrainRelease) OnEnter(ctx *Context) error {
	if ctx == nil || ctx.World == nil {
		return fmt.Errorf("%s: no world", s.id)
	}
	for _, name := range s.Rules().RemoveWalls {
		e, ok := FindWall(ctx.World, name)
		if !ok {
			s.log.Warn("wall to remove not found", zap.String("wall", name))
			continue
		}
		ecs.DestroyEntity(ctx.World, e)
		s.log.Debug("removed wall", zap.String("wall", name))
	}
	return nil
}

func (s *DrainRelease) OnBallKicker(ctx *Context, ball, kicker ecs.Entity) {
	if ctx == nil || ctx.World == nil {
		return
	}
	w := ctx.World
	rules := s.Rules()

	k, ok := ecs.Get(w, kicker, component.KickerComponent.Kind())
	if !ok || !strings.EqualFold(k.Name, rules.DrainKicker) {
		return
	}

	if x, y, ok := position(w, kicker); ok {
		s.play(w, rules.DrainSound.Pick(1+ctx.Intn(rules.DrainSound.Variants)), x, y)
	}
	ecs.DestroyEntity(w, ball)

	release, ok := FindKicker(w, rules.ReleaseKicker)
	if !ok {
		s.log.Error("release kicker not found, ball not respawned", zap.String("kicker", rules.ReleaseKicker))
		return
	}
	x, y, _ := position(w, release)
	if ctx.SpawnBall == nil {
		s.log.Error("no ball spawner")
		return
	}
	if _, err := ctx.SpawnBall(0, x, y); err != nil {
		s.log.Error("respawn ball", zap.Error(err))
		return
	}
	s.play(w, rules.ReleaseSound.Pick(1+ctx.Intn(rules.ReleaseSound.Variants)), x, y)
}

func (s *DrainRelease) play(w *ecs.World, name string, x, y float64) {
	if name == "" {
		return
	}
	if _, err := entity.PlaySoundAt(w, name, x, y, 1); err != nil {
		s.log.Warn("queue sound", zap.String("sound", name), zap.Error(err))
	}
}

// FindKicker returns the kicker entity named name, ignoring case.
func FindKicker(w *ecs.World, name string) (ecs.Entity, bool) {
	var found ecs.Entity
	ok := false
	ecs.ForEach(w, component.KickerComponent.Kind(), func(e ecs.Entity, k *component.Kicker) {
		if !ok && strings.EqualFold(k.Name, name) {
			found, ok = e, true
		}
	})
	return found, ok
}

// FindWall returns the wall entity named name, ignoring case.
func FindWall(w *ecs.World, name string) (ecs.Entity, bool) {
	var found ecs.Entity
	ok := false
	ecs.ForEach(w, component.WallComponent.Kind(), func(e ecs.Entity, wall *component.Wall) {
		if !ok && strings.EqualFold(wall.Name, name) {
			found, ok = e, true
		}
	})
	return found, ok
}

func position(w *ecs.World, e ecs.Entity) (float64, float64, bool) {
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return 0, 0, false
	}
	return tr.X, tr.Y, true
}
