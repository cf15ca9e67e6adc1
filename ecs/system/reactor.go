package system

import (
	"math"
	"math/rand"
	"time"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/pinball/assets"
	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
	"github.com/milk9111/pinball/ecs/entity"
	"github.com/milk9111/pinball/logger"
	"github.com/milk9111/pinball/scripts"
)

// Participant is the closed set of roles an entity plays in a collision.
type Participant int

const (
	ParticipantOther Participant = iota
	ParticipantBall
	ParticipantKicker
	ParticipantBumper
	ParticipantWall
)

func (p Participant) String() string {
	switch p {
	case ParticipantBall:
		return "ball"
	case ParticipantKicker:
		return "kicker"
	case ParticipantBumper:
		return "bumper"
	case ParticipantWall:
		return "wall"
	default:
		return "other"
	}
}

// Classify tags e by the gameplay components it carries.
func Classify(w *ecs.World, e ecs.Entity) Participant {
	switch {
	case ecs.Has(w, e, component.BallComponent.Kind()):
		return ParticipantBall
	case ecs.Has(w, e, component.KickerComponent.Kind()):
		return ParticipantKicker
	case ecs.Has(w, e, component.BumperComponent.Kind()):
		return ParticipantBumper
	case ecs.Has(w, e, component.WallComponent.Kind()):
		return ParticipantWall
	default:
		return ParticipantOther
	}
}

// ReactorSystem turns collision starts into table behavior: bumper kicks,
// ball clack sounds and the table script's kicker rules.
type ReactorSystem struct {
	script scripts.Script
	ctx    *scripts.Context
	log    *zap.Logger
}

// NewReactorSystem runs script against the given asset set. A nil rng is
// seeded from the clock.
func NewReactorSystem(script scripts.Script, set *assets.Set, rng *rand.Rand) *ReactorSystem {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ReactorSystem{
		script: script,
		ctx:    &scripts.Context{Assets: set, Rand: rng},
		log:    logger.Named("reactor"),
	}
}

// Script returns the active table script.
func (r *ReactorSystem) Script() scripts.Script {
	if r == nil {
		return nil
	}
	return r.script
}

func (r *ReactorSystem) Update(w *ecs.World) {
	if r == nil || w == nil {
		return
	}
	r.bind(w)

	for _, e := range w.Query(component.LevelLoadedComponent.Kind()) {
		ecs.Remove(w, e, component.LevelLoadedComponent.Kind())
		if r.script == nil {
			continue
		}
		if err := r.script.OnEnter(r.ctx); err != nil {
			r.log.Error("table enter rules", zap.String("script", r.script.Name()), zap.Error(err))
		}
	}

	for _, evt := range w.Events().Drain() {
		if evt.Type != ecs.EventCollisionStarted {
			continue
		}
		hit, ok := evt.Data.(ecs.CollisionStarted)
		if !ok {
			continue
		}
		r.react(w, hit)
	}
}

func (r *ReactorSystem) bind(w *ecs.World) {
	r.ctx.World = w
	set := r.ctx.Assets
	r.ctx.SpawnBall = func(id int, x, y float64) (ecs.Entity, error) {
		return entity.NewBall(w, set, id, x, y)
	}
}

func (r *ReactorSystem) react(w *ecs.World, hit ecs.CollisionStarted) {
	// An earlier event in this tick may have removed a participant.
	if !w.IsAlive(hit.A) || !w.IsAlive(hit.B) {
		return
	}

	a, b := Classify(w, hit.A), Classify(w, hit.B)
	ball, other := hit.A, hit.B
	kind := b
	if a != ParticipantBall {
		if b != ParticipantBall {
			return
		}
		ball, other, kind = hit.B, hit.A, a
	}

	switch kind {
	case ParticipantBumper:
		r.bumperHit(w, ball, other)
	case ParticipantBall:
		r.ballHit(w, hit)
	case ParticipantKicker:
		if r.script != nil {
			r.script.OnBallKicker(r.ctx, ball, other)
		}
	}
}

// bumperHit pushes the ball straight away from the bumper center.
func (r *ReactorSystem) bumperHit(w *ecs.World, ball, bumper ecs.Entity) {
	bump, ok := ecs.Get(w, bumper, component.BumperComponent.Kind())
	if !ok {
		return
	}
	body, ok := ecs.Get(w, ball, component.PhysicsBodyComponent.Kind())
	if !ok || body.Body == nil {
		return
	}
	bt, ok := ecs.Get(w, bumper, component.TransformComponent.Kind())
	if !ok {
		return
	}

	pos := body.Body.Position()
	dir := pos.Sub(cp.Vector{X: bt.X, Y: bt.Y})
	if dir.LengthSq() == 0 {
		return
	}
	impulse := dir.Normalize().Mult(bump.Force)
	body.Body.ApplyImpulseAtWorldPoint(impulse, pos)

	sound := entity.LoadSpecs().Bumper.Sound
	name := sound.Pick(1 + r.ctx.Intn(sound.Variants))
	if _, err := entity.PlaySoundAt(w, name, bt.X, bt.Y, 1); err != nil {
		r.log.Warn("queue bumper sound", zap.String("bumper", bump.Name), zap.Error(err))
	}
}

// ballHit plays the clack of two balls at their midpoint, louder for
// harder hits.
func (r *ReactorSystem) ballHit(w *ecs.World, hit ecs.CollisionStarted) {
	ta, okA := ecs.Get(w, hit.A, component.TransformComponent.Kind())
	tb, okB := ecs.Get(w, hit.B, component.TransformComponent.Kind())
	x, y := hit.X, hit.Y
	if okA && okB {
		x, y = (ta.X+tb.X)/2, (ta.Y+tb.Y)/2
	}
	spec := entity.LoadSpecs().Table
	volume := math.Min(1, hit.Impulse*spec.BallHitVolume)
	if volume <= 0 {
		return
	}
	if _, err := entity.PlaySoundAt(w, spec.BallHitSound, x, y, volume); err != nil {
		r.log.Warn("queue ball hit sound", zap.Error(err))
	}
}
