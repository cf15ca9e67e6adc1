package system

import (
	"math"
	"testing"

	"github.com/milk9111/pinball/config"
	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
	"github.com/milk9111/pinball/units"
)

const testBallRadius = 0.027

func newTestPhysics() *PhysicsSystem {
	return NewPhysicsSystem(config.PhysicsConfig{Substeps: 8, Iterations: 10, Gravity: 9.8})
}

func addBody(t *testing.T, w *ecs.World, name string, x, y float64, body component.PhysicsBody) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
		t.Fatalf("add name: %v", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &body); err != nil {
		t.Fatalf("add physics body: %v", err)
	}
	return e
}

func addTestBall(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	e := addBody(t, w, "Ball 0", x, y, component.PhysicsBody{
		Collider:        component.ColliderCircle,
		Radius:          testBallRadius,
		Mass:            0.08,
		Elasticity:      0.4,
		Friction:        0.2,
		CollisionEvents: true,
		NoSleep:         true,
		Continuous:      true,
	})
	if err := ecs.Add(w, e, component.BallComponent.Kind(), &component.Ball{}); err != nil {
		t.Fatalf("add ball: %v", err)
	}
	return e
}

func collisionEvents(w *ecs.World) []ecs.CollisionStarted {
	var out []ecs.CollisionStarted
	for _, evt := range w.Events().Drain() {
		if evt.Type != ecs.EventCollisionStarted {
			continue
		}
		if c, ok := evt.Data.(ecs.CollisionStarted); ok {
			out = append(out, c)
		}
	}
	return out
}

func TestPhysicsBallFalls(t *testing.T) {
	w := ecs.NewWorld()
	ps := newTestPhysics()
	ball := addTestBall(t, w, 0, 1)

	for i := 0; i < 30; i++ {
		ps.Update(w)
	}

	tr, _ := ecs.Get(w, ball, component.TransformComponent.Kind())
	if tr.Y >= 1 {
		t.Fatalf("expected the ball to fall, y = %v", tr.Y)
	}
	body, _ := ecs.Get(w, ball, component.PhysicsBodyComponent.Kind())
	if body.Body == nil || len(body.Shapes) != 1 {
		t.Fatalf("expected runtime body and shape, got %+v", body)
	}
	if math.Abs(tr.X) > 1e-9 {
		t.Fatalf("expected a straight drop, x = %v", tr.X)
	}
}

func TestPhysicsPause(t *testing.T) {
	w := ecs.NewWorld()
	ps := newTestPhysics()
	ball := addTestBall(t, w, 0, 1)
	pause := ecs.CreateEntity(w)
	if err := ecs.Add(w, pause, component.PauseComponent.Kind(), &component.Pause{}); err != nil {
		t.Fatalf("add pause: %v", err)
	}

	for i := 0; i < 10; i++ {
		ps.Update(w)
	}
	tr, _ := ecs.Get(w, ball, component.TransformComponent.Kind())
	if tr.Y != 1 {
		t.Fatalf("expected the ball to hold still while paused, y = %v", tr.Y)
	}

	ecs.DestroyEntity(w, pause)
	ps.Update(w)
	if tr.Y >= 1 {
		t.Fatalf("expected the ball to move after unpausing, y = %v", tr.Y)
	}
}

func TestPhysicsCollisionEvents(t *testing.T) {
	tests := []struct {
		name       string
		body       component.PhysicsBody
		wantEvent  bool
		wantBounce bool
	}{
		{
			name:       "bumper reports",
			body:       component.PhysicsBody{Collider: component.ColliderCircle, Radius: 0.03, Static: true, CollisionEvents: true},
			wantEvent:  true,
			wantBounce: true,
		},
		{
			name:       "plain wall is silent",
			body:       component.PhysicsBody{Collider: component.ColliderBox, Width: 0.2, Height: 0.02, Static: true},
			wantBounce: true,
		},
		{
			name:      "kicker sensor reports",
			body:      component.PhysicsBody{Collider: component.ColliderCircle, Radius: 0.03, Static: true, Sensor: true, CollisionEvents: true},
			wantEvent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			ps := newTestPhysics()
			target := addBody(t, w, "Target", 0, 0, tt.body)
			ball := addTestBall(t, w, 0, 0.1)

			var events []ecs.CollisionStarted
			for i := 0; i < 60; i++ {
				ps.Update(w)
				events = append(events, collisionEvents(w)...)
			}

			if !tt.wantEvent {
				if len(events) != 0 {
					t.Fatalf("expected no events, got %+v", events)
				}
			} else {
				if len(events) == 0 {
					t.Fatalf("expected a collision start")
				}
				if events[0].A != ball || events[0].B != target {
					t.Fatalf("expected ball then target, got %+v", events[0])
				}
				if math.Abs(events[0].X) > 0.01 || events[0].Y < 0 || events[0].Y > 0.1 {
					t.Fatalf("unexpected contact point (%v, %v)", events[0].X, events[0].Y)
				}
			}

			tr, _ := ecs.Get(w, ball, component.TransformComponent.Kind())
			if tt.wantBounce && tr.Y < 0 {
				t.Fatalf("expected the ball to stay above the target, y = %v", tr.Y)
			}
			if !tt.wantBounce && tr.Y > 0 {
				t.Fatalf("expected the ball to fall through the sensor, y = %v", tr.Y)
			}
		})
	}
}

func TestPhysicsBallPair(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(config.PhysicsConfig{Gravity: 0.0001})
	a := addTestBall(t, w, -0.1, 0)
	b := addTestBall(t, w, 0.1, 0)
	ps.Update(w)
	ba, _ := ecs.Get(w, a, component.PhysicsBodyComponent.Kind())
	bb, _ := ecs.Get(w, b, component.PhysicsBodyComponent.Kind())
	ba.Body.SetVelocity(1, 0)
	bb.Body.SetVelocity(-1, 0)

	var events []ecs.CollisionStarted
	for i := 0; i < 30; i++ {
		ps.Update(w)
		events = append(events, collisionEvents(w)...)
	}
	if len(events) != 1 {
		t.Fatalf("expected one ball pair event, got %+v", events)
	}
	if events[0].Impulse <= 0 {
		t.Fatalf("expected a solver impulse, got %v", events[0].Impulse)
	}
	if math.Abs(events[0].X) > 0.01 {
		t.Fatalf("expected the contact near the middle, x = %v", events[0].X)
	}
}

func TestPhysicsFlipperJoint(t *testing.T) {
	w := ecs.NewWorld()
	ps := newTestPhysics()

	const (
		length = 0.15
		rest   = -0.5
		upper  = 0.5
	)
	e := addBody(t, w, "Flipper Left", length/2*math.Cos(rest), length/2*math.Sin(rest), component.PhysicsBody{
		Collider: component.ColliderBox,
		Width:    length,
		Height:   0.018,
		Mass:     1,
		NoSleep:  true,
	})
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	tr.Rotation = rest
	flipper := &component.Flipper{
		Name:           "Left",
		Left:           true,
		MinAngle:       rest,
		MaxAngle:       upper,
		RestAngle:      rest,
		Length:         length,
		EnabledTorque:  1.5,
		DisabledTorque: -0.5,
	}
	if err := ecs.Add(w, e, component.FlipperComponent.Kind(), flipper); err != nil {
		t.Fatalf("add flipper: %v", err)
	}

	ps.Update(w)
	joint, ok := ecs.Get(w, e, component.JointComponent.Kind())
	if !ok || joint.Pivot == nil || joint.Limit == nil {
		t.Fatalf("expected pivot and limit joints, got %+v", joint)
	}

	flipper.Active = true
	for i := 0; i < 60; i++ {
		ps.Update(w)
	}
	if tr.Rotation < upper-0.05 || tr.Rotation > upper+0.05 {
		t.Fatalf("expected the active flipper at its upper limit, angle = %v", tr.Rotation)
	}
	if d := math.Hypot(tr.X, tr.Y); math.Abs(d-length/2) > 0.005 {
		t.Fatalf("expected the bat to stay pinned at the anchor, center distance %v", d)
	}

	flipper.Active = false
	for i := 0; i < 120; i++ {
		ps.Update(w)
	}
	if tr.Rotation > rest+0.05 {
		t.Fatalf("expected the released flipper back at rest, angle = %v", tr.Rotation)
	}
}

func TestPhysicsPlungerSpring(t *testing.T) {
	w := ecs.NewWorld()
	ps := newTestPhysics()

	const stroke = 0.04
	e := addBody(t, w, "Plunger P", 0, stroke, component.PhysicsBody{
		Collider:     component.ColliderBox,
		Width:        0.013,
		Height:       0.01,
		Mass:         0.2,
		LockRotation: true,
		NoSleep:      true,
		Continuous:   true,
	})
	plunger := &component.Plunger{Name: "P", Stroke: stroke, Compliance: 0.002, Damping: 1, MaxForce: 10}
	if err := ecs.Add(w, e, component.PlungerComponent.Kind(), plunger); err != nil {
		t.Fatalf("add plunger: %v", err)
	}

	ps.Update(w)
	joint, ok := ecs.Get(w, e, component.JointComponent.Kind())
	if !ok || joint.Groove == nil || joint.Spring == nil {
		t.Fatalf("expected groove and spring, got %+v", joint)
	}

	plunger.Force = 10
	for i := 0; i < 60; i++ {
		ps.Update(w)
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.Y >= stroke {
		t.Fatalf("expected the pulled plunger below rest, y = %v", tr.Y)
	}
	if math.Abs(tr.X) > 1e-6 || tr.Rotation != 0 {
		t.Fatalf("expected the plunger locked to its lane, got %+v", tr)
	}
}

func TestPhysicsCleanup(t *testing.T) {
	w := ecs.NewWorld()
	ps := newTestPhysics()
	ball := addTestBall(t, w, 0, 1)
	wall := addBody(t, w, "Wall W", 0, 0, component.PhysicsBody{
		Collider: component.ColliderPolyline,
		Outlines: [][]units.Vec2{{{X: -0.1}, {X: 0.1}, {X: 0.1, Y: -0.01}, {X: -0.1}}},
		Static:   true,
	})
	ps.Update(w)
	if len(ps.entities) != 2 {
		t.Fatalf("expected two tracked entities, got %d", len(ps.entities))
	}
	if got := len(ps.entities[wall].shapes); got != 3 {
		t.Fatalf("expected three wall segments, got %d", got)
	}

	ecs.DestroyEntity(w, ball)
	ecs.DestroyEntity(w, wall)
	ps.Update(w)
	if len(ps.entities) != 0 || len(ps.owners) != 0 {
		t.Fatalf("expected cleanup, got %d entities %d shapes", len(ps.entities), len(ps.owners))
	}
}
