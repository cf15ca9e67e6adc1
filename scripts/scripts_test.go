package scripts

import (
	"math/rand"
	"testing"

	"github.com/milk9111/pinball/ecs"
	"github.com/milk9111/pinball/ecs/component"
)

func addAt(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	return e
}

func addKicker(t *testing.T, w *ecs.World, name string, x, y float64) ecs.Entity {
	t.Helper()
	e := addAt(t, w, x, y)
	if err := ecs.Add(w, e, component.KickerComponent.Kind(), &component.Kicker{Name: name}); err != nil {
		t.Fatalf("add kicker: %v", err)
	}
	return e
}

func testContext(t *testing.T, w *ecs.World) *Context {
	return &Context{
		World: w,
		Rand:  rand.New(rand.NewSource(1)),
		SpawnBall: func(id int, x, y float64) (ecs.Entity, error) {
			e := addAt(t, w, x, y)
			if err := ecs.Add(w, e, component.BallComponent.Kind(), &component.Ball{ID: id}); err != nil {
				return 0, err
			}
			return e, nil
		},
	}
}

func TestDrainRelease(t *testing.T) {
	for _, id := range []string{"exampletable", "tna"} {
		t.Run(id, func(t *testing.T) {
			w := ecs.NewWorld()
			ctx := testContext(t, w)
			drain := addKicker(t, w, "Drain", 0, 0)
			addKicker(t, w, "BallRelease", 1, 1)
			ball, err := ctx.SpawnBall(0, 0, 0)
			if err != nil {
				t.Fatalf("spawn ball: %v", err)
			}

			script := DefaultRegistry(nil).Resolve(id)
			script.OnBallKicker(ctx, ball, drain)

			if ecs.IsAlive(w, ball) {
				t.Fatalf("expected the drained ball to be destroyed")
			}
			balls := w.Query(component.BallComponent.Kind())
			if len(balls) != 1 {
				t.Fatalf("expected exactly one ball, got %d", len(balls))
			}
			tr, _ := ecs.Get(w, balls[0], component.TransformComponent.Kind())
			if tr.X != 1 || tr.Y != 1 {
				t.Fatalf("expected the new ball on the release kicker, got (%v, %v)", tr.X, tr.Y)
			}
			b, _ := ecs.Get(w, balls[0], component.BallComponent.Kind())
			if b.ID != 0 {
				t.Fatalf("expected ball id 0, got %d", b.ID)
			}

			sounds := w.Query(component.SoundRequestComponent.Kind())
			if len(sounds) != 2 {
				t.Fatalf("expected drain and release sounds, got %d", len(sounds))
			}
			first, _ := ecs.Get(w, sounds[0], component.SoundRequestComponent.Kind())
			second, _ := ecs.Get(w, sounds[1], component.SoundRequestComponent.Kind())
			if first.X != 0 || first.Y != 0 || second.X != 1 || second.Y != 1 {
				t.Fatalf("expected sounds at the kickers, got %+v %+v", first, second)
			}
		})
	}
}

func TestOtherKickerIgnored(t *testing.T) {
	w := ecs.NewWorld()
	ctx := testContext(t, w)
	addKicker(t, w, "Drain", 0, 0)
	addKicker(t, w, "BallRelease", 1, 1)
	side := addKicker(t, w, "Saucer", 2, 2)
	ball, _ := ctx.SpawnBall(0, 2, 2)

	DefaultRegistry(nil).Resolve("exampletable").OnBallKicker(ctx, ball, side)
	if !ecs.IsAlive(w, ball) {
		t.Fatalf("expected the ball to survive a non-drain kicker")
	}
	if n := len(w.Query(component.SoundRequestComponent.Kind())); n != 0 {
		t.Fatalf("expected no sounds, got %d", n)
	}
}

func TestMissingReleaseKicker(t *testing.T) {
	w := ecs.NewWorld()
	ctx := testContext(t, w)
	drain := addKicker(t, w, "Drain", 0, 0)
	ball, _ := ctx.SpawnBall(0, 0, 0)

	DefaultRegistry(nil).Resolve("exampletable").OnBallKicker(ctx, ball, drain)
	if n := len(w.Query(component.BallComponent.Kind())); n != 0 {
		t.Fatalf("expected no respawn without a release kicker, got %d balls", n)
	}
	if n := len(w.Query(component.SoundRequestComponent.Kind())); n != 1 {
		t.Fatalf("expected only the drain sound, got %d", n)
	}
}

func TestTNARemovesCenteringWall(t *testing.T) {
	w := ecs.NewWorld()
	ctx := testContext(t, w)
	wall := addAt(t, w, 0, 0)
	if err := ecs.Add(w, wall, component.WallComponent.Kind(), &component.Wall{Name: "Wall348"}); err != nil {
		t.Fatalf("add wall: %v", err)
	}
	keep := addAt(t, w, 0, 0)
	if err := ecs.Add(w, keep, component.WallComponent.Kind(), &component.Wall{Name: "Wall1"}); err != nil {
		t.Fatalf("add wall: %v", err)
	}

	script := DefaultRegistry(nil).Resolve("TNA")
	if err := script.OnEnter(ctx); err != nil {
		t.Fatalf("on enter: %v", err)
	}
	if ecs.IsAlive(w, wall) {
		t.Fatalf("expected Wall348 removed")
	}
	if !ecs.IsAlive(w, keep) {
		t.Fatalf("expected other walls kept")
	}
	// A second enter finds nothing to remove and only warns.
	if err := script.OnEnter(ctx); err != nil {
		t.Fatalf("second on enter: %v", err)
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry(nil)

	tests := []struct {
		id   string
		name string
		noop bool
	}{
		{id: "exampleTable", name: "exampletable"},
		{id: "TNA", name: "tna"},
		{id: "unknown", name: "unknown", noop: true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s := r.Resolve(tt.id)
			if s.Name() != tt.name {
				t.Fatalf("expected %q, got %q", tt.name, s.Name())
			}
			_, isNoop := s.(noopScript)
			if isNoop != tt.noop {
				t.Fatalf("noop = %v, want %v", isNoop, tt.noop)
			}
		})
	}
}
