package ecs

import (
	"testing"

	"github.com/milk9111/pinball/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex < 0 {
				return
			}
			if !DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if IsAlive(w, ents[c.destroyIndex]) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("second DestroyEntity should return false")
			}
			if len(Entities(w)) != c.create-1 {
				t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(Entities(w)))
			}
		})
	}
}

func TestRecycledSlotRejectsStaleHandle(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()

	old := CreateEntity(w)
	if err := Add(w, old, kind, intPtr(1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh.id() != old.id() {
		t.Fatalf("expected slot %d to be recycled, got %d", old.id(), fresh.id())
	}
	if fresh == old {
		t.Fatalf("recycled handle must differ from stale handle")
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle reported alive")
	}
	if Has(w, fresh, kind) {
		t.Fatalf("recycled entity inherited a component")
	}
	if err := Add(w, old, kind, intPtr(2)); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
}

func TestComponents(t *testing.T) {
	w := NewWorld()
	names := component.NewComponent[string]()
	counts := component.NewComponent[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int",
			setup: func() error { return Add(w, e1, counts.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, counts.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, counts.Kind()) },
		},
		{
			name: "add_string_to_both",
			setup: func() error {
				if err := Add(w, e1, names.Kind(), stringPtr("Wall1")); err != nil {
					return err
				}
				return Add(w, e2, names.Kind(), stringPtr("Wall2"))
			},
			check: func(t *testing.T) {
				if !Has(w, e1, names.Kind()) || !Has(w, e2, names.Kind()) {
					t.Fatalf("expected both entities to have a name")
				}
			},
			teardown: func() bool { return Remove(w, e1, names.Kind()) },
		},
		{
			name:  "replace_existing",
			setup: func() error { return Add(w, e2, names.Kind(), stringPtr("Bumper1")) },
			check: func(t *testing.T) {
				v, _ := Get(w, e2, names.Kind())
				if v == nil || *v != "Bumper1" {
					t.Fatalf("expected replaced value, got %v", v)
				}
			},
			teardown: func() bool { return Remove(w, e2, names.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}

	if err := Add[int](w, e1, counts.Kind(), nil); err != component.ErrNilComponent {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
	if err := Add(w, e1, component.ComponentKind[int]{}, intPtr(1)); err != component.ErrInvalidComponentKind {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}
}

func TestForEachAllowsDestroy(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()
	for i := 0; i < 4; i++ {
		e := CreateEntity(w)
		if err := Add(w, e, kind, intPtr(i)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	visited := 0
	ForEach(w, kind, func(e Entity, v *int) {
		visited++
		DestroyEntity(w, e)
	})
	if visited != 4 {
		t.Fatalf("expected 4 visits, got %d", visited)
	}
	if len(Entities(w)) != 0 {
		t.Fatalf("expected empty world, got %d entities", len(Entities(w)))
	}
}

func TestForEachIntersections(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "foreach3_intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1, e2, e3 := CreateEntity(w), CreateEntity(w), CreateEntity(w)
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				_ = Add(w, e1, ka, intPtr(1))
				_ = Add(w, e2, ka, intPtr(2))
				_ = Add(w, e2, kb, intPtr(3))
				_ = Add(w, e2, kc, intPtr(4))
				_ = Add(w, e3, kb, intPtr(5))

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _, _, _ *int) { res = append(res, e) })
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "foreach4_ignores_dead",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()
				kd := component.NewComponentKind[int]()
				_ = Add(w, e, ka, intPtr(1))
				_ = Add(w, e, kb, intPtr(2))
				_ = Add(w, e, kc, intPtr(3))
				_ = Add(w, e, kd, intPtr(4))
				DestroyEntity(w, e)

				var res []Entity
				ForEach4(w, ka, kb, kc, kd, func(e Entity, _, _, _, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "foreach2_missing_store",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[string]()
				_ = Add(w, e, ka, intPtr(1))

				called := false
				ForEach2(w, ka, kb, func(Entity, *int, *string) { called = true })
				if called {
					t.Fatalf("expected no visits when a store is missing")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestQueryOrderAndFirst(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[string]()

	ents := make([]Entity, 5)
	for i := range ents {
		ents[i] = CreateEntity(w)
	}
	// Insert in reverse so dense order differs from slot order.
	for i := len(ents) - 1; i >= 0; i-- {
		_ = Add(w, ents[i], ka, intPtr(i))
		if i%2 == 0 {
			_ = Add(w, ents[i], kb, stringPtr("even"))
		}
	}

	got := w.Query(ka, kb)
	want := []Entity{ents[0], ents[2], ents[4]}
	if len(got) != len(want) {
		t.Fatalf("expected %d entities, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	first, ok := w.First(kb)
	if !ok || first != ents[0] {
		t.Fatalf("expected first=%v, got %v ok=%v", ents[0], first, ok)
	}
	if _, ok := w.First(component.NewComponentKind[float64]()); ok {
		t.Fatalf("expected no entity for unused kind")
	}
}

type recordingSystem struct {
	push    bool
	drained int
}

func (s *recordingSystem) Update(w *World) {
	if s.push {
		w.Events().Push(Event{Type: EventCollisionStarted, Data: CollisionStarted{}})
		return
	}
	s.drained += len(w.Events().Drain())
}

func TestSchedulerFlushesEvents(t *testing.T) {
	w := NewWorld()
	producer := &recordingSystem{push: true}
	consumer := &recordingSystem{}

	s := NewScheduler(producer, nil)
	s.Add(consumer)
	s.Update(w)
	if consumer.drained != 1 {
		t.Fatalf("expected consumer to drain 1 event, got %d", consumer.drained)
	}

	// Events pushed after the consumer ran are dropped at the end of the tick.
	late := NewScheduler(consumer, producer)
	late.Update(w)
	if w.Events().Len() != 0 {
		t.Fatalf("expected queue to be flushed, got %d", w.Events().Len())
	}
	if len(s.Systems()) != 2 {
		t.Fatalf("expected nil systems to be skipped, got %d", len(s.Systems()))
	}
}

func TestCollisionStartedOther(t *testing.T) {
	c := CollisionStarted{A: 1, B: 2}
	if c.Other(1) != 2 || c.Other(2) != 1 {
		t.Fatalf("unexpected Other result")
	}
}
