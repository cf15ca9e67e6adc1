package ecs

import "github.com/milk9111/pinball/ecs/component"

// Add attaches value to e, replacing any existing component of that kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if value == nil {
		return component.ErrNilComponent
	}
	s, err := storeFor(w, kind, true)
	if err != nil {
		return err
	}
	s.set(e.id(), value)
	return nil
}

// Get returns the component of kind attached to e.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	s, err := storeFor(w, kind, false)
	if err != nil || s == nil {
		return nil, false
	}
	return s.get(e.id())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := Get(w, e, kind)
	return ok
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	s, err := storeFor(w, kind, false)
	if err != nil || s == nil {
		return false
	}
	return s.remove(e.id())
}

// ForEach visits every live entity holding kind. The entity list is
// snapshotted first so fn may add, remove or destroy freely.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	s, err := storeFor(w, kind, false)
	if err != nil || s == nil {
		return
	}
	for _, id := range snapshot(s.ids()) {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		if v, ok := s.get(id); ok {
			fn(e, v)
		}
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	sa, errA := storeFor(w, ka, false)
	sb, errB := storeFor(w, kb, false)
	if errA != nil || errB != nil || sa == nil || sb == nil {
		return
	}
	for _, id := range snapshot(smallest(sa, sb).ids()) {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	if w == nil || fn == nil {
		return
	}
	sa, errA := storeFor(w, ka, false)
	sb, errB := storeFor(w, kb, false)
	sc, errC := storeFor(w, kc, false)
	if errA != nil || errB != nil || errC != nil || sa == nil || sb == nil || sc == nil {
		return
	}
	for _, id := range snapshot(smallest(sa, sb, sc).ids()) {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		c, okC := sc.get(id)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	if w == nil || fn == nil {
		return
	}
	sa, errA := storeFor(w, ka, false)
	sb, errB := storeFor(w, kb, false)
	sc, errC := storeFor(w, kc, false)
	sd, errD := storeFor(w, kd, false)
	if errA != nil || errB != nil || errC != nil || errD != nil || sa == nil || sb == nil || sc == nil || sd == nil {
		return
	}
	for _, id := range snapshot(smallest(sa, sb, sc, sd).ids()) {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		c, okC := sc.get(id)
		d, okD := sd.get(id)
		if okA && okB && okC && okD {
			fn(e, a, b, c, d)
		}
	}
}

func smallest(stores ...store) store {
	best := stores[0]
	for _, s := range stores[1:] {
		if s.len() < best.len() {
			best = s
		}
	}
	return best
}

func snapshot(ids []entityID) []entityID {
	out := make([]entityID, len(ids))
	copy(out, ids)
	return out
}
