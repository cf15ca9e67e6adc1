package ecs

import (
	"fmt"

	"github.com/milk9111/pinball/ecs/component"
)

// World owns entities, their component stores and the frame event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]store
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]store)}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and retires its handle.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity ordered by slot id.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

func (w *World) CreateEntity() Entity {
	return CreateEntity(w)
}

func (w *World) DestroyEntity(e Entity) bool {
	return DestroyEntity(w, e)
}

func (w *World) IsAlive(e Entity) bool {
	return IsAlive(w, e)
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) (*sparseSet[T], error) {
	if !kind.Valid() {
		return nil, component.ErrInvalidComponentKind
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]store)
	}
	raw, ok := w.stores[kind.ID()]
	if !ok {
		if !create {
			return nil, nil
		}
		s := newSparseSet[T]()
		w.stores[kind.ID()] = s
		return s, nil
	}
	s, ok := raw.(*sparseSet[T])
	if !ok {
		panic(fmt.Sprintf("ecs: component %d registered with a different type", kind.ID()))
	}
	return s, nil
}
