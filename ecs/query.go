package ecs

import (
	"sort"

	"github.com/milk9111/pinball/ecs/component"
)

// Query returns live entities holding every given kind, ordered by slot id
// so callers iterate deterministically.
func (w *World) Query(kinds ...component.AnyKind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]store, 0, len(kinds))
	for _, k := range kinds {
		s, ok := w.stores[k.ID()]
		if !ok {
			return nil
		}
		sets = append(sets, s)
	}
	base := smallest(sets...)
	out := make([]Entity, 0, base.len())
	for _, id := range base.ids() {
		match := true
		for _, s := range sets {
			if !s.has(id) {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if e, ok := w.entities.current(id); ok {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id() < out[j].id() })
	return out
}

// First returns the lowest-id live entity holding kind.
func (w *World) First(kind component.AnyKind) (Entity, bool) {
	ents := w.Query(kind)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}
