package ecs

import "github.com/milk9111/grapplerun/ecs/component"

// Query returns the live entities holding kind, in storage order.
func Query[T any](w *World, kind component.ComponentKind[T]) []Entity {
	var out []Entity
	ForEach(w, kind, func(e Entity, _ *T) { out = append(out, e) })
	return out
}

// First returns the first live entity holding kind. Handy for singletons such
// as the player.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, *T, bool) {
	s := storeOf(w, kind, false)
	if s == nil {
		return 0, nil, false
	}
	for _, e := range s.dense {
		if v, ok := Get(w, e, kind); ok {
			return e, v, true
		}
	}
	return 0, nil, false
}

// Count returns how many entities hold kind.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	s := storeOf(w, kind, false)
	if s == nil {
		return 0
	}
	return s.len()
}
