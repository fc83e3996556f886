package ecs

import "fmt"

// Entity is a generational handle: the low half is the slot, the high half
// counts how often that slot has been recycled. Stale handles never match a
// live entity. The zero Entity is never handed out.
type Entity uint64

type (
	entityID   uint32
	generation uint32
)

const (
	slotBits = 32
	slotMask = 1<<slotBits - 1
)

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<slotBits | uint64(id))
}

func (e Entity) id() entityID           { return entityID(uint64(e) & slotMask) }
func (e Entity) generation() generation { return generation(uint64(e) >> slotBits) }

// Valid reports whether e could name an entity at all. Use IsAlive to check
// it still does.
func (e Entity) Valid() bool { return e.id() != 0 }

func (e Entity) String() string {
	return fmt.Sprintf("entity(%d#%d)", e.id(), e.generation())
}
