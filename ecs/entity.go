package ecs

import "strconv"

// Entity is a handle into a World. The low half is a slot id starting at 1
// and the high half counts how often that slot was reused, so a handle kept
// past DestroyEntity never matches the slot's next occupant.
type Entity uint64

type (
	entityID   uint32
	generation uint32
)

func makeEntity(id entityID, gen generation) Entity {
	return Entity(gen)<<32 | Entity(id)
}

func (e Entity) id() entityID { return entityID(e & 0xffffffff) }

func (e Entity) generation() generation { return generation(e >> 32) }

// String renders the handle as slot/generation, e.g. "3/1".
func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.id()), 10) + "/" + strconv.FormatUint(uint64(e.generation()), 10)
}

// Valid reports whether e could ever have been issued. It says nothing about
// whether e is still alive; use IsAlive for that.
func (e Entity) Valid() bool {
	return e.id() != 0
}
