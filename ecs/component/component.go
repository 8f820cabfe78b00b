package component

import (
	"errors"
	"reflect"
	"sync"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID indexes a world's component stores. Zero is never minted.
type ComponentID uint32

// kinds holds the type name each id was minted for, indexed by id.
var kinds = struct {
	sync.Mutex
	names []string
}{names: []string{""}}

func mint(name string) ComponentID {
	kinds.Lock()
	defer kinds.Unlock()
	kinds.names = append(kinds.names, name)
	return ComponentID(len(kinds.names) - 1)
}

// Name reports the Go type behind id, or "" for an id that was never minted.
func Name(id ComponentID) string {
	kinds.Lock()
	defer kinds.Unlock()
	if int(id) >= len(kinds.names) {
		return ""
	}
	return kinds.names[id]
}

// ComponentKind is a typed key into the stores. Two kinds minted for the same
// T are distinct.
type ComponentKind[T any] struct {
	id ComponentID
}

func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{id: mint(reflect.TypeFor[T]().Name())}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

func (k ComponentKind[T]) String() string {
	if !k.Valid() {
		return "<invalid>"
	}
	return Name(k.id)
}

// ComponentHandle is what component files export, one per type.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}
