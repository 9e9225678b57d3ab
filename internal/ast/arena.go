package ast

import (
	"fmt"
	"iter"

	"fortio.org/safecast"
)

// Arena stores the nodes of one family contiguously, addressed by the
// family's handle type. Handles are 1-based: the zero handle of every
// family means "none" and Get returns nil for it.
//
// Handles are node identity. Two nodes with identical contents still get
// different handles.
type Arena[ID ~uint32, T any] struct {
	data []T
}

func NewArena[ID ~uint32, T any](capHint uint) *Arena[ID, T] {
	return &Arena[ID, T]{data: make([]T, 0, capHint)}
}

// Allocate appends value and returns its handle.
func (a *Arena[ID, T]) Allocate(value T) ID {
	a.data = append(a.data, value)
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return ID(n)
}

// Get returns the node for id, or nil for the zero or an unknown handle.
// The pointer stays valid until the next Allocate.
func (a *Arena[ID, T]) Get(id ID) *T {
	if id == 0 || int(id) > len(a.data) {
		return nil
	}
	return &a.data[id-1]
}

func (a *Arena[ID, T]) Len() uint32 {
	return uint32(len(a.data)) // #nosec G115 -- bounded by Allocate
}

// All yields every node with its handle in allocation order.
func (a *Arena[ID, T]) All() iter.Seq2[ID, *T] {
	return func(yield func(ID, *T) bool) {
		for i := range a.data {
			if !yield(ID(i+1), &a.data[i]) { // #nosec G115 -- bounded by Allocate
				return
			}
		}
	}
}
