package arbor

import "fmt"

// IdTable is a fixed-capacity generational allocator. It hands out Ids that
// stay valid until destroyed and recycles freed slots through an intrusive
// free list threaded through the Index field of dead slots.
//
// A table of capacity max tracks at most max-1 live Ids; the value max is the
// free-list terminator. Generations come from a counter that only grows, so
// the table issues at most max Ids over its lifetime.
type IdTable struct {
	slots     []Id
	max       uint16
	freelist  uint16 // head of the free list; max when empty
	lastIndex uint16 // first never-used slot index
	nextID    uint16 // generation for the next Create
	size      uint16
}

// NewIdTable creates a table able to hold max-1 live Ids.
// Panics if max is outside [2, 65535].
func NewIdTable(max int) *IdTable {
	if max < 2 || max > invalidID {
		panic(fmt.Sprintf("arbor: IdTable capacity %d out of range [2, %d]", max, invalidID))
	}
	t := &IdTable{
		slots:    make([]Id, max),
		max:      uint16(max),
		freelist: uint16(max),
	}
	for i := range t.slots {
		t.slots[i].ID = invalidID
	}
	return t
}

// Create allocates a new Id. Panics with ErrCapacityExhausted when the table
// is full or has run out of generations.
func (t *IdTable) Create() Id {
	id, err := t.alloc()
	must(err)
	return id
}

func (t *IdTable) alloc() (Id, error) {
	if t.nextID >= t.max {
		return NoId, contractError(ErrCapacityExhausted, "IdTable.Create", "no generation left (capacity %d)", t.max)
	}
	if t.size >= t.max-1 {
		return NoId, contractError(ErrCapacityExhausted, "IdTable.Create", "%d live ids (capacity %d)", t.size, t.max)
	}

	id := Id{ID: t.nextID}
	t.nextID++

	if t.freelist != t.max {
		id.Index = t.freelist
		t.freelist = t.slots[t.freelist].Index
	} else {
		id.Index = t.lastIndex
		t.lastIndex++
	}

	t.slots[id.Index] = id
	t.size++
	return id, nil
}

// Destroy invalidates id and returns its slot to the free list.
// Panics with ErrInvalidHandle if id is not live.
func (t *IdTable) Destroy(id Id) {
	must(t.TryDestroy(id))
}

// TryDestroy is the checked variant of Destroy.
func (t *IdTable) TryDestroy(id Id) error {
	if !t.Has(id) {
		return contractError(ErrInvalidHandle, "IdTable.Destroy", "id %d,%d", id.ID, id.Index)
	}
	t.release(id.Index)
	return nil
}

func (t *IdTable) release(index uint16) {
	t.slots[index].ID = invalidID
	t.slots[index].Index = t.freelist
	t.freelist = index
	t.size--
}

// Has reports whether id refers to a live slot. A handle whose slot has been
// recycled fails Has permanently because the generation no longer matches.
func (t *IdTable) Has(id Id) bool {
	return id.Index < t.max && id.ID != invalidID && t.slots[id.Index].ID == id.ID
}

// Size returns the number of live Ids.
func (t *IdTable) Size() int {
	return int(t.size)
}

// Capacity returns the table size passed to NewIdTable.
func (t *IdTable) Capacity() int {
	return int(t.max)
}
