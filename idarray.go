package arbor

// IdArray is an IdTable that also stores one object per live Id. Objects are
// kept densely packed for iteration; handles address sparse slots, and two
// index tables translate between the sparse and dense spaces.
type IdArray[T any] struct {
	table         *IdTable
	sparseToDense []uint16
	denseToSparse []uint16
	objects       []T
}

// NewIdArray creates an array able to hold max-1 live objects.
func NewIdArray[T any](max int) *IdArray[T] {
	t := NewIdTable(max)
	return &IdArray[T]{
		table:         t,
		sparseToDense: make([]uint16, max),
		denseToSparse: make([]uint16, max),
		objects:       make([]T, 0, max-1),
	}
}

// Create stores object and returns its handle.
// Panics with ErrCapacityExhausted when full.
func (a *IdArray[T]) Create(object T) Id {
	id, err := a.TryCreate(object)
	must(err)
	return id
}

// TryCreate is the checked variant of Create.
func (a *IdArray[T]) TryCreate(object T) (Id, error) {
	id, err := a.table.alloc()
	if err != nil {
		return NoId, err
	}

	dense := uint16(len(a.objects))
	a.objects = append(a.objects, object)
	a.sparseToDense[id.Index] = dense
	a.denseToSparse[dense] = id.Index
	return id, nil
}

// Destroy removes the object for id by moving the last dense object into its
// place. Other handles stay valid. Panics with ErrInvalidHandle if id is not live.
func (a *IdArray[T]) Destroy(id Id) {
	must(a.TryDestroy(id))
}

// TryDestroy is the checked variant of Destroy.
func (a *IdArray[T]) TryDestroy(id Id) error {
	if !a.table.Has(id) {
		return contractError(ErrInvalidHandle, "IdArray.Destroy", "id %d,%d", id.ID, id.Index)
	}

	dense := a.sparseToDense[id.Index]
	last := uint16(len(a.objects) - 1)
	if dense != last {
		moved := a.denseToSparse[last]
		a.objects[dense] = a.objects[last]
		a.sparseToDense[moved] = dense
		a.denseToSparse[dense] = moved
	}
	var zero T
	a.objects[last] = zero
	a.objects = a.objects[:last]

	a.table.release(id.Index)
	return nil
}

// Has reports whether id refers to a live object.
func (a *IdArray[T]) Has(id Id) bool {
	return a.table.Has(id)
}

// Get returns a pointer to the object for id. The pointer is only valid
// until the next Create or Destroy, which may move objects.
// Panics with ErrInvalidHandle if id is not live.
func (a *IdArray[T]) Get(id Id) *T {
	obj, err := a.TryGet(id)
	must(err)
	return obj
}

// TryGet is the checked variant of Get.
func (a *IdArray[T]) TryGet(id Id) (*T, error) {
	if !a.table.Has(id) {
		return nil, contractError(ErrInvalidHandle, "IdArray.Get", "id %d,%d", id.ID, id.Index)
	}
	return &a.objects[a.sparseToDense[id.Index]], nil
}

// Objects returns the live objects, densely packed, in unspecified order.
// The returned slice MUST NOT be appended to and is invalidated by Create or Destroy.
func (a *IdArray[T]) Objects() []T {
	return a.objects
}

// IdAt returns the handle of the object at dense position i.
func (a *IdArray[T]) IdAt(i int) Id {
	if i < 0 || i >= len(a.objects) {
		panic("arbor: IdArray dense index out of range")
	}
	sparse := a.denseToSparse[i]
	return Id{ID: a.table.slots[sparse].ID, Index: sparse}
}

// Size returns the number of live objects.
func (a *IdArray[T]) Size() int {
	return len(a.objects)
}

// Capacity returns the capacity passed to NewIdArray.
func (a *IdArray[T]) Capacity() int {
	return a.table.Capacity()
}
