package arbor

import (
	"errors"
	"math/rand"
	"testing"
)

func TestIdArrayCreateGet(t *testing.T) {
	arr := NewIdArray[string](8)
	a := arr.Create("a")
	b := arr.Create("b")

	if got := *arr.Get(a); got != "a" {
		t.Errorf("Get(a) = %q, want a", got)
	}
	if got := *arr.Get(b); got != "b" {
		t.Errorf("Get(b) = %q, want b", got)
	}
	if arr.Size() != 2 {
		t.Errorf("Size = %d, want 2", arr.Size())
	}
}

func TestIdArrayGetIsWritable(t *testing.T) {
	arr := NewIdArray[int](8)
	id := arr.Create(1)
	*arr.Get(id) = 42
	if got := *arr.Get(id); got != 42 {
		t.Errorf("Get = %d after write, want 42", got)
	}
}

func TestIdArrayDestroyMovesLast(t *testing.T) {
	arr := NewIdArray[string](8)
	a := arr.Create("a")
	b := arr.Create("b")
	c := arr.Create("c")

	arr.Destroy(a)

	// c was last and now fills slot 0.
	objs := arr.Objects()
	if len(objs) != 2 || objs[0] != "c" || objs[1] != "b" {
		t.Errorf("Objects = %v, want [c b]", objs)
	}
	if got := *arr.Get(c); got != "c" {
		t.Errorf("Get(c) = %q after move, want c", got)
	}
	if got := *arr.Get(b); got != "b" {
		t.Errorf("Get(b) = %q, want b", got)
	}
	if arr.IdAt(0) != c {
		t.Errorf("IdAt(0) = %v, want %v", arr.IdAt(0), c)
	}
}

func TestIdArrayStaleHandle(t *testing.T) {
	arr := NewIdArray[int](4)
	id := arr.Create(1)
	arr.Destroy(id)

	if arr.Has(id) {
		t.Error("Has stale = true")
	}
	if _, err := arr.TryGet(id); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("TryGet stale = %v, want ErrInvalidHandle", err)
	}
	if err := arr.TryDestroy(id); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("TryDestroy stale = %v, want ErrInvalidHandle", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected Get on stale handle to panic")
		}
	}()
	arr.Get(id)
}

func TestIdArrayDestroyLastZeroes(t *testing.T) {
	arr := NewIdArray[*int](4)
	v := 5
	arr.Create(&v)
	id := arr.Create(&v)
	arr.Destroy(id)

	backing := arr.objects[:cap(arr.objects)]
	if backing[1] != nil {
		t.Error("vacated dense slot still references the destroyed object")
	}
}

func TestIdArrayIdAtOutOfRange(t *testing.T) {
	arr := NewIdArray[int](4)
	arr.Create(1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	arr.IdAt(1)
}

// TestIdArrayRandomOps compares the array against a map after random
// create/destroy sequences and checks the index tables agree.
func TestIdArrayRandomOps(t *testing.T) {
	const capacity = 64
	rng := rand.New(rand.NewSource(7))
	arr := NewIdArray[int](capacity)
	oracle := map[Id]int{}
	var live []Id
	next := 0

	for step := 0; step < 60; step++ {
		if len(live) > 0 && (rng.Intn(3) == 0 || arr.Size() == capacity-1) {
			i := rng.Intn(len(live))
			id := live[i]
			arr.Destroy(id)
			delete(oracle, id)
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		} else {
			id := arr.Create(next)
			oracle[id] = next
			live = append(live, id)
			next++
		}

		if arr.Size() != len(oracle) {
			t.Fatalf("step %d: Size = %d, want %d", step, arr.Size(), len(oracle))
		}
		for id, want := range oracle {
			if got := *arr.Get(id); got != want {
				t.Fatalf("step %d: Get(%v) = %d, want %d", step, id, got, want)
			}
		}
		for i := 0; i < arr.Size(); i++ {
			id := arr.IdAt(i)
			if int(arr.sparseToDense[id.Index]) != i {
				t.Fatalf("step %d: sparseToDense[denseToSparse[%d]] = %d", step, i, arr.sparseToDense[id.Index])
			}
			if arr.Objects()[i] != oracle[id] {
				t.Fatalf("step %d: dense %d holds %d, want %d", step, i, arr.Objects()[i], oracle[id])
			}
		}
	}
}

func BenchmarkIdArrayIterate(b *testing.B) {
	arr := NewIdArray[int](4096)
	for i := 0; i < 4095; i++ {
		arr.Create(i)
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sum := 0
		for _, v := range arr.Objects() {
			sum += v
		}
		_ = sum
	}
}
