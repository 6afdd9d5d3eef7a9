package arbor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// humanoidLayout returns a 20-node skeleton-like layout: a spine of five
// nodes with three five-node limbs hanging off it.
func humanoidLayout() NodeLayout {
	l := NodeLayout{}
	add := func(name string, parent int32, pos Vec3) {
		l.Names = append(l.Names, HashName(name))
		l.Parents = append(l.Parents, parent)
		l.Poses = append(l.Poses, NewPose(pos, mgl32.QuatRotate(0.1, Vec3{0, 0, 1})))
	}
	add("root", NoParent, Vec3{})
	for i := 1; i < 5; i++ {
		add("spine", int32(i-1), Vec3{0, 1, 0})
	}
	for limb := 0; limb < 3; limb++ {
		parent := int32(4)
		for j := 0; j < 5; j++ {
			add("limb", parent, Vec3{0.5, 0, 0})
			parent = int32(len(l.Names) - 1)
		}
	}
	return l
}

// setupBenchWorld creates a World with n humanoid units spread on a grid.
func setupBenchWorld(n int) *World {
	w := NewWorld(n+1, nil)
	layout := humanoidLayout()
	for i := 0; i < n; i++ {
		w.SpawnUnit("unit", layout, mgl32.Translate3D(float32(i%100)*2, 0, float32(i/100)*2))
	}
	return w
}

func BenchmarkWorldUpdate_1000Units_Static(b *testing.B) {
	w := setupBenchWorld(1000)
	w.Update(0)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		w.Update(1.0 / 60)
	}
}

func BenchmarkWorldUpdate_1000Units_RootsMoving(b *testing.B) {
	w := setupBenchWorld(1000)
	graphs := w.SceneGraphs().Graphs()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for j, g := range graphs {
			g.SetLocalRotation(0, mgl32.QuatRotate(float32(i+j)*0.01, Vec3{0, 1, 0}))
		}
		w.Update(1.0 / 60)
	}
}

func BenchmarkWorldUpdate_1000Units_LeavesMoving(b *testing.B) {
	w := setupBenchWorld(1000)
	graphs := w.SceneGraphs().Graphs()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s := float32(math.Sin(float64(i) * 0.1))
		for _, g := range graphs {
			g.SetLocalPosition(19, Vec3{0.5, s, 0})
		}
		w.Update(1.0 / 60)
	}
}

func BenchmarkWorldUpdate_1000Units_PhysicsWriteBack(b *testing.B) {
	w := setupBenchWorld(1000)
	graphs := w.SceneGraphs().Graphs()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, g := range graphs {
			g.SetWorldPosition(4, Vec3{0, float32(i % 10), 0})
		}
		w.Update(1.0 / 60)
	}
}

func BenchmarkSpawnDestroyUnit(b *testing.B) {
	w := NewWorld(1024, nil)
	layout := humanoidLayout()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		id, err := w.TrySpawnUnit("unit", layout, identityPose)
		if err != nil {
			// Generations exhausted; start over.
			w = NewWorld(1024, nil)
			continue
		}
		w.DestroyUnit(id)
	}
}
