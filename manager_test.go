package arbor

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewSceneGraphManager(t *testing.T) {
	m := NewSceneGraphManager(nil)
	if m.log == nil {
		t.Fatal("log should default to a no-op logger")
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
}

func TestManagerCreateStampsIndex(t *testing.T) {
	m := NewSceneGraphManager(nil)
	for i := 0; i < 3; i++ {
		g := m.CreateSceneGraph()
		if g.Index() != i {
			t.Errorf("Index = %d, want %d", g.Index(), i)
		}
		if m.At(i) != g {
			t.Errorf("At(%d) returned a different graph", i)
		}
	}
}

func TestManagerDestroySwapsLast(t *testing.T) {
	m := NewSceneGraphManager(nil)
	a := m.CreateSceneGraph()
	b := m.CreateSceneGraph()
	c := m.CreateSceneGraph()
	for _, g := range []*SceneGraph{a, b, c} {
		g.Create(identityPose, chainLayout(2))
	}

	m.DestroySceneGraph(a)

	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	if m.At(0) != c || c.Index() != 0 {
		t.Errorf("last graph not moved into freed slot: At(0)=%p c=%p c.Index=%d", m.At(0), c, c.Index())
	}
	if m.At(1) != b || b.Index() != 1 {
		t.Errorf("b moved unexpectedly: Index=%d", b.Index())
	}
	if !a.Destroyed() || a.Index() != -1 {
		t.Errorf("destroyed graph: Destroyed=%v Index=%d", a.Destroyed(), a.Index())
	}
}

func TestManagerDestroyLast(t *testing.T) {
	m := NewSceneGraphManager(nil)
	a := m.CreateSceneGraph()
	b := m.CreateSceneGraph()
	m.DestroySceneGraph(b)
	if m.Len() != 1 || m.At(0) != a || a.Index() != 0 {
		t.Error("destroying the last graph disturbed the rest of the pool")
	}
}

func TestManagerDestroyForeignPanics(t *testing.T) {
	m1 := NewSceneGraphManager(nil)
	m2 := NewSceneGraphManager(nil)
	m1.CreateSceneGraph()
	g := m2.CreateSceneGraph()
	m2.CreateSceneGraph()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic destroying a graph of another manager")
		}
	}()
	m1.DestroySceneGraph(g)
}

func TestManagerDestroyTwicePanics(t *testing.T) {
	m := NewSceneGraphManager(nil)
	g := m.CreateSceneGraph()
	m.DestroySceneGraph(g)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double destroy")
		}
	}()
	m.DestroySceneGraph(g)
}

func TestManagerUpdateResolvesAllGraphs(t *testing.T) {
	m := NewSceneGraphManager(nil)
	graphs := make([]*SceneGraph, 3)
	for i := range graphs {
		graphs[i] = m.CreateSceneGraph()
		graphs[i].Create(identityPose, chainLayout(3))
		graphs[i].SetLocalPosition(0, Vec3{float32(i), 0, 0})
	}

	m.Update()

	for i, g := range graphs {
		assertVec3(t, "leaf", g.WorldPosition(2), Vec3{float32(i) + 2, 0, 0})
	}
	stats := m.LastStats()
	if stats.Graphs != 3 || stats.Nodes != 9 || stats.Recomputed != 9 {
		t.Errorf("stats = %+v, want 3 graphs, 9 nodes, 9 recomputed", stats)
	}
	if stats.Elapsed != 0 {
		t.Errorf("Elapsed = %v outside debug mode, want 0", stats.Elapsed)
	}
}

func TestManagerSetDebugMode(t *testing.T) {
	m := NewSceneGraphManager(nil)
	m.SetDebugMode(true)
	if !m.debug {
		t.Error("debug should be true")
	}
	m.SetDebugMode(false)
	if m.debug {
		t.Error("debug should be false")
	}
}

func TestManagerDebugLogsStats(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := NewSceneGraphManager(zap.New(core))
	m.SetDebugMode(true)
	m.CreateSceneGraph().Create(identityPose, chainLayout(2))

	m.Update()

	entries := logs.FilterMessage("scene graph update").All()
	if len(entries) != 1 {
		t.Fatalf("got %d stats entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["graphs"] != int64(1) || fields["nodes"] != int64(2) {
		t.Errorf("fields = %v", fields)
	}
}

func TestManagerDebugCatchesBrokenOrdering(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := NewSceneGraphManager(zap.New(core))
	m.SetDebugMode(true)
	g := m.CreateSceneGraph()
	g.Create(identityPose, chainLayout(3))
	g.parents[1] = 2

	defer func() {
		if recover() == nil {
			t.Fatal("expected debug mode to panic on broken ordering")
		}
		if logs.FilterMessage("scene graph ordering violated").Len() != 1 {
			t.Error("violation not logged")
		}
	}()
	m.Update()
}

func TestManagerDebugWarnsLargeGraph(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	m := NewSceneGraphManager(zap.New(core))
	m.SetDebugMode(true)
	m.CreateSceneGraph().Create(identityPose, chainLayout(debugMaxNodes+1))

	m.Update()

	if logs.FilterMessage("scene graph exceeds node threshold").Len() != 1 {
		t.Error("expected a warning for a graph above the node threshold")
	}
}

func TestManagerDebugWarnsSingularParent(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	m := NewSceneGraphManager(zap.New(core))
	m.SetDebugMode(true)
	g := m.CreateSceneGraph()
	g.Create(identityPose, chainLayout(3))
	g.SetLocalScale(1, Vec3{1, 0, 1})
	m.Update()

	g.SetWorldPosition(2, Vec3{0, 4, 0})
	m.Update()

	if got := m.LastStats().Singular; got != 1 {
		t.Errorf("Singular = %d, want 1", got)
	}
	if logs.FilterMessage("world pose written under singular parent").Len() != 1 {
		t.Error("expected a warning for a world write under a singular parent")
	}
}

func BenchmarkManagerUpdate(b *testing.B) {
	m := NewSceneGraphManager(nil)
	for i := 0; i < 100; i++ {
		m.CreateSceneGraph().Create(identityPose, chainLayout(20))
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.At(i%100).SetLocalPosition(0, Vec3{float32(i), 0, 0})
		m.Update()
	}
}
