package arbor

import (
	"time"

	"go.uber.org/zap"
)

const defaultGraphCap = 64

// SceneGraphManager owns the live SceneGraphs of one world and resolves them
// once per tick. Graphs are removed by swapping the last graph into the freed
// slot, so a graph's pool index is not stable; callers hold *SceneGraph.
type SceneGraphManager struct {
	graphs []*SceneGraph
	log    *zap.Logger
	debug  bool
	stats  UpdateStats
}

// NewSceneGraphManager creates an empty pool. A nil logger disables logging.
func NewSceneGraphManager(log *zap.Logger) *SceneGraphManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SceneGraphManager{
		graphs: make([]*SceneGraph, 0, defaultGraphCap),
		log:    log,
	}
}

// CreateSceneGraph allocates an empty graph and appends it to the pool.
// Call SceneGraph.Create on the result to populate it.
func (m *SceneGraphManager) CreateSceneGraph() *SceneGraph {
	g := &SceneGraph{index: len(m.graphs)}
	m.graphs = append(m.graphs, g)
	return g
}

// DestroySceneGraph swap-removes g from the pool and releases it.
// Panics if g does not belong to this pool.
func (m *SceneGraphManager) DestroySceneGraph(g *SceneGraph) {
	if g == nil || g.index < 0 || g.index >= len(m.graphs) || m.graphs[g.index] != g {
		panic("arbor: scene graph does not belong to this manager")
	}

	last := len(m.graphs) - 1
	if g.index != last {
		moved := m.graphs[last]
		m.graphs[g.index] = moved
		moved.index = g.index
	}
	m.graphs[last] = nil
	m.graphs = m.graphs[:last]

	g.index = -1
	g.Destroy()
}

// Update resolves every live graph. Call once per simulation tick, after all
// pose writes for the tick have been made.
func (m *SceneGraphManager) Update() {
	var t0 time.Time
	if m.debug {
		t0 = time.Now()
	}

	stats := UpdateStats{Graphs: len(m.graphs)}
	for _, g := range m.graphs {
		if m.debug {
			debugCheckGraph(m.log, g)
		}
		stats.Nodes += g.NumNodes()
		recomputed, singular := g.update()
		stats.Recomputed += recomputed
		stats.Singular += singular
		if m.debug && singular > 0 {
			m.log.Warn("world pose written under singular parent",
				zap.Int("graph", g.index), zap.Int("nodes", singular))
		}
	}

	if m.debug {
		stats.Elapsed = time.Since(t0)
		m.debugLog(stats)
	}
	m.stats = stats
}

// Len returns the number of live graphs.
func (m *SceneGraphManager) Len() int {
	return len(m.graphs)
}

// At returns the graph at pool index i.
func (m *SceneGraphManager) At(i int) *SceneGraph {
	return m.graphs[i]
}

// Graphs returns the pool. The returned slice MUST NOT be mutated.
func (m *SceneGraphManager) Graphs() []*SceneGraph {
	return m.graphs
}

// SetDebugMode enables or disables debug mode. When enabled, every graph's
// parent ordering is re-validated before each Update and per-tick stats are
// logged at debug level.
func (m *SceneGraphManager) SetDebugMode(enabled bool) {
	m.debug = enabled
}

// LastStats returns the stats of the most recent Update.
func (m *SceneGraphManager) LastStats() UpdateStats {
	return m.stats
}
