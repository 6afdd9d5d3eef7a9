package arbor

import (
	"time"

	"go.uber.org/zap"
)

// UpdateStats holds per-tick metrics of SceneGraphManager.Update.
// Elapsed is only measured in debug mode.
type UpdateStats struct {
	Graphs     int
	Nodes      int
	Recomputed int
	Singular   int // world writes under a non-invertible parent; local pose kept
	Elapsed    time.Duration
}

// debugLog writes the tick's stats at debug level.
func (m *SceneGraphManager) debugLog(stats UpdateStats) {
	m.log.Debug("scene graph update",
		zap.Int("graphs", stats.Graphs),
		zap.Int("nodes", stats.Nodes),
		zap.Int("recomputed", stats.Recomputed),
		zap.Int("singular", stats.Singular),
		zap.Duration("elapsed", stats.Elapsed),
	)
}

// debugCheckGraph panics when a graph's parent ordering has been broken.
// Only called in debug mode.
func debugCheckGraph(log *zap.Logger, g *SceneGraph) {
	if err := g.Validate(); err != nil {
		log.Error("scene graph ordering violated", zap.Int("graph", g.index), zap.Error(err))
		panic(err)
	}
	if n := g.NumNodes(); n > debugMaxNodes {
		log.Warn("scene graph exceeds node threshold",
			zap.Int("graph", g.index), zap.Int("nodes", n), zap.Int("threshold", debugMaxNodes))
	}
}

// debugMaxNodes is the node count above which linear name lookups get slow.
const debugMaxNodes = 1000
