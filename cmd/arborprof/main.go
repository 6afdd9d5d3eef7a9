// Profiling:
// go build ./cmd/arborprof
// ./arborprof -mode cpu
// go tool pprof -http=":8000" -nodefraction=0.001 ./arborprof cpu.pprof

package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/config"
	"github.com/phanxgames/arbor/internal/logging"
)

func main() {
	mode := flag.String("mode", "cpu", "profile mode: cpu, mem or none")
	units := flag.Int("units", 1000, "number of units")
	nodes := flag.Int("nodes", 20, "nodes per unit")
	ticks := flag.Int("ticks", 2000, "update ticks")
	dirty := flag.Float64("dirty", 0.1, "fraction of units whose root moves each tick, round robin")
	flag.Parse()

	log, err := logging.New(config.LoggingConfig{Level: "info", Format: "console"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	var p interface{ Stop() }
	switch *mode {
	case "cpu":
		p = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	case "mem":
		p = profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	case "none":
	default:
		log.Fatal("unknown profile mode", zap.String("mode", *mode))
	}

	r := run(*units, *nodes, *ticks, *dirty)
	if p != nil {
		p.Stop()
	}

	log.Info("profile run done",
		zap.Int("units", *units),
		zap.Int("nodes", *nodes),
		zap.Int("ticks", *ticks),
		zap.Int("recomputed", r.recomputed),
		zap.Duration("elapsed", r.elapsed),
		zap.Duration("per_tick", r.elapsed/time.Duration(max(*ticks, 1))),
	)
}

type result struct {
	recomputed int
	elapsed    time.Duration
}

// branchLayout builds n nodes in chains of four hanging off node 0.
func branchLayout(n int) arbor.NodeLayout {
	l := arbor.NodeLayout{
		Names:   make([]arbor.StringID32, n),
		Poses:   make([]arbor.Mat4, n),
		Parents: make([]int32, n),
	}
	for i := 0; i < n; i++ {
		l.Names[i] = arbor.HashName(fmt.Sprintf("node%d", i))
		l.Poses[i] = mgl32.Translate3D(0.5, 0, 0)
		switch {
		case i == 0:
			l.Parents[i] = arbor.NoParent
		case (i-1)%4 == 0:
			l.Parents[i] = 0
		default:
			l.Parents[i] = int32(i - 1)
		}
	}
	return l
}

func run(numUnits, numNodes, ticks int, dirty float64) result {
	w := arbor.NewWorld(numUnits+1, nil)
	layout := branchLayout(numNodes)
	ids := make([]arbor.Id, numUnits)
	for i := range ids {
		ids[i] = w.SpawnUnit("bench", layout, mgl32.Translate3D(float32(i), 0, 0))
	}

	moves := int(math.Ceil(float64(numUnits) * dirty))
	var res result
	start := time.Now()
	for t := 0; t < ticks; t++ {
		for m := 0; m < moves; m++ {
			g := w.Unit(ids[(t*moves+m)%numUnits]).SceneGraph()
			g.SetLocalRotation(0, mgl32.QuatRotate(float32(t)*0.01, mgl32.Vec3{0, 0, 1}))
		}
		w.Update(1.0 / 60)
		res.recomputed += w.SceneGraphs().LastStats().Recomputed
	}
	res.elapsed = time.Since(start)
	return res
}
