package main

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/config"
	"github.com/phanxgames/arbor/ecs"
	"github.com/phanxgames/arbor/luabind"
	"github.com/phanxgames/arbor/unitres"
)

// spinner turns a unit's first node around Z in quarter-turn tweens.
type spinner struct {
	unit  arbor.Id
	speed float32 // radians per second, sign gives direction
	tween *arbor.TweenGroup
}

// scene owns everything the viewer simulates.
type scene struct {
	world    *arbor.World
	ecsWorld donburi.World
	store    *ecs.DonburiStore
	script   *luabind.Engine
	spinners []*spinner
	log      *zap.Logger

	// poseEvents counts pose events seen by the ECS subscriber last tick.
	poseEvents int
}

func newScene(cfg *config.Config, log *zap.Logger) (*scene, error) {
	s := &scene{
		world:    arbor.NewWorld(cfg.World.MaxUnits, log),
		ecsWorld: donburi.NewWorld(),
		log:      log,
	}
	s.world.SetDebugMode(cfg.World.Debug)
	s.store = ecs.NewDonburiStore(s.ecsWorld)
	s.world.SetEntityStore(s.store)
	ecs.WorldEventType.Subscribe(s.ecsWorld, func(_ donburi.World, e arbor.WorldEvent) {
		if e.Type == arbor.EventPoseChanged {
			s.poseEvents++
		}
	})

	compiled := make(map[string]*unitres.Compiled)
	for i, sc := range cfg.Spawn {
		c, ok := compiled[sc.Unit]
		if !ok {
			var err error
			c, err = unitres.CompileFile(sc.Unit)
			if err != nil {
				return nil, fmt.Errorf("spawn[%d]: %w", i, err)
			}
			compiled[sc.Unit] = c
		}
		pos := sc.Position
		id, err := s.world.TrySpawnUnit(c.Name, c.Layout, mgl32.Translate3D(pos[0], pos[1], pos[2]))
		if err != nil {
			return nil, fmt.Errorf("spawn[%d] %s: %w", i, c.Name, err)
		}
		if sc.Spin != 0 {
			s.spinners = append(s.spinners, &spinner{unit: id, speed: sc.Spin})
		}
	}

	if cfg.Script.Path != "" {
		s.script = luabind.NewEngine(s.world, log.Named("lua"))
		for _, c := range compiled {
			if err := s.script.RegisterUnit(c.Name, c.Layout); err != nil {
				s.script.Close()
				return nil, err
			}
		}
		if err := s.script.DoFile(cfg.Script.Path); err != nil {
			s.script.Close()
			return nil, err
		}
	}

	log.Info("scene ready",
		zap.Int("units", s.world.NumUnits()),
		zap.Int("spinners", len(s.spinners)),
		zap.Bool("script", s.script != nil),
	)
	return s, nil
}

// update runs one simulation tick: script hook, spinners, world resolve,
// then ECS event delivery.
func (s *scene) update(dt float32) {
	if s.script != nil {
		s.script.Update(dt)
	}
	s.updateSpinners()
	s.world.Update(dt)

	s.poseEvents = 0
	ecs.WorldEventType.ProcessEvents(s.ecsWorld)
}

func (s *scene) updateSpinners() {
	live := s.spinners[:0]
	for _, sp := range s.spinners {
		u, err := s.world.TryUnit(sp.unit)
		if err != nil {
			continue
		}
		if sp.tween == nil || sp.tween.Done {
			g := u.SceneGraph()
			step := float32(math.Pi / 2)
			if sp.speed < 0 {
				step = -step
			}
			to := g.LocalRotation(0).Mul(mgl32.QuatRotate(step, mgl32.Vec3{0, 0, 1}))
			dur := float32(math.Pi/2) / float32(math.Abs(float64(sp.speed)))
			sp.tween = arbor.TweenLocalRotation(g, 0, to, dur, ease.Linear)
			s.world.AddTween(sp.tween)
		}
		live = append(live, sp)
	}
	for i := len(live); i < len(s.spinners); i++ {
		s.spinners[i] = nil
	}
	s.spinners = live
}

func (s *scene) close() {
	if s.script != nil {
		s.script.Close()
	}
}
