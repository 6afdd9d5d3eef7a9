package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phanxgames/arbor/config"
)

const lampYAML = `
name: lamp
nodes:
  - name: base
  - name: arm
    parent: base
    position: [1, 0, 0]
  - name: shade
    parent: arm
    position: [0, 2, 0]
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	unit := filepath.Join(dir, "lamp.yaml")
	require.NoError(t, os.WriteFile(unit, []byte(lampYAML), 0o644))

	cfg := config.Default()
	cfg.World.MaxUnits = 16
	cfg.Spawn = []config.SpawnConfig{
		{Unit: unit, Position: [3]float32{0, 0, 0}, Spin: math.Pi / 2},
		{Unit: unit, Position: [3]float32{5, 0, 0}},
	}
	return cfg
}

func TestSceneSpawnsConfiguredUnits(t *testing.T) {
	s, err := newScene(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer s.close()

	assert.Equal(t, 2, s.world.NumUnits())
	assert.Equal(t, 2, s.store.Len())
	assert.Len(t, s.spinners, 1)

	still := s.world.Units()[1]
	shade := s.world.Unit(still).SceneGraph().WorldPosition(2)
	assert.InDelta(t, 6, shade[0], 1e-5)
	assert.InDelta(t, 2, shade[1], 1e-5)
}

func TestSceneSpinnerRotatesRoot(t *testing.T) {
	s, err := newScene(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer s.close()

	s.update(0.5)

	g := s.world.Unit(s.spinners[0].unit).SceneGraph()
	want := mgl32.QuatRotate(math.Pi/4, mgl32.Vec3{0, 0, 1})
	got := g.LocalRotation(0)
	assert.InDelta(t, 1, math.Abs(float64(got.Dot(want))), 1e-4)
	// Every node of the spinning unit moved; the other unit did not.
	assert.Equal(t, 3, s.poseEvents)

	s.update(0.5)
	s.update(0.5)
	want = mgl32.QuatRotate(3*math.Pi/4, mgl32.Vec3{0, 0, 1})
	assert.InDelta(t, 1, math.Abs(float64(g.LocalRotation(0).Dot(want))), 1e-3)
}

func TestSceneDropsSpinnerOfDestroyedUnit(t *testing.T) {
	s, err := newScene(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer s.close()

	s.world.DestroyUnit(s.spinners[0].unit)
	s.update(0.1)
	assert.Empty(t, s.spinners)
}

func TestSceneRunsScript(t *testing.T) {
	cfg := testConfig(t)
	script := filepath.Join(t.TempDir(), "main.lua")
	require.NoError(t, os.WriteFile(script, []byte(`
		extra = arbor.spawn_unit("lamp", 0, 10, 0)
		function update(dt)
			arbor.set_local_position(extra, 0, 0, 10, 1)
		end
	`), 0o644))
	cfg.Script.Path = script

	s, err := newScene(cfg, zap.NewNop())
	require.NoError(t, err)
	defer s.close()
	require.NotNil(t, s.script)
	assert.Equal(t, 3, s.world.NumUnits())

	s.update(0.1)
	ids := s.world.Units()
	z := s.world.Unit(ids[len(ids)-1]).SceneGraph().WorldPosition(0)[2]
	assert.InDelta(t, 1, z, 1e-5)
}

func TestSceneBadUnitPath(t *testing.T) {
	cfg := config.Default()
	cfg.Spawn = []config.SpawnConfig{{Unit: filepath.Join(t.TempDir(), "missing.yaml")}}

	_, err := newScene(cfg, zap.NewNop())
	assert.Error(t, err)
}
