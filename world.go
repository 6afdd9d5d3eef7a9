package arbor

import "go.uber.org/zap"

// Unit is a spawned object with its own transform hierarchy. Units are owned
// by a World and addressed by Id.
type Unit struct {
	id    Id
	name  string
	graph *SceneGraph
}

// ID returns the unit's handle.
func (u *Unit) ID() Id { return u.id }

// Name returns the name the unit was spawned with.
func (u *Unit) Name() string { return u.name }

// SceneGraph returns the unit's transform hierarchy.
func (u *Unit) SceneGraph() *SceneGraph { return u.graph }

// World owns a set of units and the scene graph pool that resolves them.
// Call Update once per tick after all pose writes for the tick.
type World struct {
	units  *IdArray[*Unit]
	graphs *SceneGraphManager
	tweens []*TweenGroup
	store  EntityStore
	log    *zap.Logger
}

// NewWorld creates a world holding up to maxUnits-1 live units.
// A nil logger disables logging.
func NewWorld(maxUnits int, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		units:  NewIdArray[*Unit](maxUnits),
		graphs: NewSceneGraphManager(log.Named("scenegraph")),
		log:    log,
	}
}

// SpawnUnit creates a unit whose hierarchy is built from layout and placed
// at pose. Panics if the world is full or layout is malformed.
func (w *World) SpawnUnit(name string, layout NodeLayout, pose Mat4) Id {
	id, err := w.TrySpawnUnit(name, layout, pose)
	must(err)
	return id
}

// TrySpawnUnit is the checked variant of SpawnUnit.
func (w *World) TrySpawnUnit(name string, layout NodeLayout, pose Mat4) (Id, error) {
	if err := ValidateLayout(layout); err != nil {
		return NoId, err
	}
	id, err := w.units.TryCreate(nil)
	if err != nil {
		return NoId, err
	}

	g := w.graphs.CreateSceneGraph()
	g.Create(pose, layout)
	*w.units.Get(id) = &Unit{id: id, name: name, graph: g}

	w.log.Debug("unit spawned",
		zap.String("name", name),
		zap.Uint32("id", id.Pack()),
		zap.Int("nodes", layout.Len()))
	w.emit(WorldEvent{Type: EventUnitSpawned, Unit: id, Pose: g.WorldPose(0)})
	return id, nil
}

// DestroyUnit destroys the unit and its hierarchy. Tweens on the unit stop
// at their next update. Panics with ErrInvalidHandle if id is not live.
func (w *World) DestroyUnit(id Id) {
	must(w.TryDestroyUnit(id))
}

// TryDestroyUnit is the checked variant of DestroyUnit.
func (w *World) TryDestroyUnit(id Id) error {
	p, err := w.units.TryGet(id)
	if err != nil {
		return err
	}
	u := *p
	w.graphs.DestroySceneGraph(u.graph)
	w.units.Destroy(id)

	w.log.Debug("unit destroyed", zap.String("name", u.name), zap.Uint32("id", id.Pack()))
	w.emit(WorldEvent{Type: EventUnitDestroyed, Unit: id})
	return nil
}

// Unit returns the unit for id. Panics with ErrInvalidHandle if id is not live.
func (w *World) Unit(id Id) *Unit {
	u, err := w.TryUnit(id)
	must(err)
	return u
}

// TryUnit is the checked variant of Unit.
func (w *World) TryUnit(id Id) (*Unit, error) {
	p, err := w.units.TryGet(id)
	if err != nil {
		return nil, err
	}
	return *p, nil
}

// HasUnit reports whether id refers to a live unit.
func (w *World) HasUnit(id Id) bool {
	return w.units.Has(id)
}

// NumUnits returns the number of live units.
func (w *World) NumUnits() int {
	return w.units.Size()
}

// Units returns the handles of all live units in unspecified order.
func (w *World) Units() []Id {
	ids := make([]Id, w.units.Size())
	for i := range ids {
		ids[i] = w.units.IdAt(i)
	}
	return ids
}

// AddTween registers a tween to be advanced by Update. Finished tweens are
// dropped automatically.
func (w *World) AddTween(t *TweenGroup) {
	w.tweens = append(w.tweens, t)
}

// NumTweens returns the number of running tweens.
func (w *World) NumTweens() int {
	return len(w.tweens)
}

// SetEntityStore sets the optional ECS bridge. Pass nil to detach.
func (w *World) SetEntityStore(store EntityStore) {
	w.store = store
}

// SceneGraphs returns the world's scene graph pool.
func (w *World) SceneGraphs() *SceneGraphManager {
	return w.graphs
}

// SetDebugMode enables per-tick stats logging and ordering checks.
func (w *World) SetDebugMode(enabled bool) {
	w.graphs.SetDebugMode(enabled)
}

// Update advances tweens by dt seconds, resolves every unit's hierarchy and
// forwards pose changes to the entity store.
func (w *World) Update(dt float32) {
	live := w.tweens[:0]
	for _, t := range w.tweens {
		t.Update(dt)
		if !t.Done {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(w.tweens); i++ {
		w.tweens[i] = nil
	}
	w.tweens = live

	w.graphs.Update()

	for _, u := range w.units.Objects() {
		if w.store != nil {
			u.graph.ForEachChanged(func(node int, pose Mat4) {
				w.store.EmitEvent(WorldEvent{Type: EventPoseChanged, Unit: u.id, Node: node, Pose: pose})
			})
		}
		u.graph.ClearChanged()
	}
}

func (w *World) emit(e WorldEvent) {
	if w.store != nil {
		w.store.EmitEvent(e)
	}
}
