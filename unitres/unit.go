// Package unitres compiles unit descriptions into the node layout consumed
// by arbor.SceneGraph.Create.
//
// Units are written in YAML as a flat list of nodes that reference their
// parent by name, in any order. Compile sorts the nodes by link depth so that
// every parent precedes its children, which is the ordering the scene graph
// relies on, and rejects descriptions the scene graph would panic on.
package unitres

import (
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/arbor"
)

// ErrInvalidUnit is returned, wrapped, for descriptions that cannot be
// compiled.
var ErrInvalidUnit = errors.New("invalid unit")

// NodeDesc is one node of a unit description. Position, rotation (x, y, z, w)
// and scale are relative to the parent and default to the identity.
type NodeDesc struct {
	Name     string      `yaml:"name"`
	Parent   string      `yaml:"parent,omitempty"`
	Position *[3]float32 `yaml:"position,omitempty"`
	Rotation *[4]float32 `yaml:"rotation,omitempty"`
	Scale    *[3]float32 `yaml:"scale,omitempty"`
}

// UnitDesc is a parsed unit description.
type UnitDesc struct {
	Name  string     `yaml:"name"`
	Nodes []NodeDesc `yaml:"nodes"`
}

// Compiled is the result of Compile.
type Compiled struct {
	Name string
	// NodeNames holds the source names in layout order.
	NodeNames []string
	Layout    arbor.NodeLayout
}

// Parse decodes a YAML unit description.
func Parse(data []byte) (*UnitDesc, error) {
	var desc UnitDesc
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, errors.Wrap(err, "parse unit")
	}
	return &desc, nil
}

// LoadFile reads and parses a YAML unit description.
func LoadFile(path string) (*UnitDesc, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read unit")
	}
	desc, err := Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return desc, nil
}

// CompileFile loads and compiles the unit at path.
func CompileFile(path string) (*Compiled, error) {
	desc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Compile(desc)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return c, nil
}

type depthEntry struct {
	src   int
	depth int
}

// Compile validates desc and produces a depth-sorted node layout. Nodes of
// equal depth keep their source order.
func Compile(desc *UnitDesc) (*Compiled, error) {
	n := len(desc.Nodes)
	if n == 0 {
		return nil, errors.Wrap(ErrInvalidUnit, "no nodes")
	}

	byName := make(map[string]int, n)
	for i, nd := range desc.Nodes {
		if nd.Name == "" {
			return nil, errors.Wrapf(ErrInvalidUnit, "node %d has no name", i)
		}
		if _, dup := byName[nd.Name]; dup {
			return nil, errors.Wrapf(ErrInvalidUnit, "duplicate node %q", nd.Name)
		}
		byName[nd.Name] = i
	}

	hashes := make(map[arbor.StringID32]string, n)
	for _, nd := range desc.Nodes {
		h := arbor.HashName(nd.Name)
		if other, clash := hashes[h]; clash {
			return nil, errors.Wrapf(ErrInvalidUnit, "nodes %q and %q hash to %#08x", other, nd.Name, uint32(h))
		}
		hashes[h] = nd.Name
	}

	parent := make([]int, n)
	for i, nd := range desc.Nodes {
		parent[i] = arbor.NoParent
		if nd.Parent == "" {
			continue
		}
		p, ok := byName[nd.Parent]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidUnit, "node %q: parent %q not found", nd.Name, nd.Parent)
		}
		parent[i] = p
	}

	entries := make([]depthEntry, n)
	for i := range desc.Nodes {
		d, err := linkDepth(desc, parent, i)
		if err != nil {
			return nil, err
		}
		entries[i] = depthEntry{src: i, depth: d}
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].depth < entries[b].depth
	})

	sorted := make([]int, n)
	for pos, e := range entries {
		sorted[e.src] = pos
	}

	c := &Compiled{
		Name:      desc.Name,
		NodeNames: make([]string, n),
		Layout: arbor.NodeLayout{
			Names:   make([]arbor.StringID32, n),
			Poses:   make([]arbor.Mat4, n),
			Parents: make([]int32, n),
		},
	}
	for pos, e := range entries {
		nd := desc.Nodes[e.src]
		pose, err := nodePose(nd)
		if err != nil {
			return nil, err
		}
		c.NodeNames[pos] = nd.Name
		c.Layout.Names[pos] = arbor.HashName(nd.Name)
		c.Layout.Poses[pos] = pose
		c.Layout.Parents[pos] = arbor.NoParent
		if p := parent[e.src]; p != arbor.NoParent {
			c.Layout.Parents[pos] = int32(sorted[p])
		}
	}

	if err := arbor.ValidateLayout(c.Layout); err != nil {
		return nil, errors.Wrap(err, "compile")
	}
	return c, nil
}

// linkDepth returns the number of ancestors of node i.
func linkDepth(desc *UnitDesc, parent []int, i int) (int, error) {
	depth := 0
	for p := parent[i]; p != arbor.NoParent; p = parent[p] {
		depth++
		if depth >= len(parent) {
			return 0, errors.Wrapf(ErrInvalidUnit, "node %q: parent cycle", desc.Nodes[i].Name)
		}
	}
	return depth, nil
}

func nodePose(nd NodeDesc) (arbor.Mat4, error) {
	pos := arbor.Vec3{}
	if nd.Position != nil {
		pos = arbor.Vec3(*nd.Position)
	}
	rot := mgl32.QuatIdent()
	if nd.Rotation != nil {
		r := *nd.Rotation
		rot = mgl32.Quat{W: r[3], V: arbor.Vec3{r[0], r[1], r[2]}}
		if rot.Len() < 1e-6 {
			return arbor.Mat4{}, errors.Wrapf(ErrInvalidUnit, "node %q: zero rotation", nd.Name)
		}
	}
	if nd.Scale == nil {
		return arbor.NewPose(pos, rot), nil
	}
	s := arbor.Vec3(*nd.Scale)
	if s[0] == 0 || s[1] == 0 || s[2] == 0 {
		return arbor.Mat4{}, errors.Wrapf(ErrInvalidUnit, "node %q: zero scale", nd.Name)
	}
	return arbor.NewScaledPose(pos, rot, s), nil
}
