package models

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/taigrr/view3d/pkg/math3d"
)

// Cube returns the cube [-1,1]³ as 12 triangles.
func Cube() *Mesh {
	m := NewMesh("cube")
	for i := range 8 {
		m.Positions = append(m.Positions, math3d.V3(
			float64(2*(i&1)-1),
			float64(2*(i>>1&1)-1),
			float64(2*(i>>2&1)-1),
		))
	}
	quads := [6][4]int{
		{0, 2, 3, 1}, // z-
		{4, 5, 7, 6}, // z+
		{0, 1, 5, 4}, // y-
		{2, 6, 7, 3}, // y+
		{0, 4, 6, 2}, // x-
		{1, 3, 7, 5}, // x+
	}
	for _, q := range quads {
		m.Triangles = append(m.Triangles, [3]int{q[0], q[1], q[2]}, [3]int{q[0], q[2], q[3]})
	}
	m.CalculateBounds()
	return m
}

// Octahedron returns the octahedron with vertices at ±1 on each axis.
func Octahedron() *Mesh {
	m := NewMesh("octahedron")
	m.Positions = []math3d.Vec3{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	}
	m.Triangles = [][3]int{
		{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
		{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
	}
	m.CalculateBounds()
	return m
}

// Tetrahedron returns a regular tetrahedron inscribed in the cube [-1,1]³.
func Tetrahedron() *Mesh {
	m := NewMesh("tetrahedron")
	m.Positions = []math3d.Vec3{
		{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: 1},
	}
	m.Triangles = [][3]int{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}}
	m.CalculateBounds()
	return m
}

var solids = map[string]func() *Mesh{
	"cube":        Cube,
	"octahedron":  Octahedron,
	"tetrahedron": Tetrahedron,
}

// SolidNames lists the built-in solids.
func SolidNames() []string {
	names := make([]string, 0, len(solids))
	for n := range solids {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Load returns a built-in solid by name or loads a .glb/.gltf file.
func Load(nameOrPath string) (*Mesh, error) {
	if f, ok := solids[strings.ToLower(nameOrPath)]; ok {
		return f(), nil
	}
	switch strings.ToLower(filepath.Ext(nameOrPath)) {
	case ".glb", ".gltf":
		return LoadGLB(nameOrPath)
	}
	return nil, fmt.Errorf("models: %q is neither a solid (%s) nor a glTF file",
		nameOrPath, strings.Join(SolidNames(), ", "))
}
