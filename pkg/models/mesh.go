// Package models provides the polyhedra shown and cut by the 3D view:
// glTF/GLB loading, built-in solids and conversion to view3d.Polyhedron.
package models

import (
	"math"

	"github.com/taigrr/view3d/pkg/math3d"
	"github.com/taigrr/view3d/pkg/view3d"
)

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3
	Triangles [][3]int

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Positions) == 0 {
		return
	}

	lo, hi := m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		lo = math3d.V3(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z))
		hi = math3d.V3(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z))
	}
	m.BoundsMin, m.BoundsMax = lo, hi
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// Transform applies an affine transformation to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i, p := range m.Positions {
		m.Positions[i] = mat.MulPoint(p).Vec3()
	}
	m.CalculateBounds()
}

// FitTo scales the mesh uniformly and moves it so that its bounding box is
// centred in b and fills fill (0..1] of b's smallest side.
func (m *Mesh) FitTo(b view3d.Box, fill float64) {
	m.CalculateBounds()
	size := m.Size()
	extent := math.Max(size.X, math.Max(size.Y, size.Z))
	if extent == 0 || len(m.Positions) == 0 {
		return
	}
	bs := b.Size()
	s := fill * math.Min(bs.X, math.Min(bs.Y, bs.Z)) / extent

	mat := math3d.Translate(b.Center()).
		Mul(math3d.Scale(math3d.V3(s, s, s))).
		Mul(math3d.Translate(m.Center().Negate()))
	m.Transform(mat)
}

// Weld merges vertices closer than tol and drops triangles that collapse.
// glTF exporters split vertices along hard edges; welding restores a
// connected surface.
func (m *Mesh) Weld(tol float64) {
	if tol <= 0 {
		tol = 1e-9
	}
	type key struct{ x, y, z int64 }
	quant := func(p math3d.Vec3) key {
		return key{int64(math.Round(p.X / tol)), int64(math.Round(p.Y / tol)), int64(math.Round(p.Z / tol))}
	}

	seen := make(map[key]int, len(m.Positions))
	remap := make([]int, len(m.Positions))
	positions := m.Positions[:0:0]
	for i, p := range m.Positions {
		k := quant(p)
		if j, ok := seen[k]; ok {
			remap[i] = j
			continue
		}
		seen[k] = len(positions)
		remap[i] = len(positions)
		positions = append(positions, p)
	}

	triangles := m.Triangles[:0]
	for _, t := range m.Triangles {
		a, b, c := remap[t[0]], remap[t[1]], remap[t[2]]
		if a == b || b == c || a == c {
			continue
		}
		triangles = append(triangles, [3]int{a, b, c})
	}
	m.Positions, m.Triangles = positions, triangles
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Positions: make([]math3d.Vec3, len(m.Positions)),
		Triangles: make([][3]int, len(m.Triangles)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Positions, m.Positions)
	copy(clone.Triangles, m.Triangles)
	return clone
}

// Polyhedron returns the mesh as a face set for plane sections.
func (m *Mesh) Polyhedron() *view3d.Polyhedron {
	ph := &view3d.Polyhedron{
		Vertices: make([]math3d.Vec3, len(m.Positions)),
		Faces:    make([][]int, len(m.Triangles)),
	}
	copy(ph.Vertices, m.Positions)
	for i, t := range m.Triangles {
		ph.Faces[i] = []int{t[0], t[1], t[2]}
	}
	return ph
}

// Edges returns each undirected triangle edge once, for wireframe drawing.
func (m *Mesh) Edges() [][2]int {
	seen := make(map[[2]int]bool, 3*len(m.Triangles)/2)
	var edges [][2]int
	for _, t := range m.Triangles {
		for k := range 3 {
			a, b := t[k], t[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			e := [2]int{a, b}
			if !seen[e] {
				seen[e] = true
				edges = append(edges, e)
			}
		}
	}
	return edges
}
