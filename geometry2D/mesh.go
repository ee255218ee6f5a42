package geometry2D

import (
	"fmt"
	"math"
)

const (
	// NODETOL is the geometric degeneracy tolerance for areas and edge lengths
	NODETOL = 1.e-12
)

// Node is a mesh vertex with its bed elevation. Immutable once created,
// owned exclusively by the mesh.
type Node struct {
	X, Y float64
	Z    float64 // Bed elevation (bathymetry/topography)
}

// Triangle references its nodes and neighbors by index only. ID equals
// the triangle's position in the mesh triangle slice and doubles as the
// solver degree of freedom.
type Triangle struct {
	ID        int
	Nodes     [3]int // Node indices, counter clockwise
	Neighbors [3]int // Neighbor triangle sharing local edge i, -1 at the domain boundary
	Area      float64
	Centroid  [2]float64
	ZBed      float64 // Average bed elevation
}

// Edge is stored once per unique node pair. The left triangle owns the
// edge orientation; RightTri is -1 for a wall boundary edge.
type Edge struct {
	Nodes    [2]int
	Length   float64
	Normal   [2]float64 // Unit normal, points out of the left triangle
	LeftTri  int
	RightTri int
}

// TriangularMesh owns nodes, triangles and edges as three independent
// slices cross referenced by index. The whole structure is immutable
// after construction and safe for concurrent readers.
type TriangularMesh struct {
	Nodes     []Node
	Triangles []Triangle
	Edges     []Edge
	Nx, Ny    int
	Width     float64
	Height    float64
}

// NewRectangularMesh triangulates an nx x ny lattice over a rectangular
// domain, splitting each grid cell into two counter clockwise triangles.
// Bed elevation at each node comes from topo.
func NewRectangularMesh(nx, ny int, width, height float64,
	topo Topography) (tm *TriangularMesh, err error) {
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("mesh resolution must be at least 2x2, have %dx%d", nx, ny)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("domain size must be positive, have %gx%g", width, height)
	}
	var (
		dx = width / float64(nx-1)
		dy = height / float64(ny-1)
	)
	tm = &TriangularMesh{
		Nodes: make([]Node, 0, nx*ny),
		Nx:    nx,
		Ny:    ny,
		Width: width, Height: height,
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			x, y := float64(i)*dx, float64(j)*dy
			tm.Nodes = append(tm.Nodes, Node{X: x, Y: y, Z: topo.Elevation(x, y)})
		}
	}
	tm.Triangles = make([]Triangle, 0, 2*(nx-1)*(ny-1))
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			var (
				n0 = j*nx + i
				n1 = j*nx + i + 1
				n2 = (j+1)*nx + i
				n3 = (j+1)*nx + i + 1
			)
			// Lower triangle, then upper triangle of the cell
			if err = tm.addTriangle(n0, n1, n2); err != nil {
				return nil, err
			}
			if err = tm.addTriangle(n1, n3, n2); err != nil {
				return nil, err
			}
		}
	}
	tm.buildNeighbors()
	if err = tm.generateEdges(); err != nil {
		return nil, err
	}
	return
}

func (tm *TriangularMesh) addTriangle(n0, n1, n2 int) (err error) {
	var (
		v0, v1, v2 = tm.Nodes[n0], tm.Nodes[n1], tm.Nodes[n2]
		area       = 0.5 * ((v1.X-v0.X)*(v2.Y-v0.Y) - (v2.X-v0.X)*(v1.Y-v0.Y))
	)
	if area <= NODETOL {
		return fmt.Errorf("degenerate triangle %d with signed area %g",
			len(tm.Triangles), area)
	}
	tm.Triangles = append(tm.Triangles, Triangle{
		ID:        len(tm.Triangles),
		Nodes:     [3]int{n0, n1, n2},
		Neighbors: [3]int{-1, -1, -1},
		Area:      area,
		Centroid: [2]float64{
			(v0.X + v1.X + v2.X) / 3,
			(v0.Y + v1.Y + v2.Y) / 3,
		},
		ZBed: (v0.Z + v1.Z + v2.Z) / 3,
	})
	return
}

// buildNeighbors links every pair of triangles sharing exactly two
// nodes. The all-pairs scan is O(T^2) and runs once at startup; edge
// generation below reuses the neighbor slots it fills, so a hash based
// index would be contained to this routine.
func (tm *TriangularMesh) buildNeighbors() {
	tris := tm.Triangles
	for i := 0; i < len(tris); i++ {
		for j := i + 1; j < len(tris); j++ {
			if countSharedNodes(&tris[i], &tris[j]) == 2 {
				tris[i].Neighbors[findLocalEdge(&tris[i], &tris[j])] = j
				tris[j].Neighbors[findLocalEdge(&tris[j], &tris[i])] = i
			}
		}
	}
}

func countSharedNodes(t1, t2 *Triangle) (count int) {
	for _, n1 := range t1.Nodes {
		for _, n2 := range t2.Nodes {
			if n1 == n2 {
				count++
			}
		}
	}
	return
}

// findLocalEdge returns the local edge index i of t1 whose node pair
// (i, i+1 mod 3) is shared with t2.
func findLocalEdge(t1, t2 *Triangle) (edge int) {
	contains := func(t *Triangle, n int) bool {
		return t.Nodes[0] == n || t.Nodes[1] == n || t.Nodes[2] == n
	}
	for i := 0; i < 3; i++ {
		n0, n1 := t1.Nodes[i], t1.Nodes[(i+1)%3]
		if contains(t2, n0) && contains(t2, n1) {
			return i
		}
	}
	return 0
}

// generateEdges walks every triangle edge, canonicalizes it by the
// ordered (min, max) node pair to deduplicate, and records length, unit
// normal and the left/right triangle references. The first triangle to
// emit an edge is its left triangle; the normal points out of it, away
// from its interior.
func (tm *TriangularMesh) generateEdges() (err error) {
	seen := make(map[[2]int]struct{}, 3*len(tm.Triangles)/2)
	for _, tri := range tm.Triangles {
		for i := 0; i < 3; i++ {
			var (
				n0, n1 = tri.Nodes[i], tri.Nodes[(i+1)%3]
				key    = [2]int{n0, n1}
			)
			if n1 < n0 {
				key = [2]int{n1, n0}
			}
			if _, exists := seen[key]; exists {
				continue
			}
			seen[key] = struct{}{}
			var (
				dx     = tm.Nodes[n1].X - tm.Nodes[n0].X
				dy     = tm.Nodes[n1].Y - tm.Nodes[n0].Y
				length = math.Sqrt(dx*dx + dy*dy)
			)
			if length <= NODETOL {
				return fmt.Errorf("zero length edge between nodes %d and %d", n0, n1)
			}
			tm.Edges = append(tm.Edges, Edge{
				Nodes:    [2]int{n0, n1},
				Length:   length,
				Normal:   [2]float64{dy / length, -dx / length},
				LeftTri:  tri.ID,
				RightTri: tri.Neighbors[i],
			})
		}
	}
	return
}

// BedElevationRange reports the min and max node elevation.
func (tm *TriangularMesh) BedElevationRange() (zMin, zMax float64) {
	zMin, zMax = tm.Nodes[0].Z, tm.Nodes[0].Z
	for _, n := range tm.Nodes {
		zMin = math.Min(zMin, n.Z)
		zMax = math.Max(zMax, n.Z)
	}
	return
}
