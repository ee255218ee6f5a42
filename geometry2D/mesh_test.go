package geometry2D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeshCreation(t *testing.T) {
	{ // Basic counts on a 3x3 grid
		tm, err := NewRectangularMesh(3, 3, 1, 1, Topography{Type: TOPO_FLAT})
		assert.NoError(t, err)
		assert.Equal(t, 9, len(tm.Nodes))
		assert.Equal(t, 8, len(tm.Triangles)) // 2*(3-1)*(3-1)
		for _, n := range tm.Nodes {
			assert.Equal(t, 0., n.Z)
		}
	}
	{ // Lattice spans the physical domain
		width, height := 10., 5.
		tm, err := NewRectangularMesh(11, 6, width, height, Topography{Type: TOPO_FLAT})
		assert.NoError(t, err)
		assert.Equal(t, 0., tm.Nodes[0].X)
		assert.Equal(t, 0., tm.Nodes[0].Y)
		last := tm.Nodes[len(tm.Nodes)-1]
		assert.True(t, near(width, last.X, 1.e-10))
		assert.True(t, near(height, last.Y, 1.e-10))
	}
	{ // Counts for general nx, ny
		for _, res := range [][2]int{{2, 2}, {5, 5}, {4, 7}} {
			nx, ny := res[0], res[1]
			tm, err := NewRectangularMesh(nx, ny, 10, 10, Topography{Type: TOPO_FLAT})
			assert.NoError(t, err)
			assert.Equal(t, nx*ny, len(tm.Nodes))
			assert.Equal(t, 2*(nx-1)*(ny-1), len(tm.Triangles))
		}
	}
}

func TestMeshValidation(t *testing.T) {
	var err error
	_, err = NewRectangularMesh(1, 3, 1, 1, Topography{Type: TOPO_FLAT})
	assert.Error(t, err)
	_, err = NewRectangularMesh(3, 1, 1, 1, Topography{Type: TOPO_FLAT})
	assert.Error(t, err)
	_, err = NewRectangularMesh(3, 3, 0, 1, Topography{Type: TOPO_FLAT})
	assert.Error(t, err)
	_, err = NewRectangularMesh(3, 3, 1, -1, Topography{Type: TOPO_FLAT})
	assert.Error(t, err)
}

func TestTriangleGeometry(t *testing.T) {
	tm, err := NewRectangularMesh(5, 5, 10, 10, Topography{Type: TOPO_FLAT})
	assert.NoError(t, err)
	var totalArea float64
	for i, tri := range tm.Triangles {
		assert.True(t, tri.Area > 0, "triangle area must be positive")
		assert.Equal(t, i, tri.ID)
		totalArea += tri.Area
	}
	// Cell areas tile the domain
	assert.True(t, near(100, totalArea, 1.e-10))
}

func TestEdges(t *testing.T) {
	tm, err := NewRectangularMesh(4, 4, 10, 10, Topography{Type: TOPO_FLAT})
	assert.NoError(t, err)
	assert.True(t, len(tm.Edges) > 0)
	for _, e := range tm.Edges {
		assert.True(t, e.Length > 0)
		norm := math.Sqrt(e.Normal[0]*e.Normal[0] + e.Normal[1]*e.Normal[1])
		assert.True(t, near(1, norm, 1.e-10), "edge normal must be a unit vector")
		// Length matches the distance between the edge's nodes
		n0, n1 := tm.Nodes[e.Nodes[0]], tm.Nodes[e.Nodes[1]]
		dx, dy := n1.X-n0.X, n1.Y-n0.Y
		assert.True(t, near(math.Sqrt(dx*dx+dy*dy), e.Length, 1.e-10))
		assert.True(t, e.LeftTri >= 0 && e.LeftTri < len(tm.Triangles))
		assert.True(t, e.RightTri >= -1 && e.RightTri < len(tm.Triangles))
	}
	// Normals point out of the left triangle: positive component along
	// the centroid-to-midpoint direction
	for _, e := range tm.Edges {
		var (
			n0, n1 = tm.Nodes[e.Nodes[0]], tm.Nodes[e.Nodes[1]]
			midX   = 0.5 * (n0.X + n1.X)
			midY   = 0.5 * (n0.Y + n1.Y)
			c      = tm.Triangles[e.LeftTri].Centroid
			dot    = e.Normal[0]*(midX-c[0]) + e.Normal[1]*(midY-c[1])
		)
		assert.True(t, dot > 0, "edge normal must point away from the left triangle")
	}
	// Euler formula check on unique edges: E = T*3/2 + boundary/2
	interior, boundary := 0, 0
	for _, e := range tm.Edges {
		if e.RightTri == -1 {
			boundary++
		} else {
			interior++
		}
	}
	assert.Equal(t, 3*len(tm.Triangles), 2*interior+boundary)
}

func TestNeighborConnectivity(t *testing.T) {
	tm, err := NewRectangularMesh(4, 4, 10, 10, Topography{Type: TOPO_FLAT})
	assert.NoError(t, err)
	for _, tri := range tm.Triangles {
		for _, nbr := range tri.Neighbors {
			if nbr == -1 {
				continue
			}
			assert.True(t, nbr >= 0 && nbr < len(tm.Triangles))
			// Neighbor relations are symmetric
			var reciprocal bool
			for _, back := range tm.Triangles[nbr].Neighbors {
				if back == tri.ID {
					reciprocal = true
				}
			}
			assert.True(t, reciprocal, "neighbor relation must be symmetric")
		}
	}
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol float64
	)
	if len(tolI) == 0 {
		tol = 1.e-08
	} else {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}
