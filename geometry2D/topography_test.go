package geometry2D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopographyFlat(t *testing.T) {
	tm, err := NewRectangularMesh(5, 5, 10, 10, Topography{Type: TOPO_FLAT})
	assert.NoError(t, err)
	for _, tri := range tm.Triangles {
		assert.Equal(t, 0., tri.ZBed)
	}
}

func TestTopographySlope(t *testing.T) {
	var (
		gx, gy = 0.1, 0.05
		topo   = Topography{Type: TOPO_SLOPE, GradientX: gx, GradientY: gy}
	)
	tm, err := NewRectangularMesh(5, 5, 10, 10, topo)
	assert.NoError(t, err)
	for _, n := range tm.Nodes {
		assert.True(t, near(gx*n.X+gy*n.Y, n.Z, 1.e-10))
	}
	last := tm.Nodes[len(tm.Nodes)-1]
	assert.True(t, last.Z > tm.Nodes[0].Z)
}

func TestTopographyGaussian(t *testing.T) {
	var (
		topo = Topography{
			Type:      TOPO_GAUSSIAN,
			CenterX:   5,
			CenterY:   5,
			Amplitude: 2,
			Width:     2,
		}
	)
	tm, err := NewRectangularMesh(11, 11, 10, 10, topo)
	assert.NoError(t, err)
	// Node nearest the bump center sits close to peak amplitude
	var center Node
	minDist := math.MaxFloat64
	for _, n := range tm.Nodes {
		d := math.Hypot(n.X-topo.CenterX, n.Y-topo.CenterY)
		if d < minDist {
			minDist, center = d, n
		}
	}
	assert.True(t, center.Z >= 0.8*topo.Amplitude)
	// Gaussian decay matches the formula at every node
	for _, n := range tm.Nodes {
		r2 := (n.X-topo.CenterX)*(n.X-topo.CenterX) + (n.Y-topo.CenterY)*(n.Y-topo.CenterY)
		expected := topo.Amplitude * math.Exp(-r2/(topo.Width*topo.Width))
		assert.True(t, near(expected, n.Z, 1.e-10))
	}
}

func TestTopographyChannel(t *testing.T) {
	topo := Topography{Type: TOPO_CHANNEL, Depth: 2, ChannelWidth: 4}
	// Deepest on the centerline, zero outside the half width band
	assert.Equal(t, -topo.Depth, topo.Elevation(3, ChannelCenterY))
	assert.Equal(t, 0., topo.Elevation(3, ChannelCenterY+2.5))
	assert.Equal(t, 0., topo.Elevation(3, ChannelCenterY-2.5))
	// Parabolic profile inside the band
	z := topo.Elevation(0, ChannelCenterY+1)
	assert.True(t, near(-2*(1-0.25), z, 1.e-10))
}

func TestTopographyIdempotence(t *testing.T) {
	profiles := []Topography{
		{Type: TOPO_FLAT},
		{Type: TOPO_SLOPE, GradientX: 0.01, GradientY: 0.005},
		{Type: TOPO_GAUSSIAN, CenterX: 5, CenterY: 5, Amplitude: 1, Width: 2.5},
		{Type: TOPO_CHANNEL, Depth: 2, ChannelWidth: 5},
	}
	for _, topo := range profiles {
		for _, xy := range [][2]float64{{0, 0}, {5, 5}, {2.5, 7.5}, {10, 3}} {
			z1 := topo.Elevation(xy[0], xy[1])
			z2 := topo.Elevation(xy[0], xy[1])
			assert.Equal(t, z1, z2, "repeated evaluation must be bit identical")
		}
	}
}

func TestTopographyTypeLabels(t *testing.T) {
	assert.Equal(t, TOPO_FLAT, NewTopographyType("Flat"))
	assert.Equal(t, TOPO_SLOPE, NewTopographyType("slope"))
	assert.Equal(t, TOPO_GAUSSIAN, NewTopographyType("Gaussian"))
	assert.Equal(t, TOPO_CHANNEL, NewTopographyType("channel"))
	assert.Panics(t, func() { NewTopographyType("volcano") })
}
