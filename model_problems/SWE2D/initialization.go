package SWE2D

import (
	"fmt"
	"math"
	"strings"
)

type InitType uint8

const (
	DAM_BREAK InitType = iota
	CIRCULAR_WAVE
	STANDING_WAVE
)

var InitNames = map[string]InitType{
	"dambreak":     DAM_BREAK,
	"circularwave": CIRCULAR_WAVE,
	"standingwave": STANDING_WAVE,
}

func (it InitType) Print() (txt string) {
	switch it {
	case DAM_BREAK:
		txt = "Dam Break"
	case CIRCULAR_WAVE:
		txt = "Circular Wave"
	case STANDING_WAVE:
		txt = "Standing Wave"
	}
	return
}

func NewInitType(label string) (it InitType) {
	var (
		ok  bool
		err error
	)
	label = strings.ToLower(strings.ReplaceAll(label, "-", ""))
	if it, ok = InitNames[label]; !ok {
		err = fmt.Errorf("unable to use initial condition named %s", label)
		panic(err)
	}
	return
}

// SetDamBreak splits the water column at x = xDam: 2m upstream, 1m
// downstream, everything at rest.
func (s *SWE) SetDamBreak(xDam float64) {
	for k, tri := range s.Mesh.Triangles {
		if tri.Centroid[0] < xDam {
			s.Q.H[k] = 2.0
		} else {
			s.Q.H[k] = 1.0
		}
		s.Q.Hu[k], s.Q.Hv[k] = 0, 0
	}
}

// SetCircularWave raises a cosine bump of the given amplitude above a
// 1m base level inside radius around (cx, cy), at rest.
func (s *SWE) SetCircularWave(cx, cy, radius, amplitude float64) {
	const hBase = 1.0
	for k, tri := range s.Mesh.Triangles {
		var (
			dx = tri.Centroid[0] - cx
			dy = tri.Centroid[1] - cy
			r  = math.Sqrt(dx*dx + dy*dy)
		)
		s.Q.H[k] = hBase
		if r < radius {
			s.Q.H[k] = hBase + amplitude*(1+math.Cos(math.Pi*r/radius))
		}
		s.Q.Hu[k], s.Q.Hv[k] = 0, 0
	}
}

// SetStandingWave perturbs a 1m base level with a product of sines in
// x and y, at rest.
func (s *SWE) SetStandingWave(amplitude, wavelength float64) {
	const hBase = 1.0
	for k, tri := range s.Mesh.Triangles {
		var (
			x, y = tri.Centroid[0], tri.Centroid[1]
		)
		s.Q.H[k] = hBase + amplitude*math.Sin(2*math.Pi*x/wavelength)*
			math.Sin(2*math.Pi*y/wavelength)
		s.Q.Hu[k], s.Q.Hv[k] = 0, 0
	}
}
