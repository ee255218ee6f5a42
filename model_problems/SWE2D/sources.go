package SWE2D

import (
	"fmt"
	"math"
	"strings"

	"github.com/skycler/swe2d/geometry2D"
)

type FrictionType uint8

const (
	FRICTION_NONE FrictionType = iota
	FRICTION_MANNING
	FRICTION_CHEZY
)

var FrictionNames = map[string]FrictionType{
	"none":    FRICTION_NONE,
	"manning": FRICTION_MANNING,
	"chezy":   FRICTION_CHEZY,
}

func (ft FrictionType) Print() (txt string) {
	switch ft {
	case FRICTION_NONE:
		txt = "None"
	case FRICTION_MANNING:
		txt = "Manning"
	case FRICTION_CHEZY:
		txt = "Chezy"
	}
	return
}

func NewFrictionType(label string) (ft FrictionType) {
	var (
		ok  bool
		err error
	)
	label = strings.ToLower(label)
	if ft, ok = FrictionNames[label]; !ok {
		err = fmt.Errorf("unable to use friction law named %s", label)
		panic(err)
	}
	return
}

// FrictionLaw selects the bottom friction formula and its coefficient:
// Manning's n (s/m^(1/3)) or Chezy's C (m^(1/2)/s).
type FrictionLaw struct {
	Type        FrictionType
	Coefficient float64
}

// FrictionSlope returns the friction slope vector for depth h and
// velocity (u, v). The magnitude follows the selected empirical
// formula and the vector is aligned with the velocity; entering the
// momentum equation as -g*h*S_f it decelerates the flow.
func (fl FrictionLaw) FrictionSlope(h, u, v float64) (sfx, sfy float64) {
	velMag := math.Sqrt(u*u + v*v)
	if velMag < 1.e-10 {
		return
	}
	var sfMag float64
	switch fl.Type {
	case FRICTION_MANNING:
		// S_f = n^2 * |v|^2 / h^(4/3)
		if h > 1.e-6 {
			n := fl.Coefficient
			sfMag = n * n * velMag * velMag / math.Pow(h, 4./3.)
		}
	case FRICTION_CHEZY:
		// S_f = |v|^2 / (C^2 * h)
		if h > 1.e-6 {
			c := fl.Coefficient
			sfMag = velMag * velMag / (c * c * h)
		}
	}
	sfx = sfMag * u / velMag
	sfy = sfMag * v / velMag
	return
}

// BedGradient reconstructs the bed elevation gradient over triangle k
// with a discrete Green-Gauss formula: the sum over the triangle's
// edges of (midpoint elevation x outward unit normal x edge length),
// divided by the triangle area. Exact for a linear bed from node
// elevations alone.
func BedGradient(tm *geometry2D.TriangularMesh, k int) (dzdx, dzdy float64) {
	tri := &tm.Triangles[k]
	for i := 0; i < 3; i++ {
		var (
			n0 = tm.Nodes[tri.Nodes[i]]
			n1 = tm.Nodes[tri.Nodes[(i+1)%3]]

			zMid = 0.5 * (n0.Z + n1.Z)
			dx   = n1.X - n0.X
			dy   = n1.Y - n0.Y
		)
		dzdx += zMid * dy
		dzdy += zMid * -dx
	}
	dzdx /= tri.Area
	dzdy /= tri.Area
	return
}

// addSourceTerms accumulates the friction and topographic momentum
// sources for triangles [kMin, kMax) into res. The momentum equation
// reads d(hu)/dt = -g*h*(S_f + dz/dx) and the update subtracts
// dt*res/area, so the sources enter res with positive sign: friction
// decelerates the flow, topography pushes downslope. Dry cells
// contribute nothing; the continuity equation has no source term.
func (s *SWE) addSourceTerms(q, res *State, kMin, kMax int) {
	for k := kMin; k < kMax; k++ {
		h := q.H[k]
		if h < DryTol {
			continue
		}
		var (
			u, v       = q.Velocity(k)
			sfx, sfy   = s.Friction.FrictionSlope(h, u, v)
			dzdx, dzdy = BedGradient(s.Mesh, k)
			area       = s.Mesh.Triangles[k].Area
		)
		res.Hu[k] += G * h * (sfx + dzdx) * area
		res.Hv[k] += G * h * (sfy + dzdy) * area
	}
}
