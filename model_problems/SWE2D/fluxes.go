package SWE2D

import (
	"math"

	"github.com/skycler/swe2d/geometry2D"
)

/*
	Numerical flux across one edge, expressed in the edge normal
	direction. The caller scales by the edge length when accumulating
	into the residual.

	Scheme: local Lax-Friedrichs (Rusanov). The dissipation uses a
	single maximum signal speed estimate, enough for the bores produced
	by dam break initial conditions.
*/

// RusanovFlux computes the (mass, x-momentum, y-momentum) flux across e.
// The left state comes from the edge's left triangle; the right state
// from the right triangle, or from a reflective wall condition when the
// edge lies on the domain boundary.
func RusanovFlux(e *geometry2D.Edge, q *State) (flux [3]float64) {
	var (
		nx, ny = e.Normal[0], e.Normal[1]
		left   = e.LeftTri
	)
	hL := q.H[left]
	uL, vL := q.Velocity(left)
	huL, hvL := q.Hu[left], q.Hv[left]

	var (
		hR, uR, vR, huR, hvR float64
	)
	if right := e.RightTri; right != -1 {
		hR = q.H[right]
		uR, vR = q.Velocity(right)
		huR, hvR = q.Hu[right], q.Hv[right]
	} else {
		// Wall boundary: mirror the normal velocity component, keep height
		un := uL*nx + vL*ny
		uR = uL - 2*un*nx
		vR = vL - 2*un*ny
		hR = hL
		huR, hvR = hR*uR, hR*vR
	}

	// Physical fluxes in the normal direction, hydrostatic pressure included
	var (
		fhL  = huL*nx + hvL*ny
		fhuL = (huL*uL+0.5*G*hL*hL)*nx + (huL*vL)*ny
		fhvL = (hvL*uL)*nx + (hvL*vL+0.5*G*hL*hL)*ny

		fhR  = huR*nx + hvR*ny
		fhuR = (huR*uR+0.5*G*hR*hR)*nx + (huR*vR)*ny
		fhvR = (hvR*uR)*nx + (hvR*vR+0.5*G*hR*hR)*ny
	)

	// Signal speeds
	var (
		unL  = uL*nx + vL*ny
		unR  = uR*nx + vR*ny
		sMax = math.Max(math.Abs(unL)+math.Sqrt(G*hL), math.Abs(unR)+math.Sqrt(G*hR))
	)

	flux[0] = 0.5 * (fhL + fhR - sMax*(hR-hL))
	flux[1] = 0.5 * (fhuL + fhuR - sMax*(huR-huL))
	flux[2] = 0.5 * (fhvL + fhvR - sMax*(hvR-hvL))
	return
}
