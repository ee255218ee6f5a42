package SWE2D

/*
	Shallow Water Equations in conservation form:
		dU/dt + dF/dx + dG/dy = S
	Where:
		U = [h, hu, hv]
		F = [hu, hu*u + g*h^2/2, hv*u]
		G = [hv, hu*v, hv*v + g*h^2/2]
	S carries the bottom friction and topographic source terms
*/

const (
	// G is the gravitational acceleration (m/s^2)
	G = 9.81
	// DryTol is the depth below which a cell is treated as dry
	DryTol = 1.e-10
)

// State holds the conserved quantities, one entry per mesh triangle,
// index aligned with the mesh triangle slice.
type State struct {
	H  []float64 // Water height
	Hu []float64 // x-momentum (h * u)
	Hv []float64 // y-momentum (h * v)
}

func NewState(nTriangles int) (q *State) {
	q = &State{
		H:  make([]float64, nTriangles),
		Hu: make([]float64, nTriangles),
		Hv: make([]float64, nTriangles),
	}
	return
}

func (q *State) Len() int { return len(q.H) }

// Velocity derives (u, v) for triangle i. Nearly dry cells report zero
// velocity to avoid division blowup.
func (q *State) Velocity(i int) (u, v float64) {
	h := q.H[i]
	if h > DryTol {
		u, v = q.Hu[i]/h, q.Hv[i]/h
	}
	return
}
