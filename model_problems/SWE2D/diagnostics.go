package SWE2D

import "gonum.org/v1/gonum/floats"

/*
	Conservation diagnostics. Pure read-only reductions over the
	triangles, used for reporting and for the conservation tests; the
	integrator never reads them. Accumulation order is not significant.
*/

// TotalMass integrates water height over the domain.
func (s *SWE) TotalMass() float64 {
	scratch := make([]float64, len(s.Mesh.Triangles))
	for k, tri := range s.Mesh.Triangles {
		scratch[k] = s.Q.H[k] * tri.Area
	}
	return floats.Sum(scratch)
}

// TotalEnergy integrates kinetic plus potential energy over the domain.
func (s *SWE) TotalEnergy() float64 {
	scratch := make([]float64, len(s.Mesh.Triangles))
	for k, tri := range s.Mesh.Triangles {
		var (
			h    = s.Q.H[k]
			u, v = s.Q.Velocity(k)
		)
		scratch[k] = (0.5*h*(u*u+v*v) + 0.5*G*h*h) * tri.Area
	}
	return floats.Sum(scratch)
}
