package SWE2D

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/skycler/swe2d/geometry2D"
	"github.com/skycler/swe2d/utils"
)

/*
	Finite volume solver for the 2D shallow water equations on an
	unstructured triangular mesh.

	One call to Step advances the solution by one adaptive time step:
	1) CFL limited step size selection over all triangles
	2) Two stage Runge-Kutta (Heun) update; each stage assembles the
	   spatial residual from one pass over the edges (Rusanov fluxes)
	   and one pass over the triangles (friction and bed slope sources)

	All per-triangle passes fork one goroutine per PartitionMap bucket
	and join before the next sequential phase. The edge pass runs over
	pre-partitioned edge buckets scattering into per-partition
	accumulators, merged after the join, so no two goroutines ever
	write the same triangle's residual.
*/
type SWE struct {
	Mesh        *geometry2D.TriangularMesh // Read-only after construction
	Q           *State
	Time, Dt    float64
	CFL         float64
	Friction    FrictionLaw
	Partitions  *utils.PartitionMap // Over triangles
	EdgeBuckets [][]int             // Edge indices, one bucket per partition
	chart       ChartState
	ws          *stepWorkspace
}

type stepWorkspace struct {
	res, inter          *State
	edgeRes             [][3][]float64 // Per-partition flux accumulators
	maxSpeed, minLength []float64      // Per-partition reduction results
}

// NewSWE builds a solver over mesh. CFL must be positive. procLimit
// overrides the goroutine count, which otherwise follows runtime.NumCPU.
func NewSWE(mesh *geometry2D.TriangularMesh, cfl float64, friction FrictionLaw,
	procLimit ...int) (s *SWE, err error) {
	if mesh == nil || len(mesh.Triangles) == 0 {
		return nil, fmt.Errorf("solver requires a non-empty mesh")
	}
	if cfl <= 0 {
		return nil, fmt.Errorf("CFL number must be positive, have %g", cfl)
	}
	var (
		nTri = len(mesh.Triangles)
		NP   = runtime.NumCPU()
	)
	if len(procLimit) != 0 && procLimit[0] != 0 {
		NP = procLimit[0]
	}
	runtime.GOMAXPROCS(runtime.NumCPU())
	if NP > nTri {
		NP = 1
	}
	s = &SWE{
		Mesh:       mesh,
		Q:          NewState(nTri),
		Dt:         0.001, // Starting guess, replaced by the CFL condition
		CFL:        cfl,
		Friction:   friction,
		Partitions: utils.NewPartitionMap(NP, nTri),
	}
	s.EdgeBuckets = s.partitionEdges()
	s.ws = &stepWorkspace{
		res:       NewState(nTri),
		inter:     NewState(nTri),
		edgeRes:   make([][3][]float64, NP),
		maxSpeed:  make([]float64, NP),
		minLength: make([]float64, NP),
	}
	for np := 0; np < NP; np++ {
		for n := 0; n < 3; n++ {
			s.ws.edgeRes[np][n] = make([]float64, nTri)
		}
	}
	return
}

// Step advances the solution by one adaptive time step and accumulates
// the simulation time. maxDt caps the step size, used to land exactly
// on a target time.
func (s *SWE) Step(maxDt ...float64) {
	s.computeTimestep()
	if len(maxDt) != 0 && s.Dt > maxDt[0] {
		s.Dt = maxDt[0]
	}
	// Heun's method: residual at the current state, half step to the
	// intermediate state, residual there, full step from the original
	s.computeResidual(s.Q, s.ws.res)
	s.updateState(s.Q, s.ws.res, s.ws.inter, 0.5*s.Dt)
	s.computeResidual(s.ws.inter, s.ws.res)
	s.updateState(s.Q, s.ws.res, s.Q, s.Dt)
	s.Time += s.Dt
}

// computeTimestep applies the CFL condition: dt scales the minimum
// characteristic length sqrt(2*area) by the inverse of the fastest
// signal speed |v| + sqrt(g*h). Still water keeps the previous dt.
func (s *SWE) computeTimestep() {
	var (
		pm = s.Partitions
		NP = pm.ParallelDegree
		ws = s.ws
		wg = sync.WaitGroup{}
	)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			var (
				kMin, kMax = pm.GetBucketRange(np)
				localMax   float64
				localMin   = math.MaxFloat64
			)
			for k := kMin; k < kMax; k++ {
				u, v := s.Q.Velocity(k)
				speed := math.Sqrt(u*u+v*v) + math.Sqrt(G*s.Q.H[k])
				localMax = math.Max(localMax, speed)
				localMin = math.Min(localMin, math.Sqrt(2*s.Mesh.Triangles[k].Area))
			}
			ws.maxSpeed[np], ws.minLength[np] = localMax, localMin
		}(np)
	}
	wg.Wait()
	if maxSpeed := floats.Max(ws.maxSpeed); maxSpeed > 1.e-10 {
		s.Dt = s.CFL * floats.Min(ws.minLength) / maxSpeed
	}
}

// computeResidual assembles the spatial residual of state q into res.
func (s *SWE) computeResidual(q, res *State) {
	var (
		pm = s.Partitions
		NP = pm.ParallelDegree
		ws = s.ws
		wg = sync.WaitGroup{}
	)
	// Edge pass: each partition scatters flux contributions for its own
	// edge bucket into its private accumulator
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			er := &ws.edgeRes[np]
			for n := 0; n < 3; n++ {
				buf := er[n]
				for i := range buf {
					buf[i] = 0
				}
			}
			for _, ei := range s.EdgeBuckets[np] {
				e := &s.Mesh.Edges[ei]
				flux := RusanovFlux(e, q)
				left := e.LeftTri
				er[0][left] += flux[0] * e.Length
				er[1][left] += flux[1] * e.Length
				er[2][left] += flux[2] * e.Length
				if right := e.RightTri; right != -1 {
					er[0][right] -= flux[0] * e.Length
					er[1][right] -= flux[1] * e.Length
					er[2][right] -= flux[2] * e.Length
				}
			}
		}(np)
	}
	wg.Wait()
	// Merge the per-partition accumulators and add source terms, each
	// goroutine owning a disjoint triangle range
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			for k := kMin; k < kMax; k++ {
				var rh, rhu, rhv float64
				for p := 0; p < NP; p++ {
					rh += ws.edgeRes[p][0][k]
					rhu += ws.edgeRes[p][1][k]
					rhv += ws.edgeRes[p][2][k]
				}
				res.H[k], res.Hu[k], res.Hv[k] = rh, rhu, rhv
			}
			s.addSourceTerms(q, res, kMin, kMax)
		}(np)
	}
	wg.Wait()
}

// updateState writes base - dt*res/area into out, clamping heights to
// be non-negative and zeroing momenta in nearly dry cells. out may
// alias base.
func (s *SWE) updateState(base, res, out *State, dt float64) {
	var (
		pm = s.Partitions
		NP = pm.ParallelDegree
		wg = sync.WaitGroup{}
	)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			for k := kMin; k < kMax; k++ {
				area := s.Mesh.Triangles[k].Area
				h := base.H[k] - dt*res.H[k]/area
				hu := base.Hu[k] - dt*res.Hu[k]/area
				hv := base.Hv[k] - dt*res.Hv[k]/area
				if h < DryTol {
					h = math.Max(h, 0)
					hu, hv = 0, 0
				}
				out.H[k], out.Hu[k], out.Hv[k] = h, hu, hv
			}
		}(np)
	}
	wg.Wait()
}

// WaterSurface reports bed elevation plus water height for triangle k.
func (s *SWE) WaterSurface(k int) float64 {
	return s.Mesh.Triangles[k].ZBed + s.Q.H[k]
}
