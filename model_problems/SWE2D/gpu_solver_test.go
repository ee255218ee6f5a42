package SWE2D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skycler/swe2d/geometry2D"
)

func TestGPUSolverMatchesCPU(t *testing.T) {
	var (
		mesh, _ = geometry2D.NewRectangularMesh(5, 5, 10, 10,
			geometry2D.Topography{Type: geometry2D.TOPO_FLAT})
		friction = FrictionLaw{Type: FRICTION_NONE}
	)
	gs, err := NewGPUSolver(mesh, friction)
	if err != nil {
		t.Skipf("no compute device available: %v", err)
	}
	defer gs.Free()

	cpu, err := NewSWE(mesh, 0.45, friction)
	assert.NoError(t, err)
	cpu.SetDamBreak(5.0)
	assert.NoError(t, gs.UploadState(cpu.Q.H, cpu.Q.Hu, cpu.Q.Hv))

	// March both backends with the CPU side's step size and compare
	// to single precision accuracy
	var h, hu, hv []float64
	for i := 0; i < 5; i++ {
		cpu.computeTimestep()
		h, hu, hv, err = gs.ComputeStep(cpu.Dt)
		assert.NoError(t, err)
		cpu.computeResidual(cpu.Q, cpu.ws.res)
		cpu.updateState(cpu.Q, cpu.ws.res, cpu.ws.inter, 0.5*cpu.Dt)
		cpu.computeResidual(cpu.ws.inter, cpu.ws.res)
		cpu.updateState(cpu.Q, cpu.ws.res, cpu.Q, cpu.Dt)
	}
	for k := range cpu.Q.H {
		assert.True(t, near(h[k], cpu.Q.H[k], 1.e-4))
		assert.True(t, near(hu[k], cpu.Q.Hu[k], 1.e-4))
		assert.True(t, near(hv[k], cpu.Q.Hv[k], 1.e-4))
	}
}

func TestGPUSolverMassConservation(t *testing.T) {
	var (
		mesh, _ = geometry2D.NewRectangularMesh(6, 6, 10, 10,
			geometry2D.Topography{Type: geometry2D.TOPO_FLAT})
	)
	gs, err := NewGPUSolver(mesh, FrictionLaw{Type: FRICTION_NONE})
	if err != nil {
		t.Skipf("no compute device available: %v", err)
	}
	defer gs.Free()

	var (
		h  = make([]float64, len(mesh.Triangles))
		hu = make([]float64, len(mesh.Triangles))
		hv = make([]float64, len(mesh.Triangles))
	)
	for k, tri := range mesh.Triangles {
		if tri.Centroid[0] < 5.0 {
			h[k] = 2.0
		} else {
			h[k] = 1.0
		}
	}
	var mass0 float64
	for k := range h {
		mass0 += h[k] * mesh.Triangles[k].Area
	}
	assert.NoError(t, gs.UploadState(h, hu, hv))
	for i := 0; i < 20; i++ {
		h, _, _, err = gs.ComputeStep(0.01)
		assert.NoError(t, err)
	}
	var mass float64
	for k := range h {
		mass += h[k] * mesh.Triangles[k].Area
	}
	// Single precision state, conservation to float32 roundoff
	assert.True(t, math.Abs(mass-mass0)/mass0 < 1.e-5)
}

func TestGPUStateLengthValidation(t *testing.T) {
	var (
		mesh, _ = geometry2D.NewRectangularMesh(4, 4, 6, 6,
			geometry2D.Topography{Type: geometry2D.TOPO_FLAT})
	)
	gs, err := NewGPUSolver(mesh, FrictionLaw{Type: FRICTION_NONE})
	if err != nil {
		t.Skipf("no compute device available: %v", err)
	}
	defer gs.Free()
	short := make([]float64, 3)
	assert.Error(t, gs.UploadState(short, short, short))
}
