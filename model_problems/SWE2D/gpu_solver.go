package SWE2D

import (
	"fmt"
	"math"
	"strings"
	"unsafe"

	"github.com/notargets/gocca"

	"github.com/skycler/swe2d/geometry2D"
)

/*
	Accelerated step backend. The kernel re-implements one solver time
	step triangle-wise: every triangle gathers the Rusanov flux through
	its three local edges (recomputing the shared-edge flux from its own
	side, which is antisymmetric, so the scheme stays conservative),
	adds the friction and bed slope sources, and updates its own state.
	No scatter, no atomics.

	State lives on device as single precision triples padded to four
	components for alignment. The CPU path remains authoritative for
	correctness tests; this backend matches it to within float32
	precision.
*/

const gpuBlockSize = 256

type GPUSolver struct {
	device     *gocca.OCCADevice
	stepKernel *gocca.OCCAKernel

	memState, memInter, memOut *gocca.OCCAMemory
	memAreas                   *gocca.OCCAMemory
	memEdgeNx, memEdgeNy       *gocca.OCCAMemory
	memEdgeLen                 *gocca.OCCAMemory
	memNeighbors               *gocca.OCCAMemory
	memDzdx, memDzdy           *gocca.OCCAMemory

	nTri int
}

// DefaultDeviceConfigs is the backend preference order tried by
// NewGPUSolver when no explicit device configuration is given.
var DefaultDeviceConfigs = []string{
	`{"mode": "OpenMP"}`,
	`{"mode": "CUDA", "device_id": 0}`,
	`{"mode": "Serial"}`,
}

// NewGPUSolver builds the device resident step backend for mesh.
// Device initialization failures are reported as errors distinct from
// any numerical condition so the caller can fall back to the CPU path.
func NewGPUSolver(mesh *geometry2D.TriangularMesh, friction FrictionLaw,
	deviceConfigs ...string) (gs *GPUSolver, err error) {
	if len(deviceConfigs) == 0 {
		deviceConfigs = DefaultDeviceConfigs
	}
	var device *gocca.OCCADevice
	for _, props := range deviceConfigs {
		if device, err = gocca.NewDevice(props); err == nil {
			break
		}
	}
	if device == nil {
		return nil, fmt.Errorf("unable to initialize a compute device: %w", err)
	}
	gs = &GPUSolver{
		device: device,
		nTri:   len(mesh.Triangles),
	}
	if err = gs.buildKernel(friction); err != nil {
		device.Free()
		return nil, err
	}
	gs.allocateMemory(mesh)
	return
}

func (gs *GPUSolver) buildKernel(friction FrictionLaw) (err error) {
	source := gs.kernelPreamble(friction) + stepKernelSource
	if gs.stepKernel, err = gs.device.BuildKernelFromString(source, "sweStep", nil); err != nil {
		return fmt.Errorf("unable to build step kernel: %w", err)
	}
	outerDims := gocca.OCCADim{X: uint64((gs.nTri + gpuBlockSize - 1) / gpuBlockSize), Y: 1, Z: 1}
	innerDims := gocca.OCCADim{X: uint64(gpuBlockSize), Y: 1, Z: 1}
	gs.stepKernel.SetRunDims(outerDims, innerDims)
	return
}

// kernelPreamble compiles the mesh size, physics constants and the
// selected friction law into the kernel as static definitions.
func (gs *GPUSolver) kernelPreamble(friction FrictionLaw) string {
	var sb strings.Builder
	sb.WriteString("typedef float real_t;\n")
	sb.WriteString(fmt.Sprintf("#define NTRI %d\n", gs.nTri))
	sb.WriteString(fmt.Sprintf("#define NBLOCKS %d\n", (gs.nTri+gpuBlockSize-1)/gpuBlockSize))
	sb.WriteString(fmt.Sprintf("#define BLOCK %d\n", gpuBlockSize))
	sb.WriteString("#define GRAV 9.81f\n")
	sb.WriteString("#define DRY_TOL 1.0e-10f\n")
	sb.WriteString(fmt.Sprintf("#define FRICTION_TYPE %d\n", friction.Type))
	sb.WriteString(fmt.Sprintf("#define FRICTION_COEF %.9ef\n", friction.Coefficient))
	sb.WriteString("\n")
	return sb.String()
}

const stepKernelSource = `
@kernel void sweStep(const float dtFac,
                     const real_t *base,
                     const real_t *eval,
                     const real_t *areas,
                     const real_t *edgeNx,
                     const real_t *edgeNy,
                     const real_t *edgeLen,
                     const int *neighbors,
                     const real_t *dzdx,
                     const real_t *dzdy,
                     real_t *out) {
	for (int b = 0; b < NBLOCKS; ++b; @outer(0)) {
		for (int t = 0; t < BLOCK; ++t; @inner(0)) {
			const int k = b*BLOCK + t;
			if (k < NTRI) {
				const real_t hL  = eval[4*k];
				const real_t huL = eval[4*k+1];
				const real_t hvL = eval[4*k+2];
				const real_t uL = (hL > DRY_TOL) ? huL/hL : 0.0f;
				const real_t vL = (hL > DRY_TOL) ? hvL/hL : 0.0f;

				real_t resH = 0.0f, resHu = 0.0f, resHv = 0.0f;
				for (int i = 0; i < 3; ++i) {
					const real_t nx  = edgeNx[3*k+i];
					const real_t ny  = edgeNy[3*k+i];
					const real_t len = edgeLen[3*k+i];
					const int nbr = neighbors[3*k+i];

					real_t hR, huR, hvR, uR, vR;
					if (nbr >= 0) {
						hR  = eval[4*nbr];
						huR = eval[4*nbr+1];
						hvR = eval[4*nbr+2];
						uR = (hR > DRY_TOL) ? huR/hR : 0.0f;
						vR = (hR > DRY_TOL) ? hvR/hR : 0.0f;
					} else {
						const real_t un = uL*nx + vL*ny;
						uR = uL - 2.0f*un*nx;
						vR = vL - 2.0f*un*ny;
						hR = hL;
						huR = hR*uR;
						hvR = hR*vR;
					}

					const real_t pL = 0.5f*GRAV*hL*hL;
					const real_t pR = 0.5f*GRAV*hR*hR;
					const real_t fhL  = huL*nx + hvL*ny;
					const real_t fhuL = (huL*uL + pL)*nx + huL*vL*ny;
					const real_t fhvL = hvL*uL*nx + (hvL*vL + pL)*ny;
					const real_t fhR  = huR*nx + hvR*ny;
					const real_t fhuR = (huR*uR + pR)*nx + huR*vR*ny;
					const real_t fhvR = hvR*uR*nx + (hvR*vR + pR)*ny;

					const real_t sL = fabs(uL*nx + vL*ny) + sqrt(GRAV*hL);
					const real_t sR = fabs(uR*nx + vR*ny) + sqrt(GRAV*hR);
					const real_t sMax = (sL > sR) ? sL : sR;

					resH  += 0.5f*(fhL + fhR - sMax*(hR - hL))*len;
					resHu += 0.5f*(fhuL + fhuR - sMax*(huR - huL))*len;
					resHv += 0.5f*(fhvL + fhvR - sMax*(hvR - hvL))*len;
				}

				const real_t area = areas[k];
				if (hL >= DRY_TOL) {
					real_t sfx = 0.0f, sfy = 0.0f;
					const real_t velMag = sqrt(uL*uL + vL*vL);
					if (velMag > 1.0e-10f && hL > 1.0e-6f) {
						real_t sfMag = 0.0f;
#if FRICTION_TYPE == 1
						sfMag = FRICTION_COEF*FRICTION_COEF*velMag*velMag/pow(hL, 4.0f/3.0f);
#elif FRICTION_TYPE == 2
						sfMag = velMag*velMag/(FRICTION_COEF*FRICTION_COEF*hL);
#endif
						sfx = sfMag*uL/velMag;
						sfy = sfMag*vL/velMag;
					}
					resHu += GRAV*hL*(sfx + dzdx[k])*area;
					resHv += GRAV*hL*(sfy + dzdy[k])*area;
				}

				real_t h  = base[4*k]   - dtFac*resH/area;
				real_t hu = base[4*k+1] - dtFac*resHu/area;
				real_t hv = base[4*k+2] - dtFac*resHv/area;
				if (h < DRY_TOL) {
					h = (h > 0.0f) ? h : 0.0f;
					hu = 0.0f;
					hv = 0.0f;
				}
				out[4*k]   = h;
				out[4*k+1] = hu;
				out[4*k+2] = hv;
				out[4*k+3] = 0.0f;
			}
		}
	}
}
`

// allocateMemory uploads the static mesh geometry and reserves the
// three state buffers.
func (gs *GPUSolver) allocateMemory(mesh *geometry2D.TriangularMesh) {
	var (
		nTri      = gs.nTri
		areas     = make([]float32, nTri)
		edgeNx    = make([]float32, 3*nTri)
		edgeNy    = make([]float32, 3*nTri)
		edgeLen   = make([]float32, 3*nTri)
		neighbors = make([]int32, 3*nTri)
		dzdx      = make([]float32, nTri)
		dzdy      = make([]float32, nTri)
	)
	for k, tri := range mesh.Triangles {
		areas[k] = float32(tri.Area)
		gx, gy := BedGradient(mesh, k)
		dzdx[k], dzdy[k] = float32(gx), float32(gy)
		for i := 0; i < 3; i++ {
			var (
				n0   = mesh.Nodes[tri.Nodes[i]]
				n1   = mesh.Nodes[tri.Nodes[(i+1)%3]]
				dx   = n1.X - n0.X
				dy   = n1.Y - n0.Y
				eLen = float32(math.Hypot(dx, dy))
			)
			edgeNx[3*k+i] = float32(dy) / eLen
			edgeNy[3*k+i] = float32(-dx) / eLen
			edgeLen[3*k+i] = eLen
			neighbors[3*k+i] = int32(tri.Neighbors[i])
		}
	}
	stateBytes := int64(4 * nTri * 4)
	gs.memState = gs.device.Malloc(stateBytes, nil, nil)
	gs.memInter = gs.device.Malloc(stateBytes, nil, nil)
	gs.memOut = gs.device.Malloc(stateBytes, nil, nil)
	gs.memAreas = gs.device.Malloc(int64(nTri*4), unsafe.Pointer(&areas[0]), nil)
	gs.memEdgeNx = gs.device.Malloc(int64(3*nTri*4), unsafe.Pointer(&edgeNx[0]), nil)
	gs.memEdgeNy = gs.device.Malloc(int64(3*nTri*4), unsafe.Pointer(&edgeNy[0]), nil)
	gs.memEdgeLen = gs.device.Malloc(int64(3*nTri*4), unsafe.Pointer(&edgeLen[0]), nil)
	gs.memNeighbors = gs.device.Malloc(int64(3*nTri*4), unsafe.Pointer(&neighbors[0]), nil)
	gs.memDzdx = gs.device.Malloc(int64(nTri*4), unsafe.Pointer(&dzdx[0]), nil)
	gs.memDzdy = gs.device.Malloc(int64(nTri*4), unsafe.Pointer(&dzdy[0]), nil)
}

// UploadState pushes the host state to the device, converting to the
// padded single precision layout.
func (gs *GPUSolver) UploadState(h, hu, hv []float64) (err error) {
	if len(h) != gs.nTri || len(hu) != gs.nTri || len(hv) != gs.nTri {
		return fmt.Errorf("state length mismatch: mesh has %d triangles", gs.nTri)
	}
	packed := make([]float32, 4*gs.nTri)
	for k := 0; k < gs.nTri; k++ {
		packed[4*k] = float32(h[k])
		packed[4*k+1] = float32(hu[k])
		packed[4*k+2] = float32(hv[k])
	}
	gs.memState.CopyFrom(unsafe.Pointer(&packed[0]), int64(len(packed)*4))
	return
}

// ComputeStep advances the device state by one two stage update with
// the given dt and returns the updated per-triangle state.
func (gs *GPUSolver) ComputeStep(dt float64) (h, hu, hv []float64, err error) {
	// Stage one: intermediate state at the half step
	if err = gs.stepKernel.RunWithArgs(float32(0.5*dt),
		gs.memState, gs.memState, gs.memAreas,
		gs.memEdgeNx, gs.memEdgeNy, gs.memEdgeLen, gs.memNeighbors,
		gs.memDzdx, gs.memDzdy, gs.memInter); err != nil {
		return nil, nil, nil, fmt.Errorf("stage one kernel failed: %w", err)
	}
	// Stage two: full step from the original state, residual at the intermediate
	if err = gs.stepKernel.RunWithArgs(float32(dt),
		gs.memState, gs.memInter, gs.memAreas,
		gs.memEdgeNx, gs.memEdgeNy, gs.memEdgeLen, gs.memNeighbors,
		gs.memDzdx, gs.memDzdy, gs.memOut); err != nil {
		return nil, nil, nil, fmt.Errorf("stage two kernel failed: %w", err)
	}
	gs.memState, gs.memOut = gs.memOut, gs.memState

	packed := make([]float32, 4*gs.nTri)
	gs.memState.CopyTo(unsafe.Pointer(&packed[0]), int64(len(packed)*4))
	h = make([]float64, gs.nTri)
	hu = make([]float64, gs.nTri)
	hv = make([]float64, gs.nTri)
	for k := 0; k < gs.nTri; k++ {
		h[k] = float64(packed[4*k])
		hu[k] = float64(packed[4*k+1])
		hv[k] = float64(packed[4*k+2])
	}
	return
}

// StepGPU advances the solution one time step through the device
// backend. Step size selection and diagnostics stay on the host, so
// the returned state is copied back after every step.
func (s *SWE) StepGPU(gs *GPUSolver, maxDt ...float64) (err error) {
	s.computeTimestep()
	if len(maxDt) != 0 && s.Dt > maxDt[0] {
		s.Dt = maxDt[0]
	}
	h, hu, hv, err := gs.ComputeStep(s.Dt)
	if err != nil {
		return
	}
	copy(s.Q.H, h)
	copy(s.Q.Hu, hu)
	copy(s.Q.Hv, hv)
	s.Time += s.Dt
	return
}

// Free releases all device resources.
func (gs *GPUSolver) Free() {
	if gs.stepKernel != nil {
		gs.stepKernel.Free()
	}
	for _, mem := range []*gocca.OCCAMemory{
		gs.memState, gs.memInter, gs.memOut, gs.memAreas,
		gs.memEdgeNx, gs.memEdgeNy, gs.memEdgeLen, gs.memNeighbors,
		gs.memDzdx, gs.memDzdy,
	} {
		if mem != nil {
			mem.Free()
		}
	}
	if gs.device != nil {
		gs.device.Free()
	}
}
