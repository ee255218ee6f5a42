package SWE2D

import (
	"fmt"
	"image/color"
	"time"

	"github.com/notargets/avs/chart2d"
	"github.com/notargets/avs/functions"
	graphics2D "github.com/notargets/avs/geometry"
	utils2 "github.com/notargets/avs/utils"
)

// PlotMeta carries the interactive graphics options for a run.
type PlotMeta struct {
	Plot                 bool
	Scale                float64
	FieldMinP, FieldMaxP *float64
	FrameTime            time.Duration
	StepsBeforePlot      int
	LineType             chart2d.LineType
}

type ChartState struct {
	chart *chart2d.Chart2D
	fs    *functions.FSurface
	gm    *graphics2D.TriMesh
}

// outputMesh converts the solver mesh into the graphics trimesh, built
// once and cached on the chart state.
func (s *SWE) outputMesh() (gm *graphics2D.TriMesh) {
	gm = &graphics2D.TriMesh{}
	gm.Geometry = make([]graphics2D.Point, len(s.Mesh.Nodes))
	for i, n := range s.Mesh.Nodes {
		gm.Geometry[i].X[0] = float32(n.X)
		gm.Geometry[i].X[1] = float32(n.Y)
	}
	gm.Triangles = make([]graphics2D.Triangle, len(s.Mesh.Triangles))
	gm.Attributes = make([][]float32, len(s.Mesh.Triangles))
	for k, tri := range s.Mesh.Triangles {
		gm.Attributes[k] = make([]float32, 3)
		for i := 0; i < 3; i++ {
			gm.Triangles[k].Nodes[i] = int32(tri.Nodes[i])
		}
	}
	return
}

// nodalWaterSurface interpolates the cell centered water surface to the
// mesh nodes by averaging over each node's incident triangles.
func (s *SWE) nodalWaterSurface() (field []float32) {
	var (
		sums   = make([]float64, len(s.Mesh.Nodes))
		counts = make([]int, len(s.Mesh.Nodes))
	)
	for k, tri := range s.Mesh.Triangles {
		ws := s.WaterSurface(k)
		for _, n := range tri.Nodes {
			sums[n] += ws
			counts[n]++
		}
	}
	field = make([]float32, len(s.Mesh.Nodes))
	for i := range field {
		field[i] = float32(sums[i] / float64(counts[i]))
	}
	return
}

// PlotQ renders the current water surface on the mesh.
func (s *SWE) PlotQ(pm *PlotMeta, width, height int) {
	var (
		fI         = s.nodalWaterSurface()
		fMin, fMax = fI[0], fI[0]
	)
	for _, f := range fI {
		if f < fMin {
			fMin = f
		}
		if f > fMax {
			fMax = f
		}
	}
	if s.chart.gm == nil {
		s.chart.gm = s.outputMesh()
	}
	s.chart.fs = functions.NewFSurface(s.chart.gm, [][]float32{fI}, 0)
	fmt.Printf(" Plot>water surface min,max = %8.5f,%8.5f\n", fMin, fMax)
	s.PlotFS(width, height, pm.FieldMinP, pm.FieldMaxP,
		0.99*float64(fMin), 1.01*float64(fMax), pm.Scale, pm.LineType)
	time.Sleep(pm.FrameTime)
}

func (s *SWE) PlotFS(width, height int, fminP, fmaxP *float64,
	fmin, fmax float64, scale float64, ltO ...chart2d.LineType) {
	var (
		fs             = s.chart.fs
		trimesh        = fs.Tris
		lt             = chart2d.NoLine
		specifiedScale = fminP != nil || fmaxP != nil
		autoScale      = !specifiedScale
	)
	if s.chart.chart == nil {
		box := graphics2D.NewBoundingBox(trimesh.GetGeometry())
		box = box.Scale(float32(scale))
		s.chart.chart = chart2d.NewChart2D(width, height,
			box.XMin[0], box.XMax[0], box.XMin[1], box.XMax[1])
		go s.chart.chart.Plot()
		if specifiedScale {
			// Scale field min/max to preset values
			switch {
			case fminP != nil && fmaxP != nil:
				fmin, fmax = *fminP, *fmaxP
			case fminP != nil:
				fmin = *fminP
			case fmaxP != nil:
				fmax = *fmaxP
			}
			colorMap := utils2.NewColorMap(float32(fmin), float32(fmax), 1.)
			s.chart.chart.AddColorMap(colorMap)
		}
	}
	if autoScale {
		// Autoscale field min/max every time
		colorMap := utils2.NewColorMap(float32(fmin), float32(fmax), 1.)
		s.chart.chart.AddColorMap(colorMap)
	}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 1}
	if len(ltO) != 0 {
		lt = ltO[0]
	}
	if err := s.chart.chart.AddFunctionSurface("FSurface", *fs, lt, white); err != nil {
		panic("unable to add function surface series")
	}
}
