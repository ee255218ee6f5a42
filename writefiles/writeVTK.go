package writefiles

import (
	"bufio"
	"fmt"
	"os"

	"github.com/skycler/swe2d/model_problems/SWE2D"
)

// WriteVTK saves the current solution as a legacy ASCII VTK file named
// prefix_NNNN.vtk, suitable for ParaView or VisIt. Cell data carries
// the water height, velocity, momentum components, bed elevation and
// water surface elevation per triangle.
func WriteVTK(s *SWE2D.SWE, prefix string, frame int) (filename string, err error) {
	filename = fmt.Sprintf("%s_%04d.vtk", prefix, frame)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("unable to create output file %s: %w", filename, err)
	}
	defer file.Close()
	var (
		w    = bufio.NewWriter(file)
		mesh = s.Mesh
	)
	defer w.Flush()

	fmt.Fprintf(w, "# vtk DataFile Version 3.0\n")
	fmt.Fprintf(w, "Shallow water solution, t = %g\n", s.Time)
	fmt.Fprintf(w, "ASCII\n")
	fmt.Fprintf(w, "DATASET UNSTRUCTURED_GRID\n")

	fmt.Fprintf(w, "POINTS %d float\n", len(mesh.Nodes))
	for _, n := range mesh.Nodes {
		fmt.Fprintf(w, "%g %g %g\n", n.X, n.Y, n.Z)
	}

	fmt.Fprintf(w, "CELLS %d %d\n", len(mesh.Triangles), 4*len(mesh.Triangles))
	for _, tri := range mesh.Triangles {
		fmt.Fprintf(w, "3 %d %d %d\n", tri.Nodes[0], tri.Nodes[1], tri.Nodes[2])
	}
	fmt.Fprintf(w, "CELL_TYPES %d\n", len(mesh.Triangles))
	for range mesh.Triangles {
		fmt.Fprintf(w, "5\n") // VTK_TRIANGLE
	}

	fmt.Fprintf(w, "CELL_DATA %d\n", len(mesh.Triangles))
	fmt.Fprintf(w, "SCALARS height float 1\n")
	fmt.Fprintf(w, "LOOKUP_TABLE default\n")
	for k := range mesh.Triangles {
		fmt.Fprintf(w, "%g\n", s.Q.H[k])
	}
	fmt.Fprintf(w, "VECTORS velocity float\n")
	for k := range mesh.Triangles {
		u, v := s.Q.Velocity(k)
		fmt.Fprintf(w, "%g %g 0\n", u, v)
	}
	fmt.Fprintf(w, "SCALARS momentum_x float 1\n")
	fmt.Fprintf(w, "LOOKUP_TABLE default\n")
	for k := range mesh.Triangles {
		fmt.Fprintf(w, "%g\n", s.Q.Hu[k])
	}
	fmt.Fprintf(w, "SCALARS momentum_y float 1\n")
	fmt.Fprintf(w, "LOOKUP_TABLE default\n")
	for k := range mesh.Triangles {
		fmt.Fprintf(w, "%g\n", s.Q.Hv[k])
	}
	fmt.Fprintf(w, "SCALARS bed_elevation float 1\n")
	fmt.Fprintf(w, "LOOKUP_TABLE default\n")
	for k := range mesh.Triangles {
		fmt.Fprintf(w, "%g\n", mesh.Triangles[k].ZBed)
	}
	fmt.Fprintf(w, "SCALARS water_surface float 1\n")
	fmt.Fprintf(w, "LOOKUP_TABLE default\n")
	for k := range mesh.Triangles {
		fmt.Fprintf(w, "%g\n", s.WaterSurface(k))
	}
	return
}
