package writefiles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skycler/swe2d/geometry2D"
	"github.com/skycler/swe2d/model_problems/SWE2D"
)

func TestWriteVTK(t *testing.T) {
	var (
		mesh, _ = geometry2D.NewRectangularMesh(4, 4, 6, 6,
			geometry2D.Topography{Type: geometry2D.TOPO_FLAT})
		s, _   = SWE2D.NewSWE(mesh, 0.45, SWE2D.FrictionLaw{Type: SWE2D.FRICTION_NONE})
		prefix = filepath.Join(t.TempDir(), "swe")
	)
	s.SetDamBreak(3.0)
	filename, err := WriteVTK(s, prefix, 7)
	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, "swe_0007.vtk"))

	data, err := os.ReadFile(filename)
	assert.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "# vtk DataFile Version 3.0\n"))
	for _, section := range []string{
		"DATASET UNSTRUCTURED_GRID",
		"POINTS 16 float",
		"CELLS 18 72",
		"CELL_TYPES 18",
		"CELL_DATA 18",
		"SCALARS height float 1",
		"VECTORS velocity float",
		"SCALARS momentum_x float 1",
		"SCALARS momentum_y float 1",
		"SCALARS bed_elevation float 1",
		"SCALARS water_surface float 1",
	} {
		assert.True(t, strings.Contains(text, section), section)
	}

	_, err = WriteVTK(s, filepath.Join(t.TempDir(), "missing", "dir", "swe"), 0)
	assert.Error(t, err)
}
