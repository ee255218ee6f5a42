package geometry2D

import (
	"fmt"
	"math"
	"strings"
)

type TopographyType uint8

const (
	TOPO_FLAT TopographyType = iota
	TOPO_SLOPE
	TOPO_GAUSSIAN
	TOPO_CHANNEL
)

var TopographyNames = map[string]TopographyType{
	"flat":     TOPO_FLAT,
	"slope":    TOPO_SLOPE,
	"gaussian": TOPO_GAUSSIAN,
	"channel":  TOPO_CHANNEL,
}

func (tt TopographyType) Print() (txt string) {
	switch tt {
	case TOPO_FLAT:
		txt = "Flat"
	case TOPO_SLOPE:
		txt = "Linear Slope"
	case TOPO_GAUSSIAN:
		txt = "Gaussian Bump"
	case TOPO_CHANNEL:
		txt = "Parabolic Channel"
	}
	return
}

func NewTopographyType(label string) (tt TopographyType) {
	var (
		ok  bool
		err error
	)
	label = strings.ToLower(label)
	if tt, ok = TopographyNames[label]; !ok {
		err = fmt.Errorf("unable to use topography named %s", label)
		panic(err)
	}
	return
}

// ChannelCenterY is the fixed centerline of the parabolic channel
// profile. The channel is not derived from the domain height, matching
// the established fixture behavior.
const ChannelCenterY = 5.0

// Topography is a bed elevation profile, a pure function of position.
// Only the parameters of the selected Type are read.
type Topography struct {
	Type                 TopographyType
	GradientX, GradientY float64 // Slope
	CenterX, CenterY     float64 // Gaussian
	Amplitude, Width     float64 // Gaussian
	Depth, ChannelWidth  float64 // Channel
}

// Elevation evaluates the bed elevation at (x, y). Deterministic, no
// side effects, bit-identical on repeated calls with the same inputs.
func (topo Topography) Elevation(x, y float64) (z float64) {
	switch topo.Type {
	case TOPO_FLAT:
		z = 0
	case TOPO_SLOPE:
		z = topo.GradientX*x + topo.GradientY*y
	case TOPO_GAUSSIAN:
		var (
			dx = x - topo.CenterX
			dy = y - topo.CenterY
			r2 = dx*dx + dy*dy
		)
		z = topo.Amplitude * math.Exp(-r2/(topo.Width*topo.Width))
	case TOPO_CHANNEL:
		// Parabolic depression across a band around the channel centerline
		dy := math.Abs(y - ChannelCenterY)
		if dy < topo.ChannelWidth/2 {
			arg := 2 * dy / topo.ChannelWidth
			z = -topo.Depth * (1 - arg*arg)
		}
	}
	return
}
