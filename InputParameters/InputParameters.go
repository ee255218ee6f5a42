package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InputParameters2D struct {
	Title          string  `yaml:"Title"`
	CFL            float64 `yaml:"CFL"`
	FinalTime      float64 `yaml:"FinalTime"`
	Nx             int     `yaml:"Nx"`
	Ny             int     `yaml:"Ny"`
	Width          float64 `yaml:"Width"`
	Height         float64 `yaml:"Height"`
	OutputInterval float64 `yaml:"OutputInterval"`
	InitType       string  `yaml:"InitType"`
	DamPosition    float64 `yaml:"DamPosition"`
	WaveCenterX    float64 `yaml:"WaveCenterX"`
	WaveCenterY    float64 `yaml:"WaveCenterY"`
	WaveRadius     float64 `yaml:"WaveRadius"`
	WaveAmplitude  float64 `yaml:"WaveAmplitude"`
	WaveLength     float64 `yaml:"WaveLength"`
	TopographyType string  `yaml:"TopographyType"`
	BedGradientX   float64 `yaml:"BedGradientX"`
	BedGradientY   float64 `yaml:"BedGradientY"`
	BedCenterX     float64 `yaml:"BedCenterX"`
	BedCenterY     float64 `yaml:"BedCenterY"`
	BedAmplitude   float64 `yaml:"BedAmplitude"`
	BedWidth       float64 `yaml:"BedWidth"`
	BedDepth       float64 `yaml:"BedDepth"`
	ChannelWidth   float64 `yaml:"ChannelWidth"`
	FrictionType   string  `yaml:"FrictionType"`
	ManningN       float64 `yaml:"ManningN"`
	ChezyC         float64 `yaml:"ChezyC"`
	OutputPrefix   string  `yaml:"OutputPrefix"`
	GPU            bool    `yaml:"GPU"`
}

func (ip *InputParameters2D) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters2D) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("[%dx%d]\t\t\t= Mesh Resolution\n", ip.Nx, ip.Ny)
	fmt.Printf("[%gx%g]\t\t= Domain Size\n", ip.Width, ip.Height)
	fmt.Printf("[%s]\t\t= InitType\n", ip.InitType)
	fmt.Printf("[%s]\t\t\t= Topography\n", ip.TopographyType)
	fmt.Printf("[%s]\t\t\t= Friction\n", ip.FrictionType)
}
