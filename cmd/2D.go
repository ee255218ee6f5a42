/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"time"

	"github.com/notargets/avs/chart2d"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/skycler/swe2d/InputParameters"
	"github.com/skycler/swe2d/geometry2D"
	"github.com/skycler/swe2d/model_problems/SWE2D"
	"github.com/skycler/swe2d/writefiles"
)

type Model2D struct {
	ICFile    string
	Graph     bool
	PlotSteps int
	Delay     time.Duration
	Profile   bool
}

// TwoDCmd represents the 2D command
var TwoDCmd = &cobra.Command{
	Use:   "2D",
	Short: "Two dimensional shallow water solver on a triangulated rectangular domain",
	Long:  `Two dimensional shallow water solver on a triangulated rectangular domain`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("2D called")
		m2d := &Model2D{}
		m2d.ICFile, _ = cmd.Flags().GetString("inputConditionsFile")
		m2d.Graph, _ = cmd.Flags().GetBool("graph")
		ps, _ := cmd.Flags().GetInt("plotSteps")
		m2d.PlotSteps = ps
		dr, _ := cmd.Flags().GetInt("delay")
		m2d.Delay = time.Duration(time.Duration(dr) * time.Millisecond)
		m2d.Profile, _ = cmd.Flags().GetBool("profile")
		ip := processInput(cmd, m2d)
		Run2D(m2d, ip)
	},
}

// processInput builds the run parameters from the command flags, then
// overlays the YAML input file if one was given.
func processInput(cmd *cobra.Command, m2d *Model2D) (ip *InputParameters.InputParameters2D) {
	var (
		err error
	)
	ip = &InputParameters.InputParameters2D{}
	ip.Title, _ = cmd.Flags().GetString("title")
	ip.CFL, _ = cmd.Flags().GetFloat64("CFL")
	ip.FinalTime, _ = cmd.Flags().GetFloat64("finalTime")
	ip.Nx, _ = cmd.Flags().GetInt("nx")
	ip.Ny, _ = cmd.Flags().GetInt("ny")
	ip.Width, _ = cmd.Flags().GetFloat64("width")
	ip.Height, _ = cmd.Flags().GetFloat64("height")
	ip.OutputInterval, _ = cmd.Flags().GetFloat64("outputInterval")
	ip.InitType, _ = cmd.Flags().GetString("initType")
	ip.DamPosition, _ = cmd.Flags().GetFloat64("damPosition")
	ip.WaveCenterX, _ = cmd.Flags().GetFloat64("waveCenterX")
	ip.WaveCenterY, _ = cmd.Flags().GetFloat64("waveCenterY")
	ip.WaveRadius, _ = cmd.Flags().GetFloat64("waveRadius")
	ip.WaveAmplitude, _ = cmd.Flags().GetFloat64("waveAmplitude")
	ip.WaveLength, _ = cmd.Flags().GetFloat64("waveLength")
	ip.TopographyType, _ = cmd.Flags().GetString("topography")
	ip.BedGradientX, _ = cmd.Flags().GetFloat64("bedGradientX")
	ip.BedGradientY, _ = cmd.Flags().GetFloat64("bedGradientY")
	ip.BedCenterX, _ = cmd.Flags().GetFloat64("bedCenterX")
	ip.BedCenterY, _ = cmd.Flags().GetFloat64("bedCenterY")
	ip.BedAmplitude, _ = cmd.Flags().GetFloat64("bedAmplitude")
	ip.BedWidth, _ = cmd.Flags().GetFloat64("bedWidth")
	ip.BedDepth, _ = cmd.Flags().GetFloat64("bedDepth")
	ip.ChannelWidth, _ = cmd.Flags().GetFloat64("channelWidth")
	ip.FrictionType, _ = cmd.Flags().GetString("friction")
	ip.ManningN, _ = cmd.Flags().GetFloat64("manningN")
	ip.ChezyC, _ = cmd.Flags().GetFloat64("chezyC")
	ip.OutputPrefix, _ = cmd.Flags().GetString("outputPrefix")
	ip.GPU, _ = cmd.Flags().GetBool("gpu")
	if len(m2d.ICFile) != 0 {
		var data []byte
		if data, err = ioutil.ReadFile(m2d.ICFile); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			exampleFile := `
########################################
Title: "Dam Break"
CFL: 0.45
FinalTime: 1.0
Nx: 50
Ny: 50
Width: 10
Height: 10
OutputInterval: 0.1
InitType: DamBreak # Can be "CircularWave" or "StandingWave"
TopographyType: Flat # Can be "Slope", "Gaussian" or "Channel"
FrictionType: None # Can be "Manning" or "Chezy"
########################################
`
			fmt.Printf("Example File:%s\n", exampleFile)
			os.Exit(1)
		}
		if err = ip.Parse(data); err != nil {
			panic(err)
		}
	}
	return
}

func init() {
	rootCmd.AddCommand(TwoDCmd)
	TwoDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- CFL\n\t- InitType\n\t- FrictionType")
	TwoDCmd.Flags().String("title", "Shallow Water 2D", "title printed in the run banner")
	TwoDCmd.Flags().Float64("CFL", 0.45, "CFL - increase for speedup, decrease for stability")
	TwoDCmd.Flags().Float64("finalTime", 1.0, "FinalTime - the target end time for the sim")
	TwoDCmd.Flags().IntP("nx", "x", 50, "number of mesh nodes in X")
	TwoDCmd.Flags().IntP("ny", "y", 50, "number of mesh nodes in Y")
	TwoDCmd.Flags().Float64("width", 10, "domain width")
	TwoDCmd.Flags().Float64("height", 10, "domain height")
	TwoDCmd.Flags().Float64("outputInterval", 0.1, "simulation time between progress reports and output frames")
	TwoDCmd.Flags().StringP("initType", "i", "DamBreak", "initial condition - DamBreak, CircularWave or StandingWave")
	TwoDCmd.Flags().Float64("damPosition", 5, "dam X location for the DamBreak initial condition")
	TwoDCmd.Flags().Float64("waveCenterX", 5, "wave center X for the CircularWave initial condition")
	TwoDCmd.Flags().Float64("waveCenterY", 5, "wave center Y for the CircularWave initial condition")
	TwoDCmd.Flags().Float64("waveRadius", 2, "wave radius for the CircularWave initial condition")
	TwoDCmd.Flags().Float64("waveAmplitude", 0.5, "wave amplitude for the CircularWave and StandingWave initial conditions")
	TwoDCmd.Flags().Float64("waveLength", 5, "wavelength for the StandingWave initial condition")
	TwoDCmd.Flags().StringP("topography", "t", "Flat", "bed topography - Flat, Slope, Gaussian or Channel")
	TwoDCmd.Flags().Float64("bedGradientX", 0.01, "bed gradient in X for the Slope topography")
	TwoDCmd.Flags().Float64("bedGradientY", 0, "bed gradient in Y for the Slope topography")
	TwoDCmd.Flags().Float64("bedCenterX", 5, "bump center X for the Gaussian topography")
	TwoDCmd.Flags().Float64("bedCenterY", 5, "bump center Y for the Gaussian topography")
	TwoDCmd.Flags().Float64("bedAmplitude", 0.2, "bump height for the Gaussian topography")
	TwoDCmd.Flags().Float64("bedWidth", 1, "bump width for the Gaussian topography")
	TwoDCmd.Flags().Float64("bedDepth", 0.5, "channel depth for the Channel topography")
	TwoDCmd.Flags().Float64("channelWidth", 2, "channel width for the Channel topography")
	TwoDCmd.Flags().StringP("friction", "f", "None", "bottom friction law - None, Manning or Chezy")
	TwoDCmd.Flags().Float64("manningN", 0.03, "Manning roughness coefficient n")
	TwoDCmd.Flags().Float64("chezyC", 50, "Chezy coefficient C")
	TwoDCmd.Flags().StringP("outputPrefix", "o", "", "write VTK output files named <prefix>_NNNN.vtk at each output interval")
	TwoDCmd.Flags().BoolP("graph", "g", false, "display a graph while computing solution")
	TwoDCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
	TwoDCmd.Flags().IntP("plotSteps", "s", 1, "number of steps before plotting each frame")
	TwoDCmd.Flags().Bool("gpu", false, "run the time stepping on an OCCA compute device")
	TwoDCmd.Flags().Bool("profile", false, "write a CPU profile of the run")
}

func Run2D(m2d *Model2D, ip *InputParameters.InputParameters2D) {
	if m2d.Profile {
		defer profile.Start().Stop()
	}
	var (
		topo = geometry2D.Topography{
			Type:         geometry2D.NewTopographyType(ip.TopographyType),
			GradientX:    ip.BedGradientX,
			GradientY:    ip.BedGradientY,
			CenterX:      ip.BedCenterX,
			CenterY:      ip.BedCenterY,
			Amplitude:    ip.BedAmplitude,
			Width:        ip.BedWidth,
			Depth:        ip.BedDepth,
			ChannelWidth: ip.ChannelWidth,
		}
		friction = SWE2D.FrictionLaw{Type: SWE2D.NewFrictionType(ip.FrictionType)}
	)
	switch friction.Type {
	case SWE2D.FRICTION_MANNING:
		friction.Coefficient = ip.ManningN
	case SWE2D.FRICTION_CHEZY:
		friction.Coefficient = ip.ChezyC
	}
	if ip.OutputInterval <= 0 {
		// A report and output frame at the final time only
		ip.OutputInterval = ip.FinalTime
	}
	mesh, err := geometry2D.NewRectangularMesh(ip.Nx, ip.Ny, ip.Width, ip.Height, topo)
	if err != nil {
		panic(err)
	}
	s, err := SWE2D.NewSWE(mesh, ip.CFL, friction)
	if err != nil {
		panic(err)
	}
	switch SWE2D.NewInitType(ip.InitType) {
	case SWE2D.CIRCULAR_WAVE:
		s.SetCircularWave(ip.WaveCenterX, ip.WaveCenterY, ip.WaveRadius, ip.WaveAmplitude)
	case SWE2D.STANDING_WAVE:
		s.SetStandingWave(ip.WaveAmplitude, ip.WaveLength)
	case SWE2D.DAM_BREAK:
		fallthrough
	default:
		s.SetDamBreak(ip.DamPosition)
	}

	ip.Print()
	zMin, zMax := mesh.BedElevationRange()
	fmt.Printf("Mesh: %d nodes, %d triangles, %d edges\n",
		len(mesh.Nodes), len(mesh.Triangles), len(mesh.Edges))
	fmt.Printf("Bed elevation range: [%g, %g]\n", zMin, zMax)
	var (
		mass0   = s.TotalMass()
		energy0 = s.TotalEnergy()
	)
	fmt.Printf("Initial mass: %g, initial energy: %g\n", mass0, energy0)

	var gs *SWE2D.GPUSolver
	if ip.GPU {
		if gs, err = SWE2D.NewGPUSolver(mesh, friction); err != nil {
			panic(err)
		}
		defer gs.Free()
		if err = gs.UploadState(s.Q.H, s.Q.Hu, s.Q.Hv); err != nil {
			panic(err)
		}
	}
	pm := &SWE2D.PlotMeta{
		Plot:            m2d.Graph,
		Scale:           1.1,
		FieldMinP:       nil,
		FieldMaxP:       nil,
		FrameTime:       m2d.Delay,
		StepsBeforePlot: m2d.PlotSteps,
		LineType:        chart2d.NoLine,
	}

	var (
		steps      int
		nextOutput = ip.OutputInterval
	)
	start := time.Now()
	for s.Time < ip.FinalTime {
		if ip.GPU {
			if err = s.StepGPU(gs, ip.FinalTime-s.Time); err != nil {
				panic(err)
			}
		} else {
			s.Step(ip.FinalTime - s.Time)
		}
		steps++
		if m2d.Graph && steps%pm.StepsBeforePlot == 0 {
			s.PlotQ(pm, 1920, 1280)
		}
		if s.Time >= nextOutput || s.Time >= ip.FinalTime {
			var (
				mass    = s.TotalMass()
				massErr = 100 * math.Abs(mass-mass0) / mass0
			)
			fmt.Printf("t = %8.4f, dt = %10.3e, steps = %6d, mass = %12.8f, mass error = %8.2e%%\n",
				s.Time, s.Dt, steps, mass, massErr)
			if len(ip.OutputPrefix) != 0 {
				frame := int(math.Round(nextOutput / ip.OutputInterval))
				if _, err = writefiles.WriteVTK(s, ip.OutputPrefix, frame); err != nil {
					panic(err)
				}
			}
			for nextOutput <= s.Time {
				nextOutput += ip.OutputInterval
			}
		}
	}
	elapsed := time.Since(start)
	fmt.Printf("Simulation complete: %d steps in %v, %.2f steps/sec\n",
		steps, elapsed, float64(steps)/elapsed.Seconds())
	fmt.Printf("Final mass: %g, relative error: %8.2e\n",
		s.TotalMass(), math.Abs(s.TotalMass()-mass0)/mass0)
	fmt.Printf("Final energy: %g (initial %g)\n", s.TotalEnergy(), energy0)
}
