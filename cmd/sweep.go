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
	"image/color"
	"io"
	"io/ioutil"
	"math"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	utils2 "github.com/notargets/avs/utils"

	"github.com/notargets/realgas/InputParameters"
	"github.com/notargets/realgas/eos"
	"github.com/notargets/realgas/fluid"
	"github.com/notargets/realgas/utils"
)

// Columns of the sweep table
const (
	COL_V1 = iota
	COL_V2
	COL_Density
	COL_StaticEnergy
	COL_Pressure
	COL_Temperature
	COL_Entropy
	COL_Cp
	COL_Cv
	COL_Gamma
	COL_SoundSpeed
	COL_Count
)

var SweepColumns = []string{"V1", "V2", "Density", "StaticEnergy", "Pressure",
	"Temperature", "Entropy", "Cp", "Cv", "Gamma", "SoundSpeed"}

type SweepResult struct {
	Table    *mat.Dense // One row per point, V1 varies slowest
	N1, N2   int
	Failures int // Rows that could not be evaluated hold NaN past the inputs
}

// SweepCmd represents the sweep command
var SweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Evaluate a grid of thermodynamic states read from a YAML run file",
	Long: `
Evaluates a tensor grid of states over one input pair in parallel, each worker
owning a private fluid model. The run file looks like:

Title: "CO2 near the critical point"
FluidModel: RealGas
FluidName: CarbonDioxide
Backend: HEOS
Sweep:
  InputPair: PT
  Value1: [5.e6, 1.e7]
  Value2: [280., 350.]
  N1: 6
  N2: 71
  PlotColumn: Density

realgas sweep -I run.yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			icFile                string
			doProfile, graph, prf bool
			ip                    *InputParameters.FluidParameters
			sr                    *SweepResult
		)
		if icFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		doProfile, _ = cmd.Flags().GetBool("profile")
		graph, _ = cmd.Flags().GetBool("graph")
		prf, _ = cmd.Flags().GetBool("perf")
		if ip, err = processInput(icFile); err != nil {
			return
		}
		ip.Print()
		if doProfile {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		start := time.Now()
		run := func() (err error) {
			sr, err = RunSweep(ip)
			return
		}
		if prf {
			var instructions uint64
			if instructions, err = countInstructions(run); err != nil {
				return
			}
			log.Info().Uint64("instructions", instructions).Msg("sweep cpu instructions")
		} else if err = run(); err != nil {
			return
		}
		log.Info().
			Dur("elapsed", time.Since(start)).
			Int("points", sr.N1*sr.N2).
			Int("failures", sr.Failures).
			Str("memory", utils.GetMemUsage()).
			Msg("sweep complete")
		PrintSweep(cmd.OutOrStdout(), sr)
		if graph {
			var col int
			if col, err = sweepColumn(ip.Sweep.PlotColumn); err != nil {
				return
			}
			PlotLines(SweepLines(sr, col))
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(SweepCmd)
	SweepCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- FluidModel\n\t- FluidName\n\t- Sweep")
	SweepCmd.Flags().Bool("profile", false, "write a CPU profile to the current directory")
	SweepCmd.Flags().BoolP("graph", "g", false, "plot the sweep column named by PlotColumn against V2")
	SweepCmd.Flags().Bool("perf", false, "count the CPU instructions spent in the sweep")
}

func processInput(icFile string) (ip *InputParameters.FluidParameters, err error) {
	if len(icFile) == 0 {
		exampleFile := `
########################################
Title: "CO2 near the critical point"
FluidModel: RealGas
FluidName: CarbonDioxide
Backend: HEOS
Sweep:
  InputPair: PT
  Value1: [5.e6, 1.e7]
  Value2: [280., 350.]
  N1: 6
  N2: 71
  PlotColumn: Density
########################################
`
		return nil, fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile), example:%s", exampleFile)
	}
	var data []byte
	if data, err = ioutil.ReadFile(icFile); err != nil {
		return
	}
	ip = &InputParameters.FluidParameters{}
	if err = ip.Parse(data); err != nil {
		return nil, err
	}
	return
}

func sweepSpan(limits [2]float64, n int) (values []float64) {
	values = make([]float64, n)
	if n == 1 {
		values[0] = limits[0]
		return
	}
	floats.Span(values, limits[0], limits[1])
	return
}

func sweepColumn(name string) (col int, err error) {
	if name == "" {
		return COL_Density, nil
	}
	for i, c := range SweepColumns {
		if strings.EqualFold(c, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown sweep column %s, have %v", name, SweepColumns)
}

// RunSweep evaluates the grid described by ip.Sweep. Points that fail are
// counted and stored as NaN, a failure to build a model aborts the sweep.
func RunSweep(ip *InputParameters.FluidParameters) (sr *SweepResult, err error) {
	var (
		sw      = ip.Sweep
		pair    eos.InputPair
		n1, n2  = max(sw.N1, 1), max(sw.N2, 1)
		nPoints = n1 * n2
		workers = sw.Workers
	)
	if pair, err = eos.ParseInputPair(sw.InputPair); err != nil {
		return
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, nPoints)
	var (
		v1       = sweepSpan(sw.Value1, n1)
		v2       = sweepSpan(sw.Value2, n2)
		pm       = utils.NewPartitionMap(workers, nPoints)
		models   = make([]fluid.Model, 0, workers)
		failures = make([]int, workers)
		wg       sync.WaitGroup
	)
	defer func() {
		for _, m := range models {
			m.Close()
		}
	}()
	for np := 0; np < workers; np++ {
		var m fluid.Model
		if m, err = fluid.NewModel(ip); err != nil {
			return
		}
		models = append(models, m)
	}
	sr = &SweepResult{
		Table: mat.NewDense(nPoints, COL_Count, nil),
		N1:    n1,
		N2:    n2,
	}
	log.Debug().Str("model", models[0].Name()).Stringer("pair", pair).
		Int("points", nPoints).Int("workers", workers).Msg("starting sweep")
	for np := 0; np < workers; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			var (
				m          = models[np]
				kMin, kMax = pm.GetBucketRange(np)
			)
			for k := kMin; k < kMax; k++ {
				var (
					i, j = k / n2, k % n2
					row  = sr.Table.RawRowView(k)
				)
				row[COL_V1], row[COL_V2] = v1[i], v2[j]
				if err := fluid.SetState(m, pair, v1[i], v2[j]); err != nil {
					log.Trace().Err(err).Float64("v1", v1[i]).Float64("v2", v2[j]).Msg("sweep point failed")
					for c := COL_Density; c < COL_Count; c++ {
						row[c] = math.NaN()
					}
					failures[np]++
					continue
				}
				st := m.Thermo()
				row[COL_Density] = st.Density
				row[COL_StaticEnergy] = st.StaticEnergy
				row[COL_Pressure] = st.Pressure
				row[COL_Temperature] = st.Temperature
				row[COL_Entropy] = st.Entropy
				row[COL_Cp] = st.Cp
				row[COL_Cv] = st.Cv
				row[COL_Gamma] = st.Gamma
				row[COL_SoundSpeed] = math.Sqrt(st.SoundSpeed2)
			}
		}(np)
	}
	wg.Wait()
	for _, nf := range failures {
		sr.Failures += nf
	}
	return
}

func PrintSweep(w io.Writer, sr *SweepResult) {
	fmt.Fprintf(w, "%s\n", strings.Join(SweepColumns, "\t"))
	fmt.Fprintf(w, "%.6g\n", mat.Formatted(sr.Table, mat.Squeeze()))
	if sr.Failures > 0 {
		fmt.Fprintf(w, "%d of %d points failed\n", sr.Failures, sr.N1*sr.N2)
	}
}

// SweepLines draws column col against V2, one line per value of V1. Failed
// points break the line.
func SweepLines(sr *SweepResult, col int) (lines map[color.RGBA][]float32) {
	var (
		palette = []color.RGBA{utils2.RED, utils2.GREEN, utils2.BLUE, utils2.WHITE}
	)
	lines = make(map[color.RGBA][]float32)
	for i := 0; i < sr.N1; i++ {
		c := palette[i%len(palette)]
		for j := 0; j < sr.N2-1; j++ {
			var (
				r1, r2 = i*sr.N2 + j, i*sr.N2 + j + 1
				y1, y2 = sr.Table.At(r1, col), sr.Table.At(r2, col)
			)
			if math.IsNaN(y1) || math.IsNaN(y2) {
				continue
			}
			AddLine(sr.Table.At(r1, COL_V2), y1, sr.Table.At(r2, COL_V2), y2, c, lines)
		}
	}
	return
}
