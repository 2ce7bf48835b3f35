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

	"github.com/spf13/cobra"

	utils2 "github.com/notargets/avs/utils"

	"github.com/notargets/realgas/fluid"
	"github.com/notargets/realgas/sod_shock_tube"
)

// SodCmd represents the sod command
var SodCmd = &cobra.Command{
	Use:   "sod",
	Short: "Exact solution of Sod's shock tube for a calorically perfect gas",
	Long: `
Samples the exact Riemann solution of Sod's shock tube on [0, 1], with the
sound speeds and static energies evaluated by the ideal gas model.

realgas sod --time 0.2 --points 101`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		v, err := bindFlags(cmd)
		if err != nil {
			return
		}
		gas, err := fluid.NewIdealGas(v.GetFloat64("gamma"), fluid.AirGasConstant)
		if err != nil {
			return
		}
		lines, err := RunSod(gas, v.GetFloat64("time"), v.GetInt("points"), cmd.OutOrStdout())
		if err != nil {
			return
		}
		if v.GetBool("graph") {
			PlotLines(lines)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(SodCmd)
	SodCmd.Flags().Float64P("time", "t", 0.2, "solution time")
	SodCmd.Flags().IntP("points", "n", 101, "number of sample points")
	SodCmd.Flags().Float64("gamma", 1.4, "ratio of specific heats")
	SodCmd.Flags().BoolP("graph", "g", false, "plot density, pressure and velocity")
}

// RunSod prints the sampled solution and returns density, pressure and
// velocity as plot lines
func RunSod(gas *fluid.IdealGas, t float64, N int, w io.Writer) (lines map[color.RGBA][]float32, err error) {
	X, Rho, P, U, E, err := sod_shock_tube.SOD_calc(gas, t, N)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "%10s %14s %14s %14s %14s\n", "X", "Rho", "P", "U", "E")
	for i := range X {
		fmt.Fprintf(w, "%10.5f %14.6e %14.6e %14.6e %14.6e\n", X[i], Rho[i], P[i], U[i], E[i])
	}
	lines = make(map[color.RGBA][]float32)
	for i := 0; i+1 < len(X); i++ {
		AddLine(X[i], Rho[i], X[i+1], Rho[i+1], utils2.RED, lines)
		AddLine(X[i], P[i], X[i+1], P[i+1], utils2.GREEN, lines)
		AddLine(X[i], U[i], X[i+1], U[i+1], utils2.BLUE, lines)
	}
	return
}
