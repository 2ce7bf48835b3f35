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

	"github.com/notargets/realgas/eos"
	"github.com/notargets/realgas/fluid"
)

// DomeCmd represents the dome command
var DomeCmd = &cobra.Command{
	Use:   "dome",
	Short: "Trace the saturation dome of a fluid",
	Long: `
Prints the saturated liquid and vapor densities between the triple point and
the critical point, optionally plotting the dome in the T-rho plane.

realgas dome --fluid CO2 --points 40 --graph`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		v, err := bindFlags(cmd)
		if err != nil {
			return
		}
		curve, err := RunDome(v.GetString("backend"), v.GetString("fluid"), v.GetInt("points"), cmd.OutOrStdout())
		if err != nil {
			return
		}
		if v.GetBool("graph") {
			PlotLines(DomeLines(curve))
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(DomeCmd)
	DomeCmd.Flags().StringP("fluid", "f", "CarbonDioxide", "fluid name, one of: "+fmt.Sprint(eos.FluidNames()))
	DomeCmd.Flags().StringP("backend", "b", fluid.DefaultBackend, "equation of state backend: HEOS or PR")
	DomeCmd.Flags().IntP("points", "n", 30, "number of saturation temperatures")
	DomeCmd.Flags().BoolP("graph", "g", false, "plot the dome")
}

func RunDome(backend, fluidName string, N int, w io.Writer) (curve []eos.SatPoint, err error) {
	as, err := eos.Factory(backend, fluidName)
	if err != nil {
		return
	}
	defer as.Close()
	if curve, err = eos.SaturationCurve(as, N); err != nil {
		return
	}
	fmt.Fprintf(w, "Saturation dome of %s (%s)\n", as.FluidName(), as.BackendName())
	fmt.Fprintf(w, "%12s %14s %14s %14s\n", "T [K]", "P [Pa]", "RhoL [kg/m3]", "RhoV [kg/m3]")
	for _, sp := range curve {
		fmt.Fprintf(w, "%12.4f %14.6e %14.6e %14.6e\n", sp.T, sp.P, sp.RhoL, sp.RhoV)
	}
	return
}

// DomeLines draws the liquid and vapor branches with temperature against density
func DomeLines(curve []eos.SatPoint) (lines map[color.RGBA][]float32) {
	lines = make(map[color.RGBA][]float32)
	for i := 0; i+1 < len(curve); i++ {
		a, b := curve[i], curve[i+1]
		AddLine(a.RhoL, a.T, b.RhoL, b.T, utils2.BLUE, lines)
		AddLine(a.RhoV, a.T, b.RhoV, b.T, utils2.RED, lines)
	}
	if n := len(curve); n > 0 {
		top := curve[n-1]
		AddLine(top.RhoL, top.T, top.RhoV, top.T, utils2.WHITE, lines)
	}
	return
}
