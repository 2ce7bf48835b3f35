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
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/notargets/realgas/InputParameters"
	"github.com/notargets/realgas/eos"
	"github.com/notargets/realgas/fluid"
)

type StateRequest struct {
	Fluid  InputParameters.FluidParameters
	Pair   eos.InputPair
	V1, V2 float64
	NRBC   bool
}

// StateCmd represents the state command
var StateCmd = &cobra.Command{
	Use:   "state",
	Short: "Evaluate a single thermodynamic state",
	Long: `
Evaluates one thermodynamic state from an input pair and prints every stored
property. Values follow the order of the pair name, for example:

realgas state --model realgas --fluid Nitrogen --pair rhoT --v1 100 --v2 300`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			sr   = &StateRequest{}
			pair string
		)
		v, err := bindFlags(cmd)
		if err != nil {
			return
		}
		sr.Fluid.FluidModel = v.GetString("model")
		sr.Fluid.FluidName = v.GetString("fluid")
		sr.Fluid.Backend = v.GetString("backend")
		sr.Fluid.Gamma = v.GetFloat64("gamma")
		sr.Fluid.GasConstant = v.GetFloat64("R")
		pair = v.GetString("pair")
		if sr.Pair, err = eos.ParseInputPair(pair); err != nil {
			return
		}
		sr.V1 = v.GetFloat64("v1")
		sr.V2 = v.GetFloat64("v2")
		sr.NRBC = v.GetBool("nrbc")
		return RunState(sr, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(StateCmd)
	StateCmd.Flags().StringP("model", "m", "realgas", "fluid model: idealgas or realgas")
	StateCmd.Flags().StringP("fluid", "f", "Nitrogen", "fluid name for the real gas model")
	StateCmd.Flags().StringP("backend", "b", fluid.DefaultBackend, "equation of state backend: HEOS or PR")
	StateCmd.Flags().StringP("pair", "p", "PT", "input pair: rhoE, PT, rhoP, HS, PS, rhoT")
	StateCmd.Flags().Float64("v1", 101325., "first input value")
	StateCmd.Flags().Float64("v2", 288.15, "second input value")
	StateCmd.Flags().Float64("gamma", 1.4, "ratio of specific heats for the ideal gas model")
	StateCmd.Flags().Float64("R", fluid.AirGasConstant, "gas constant for the ideal gas model, J/(kg K)")
	StateCmd.Flags().Bool("nrbc", false, "also compute the derivatives used by characteristic boundary conditions")
}

func RunState(sr *StateRequest, w io.Writer) (err error) {
	m, err := fluid.NewModel(&sr.Fluid)
	if err != nil {
		return
	}
	defer m.Close()
	if err = fluid.SetState(m, sr.Pair, sr.V1, sr.V2); err != nil {
		return
	}
	PrintState(w, m)
	if sr.NRBC {
		st := m.Thermo()
		if err = m.ComputeDerivativeNRBCPRho(st.Pressure, st.Density); err != nil {
			return
		}
		PrintNRBC(w, m.NRBC())
	}
	return
}

func PrintState(w io.Writer, m fluid.Model) {
	st := m.Thermo()
	fmt.Fprintf(w, "%s\n", m.Name())
	fmt.Fprintf(w, "%14.6e\t= Density [kg/m3]\n", st.Density)
	fmt.Fprintf(w, "%14.6e\t= Static Energy [J/kg]\n", st.StaticEnergy)
	fmt.Fprintf(w, "%14.6e\t= Pressure [Pa]\n", st.Pressure)
	fmt.Fprintf(w, "%14.6e\t= Temperature [K]\n", st.Temperature)
	fmt.Fprintf(w, "%14.6e\t= Entropy [J/(kg K)]\n", st.Entropy)
	fmt.Fprintf(w, "%14.6e\t= Cp [J/(kg K)]\n", st.Cp)
	fmt.Fprintf(w, "%14.6e\t= Cv [J/(kg K)]\n", st.Cv)
	fmt.Fprintf(w, "%14.6e\t= Gamma\n", st.Gamma)
	fmt.Fprintf(w, "%14.6e\t= Sound Speed [m/s]\n", math.Sqrt(st.SoundSpeed2))
	fmt.Fprintf(w, "%14.6e\t= dP/drho|e\n", st.DPDRhoE)
	fmt.Fprintf(w, "%14.6e\t= dP/de|rho\n", st.DPDERho)
	fmt.Fprintf(w, "%14.6e\t= dT/drho|e\n", st.DTDRhoE)
	fmt.Fprintf(w, "%14.6e\t= dT/de|rho\n", st.DTDERho)
}

func PrintNRBC(w io.Writer, nd fluid.NRBCDerivatives) {
	fmt.Fprintf(w, "%14.6e\t= dh/drho|P\n", nd.DHDRhoP)
	fmt.Fprintf(w, "%14.6e\t= dh/dP|rho\n", nd.DHDPRho)
	fmt.Fprintf(w, "%14.6e\t= ds/dP|rho\n", nd.DSDPRho)
	fmt.Fprintf(w, "%14.6e\t= ds/drho|P\n", nd.DSDRhoP)
}
