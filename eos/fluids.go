package eos

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	RUniversal = 8.314462618 // J/(mol K)
	TRef       = 298.15      // ideal gas reference state for energy and entropy
	PRef       = 101325.
)

// Fluid holds the pure-fluid constants the cubic Helmholtz formulation is built on.
// Cp0 are ideal gas heat capacity coefficients in J/(mol K): a + b*T + c*T^2 + d*T^3
type Fluid struct {
	Name           string
	Aliases        []string
	MolarMass      float64 // kg/mol
	TCritical      float64 // K
	PCritical      float64 // Pa
	AcentricFactor float64
	TTriple        float64 // K
	TMax           float64 // K
	PMax           float64 // Pa
	Cp0            [4]float64
}

var Fluids = []*Fluid{
	{
		Name: "Nitrogen", Aliases: []string{"N2", "R728"},
		MolarMass: 0.0280134, TCritical: 126.192, PCritical: 3.3958e6, AcentricFactor: 0.0372,
		TTriple: 63.151, TMax: 2000, PMax: 2.2e9,
		Cp0: [4]float64{31.15, -1.357e-2, 2.680e-5, -1.168e-8},
	},
	{
		Name: "Oxygen", Aliases: []string{"O2", "R732"},
		MolarMass: 0.0319988, TCritical: 154.581, PCritical: 5.043e6, AcentricFactor: 0.0222,
		TTriple: 54.361, TMax: 2000, PMax: 8.2e7,
		Cp0: [4]float64{28.11, -3.680e-6, 1.746e-5, -1.065e-8},
	},
	{
		Name: "Air", Aliases: []string{"R729"},
		MolarMass: 0.02896546, TCritical: 132.5306, PCritical: 3.786e6, AcentricFactor: 0.0335,
		TTriple: 59.75, TMax: 2000, PMax: 2.0e9,
		Cp0: [4]float64{28.11, 1.967e-3, 4.802e-6, -1.966e-9},
	},
	{
		Name: "Argon", Aliases: []string{"Ar", "R740"},
		MolarMass: 0.039948, TCritical: 150.687, PCritical: 4.863e6, AcentricFactor: -0.00219,
		TTriple: 83.806, TMax: 2000, PMax: 1.0e9,
		Cp0: [4]float64{20.786, 0, 0, 0},
	},
	{
		Name: "Hydrogen", Aliases: []string{"H2", "R702"},
		MolarMass: 0.00201588, TCritical: 33.145, PCritical: 1.2964e6, AcentricFactor: -0.219,
		TTriple: 13.957, TMax: 1000, PMax: 2.0e9,
		Cp0: [4]float64{27.14, 9.274e-3, -1.381e-5, 7.645e-9},
	},
	{
		Name: "CarbonDioxide", Aliases: []string{"CO2", "R744"},
		MolarMass: 0.0440098, TCritical: 304.1282, PCritical: 7.3773e6, AcentricFactor: 0.22394,
		TTriple: 216.592, TMax: 2000, PMax: 8.0e8,
		Cp0: [4]float64{19.80, 7.344e-2, -5.602e-5, 1.715e-8},
	},
	{
		Name: "Water", Aliases: []string{"H2O", "R718"},
		MolarMass: 0.018015268, TCritical: 647.096, PCritical: 22.064e6, AcentricFactor: 0.3443,
		TTriple: 273.16, TMax: 2000, PMax: 1.0e9,
		Cp0: [4]float64{32.24, 1.924e-3, 1.055e-5, -3.596e-9},
	},
	{
		Name: "Methane", Aliases: []string{"CH4", "R50"},
		MolarMass: 0.01604246, TCritical: 190.564, PCritical: 4.5992e6, AcentricFactor: 0.01142,
		TTriple: 90.6941, TMax: 625, PMax: 1.0e9,
		Cp0: [4]float64{19.25, 5.213e-2, 1.197e-5, -1.132e-8},
	},
	{
		Name: "R134a", Aliases: []string{"R134A", "HFC134a"},
		MolarMass: 0.102032, TCritical: 374.21, PCritical: 4.05928e6, AcentricFactor: 0.32684,
		TTriple: 169.85, TMax: 455, PMax: 7.0e7,
		Cp0: [4]float64{15.58, 0.2866, -2.0e-4, 5.0e-8},
	},
	{
		Name: "Toluene", Aliases: []string{"C7H8", "methylbenzene"},
		MolarMass: 0.09213842, TCritical: 591.75, PCritical: 4.1263e6, AcentricFactor: 0.2657,
		TTriple: 178.0, TMax: 700, PMax: 5.0e8,
		Cp0: [4]float64{-24.35, 0.5125, -2.765e-4, 4.911e-8},
	},
	{
		Name: "MDM", Aliases: []string{"Octamethyltrisiloxane"},
		MolarMass: 0.23653, TCritical: 564.09, PCritical: 1.415e6, AcentricFactor: 0.529,
		TTriple: 187.2, TMax: 673, PMax: 3.0e7,
		Cp0: [4]float64{100., 0.95, -4.0e-4, 0},
	},
}

var fluidIndex = func() map[string]*Fluid {
	idx := make(map[string]*Fluid)
	for _, fl := range Fluids {
		idx[strings.ToLower(fl.Name)] = fl
		for _, alias := range fl.Aliases {
			idx[strings.ToLower(alias)] = fl
		}
	}
	return idx
}()

func LookupFluid(name string) (fl *Fluid, err error) {
	var ok bool
	if fl, ok = fluidIndex[strings.ToLower(strings.TrimSpace(name))]; !ok {
		err = fmt.Errorf("%w: %q", ErrUnknownFluid, name)
	}
	return
}

func FluidNames() (names []string) {
	for _, fl := range Fluids {
		names = append(names, fl.Name)
	}
	sort.Strings(names)
	return
}

// cp0 is the molar ideal gas heat capacity
func (fl *Fluid) cp0(T float64) float64 {
	c := fl.Cp0
	return c[0] + T*(c[1]+T*(c[2]+T*c[3]))
}

// h0 integrates cp0 from TRef
func (fl *Fluid) h0(T float64) float64 {
	c := fl.Cp0
	prim := func(t float64) float64 {
		return t * (c[0] + t*(c[1]/2+t*(c[2]/3+t*c[3]/4)))
	}
	return prim(T) - prim(TRef)
}

// s0T integrates cp0/T from TRef
func (fl *Fluid) s0T(T float64) float64 {
	c := fl.Cp0
	prim := func(t float64) float64 {
		return t * (c[1] + t*(c[2]/2+t*c[3]/3))
	}
	return c[0]*math.Log(T/TRef) + prim(T) - prim(TRef)
}
