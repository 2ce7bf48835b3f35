package fluid

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/realgas/InputParameters"
	"github.com/notargets/realgas/eos"
)

// Model is the capability set shared by every fluid model. Each SetState
// variant overwrites the thermodynamic state in place. A model is owned by a
// single goroutine.
type Model interface {
	SetStateRhoE(rho, e float64) error
	SetStatePT(P, T float64) error
	SetStatePRho(P, rho float64) error
	// SetEnergyPRho refreshes StaticEnergy only, the other fields keep their previous values
	SetEnergyPRho(P, rho float64) error
	SetStateHS(h, s float64) error
	SetStatePS(P, s float64) error
	SetStateRhoT(rho, T float64) error
	ComputeDerivativeNRBCPRho(P, rho float64) error

	Thermo() State
	NRBC() NRBCDerivatives
	Identity() Identity

	CheckPressure(P float64) error
	CheckTemperature(T float64) error

	Name() string
	Close() error
}

// Identity holds the constants of a fluid, fixed at construction
type Identity struct {
	GasConstant    float64 // J/(kg K)
	PCritical      float64
	TCritical      float64
	AcentricFactor float64
}

type State struct {
	Density      float64
	StaticEnergy float64
	Pressure     float64
	Temperature  float64
	Entropy      float64
	Cp, Cv       float64
	Gamma        float64
	SoundSpeed2  float64
	DPDRhoE      float64 // dP/drho at constant e
	DPDERho      float64 // dP/de at constant rho
	DTDRhoE      float64 // dT/drho at constant e
	DTDERho      float64 // dT/de at constant rho
}

// NRBCDerivatives are the mixed partials used by characteristic boundary conditions
type NRBCDerivatives struct {
	DHDRhoP float64 // dh/drho at constant P
	DHDPRho float64 // dh/dP at constant rho
	DSDPRho float64 // ds/dP at constant rho
	DSDRhoP float64 // ds/drho at constant P
}

// RangeGuard implements the pressure and temperature checks. Zero limits are
// treated as unknown.
type RangeGuard struct {
	PMax, TMin, TMax float64
}

func (rg RangeGuard) CheckPressure(P float64) error {
	return checkRange("pressure", P, 0, rg.PMax)
}

func (rg RangeGuard) CheckTemperature(T float64) error {
	return checkRange("temperature", T, rg.TMin, rg.TMax)
}

func checkRange(quantity string, value, min, max float64) error {
	switch {
	case math.IsNaN(value) || math.IsInf(value, 0) || value <= 0,
		min > 0 && value < min,
		max > 0 && value > max:
		return &PhysicalRangeError{Quantity: quantity, Value: value, Min: min, Max: max}
	}
	return nil
}

type ModelType uint8

const (
	MODEL_IdealGas ModelType = iota
	MODEL_RealGas
)

var (
	ModelNames = map[string]ModelType{
		"idealgas":   MODEL_IdealGas,
		"ideal":      MODEL_IdealGas,
		"perfectgas": MODEL_IdealGas,
		"realgas":    MODEL_RealGas,
		"real":       MODEL_RealGas,
	}
	ModelPrintNames = []string{"Ideal Gas", "Real Gas"}
)

func (mt ModelType) Print() (txt string) {
	txt = ModelPrintNames[mt]
	return
}

func NewModelType(label string) (mt ModelType, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(label)
	if mt, ok = ModelNames[label]; !ok {
		err = fmt.Errorf("unable to use fluid model named %s", label)
	}
	return
}

// NewModel builds the fluid model named in the input parameters. An empty
// model name selects the ideal gas.
func NewModel(ip *InputParameters.FluidParameters) (m Model, err error) {
	var (
		mt = MODEL_IdealGas
	)
	if ip.FluidModel != "" {
		if mt, err = NewModelType(ip.FluidModel); err != nil {
			return
		}
	}
	switch mt {
	case MODEL_RealGas:
		var opts []Option
		if ip.Backend != "" {
			opts = append(opts, WithBackend(ip.Backend))
		}
		var rg *RealGas
		if rg, err = NewRealGas(ip.FluidName, opts...); err != nil {
			return
		}
		m = rg
	default:
		var (
			gamma, R = ip.Gamma, ip.GasConstant
		)
		if gamma == 0 {
			gamma = 1.4
		}
		if R == 0 {
			R = AirGasConstant
		}
		var ig *IdealGas
		if ig, err = NewIdealGas(gamma, R); err != nil {
			return
		}
		m = ig
	}
	return
}

// SetState dispatches an input pair to the matching setter of m. The values
// follow the order of the pair name, density first for DmassP and DmassT.
func SetState(m Model, pair eos.InputPair, value1, value2 float64) (err error) {
	switch pair {
	case eos.DmassUmassInputs:
		return m.SetStateRhoE(value1, value2)
	case eos.PTInputs:
		return m.SetStatePT(value1, value2)
	case eos.DmassPInputs:
		return m.SetStatePRho(value2, value1)
	case eos.HmassSmassInputs:
		return m.SetStateHS(value1, value2)
	case eos.PSmassInputs:
		return m.SetStatePS(value1, value2)
	case eos.DmassTInputs:
		return m.SetStateRhoT(value1, value2)
	}
	return fmt.Errorf("no state setter for input pair %s", pair)
}
