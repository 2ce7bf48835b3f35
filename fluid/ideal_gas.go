package fluid

import (
	"fmt"
	"math"
)

// AirGasConstant is the specific gas constant of dry air, J/(kg K)
const AirGasConstant = 287.058

// IdealGas is a calorically perfect gas with constant Gamma. Entropy is zero
// at T = 1 K and rho = 1 kg/m^3.
type IdealGas struct {
	RangeGuard
	Gamma, R float64
	cv, cp   float64
	state    State
	nrbc     NRBCDerivatives
}

func NewIdealGas(gamma, R float64) (ig *IdealGas, err error) {
	if !(gamma > 1) || !(R > 0) {
		return nil, fmt.Errorf("ideal gas needs gamma > 1 and R > 0, have gamma = %g, R = %g", gamma, R)
	}
	var (
		cv = R / (gamma - 1)
	)
	ig = &IdealGas{
		Gamma: gamma,
		R:     R,
		cv:    cv,
		cp:    gamma * cv,
	}
	return
}

func (ig *IdealGas) Name() string {
	return fmt.Sprintf("IdealGas(gamma = %g, R = %g)", ig.Gamma, ig.R)
}

func (ig *IdealGas) Identity() Identity    { return Identity{GasConstant: ig.R} }
func (ig *IdealGas) Thermo() State         { return ig.state }
func (ig *IdealGas) NRBC() NRBCDerivatives { return ig.nrbc }
func (ig *IdealGas) Close() error          { return nil }

func (ig *IdealGas) entropy(rho, T float64) float64 {
	return ig.cv*math.Log(T) - ig.R*math.Log(rho)
}

func positiveFinite(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

func (ig *IdealGas) SetStateRhoE(rho, e float64) (err error) {
	var (
		GM1 = ig.Gamma - 1
		T   = e / ig.cv
	)
	if !positiveFinite(rho) || !positiveFinite(T) {
		return fmt.Errorf("%w: rho = %g, e = %g", ErrOutOfRange, rho, e)
	}
	st := State{
		Density:      rho,
		StaticEnergy: e,
		Pressure:     GM1 * rho * e,
		Temperature:  T,
		Entropy:      ig.entropy(rho, T),
		Cp:           ig.cp,
		Cv:           ig.cv,
		Gamma:        ig.Gamma,
		SoundSpeed2:  ig.Gamma * GM1 * e,
		DPDRhoE:      GM1 * e,
		DPDERho:      GM1 * rho,
		DTDRhoE:      0,
		DTDERho:      1 / ig.cv,
	}
	if !positiveFinite(st.Pressure) {
		return fmt.Errorf("%w: pressure %g at rho = %g, e = %g", ErrOutOfRange, st.Pressure, rho, e)
	}
	ig.state = st
	return
}

func (ig *IdealGas) SetStatePT(P, T float64) (err error) {
	if err = ig.CheckPressure(P); err != nil {
		return
	}
	if err = ig.CheckTemperature(T); err != nil {
		return
	}
	return ig.SetStateRhoE(P/(ig.R*T), ig.cv*T)
}

func (ig *IdealGas) SetStatePRho(P, rho float64) (err error) {
	if err = ig.CheckPressure(P); err != nil {
		return
	}
	return ig.SetStateRhoE(rho, P/((ig.Gamma-1)*rho))
}

func (ig *IdealGas) SetEnergyPRho(P, rho float64) (err error) {
	if err = ig.CheckPressure(P); err != nil {
		return
	}
	if !positiveFinite(rho) {
		return fmt.Errorf("%w: rho = %g", ErrOutOfRange, rho)
	}
	ig.state.StaticEnergy = P / ((ig.Gamma - 1) * rho)
	return
}

func (ig *IdealGas) SetStateHS(h, s float64) (err error) {
	var (
		T   = h / ig.cp
		rho = math.Exp((ig.cv*math.Log(T) - s) / ig.R)
	)
	return ig.SetStateRhoE(rho, ig.cv*T)
}

func (ig *IdealGas) SetStatePS(P, s float64) (err error) {
	if err = ig.CheckPressure(P); err != nil {
		return
	}
	var (
		T = math.Exp((s + ig.R*math.Log(P/ig.R)) / ig.cp)
	)
	return ig.SetStateRhoE(P/(ig.R*T), ig.cv*T)
}

func (ig *IdealGas) SetStateRhoT(rho, T float64) (err error) {
	return ig.SetStateRhoE(rho, ig.cv*T)
}

func (ig *IdealGas) ComputeDerivativeNRBCPRho(P, rho float64) (err error) {
	if err = ig.SetStatePRho(P, rho); err != nil {
		return
	}
	var (
		GM1 = ig.Gamma - 1
	)
	ig.nrbc = NRBCDerivatives{
		DHDRhoP: -ig.Gamma * P / (GM1 * rho * rho),
		DHDPRho: ig.Gamma / (GM1 * rho),
		DSDPRho: ig.cv / P,
		DSDRhoP: -ig.cp / rho,
	}
	return
}
