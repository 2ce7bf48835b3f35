package fluid

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/notargets/realgas/eos"
)

// TwoPhaseTemperatureOffset is added to the temperature of a state that lands
// inside the vapor dome before the speed of sound is evaluated.
const TwoPhaseTemperatureOffset = 0.1

const DefaultBackend = "HEOS"

type options struct {
	backend string
	factory func(backend, fluidName string) (eos.AbstractState, error)
}

type Option func(o *options)

// WithBackend selects the equation of state backend by name
func WithBackend(backend string) Option {
	return func(o *options) { o.backend = backend }
}

// WithFactory replaces eos.Factory as the source of backend handles
func WithFactory(factory func(backend, fluidName string) (eos.AbstractState, error)) Option {
	return func(o *options) { o.factory = factory }
}

// RealGas evaluates the thermodynamic state of a real fluid through an
// equation of state handle. Every state setter is reduced to a density and
// internal energy pair and evaluated by SetStateRhoE.
//
// When a state falls inside the vapor dome the temperature is raised by
// TwoPhaseTemperatureOffset and only SoundSpeed2 is recomputed at the raised
// temperature. All other fields keep the two-phase values.
type RealGas struct {
	RangeGuard
	backend eos.AbstractState
	id      Identity
	state   State
	nrbc    NRBCDerivatives
	closed  bool
}

func NewRealGas(fluidName string, opts ...Option) (rg *RealGas, err error) {
	var (
		o = options{
			backend: DefaultBackend,
			factory: eos.Factory,
		}
		as eos.AbstractState
	)
	for _, opt := range opts {
		opt(&o)
	}
	if as, err = o.factory(o.backend, fluidName); err != nil {
		return nil, &ConstructionError{Backend: o.backend, Fluid: fluidName, Err: err}
	}
	rg = &RealGas{
		RangeGuard: RangeGuard{
			PMax: as.Pmax(),
			TMin: as.Tmin(),
			TMax: as.Tmax(),
		},
		backend: as,
		id: Identity{
			GasConstant:    as.GasConstant() / as.MolarMass(),
			PCritical:      as.PCritical(),
			TCritical:      as.TCritical(),
			AcentricFactor: as.AcentricFactor(),
		},
	}
	log.Debug().
		Str("fluid", as.FluidName()).
		Str("backend", as.BackendName()).
		Float64("R", rg.id.GasConstant).
		Float64("Pc", rg.id.PCritical).
		Float64("Tc", rg.id.TCritical).
		Msg("real gas model constructed")
	return
}

func (rg *RealGas) Name() string {
	return fmt.Sprintf("RealGas(%s, %s)", rg.backend.FluidName(), rg.backend.BackendName())
}

func (rg *RealGas) Identity() Identity         { return rg.id }
func (rg *RealGas) Thermo() State              { return rg.state }
func (rg *RealGas) NRBC() NRBCDerivatives      { return rg.nrbc }
func (rg *RealGas) Backend() eos.AbstractState { return rg.backend }

// Close releases the backend handle, later calls return ErrClosed
func (rg *RealGas) Close() (err error) {
	if rg.closed {
		return
	}
	rg.closed = true
	return rg.backend.Close()
}

func (rg *RealGas) update(pair eos.InputPair, value1, value2 float64) (err error) {
	if rg.closed {
		return ErrClosed
	}
	if err = rg.backend.Update(pair, value1, value2); err != nil {
		return &BackendQueryFailure{Input: pair, Value1: value1, Value2: value2, Err: err}
	}
	return
}

type partial struct {
	dst               *float64
	of, wrt, constant eos.Parameter
}

func (rg *RealGas) partials(pair eos.InputPair, value1, value2 float64, derivs []partial) (err error) {
	var (
		d float64
	)
	for _, p := range derivs {
		if d, err = rg.backend.FirstPartialDeriv(p.of, p.wrt, p.constant); err != nil {
			return &BackendQueryFailure{Input: pair, Value1: value1, Value2: value2, Err: err}
		}
		*p.dst = d
	}
	return
}

func (rg *RealGas) SetStateRhoE(rho, e float64) (err error) {
	var (
		st State
		as = rg.backend
	)
	st.Density, st.StaticEnergy = rho, e
	if err = rg.update(eos.DmassUmassInputs, rho, e); err != nil {
		return
	}
	st.Cp, st.Cv = as.Cpmass(), as.Cvmass()
	st.Gamma = st.Cp / st.Cv
	st.Pressure, st.Temperature, st.Entropy = as.P(), as.T(), as.Smass()
	if err = rg.partials(eos.DmassUmassInputs, rho, e, []partial{
		{&st.DPDRhoE, eos.IP, eos.IDmass, eos.IUmass},
		{&st.DPDERho, eos.IP, eos.IUmass, eos.IDmass},
		{&st.DTDRhoE, eos.IT, eos.IDmass, eos.IUmass},
		{&st.DTDERho, eos.IT, eos.IUmass, eos.IDmass},
	}); err != nil {
		return
	}
	if as.Phase() == eos.PhaseTwoPhase {
		st.Temperature += TwoPhaseTemperatureOffset
		log.Trace().
			Float64("rho", rho).
			Float64("e", e).
			Float64("P", st.Pressure).
			Float64("T", st.Temperature).
			Msg("two-phase state moved to superheated vapor")
		if err = rg.CheckPressure(st.Pressure); err != nil {
			return
		}
		if err = rg.CheckTemperature(st.Temperature); err != nil {
			return
		}
		if err = rg.update(eos.PTInputs, st.Pressure, st.Temperature); err != nil {
			return
		}
	}
	c := as.SpeedSound()
	st.SoundSpeed2 = c * c
	rg.state = st
	return
}

func (rg *RealGas) SetStatePT(P, T float64) (err error) {
	if err = rg.CheckPressure(P); err != nil {
		return
	}
	if err = rg.CheckTemperature(T); err != nil {
		return
	}
	if err = rg.update(eos.PTInputs, P, T); err != nil {
		return
	}
	return rg.SetStateRhoE(rg.backend.Rhomass(), rg.backend.Umass())
}

func (rg *RealGas) SetStatePRho(P, rho float64) (err error) {
	if err = rg.CheckPressure(P); err != nil {
		return
	}
	if err = rg.update(eos.DmassPInputs, rho, P); err != nil {
		return
	}
	return rg.SetStateRhoE(rho, rg.backend.Umass())
}

func (rg *RealGas) SetEnergyPRho(P, rho float64) (err error) {
	if err = rg.CheckPressure(P); err != nil {
		return
	}
	if err = rg.update(eos.DmassPInputs, rho, P); err != nil {
		return
	}
	rg.state.StaticEnergy = rg.backend.Umass()
	return
}

func (rg *RealGas) SetStateHS(h, s float64) (err error) {
	if err = rg.update(eos.HmassSmassInputs, h, s); err != nil {
		return
	}
	return rg.SetStateRhoE(rg.backend.Rhomass(), rg.backend.Umass())
}

func (rg *RealGas) SetStatePS(P, s float64) (err error) {
	if err = rg.CheckPressure(P); err != nil {
		return
	}
	if err = rg.update(eos.PSmassInputs, P, s); err != nil {
		return
	}
	return rg.SetStateRhoE(rg.backend.Rhomass(), rg.backend.Umass())
}

func (rg *RealGas) SetStateRhoT(rho, T float64) (err error) {
	if err = rg.update(eos.DmassTInputs, rho, T); err != nil {
		return
	}
	return rg.SetStateRhoE(rho, rg.backend.Umass())
}

// ComputeDerivativeNRBCPRho sets the state at (P, rho) and evaluates the
// enthalpy and entropy partials at the backend point left by that update.
func (rg *RealGas) ComputeDerivativeNRBCPRho(P, rho float64) (err error) {
	var (
		nrbc NRBCDerivatives
	)
	if err = rg.SetStatePRho(P, rho); err != nil {
		return
	}
	if err = rg.partials(eos.DmassPInputs, rho, P, []partial{
		{&nrbc.DHDRhoP, eos.IHmass, eos.IDmass, eos.IP},
		{&nrbc.DHDPRho, eos.IHmass, eos.IP, eos.IDmass},
		{&nrbc.DSDPRho, eos.ISmass, eos.IP, eos.IDmass},
		{&nrbc.DSDRhoP, eos.ISmass, eos.IDmass, eos.IP},
	}); err != nil {
		return
	}
	rg.nrbc = nrbc
	return
}
