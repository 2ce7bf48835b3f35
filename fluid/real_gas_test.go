package fluid

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/notargets/realgas/eos"
)

func newCO2(t *testing.T) *RealGas {
	rg, err := NewRealGas("CO2")
	require.NoError(t, err)
	return rg
}

func TestRealGas_Construction(t *testing.T) {
	{
		rg, err := NewRealGas("Unobtainium")
		assert.Nil(t, rg)
		var ce *ConstructionError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "Unobtainium", ce.Fluid)
		assert.Equal(t, DefaultBackend, ce.Backend)
		assert.True(t, errors.Is(err, eos.ErrUnknownFluid))
	}
	{
		rg, err := NewRealGas("CO2", WithBackend("REFPROP"))
		assert.Nil(t, rg)
		assert.True(t, errors.Is(err, eos.ErrUnknownBackend))
	}
	{
		rg, err := NewRealGas("R744", WithBackend("PR"))
		require.NoError(t, err)
		id := rg.Identity()
		assert.InDelta(t, 8.314462618/0.0440098, id.GasConstant, 1.e-9)
		assert.Equal(t, 7.3773e6, id.PCritical)
		assert.Equal(t, 304.1282, id.TCritical)
		assert.Equal(t, 0.22394, id.AcentricFactor)
		assert.Equal(t, "RealGas(CarbonDioxide, PR)", rg.Name())
	}
	{ // Constants are read once
		m := newMockState()
		rg, err := NewRealGas("CO2", mockFactory(m))
		require.NoError(t, err)
		_ = rg.Identity()
		_ = rg.Identity()
		m.AssertNumberOfCalls(t, "GasConstant", 1)
		m.AssertNumberOfCalls(t, "MolarMass", 1)
		m.AssertNumberOfCalls(t, "PCritical", 1)
		assert.Equal(t, RangeGuard{PMax: 8.e8, TMin: 216.592, TMax: 2000}, rg.RangeGuard)
	}
}

func TestRealGas_SetStateRhoE(t *testing.T) {
	rg := newCO2(t)
	require.NoError(t, rg.SetStatePT(5.e6, 350))
	st := rg.Thermo()
	assert.InEpsilon(t, 5.e6, st.Pressure, 1.e-8)
	assert.InDelta(t, 350, st.Temperature, 1.e-6)
	assert.InEpsilon(t, 91.19, st.Density, 1.e-3)

	rho, e := st.Density, st.StaticEnergy
	require.NoError(t, rg.SetStateRhoE(rho, e))
	st = rg.Thermo()
	assert.Equal(t, rho, st.Density)
	assert.Equal(t, e, st.StaticEnergy)
	assert.Equal(t, st.Cp/st.Cv, st.Gamma)
	assert.Greater(t, st.Gamma, 1.)
	assert.Greater(t, st.SoundSpeed2, 0.)
	assert.InEpsilon(t, 1/st.Cv, st.DTDERho, 1.e-10)

	{ // Partials against finite differences of the model itself
		settings := &fd.Settings{Formula: fd.Central, Step: 1.e-3}
		dPdRho := fd.Derivative(func(r float64) float64 {
			require.NoError(t, rg.SetStateRhoE(r, e))
			return rg.Thermo().Pressure
		}, rho, settings)
		dTdRho := fd.Derivative(func(r float64) float64 {
			require.NoError(t, rg.SetStateRhoE(r, e))
			return rg.Thermo().Temperature
		}, rho, settings)
		settings.Step = 1.
		dPde := fd.Derivative(func(ee float64) float64 {
			require.NoError(t, rg.SetStateRhoE(rho, ee))
			return rg.Thermo().Pressure
		}, e, settings)
		assert.InEpsilon(t, dPdRho, st.DPDRhoE, 1.e-5)
		assert.InEpsilon(t, dTdRho, st.DTDRhoE, 1.e-5)
		assert.InEpsilon(t, dPde, st.DPDERho, 1.e-5)
	}
}

func TestRealGas_RoundTrips(t *testing.T) {
	rg := newCO2(t)
	for _, PT := range [][2]float64{
		{1.e5, 300}, {10.e6, 290}, {2.e6, 250}, {8.e6, 320},
	} {
		P, T := PT[0], PT[1]
		require.NoError(t, rg.SetStatePT(P, T))
		ref := rg.Thermo()
		assert.InEpsilon(t, P, ref.Pressure, 1.e-8)
		assert.InDelta(t, T, ref.Temperature, 1.e-6)
		h := ref.StaticEnergy + ref.Pressure/ref.Density

		check := func(label string, err error) {
			require.NoError(t, err, label)
			st := rg.Thermo()
			assert.InEpsilonf(t, ref.Density, st.Density, 1.e-7, "%s density at P = %g, T = %g", label, P, T)
			assert.InDeltaf(t, T, st.Temperature, 1.e-5, "%s temperature at P = %g, T = %g", label, P, T)
			assert.InEpsilonf(t, ref.SoundSpeed2, st.SoundSpeed2, 1.e-6, "%s sound speed at P = %g, T = %g", label, P, T)
		}
		check("PRho", rg.SetStatePRho(P, ref.Density))
		check("PS", rg.SetStatePS(P, ref.Entropy))
		check("HS", rg.SetStateHS(h, ref.Entropy))
		check("RhoT", rg.SetStateRhoT(ref.Density, T))
	}
}

func TestRealGas_TwoPhase(t *testing.T) {
	var (
		rg     = newCO2(t)
		rho, T = 300., 280.
	)
	as, err := eos.Factory("HEOS", "CO2")
	require.NoError(t, err)
	require.NoError(t, as.Update(eos.DmassTInputs, rho, T))
	require.Equal(t, eos.PhaseTwoPhase, as.Phase())
	var (
		Psat, Cp = as.P(), as.Cpmass()
	)
	require.NoError(t, as.Update(eos.PTInputs, Psat, T+TwoPhaseTemperatureOffset))
	w2 := as.SpeedSound() * as.SpeedSound()

	require.NoError(t, rg.SetStateRhoT(rho, T))
	st := rg.Thermo()
	assert.Equal(t, rho, st.Density)
	assert.InDelta(t, T+TwoPhaseTemperatureOffset, st.Temperature, 1.e-6)
	assert.InEpsilon(t, Psat, st.Pressure, 1.e-8)
	assert.InEpsilon(t, w2, st.SoundSpeed2, 1.e-6)
	assert.InEpsilon(t, 45484.45, st.SoundSpeed2, 1.e-4)
	// Heat capacities keep their values inside the dome
	assert.InEpsilon(t, Cp, st.Cp, 1.e-6)
	assert.Equal(t, eos.PhaseGas, rg.Backend().Phase())
}

func TestRealGas_TwoPhaseScripted(t *testing.T) {
	var (
		m     = newMockState()
		rho   = 300.
		e     = -232690.69
		P, T  = 4.16e6, 280.
		Tnext = T + TwoPhaseTemperatureOffset
	)
	rg, err := NewRealGas("CO2", mockFactory(m))
	require.NoError(t, err)
	m.On("Update", eos.DmassUmassInputs, rho, e).Return(nil).Once()
	m.On("Cpmass").Return(2400.).Once()
	m.On("Cvmass").Return(1200.).Once()
	m.On("P").Return(P).Once()
	m.On("T").Return(T).Once()
	m.On("Smass").Return(-1500.).Once()
	m.On("FirstPartialDeriv", eos.IP, eos.IDmass, eos.IUmass).Return(11., nil).Once()
	m.On("FirstPartialDeriv", eos.IP, eos.IUmass, eos.IDmass).Return(12., nil).Once()
	m.On("FirstPartialDeriv", eos.IT, eos.IDmass, eos.IUmass).Return(13., nil).Once()
	m.On("FirstPartialDeriv", eos.IT, eos.IUmass, eos.IDmass).Return(14., nil).Once()
	m.On("Phase").Return(eos.PhaseTwoPhase).Once()
	m.On("Update", eos.PTInputs, P, Tnext).Return(nil).Once()
	m.On("SpeedSound").Return(210.).Once()

	require.NoError(t, rg.SetStateRhoE(rho, e))
	m.AssertExpectations(t)
	assert.Equal(t, State{
		Density:      rho,
		StaticEnergy: e,
		Pressure:     P,
		Temperature:  Tnext,
		Entropy:      -1500.,
		Cp:           2400.,
		Cv:           1200.,
		Gamma:        2.,
		SoundSpeed2:  210. * 210.,
		DPDRhoE:      11.,
		DPDERho:      12.,
		DTDRhoE:      13.,
		DTDERho:      14.,
	}, rg.Thermo())
}

func TestRealGas_Errors(t *testing.T) {
	rg := newCO2(t)
	require.NoError(t, rg.SetStatePT(5.e6, 350))
	before := rg.Thermo()

	isRange := func(err error, quantity string) {
		var pe *PhysicalRangeError
		if assert.True(t, errors.As(err, &pe), "%v", err) {
			assert.Equal(t, quantity, pe.Quantity)
		}
	}
	isRange(rg.SetStatePT(-1, 300), "pressure")
	isRange(rg.SetStatePT(math.NaN(), 300), "pressure")
	isRange(rg.SetStatePT(1.e10, 300), "pressure")
	isRange(rg.SetStatePT(1.e5, math.Inf(1)), "temperature")
	isRange(rg.SetStatePT(1.e5, 100), "temperature")
	isRange(rg.SetStatePRho(-1, 100), "pressure")
	isRange(rg.SetEnergyPRho(0, 100), "pressure")
	isRange(rg.SetStatePS(math.Inf(-1), 0), "pressure")
	isRange(rg.ComputeDerivativeNRBCPRho(-1, 100), "pressure")
	isRange(rg.ComputeDerivativeNRBCPRho(math.NaN(), 100), "pressure")

	notRange := func(err error) {
		require.Error(t, err)
		var (
			pe *PhysicalRangeError
			bf *BackendQueryFailure
		)
		assert.False(t, errors.As(err, &pe))
		assert.True(t, errors.As(err, &bf))
	}
	notRange(rg.SetStateRhoT(100, -5))
	notRange(rg.SetStateHS(-1.e9, 0))
	notRange(rg.SetStateRhoE(-1, 0))

	// Failed calls leave the state alone
	assert.Equal(t, before, rg.Thermo())

	{ // Backend causes stay reachable
		m := newMockState()
		rg, err := NewRealGas("CO2", mockFactory(m))
		require.NoError(t, err)
		m.On("Update", eos.DmassUmassInputs, mock.Anything, mock.Anything).
			Return(fmt.Errorf("%w: near the critical point", eos.ErrNoConvergence))
		err = rg.SetStateRhoE(467., -2.e5)
		var bf *BackendQueryFailure
		require.True(t, errors.As(err, &bf))
		assert.Equal(t, eos.DmassUmassInputs, bf.Input)
		assert.Equal(t, 467., bf.Value1)
		assert.True(t, errors.Is(err, eos.ErrNoConvergence))
		assert.Equal(t, State{}, rg.Thermo())
	}
	{ // The nudged temperature is range checked
		m := newMockState()
		rg, err := NewRealGas("CO2", mockFactory(m))
		require.NoError(t, err)
		rg.TMax = 280.05
		m.On("Update", eos.DmassUmassInputs, mock.Anything, mock.Anything).Return(nil)
		m.On("Cpmass").Return(2400.)
		m.On("Cvmass").Return(1200.)
		m.On("P").Return(4.16e6)
		m.On("T").Return(280.)
		m.On("Smass").Return(-1500.)
		m.On("FirstPartialDeriv", mock.Anything, mock.Anything, mock.Anything).Return(1., nil)
		m.On("Phase").Return(eos.PhaseTwoPhase)
		isRange(rg.SetStateRhoE(300, -2.e5), "temperature")
		m.AssertNotCalled(t, "Update", eos.PTInputs, mock.Anything, mock.Anything)
		assert.Equal(t, State{}, rg.Thermo())
	}
}

func TestRealGas_SetEnergyPRho(t *testing.T) {
	rg := newCO2(t)
	require.NoError(t, rg.SetStatePT(5.e6, 350))
	before := rg.Thermo()

	require.NoError(t, rg.SetEnergyPRho(2.e6, 50))
	after := rg.Thermo()
	assert.NotEqual(t, before.StaticEnergy, after.StaticEnergy)
	e := after.StaticEnergy
	after.StaticEnergy = before.StaticEnergy
	assert.Equal(t, before, after)

	require.NoError(t, rg.SetStatePRho(2.e6, 50))
	assert.InEpsilon(t, e, rg.Thermo().StaticEnergy, 1.e-12)
	assert.InEpsilon(t, 2.e6, rg.Thermo().Pressure, 1.e-8)
}

func TestRealGas_NRBC(t *testing.T) {
	var (
		rg        = newCO2(t)
		P0, rho0  = 5.e6, 91.19
		enthalpy  = func(st State) float64 { return st.StaticEnergy + st.Pressure/st.Density }
		entropy   = func(st State) float64 { return st.Entropy }
		derivRho  = func(f func(st State) float64) float64 {
			return fd.Derivative(func(rho float64) float64 {
				require.NoError(t, rg.SetStatePRho(P0, rho))
				return f(rg.Thermo())
			}, rho0, &fd.Settings{Formula: fd.Central, Step: 1.e-3})
		}
		derivP = func(f func(st State) float64) float64 {
			return fd.Derivative(func(P float64) float64 {
				require.NoError(t, rg.SetStatePRho(P, rho0))
				return f(rg.Thermo())
			}, P0, &fd.Settings{Formula: fd.Central, Step: 10.})
		}
	)
	require.NoError(t, rg.SetStatePT(1.e5, 300))
	require.NoError(t, rg.ComputeDerivativeNRBCPRho(P0, rho0))
	assert.InEpsilon(t, P0, rg.Thermo().Pressure, 1.e-8)
	assert.Equal(t, rho0, rg.Thermo().Density)
	nrbc := rg.NRBC()

	assert.InEpsilon(t, derivRho(enthalpy), nrbc.DHDRhoP, 1.e-5)
	assert.InEpsilon(t, derivP(enthalpy), nrbc.DHDPRho, 1.e-5)
	assert.InEpsilon(t, derivP(entropy), nrbc.DSDPRho, 1.e-5)
	assert.InEpsilon(t, derivRho(entropy), nrbc.DSDRhoP, 1.e-5)
}

func TestRealGas_Close(t *testing.T) {
	rg := newCO2(t)
	require.NoError(t, rg.Close())
	assert.True(t, errors.Is(rg.SetStatePT(1.e5, 300), ErrClosed))
	assert.True(t, errors.Is(rg.SetStateRhoE(2, -1.e4), ErrClosed))
	assert.NoError(t, rg.Close())

	m := newMockState()
	m.On("Close").Return(nil).Once()
	rg, err := NewRealGas("CO2", mockFactory(m))
	require.NoError(t, err)
	assert.NoError(t, rg.Close())
	assert.NoError(t, rg.Close())
	m.AssertNumberOfCalls(t, "Close", 1)
}
