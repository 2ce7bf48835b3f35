package eos

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

func newCO2(t *testing.T) AbstractState {
	as, err := Factory("HEOS", "CO2")
	require.NoError(t, err)
	return as
}

func TestFactory(t *testing.T) {
	{ // Aliases resolve to the same fluid
		as, err := Factory("HEOS", "R744")
		require.NoError(t, err)
		assert.Equal(t, "CarbonDioxide", as.FluidName())
		assert.Equal(t, "HEOS", as.BackendName())
		assert.InDeltaf(t, 304.1282, as.TCritical(), 1.e-12, "critical temperature")
		assert.InDeltaf(t, 8.314462618/0.0440098, as.GasConstant()/as.MolarMass(), 1.e-9, "specific gas constant")
	}
	{
		_, err := Factory("HEOS", "Unobtainium")
		assert.True(t, errors.Is(err, ErrUnknownFluid))
		_, err = Factory("REFPROP", "Water")
		assert.True(t, errors.Is(err, ErrUnknownBackend))
	}
	names := FluidNames()
	assert.Equal(t, len(Fluids), len(names))
	assert.Equal(t, "Air", names[0])
}

func TestPhaseClassification(t *testing.T) {
	as := newCO2(t)
	check := func(P, T float64, ph Phase) {
		require.NoError(t, as.Update(PTInputs, P, T))
		assert.Equalf(t, ph, as.Phase(), "P = %g, T = %g", P, T)
	}
	check(1.e5, 300, PhaseGas)
	check(2.e6, 250, PhaseLiquid)
	check(10.e6, 290, PhaseSupercriticalLiquid)
	check(8.e6, 320, PhaseSupercritical)
	check(1.e5, 350, PhaseSupercriticalGas)
}

func TestRoundTrips(t *testing.T) {
	as := newCO2(t)
	for _, PT := range [][2]float64{
		{5.e6, 350}, {1.e5, 300}, {10.e6, 290}, {2.e6, 250}, {8.e6, 320},
	} {
		P, T := PT[0], PT[1]
		require.NoError(t, as.Update(PTInputs, P, T))
		var (
			rho, u, h, s = as.Rhomass(), as.Umass(), as.Hmass(), as.Smass()
		)
		assert.InEpsilon(t, P, as.P(), 1.e-12)
		assert.Greater(t, as.Cpmass(), as.Cvmass())
		assert.Greater(t, as.SpeedSound(), 0.)

		require.NoError(t, as.Update(DmassUmassInputs, rho, u))
		assert.InDeltaf(t, T, as.T(), 1.e-6, "rho-e at P = %g, T = %g", P, T)
		assert.InEpsilon(t, P, as.P(), 1.e-8)

		require.NoError(t, as.Update(DmassPInputs, rho, P))
		assert.InDelta(t, T, as.T(), 1.e-6)
		assert.InEpsilon(t, u, as.Umass(), 1.e-8)

		require.NoError(t, as.Update(DmassTInputs, rho, T))
		assert.InEpsilon(t, P, as.P(), 1.e-10)

		require.NoError(t, as.Update(PSmassInputs, P, s))
		assert.InDelta(t, T, as.T(), 1.e-6)
		assert.InEpsilon(t, rho, as.Rhomass(), 1.e-8)

		require.NoError(t, as.Update(HmassSmassInputs, h, s))
		assert.InDelta(t, T, as.T(), 1.e-6)
		assert.InEpsilon(t, rho, as.Rhomass(), 1.e-8)
	}
}

func TestSaturation(t *testing.T) {
	for _, tc := range []struct {
		fluid       string
		T, PRef, eps float64
	}{
		{"CarbonDioxide", 280., 4.1607e6, 0.01},
		{"Nitrogen", 77.355, 101325., 0.02},
		{"Water", 373.124, 101325., 0.06},
	} {
		as, err := Factory("HEOS", tc.fluid)
		require.NoError(t, err)
		curve, err := SaturationCurve(as, 2)
		require.NoError(t, err)
		assert.Less(t, curve[0].P, curve[1].P)

		hs := as.(*HelmholtzState)
		sp, err := hs.cubic.saturation(tc.T)
		require.NoError(t, err)
		assert.InEpsilonf(t, tc.PRef, sp.P, tc.eps, "%s vapor pressure", tc.fluid)
		assert.Greater(t, sp.RhoL, sp.RhoV)

		back, err := hs.cubic.saturationP(sp.P)
		require.NoError(t, err)
		assert.InDelta(t, tc.T, back.T, 1.e-6)
	}
	{ // No dome above the critical point
		hs := newCO2(t).(*HelmholtzState)
		_, err := hs.cubic.saturation(310)
		assert.True(t, errors.Is(err, ErrOutOfRange))
	}
}

func TestTwoPhase(t *testing.T) {
	var (
		as       = newCO2(t)
		rho, T   = 300., 280.
		sat, err = as.(*HelmholtzState).cubic.saturation(T)
	)
	require.NoError(t, err)
	require.NoError(t, as.Update(DmassTInputs, rho, T))
	assert.Equal(t, PhaseTwoPhase, as.Phase())
	assert.InEpsilon(t, sat.P, as.P(), 1.e-12)
	assert.True(t, math.IsNaN(as.SpeedSound()))
	e, s := as.Umass(), as.Smass()

	require.NoError(t, as.Update(DmassUmassInputs, rho, e))
	assert.Equal(t, PhaseTwoPhase, as.Phase())
	assert.InDelta(t, T, as.T(), 1.e-6)
	assert.InEpsilon(t, sat.P, as.P(), 1.e-8)

	require.NoError(t, as.Update(DmassPInputs, rho, sat.P))
	assert.Equal(t, PhaseTwoPhase, as.Phase())
	assert.InDelta(t, T, as.T(), 1.e-6)

	require.NoError(t, as.Update(PSmassInputs, sat.P, s))
	assert.Equal(t, PhaseTwoPhase, as.Phase())
	assert.InEpsilon(t, rho, as.Rhomass(), 1.e-6)

	{ // Clausius-Clapeyron slope along the dome
		dPdT, err := as.FirstPartialDeriv(IP, IT, IDmass)
		require.NoError(t, err)
		hs := as.(*HelmholtzState)
		up, err := hs.cubic.saturation(T + 0.01)
		require.NoError(t, err)
		dn, err := hs.cubic.saturation(T - 0.01)
		require.NoError(t, err)
		assert.InEpsilon(t, (up.P-dn.P)/0.02, dPdT, 1.e-4)
	}

	{ // A slightly superheated point at the saturation pressure is vapor
		require.NoError(t, as.Update(PTInputs, sat.P, T+0.1))
		assert.Equal(t, PhaseGas, as.Phase())
		assert.Less(t, as.Rhomass(), sat.RhoV)
	}
}

func TestFirstPartialDeriv(t *testing.T) {
	var (
		as        = newCO2(t)
		rho0, T0  = 100., 350.
		settings  = &fd.Settings{Formula: fd.Central, Step: 1.e-4}
		mustState = func(pair InputPair, v1, v2 float64) {
			require.NoError(t, as.Update(pair, v1, v2))
		}
	)
	mustState(DmassTInputs, rho0, T0)
	e0 := as.Umass()
	deriv := func(of, wrt, constant Parameter) float64 {
		mustState(DmassTInputs, rho0, T0)
		d, err := as.FirstPartialDeriv(of, wrt, constant)
		require.NoError(t, err)
		return d
	}

	{ // dP/drho at constant e
		num := fd.Derivative(func(rho float64) float64 {
			mustState(DmassUmassInputs, rho, e0)
			return as.P()
		}, rho0, settings)
		assert.InEpsilon(t, num, deriv(IP, IDmass, IUmass), 1.e-5)
	}
	{ // dP/de and dT/de at constant rho
		settings.Step = 1.
		numP := fd.Derivative(func(e float64) float64 {
			mustState(DmassUmassInputs, rho0, e)
			return as.P()
		}, e0, settings)
		numT := fd.Derivative(func(e float64) float64 {
			mustState(DmassUmassInputs, rho0, e)
			return as.T()
		}, e0, settings)
		assert.InEpsilon(t, numP, deriv(IP, IUmass, IDmass), 1.e-5)
		assert.InEpsilon(t, numT, deriv(IT, IUmass, IDmass), 1.e-5)
		assert.InEpsilon(t, 1/as.Cvmass(), deriv(IT, IUmass, IDmass), 1.e-10)
	}
	{ // dh/drho at constant P
		mustState(DmassTInputs, rho0, T0)
		P0 := as.P()
		settings.Step = 1.e-4
		num := fd.Derivative(func(rho float64) float64 {
			mustState(DmassPInputs, rho, P0)
			return as.Hmass()
		}, rho0, settings)
		assert.InEpsilon(t, num, deriv(IHmass, IDmass, IP), 1.e-5)
	}
	{ // Degenerate requests are rejected
		mustState(DmassTInputs, rho0, T0)
		_, err := as.FirstPartialDeriv(IP, IT, IT)
		assert.True(t, errors.Is(err, ErrInvalidDerivative))
	}
}

func TestClose(t *testing.T) {
	as := newCO2(t)
	require.NoError(t, as.Update(PTInputs, 1.e5, 300))
	require.NoError(t, as.Close())
	assert.True(t, errors.Is(as.Update(PTInputs, 1.e5, 300), ErrClosed))
	assert.True(t, math.IsNaN(as.P()))
	_, err := as.FirstPartialDeriv(IP, IT, IDmass)
	assert.True(t, errors.Is(err, ErrNoState))
}

func TestInvalidInputs(t *testing.T) {
	as := newCO2(t)
	assert.True(t, errors.Is(as.Update(PTInputs, math.NaN(), 300), ErrOutOfRange))
	assert.True(t, errors.Is(as.Update(DmassUmassInputs, -1, 0), ErrOutOfRange))
	assert.Equal(t, PhaseUnknown, as.Phase())
	pair, err := ParseInputPair("rhoe")
	require.NoError(t, err)
	assert.Equal(t, DmassUmassInputs, pair)
	_, err = ParseInputPair("xy")
	assert.Error(t, err)
}
