package sod_shock_tube

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/realgas/fluid"
)

func newAir(t *testing.T) *fluid.IdealGas {
	gas, err := fluid.NewIdealGas(1.4, fluid.AirGasConstant)
	require.NoError(t, err)
	return gas
}

func TestSOD(t *testing.T) {
	gas := newAir(t)
	s, err := NewSolution(gas, SodLeft, SodRight, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.30313017805064674, s.PStar, 1.e-10)
	assert.InDelta(t, 0.9274526200489497, s.UStar, 1.e-10)
	assert.InDelta(t, 0.4263194281784951, s.RhoStarL, 1.e-10)
	assert.InDelta(t, 0.26557371170530697, s.RhoStarR, 1.e-10)
	assert.InDelta(t, 1.7521557320301777, s.Shock, 1.e-10)
	assert.InDelta(t, -math.Sqrt(1.4), s.HeadL, 1.e-12)
	assert.InDelta(t, -0.07027281256118356, s.TailL, 1.e-10)

	// Shock position matches the reference tube at two times
	assert.InDelta(t, 0.6752, s.X0+0.1*s.Shock, 1.e-4)
	assert.InDelta(t, 0.8504, s.X0+0.2*s.Shock, 1.e-4)

	X, Rho, P, U, E, err := SOD_calc(gas, 0.2, 11)
	require.NoError(t, err)
	require.Len(t, X, 11)
	assert.Equal(t, 1., Rho[0])
	assert.Equal(t, 0.125, Rho[10])
	assert.Equal(t, 0., U[0])
	{ // Inside the rarefaction fan
		assert.InDelta(t, 0.4, X[4], 1.e-12)
		assert.InDelta(t, 0.6029376964981807, Rho[4], 1.e-9)
		assert.InDelta(t, 0.5693466305166027, U[4], 1.e-9)
		assert.InDelta(t, 0.4924718515532225, P[4], 1.e-9)
	}
	assert.InDelta(t, s.RhoStarL, Rho[5], 1.e-12)
	assert.InDelta(t, s.RhoStarR, Rho[7], 1.e-12)
	assert.InDelta(t, 1.7776000694233522, E[5], 1.e-9)
	assert.InDelta(t, 2.85354088799096, E[7], 1.e-9)
	for i := range X {
		assert.InEpsilon(t, P[i]/(0.4*Rho[i]), E[i], 1.e-12)
	}
	// Pressure and velocity are continuous across the contact
	assert.Equal(t, P[5], P[7])
	assert.Equal(t, U[5], U[7])
}

func TestSODErrors(t *testing.T) {
	gas := newAir(t)
	_, err := NewSolution(gas, SodRight, SodLeft, 0.5)
	assert.Error(t, err)
	_, err = NewSolution(gas, Side{Rho: 1, P: -1}, SodRight, 0.5)
	var pe *fluid.PhysicalRangeError
	assert.ErrorAs(t, err, &pe)
	_, _, _, _, _, err = SOD_calc(gas, 0, 11)
	assert.Error(t, err)
	_, _, _, _, _, err = SOD_calc(gas, 0.1, 1)
	assert.Error(t, err)
}

func TestFzero(t *testing.T) {
	x, err := fzero(func(x float64) float64 { return x*x*x - 2 }, 0, 2)
	require.NoError(t, err)
	assert.InDelta(t, math.Cbrt(2), x, 1.e-10)
	_, err = fzero(func(x float64) float64 { return math.NaN() }, 0, 2)
	assert.Error(t, err)
}
