package sod_shock_tube

import (
	"fmt"
	"math"

	"github.com/notargets/realgas/fluid"
)

// Side is the initial state on one side of the diaphragm
type Side struct {
	Rho, P, U float64
}

var (
	SodLeft  = Side{Rho: 1, P: 1}
	SodRight = Side{Rho: 0.125, P: 0.1}
)

// Solution is the exact Riemann solution for a left running rarefaction and a
// right running shock, the wave pattern of Sod's problem
type Solution struct {
	Left, Right        Side
	X0                 float64 // Diaphragm position
	PStar, UStar       float64
	RhoStarL, RhoStarR float64
	HeadL, TailL       float64 // Rarefaction head and tail speeds
	Shock              float64 // Shock speed
	cL                 float64
	gas                *fluid.IdealGas
}

func NewSolution(gas *fluid.IdealGas, left, right Side, x0 float64) (s *Solution, err error) {
	var (
		gamma  = gas.Gamma
		mu2    = (gamma - 1) / (gamma + 1)
		cL, cR float64
	)
	if cL, err = soundSpeed(gas, left); err != nil {
		return
	}
	if cR, err = soundSpeed(gas, right); err != nil {
		return
	}
	fK := func(P float64, sd Side, c float64) float64 {
		if P > sd.P { // Shock
			A, B := 2/((gamma+1)*sd.Rho), mu2*sd.P
			return (P - sd.P) * math.Sqrt(A/(P+B))
		}
		return 2 * c / (gamma - 1) * (math.Pow(P/sd.P, (gamma-1)/(2*gamma)) - 1)
	}
	f := func(P float64) float64 {
		return fK(P, left, cL) + fK(P, right, cR) + right.U - left.U
	}
	if !(left.P > right.P) || !(f(right.P) < 0 && f(left.P) > 0) {
		return nil, fmt.Errorf("initial states do not produce a left rarefaction and a right shock: left %+v, right %+v", left, right)
	}
	s = &Solution{Left: left, Right: right, X0: x0, cL: cL, gas: gas}
	if s.PStar, err = fzero(f, right.P, left.P); err != nil {
		return nil, err
	}
	var (
		P   = s.PStar
		cSL = cL * math.Pow(P/left.P, (gamma-1)/(2*gamma))
	)
	s.UStar = 0.5*(left.U+right.U) + 0.5*(fK(P, right, cR)-fK(P, left, cL))
	s.RhoStarL = left.Rho * math.Pow(P/left.P, 1/gamma)
	s.RhoStarR = right.Rho * (P/right.P + mu2) / (mu2*P/right.P + 1)
	s.HeadL = left.U - cL
	s.TailL = s.UStar - cSL
	s.Shock = right.U + cR*math.Sqrt((gamma+1)/(2*gamma)*P/right.P+(gamma-1)/(2*gamma))
	return
}

func soundSpeed(gas *fluid.IdealGas, sd Side) (c float64, err error) {
	if err = gas.SetStatePRho(sd.P, sd.Rho); err != nil {
		return
	}
	return math.Sqrt(gas.Thermo().SoundSpeed2), nil
}

// At samples the solution at position x and time t > 0. E is the static energy.
func (s *Solution) At(x, t float64) (rho, u, P, E float64, err error) {
	var (
		gamma = s.gas.Gamma
		xi    = (x - s.X0) / t
	)
	switch {
	case xi < s.HeadL:
		rho, u, P = s.Left.Rho, s.Left.U, s.Left.P
	case xi < s.TailL:
		c := 2 / (gamma + 1) * (s.cL + 0.5*(gamma-1)*(s.Left.U-xi))
		u = 2 / (gamma + 1) * (s.cL + 0.5*(gamma-1)*s.Left.U + xi)
		rho = s.Left.Rho * math.Pow(c/s.cL, 2/(gamma-1))
		P = s.Left.P * math.Pow(c/s.cL, 2*gamma/(gamma-1))
	case xi < s.UStar:
		rho, u, P = s.RhoStarL, s.UStar, s.PStar
	case xi < s.Shock:
		rho, u, P = s.RhoStarR, s.UStar, s.PStar
	default:
		rho, u, P = s.Right.Rho, s.Right.U, s.Right.P
	}
	if err = s.gas.SetEnergyPRho(P, rho); err != nil {
		return
	}
	E = s.gas.Thermo().StaticEnergy
	return
}

// SOD_calc samples Sod's shock tube on [0, 1] at N uniform points, time t
func SOD_calc(gas *fluid.IdealGas, t float64, N int) (X, Rho, P, U, E []float64, err error) {
	var (
		x_min, x_max = 0., 1.
		s            *Solution
	)
	if N < 2 || !(t > 0) {
		err = fmt.Errorf("need N >= 2 and t > 0, have N = %d, t = %g", N, t)
		return
	}
	if s, err = NewSolution(gas, SodLeft, SodRight, 0.5*(x_min+x_max)); err != nil {
		return
	}
	X = make([]float64, N)
	Rho = make([]float64, N)
	P = make([]float64, N)
	U = make([]float64, N)
	E = make([]float64, N)
	dx := (x_max - x_min) / float64(N-1)
	for i := range X {
		X[i] = x_min + float64(i)*dx
		if Rho[i], U[i], P[i], E[i], err = s.At(X[i], t); err != nil {
			return
		}
	}
	return
}

// fzero finds the root of an increasing f inside [lo, hi] with secant steps,
// bisecting whenever a step leaves the bracket
func fzero(f func(P float64) (y float64), lo, hi float64) (x float64, err error) {
	var (
		tol      = 1.e-12
		fLo, fHi = f(lo), f(hi)
	)
	for iter := 0; iter < 200; iter++ {
		x = lo - fLo*(hi-lo)/(fHi-fLo)
		if !(x > lo && x < hi) {
			x = 0.5 * (lo + hi)
		}
		fx := f(x)
		if math.Abs(fx) < tol || hi-lo < tol*math.Abs(x) {
			return
		}
		if fx < 0 {
			lo, fLo = x, fx
		} else {
			hi, fHi = x, fx
		}
		// Keep the secant from stalling on one end
		if iter%4 == 3 {
			mid := 0.5 * (lo + hi)
			if fm := f(mid); fm < 0 {
				lo, fLo = mid, fm
			} else {
				hi, fHi = mid, fm
			}
		}
	}
	return x, fmt.Errorf("no convergence finding the star pressure in [%g, %g]", lo, hi)
}
