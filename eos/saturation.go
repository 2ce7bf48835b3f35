package eos

import (
	"fmt"
	"math"
)

const (
	satMaxIter = 200
	satTol     = 1.e-11
)

// SatPoint is a vapor-liquid equilibrium point of the cubic
type SatPoint struct {
	T, P       float64
	RhoL, RhoV float64
}

// saturation solves the equal-fugacity condition at T with a damped Newton
// iteration on ln(P), started from the Wilson correlation.
func (c cubic) saturation(T float64) (sp SatPoint, err error) {
	var (
		fl = c.fl
		RT = RUniversal * T
		vc = prZc * RUniversal * fl.TCritical / fl.PCritical
	)
	if !(T > 0) || T > c.tSatMax() {
		return sp, fmt.Errorf("%w: no saturation state at T = %g (Tc = %g)", ErrOutOfRange, T, fl.TCritical)
	}
	var (
		lnP    = math.Log(fl.PCritical) + 5.373*(1+fl.AcentricFactor)*(1-fl.TCritical/T)
		lnPLo  = math.Inf(-1) // P known to be below saturation
		lnPHi  = math.Inf(1)  // P known to be above saturation
		lnNext float64
	)
	for iter := 0; iter < satMaxIter; iter++ {
		P := math.Exp(lnP)
		zs, A, B := c.zRoots(T, P)
		switch {
		case len(zs) == 0:
			return sp, fmt.Errorf("%w: no root during saturation at T = %g", ErrNoConvergence, T)
		case len(zs) == 1:
			// Outside the van der Waals loop: only a liquid root means P is too high
			if zs[0]*RT/P < vc {
				lnPHi = lnP
				lnNext = lnP - 0.2
			} else {
				lnPLo = lnP
				lnNext = lnP + 0.2
			}
		default:
			var (
				zl, zv = zs[0], zs[len(zs)-1]
				dz     = zv - zl
				resid  = lnPhi(zl, A, B) - lnPhi(zv, A, B)
			)
			if math.Abs(resid) < satTol {
				sp = SatPoint{
					T:    T,
					P:    P,
					RhoL: fl.MolarMass * P / (zl * RT),
					RhoV: fl.MolarMass * P / (zv * RT),
				}
				return
			}
			if dz < 1.e-10 {
				return sp, fmt.Errorf("%w: phases merged at T = %g", ErrNoConvergence, T)
			}
			if resid > 0 {
				lnPLo = lnP
			} else {
				lnPHi = lnP
			}
			step := resid / dz
			if math.Abs(step) > 0.5 {
				step = math.Copysign(0.5, step)
			}
			lnNext = lnP + step
		}
		if !(lnNext > lnPLo && lnNext < lnPHi) && !math.IsInf(lnPLo, 0) && !math.IsInf(lnPHi, 0) {
			lnNext = 0.5 * (lnPLo + lnPHi)
		}
		lnP = lnNext
	}
	return sp, fmt.Errorf("%w: saturation at T = %g", ErrNoConvergence, T)
}

// saturationP inverts the vapor pressure curve for T at P
func (c cubic) saturationP(P float64) (sp SatPoint, err error) {
	var (
		tLo = c.fl.TTriple
		tHi = c.tSatMax()
	)
	lo, err := c.saturation(tLo)
	if err != nil {
		return
	}
	hi, err := c.saturation(tHi)
	if err != nil {
		return
	}
	if !(P >= lo.P && P < hi.P) {
		return sp, fmt.Errorf("%w: P = %g outside the vapor pressure range [%g, %g)", ErrOutOfRange, P, lo.P, hi.P)
	}
	lnP := math.Log(P)
	T, err := brent(func(T float64) float64 {
		s, err := c.saturation(T)
		if err != nil {
			return math.NaN()
		}
		return math.Log(s.P) - lnP
	}, tLo, tHi, 1.e-10)
	if err != nil {
		return
	}
	return c.saturation(T)
}

// domeBoundary returns the temperature at which the density rho sits on the
// saturation curve. ok is false when rho never enters the two-phase region
// between the triple point and the critical point.
func (c cubic) domeBoundary(rho float64) (T float64, ok bool, err error) {
	var (
		tLo = c.fl.TTriple
		tHi = c.tSatMax()
	)
	lo, err := c.saturation(tLo)
	if err != nil {
		return
	}
	if rho >= lo.RhoL || rho <= lo.RhoV {
		return 0, false, nil
	}
	hi, err := c.saturation(tHi)
	if err != nil {
		return
	}
	if rho > hi.RhoV && rho < hi.RhoL {
		return tHi, true, nil
	}
	liquidSide := rho >= hi.RhoL
	T, err = brent(func(T float64) float64 {
		s, err := c.saturation(T)
		if err != nil {
			return math.NaN()
		}
		if liquidSide {
			return s.RhoL - rho
		}
		return s.RhoV - rho
	}, tLo, tHi, 1.e-10)
	if err != nil {
		return
	}
	return T, true, nil
}

// SaturationCurve traces the dome between the triple point and the critical
// point on N temperatures.
func SaturationCurve(state AbstractState, N int) (curve []SatPoint, err error) {
	hs, ok := state.(*HelmholtzState)
	if !ok {
		return nil, fmt.Errorf("%w: %s does not expose saturation", ErrUnknownBackend, state.BackendName())
	}
	if N < 2 {
		return nil, fmt.Errorf("need at least 2 points, got %d", N)
	}
	var (
		tLo = hs.cubic.fl.TTriple
		tHi = hs.cubic.tSatMax()
		dT  = (tHi - tLo) / float64(N-1)
	)
	curve = make([]SatPoint, N)
	for i := range curve {
		T := math.Min(tLo+float64(i)*dT, tHi)
		if curve[i], err = hs.cubic.saturation(T); err != nil {
			return nil, err
		}
	}
	return
}
