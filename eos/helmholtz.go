package eos

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

// HelmholtzState evaluates a fluid from its Helmholtz energy: an ideal gas part
// with a polynomial heat capacity plus the Peng-Robinson residual part. States
// inside the vapor-liquid dome are resolved as equilibrium mixtures.
type HelmholtzState struct {
	backend string
	cubic   cubic
	closed  bool

	valid bool
	phase Phase
	pt    point    // single phase point, or the metastable point at (rho, T) when two-phase
	mix   *mixture // non-nil when two-phase
}

// mixture is an equilibrium vapor-liquid state at fixed overall density
type mixture struct {
	sat      SatPoint
	liq, vap point
	Q        float64 // vapor mass fraction
	U, S, H  float64
	Cp, Cv   float64
}

func newHelmholtzState(backend string, fl *Fluid) AbstractState {
	return &HelmholtzState{
		backend: backend,
		cubic:   newCubic(fl),
	}
}

func (hs *HelmholtzState) Update(pair InputPair, value1, value2 float64) (err error) {
	if hs.closed {
		return ErrClosed
	}
	if math.IsNaN(value1) || math.IsNaN(value2) || math.IsInf(value1, 0) || math.IsInf(value2, 0) {
		return fmt.Errorf("%w: %s inputs %g, %g", ErrOutOfRange, pair, value1, value2)
	}
	hs.valid = false
	switch pair {
	case DmassUmassInputs:
		err = hs.updateDmassUmass(value1, value2)
	case PTInputs:
		err = hs.updatePT(value1, value2)
	case DmassPInputs:
		err = hs.updateDmassP(value1, value2)
	case HmassSmassInputs:
		err = hs.updateHmassSmass(value1, value2)
	case PSmassInputs:
		err = hs.updatePSmass(value1, value2)
	case DmassTInputs:
		err = hs.updateDmassT(value1, value2)
	default:
		err = fmt.Errorf("%w: unsupported input pair %s", ErrOutOfRange, pair)
	}
	if err != nil {
		return fmt.Errorf("%s update with %s = (%g, %g): %w", hs.backend, pair, value1, value2, err)
	}
	return
}

func (hs *HelmholtzState) setSingle(rho, T float64) (err error) {
	if hs.pt, err = hs.cubic.eval(rho, T); err != nil {
		return
	}
	hs.mix = nil
	hs.phase = hs.classify(hs.pt)
	hs.valid = true
	return
}

func (hs *HelmholtzState) setTwoPhase(rho, T float64) (err error) {
	var m *mixture
	if m, err = hs.mixture(rho, T); err != nil {
		return
	}
	// The metastable point carries the volumetric derivatives of the mixture
	if hs.pt, err = hs.cubic.eval(rho, T); err != nil {
		return
	}
	if m.Cv, err = hs.mixtureCv(rho, T); err != nil {
		return
	}
	hs.mix = m
	hs.phase = PhaseTwoPhase
	hs.valid = true
	return
}

func (hs *HelmholtzState) classify(pt point) Phase {
	var (
		fl = hs.cubic.fl
	)
	switch {
	case pt.T > fl.TCritical && pt.P > fl.PCritical:
		return PhaseSupercritical
	case pt.T > fl.TCritical:
		return PhaseSupercriticalGas
	case pt.P > fl.PCritical:
		return PhaseSupercriticalLiquid
	case pt.Rho > hs.cubic.rhoCritical():
		return PhaseLiquid
	default:
		return PhaseGas
	}
}

// mixture evaluates the lever rule at (rho, T). The quality is not clamped so
// that derivatives can be taken across the edge of the dome.
func (hs *HelmholtzState) mixture(rho, T float64) (m *mixture, err error) {
	m = &mixture{}
	if m.sat, err = hs.cubic.saturation(T); err != nil {
		return
	}
	if m.liq, err = hs.cubic.eval(m.sat.RhoL, T); err != nil {
		return
	}
	if m.vap, err = hs.cubic.eval(m.sat.RhoV, T); err != nil {
		return
	}
	m.Q = (1/rho - 1/m.sat.RhoL) / (1/m.sat.RhoV - 1/m.sat.RhoL)
	m.U = m.liq.U + m.Q*(m.vap.U-m.liq.U)
	m.S = m.liq.S + m.Q*(m.vap.S-m.liq.S)
	m.H = m.liq.H + m.Q*(m.vap.H-m.liq.H)
	m.Cp = m.liq.Cp + m.Q*(m.vap.Cp-m.liq.Cp)
	return
}

func (hs *HelmholtzState) mixtureDT(rho, T float64, prop func(m *mixture) float64) (d float64, err error) {
	d = fd.Derivative(func(t float64) float64 {
		m, err := hs.mixture(rho, t)
		if err != nil {
			return math.NaN()
		}
		return prop(m)
	}, T, &fd.Settings{
		Formula: fd.Central,
		Step:    1.e-5 * T,
	})
	if math.IsNaN(d) {
		return 0, fmt.Errorf("%w: two-phase temperature derivative at rho = %g, T = %g", ErrNoConvergence, rho, T)
	}
	return
}

func (hs *HelmholtzState) mixtureCv(rho, T float64) (float64, error) {
	return hs.mixtureDT(rho, T, func(m *mixture) float64 { return m.U })
}

func (hs *HelmholtzState) solveTSingle(rho float64, prop func(pt point) float64, target float64) (T float64, err error) {
	var (
		fl = hs.cubic.fl
	)
	return solveIncreasing(func(T float64) float64 {
		pt, err := hs.cubic.eval(rho, T)
		if err != nil {
			return math.NaN()
		}
		return prop(pt) - target
	}, 0.5*fl.TTriple, 2*fl.TCritical, 1., 1.e5, 1.e-10)
}

func (hs *HelmholtzState) updateDmassUmass(rho, e float64) (err error) {
	var (
		tMin = hs.cubic.fl.TTriple
	)
	if !(rho > 0) || rho >= hs.cubic.rhoMax() {
		return fmt.Errorf("%w: density %g", ErrOutOfRange, rho)
	}
	// A metastable solution outside the dome is the stable one. Inside the dome
	// the metastable branch may not reach e at all.
	T, errSingle := hs.solveTSingle(rho, func(pt point) float64 { return pt.U }, e)
	if errSingle == nil && T >= tMin {
		if _, inside := hs.inDome(rho, T); !inside {
			return hs.setSingle(rho, T)
		}
	}
	tb, ok, err := hs.cubic.domeBoundary(rho)
	if err != nil {
		return
	}
	if ok {
		var pb point
		if pb, err = hs.cubic.eval(rho, tb); err != nil {
			return
		}
		if e < pb.U {
			if T, err = brent(func(T float64) float64 {
				m, err := hs.mixture(rho, T)
				if err != nil {
					return math.NaN()
				}
				return m.U - e
			}, tMin, tb, 1.e-10); err != nil {
				return
			}
			return hs.setTwoPhase(rho, T)
		}
	}
	if errSingle != nil {
		return errSingle
	}
	return hs.setSingle(rho, T)
}

func (hs *HelmholtzState) updatePT(P, T float64) (err error) {
	var rho float64
	if rho, err = hs.cubic.rhoPT(P, T, pickStable); err != nil {
		return
	}
	return hs.setSingle(rho, T)
}

// inDome reports the saturation state at T when rho lies strictly inside it
func (hs *HelmholtzState) inDome(rho, T float64) (sp SatPoint, ok bool) {
	if T < hs.cubic.fl.TTriple || T >= hs.cubic.tSatMax() {
		return
	}
	sp, err := hs.cubic.saturation(T)
	if err != nil {
		return
	}
	return sp, rho > sp.RhoV && rho < sp.RhoL
}

func (hs *HelmholtzState) updateDmassT(rho, T float64) (err error) {
	if _, ok := hs.inDome(rho, T); ok {
		return hs.setTwoPhase(rho, T)
	}
	return hs.setSingle(rho, T)
}

func (hs *HelmholtzState) updateDmassP(rho, P float64) (err error) {
	if !(rho > 0) || rho >= hs.cubic.rhoMax() {
		return fmt.Errorf("%w: density %g", ErrOutOfRange, rho)
	}
	if sp, err := hs.cubic.saturationP(P); err == nil {
		if rho > sp.RhoV && rho < sp.RhoL {
			return hs.setTwoPhase(rho, sp.T)
		}
	}
	T, err := hs.solveTSingle(rho, func(pt point) float64 { return pt.P }, P)
	if err != nil {
		return
	}
	return hs.setSingle(rho, T)
}

func (hs *HelmholtzState) updatePSmass(P, s float64) (err error) {
	var (
		fl     = hs.cubic.fl
		lo, hi = 0.5 * fl.TTriple, 2 * fl.TCritical
		pick   = pickStable
	)
	if !(P > 0) {
		return fmt.Errorf("%w: pressure %g", ErrOutOfRange, P)
	}
	if sp, err := hs.cubic.saturationP(P); err == nil {
		var liq, vap point
		if liq, err = hs.cubic.eval(sp.RhoL, sp.T); err != nil {
			return err
		}
		if vap, err = hs.cubic.eval(sp.RhoV, sp.T); err != nil {
			return err
		}
		switch {
		case s > liq.S && s < vap.S:
			q := (s - liq.S) / (vap.S - liq.S)
			rho := 1 / (q/sp.RhoV + (1-q)/sp.RhoL)
			return hs.setTwoPhase(rho, sp.T)
		case s <= liq.S:
			hi, pick = sp.T, pickLiquid
		default:
			lo, pick = sp.T, pickVapor
		}
	}
	f := func(T float64) float64 {
		rho, err := hs.cubic.rhoPT(P, T, pick)
		if err != nil {
			return math.NaN()
		}
		pt, err := hs.cubic.eval(rho, T)
		if err != nil {
			return math.NaN()
		}
		return pt.S - s
	}
	var T float64
	if pick == pickLiquid {
		T, err = brent(f, lo, hi, 1.e-10)
	} else {
		T, err = solveIncreasing(f, lo, hi, 1., 1.e5, 1.e-10)
	}
	if err != nil {
		return
	}
	rho, err := hs.cubic.rhoPT(P, T, pick)
	if err != nil {
		return
	}
	return hs.setSingle(rho, T)
}

// rhoFromST inverts s(rho, T), which falls monotonically with density
func (hs *HelmholtzState) rhoFromST(s, T float64) (rho float64, err error) {
	var (
		rMax = hs.cubic.rhoMax()
	)
	lnRho, err := brent(func(lnRho float64) float64 {
		pt, err := hs.cubic.eval(math.Exp(lnRho), T)
		if err != nil {
			return math.NaN()
		}
		return s - pt.S
	}, math.Log(1.e-12*rMax), math.Log(rMax*(1-1.e-9)), 1.e-13)
	if err != nil {
		return
	}
	return math.Exp(lnRho), nil
}

func (hs *HelmholtzState) updateHmassSmass(h, s float64) (err error) {
	var (
		fl = hs.cubic.fl
	)
	T, err := solveIncreasing(func(T float64) float64 {
		rho, err := hs.rhoFromST(s, T)
		if err != nil {
			return math.NaN()
		}
		pt, err := hs.cubic.eval(rho, T)
		if err != nil {
			return math.NaN()
		}
		return pt.H - h
	}, 0.5*fl.TTriple, 2*fl.TCritical, 1., 1.e5, 1.e-10)
	if err != nil {
		return
	}
	rho, err := hs.rhoFromST(s, T)
	if err != nil {
		return
	}
	if _, inside := hs.inDome(rho, T); inside {
		return ErrTwoPhaseUnsupported
	}
	return hs.setSingle(rho, T)
}

func (hs *HelmholtzState) nan(v float64) float64 {
	if !hs.valid {
		return math.NaN()
	}
	return v
}

func (hs *HelmholtzState) Cpmass() float64 {
	if hs.mix != nil {
		return hs.nan(hs.mix.Cp)
	}
	return hs.nan(hs.pt.Cp)
}

func (hs *HelmholtzState) Cvmass() float64 {
	if hs.mix != nil {
		return hs.nan(hs.mix.Cv)
	}
	return hs.nan(hs.pt.Cv)
}

func (hs *HelmholtzState) P() float64 {
	if hs.mix != nil {
		return hs.nan(hs.mix.sat.P)
	}
	return hs.nan(hs.pt.P)
}

func (hs *HelmholtzState) T() float64       { return hs.nan(hs.pt.T) }
func (hs *HelmholtzState) Rhomass() float64 { return hs.nan(hs.pt.Rho) }

func (hs *HelmholtzState) Smass() float64 {
	if hs.mix != nil {
		return hs.nan(hs.mix.S)
	}
	return hs.nan(hs.pt.S)
}

func (hs *HelmholtzState) Hmass() float64 {
	if hs.mix != nil {
		return hs.nan(hs.mix.H)
	}
	return hs.nan(hs.pt.H)
}

func (hs *HelmholtzState) Umass() float64 {
	if hs.mix != nil {
		return hs.nan(hs.mix.U)
	}
	return hs.nan(hs.pt.U)
}

// SpeedSound is undefined for two-phase states and inside the spinodal
func (hs *HelmholtzState) SpeedSound() float64 {
	if hs.mix != nil || hs.pt.W2 < 0 {
		return math.NaN()
	}
	return hs.nan(math.Sqrt(hs.pt.W2))
}

func (hs *HelmholtzState) Phase() Phase {
	if !hs.valid {
		return PhaseUnknown
	}
	return hs.phase
}

// gradient returns d/drho at constant T and d/dT at constant rho
func (hs *HelmholtzState) gradient(p Parameter) (dRho, dT float64, err error) {
	var (
		pt  = hs.pt
		M   = hs.cubic.fl.MolarMass
		rho = pt.Rho
		r2  = rho * rho
	)
	switch p {
	case IT:
		return 0, 1, nil
	case IDmass:
		return 1, 0, nil
	}
	if m := hs.mix; m != nil {
		dQdRho := -(1 / r2) / (1/m.sat.RhoV - 1/m.sat.RhoL)
		switch p {
		case IP:
			// Clausius-Clapeyron
			return 0, (m.vap.S - m.liq.S) / (1/m.sat.RhoV - 1/m.sat.RhoL), nil
		case IUmass:
			return (m.vap.U - m.liq.U) * dQdRho, m.Cv, nil
		case ISmass:
			dT, err = hs.mixtureDT(rho, pt.T, func(m *mixture) float64 { return m.S })
			return (m.vap.S - m.liq.S) * dQdRho, dT, err
		case IHmass:
			dT, err = hs.mixtureDT(rho, pt.T, func(m *mixture) float64 { return m.H })
			return (m.vap.H - m.liq.H) * dQdRho, dT, err
		}
		return 0, 0, fmt.Errorf("%w: parameter %s", ErrInvalidDerivative, p)
	}
	dPdRho := pt.DPDRho(M)
	switch p {
	case IP:
		return dPdRho, pt.DPDT, nil
	case IUmass:
		return -(pt.T*pt.DPDT - pt.P) / r2, pt.Cv, nil
	case ISmass:
		return -pt.DPDT / r2, pt.Cv / pt.T, nil
	case IHmass:
		return -pt.T*pt.DPDT/r2 + dPdRho/rho, pt.Cv + pt.DPDT/rho, nil
	}
	return 0, 0, fmt.Errorf("%w: parameter %s", ErrInvalidDerivative, p)
}

func (hs *HelmholtzState) FirstPartialDeriv(of, wrt, constant Parameter) (d float64, err error) {
	if !hs.valid {
		return 0, ErrNoState
	}
	var (
		aR, aT, bR, bT, cR, cT float64
	)
	if aR, aT, err = hs.gradient(of); err != nil {
		return
	}
	if bR, bT, err = hs.gradient(wrt); err != nil {
		return
	}
	if cR, cT, err = hs.gradient(constant); err != nil {
		return
	}
	den := bR*cT - bT*cR
	if den == 0 || math.IsNaN(den) {
		return 0, fmt.Errorf("%w: d%s/d%s at constant %s", ErrInvalidDerivative, of, wrt, constant)
	}
	return (aR*cT - aT*cR) / den, nil
}

func (hs *HelmholtzState) GasConstant() float64    { return RUniversal }
func (hs *HelmholtzState) MolarMass() float64      { return hs.cubic.fl.MolarMass }
func (hs *HelmholtzState) PCritical() float64      { return hs.cubic.fl.PCritical }
func (hs *HelmholtzState) TCritical() float64      { return hs.cubic.fl.TCritical }
func (hs *HelmholtzState) AcentricFactor() float64 { return hs.cubic.fl.AcentricFactor }
func (hs *HelmholtzState) Tmin() float64           { return hs.cubic.fl.TTriple }
func (hs *HelmholtzState) Tmax() float64           { return hs.cubic.fl.TMax }
func (hs *HelmholtzState) Pmax() float64           { return hs.cubic.fl.PMax }
func (hs *HelmholtzState) FluidName() string       { return hs.cubic.fl.Name }
func (hs *HelmholtzState) BackendName() string     { return hs.backend }

func (hs *HelmholtzState) Close() error {
	hs.closed = true
	hs.valid = false
	hs.mix = nil
	return nil
}
