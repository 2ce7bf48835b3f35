package eos

import (
	"fmt"
	"math"
)

// Peng-Robinson constants. The critical compressibility is a property of the
// cubic itself, not of the fluid.
const (
	prOmegaA = 0.45723552892
	prOmegaB = 0.07779607390
	prZc     = 0.30740130869
	// Saturation is not attempted closer than this to the critical temperature
	tSatRelMax = 0.9999
)

// cubic is the Peng-Robinson residual Helmholtz energy of one fluid, evaluated on
// the molar volume v.
type cubic struct {
	fl          *Fluid
	b, ac, kapp float64
}

func newCubic(fl *Fluid) (c cubic) {
	var (
		w = fl.AcentricFactor
	)
	c = cubic{
		fl:   fl,
		b:    prOmegaB * RUniversal * fl.TCritical / fl.PCritical,
		ac:   prOmegaA * RUniversal * RUniversal * fl.TCritical * fl.TCritical / fl.PCritical,
		kapp: 0.37464 + 1.54226*w - 0.26992*w*w,
	}
	return
}

// attraction returns a(T) and its first two temperature derivatives
func (c cubic) attraction(T float64) (a, da, d2a float64) {
	var (
		Tc  = c.fl.TCritical
		sTc = math.Sqrt(T * Tc)
		g   = 1 + c.kapp*(1-math.Sqrt(T/Tc))
		gp  = -c.kapp / (2 * sTc)
		gpp = c.kapp / (4 * T * sTc)
	)
	a = c.ac * g * g
	da = 2 * c.ac * g * gp
	d2a = 2 * c.ac * (gp*gp + g*gpp)
	return
}

func (c cubic) rhoMax() float64 {
	return c.fl.MolarMass / c.b
}

func (c cubic) rhoCritical() float64 {
	return c.fl.MolarMass * c.fl.PCritical / (prZc * RUniversal * c.fl.TCritical)
}

func (c cubic) tSatMax() float64 {
	return tSatRelMax * c.fl.TCritical
}

// point is a single phase evaluation at (Rho, T). Extensive quantities are mass
// specific, DPDV is taken on the molar volume.
type point struct {
	Rho, T, V  float64
	P          float64
	DPDT, DPDV float64
	U, S, H    float64
	Cv, Cp     float64
	W2         float64 // speed of sound squared, negative inside the spinodal
}

// DPDRho is dP/drho at constant T
func (pt point) DPDRho(M float64) float64 {
	return -pt.V * pt.V / M * pt.DPDV
}

func (c cubic) eval(rho, T float64) (pt point, err error) {
	if !(rho > 0) || !(T > 0) || math.IsInf(rho, 0) || math.IsInf(T, 0) {
		return pt, fmt.Errorf("%w: rho = %g, T = %g", ErrOutOfRange, rho, T)
	}
	var (
		R        = RUniversal
		M        = c.fl.MolarMass
		b        = c.b
		v        = M / rho
		a, da, d = c.attraction(T)
	)
	if v <= b {
		return pt, fmt.Errorf("%w: density %g exceeds the co-volume limit %g", ErrOutOfRange, rho, c.rhoMax())
	}
	var (
		D    = v*v + 2*b*v - b*b
		L    = math.Log((v + (1+math.Sqrt2)*b) / (v + (1-math.Sqrt2)*b))
		k    = 1 / (2 * math.Sqrt2 * b)
		uRes = (T*da - a) * k * L
		sRes = R*math.Log(1-b/v) + da*k*L
		cvR  = T * d * k * L
		u0   = c.fl.h0(T) - R*T
		s0   = c.fl.s0T(T) - R*math.Log(R*T/(v*PRef))
	)
	pt = point{
		Rho:  rho,
		T:    T,
		V:    v,
		P:    R*T/(v-b) - a/D,
		DPDT: R/(v-b) - da/D,
		DPDV: -R*T/((v-b)*(v-b)) + a*(2*v+2*b)/(D*D),
	}
	cv := c.fl.cp0(T) - R + cvR
	cp := cv - T*pt.DPDT*pt.DPDT/pt.DPDV
	pt.U = (u0 + uRes) / M
	pt.S = (s0 + sRes) / M
	pt.H = pt.U + pt.P/rho
	pt.Cv = cv / M
	pt.Cp = cp / M
	pt.W2 = -v * v / M * (cp / cv) * pt.DPDV
	return
}

// zRoots returns the compressibility roots above the co-volume at (T, P), ascending
func (c cubic) zRoots(T, P float64) (zs []float64, A, B float64) {
	var (
		RT      = RUniversal * T
		a, _, _ = c.attraction(T)
	)
	A = a * P / (RT * RT)
	B = c.b * P / RT
	for _, z := range solveCubic(-(1 - B), A-3*B*B-2*B, -(A*B - B*B - B*B*B)) {
		if z > B {
			zs = append(zs, z)
		}
	}
	return
}

func lnPhi(z, A, B float64) float64 {
	return z - 1 - math.Log(z-B) -
		A/(2*math.Sqrt2*B)*math.Log((z+(1+math.Sqrt2)*B)/(z+(1-math.Sqrt2)*B))
}

type rootPick uint8

const (
	pickStable rootPick = iota
	pickLiquid
	pickVapor
)

// rhoPT returns the density of the requested root of the cubic at (P, T)
func (c cubic) rhoPT(P, T float64, pick rootPick) (rho float64, err error) {
	if !(P > 0) || !(T > 0) {
		return 0, fmt.Errorf("%w: P = %g, T = %g", ErrOutOfRange, P, T)
	}
	zs, A, B := c.zRoots(T, P)
	if len(zs) == 0 {
		return 0, fmt.Errorf("%w: no physical root at P = %g, T = %g", ErrNoConvergence, P, T)
	}
	z := zs[0]
	switch pick {
	case pickVapor:
		z = zs[len(zs)-1]
	case pickStable:
		lnMin := lnPhi(z, A, B)
		for _, zz := range zs[1:] {
			if l := lnPhi(zz, A, B); l < lnMin {
				z, lnMin = zz, l
			}
		}
	}
	rho = c.fl.MolarMass * P / (z * RUniversal * T)
	return
}
