package eos

import (
	"fmt"
	"math"
)

const rootMaxIter = 200

// brent finds a zero of f inside [a, b], which must bracket a sign change.
// A NaN from f aborts the search.
func brent(f func(x float64) float64, a, b, tol float64) (x float64, err error) {
	var (
		fa, fb = f(a), f(b)
		c, fc  float64
		d, e   float64
	)
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return 0, fmt.Errorf("%w: function undefined at bracket [%g, %g]", ErrNoConvergence, a, b)
	}
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if (fa > 0) == (fb > 0) {
		return 0, fmt.Errorf("%w: [%g, %g] does not bracket a root", ErrOutOfRange, a, b)
	}
	c, fc = b, fb
	for iter := 0; iter < rootMaxIter; iter++ {
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}
		tol1 := 2*1.e-16*math.Abs(b) + 0.5*tol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}
		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// Inverse quadratic interpolation, falling back to secant
			var p, q, r float64
			s := fb / fa
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r = fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}
		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		if fb = f(b); math.IsNaN(fb) {
			return 0, fmt.Errorf("%w: function undefined at %g", ErrNoConvergence, b)
		}
	}
	return b, fmt.Errorf("%w: brent exceeded %d iterations", ErrNoConvergence, rootMaxIter)
}

// solveIncreasing finds x with f(x) = 0 for a monotonically increasing f, widening
// [lo, hi] geometrically inside [floor, ceiling] until the root is bracketed.
func solveIncreasing(f func(x float64) float64, lo, hi, floor, ceiling, tol float64) (x float64, err error) {
	for tries := 0; f(lo) > 0; tries++ {
		if lo <= floor || tries > 60 {
			return 0, fmt.Errorf("%w: no root above %g", ErrOutOfRange, lo)
		}
		lo = math.Max(floor, 0.5*lo)
	}
	for tries := 0; f(hi) < 0; tries++ {
		if hi >= ceiling || tries > 60 {
			return 0, fmt.Errorf("%w: no root below %g", ErrOutOfRange, hi)
		}
		hi = math.Min(ceiling, 2*hi)
	}
	return brent(f, lo, hi, tol)
}

// solveCubic returns the real roots of x^3 + a*x^2 + b*x + c in ascending order
func solveCubic(a, b, c float64) (roots []float64) {
	var (
		Q  = (a*a - 3*b) / 9
		R  = (2*a*a*a - 9*a*b + 27*c) / 54
		Q3 = Q * Q * Q
	)
	if R*R < Q3 {
		theta := math.Acos(R / math.Sqrt(Q3))
		sq := -2 * math.Sqrt(Q)
		roots = []float64{
			sq*math.Cos(theta/3) - a/3,
			sq*math.Cos((theta+2*math.Pi)/3) - a/3,
			sq*math.Cos((theta-2*math.Pi)/3) - a/3,
		}
	} else {
		A := -math.Copysign(math.Cbrt(math.Abs(R)+math.Sqrt(R*R-Q3)), R)
		var B float64
		if A != 0 {
			B = Q / A
		}
		roots = []float64{(A + B) - a/3}
	}
	// polish against round-off
	for i, x := range roots {
		for n := 0; n < 2; n++ {
			fx := ((x+a)*x+b)*x + c
			dfx := (3*x+2*a)*x + b
			if dfx == 0 {
				break
			}
			x -= fx / dfx
		}
		roots[i] = x
	}
	for i := 1; i < len(roots); i++ {
		for j := i; j > 0 && roots[j] < roots[j-1]; j-- {
			roots[j], roots[j-1] = roots[j-1], roots[j]
		}
	}
	return
}
