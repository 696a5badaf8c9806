// Package mathx holds the one dimensional root finding used by the par
// value and IRR solvers.
package mathx

import (
	"math"

	"github.com/meenmo/almlib/errs"
)

const maxBrentIterations = 200

// Brent finds a root of f inside [a, b]. The endpoints must bracket a sign
// change.
func Brent(f func(float64) (float64, error), a, b, tol float64) (float64, error) {
	fa, err := f(a)
	if err != nil {
		return 0, err
	}
	fb, err := f(b)
	if err != nil {
		return 0, err
	}
	if fa*fb > 0 {
		return 0, errs.Solver("Brent: root not bracketed in [%v, %v]", a, b)
	}
	if math.Abs(fa) < math.Abs(fb) {
		a, b = b, a
		fa, fb = fb, fa
	}

	c, fc := a, fa
	d := b - a
	mflag := true
	for i := 0; i < maxBrentIterations; i++ {
		if fb == 0 || math.Abs(b-a) < tol {
			return b, nil
		}

		var s float64
		if fa != fc && fb != fc {
			// Inverse quadratic interpolation.
			s = a*fb*fc/((fa-fb)*(fa-fc)) +
				b*fa*fc/((fb-fa)*(fb-fc)) +
				c*fa*fb/((fc-fa)*(fc-fb))
		} else {
			// Secant step.
			s = b - fb*(b-a)/(fb-fa)
		}

		lo, hi := (3*a+b)/4, b
		if lo > hi {
			lo, hi = hi, lo
		}
		bisect := s < lo || s > hi ||
			(mflag && math.Abs(s-b) >= math.Abs(b-c)/2) ||
			(!mflag && math.Abs(s-b) >= math.Abs(c-d)/2) ||
			(mflag && math.Abs(b-c) < tol) ||
			(!mflag && math.Abs(c-d) < tol)
		if bisect {
			s = (a + b) / 2
			mflag = true
		} else {
			mflag = false
		}

		fs, err := f(s)
		if err != nil {
			return 0, err
		}
		d = c
		c, fc = b, fb
		if fa*fs < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}
		if math.Abs(fa) < math.Abs(fb) {
			a, b = b, a
			fa, fb = fb, fa
		}
	}
	return 0, errs.Solver("Brent: no convergence after %d iterations", maxBrentIterations)
}

// SolveWithExpansion brackets a root starting from [a, b], doubling the
// bracket around its midpoint while both endpoints share a sign. Expansion
// gives up once either bound passes limit in magnitude.
func SolveWithExpansion(f func(float64) (float64, error), a, b, tol, limit float64) (float64, error) {
	fa, err := f(a)
	if err != nil {
		return 0, err
	}
	fb, err := f(b)
	if err != nil {
		return 0, err
	}
	for fa*fb > 0 {
		if math.Abs(a) > limit || math.Abs(b) > limit {
			return 0, errs.Evaluation("solve: no sign change within [%v, %v]", a, b)
		}
		mid := (a + b) / 2
		half := b - a
		a = mid - half
		b = mid + half
		if fa, err = f(a); err != nil {
			return 0, err
		}
		if fb, err = f(b); err != nil {
			return 0, err
		}
	}
	return Brent(f, a, b, tol)
}
