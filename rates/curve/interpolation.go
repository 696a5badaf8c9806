package curve

import (
	"math"
	"sort"

	"github.com/meenmo/almlib/errs"
)

// Interpolator selects the interpolation scheme over (year fraction, value)
// nodes. LogLinear interpolates the logarithm of the values, the market
// convention for discount factor grids.
type Interpolator string

const (
	Linear    Interpolator = "LINEAR"
	LogLinear Interpolator = "LOGLINEAR"
)

// Interpolate evaluates the scheme at x over ascending xs. Outside the node
// range it extrapolates with the boundary segment slope when extrapolate is
// set, and fails with ErrInvalidValue otherwise.
func (ip Interpolator) Interpolate(x float64, xs, ys []float64, extrapolate bool) (float64, error) {
	if len(xs) != len(ys) {
		return 0, errs.InvalidValue("interpolation nodes mismatch: %d xs vs %d ys", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return 0, errs.InvalidValue("empty interpolation nodes")
	}
	if len(xs) == 1 {
		return ys[0], nil
	}
	if (x < xs[0] || x > xs[len(xs)-1]) && !extrapolate {
		return 0, errs.InvalidValue("interpolation point %v outside range [%v, %v]", x, xs[0], xs[len(xs)-1])
	}

	// Segment index: first node strictly greater than x, clamped to the
	// boundary segments for extrapolation.
	i := sort.SearchFloat64s(xs, x)
	if i <= 0 {
		i = 1
	}
	if i >= len(xs) {
		i = len(xs) - 1
	}
	x1, x2 := xs[i-1], xs[i]
	y1, y2 := ys[i-1], ys[i]
	if x2 == x1 {
		return y1, nil
	}

	w := (x - x1) / (x2 - x1)
	switch ip {
	case LogLinear:
		if y1 <= 0 || y2 <= 0 {
			return 0, errs.InvalidValue("log-linear interpolation requires positive values")
		}
		return math.Exp((1-w)*math.Log(y1) + w*math.Log(y2)), nil
	case Linear:
		return (1-w)*y1 + w*y2, nil
	default:
		return 0, errs.InvalidValue("unknown interpolator %q", ip)
	}
}
