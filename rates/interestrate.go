package rates

import (
	"math"
	"time"

	"github.com/meenmo/almlib/errs"
)

// RateDefinition bundles the conventions a rate is quoted under.
type RateDefinition struct {
	DayCount    DayCount
	Compounding Compounding
	Frequency   Frequency
}

// DefaultRateDefinition is (ACT/360, Simple, Annual), the money-market default.
func DefaultRateDefinition() RateDefinition {
	return RateDefinition{DayCount: Act360, Compounding: Simple, Frequency: Annual}
}

// InterestRate is a rate value together with its quoting conventions.
type InterestRate struct {
	Rate float64
	Def  RateDefinition
}

// NewInterestRate builds a rate from explicit conventions.
func NewInterestRate(rate float64, dc DayCount, comp Compounding, freq Frequency) InterestRate {
	return InterestRate{Rate: rate, Def: RateDefinition{DayCount: dc, Compounding: comp, Frequency: freq}}
}

// FromRateDefinition builds a rate from a bundled definition.
func FromRateDefinition(rate float64, def RateDefinition) InterestRate {
	return InterestRate{Rate: rate, Def: def}
}

// CompoundFactorFromYF returns the growth factor of one unit over a year fraction.
func (ir InterestRate) CompoundFactorFromYF(t float64) float64 {
	r := ir.Rate
	f := float64(ir.Def.Frequency)
	switch ir.Def.Compounding {
	case Simple:
		return 1.0 + r*t
	case Compounded:
		return math.Pow(1.0+r/f, f*t)
	case Continuous:
		return math.Exp(r * t)
	case SimpleThenCompounded:
		if t <= 1.0/f {
			return 1.0 + r*t
		}
		return math.Pow(1.0+r/f, f*t)
	case CompoundedThenSimple:
		if t <= 1.0/f {
			return math.Pow(1.0+r/f, f*t)
		}
		return 1.0 + r*t
	default:
		panic("InterestRate: unknown compounding " + string(ir.Def.Compounding))
	}
}

// CompoundFactor computes the growth factor between two dates under the
// rate's day count.
func (ir InterestRate) CompoundFactor(start, end time.Time) float64 {
	return ir.CompoundFactorFromYF(ir.Def.DayCount.YearFraction(start, end))
}

// DiscountFactor is the inverse compound factor between two dates.
func (ir InterestRate) DiscountFactor(start, end time.Time) float64 {
	return 1.0 / ir.CompoundFactor(start, end)
}

// ImpliedRate inverts a compound factor over a year fraction into a rate
// quoted under (dc, comp, freq).
//
// A unit compound factor maps to a zero rate for any non-negative time.
func ImpliedRate(compound float64, dc DayCount, comp Compounding, freq Frequency, t float64) (InterestRate, error) {
	if compound <= 0.0 {
		return InterestRate{}, errs.InvalidValue("positive compound factor required, got %v", compound)
	}

	var r float64
	f := float64(freq)
	if compound == 1.0 {
		if t < 0.0 {
			return InterestRate{}, errs.InvalidValue("non-negative time required, got %v", t)
		}
		r = 0.0
	} else {
		if t <= 0.0 {
			return InterestRate{}, errs.InvalidValue("positive time required, got %v", t)
		}
		switch comp {
		case Simple:
			r = (compound - 1.0) / t
		case Compounded:
			r = (math.Pow(compound, 1.0/(f*t)) - 1.0) * f
		case Continuous:
			r = math.Log(compound) / t
		case SimpleThenCompounded:
			if t <= 1.0/f {
				r = (compound - 1.0) / t
			} else {
				r = (math.Pow(compound, 1.0/(f*t)) - 1.0) * f
			}
		case CompoundedThenSimple:
			if t <= 1.0/f {
				r = (math.Pow(compound, 1.0/(f*t)) - 1.0) * f
			} else {
				r = (compound - 1.0) / t
			}
		default:
			return InterestRate{}, errs.InvalidValue("unknown compounding %q", comp)
		}
	}
	return NewInterestRate(r, dc, comp, freq), nil
}
