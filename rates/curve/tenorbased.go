package curve

import (
	"time"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
)

// TenorBasedZeroRateCurve interpolates zero rates pinned to tenors relative
// to the reference date rather than to absolute dates. Rolling it forward
// keeps the shape: a 1Y node stays a 1Y node.
type TenorBasedZeroRateCurve struct {
	refDate     time.Time
	tenors      []rates.Period
	zeroRates   []float64
	yfs         []float64
	def         rates.RateDefinition
	interp      Interpolator
	extrapolate bool
}

// NewTenorBasedZeroRateCurve validates and builds a tenor pinned zero curve.
func NewTenorBasedZeroRateCurve(refDate time.Time, tenors []rates.Period, zeroRates []float64, def rates.RateDefinition, interp Interpolator, extrapolate bool) (*TenorBasedZeroRateCurve, error) {
	if len(tenors) == 0 || len(tenors) != len(zeroRates) {
		return nil, errs.InvalidValue("TenorBasedZeroRateCurve: need matching non-empty tenors and rates, got %d and %d", len(tenors), len(zeroRates))
	}
	yfs := make([]float64, len(tenors))
	for i, tnr := range tenors {
		yfs[i] = def.DayCount.YearFraction(refDate, tnr.AddTo(refDate))
		if i > 0 && yfs[i] <= yfs[i-1] {
			return nil, errs.InvalidValue("TenorBasedZeroRateCurve: tenors must be strictly ascending at index %d", i)
		}
	}
	return &TenorBasedZeroRateCurve{
		refDate:     refDate,
		tenors:      tenors,
		zeroRates:   zeroRates,
		yfs:         yfs,
		def:         def,
		interp:      interp,
		extrapolate: extrapolate,
	}, nil
}

func (tc *TenorBasedZeroRateCurve) ReferenceDate() time.Time { return tc.refDate }

// Nodes returns the curve's tenors and zero rates.
func (tc *TenorBasedZeroRateCurve) Nodes() ([]rates.Period, []float64) {
	return tc.tenors, tc.zeroRates
}

func (tc *TenorBasedZeroRateCurve) DiscountFactor(d time.Time) (float64, error) {
	if d.Before(tc.refDate) {
		return 0, errs.InvalidValue("TenorBasedZeroRateCurve: date %s before reference date %s",
			d.Format("2006-01-02"), tc.refDate.Format("2006-01-02"))
	}
	if d.Equal(tc.refDate) {
		return 1.0, nil
	}
	t := tc.def.DayCount.YearFraction(tc.refDate, d)
	r, err := tc.interp.Interpolate(t, tc.yfs, tc.zeroRates, tc.extrapolate)
	if err != nil {
		return 0, err
	}
	return 1.0 / rates.FromRateDefinition(r, tc.def).CompoundFactorFromYF(t), nil
}

func (tc *TenorBasedZeroRateCurve) ForwardRate(start, end time.Time, comp rates.Compounding, freq rates.Frequency) (float64, error) {
	return forwardFromDiscounts(tc, tc.def.DayCount, start, end, comp, freq)
}

// AdvanceToDate re-anchors the curve. Rates stay pinned to their tenors, so
// the rolled curve is the same shape seen from the later date.
func (tc *TenorBasedZeroRateCurve) AdvanceToDate(d time.Time) (YieldTermStructure, error) {
	if d.Before(tc.refDate) {
		return nil, errs.InvalidValue("TenorBasedZeroRateCurve: advance target %s before reference date %s",
			d.Format("2006-01-02"), tc.refDate.Format("2006-01-02"))
	}
	return NewTenorBasedZeroRateCurve(d, tc.tenors, tc.zeroRates, tc.def, tc.interp, tc.extrapolate)
}

func (tc *TenorBasedZeroRateCurve) AdvanceToPeriod(p rates.Period) (YieldTermStructure, error) {
	return tc.AdvanceToDate(p.AddTo(tc.refDate))
}
