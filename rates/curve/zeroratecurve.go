package curve

import (
	"time"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
)

// ZeroRateCurve interpolates zero rates quoted under a single rate
// definition. The first node sits on the reference date.
type ZeroRateCurve struct {
	refDate time.Time
	dates   []time.Time
	rates_  []float64
	yfs     []float64
	def     rates.RateDefinition
	interp  Interpolator
}

// NewZeroRateCurve validates and builds a zero rate curve. Dates must be
// strictly ascending starting from the reference date.
func NewZeroRateCurve(dates []time.Time, zeroRates []float64, def rates.RateDefinition, interp Interpolator) (*ZeroRateCurve, error) {
	if len(dates) == 0 || len(dates) != len(zeroRates) {
		return nil, errs.InvalidValue("ZeroRateCurve: need matching non-empty dates and rates, got %d and %d", len(dates), len(zeroRates))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, errs.InvalidValue("ZeroRateCurve: dates must be strictly ascending at index %d", i)
		}
	}
	yfs := make([]float64, len(dates))
	for i, d := range dates {
		yfs[i] = def.DayCount.YearFraction(dates[0], d)
	}
	return &ZeroRateCurve{
		refDate: dates[0],
		dates:   dates,
		rates_:  zeroRates,
		yfs:     yfs,
		def:     def,
		interp:  interp,
	}, nil
}

func (zc *ZeroRateCurve) ReferenceDate() time.Time { return zc.refDate }

// Nodes returns the curve's dates and zero rates.
func (zc *ZeroRateCurve) Nodes() ([]time.Time, []float64) { return zc.dates, zc.rates_ }

// zeroRate interpolates the zero rate at a year fraction, extrapolating flat
// segments beyond the last node.
func (zc *ZeroRateCurve) zeroRate(t float64) (float64, error) {
	return zc.interp.Interpolate(t, zc.yfs, zc.rates_, true)
}

func (zc *ZeroRateCurve) DiscountFactor(d time.Time) (float64, error) {
	if d.Before(zc.refDate) {
		return 0, errs.InvalidValue("ZeroRateCurve: date %s before reference date %s",
			d.Format("2006-01-02"), zc.refDate.Format("2006-01-02"))
	}
	if d.Equal(zc.refDate) {
		return 1.0, nil
	}
	t := zc.def.DayCount.YearFraction(zc.refDate, d)
	r, err := zc.zeroRate(t)
	if err != nil {
		return 0, err
	}
	return 1.0 / rates.FromRateDefinition(r, zc.def).CompoundFactorFromYF(t), nil
}

func (zc *ZeroRateCurve) ForwardRate(start, end time.Time, comp rates.Compounding, freq rates.Frequency) (float64, error) {
	return forwardFromDiscounts(zc, zc.def.DayCount, start, end, comp, freq)
}

// AdvanceToDate rolls the curve down to a later reference date. Zero rates
// at the shifted nodes are re-implied from the discount factor ratio
// DF_old(shifted) / DF_old(new reference), so discounting is consistent with
// the rolled-down discount factors.
func (zc *ZeroRateCurve) AdvanceToDate(d time.Time) (YieldTermStructure, error) {
	p, err := daysBetween(zc.refDate, d)
	if err != nil {
		return nil, errs.InvalidValue("ZeroRateCurve: %v", err)
	}
	return zc.AdvanceToPeriod(p)
}

func (zc *ZeroRateCurve) AdvanceToPeriod(p rates.Period) (YieldTermStructure, error) {
	newRef := p.AddTo(zc.refDate)
	if newRef.Before(zc.refDate) {
		return nil, errs.InvalidValue("ZeroRateCurve: advance target %s before reference date %s",
			newRef.Format("2006-01-02"), zc.refDate.Format("2006-01-02"))
	}
	denomT := zc.def.DayCount.YearFraction(zc.refDate, newRef)
	denomR, err := zc.zeroRate(denomT)
	if err != nil {
		return nil, err
	}
	denom := 1.0 / rates.FromRateDefinition(denomR, zc.def).CompoundFactorFromYF(denomT)

	newDates := make([]time.Time, len(zc.dates))
	newRates := make([]float64, len(zc.dates))
	for i, d := range zc.dates {
		newDates[i] = p.AddTo(d)
		oldT := zc.def.DayCount.YearFraction(zc.refDate, newDates[i])
		r, err := zc.zeroRate(oldT)
		if err != nil {
			return nil, err
		}
		df := 1.0 / rates.FromRateDefinition(r, zc.def).CompoundFactorFromYF(oldT) / denom
		newT := zc.def.DayCount.YearFraction(newRef, newDates[i])
		if newT <= 0 {
			continue
		}
		ir, err := rates.ImpliedRate(1.0/df, zc.def.DayCount, zc.def.Compounding, zc.def.Frequency, newT)
		if err != nil {
			return nil, err
		}
		newRates[i] = ir.Rate
	}
	// The node on the new reference date has no horizon to imply a rate
	// over, so it carries the next node's short rate.
	if len(newRates) > 1 {
		newRates[0] = newRates[1]
	} else {
		newRates[0] = zc.rates_[0]
	}
	return NewZeroRateCurve(newDates, newRates, zc.def, zc.interp)
}
