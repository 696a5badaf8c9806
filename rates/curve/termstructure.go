// Package curve implements the yield term structure family used by the
// pricing pipeline. All curves share one contract: discount factors anchor to
// a reference date, forward rates derive from discount factor ratios, and
// advancing in time yields a new curve with roll-down semantics
// (DF_new(x) = DF_old(x) / DF_old(new reference date)).
package curve

import (
	"time"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
)

// YieldTermStructure is the uniform curve contract.
//
// DiscountFactor fails with ErrInvalidValue for dates before the reference
// date and returns exactly 1.0 on it. Advancing never mutates the receiver.
type YieldTermStructure interface {
	ReferenceDate() time.Time
	DiscountFactor(d time.Time) (float64, error)
	ForwardRate(start, end time.Time, comp rates.Compounding, freq rates.Frequency) (float64, error)
	AdvanceToDate(d time.Time) (YieldTermStructure, error)
	AdvanceToPeriod(p rates.Period) (YieldTermStructure, error)
}

// forwardFromDiscounts implies the forward rate between two dates from the
// curve's discount factors under the curve's own day count.
func forwardFromDiscounts(ts YieldTermStructure, dc rates.DayCount, start, end time.Time, comp rates.Compounding, freq rates.Frequency) (float64, error) {
	dfStart, err := ts.DiscountFactor(start)
	if err != nil {
		return 0, err
	}
	dfEnd, err := ts.DiscountFactor(end)
	if err != nil {
		return 0, err
	}
	t := dc.YearFraction(start, end)
	ir, err := rates.ImpliedRate(dfStart/dfEnd, dc, comp, freq, t)
	if err != nil {
		return 0, err
	}
	return ir.Rate, nil
}

// daysBetween converts a date gap into a day period for AdvanceToDate.
func daysBetween(ref, d time.Time) (rates.Period, error) {
	if d.Before(ref) {
		return rates.Period{}, errs.InvalidValue("advance target %s before reference date %s",
			d.Format("2006-01-02"), ref.Format("2006-01-02"))
	}
	days := int(d.Sub(ref).Hours() / 24)
	return rates.NewPeriod(days, rates.Days), nil
}
