package curve

import (
	"time"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
)

// DiscountCurve interpolates a grid of discount factors. The first node is
// the reference date and must carry a discount factor of exactly 1.
type DiscountCurve struct {
	refDate     time.Time
	dates       []time.Time
	dfs         []float64
	yfs         []float64
	dayCount    rates.DayCount
	interp      Interpolator
	extrapolate bool
}

// NewDiscountCurve validates and builds a discount factor curve. Dates must
// be strictly ascending and discount factors positive, with dfs[0] == 1.
func NewDiscountCurve(dates []time.Time, dfs []float64, dc rates.DayCount, interp Interpolator) (*DiscountCurve, error) {
	if len(dates) == 0 || len(dates) != len(dfs) {
		return nil, errs.InvalidValue("DiscountCurve: need matching non-empty dates and discount factors, got %d and %d", len(dates), len(dfs))
	}
	if dfs[0] != 1.0 {
		return nil, errs.InvalidValue("DiscountCurve: first discount factor must be 1.0, got %v", dfs[0])
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, errs.InvalidValue("DiscountCurve: dates must be strictly ascending at index %d", i)
		}
	}
	for i, df := range dfs {
		if df <= 0 {
			return nil, errs.InvalidValue("DiscountCurve: discount factor at index %d must be positive, got %v", i, df)
		}
	}

	yfs := make([]float64, len(dates))
	for i, d := range dates {
		yfs[i] = dc.YearFraction(dates[0], d)
	}
	return &DiscountCurve{
		refDate:  dates[0],
		dates:    dates,
		dfs:      dfs,
		yfs:      yfs,
		dayCount: dc,
		interp:   interp,
	}, nil
}

// EnableExtrapolation allows discount factor queries beyond the last node.
func (dsc *DiscountCurve) EnableExtrapolation() *DiscountCurve {
	dsc.extrapolate = true
	return dsc
}

func (dsc *DiscountCurve) ReferenceDate() time.Time { return dsc.refDate }

// Nodes returns the curve's dates and discount factors.
func (dsc *DiscountCurve) Nodes() ([]time.Time, []float64) { return dsc.dates, dsc.dfs }

func (dsc *DiscountCurve) DiscountFactor(d time.Time) (float64, error) {
	if d.Before(dsc.refDate) {
		return 0, errs.InvalidValue("DiscountCurve: date %s before reference date %s",
			d.Format("2006-01-02"), dsc.refDate.Format("2006-01-02"))
	}
	if d.Equal(dsc.refDate) {
		return 1.0, nil
	}
	return dsc.interp.Interpolate(dsc.dayCount.YearFraction(dsc.refDate, d), dsc.yfs, dsc.dfs, dsc.extrapolate)
}

func (dsc *DiscountCurve) ForwardRate(start, end time.Time, comp rates.Compounding, freq rates.Frequency) (float64, error) {
	return forwardFromDiscounts(dsc, dsc.dayCount, start, end, comp, freq)
}

// AdvanceToDate rolls the curve down to a later reference date. Each node is
// shifted by the gap and re-valued as DF_old(shifted) / DF_old(new reference),
// so the new curve starts at 1 and preserves discount factor ratios.
func (dsc *DiscountCurve) AdvanceToDate(d time.Time) (YieldTermStructure, error) {
	p, err := daysBetween(dsc.refDate, d)
	if err != nil {
		return nil, errs.InvalidValue("DiscountCurve: %v", err)
	}
	return dsc.AdvanceToPeriod(p)
}

func (dsc *DiscountCurve) AdvanceToPeriod(p rates.Period) (YieldTermStructure, error) {
	newRef := p.AddTo(dsc.refDate)
	if newRef.Before(dsc.refDate) {
		return nil, errs.InvalidValue("DiscountCurve: advance target %s before reference date %s",
			newRef.Format("2006-01-02"), dsc.refDate.Format("2006-01-02"))
	}
	denom, err := dsc.interp.Interpolate(dsc.dayCount.YearFraction(dsc.refDate, newRef), dsc.yfs, dsc.dfs, true)
	if err != nil {
		return nil, err
	}

	newDates := make([]time.Time, len(dsc.dates))
	newDfs := make([]float64, len(dsc.dates))
	newDates[0] = newRef
	newDfs[0] = 1.0
	for i := 1; i < len(dsc.dates); i++ {
		newDates[i] = p.AddTo(dsc.dates[i])
		df, err := dsc.interp.Interpolate(dsc.dayCount.YearFraction(dsc.refDate, newDates[i]), dsc.yfs, dsc.dfs, true)
		if err != nil {
			return nil, err
		}
		newDfs[i] = df / denom
	}
	adv, err := NewDiscountCurve(newDates, newDfs, dsc.dayCount, dsc.interp)
	if err != nil {
		return nil, err
	}
	adv.extrapolate = dsc.extrapolate
	return adv, nil
}
