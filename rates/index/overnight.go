package index

import (
	"time"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
	"github.com/meenmo/almlib/rates/curve"
)

// OvernightIndex tracks a compounded index level series (SOFR index style).
// The realised rate over a past period is implied from the ratio of the
// levels at its endpoints.
type OvernightIndex struct {
	tenor   rates.Period
	def     rates.RateDefinition
	fixings map[time.Time]float64
	ts      curve.YieldTermStructure
	refDate time.Time
	haveRef bool
}

// NewOvernightIndex starts a builder chain. Same reference date pinning
// rules as NewIborIndex.
func NewOvernightIndex() *OvernightIndex {
	return &OvernightIndex{
		tenor:   rates.NewPeriod(1, rates.Days),
		def:     rates.DefaultRateDefinition(),
		fixings: make(map[time.Time]float64),
	}
}

func (ox *OvernightIndex) WithRateDefinition(def rates.RateDefinition) *OvernightIndex {
	ox.def = def
	return ox
}

func (ox *OvernightIndex) WithFixings(fixings map[time.Time]float64) *OvernightIndex {
	if len(fixings) == 0 {
		panic("OvernightIndex.WithFixings: empty fixing series")
	}
	ox.fixings = fixings
	ox.pinReferenceDate(maxDate(fixings))
	return ox
}

func (ox *OvernightIndex) WithTermStructure(ts curve.YieldTermStructure) *OvernightIndex {
	ox.ts = ts
	ox.pinReferenceDate(ts.ReferenceDate())
	return ox
}

func (ox *OvernightIndex) pinReferenceDate(d time.Time) {
	if ox.haveRef && !ox.refDate.Equal(d) {
		panic("OvernightIndex: fixings and term structure disagree on the reference date")
	}
	ox.refDate = d
	ox.haveRef = true
}

func (ox *OvernightIndex) ReferenceDate() time.Time                { return ox.refDate }
func (ox *OvernightIndex) TermStructure() curve.YieldTermStructure { return ox.ts }
func (ox *OvernightIndex) RateDefinition() rates.RateDefinition    { return ox.def }
func (ox *OvernightIndex) Tenor() rates.Period                     { return ox.tenor }

func (ox *OvernightIndex) PastFixing(d time.Time) (float64, bool) {
	v, ok := ox.fixings[d]
	return v, ok
}

func (ox *OvernightIndex) AddFixing(d time.Time, value float64) error {
	if d.After(ox.refDate) {
		return errs.InvalidValue("OvernightIndex: fixing date %s after reference date %s",
			d.Format("2006-01-02"), ox.refDate.Format("2006-01-02"))
	}
	ox.fixings[d] = value
	return nil
}

// AverageRate implies the realised rate between two past dates from the
// ratio of the recorded index levels.
func (ox *OvernightIndex) AverageRate(start, end time.Time) (float64, error) {
	startLevel, ok := ox.fixings[start]
	if !ok {
		return 0, errs.Evaluation("OvernightIndex: no index level for %s", start.Format("2006-01-02"))
	}
	endLevel, ok := ox.fixings[end]
	if !ok {
		return 0, errs.Evaluation("OvernightIndex: no index level for %s", end.Format("2006-01-02"))
	}
	t := ox.def.DayCount.YearFraction(start, end)
	ir, err := rates.ImpliedRate(endLevel/startLevel, ox.def.DayCount, ox.def.Compounding, ox.def.Frequency, t)
	if err != nil {
		return 0, err
	}
	return ir.Rate, nil
}

// ForwardRate covers three regimes: fully realised periods use index level
// ratios, fully future periods use the curve, and periods straddling the
// reference date splice a projected end level (level at the reference date
// grown by 1/DF(end)) onto the realised start level.
func (ox *OvernightIndex) ForwardRate(start, end time.Time, comp rates.Compounding, freq rates.Frequency) (float64, error) {
	if end.Before(start) {
		return 0, errs.InvalidValue("OvernightIndex: end date %s before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	switch {
	case start.Before(ox.refDate) && end.After(ox.refDate):
		startLevel, ok := ox.fixings[start]
		if !ok {
			return 0, errs.Evaluation("OvernightIndex: no index level for %s", start.Format("2006-01-02"))
		}
		refLevel, ok := ox.fixings[ox.refDate]
		if !ok {
			return 0, errs.Evaluation("OvernightIndex: no index level for %s", ox.refDate.Format("2006-01-02"))
		}
		if ox.ts == nil {
			return 0, errs.ValueNotSet("OvernightIndex: no term structure")
		}
		df, err := ox.ts.DiscountFactor(end)
		if err != nil {
			return 0, err
		}
		endLevel := refLevel / df
		t := ox.def.DayCount.YearFraction(start, end)
		ir, err := rates.ImpliedRate(endLevel/startLevel, ox.def.DayCount, ox.def.Compounding, ox.def.Frequency, t)
		if err != nil {
			return 0, err
		}
		return ir.Rate, nil
	case start.Before(ox.refDate):
		return ox.AverageRate(start, end)
	default:
		if ox.ts == nil {
			return 0, errs.ValueNotSet("OvernightIndex: no term structure")
		}
		return ox.ts.ForwardRate(start, end, comp, freq)
	}
}

// Advance extends the index level series day by day using the curve's
// overnight discount ratios, then rolls the curve.
func (ox *OvernightIndex) Advance(p rates.Period) (RateIndex, error) {
	if ox.ts == nil {
		return nil, errs.ValueNotSet("OvernightIndex: no term structure to advance")
	}
	fixings := cloneFixings(ox.fixings)
	end := p.AddTo(ox.refDate)
	for seed := ox.refDate; seed.Before(end); {
		level, ok := fixings[seed]
		if !ok {
			return nil, errs.Evaluation("OvernightIndex: no index level for %s", seed.Format("2006-01-02"))
		}
		firstDF, err := ox.ts.DiscountFactor(seed)
		if err != nil {
			return nil, err
		}
		seed = seed.AddDate(0, 0, 1)
		secondDF, err := ox.ts.DiscountFactor(seed)
		if err != nil {
			return nil, err
		}
		fixings[seed] = level * firstDF / secondDF
	}
	ts, err := ox.ts.AdvanceToPeriod(p)
	if err != nil {
		return nil, err
	}
	return NewOvernightIndex().
		WithRateDefinition(ox.def).
		WithTermStructure(ts).
		WithFixings(fixings), nil
}
