// Package index implements rate indices: a forecast curve paired with a
// historical fixing series. Forward rates before the reference date come
// from fixings, after it from the curve.
package index

import (
	"time"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
	"github.com/meenmo/almlib/rates/curve"
)

// RateIndex is the contract shared by Ibor and overnight style indices.
type RateIndex interface {
	ReferenceDate() time.Time
	TermStructure() curve.YieldTermStructure
	RateDefinition() rates.RateDefinition
	Tenor() rates.Period

	// ForwardRate resolves past periods from fixings and future periods
	// from the curve.
	ForwardRate(start, end time.Time, comp rates.Compounding, freq rates.Frequency) (float64, error)
	// PastFixing reports the historical value on a date, if recorded.
	PastFixing(d time.Time) (float64, bool)
	// AddFixing records a historical value. Dates after the reference
	// date are rejected.
	AddFixing(d time.Time, value float64) error

	// Advance rolls the index forward, forward-filling the fixing series
	// from the curve up to the new reference date.
	Advance(p rates.Period) (RateIndex, error)
}

// IborIndex is a term rate index: each fixing is the rate observed for one
// tenor period starting on the fixing date.
type IborIndex struct {
	tenor   rates.Period
	def     rates.RateDefinition
	fixings map[time.Time]float64
	ts      curve.YieldTermStructure
	refDate time.Time
	haveRef bool
}

// NewIborIndex starts a builder chain. The reference date is pinned by the
// first of WithTermStructure or WithFixings; supplying both with
// inconsistent dates panics, a programmer error.
func NewIborIndex() *IborIndex {
	return &IborIndex{
		tenor:   rates.NewPeriod(6, rates.Months),
		def:     rates.DefaultRateDefinition(),
		fixings: make(map[time.Time]float64),
	}
}

func (ix *IborIndex) WithTenor(tenor rates.Period) *IborIndex {
	ix.tenor = tenor
	return ix
}

func (ix *IborIndex) WithFrequency(freq rates.Frequency) *IborIndex {
	p, err := rates.PeriodFromFrequency(freq)
	if err != nil {
		panic("IborIndex.WithFrequency: " + err.Error())
	}
	ix.tenor = p
	return ix
}

func (ix *IborIndex) WithRateDefinition(def rates.RateDefinition) *IborIndex {
	ix.def = def
	return ix
}

func (ix *IborIndex) WithFixings(fixings map[time.Time]float64) *IborIndex {
	if len(fixings) == 0 {
		panic("IborIndex.WithFixings: empty fixing series")
	}
	ix.fixings = fixings
	ix.pinReferenceDate(maxDate(fixings))
	return ix
}

func (ix *IborIndex) WithTermStructure(ts curve.YieldTermStructure) *IborIndex {
	ix.ts = ts
	ix.pinReferenceDate(ts.ReferenceDate())
	return ix
}

func (ix *IborIndex) pinReferenceDate(d time.Time) {
	if ix.haveRef && !ix.refDate.Equal(d) {
		panic("IborIndex: fixings and term structure disagree on the reference date")
	}
	ix.refDate = d
	ix.haveRef = true
}

func (ix *IborIndex) ReferenceDate() time.Time                { return ix.refDate }
func (ix *IborIndex) TermStructure() curve.YieldTermStructure { return ix.ts }
func (ix *IborIndex) RateDefinition() rates.RateDefinition    { return ix.def }
func (ix *IborIndex) Tenor() rates.Period                     { return ix.tenor }

func (ix *IborIndex) PastFixing(d time.Time) (float64, bool) {
	v, ok := ix.fixings[d]
	return v, ok
}

func (ix *IborIndex) AddFixing(d time.Time, value float64) error {
	if d.After(ix.refDate) {
		return errs.InvalidValue("IborIndex: fixing date %s after reference date %s",
			d.Format("2006-01-02"), ix.refDate.Format("2006-01-02"))
	}
	ix.fixings[d] = value
	return nil
}

func (ix *IborIndex) ForwardRate(start, end time.Time, comp rates.Compounding, freq rates.Frequency) (float64, error) {
	if end.Before(start) {
		return 0, errs.InvalidValue("IborIndex: end date %s before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	if start.Before(ix.refDate) {
		fixing, ok := ix.fixings[start]
		if !ok {
			return 0, errs.Evaluation("IborIndex: no fixing for %s", start.Format("2006-01-02"))
		}
		return fixing, nil
	}
	if ix.ts == nil {
		return 0, errs.ValueNotSet("IborIndex: no term structure")
	}
	return ix.ts.ForwardRate(start, end, comp, freq)
}

// Advance projects fixings for every day from the current reference date to
// the new one from the curve, then rolls the curve itself.
func (ix *IborIndex) Advance(p rates.Period) (RateIndex, error) {
	if ix.ts == nil {
		return nil, errs.ValueNotSet("IborIndex: no term structure to advance")
	}
	fixings := cloneFixings(ix.fixings)
	end := p.AddTo(ix.refDate)
	for seed := ix.refDate; !seed.After(end); seed = seed.AddDate(0, 0, 1) {
		rate, err := ix.ts.ForwardRate(seed, ix.tenor.AddTo(seed), ix.def.Compounding, ix.def.Frequency)
		if err != nil {
			return nil, errs.Evaluation("IborIndex: projecting fixing at %s: %v", seed.Format("2006-01-02"), err)
		}
		fixings[seed] = rate
	}
	ts, err := ix.ts.AdvanceToPeriod(p)
	if err != nil {
		return nil, err
	}
	return NewIborIndex().
		WithTenor(ix.tenor).
		WithRateDefinition(ix.def).
		WithTermStructure(ts).
		WithFixings(fixings), nil
}

func maxDate(m map[time.Time]float64) time.Time {
	var max time.Time
	for d := range m {
		if d.After(max) {
			max = d
		}
	}
	return max
}

func cloneFixings(m map[time.Time]float64) map[time.Time]float64 {
	out := make(map[time.Time]float64, len(m))
	for d, v := range m {
		out[d] = v
	}
	return out
}
