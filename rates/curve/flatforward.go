package curve

import (
	"time"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
)

// FlatForward is a curve with a single constant forward rate.
type FlatForward struct {
	refDate time.Time
	rate    rates.InterestRate
}

// NewFlatForward builds a flat curve from a rate and its conventions.
func NewFlatForward(refDate time.Time, rate float64, def rates.RateDefinition) *FlatForward {
	return &FlatForward{refDate: refDate, rate: rates.FromRateDefinition(rate, def)}
}

// NewFlatForwardFromRate builds a flat curve from an already quoted rate.
func NewFlatForwardFromRate(refDate time.Time, rate rates.InterestRate) *FlatForward {
	return &FlatForward{refDate: refDate, rate: rate}
}

func (ff *FlatForward) ReferenceDate() time.Time { return ff.refDate }

// Rate returns the quoted flat rate.
func (ff *FlatForward) Rate() rates.InterestRate { return ff.rate }

func (ff *FlatForward) DiscountFactor(d time.Time) (float64, error) {
	if d.Before(ff.refDate) {
		return 0, errs.InvalidValue("FlatForward: date %s before reference date %s",
			d.Format("2006-01-02"), ff.refDate.Format("2006-01-02"))
	}
	if d.Equal(ff.refDate) {
		return 1.0, nil
	}
	return ff.rate.DiscountFactor(ff.refDate, d), nil
}

func (ff *FlatForward) ForwardRate(start, end time.Time, comp rates.Compounding, freq rates.Frequency) (float64, error) {
	return forwardFromDiscounts(ff, ff.rate.Def.DayCount, start, end, comp, freq)
}

// AdvanceToDate rolls the curve to a later reference date. The flat forward
// rate is time homogeneous, so only the anchor moves.
func (ff *FlatForward) AdvanceToDate(d time.Time) (YieldTermStructure, error) {
	if d.Before(ff.refDate) {
		return nil, errs.InvalidValue("FlatForward: advance target %s before reference date %s",
			d.Format("2006-01-02"), ff.refDate.Format("2006-01-02"))
	}
	return &FlatForward{refDate: d, rate: ff.rate}, nil
}

func (ff *FlatForward) AdvanceToPeriod(p rates.Period) (YieldTermStructure, error) {
	return ff.AdvanceToDate(p.AddTo(ff.refDate))
}
