package curve

import (
	"time"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
)

// CompositeCurve layers a spread curve on top of a base curve. Discount
// factors multiply and forward rates add, so a flat 1% spread over a flat 2%
// base behaves as a 3% curve.
type CompositeCurve struct {
	spread YieldTermStructure
	base   YieldTermStructure
}

// NewCompositeCurve builds the layered curve. The reference date is taken
// from the base curve.
func NewCompositeCurve(spread, base YieldTermStructure) *CompositeCurve {
	return &CompositeCurve{spread: spread, base: base}
}

func (cc *CompositeCurve) ReferenceDate() time.Time { return cc.base.ReferenceDate() }

func (cc *CompositeCurve) DiscountFactor(d time.Time) (float64, error) {
	spreadDF, err := cc.spread.DiscountFactor(d)
	if err != nil {
		return 0, err
	}
	baseDF, err := cc.base.DiscountFactor(d)
	if err != nil {
		return 0, err
	}
	return spreadDF * baseDF, nil
}

func (cc *CompositeCurve) ForwardRate(start, end time.Time, comp rates.Compounding, freq rates.Frequency) (float64, error) {
	spreadFwd, err := cc.spread.ForwardRate(start, end, comp, freq)
	if err != nil {
		return 0, err
	}
	baseFwd, err := cc.base.ForwardRate(start, end, comp, freq)
	if err != nil {
		return 0, err
	}
	return spreadFwd + baseFwd, nil
}

// AdvanceToDate advances both layers and reconstructs, leaving the receiver
// untouched.
func (cc *CompositeCurve) AdvanceToDate(d time.Time) (YieldTermStructure, error) {
	spread, err := cc.spread.AdvanceToDate(d)
	if err != nil {
		return nil, errs.Evaluation("CompositeCurve: advancing spread curve: %v", err)
	}
	base, err := cc.base.AdvanceToDate(d)
	if err != nil {
		return nil, errs.Evaluation("CompositeCurve: advancing base curve: %v", err)
	}
	return NewCompositeCurve(spread, base), nil
}

func (cc *CompositeCurve) AdvanceToPeriod(p rates.Period) (YieldTermStructure, error) {
	spread, err := cc.spread.AdvanceToPeriod(p)
	if err != nil {
		return nil, errs.Evaluation("CompositeCurve: advancing spread curve: %v", err)
	}
	base, err := cc.base.AdvanceToPeriod(p)
	if err != nil {
		return nil, errs.Evaluation("CompositeCurve: advancing base curve: %v", err)
	}
	return NewCompositeCurve(spread, base), nil
}
