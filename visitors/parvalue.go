package visitors

import (
	"time"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/instruments"
	"github.com/meenmo/almlib/market"
	"github.com/meenmo/almlib/mathx"
)

// The solver brackets the root around the instrument's current quote with
// half-width 0.1, expanding out to the limit when the NPV does not change
// sign inside the initial bracket.
const (
	parValueTolerance = 1e-10
	parBracketHalf    = 0.1
	parBracketLimit   = 1.0
)

// ParValueConstVisitor solves for the flat bump over every fixed coupon
// rate, or every floating coupon spread, that zeroes the instrument's NPV.
// The visited instrument is restored to its original quotes afterwards.
type ParValueConstVisitor struct {
	data    []market.MarketData
	refDate time.Time
}

// NewParValueConstVisitor builds the solver over resolved market data.
func NewParValueConstVisitor(data []market.MarketData, refDate time.Time) *ParValueConstVisitor {
	return &ParValueConstVisitor{data: data, refDate: refDate}
}

// VisitFixed solves for the par rate of a fixed rate instrument.
func (v *ParValueConstVisitor) VisitFixed(in *instruments.FixedRateInstrument) (float64, error) {
	original := in.Rate().Rate
	defer in.SetRate(original)

	objective := func(rate float64) (float64, error) {
		in.SetRate(rate)
		return v.npv(in)
	}
	root, err := mathx.SolveWithExpansion(objective, original-parBracketHalf, original+parBracketHalf, parValueTolerance, parBracketLimit)
	if err != nil {
		return 0, errs.Evaluation("par value: %v", err)
	}
	return root, nil
}

// VisitFloating solves for the par spread of a floating rate instrument.
// Coupons must already be fixed; the spread enters the amount analytically
// on top of the injected fixing.
func (v *ParValueConstVisitor) VisitFloating(in *instruments.FloatingRateInstrument) (float64, error) {
	original := in.Spread()
	defer in.SetSpread(original)

	objective := func(spread float64) (float64, error) {
		in.SetSpread(spread)
		return v.npv(in)
	}
	root, err := mathx.SolveWithExpansion(objective, original-parBracketHalf, original+parBracketHalf, parValueTolerance, parBracketLimit)
	if err != nil {
		return 0, errs.Evaluation("par value: %v", err)
	}
	return root, nil
}

// npv values the instrument including flows paying on the reference date,
// so instruments issued today solve to a true par quote.
func (v *ParValueConstVisitor) npv(in instruments.Instrument) (float64, error) {
	npv := NewNPVConstVisitor(v.data, v.refDate).IncludeTodayCashflows(true)
	if err := npv.Visit(in); err != nil {
		return 0, err
	}
	return npv.NPV(), nil
}
