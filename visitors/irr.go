package visitors

import (
	"time"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/instruments"
	"github.com/meenmo/almlib/mathx"
	"github.com/meenmo/almlib/rates"
)

// IrrVisitor solves for the single flat yield that discounts an
// instrument's cash flows to a target value, zero by default. Discounting
// runs directly off the flow amounts, so floating coupons must be fixed
// first.
type IrrVisitor struct {
	refDate time.Time
	target  float64
	def     rates.RateDefinition
	guess   float64
}

// NewIrrVisitor discounts to a reference date under the given conventions.
func NewIrrVisitor(refDate time.Time, def rates.RateDefinition) *IrrVisitor {
	return &IrrVisitor{refDate: refDate, def: def}
}

// WithTarget sets the value the discounted sum must reach.
func (v *IrrVisitor) WithTarget(target float64) *IrrVisitor {
	v.target = target
	return v
}

// WithGuess centers the initial solver bracket.
func (v *IrrVisitor) WithGuess(guess float64) *IrrVisitor {
	v.guess = guess
	return v
}

// Visit solves for the instrument's internal rate of return.
func (v *IrrVisitor) Visit(in instruments.Instrument) (float64, error) {
	objective := func(yield float64) (float64, error) {
		ir := rates.FromRateDefinition(yield, v.def)
		var sum float64
		for _, cf := range in.Cashflows() {
			if cf.PaymentDate().Before(v.refDate) {
				continue
			}
			amount, err := cf.Amount()
			if err != nil {
				return 0, err
			}
			sum += cf.Side().Sign() * amount * ir.DiscountFactor(v.refDate, cf.PaymentDate())
		}
		return sum - v.target, nil
	}

	root, err := mathx.SolveWithExpansion(objective, v.guess-parBracketHalf, v.guess+parBracketHalf, parValueTolerance, parBracketLimit)
	if err != nil {
		return 0, errs.Evaluation("irr: %v", err)
	}
	return root, nil
}
