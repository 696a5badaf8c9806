package cashflows

import (
	"time"

	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
)

// FixedRateCoupon accrues a known rate on a notional over one period.
type FixedRateCoupon struct {
	base
	notional     float64
	rate         rates.InterestRate
	accrualStart time.Time
	accrualEnd   time.Time
}

// NewFixedRateCoupon builds a fixed coupon. The accrual period must be
// non-empty.
func NewFixedRateCoupon(notional float64, rate rates.InterestRate, accrualStart, accrualEnd, paymentDate time.Time, ccy currency.Currency, side Side, discountCurveID int) (*FixedRateCoupon, error) {
	if !accrualStart.Before(accrualEnd) {
		return nil, errs.InvalidValue("fixed coupon: accrual start %s not before accrual end %s",
			accrualStart.Format("2006-01-02"), accrualEnd.Format("2006-01-02"))
	}
	return &FixedRateCoupon{
		base:         newBase(paymentDate, ccy, side, discountCurveID),
		notional:     notional,
		rate:         rate,
		accrualStart: accrualStart,
		accrualEnd:   accrualEnd,
	}, nil
}

func (cf *FixedRateCoupon) Notional() float64          { return cf.notional }
func (cf *FixedRateCoupon) Rate() rates.InterestRate   { return cf.rate }
func (cf *FixedRateCoupon) AccrualStart() time.Time    { return cf.accrualStart }
func (cf *FixedRateCoupon) AccrualEnd() time.Time      { return cf.accrualEnd }

// SetRate requotes the coupon, used when solving for par rates.
func (cf *FixedRateCoupon) SetRate(rate rates.InterestRate) { cf.rate = rate }

// Amount is the interest accrued over the full period.
func (cf *FixedRateCoupon) Amount() (float64, error) {
	return cf.notional * (cf.rate.CompoundFactor(cf.accrualStart, cf.accrualEnd) - 1.0), nil
}

// AccruedAmount is the interest accrued over the part of [start, end) that
// overlaps the accrual period, zero when they are disjoint.
func (cf *FixedRateCoupon) AccruedAmount(start, end time.Time) (float64, error) {
	s, e, ok := clipAccrual(start, end, cf.accrualStart, cf.accrualEnd)
	if !ok {
		return 0, nil
	}
	return cf.notional * (cf.rate.CompoundFactor(s, e) - 1.0), nil
}
