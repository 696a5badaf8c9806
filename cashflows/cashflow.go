// Package cashflows models the flow variants instruments are assembled
// from: disbursements, redemptions, fixed rate coupons and floating rate
// coupons. Every flow carries a payment date, a currency, a side and a
// registry id assigned during indexing.
package cashflows

import (
	"time"

	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/errs"
)

// Side distinguishes paying from receiving flows when summing values.
type Side int

const (
	Pay     Side = -1
	Receive Side = 1
)

// Sign is the summation factor of the side.
func (s Side) Sign() float64 { return float64(s) }

// Inverse flips the side.
func (s Side) Inverse() Side { return -s }

// ParseSide reads "PAY" or "RECEIVE".
func ParseSide(s string) (Side, error) {
	switch s {
	case "PAY":
		return Pay, nil
	case "RECEIVE":
		return Receive, nil
	default:
		return 0, errs.InvalidValue("unknown side %q", s)
	}
}

// Cashflow is the contract shared by all flow variants. Amount fails with
// ErrValueNotSet for floating coupons whose fixing has not been injected
// yet.
type Cashflow interface {
	PaymentDate() time.Time
	Currency() currency.Currency
	Side() Side
	Amount() (float64, error)
	DiscountCurveID() int

	// RegistryID reports the id assigned during indexing, false before.
	RegistryID() (int, bool)
	SetRegistryID(id int)
}

// base carries the fields every variant shares.
type base struct {
	paymentDate     time.Time
	ccy             currency.Currency
	side            Side
	discountCurveID int
	id              int
}

func newBase(paymentDate time.Time, ccy currency.Currency, side Side, discountCurveID int) base {
	return base{
		paymentDate:     paymentDate,
		ccy:             ccy,
		side:            side,
		discountCurveID: discountCurveID,
		id:              -1,
	}
}

func (b *base) PaymentDate() time.Time      { return b.paymentDate }
func (b *base) Currency() currency.Currency { return b.ccy }
func (b *base) Side() Side                  { return b.side }
func (b *base) DiscountCurveID() int        { return b.discountCurveID }

func (b *base) RegistryID() (int, bool) {
	if b.id < 0 {
		return 0, false
	}
	return b.id, true
}

func (b *base) SetRegistryID(id int) { b.id = id }

// clipAccrual intersects a query window with an accrual period, false when
// they do not overlap.
func clipAccrual(start, end, accrualStart, accrualEnd time.Time) (time.Time, time.Time, bool) {
	if start.Before(accrualStart) {
		start = accrualStart
	}
	if end.After(accrualEnd) {
		end = accrualEnd
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
