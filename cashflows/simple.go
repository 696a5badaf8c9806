package cashflows

import (
	"time"

	"github.com/meenmo/almlib/currency"
)

// SimpleKind tags a principal flow as a drawdown or a repayment.
type SimpleKind string

const (
	Disbursement SimpleKind = "DISBURSEMENT"
	Redemption   SimpleKind = "REDEMPTION"
)

// SimpleCashflow is a plain principal exchange.
type SimpleCashflow struct {
	base
	kind   SimpleKind
	amount float64
}

// NewDisbursement builds a principal drawdown flow.
func NewDisbursement(amount float64, paymentDate time.Time, ccy currency.Currency, side Side, discountCurveID int) *SimpleCashflow {
	return &SimpleCashflow{base: newBase(paymentDate, ccy, side, discountCurveID), kind: Disbursement, amount: amount}
}

// NewRedemption builds a principal repayment flow.
func NewRedemption(amount float64, paymentDate time.Time, ccy currency.Currency, side Side, discountCurveID int) *SimpleCashflow {
	return &SimpleCashflow{base: newBase(paymentDate, ccy, side, discountCurveID), kind: Redemption, amount: amount}
}

func (cf *SimpleCashflow) Kind() SimpleKind { return cf.kind }

func (cf *SimpleCashflow) Amount() (float64, error) { return cf.amount, nil }
