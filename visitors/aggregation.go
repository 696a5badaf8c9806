package visitors

import (
	"time"

	"github.com/meenmo/almlib/cashflows"
	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/instruments"
	"github.com/meenmo/almlib/utils"
)

// CashflowsAggregatorConstVisitor buckets signed flows by payment date:
// disbursements, redemptions and coupon interest separately. With a currency
// filter set, a flow in any other currency is an error.
type CashflowsAggregatorConstVisitor struct {
	filter        currency.Currency
	disbursements map[time.Time]float64
	redemptions   map[time.Time]float64
	interest      map[time.Time]float64
}

// NewCashflowsAggregatorConstVisitor builds an unfiltered aggregator.
func NewCashflowsAggregatorConstVisitor() *CashflowsAggregatorConstVisitor {
	return &CashflowsAggregatorConstVisitor{
		disbursements: make(map[time.Time]float64),
		redemptions:   make(map[time.Time]float64),
		interest:      make(map[time.Time]float64),
	}
}

// WithCurrency restricts aggregation to a single currency.
func (v *CashflowsAggregatorConstVisitor) WithCurrency(ccy currency.Currency) *CashflowsAggregatorConstVisitor {
	v.filter = ccy
	return v
}

// Visit accumulates the instrument's principal and interest flows. Floating
// coupons must already be fixed or their amount errors with ErrValueNotSet.
func (v *CashflowsAggregatorConstVisitor) Visit(in instruments.Instrument) error {
	for _, cf := range in.Cashflows() {
		if v.filter != "" && cf.Currency() != v.filter {
			return errs.InvalidValue("aggregation: cash flow currency %s does not match filter %s",
				cf.Currency(), v.filter)
		}
		amount, err := cf.Amount()
		if err != nil {
			return err
		}
		signed := cf.Side().Sign() * amount
		switch f := cf.(type) {
		case *cashflows.SimpleCashflow:
			switch f.Kind() {
			case cashflows.Disbursement:
				v.disbursements[f.PaymentDate()] += signed
			case cashflows.Redemption:
				v.redemptions[f.PaymentDate()] += signed
			}
		case *cashflows.FixedRateCoupon, *cashflows.FloatingRateCoupon:
			v.interest[cf.PaymentDate()] += signed
		}
	}
	return nil
}

// Disbursements returns the signed drawdown buckets.
func (v *CashflowsAggregatorConstVisitor) Disbursements() map[time.Time]float64 {
	return v.disbursements
}

// Redemptions returns the signed repayment buckets.
func (v *CashflowsAggregatorConstVisitor) Redemptions() map[time.Time]float64 {
	return v.redemptions
}

// Interest returns the signed coupon interest buckets.
func (v *CashflowsAggregatorConstVisitor) Interest() map[time.Time]float64 {
	return v.interest
}

// RedemptionDates returns the repayment dates in ascending order.
func (v *CashflowsAggregatorConstVisitor) RedemptionDates() []time.Time {
	return utils.SortedKeys(v.redemptions)
}
