package visitors

import (
	"github.com/meenmo/almlib/cashflows"
	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/instruments"
	"github.com/meenmo/almlib/market"
)

// FixingVisitor injects fixing rates into floating coupons. Historical
// fixings recorded on the forecast index win over the resolved market data;
// otherwise the coupon takes the forward rate resolved for its id.
type FixingVisitor struct {
	store *market.MarketStore
	data  []market.MarketData
}

// NewFixingVisitor pairs the resolved market data with the store that
// produced it.
func NewFixingVisitor(store *market.MarketStore, data []market.MarketData) *FixingVisitor {
	return &FixingVisitor{store: store, data: data}
}

// Visit fixes every floating coupon of the instrument. Coupons already paid
// before the reference date are left untouched.
func (v *FixingVisitor) Visit(in instruments.Instrument) error {
	for _, cf := range in.Cashflows() {
		coupon, ok := cf.(*cashflows.FloatingRateCoupon)
		if !ok {
			continue
		}
		id, ok := coupon.RegistryID()
		if !ok {
			return errs.Evaluation("fixing: floating coupon paying %s has not been indexed",
				coupon.PaymentDate().Format("2006-01-02"))
		}
		if id < 0 || id >= len(v.data) {
			return errs.NotFound("fixing: no market data for cash flow id %d", id)
		}

		if coupon.AccrualStart().Before(v.store.ReferenceDate()) {
			ix, err := v.store.GetIndex(coupon.ForecastCurveID())
			if err != nil {
				return err
			}
			if fixing, ok := ix.PastFixing(coupon.AccrualStart()); ok {
				coupon.SetFixingRate(fixing)
				continue
			}
		}

		fwd, err := v.data[id].Fwd()
		if err != nil {
			if coupon.PaymentDate().Before(v.store.ReferenceDate()) {
				continue
			}
			return err
		}
		coupon.SetFixingRate(fwd)
	}
	return nil
}
