// Package visitors implements the pricing pipeline passes: indexing builds
// the market request vector, fixing injects floating rates, and the pricing
// visitors fold market data into NPV, par values and aggregates.
package visitors

import (
	"time"

	"github.com/meenmo/almlib/cashflows"
	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/instruments"
	"github.com/meenmo/almlib/market"
)

// IndexingVisitor assigns each visited cash flow the next dense registry id
// and emits its market request. Cash flows already paid before the reference
// date keep their id slot but request nothing, so request position always
// equals cash flow id.
type IndexingVisitor struct {
	refDate  time.Time
	localCcy currency.Currency
	requests []market.MarketRequest
}

// NewIndexingVisitor anchors the visitor to a store's reference date and
// local currency.
func NewIndexingVisitor(store *market.MarketStore) *IndexingVisitor {
	return &IndexingVisitor{
		refDate:  store.ReferenceDate(),
		localCcy: store.LocalCurrency(),
	}
}

// Visit walks the instrument's cash flows in order.
func (v *IndexingVisitor) Visit(in instruments.Instrument) error {
	for _, cf := range in.Cashflows() {
		id := len(v.requests)
		cf.SetRegistryID(id)

		req := market.MarketRequest{ID: id}
		if !cf.PaymentDate().Before(v.refDate) {
			req.DF = &market.DiscountFactorRequest{
				ProviderID: cf.DiscountCurveID(),
				Date:       cf.PaymentDate(),
			}
			if coupon, ok := cf.(*cashflows.FloatingRateCoupon); ok {
				def := coupon.RateDefinition()
				req.Fwd = &market.ForwardRateRequest{
					ProviderID:  coupon.ForecastCurveID(),
					Start:       coupon.AccrualStart(),
					End:         coupon.AccrualEnd(),
					Compounding: def.Compounding,
					Frequency:   def.Frequency,
				}
			}
			if cf.Currency() != v.localCcy {
				// Spot conversion into the local currency. Discounting
				// already happens on the flow's own curve, so a dated
				// forward rate here would double count the carry.
				req.FX = &market.ExchangeRateRequest{FirstCurrency: cf.Currency()}
			}
		}
		v.requests = append(v.requests, req)
	}
	return nil
}

// Requests returns the ordered request vector over all visited instruments.
func (v *IndexingVisitor) Requests() []market.MarketRequest { return v.requests }
