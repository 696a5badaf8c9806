package visitors

import (
	"time"

	"github.com/meenmo/almlib/cashflows"
	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/instruments"
	"github.com/meenmo/almlib/market"
)

// NPVConstVisitor folds cash flows into a single present value in the
// store's local currency. Flows paid before the reference date are skipped;
// flows paid exactly on it are skipped unless IncludeTodayCashflows is set.
type NPVConstVisitor struct {
	data         []market.MarketData
	refDate      time.Time
	includeToday bool
	npv          float64
}

// NewNPVConstVisitor builds the visitor over resolved market data.
func NewNPVConstVisitor(data []market.MarketData, refDate time.Time) *NPVConstVisitor {
	return &NPVConstVisitor{data: data, refDate: refDate}
}

// IncludeTodayCashflows controls whether flows paying on the reference date
// contribute.
func (v *NPVConstVisitor) IncludeTodayCashflows(include bool) *NPVConstVisitor {
	v.includeToday = include
	return v
}

// Visit accumulates the instrument's flows into the running total.
func (v *NPVConstVisitor) Visit(in instruments.Instrument) error {
	for _, cf := range in.Cashflows() {
		value, live, err := flowValue(cf, v.data, v.refDate, v.includeToday)
		if err != nil {
			return err
		}
		if live {
			v.npv += value
		}
	}
	return nil
}

// NPV reports the accumulated total across all visited instruments.
func (v *NPVConstVisitor) NPV() float64 { return v.npv }

// flowValue computes side · amount · DF for one cash flow, converted into
// the local currency through the resolved FX component when present. live
// is false for flows outside the pricing window.
func flowValue(cf cashflows.Cashflow, data []market.MarketData, refDate time.Time, includeToday bool) (float64, bool, error) {
	if cf.PaymentDate().Before(refDate) {
		return 0, false, nil
	}
	if cf.PaymentDate().Equal(refDate) && !includeToday {
		return 0, false, nil
	}

	id, ok := cf.RegistryID()
	if !ok {
		return 0, false, errs.Evaluation("npv: cash flow paying %s has not been indexed",
			cf.PaymentDate().Format("2006-01-02"))
	}
	if id < 0 || id >= len(data) {
		return 0, false, errs.NotFound("npv: no market data for cash flow id %d", id)
	}
	md := data[id]

	amount, err := cf.Amount()
	if err != nil {
		return 0, false, err
	}
	df, err := md.DF()
	if err != nil {
		return 0, false, err
	}

	value := cf.Side().Sign() * amount * df
	if fx, fxErr := md.FX(); fxErr == nil {
		value *= fx
	}
	return value, true, nil
}
