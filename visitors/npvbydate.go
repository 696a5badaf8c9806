package visitors

import (
	"time"

	"github.com/meenmo/almlib/instruments"
	"github.com/meenmo/almlib/market"
	"github.com/meenmo/almlib/utils"
)

// NPVByDateConstVisitor accumulates the NPV summand per payment date.
type NPVByDateConstVisitor struct {
	data         []market.MarketData
	refDate      time.Time
	includeToday bool
	byDate       map[time.Time]float64
}

// NewNPVByDateConstVisitor builds the visitor over resolved market data.
func NewNPVByDateConstVisitor(data []market.MarketData, refDate time.Time) *NPVByDateConstVisitor {
	return &NPVByDateConstVisitor{
		data:    data,
		refDate: refDate,
		byDate:  make(map[time.Time]float64),
	}
}

// IncludeTodayCashflows controls whether flows paying on the reference date
// contribute.
func (v *NPVByDateConstVisitor) IncludeTodayCashflows(include bool) *NPVByDateConstVisitor {
	v.includeToday = include
	return v
}

// Visit accumulates the instrument's flows into their payment date buckets.
func (v *NPVByDateConstVisitor) Visit(in instruments.Instrument) error {
	for _, cf := range in.Cashflows() {
		value, live, err := flowValue(cf, v.data, v.refDate, v.includeToday)
		if err != nil {
			return err
		}
		if live {
			v.byDate[cf.PaymentDate()] += value
		}
	}
	return nil
}

// NPVByDate returns the accumulated buckets.
func (v *NPVByDateConstVisitor) NPVByDate() map[time.Time]float64 { return v.byDate }

// Dates returns the bucket dates in ascending order.
func (v *NPVByDateConstVisitor) Dates() []time.Time { return utils.SortedKeys(v.byDate) }
