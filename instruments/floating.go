package instruments

import (
	"time"

	"github.com/meenmo/almlib/cashflows"
	"github.com/meenmo/almlib/currency"
)

// FloatingRateInstrument is a loan or deposit paying index plus spread.
type FloatingRateInstrument struct {
	id        string
	startDate time.Time
	endDate   time.Time
	notional  float64
	spread    float64
	structure Structure
	side      cashflows.Side
	ccy       currency.Currency
	flows     []cashflows.Cashflow
}

func (in *FloatingRateInstrument) ID() string                     { return in.id }
func (in *FloatingRateInstrument) StartDate() time.Time           { return in.startDate }
func (in *FloatingRateInstrument) EndDate() time.Time             { return in.endDate }
func (in *FloatingRateInstrument) Notional() float64              { return in.notional }
func (in *FloatingRateInstrument) Spread() float64                { return in.spread }
func (in *FloatingRateInstrument) Structure() Structure           { return in.structure }
func (in *FloatingRateInstrument) Side() cashflows.Side           { return in.side }
func (in *FloatingRateInstrument) Currency() currency.Currency    { return in.ccy }
func (in *FloatingRateInstrument) Cashflows() []cashflows.Cashflow { return in.flows }

// SetSpread requotes the margin on the instrument and every floating coupon.
func (in *FloatingRateInstrument) SetSpread(spread float64) {
	in.spread = spread
	for _, cf := range in.flows {
		if coupon, ok := cf.(*cashflows.FloatingRateCoupon); ok {
			coupon.SetSpread(spread)
		}
	}
}
