package instruments

import (
	"time"

	"github.com/meenmo/almlib/cashflows"
	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/rates"
)

// FixedRateInstrument is a loan or deposit paying a fixed coupon schedule.
type FixedRateInstrument struct {
	id        string
	startDate time.Time
	endDate   time.Time
	notional  float64
	rate      rates.InterestRate
	structure Structure
	side      cashflows.Side
	ccy       currency.Currency
	flows     []cashflows.Cashflow
}

func (in *FixedRateInstrument) ID() string                     { return in.id }
func (in *FixedRateInstrument) StartDate() time.Time           { return in.startDate }
func (in *FixedRateInstrument) EndDate() time.Time             { return in.endDate }
func (in *FixedRateInstrument) Notional() float64              { return in.notional }
func (in *FixedRateInstrument) Rate() rates.InterestRate       { return in.rate }
func (in *FixedRateInstrument) Structure() Structure           { return in.structure }
func (in *FixedRateInstrument) Side() cashflows.Side           { return in.side }
func (in *FixedRateInstrument) Currency() currency.Currency    { return in.ccy }
func (in *FixedRateInstrument) Cashflows() []cashflows.Cashflow { return in.flows }

// SetRate requotes the instrument and every fixed coupon in its stream,
// keeping each coupon's conventions.
func (in *FixedRateInstrument) SetRate(rate float64) {
	in.rate = rates.FromRateDefinition(rate, in.rate.Def)
	for _, cf := range in.flows {
		if coupon, ok := cf.(*cashflows.FixedRateCoupon); ok {
			coupon.SetRate(rates.FromRateDefinition(rate, coupon.Rate().Def))
		}
	}
}
