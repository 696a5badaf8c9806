// Package alm implements balance-sheet simulation on top of the pricing
// pipeline: rolling maturing redemptions into freshly priced positions and
// batch NPV over large portfolios.
package alm

import (
	"github.com/meenmo/almlib/cashflows"
	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/instruments"
	"github.com/meenmo/almlib/rates"
)

// GrowthMode selects how the rollover engine sizes new placements.
type GrowthMode string

const (
	// PaidAmount reinvests each maturing redemption scaled by the growth
	// rate.
	PaidAmount GrowthMode = "PAID_AMOUNT"
	// Annual grows the initial outstanding linearly at the growth rate per
	// Actual360 year.
	Annual GrowthMode = "ANNUAL"
)

// ParseGrowthMode validates a growth mode string.
func ParseGrowthMode(s string) (GrowthMode, error) {
	switch GrowthMode(s) {
	case PaidAmount, Annual:
		return GrowthMode(s), nil
	default:
		return "", errs.InvalidValue("unknown growth mode %q", s)
	}
}

// RateType selects the leg type of a generated position.
type RateType string

const (
	FixedRate    RateType = "FIXED"
	FloatingRate RateType = "FLOATING"
)

// ParseRateType validates a rate type string.
func ParseRateType(s string) (RateType, error) {
	switch RateType(s) {
	case FixedRate, FloatingRate:
		return RateType(s), nil
	default:
		return "", errs.InvalidValue("unknown rate type %q", s)
	}
}

// RolloverStrategy describes one slice of the reinvestment mix. Weights
// across the strategy set should sum to one.
type RolloverStrategy struct {
	Weight           float64
	Structure        instruments.Structure
	PaymentFrequency rates.Frequency
	Tenor            rates.Period
	Side             cashflows.Side
	RateType         RateType
	RateDefinition   rates.RateDefinition
	DiscountCurveID  int
	ForecastCurveID  int
}

func (s RolloverStrategy) validate() error {
	if s.Weight <= 0 {
		return errs.InvalidValue("strategy: non-positive weight %v", s.Weight)
	}
	if s.Side != cashflows.Pay && s.Side != cashflows.Receive {
		return errs.ValueNotSet("strategy: side")
	}
	if s.Tenor.Length <= 0 {
		return errs.InvalidValue("strategy: non-positive tenor %s", s.Tenor)
	}
	switch s.RateType {
	case FixedRate, FloatingRate:
		return nil
	default:
		return errs.NotImplemented("strategy: rate type %q", s.RateType)
	}
}
