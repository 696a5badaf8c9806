package cashflows

import (
	"time"

	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
)

// FloatingRateCoupon accrues an index rate plus a spread. The fixing rate is
// unknown at construction; the fixing pass injects it before pricing.
type FloatingRateCoupon struct {
	base
	notional        float64
	spread          float64
	def             rates.RateDefinition
	accrualStart    time.Time
	accrualEnd      time.Time
	forecastCurveID int
	fixingRate      float64
	fixed           bool
}

// NewFloatingRateCoupon builds a floating coupon. The accrual period must be
// non-empty.
func NewFloatingRateCoupon(notional, spread float64, def rates.RateDefinition, accrualStart, accrualEnd, paymentDate time.Time, ccy currency.Currency, side Side, discountCurveID, forecastCurveID int) (*FloatingRateCoupon, error) {
	if !accrualStart.Before(accrualEnd) {
		return nil, errs.InvalidValue("floating coupon: accrual start %s not before accrual end %s",
			accrualStart.Format("2006-01-02"), accrualEnd.Format("2006-01-02"))
	}
	return &FloatingRateCoupon{
		base:            newBase(paymentDate, ccy, side, discountCurveID),
		notional:        notional,
		spread:          spread,
		def:             def,
		accrualStart:    accrualStart,
		accrualEnd:      accrualEnd,
		forecastCurveID: forecastCurveID,
	}, nil
}

func (cf *FloatingRateCoupon) Notional() float64                   { return cf.notional }
func (cf *FloatingRateCoupon) Spread() float64                     { return cf.spread }
func (cf *FloatingRateCoupon) RateDefinition() rates.RateDefinition { return cf.def }
func (cf *FloatingRateCoupon) AccrualStart() time.Time             { return cf.accrualStart }
func (cf *FloatingRateCoupon) AccrualEnd() time.Time               { return cf.accrualEnd }
func (cf *FloatingRateCoupon) ForecastCurveID() int                { return cf.forecastCurveID }

// FixingRate reports the injected fixing, false before the fixing pass.
func (cf *FloatingRateCoupon) FixingRate() (float64, bool) {
	return cf.fixingRate, cf.fixed
}

// SetFixingRate injects the realised or forecast index rate.
func (cf *FloatingRateCoupon) SetFixingRate(rate float64) {
	cf.fixingRate = rate
	cf.fixed = true
}

// SetSpread requotes the margin, used when solving for par spreads.
func (cf *FloatingRateCoupon) SetSpread(spread float64) { cf.spread = spread }

// Amount is the interest accrued at fixing plus spread. It fails until the
// fixing pass has run.
func (cf *FloatingRateCoupon) Amount() (float64, error) {
	if !cf.fixed {
		return 0, errs.ValueNotSet("floating coupon paying %s: fixing rate not set", cf.paymentDate.Format("2006-01-02"))
	}
	rate := rates.FromRateDefinition(cf.fixingRate+cf.spread, cf.def)
	return cf.notional * (rate.CompoundFactor(cf.accrualStart, cf.accrualEnd) - 1.0), nil
}

// AccruedAmount is the interest accrued over the part of [start, end) that
// overlaps the accrual period. Like Amount it needs the fixing pass first.
func (cf *FloatingRateCoupon) AccruedAmount(start, end time.Time) (float64, error) {
	s, e, ok := clipAccrual(start, end, cf.accrualStart, cf.accrualEnd)
	if !ok {
		return 0, nil
	}
	if !cf.fixed {
		return 0, errs.ValueNotSet("floating coupon paying %s: fixing rate not set", cf.paymentDate.Format("2006-01-02"))
	}
	rate := rates.FromRateDefinition(cf.fixingRate+cf.spread, cf.def)
	return cf.notional * (rate.CompoundFactor(s, e) - 1.0), nil
}
