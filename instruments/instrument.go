// Package instruments assembles cash flow streams for loans and deposits:
// a disbursement, a coupon schedule and one or more redemptions, shaped by
// an amortisation structure.
package instruments

import (
	"time"

	"github.com/meenmo/almlib/calendar"
	"github.com/meenmo/almlib/cashflows"
	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
)

// Structure selects the amortisation profile.
type Structure string

const (
	Bullet           Structure = "BULLET"
	EqualRedemptions Structure = "EQUAL_REDEMPTIONS"
	Zero             Structure = "ZERO"
	EqualPayments    Structure = "EQUAL_PAYMENTS"
	FixedThenFloat   Structure = "FIXED_THEN_FLOAT"
	FloatThenFixed   Structure = "FLOAT_THEN_FIXED"
)

// ParseStructure validates an amortisation structure string.
func ParseStructure(s string) (Structure, error) {
	switch Structure(s) {
	case Bullet, EqualRedemptions, Zero, EqualPayments, FixedThenFloat, FloatThenFixed:
		return Structure(s), nil
	default:
		return "", errs.InvalidValue("unknown structure %q", s)
	}
}

// Instrument is a cash flow stream with its originating terms.
type Instrument interface {
	ID() string
	StartDate() time.Time
	EndDate() time.Time
	Notional() float64
	Currency() currency.Currency
	Side() cashflows.Side
	Cashflows() []cashflows.Cashflow
}

// paymentSchedule generates unadjusted period end dates from start to end at
// the payment frequency, with a short final stub when the tenor does not
// divide evenly.
func paymentSchedule(start, end time.Time, freq rates.Frequency) ([]time.Time, error) {
	if !start.Before(end) {
		return nil, errs.InvalidValue("schedule: start date %s not before end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	p, err := rates.PeriodFromFrequency(freq)
	if err != nil {
		return nil, err
	}
	dates := []time.Time{start}
	for i := 1; ; i++ {
		d := rates.NewPeriod(p.Length*i, p.Unit).AddTo(start)
		if !d.Before(end) {
			dates = append(dates, end)
			return dates, nil
		}
		dates = append(dates, d)
	}
}

// adjustSchedule rolls every date after the start onto a business day with
// Modified Following. The NONE calendar leaves the schedule untouched; the
// start date is contractual and never moves.
func adjustSchedule(cal calendar.CalendarID, dates []time.Time) {
	if cal == calendar.NONE {
		return
	}
	for i := 1; i < len(dates); i++ {
		dates[i] = calendar.Adjust(cal, dates[i])
	}
}
