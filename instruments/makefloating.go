package instruments

import (
	"time"

	"github.com/meenmo/almlib/calendar"
	"github.com/meenmo/almlib/cashflows"
	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
)

// FloatingRateInstrumentBuilder assembles a floating rate instrument.
// Coupons accrue at the forecast index plus a spread; the payment frequency
// doubles as the index tenor.
type FloatingRateInstrumentBuilder struct {
	id              string
	startDate       time.Time
	endDate         time.Time
	tenor           rates.Period
	haveTenor       bool
	notional        float64
	spread          float64
	def             rates.RateDefinition
	freq            rates.Frequency
	structure       Structure
	side            cashflows.Side
	ccy             currency.Currency
	cal             calendar.CalendarID
	discountCurveID int
	forecastCurveID int
}

// MakeFloatingRateInstrument starts a builder with bullet structure,
// semiannual payments, receive side, unadjusted dates and the default rate
// definition.
func MakeFloatingRateInstrument() *FloatingRateInstrumentBuilder {
	return &FloatingRateInstrumentBuilder{
		def:       rates.DefaultRateDefinition(),
		freq:      rates.Semiannual,
		structure: Bullet,
		side:      cashflows.Receive,
		cal:       calendar.NONE,
	}
}

func (b *FloatingRateInstrumentBuilder) WithID(id string) *FloatingRateInstrumentBuilder {
	b.id = id
	return b
}

func (b *FloatingRateInstrumentBuilder) WithStartDate(d time.Time) *FloatingRateInstrumentBuilder {
	b.startDate = d
	return b
}

func (b *FloatingRateInstrumentBuilder) WithEndDate(d time.Time) *FloatingRateInstrumentBuilder {
	b.endDate = d
	return b
}

func (b *FloatingRateInstrumentBuilder) WithTenor(tenor rates.Period) *FloatingRateInstrumentBuilder {
	b.tenor = tenor
	b.haveTenor = true
	return b
}

func (b *FloatingRateInstrumentBuilder) WithNotional(notional float64) *FloatingRateInstrumentBuilder {
	b.notional = notional
	return b
}

func (b *FloatingRateInstrumentBuilder) WithSpread(spread float64) *FloatingRateInstrumentBuilder {
	b.spread = spread
	return b
}

func (b *FloatingRateInstrumentBuilder) WithRateDefinition(def rates.RateDefinition) *FloatingRateInstrumentBuilder {
	b.def = def
	return b
}

func (b *FloatingRateInstrumentBuilder) WithPaymentFrequency(freq rates.Frequency) *FloatingRateInstrumentBuilder {
	b.freq = freq
	return b
}

func (b *FloatingRateInstrumentBuilder) WithStructure(s Structure) *FloatingRateInstrumentBuilder {
	b.structure = s
	return b
}

func (b *FloatingRateInstrumentBuilder) WithSide(side cashflows.Side) *FloatingRateInstrumentBuilder {
	b.side = side
	return b
}

func (b *FloatingRateInstrumentBuilder) WithCurrency(ccy currency.Currency) *FloatingRateInstrumentBuilder {
	b.ccy = ccy
	return b
}

// WithCalendar rolls payment dates onto business days (Modified Following).
// The default NONE calendar leaves schedules unadjusted.
func (b *FloatingRateInstrumentBuilder) WithCalendar(cal calendar.CalendarID) *FloatingRateInstrumentBuilder {
	b.cal = cal
	return b
}

func (b *FloatingRateInstrumentBuilder) WithDiscountCurveID(id int) *FloatingRateInstrumentBuilder {
	b.discountCurveID = id
	return b
}

func (b *FloatingRateInstrumentBuilder) WithForecastCurveID(id int) *FloatingRateInstrumentBuilder {
	b.forecastCurveID = id
	return b
}

// Build assembles the cash flow stream for the configured structure.
func (b *FloatingRateInstrumentBuilder) Build() (*FloatingRateInstrument, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	end := b.resolveEndDate()

	var dates []time.Time
	var err error
	switch b.structure {
	case Bullet, EqualRedemptions:
		dates, err = paymentSchedule(b.startDate, end, b.freq)
	case Zero:
		dates = []time.Time{b.startDate, end}
	default:
		return nil, errs.NotImplemented("floating instrument: structure %s", b.structure)
	}
	if err != nil {
		return nil, err
	}
	adjustSchedule(b.cal, dates)
	maturity := dates[len(dates)-1]

	flows := []cashflows.Cashflow{
		cashflows.NewDisbursement(b.notional, b.startDate, b.ccy, b.side.Inverse(), b.discountCurveID),
	}
	periods := len(dates) - 1

	switch b.structure {
	case Bullet, Zero:
		for i := 0; i < periods; i++ {
			coupon, err := cashflows.NewFloatingRateCoupon(b.notional, b.spread, b.def, dates[i], dates[i+1], dates[i+1], b.ccy, b.side, b.discountCurveID, b.forecastCurveID)
			if err != nil {
				return nil, err
			}
			flows = append(flows, coupon)
		}
		flows = append(flows, cashflows.NewRedemption(b.notional, maturity, b.ccy, b.side, b.discountCurveID))
	case EqualRedemptions:
		redemption := b.notional / float64(periods)
		outstanding := b.notional
		for i := 0; i < periods; i++ {
			coupon, err := cashflows.NewFloatingRateCoupon(outstanding, b.spread, b.def, dates[i], dates[i+1], dates[i+1], b.ccy, b.side, b.discountCurveID, b.forecastCurveID)
			if err != nil {
				return nil, err
			}
			flows = append(flows, coupon)
			flows = append(flows, cashflows.NewRedemption(redemption, dates[i+1], b.ccy, b.side, b.discountCurveID))
			outstanding -= redemption
		}
	}

	return &FloatingRateInstrument{
		id:        b.id,
		startDate: b.startDate,
		endDate:   maturity,
		notional:  b.notional,
		spread:    b.spread,
		structure: b.structure,
		side:      b.side,
		ccy:       b.ccy,
		flows:     flows,
	}, nil
}

func (b *FloatingRateInstrumentBuilder) validate() error {
	if b.startDate.IsZero() {
		return errs.ValueNotSet("floating instrument: start date")
	}
	if b.endDate.IsZero() && !b.haveTenor {
		return errs.ValueNotSet("floating instrument: end date or tenor")
	}
	if b.notional <= 0 {
		return errs.InvalidValue("floating instrument: non-positive notional %v", b.notional)
	}
	if b.ccy == "" {
		return errs.ValueNotSet("floating instrument: currency")
	}
	return nil
}

func (b *FloatingRateInstrumentBuilder) resolveEndDate() time.Time {
	if !b.endDate.IsZero() {
		return b.endDate
	}
	return b.tenor.AddTo(b.startDate)
}
