package instruments

import (
	"time"

	"github.com/meenmo/almlib/calendar"
	"github.com/meenmo/almlib/cashflows"
	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
)

// FixedRateInstrumentBuilder assembles a fixed rate instrument step by step.
// Required fields: start date, end date or tenor, notional, currency.
type FixedRateInstrumentBuilder struct {
	id              string
	startDate       time.Time
	endDate         time.Time
	tenor           rates.Period
	haveTenor       bool
	notional        float64
	rate            float64
	def             rates.RateDefinition
	freq            rates.Frequency
	structure       Structure
	side            cashflows.Side
	ccy             currency.Currency
	cal             calendar.CalendarID
	discountCurveID int
}

// MakeFixedRateInstrument starts a builder with bullet structure, annual
// payments, receive side, unadjusted dates and the default rate definition.
func MakeFixedRateInstrument() *FixedRateInstrumentBuilder {
	return &FixedRateInstrumentBuilder{
		def:       rates.DefaultRateDefinition(),
		freq:      rates.Annual,
		structure: Bullet,
		side:      cashflows.Receive,
		cal:       calendar.NONE,
	}
}

func (b *FixedRateInstrumentBuilder) WithID(id string) *FixedRateInstrumentBuilder {
	b.id = id
	return b
}

func (b *FixedRateInstrumentBuilder) WithStartDate(d time.Time) *FixedRateInstrumentBuilder {
	b.startDate = d
	return b
}

func (b *FixedRateInstrumentBuilder) WithEndDate(d time.Time) *FixedRateInstrumentBuilder {
	b.endDate = d
	return b
}

func (b *FixedRateInstrumentBuilder) WithTenor(tenor rates.Period) *FixedRateInstrumentBuilder {
	b.tenor = tenor
	b.haveTenor = true
	return b
}

func (b *FixedRateInstrumentBuilder) WithNotional(notional float64) *FixedRateInstrumentBuilder {
	b.notional = notional
	return b
}

func (b *FixedRateInstrumentBuilder) WithRate(rate float64) *FixedRateInstrumentBuilder {
	b.rate = rate
	return b
}

func (b *FixedRateInstrumentBuilder) WithRateDefinition(def rates.RateDefinition) *FixedRateInstrumentBuilder {
	b.def = def
	return b
}

func (b *FixedRateInstrumentBuilder) WithPaymentFrequency(freq rates.Frequency) *FixedRateInstrumentBuilder {
	b.freq = freq
	return b
}

func (b *FixedRateInstrumentBuilder) WithStructure(s Structure) *FixedRateInstrumentBuilder {
	b.structure = s
	return b
}

func (b *FixedRateInstrumentBuilder) WithSide(side cashflows.Side) *FixedRateInstrumentBuilder {
	b.side = side
	return b
}

func (b *FixedRateInstrumentBuilder) WithCurrency(ccy currency.Currency) *FixedRateInstrumentBuilder {
	b.ccy = ccy
	return b
}

// WithCalendar rolls payment dates onto business days (Modified Following).
// The default NONE calendar leaves schedules unadjusted.
func (b *FixedRateInstrumentBuilder) WithCalendar(cal calendar.CalendarID) *FixedRateInstrumentBuilder {
	b.cal = cal
	return b
}

func (b *FixedRateInstrumentBuilder) WithDiscountCurveID(id int) *FixedRateInstrumentBuilder {
	b.discountCurveID = id
	return b
}

// Build assembles the cash flow stream for the configured structure.
func (b *FixedRateInstrumentBuilder) Build() (*FixedRateInstrument, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	end := b.resolveEndDate()
	rate := rates.FromRateDefinition(b.rate, b.def)

	var dates []time.Time
	var err error
	switch b.structure {
	case Bullet, EqualRedemptions, EqualPayments:
		dates, err = paymentSchedule(b.startDate, end, b.freq)
	case Zero:
		dates = []time.Time{b.startDate, end}
	default:
		return nil, errs.NotImplemented("fixed instrument: structure %s", b.structure)
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
			coupon, err := cashflows.NewFixedRateCoupon(b.notional, rate, dates[i], dates[i+1], dates[i+1], b.ccy, b.side, b.discountCurveID)
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
			coupon, err := cashflows.NewFixedRateCoupon(outstanding, rate, dates[i], dates[i+1], dates[i+1], b.ccy, b.side, b.discountCurveID)
			if err != nil {
				return nil, err
			}
			flows = append(flows, coupon)
			flows = append(flows, cashflows.NewRedemption(redemption, dates[i+1], b.ccy, b.side, b.discountCurveID))
			outstanding -= redemption
		}
	case EqualPayments:
		payment := equalPayment(dates, rate, b.notional)
		outstanding := b.notional
		for i := 0; i < periods; i++ {
			coupon, err := cashflows.NewFixedRateCoupon(outstanding, rate, dates[i], dates[i+1], dates[i+1], b.ccy, b.side, b.discountCurveID)
			if err != nil {
				return nil, err
			}
			interest := outstanding * (rate.CompoundFactor(dates[i], dates[i+1]) - 1.0)
			redemption := payment - interest
			flows = append(flows, coupon)
			flows = append(flows, cashflows.NewRedemption(redemption, dates[i+1], b.ccy, b.side, b.discountCurveID))
			outstanding -= redemption
		}
	}

	return &FixedRateInstrument{
		id:        b.id,
		startDate: b.startDate,
		endDate:   maturity,
		notional:  b.notional,
		rate:      rate,
		structure: b.structure,
		side:      b.side,
		ccy:       b.ccy,
		flows:     flows,
	}, nil
}

func (b *FixedRateInstrumentBuilder) validate() error {
	if b.startDate.IsZero() {
		return errs.ValueNotSet("fixed instrument: start date")
	}
	if b.endDate.IsZero() && !b.haveTenor {
		return errs.ValueNotSet("fixed instrument: end date or tenor")
	}
	if b.notional <= 0 {
		return errs.InvalidValue("fixed instrument: non-positive notional %v", b.notional)
	}
	if b.ccy == "" {
		return errs.ValueNotSet("fixed instrument: currency")
	}
	return nil
}

func (b *FixedRateInstrumentBuilder) resolveEndDate() time.Time {
	if !b.endDate.IsZero() {
		return b.endDate
	}
	return b.tenor.AddTo(b.startDate)
}

// equalPayment is the constant payment amortising the notional over the
// schedule. The outstanding follows outstanding·cf − payment each period, a
// recursion linear in the payment, so the root is exact: the grown notional
// over the annuity factor.
func equalPayment(dates []time.Time, rate rates.InterestRate, notional float64) float64 {
	growth := 1.0
	annuity := 0.0
	for i := 0; i+1 < len(dates); i++ {
		cf := rate.CompoundFactor(dates[i], dates[i+1])
		growth *= cf
		annuity = annuity*cf + 1.0
	}
	return notional * growth / annuity
}
