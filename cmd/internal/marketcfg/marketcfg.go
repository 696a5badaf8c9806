// Package marketcfg turns the declarative curve, instrument and strategy
// blocks accepted by the command line tools into market stores and books.
// The same structs carry JSON and TOML tags so both input formats share one
// schema.
package marketcfg

import (
	"fmt"
	"time"

	"github.com/meenmo/almlib/alm"
	"github.com/meenmo/almlib/cashflows"
	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/instruments"
	"github.com/meenmo/almlib/market"
	"github.com/meenmo/almlib/rates"
	"github.com/meenmo/almlib/rates/curve"
	"github.com/meenmo/almlib/rates/index"
)

// Curve declares one index entry of the market store. Type selects the term
// structure: FLAT needs Rate, DISCOUNT needs Dates and Values as discount
// factors, ZERO needs Dates and Values as zero rates. Currency, when set,
// marks this curve as the discounting curve of that currency for FX
// advancement. Fixings seed the index's historical fixings.
type Curve struct {
	ID          int                `json:"id" toml:"id"`
	Type        string             `json:"type" toml:"type"`
	Rate        float64            `json:"rate,omitempty" toml:"rate"`
	Dates       []string           `json:"dates,omitempty" toml:"dates"`
	Values      []float64          `json:"values,omitempty" toml:"values"`
	DayCount    string             `json:"day_count,omitempty" toml:"day_count"`
	Compounding string             `json:"compounding,omitempty" toml:"compounding"`
	Frequency   string             `json:"frequency,omitempty" toml:"frequency"`
	Currency    string             `json:"currency,omitempty" toml:"currency"`
	Fixings     map[string]float64 `json:"fixings,omitempty" toml:"fixings"`
}

// FxRate quotes a spot between two currencies.
type FxRate struct {
	First  string  `json:"first" toml:"first"`
	Second string  `json:"second" toml:"second"`
	Rate   float64 `json:"rate" toml:"rate"`
}

// Instrument declares one position of the book.
type Instrument struct {
	ID               string  `json:"id" toml:"id"`
	RateType         string  `json:"rate_type" toml:"rate_type"`
	Structure        string  `json:"structure,omitempty" toml:"structure"`
	StartDate        string  `json:"start_date" toml:"start_date"`
	Tenor            string  `json:"tenor" toml:"tenor"`
	Notional         float64 `json:"notional" toml:"notional"`
	Rate             float64 `json:"rate,omitempty" toml:"rate"`
	Spread           float64 `json:"spread,omitempty" toml:"spread"`
	PaymentFrequency string  `json:"payment_frequency,omitempty" toml:"payment_frequency"`
	Side             string  `json:"side,omitempty" toml:"side"`
	Currency         string  `json:"currency,omitempty" toml:"currency"`
	DayCount         string  `json:"day_count,omitempty" toml:"day_count"`
	Compounding      string  `json:"compounding,omitempty" toml:"compounding"`
	Frequency        string  `json:"frequency,omitempty" toml:"frequency"`
	DiscountCurve    int     `json:"discount_curve" toml:"discount_curve"`
	ForecastCurve    int     `json:"forecast_curve,omitempty" toml:"forecast_curve"`
}

// Strategy declares one slice of a rollover reinvestment mix.
type Strategy struct {
	Weight           float64 `json:"weight" toml:"weight"`
	RateType         string  `json:"rate_type" toml:"rate_type"`
	Structure        string  `json:"structure,omitempty" toml:"structure"`
	Tenor            string  `json:"tenor" toml:"tenor"`
	PaymentFrequency string  `json:"payment_frequency,omitempty" toml:"payment_frequency"`
	Side             string  `json:"side,omitempty" toml:"side"`
	DayCount         string  `json:"day_count,omitempty" toml:"day_count"`
	Compounding      string  `json:"compounding,omitempty" toml:"compounding"`
	Frequency        string  `json:"frequency,omitempty" toml:"frequency"`
	DiscountCurve    int     `json:"discount_curve" toml:"discount_curve"`
	ForecastCurve    int     `json:"forecast_curve,omitempty" toml:"forecast_curve"`
}

// ParseDate reads a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errs.InvalidValue("cannot parse date %q", s)
	}
	return d, nil
}

// rateDefinition assembles a rate definition from optional convention
// strings, falling back to the money-market default field by field.
func rateDefinition(dayCount, compounding, frequency string) (rates.RateDefinition, error) {
	def := rates.DefaultRateDefinition()
	if dayCount != "" {
		dc, err := rates.ParseDayCount(dayCount)
		if err != nil {
			return rates.RateDefinition{}, err
		}
		def.DayCount = dc
	}
	if compounding != "" {
		comp, err := rates.ParseCompounding(compounding)
		if err != nil {
			return rates.RateDefinition{}, err
		}
		def.Compounding = comp
	}
	if frequency != "" {
		freq, err := rates.ParseFrequency(frequency)
		if err != nil {
			return rates.RateDefinition{}, err
		}
		def.Frequency = freq
	}
	return def, nil
}

// BuildStore assembles a market store from curve and FX declarations.
func BuildStore(refDate time.Time, localCcy currency.Currency, curves []Curve, fx []FxRate) (*market.MarketStore, error) {
	store := market.NewMarketStore(refDate, localCcy)
	for _, c := range curves {
		ix, err := buildIndex(refDate, c)
		if err != nil {
			return nil, fmt.Errorf("curve %d: %w", c.ID, err)
		}
		if err := store.AddIndex(c.ID, ix); err != nil {
			return nil, err
		}
		if c.Currency != "" {
			ccy, err := currency.Parse(c.Currency)
			if err != nil {
				return nil, fmt.Errorf("curve %d: %w", c.ID, err)
			}
			store.FxStore().AddCurrencyCurve(ccy, c.ID)
		}
	}
	for _, q := range fx {
		first, err := currency.Parse(q.First)
		if err != nil {
			return nil, err
		}
		second, err := currency.Parse(q.Second)
		if err != nil {
			return nil, err
		}
		if err := store.FxStore().AddExchangeRate(first, second, q.Rate); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func buildIndex(refDate time.Time, c Curve) (index.RateIndex, error) {
	def, err := rateDefinition(c.DayCount, c.Compounding, c.Frequency)
	if err != nil {
		return nil, err
	}

	var ts curve.YieldTermStructure
	switch c.Type {
	case "FLAT", "":
		ts = curve.NewFlatForward(refDate, c.Rate, def)
	case "DISCOUNT":
		dates, err := parseDates(c.Dates)
		if err != nil {
			return nil, err
		}
		ts, err = curve.NewDiscountCurve(dates, c.Values, def.DayCount, curve.LogLinear)
		if err != nil {
			return nil, err
		}
	case "ZERO":
		dates, err := parseDates(c.Dates)
		if err != nil {
			return nil, err
		}
		ts, err = curve.NewZeroRateCurve(dates, c.Values, def, curve.Linear)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errs.InvalidValue("unknown curve type %q", c.Type)
	}

	fixings := make(map[time.Time]float64, len(c.Fixings))
	for s, v := range c.Fixings {
		d, err := ParseDate(s)
		if err != nil {
			return nil, err
		}
		fixings[d] = v
	}
	return index.NewIborIndex().
		WithRateDefinition(def).
		WithFixings(fixings).
		WithTermStructure(ts), nil
}

func parseDates(ss []string) ([]time.Time, error) {
	out := make([]time.Time, len(ss))
	for i, s := range ss {
		d, err := ParseDate(s)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// BuildInstrument assembles one position, defaulting currency to the local
// one and side to receive.
func BuildInstrument(cfg Instrument, localCcy currency.Currency) (instruments.Instrument, error) {
	start, err := ParseDate(cfg.StartDate)
	if err != nil {
		return nil, fmt.Errorf("instrument %s: %w", cfg.ID, err)
	}
	tenor, err := rates.ParsePeriod(cfg.Tenor)
	if err != nil {
		return nil, fmt.Errorf("instrument %s: %w", cfg.ID, err)
	}
	def, err := rateDefinition(cfg.DayCount, cfg.Compounding, cfg.Frequency)
	if err != nil {
		return nil, fmt.Errorf("instrument %s: %w", cfg.ID, err)
	}

	structure := instruments.Bullet
	if cfg.Structure != "" {
		if structure, err = instruments.ParseStructure(cfg.Structure); err != nil {
			return nil, fmt.Errorf("instrument %s: %w", cfg.ID, err)
		}
	}
	side := cashflows.Receive
	if cfg.Side != "" {
		if side, err = cashflows.ParseSide(cfg.Side); err != nil {
			return nil, fmt.Errorf("instrument %s: %w", cfg.ID, err)
		}
	}
	ccy := localCcy
	if cfg.Currency != "" {
		if ccy, err = currency.Parse(cfg.Currency); err != nil {
			return nil, fmt.Errorf("instrument %s: %w", cfg.ID, err)
		}
	}
	freq := rates.Annual
	if cfg.PaymentFrequency != "" {
		if freq, err = rates.ParseFrequency(cfg.PaymentFrequency); err != nil {
			return nil, fmt.Errorf("instrument %s: %w", cfg.ID, err)
		}
	}

	switch cfg.RateType {
	case "FIXED", "":
		in, err := instruments.MakeFixedRateInstrument().
			WithID(cfg.ID).
			WithStartDate(start).
			WithTenor(tenor).
			WithNotional(cfg.Notional).
			WithRate(cfg.Rate).
			WithRateDefinition(def).
			WithPaymentFrequency(freq).
			WithStructure(structure).
			WithSide(side).
			WithCurrency(ccy).
			WithDiscountCurveID(cfg.DiscountCurve).
			Build()
		if err != nil {
			return nil, fmt.Errorf("instrument %s: %w", cfg.ID, err)
		}
		return in, nil
	case "FLOATING":
		in, err := instruments.MakeFloatingRateInstrument().
			WithID(cfg.ID).
			WithStartDate(start).
			WithTenor(tenor).
			WithNotional(cfg.Notional).
			WithSpread(cfg.Spread).
			WithRateDefinition(def).
			WithPaymentFrequency(freq).
			WithStructure(structure).
			WithSide(side).
			WithCurrency(ccy).
			WithDiscountCurveID(cfg.DiscountCurve).
			WithForecastCurveID(cfg.ForecastCurve).
			Build()
		if err != nil {
			return nil, fmt.Errorf("instrument %s: %w", cfg.ID, err)
		}
		return in, nil
	default:
		return nil, errs.InvalidValue("instrument %s: unknown rate type %q", cfg.ID, cfg.RateType)
	}
}

// BuildStrategy assembles one rollover strategy slice.
func BuildStrategy(cfg Strategy) (alm.RolloverStrategy, error) {
	rateType, err := alm.ParseRateType(cfg.RateType)
	if err != nil {
		return alm.RolloverStrategy{}, err
	}
	tenor, err := rates.ParsePeriod(cfg.Tenor)
	if err != nil {
		return alm.RolloverStrategy{}, err
	}
	def, err := rateDefinition(cfg.DayCount, cfg.Compounding, cfg.Frequency)
	if err != nil {
		return alm.RolloverStrategy{}, err
	}

	structure := instruments.Bullet
	if cfg.Structure != "" {
		if structure, err = instruments.ParseStructure(cfg.Structure); err != nil {
			return alm.RolloverStrategy{}, err
		}
	}
	side := cashflows.Receive
	if cfg.Side != "" {
		if side, err = cashflows.ParseSide(cfg.Side); err != nil {
			return alm.RolloverStrategy{}, err
		}
	}
	freq := rates.Annual
	if cfg.PaymentFrequency != "" {
		if freq, err = rates.ParseFrequency(cfg.PaymentFrequency); err != nil {
			return alm.RolloverStrategy{}, err
		}
	}

	return alm.RolloverStrategy{
		Weight:           cfg.Weight,
		Structure:        structure,
		PaymentFrequency: freq,
		Tenor:            tenor,
		Side:             side,
		RateType:         rateType,
		RateDefinition:   def,
		DiscountCurveID:  cfg.DiscountCurve,
		ForecastCurveID:  cfg.ForecastCurve,
	}, nil
}
