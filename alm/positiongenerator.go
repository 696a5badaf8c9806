package alm

import (
	"fmt"

	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/instruments"
	"github.com/meenmo/almlib/market"
	"github.com/meenmo/almlib/visitors"
)

// Draft quotes used to seed the par solver bracket.
const (
	draftFixedRate      = 0.03
	draftFloatingSpread = 0.01
)

// PositionGenerator turns an amount to reinvest into one instrument per
// strategy, each quoted at its par rate or par spread under the attached
// market store.
type PositionGenerator struct {
	ccy        currency.Currency
	strategies []RolloverStrategy
	store      *market.MarketStore
	amount     float64
}

// NewPositionGenerator builds a generator for a strategy mix. The market
// store and amount are attached per placement.
func NewPositionGenerator(ccy currency.Currency, strategies []RolloverStrategy) *PositionGenerator {
	return &PositionGenerator{ccy: ccy, strategies: strategies}
}

// WithMarketStore attaches the store the positions are priced against.
func (g *PositionGenerator) WithMarketStore(store *market.MarketStore) *PositionGenerator {
	g.store = store
	return g
}

// WithAmount sets the total amount split across the strategy weights.
func (g *PositionGenerator) WithAmount(amount float64) *PositionGenerator {
	g.amount = amount
	return g
}

// Generate builds one par-quoted instrument per strategy.
func (g *PositionGenerator) Generate() ([]instruments.Instrument, error) {
	if g.store == nil {
		return nil, errs.ValueNotSet("position generator: market store")
	}
	if g.amount <= 0 {
		return nil, errs.InvalidValue("position generator: non-positive amount %v", g.amount)
	}

	positions := make([]instruments.Instrument, 0, len(g.strategies))
	for i, s := range g.strategies {
		if err := s.validate(); err != nil {
			return nil, err
		}
		in, err := g.generatePosition(s, i)
		if err != nil {
			return nil, err
		}
		positions = append(positions, in)
	}
	return positions, nil
}

func (g *PositionGenerator) generatePosition(s RolloverStrategy, seq int) (instruments.Instrument, error) {
	ref := g.store.ReferenceDate()
	id := fmt.Sprintf("sim-%s-%d", ref.Format("2006-01-02"), seq)
	notional := g.amount * s.Weight

	switch s.RateType {
	case FixedRate:
		in, err := instruments.MakeFixedRateInstrument().
			WithID(id).
			WithStartDate(ref).
			WithTenor(s.Tenor).
			WithNotional(notional).
			WithRate(draftFixedRate).
			WithRateDefinition(s.RateDefinition).
			WithPaymentFrequency(s.PaymentFrequency).
			WithStructure(s.Structure).
			WithSide(s.Side).
			WithCurrency(g.ccy).
			WithDiscountCurveID(s.DiscountCurveID).
			Build()
		if err != nil {
			return nil, err
		}
		data, err := g.resolve(in)
		if err != nil {
			return nil, err
		}
		par, err := visitors.NewParValueConstVisitor(data, ref).VisitFixed(in)
		if err != nil {
			return nil, err
		}
		in.SetRate(par)
		return in, nil

	case FloatingRate:
		in, err := instruments.MakeFloatingRateInstrument().
			WithID(id).
			WithStartDate(ref).
			WithTenor(s.Tenor).
			WithNotional(notional).
			WithSpread(draftFloatingSpread).
			WithRateDefinition(s.RateDefinition).
			WithPaymentFrequency(s.PaymentFrequency).
			WithStructure(s.Structure).
			WithSide(s.Side).
			WithCurrency(g.ccy).
			WithDiscountCurveID(s.DiscountCurveID).
			WithForecastCurveID(s.ForecastCurveID).
			Build()
		if err != nil {
			return nil, err
		}
		data, err := g.resolve(in)
		if err != nil {
			return nil, err
		}
		if err := visitors.NewFixingVisitor(g.store, data).Visit(in); err != nil {
			return nil, err
		}
		spread, err := visitors.NewParValueConstVisitor(data, ref).VisitFloating(in)
		if err != nil {
			return nil, err
		}
		in.SetSpread(spread)
		return in, nil

	default:
		return nil, errs.NotImplemented("position generator: rate type %q", s.RateType)
	}
}

func (g *PositionGenerator) resolve(in instruments.Instrument) ([]market.MarketData, error) {
	indexer := visitors.NewIndexingVisitor(g.store)
	if err := indexer.Visit(in); err != nil {
		return nil, err
	}
	return market.NewSimpleModel(g.store).GenMarketData(indexer.Requests())
}
