package alm

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/almlib/calendar"
	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/instruments"
	"github.com/meenmo/almlib/market"
	"github.com/meenmo/almlib/rates"
	"github.com/meenmo/almlib/visitors"
)

// RolloverSimulationEngine walks every calendar day of the horizon and
// reinvests maturing redemptions into fresh par-quoted positions. Redemptions
// thrown off by generated positions feed back into the schedule, so later
// eval dates roll the simulated book as well as the base one.
type RolloverSimulationEngine struct {
	store           *market.MarketStore
	baseRedemptions map[time.Time]float64
	ccy             currency.Currency
	growthMode      GrowthMode
	growthRate      float64
	evalDates       []time.Time
}

// NewRolloverSimulationEngine anchors the engine to a store. The horizon is
// walked daily, unadjusted, from the store's reference date.
func NewRolloverSimulationEngine(store *market.MarketStore, baseRedemptions map[time.Time]float64, ccy currency.Currency, horizon rates.Period) *RolloverSimulationEngine {
	ref := store.ReferenceDate()
	base := make(map[time.Time]float64, len(baseRedemptions))
	for d, v := range baseRedemptions {
		base[d] = v
	}
	return &RolloverSimulationEngine{
		store:           store,
		baseRedemptions: base,
		ccy:             ccy,
		growthMode:      PaidAmount,
		evalDates:       calendar.DailySchedule(ref, horizon.AddTo(ref)),
	}
}

// WithGrowth sets the placement sizing rule. The default is PaidAmount with
// zero growth, a pure rollover.
func (e *RolloverSimulationEngine) WithGrowth(mode GrowthMode, rate float64) *RolloverSimulationEngine {
	e.growthMode = mode
	e.growthRate = rate
	return e
}

// Run simulates the horizon and returns every generated position, indexed
// and fixed against the store advanced to its placement date. The engine
// holds no state between runs; a failed run leaves nothing observable.
func (e *RolloverSimulationEngine) Run(strategies []RolloverStrategy) ([]instruments.Instrument, error) {
	redemptions := make(map[time.Time]float64, len(e.baseRedemptions))
	var outstanding0 float64
	for d, v := range e.baseRedemptions {
		redemptions[d] = v
		outstanding0 += v
	}
	outstanding := outstanding0
	first := e.evalDates[0]

	var simulated []instruments.Instrument
	for _, d := range e.evalDates {
		redemption := redemptions[d]

		var placement float64
		switch e.growthMode {
		case PaidAmount:
			placement = redemption * (1.0 + e.growthRate)
		case Annual:
			tau := rates.Act360.YearFraction(first, d)
			outstanding -= redemption
			placement = outstanding0*(1.0+e.growthRate*tau) - outstanding
			outstanding += placement
		default:
			return nil, errs.InvalidValue("rollover: unknown growth mode %q", e.growthMode)
		}
		if placement == 0 {
			continue
		}

		positions, err := e.place(d, math.Abs(placement), strategies)
		if err != nil {
			return nil, fmt.Errorf("rollover at %s: %w", d.Format("2006-01-02"), err)
		}
		simulated = append(simulated, positions...)

		agg := visitors.NewCashflowsAggregatorConstVisitor().WithCurrency(e.ccy)
		for _, in := range positions {
			if err := agg.Visit(in); err != nil {
				return nil, fmt.Errorf("rollover at %s: %w", d.Format("2006-01-02"), err)
			}
		}
		for date, amount := range agg.Redemptions() {
			redemptions[date] += amount
		}
	}
	return simulated, nil
}

// place generates the positions for one eval date and runs the pricing
// pipeline over them against the advanced store.
func (e *RolloverSimulationEngine) place(d time.Time, amount float64, strategies []RolloverStrategy) ([]instruments.Instrument, error) {
	store := e.store
	if !d.Equal(e.store.ReferenceDate()) {
		advanced, err := e.store.AdvanceToDate(d)
		if err != nil {
			return nil, err
		}
		store = advanced
	}

	positions, err := NewPositionGenerator(e.ccy, strategies).
		WithMarketStore(store).
		WithAmount(amount).
		Generate()
	if err != nil {
		return nil, err
	}

	indexer := visitors.NewIndexingVisitor(store)
	for _, in := range positions {
		if err := indexer.Visit(in); err != nil {
			return nil, err
		}
	}
	data, err := market.NewSimpleModel(store).GenMarketData(indexer.Requests())
	if err != nil {
		return nil, err
	}
	fixer := visitors.NewFixingVisitor(store, data)
	for _, in := range positions {
		if err := fixer.Visit(in); err != nil {
			return nil, err
		}
	}
	return positions, nil
}
