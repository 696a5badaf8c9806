package market

import (
	"time"

	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
	"github.com/meenmo/almlib/rates/curve"
	"github.com/meenmo/almlib/rates/index"
)

// MarketStore aggregates everything pricing needs: the rate index registry,
// FX spots with their curve mapping, and the local currency, all anchored to
// one reference date. Advancing yields a new store; the source is left for
// read-only use.
type MarketStore struct {
	refDate       time.Time
	localCurrency currency.Currency
	indexStore    *index.Store
	fxStore       *currency.ExchangeRateStore
}

// NewMarketStore builds an empty store anchored at a reference date.
func NewMarketStore(refDate time.Time, localCurrency currency.Currency) *MarketStore {
	return &MarketStore{
		refDate:       refDate,
		localCurrency: localCurrency,
		indexStore:    index.NewStore(),
		fxStore:       currency.NewExchangeRateStore(),
	}
}

func (ms *MarketStore) ReferenceDate() time.Time            { return ms.refDate }
func (ms *MarketStore) LocalCurrency() currency.Currency    { return ms.localCurrency }
func (ms *MarketStore) IndexStore() *index.Store            { return ms.indexStore }
func (ms *MarketStore) FxStore() *currency.ExchangeRateStore { return ms.fxStore }

// AddIndex registers a rate index. The index must share the store's
// reference date.
func (ms *MarketStore) AddIndex(id int, ix index.RateIndex) error {
	if !ix.ReferenceDate().Equal(ms.refDate) {
		return errs.InvalidValue("market store: index %d reference date %s differs from store reference date %s",
			id, ix.ReferenceDate().Format("2006-01-02"), ms.refDate.Format("2006-01-02"))
	}
	return ms.indexStore.AddIndex(id, ix)
}

// GetIndex looks a rate index up by id.
func (ms *MarketStore) GetIndex(id int) (index.RateIndex, error) {
	return ms.indexStore.GetIndex(id)
}

// CurveByID resolves the term structure behind an index id.
func (ms *MarketStore) CurveByID(id int) (curve.YieldTermStructure, error) {
	ix, err := ms.indexStore.GetIndex(id)
	if err != nil {
		return nil, err
	}
	ts := ix.TermStructure()
	if ts == nil {
		return nil, errs.ValueNotSet("market store: index %d has no term structure", id)
	}
	return ts, nil
}

// CurveByCurrency resolves the discounting curve mapped to a currency.
func (ms *MarketStore) CurveByCurrency(c currency.Currency) (curve.YieldTermStructure, error) {
	id, err := ms.fxStore.CurrencyCurve(c)
	if err != nil {
		return nil, err
	}
	return ms.CurveByID(id)
}

// ExchangeRate resolves the spot between two currencies. A zero second
// currency defaults to the local currency.
func (ms *MarketStore) ExchangeRate(first, second currency.Currency) (float64, error) {
	if second == "" {
		second = ms.localCurrency
	}
	return ms.fxStore.ExchangeRate(first, second)
}

// AdvanceToPeriod returns a store anchored at reference date + p. Every
// index rolls forward and every FX spot moves to its forward value under the
// currencies' mapped curves. Negative periods are rejected.
func (ms *MarketStore) AdvanceToPeriod(p rates.Period) (*MarketStore, error) {
	newRef := p.AddTo(ms.refDate)
	if newRef.Before(ms.refDate) {
		return nil, errs.InvalidValue("market store: cannot advance by negative period %s", p)
	}

	advancedIndices, err := ms.indexStore.Advance(p)
	if err != nil {
		return nil, err
	}
	advancedFx, err := ms.fxStore.Advanced(func(c currency.Currency) (float64, error) {
		ts, err := ms.CurveByCurrency(c)
		if err != nil {
			return 0, err
		}
		return ts.DiscountFactor(newRef)
	})
	if err != nil {
		return nil, errs.Evaluation("market store: advancing fx spots: %v", err)
	}

	return &MarketStore{
		refDate:       newRef,
		localCurrency: ms.localCurrency,
		indexStore:    advancedIndices,
		fxStore:       advancedFx,
	}, nil
}

// AdvanceToDate returns a store anchored at a later date.
func (ms *MarketStore) AdvanceToDate(d time.Time) (*MarketStore, error) {
	if d.Before(ms.refDate) {
		return nil, errs.InvalidValue("market store: date %s before reference date %s",
			d.Format("2006-01-02"), ms.refDate.Format("2006-01-02"))
	}
	days := int(d.Sub(ms.refDate).Hours() / 24)
	return ms.AdvanceToPeriod(rates.NewPeriod(days, rates.Days))
}
