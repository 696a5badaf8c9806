package market_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/market"
	"github.com/meenmo/almlib/rates"
	"github.com/meenmo/almlib/rates/curve"
	"github.com/meenmo/almlib/rates/index"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func compoundedDef() rates.RateDefinition {
	return rates.RateDefinition{DayCount: rates.Act360, Compounding: rates.Compounded, Frequency: rates.Annual}
}

// usdEurStore has a 3% USD curve (id 0), a 1% EUR curve (id 1) and a
// USD/EUR spot of 0.9, local currency USD.
func usdEurStore(t *testing.T, ref time.Time) *market.MarketStore {
	t.Helper()
	store := market.NewMarketStore(ref, currency.USD)

	usd := index.NewIborIndex().
		WithRateDefinition(compoundedDef()).
		WithTermStructure(curve.NewFlatForward(ref, 0.03, compoundedDef()))
	eur := index.NewIborIndex().
		WithRateDefinition(compoundedDef()).
		WithTermStructure(curve.NewFlatForward(ref, 0.01, compoundedDef()))
	if err := store.AddIndex(0, usd); err != nil {
		t.Fatalf("AddIndex(0): %v", err)
	}
	if err := store.AddIndex(1, eur); err != nil {
		t.Fatalf("AddIndex(1): %v", err)
	}
	if err := store.FxStore().AddExchangeRate(currency.USD, currency.EUR, 0.9); err != nil {
		t.Fatalf("AddExchangeRate: %v", err)
	}
	store.FxStore().AddCurrencyCurve(currency.USD, 0)
	store.FxStore().AddCurrencyCurve(currency.EUR, 1)
	return store
}

func TestMarketDataAccessors(t *testing.T) {
	t.Parallel()

	df := 0.97
	md := market.NewMarketData(3, &df, nil, nil)
	if md.ID() != 3 {
		t.Fatalf("ID: got %d want 3", md.ID())
	}
	if got, err := md.DF(); err != nil || got != 0.97 {
		t.Fatalf("DF: got (%v, %v) want (0.97, nil)", got, err)
	}
	if _, err := md.Fwd(); !errors.Is(err, errs.ErrValueNotSet) {
		t.Fatalf("Fwd on absent component: got %v want ErrValueNotSet", err)
	}
	if _, err := md.FX(); !errors.Is(err, errs.ErrValueNotSet) {
		t.Fatalf("FX on absent component: got %v want ErrValueNotSet", err)
	}
}

func TestSimpleModelDiscountFactorBranches(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	model := market.NewSimpleModel(usdEurStore(t, ref))

	resolve := func(d time.Time) float64 {
		t.Helper()
		md, err := model.GenNode(market.MarketRequest{ID: 0, DF: &market.DiscountFactorRequest{ProviderID: 0, Date: d}})
		if err != nil {
			t.Fatalf("GenNode: %v", err)
		}
		df, err := md.DF()
		if err != nil {
			t.Fatalf("DF: %v", err)
		}
		return df
	}

	if got := resolve(date(2021, time.August, 1)); got != 0.0 {
		t.Fatalf("past date: got %v want 0.0", got)
	}
	if got := resolve(ref); got != 1.0 {
		t.Fatalf("reference date: got %v want 1.0", got)
	}
	future := date(2022, time.September, 1)
	tau := rates.Act360.YearFraction(ref, future)
	want := math.Pow(1.03, -tau)
	if got := resolve(future); math.Abs(got-want) > 1e-12 {
		t.Fatalf("future date: got %.14f want %.14f", got, want)
	}
}

func TestSimpleModelForwardRate(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	model := market.NewSimpleModel(usdEurStore(t, ref))

	req := market.MarketRequest{ID: 1, Fwd: &market.ForwardRateRequest{
		ProviderID:  0,
		Start:       date(2022, time.March, 1),
		End:         date(2022, time.September, 1),
		Compounding: rates.Compounded,
		Frequency:   rates.Annual,
	}}
	md, err := model.GenNode(req)
	if err != nil {
		t.Fatalf("GenNode: %v", err)
	}
	fwd, err := md.Fwd()
	if err != nil {
		t.Fatalf("Fwd: %v", err)
	}
	if math.Abs(fwd-0.03) > 1e-10 {
		t.Fatalf("forward: got %.12f want 0.03", fwd)
	}
}

func TestSimpleModelFxSpotAndForward(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	store := usdEurStore(t, ref)
	model := market.NewSimpleModel(store)

	// Spot request: second currency defaults to local (USD), so this is
	// EUR into USD.
	md, err := model.GenNode(market.MarketRequest{ID: 0, FX: &market.ExchangeRateRequest{FirstCurrency: currency.EUR}})
	if err != nil {
		t.Fatalf("GenNode(spot): %v", err)
	}
	spot, err := md.FX()
	if err != nil {
		t.Fatalf("FX: %v", err)
	}
	if math.Abs(spot-1.0/0.9) > 1e-12 {
		t.Fatalf("spot: got %.14f want %.14f", spot, 1.0/0.9)
	}

	// Dated request: covered parity on the two curves.
	horizon := date(2022, time.September, 1)
	md, err = model.GenNode(market.MarketRequest{ID: 0, FX: &market.ExchangeRateRequest{
		FirstCurrency:  currency.USD,
		SecondCurrency: currency.EUR,
		ReferenceDate:  horizon,
	}})
	if err != nil {
		t.Fatalf("GenNode(forward): %v", err)
	}
	fwdFX, err := md.FX()
	if err != nil {
		t.Fatalf("FX: %v", err)
	}
	usdCurve, _ := store.CurveByCurrency(currency.USD)
	eurCurve, _ := store.CurveByCurrency(currency.EUR)
	dfUSD, _ := usdCurve.DiscountFactor(horizon)
	dfEUR, _ := eurCurve.DiscountFactor(horizon)
	if want := 0.9 * dfUSD / dfEUR; math.Abs(fwdFX-want) > 1e-12 {
		t.Fatalf("forward fx: got %.14f want %.14f", fwdFX, want)
	}
}

func TestGenMarketDataPreservesOrder(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	model := market.NewSimpleModel(usdEurStore(t, ref))

	reqs := []market.MarketRequest{
		{ID: 0, DF: &market.DiscountFactorRequest{ProviderID: 0, Date: ref.AddDate(1, 0, 0)}},
		{ID: 1, DF: &market.DiscountFactorRequest{ProviderID: 0, Date: ref.AddDate(2, 0, 0)}},
		{ID: 2},
	}
	data, err := model.GenMarketData(reqs)
	if err != nil {
		t.Fatalf("GenMarketData: %v", err)
	}
	if len(data) != 3 {
		t.Fatalf("length: got %d want 3", len(data))
	}
	for i, md := range data {
		if md.ID() != i {
			t.Fatalf("data[%d].ID: got %d", i, md.ID())
		}
	}
	if _, err := data[2].DF(); !errors.Is(err, errs.ErrValueNotSet) {
		t.Fatalf("empty request must resolve to empty data, got %v", err)
	}
}

func TestMarketStoreAdvance(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	store := usdEurStore(t, ref)

	adv, err := store.AdvanceToPeriod(rates.NewPeriod(1, rates.Years))
	if err != nil {
		t.Fatalf("AdvanceToPeriod: %v", err)
	}
	newRef := date(2022, time.September, 1)
	if !adv.ReferenceDate().Equal(newRef) {
		t.Fatalf("advanced reference date: got %s want %s", adv.ReferenceDate(), newRef)
	}
	if !store.ReferenceDate().Equal(ref) {
		t.Fatal("advance must not mutate the source store")
	}

	// Spots move to their forward values under the mapped curves.
	usdCurve, _ := store.CurveByCurrency(currency.USD)
	eurCurve, _ := store.CurveByCurrency(currency.EUR)
	dfUSD, _ := usdCurve.DiscountFactor(newRef)
	dfEUR, _ := eurCurve.DiscountFactor(newRef)
	want := 0.9 * dfUSD / dfEUR
	got, err := adv.ExchangeRate(currency.USD, currency.EUR)
	if err != nil {
		t.Fatalf("advanced ExchangeRate: %v", err)
	}
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("advanced spot: got %.14f want %.14f", got, want)
	}

	// Indices advanced with the store.
	ix, err := adv.GetIndex(0)
	if err != nil {
		t.Fatalf("GetIndex: %v", err)
	}
	if !ix.ReferenceDate().Equal(newRef) {
		t.Fatalf("advanced index reference date: got %s want %s", ix.ReferenceDate(), newRef)
	}

	if _, err := store.AdvanceToDate(date(2020, time.January, 1)); !errors.Is(err, errs.ErrInvalidValue) {
		t.Fatalf("advance into the past: got %v want ErrInvalidValue", err)
	}
}

func TestMarketStoreRejectsMismatchedIndex(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	store := market.NewMarketStore(ref, currency.USD)
	ix := index.NewIborIndex().WithTermStructure(curve.NewFlatForward(ref.AddDate(0, 1, 0), 0.02, compoundedDef()))
	if err := store.AddIndex(0, ix); !errors.Is(err, errs.ErrInvalidValue) {
		t.Fatalf("mismatched reference date: got %v want ErrInvalidValue", err)
	}
}
