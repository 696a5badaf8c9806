package index_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
	"github.com/meenmo/almlib/rates/curve"
	"github.com/meenmo/almlib/rates/index"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func flatCurve(ref time.Time, rate float64) curve.YieldTermStructure {
	return curve.NewFlatForward(ref, rate, rates.DefaultRateDefinition())
}

func TestIborIndexForwardRateRegimes(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	past := date(2021, time.June, 1)
	ix := index.NewIborIndex().
		WithTenor(rates.NewPeriod(3, rates.Months)).
		WithTermStructure(flatCurve(ref, 0.03))
	if err := ix.AddFixing(past, 0.025); err != nil {
		t.Fatalf("AddFixing: %v", err)
	}

	// Past periods resolve to the recorded fixing.
	got, err := ix.ForwardRate(past, date(2021, time.September, 1), rates.Simple, rates.Annual)
	if err != nil {
		t.Fatalf("past ForwardRate: %v", err)
	}
	if got != 0.025 {
		t.Fatalf("past ForwardRate: got %v want 0.025", got)
	}

	// Future periods come from the curve.
	start := date(2022, time.March, 1)
	end := date(2022, time.June, 1)
	got, err = ix.ForwardRate(start, end, rates.Simple, rates.Annual)
	if err != nil {
		t.Fatalf("future ForwardRate: %v", err)
	}
	if math.Abs(got-0.03) > 1e-10 {
		t.Fatalf("future ForwardRate: got %v want 0.03", got)
	}

	// A past period without a fixing is a pricing failure.
	if _, err := ix.ForwardRate(date(2021, time.May, 1), ref, rates.Simple, rates.Annual); !errors.Is(err, errs.ErrEvaluation) {
		t.Fatalf("missing fixing: got %v want ErrEvaluation", err)
	}
}

func TestIborIndexRejectsFutureFixing(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	ix := index.NewIborIndex().WithTermStructure(flatCurve(ref, 0.03))
	if err := ix.AddFixing(ref.AddDate(0, 0, 1), 0.02); !errors.Is(err, errs.ErrInvalidValue) {
		t.Fatalf("future fixing: got %v want ErrInvalidValue", err)
	}
}

func TestIborIndexAdvanceForwardFillsFixings(t *testing.T) {
	t.Parallel()

	// Compounded conventions keep the flat curve's forwards exactly at
	// the quoted rate regardless of the projection date.
	ref := date(2021, time.September, 1)
	def := rates.RateDefinition{DayCount: rates.Act360, Compounding: rates.Compounded, Frequency: rates.Annual}
	ix := index.NewIborIndex().
		WithTenor(rates.NewPeriod(3, rates.Months)).
		WithRateDefinition(def).
		WithTermStructure(curve.NewFlatForward(ref, 0.03, def))

	adv, err := ix.Advance(rates.NewPeriod(10, rates.Days))
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	newRef := date(2021, time.September, 11)
	if !adv.ReferenceDate().Equal(newRef) {
		t.Fatalf("advanced reference date: got %s want %s", adv.ReferenceDate(), newRef)
	}

	// Every day between the old and new reference date carries a
	// projected fixing near the flat curve rate.
	for d := ref; !d.After(newRef); d = d.AddDate(0, 0, 1) {
		fixing, ok := adv.PastFixing(d)
		if !ok {
			t.Fatalf("no projected fixing for %s", d.Format("2006-01-02"))
		}
		if math.Abs(fixing-0.03) > 1e-6 {
			t.Fatalf("projected fixing at %s: got %v want ~0.03", d.Format("2006-01-02"), fixing)
		}
	}

	// The source index is untouched.
	if _, ok := ix.PastFixing(ref); ok {
		t.Fatal("Advance must not mutate the source index")
	}
}

func TestOvernightIndexAverageRate(t *testing.T) {
	t.Parallel()

	start := date(2021, time.January, 1)
	end := date(2022, time.January, 1)
	ox := index.NewOvernightIndex().
		WithRateDefinition(rates.DefaultRateDefinition()).
		WithFixings(map[time.Time]float64{start: 100.0, end: 105.0})

	got, err := ox.AverageRate(start, end)
	if err != nil {
		t.Fatalf("AverageRate: %v", err)
	}
	tau := 365.0 / 360.0
	want := (105.0/100.0 - 1.0) / tau
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("AverageRate: got %.12f want %.12f", got, want)
	}
}

func TestOvernightIndexStraddleForwardRate(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	start := date(2021, time.June, 1)
	end := date(2021, time.December, 1)
	ts := flatCurve(ref, 0.02)
	ox := index.NewOvernightIndex().
		WithTermStructure(ts).
		WithFixings(map[time.Time]float64{start: 100.0, ref: 100.5})

	got, err := ox.ForwardRate(start, end, rates.Simple, rates.Annual)
	if err != nil {
		t.Fatalf("straddle ForwardRate: %v", err)
	}
	df, _ := ts.DiscountFactor(end)
	tau := rates.Act360.YearFraction(start, end)
	want := (100.5/df/100.0 - 1.0) / tau
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("straddle ForwardRate: got %.12f want %.12f", got, want)
	}
}

func TestOvernightIndexAdvancePropagatesLevels(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	ts := flatCurve(ref, 0.02)
	ox := index.NewOvernightIndex().
		WithTermStructure(ts).
		WithFixings(map[time.Time]float64{ref: 100.0})

	adv, err := ox.Advance(rates.NewPeriod(5, rates.Days))
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	newRef := date(2021, time.September, 6)
	if !adv.ReferenceDate().Equal(newRef) {
		t.Fatalf("advanced reference date: got %s want %s", adv.ReferenceDate(), newRef)
	}
	level, ok := adv.PastFixing(newRef)
	if !ok {
		t.Fatal("no propagated level at the new reference date")
	}
	df, _ := ts.DiscountFactor(newRef)
	if want := 100.0 / df; math.Abs(level-want) > 1e-10 {
		t.Fatalf("propagated level: got %.12f want %.12f", level, want)
	}
}

func TestStoreRegistration(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	store := index.NewStore()
	ix := index.NewIborIndex().WithTermStructure(flatCurve(ref, 0.03))

	if err := store.AddIndex(0, ix); err != nil {
		t.Fatalf("AddIndex: %v", err)
	}
	if err := store.AddIndex(0, ix); !errors.Is(err, errs.ErrInvalidValue) {
		t.Fatalf("duplicate id: got %v want ErrInvalidValue", err)
	}
	if _, err := store.GetIndex(7); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("missing id: got %v want ErrNotFound", err)
	}
	got, err := store.GetIndex(0)
	if err != nil {
		t.Fatalf("GetIndex: %v", err)
	}
	if got != index.RateIndex(ix) {
		t.Fatal("GetIndex returned a different handle")
	}
}

func TestStoreAdvanceRollsAllIndices(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	store := index.NewStore()
	if err := store.AddIndex(0, index.NewIborIndex().WithTermStructure(flatCurve(ref, 0.03))); err != nil {
		t.Fatalf("AddIndex: %v", err)
	}
	if err := store.AddIndex(1, index.NewOvernightIndex().
		WithTermStructure(flatCurve(ref, 0.02)).
		WithFixings(map[time.Time]float64{ref: 100.0})); err != nil {
		t.Fatalf("AddIndex: %v", err)
	}

	adv, err := store.Advance(rates.NewPeriod(1, rates.Months))
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	newRef := date(2021, time.October, 1)
	for _, id := range adv.IDs() {
		ix, err := adv.GetIndex(id)
		if err != nil {
			t.Fatalf("GetIndex(%d): %v", id, err)
		}
		if !ix.ReferenceDate().Equal(newRef) {
			t.Fatalf("index %d reference date: got %s want %s", id, ix.ReferenceDate(), newRef)
		}
	}
	if store.Len() != 2 || adv.Len() != 2 {
		t.Fatalf("store sizes: got %d and %d want 2 and 2", store.Len(), adv.Len())
	}
}
