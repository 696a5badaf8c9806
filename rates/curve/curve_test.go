package curve_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
	"github.com/meenmo/almlib/rates/curve"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func compoundedDef() rates.RateDefinition {
	return rates.RateDefinition{DayCount: rates.Act360, Compounding: rates.Compounded, Frequency: rates.Annual}
}

func TestFlatForwardDiscountFactor(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	ff := curve.NewFlatForward(ref, 0.03, rates.DefaultRateDefinition())

	if df, err := ff.DiscountFactor(ref); err != nil || df != 1.0 {
		t.Fatalf("DF at reference date: got (%v, %v) want (1.0, nil)", df, err)
	}

	end := date(2022, time.September, 1)
	want := 1.0 / (1.0 + 0.03*365.0/360.0)
	df, err := ff.DiscountFactor(end)
	if err != nil {
		t.Fatalf("DiscountFactor: %v", err)
	}
	if math.Abs(df-want) > 1e-14 {
		t.Fatalf("DF: got %.14f want %.14f", df, want)
	}

	if _, err := ff.DiscountFactor(date(2021, time.August, 31)); !errors.Is(err, errs.ErrInvalidValue) {
		t.Fatalf("DF before reference date: got %v want ErrInvalidValue", err)
	}
}

func TestFlatForwardRecoversItsOwnRate(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	ff := curve.NewFlatForward(ref, 0.02, compoundedDef())

	fwd, err := ff.ForwardRate(date(2022, time.March, 1), date(2023, time.March, 1), rates.Compounded, rates.Annual)
	if err != nil {
		t.Fatalf("ForwardRate: %v", err)
	}
	if math.Abs(fwd-0.02) > 1e-10 {
		t.Fatalf("forward: got %.12f want 0.02", fwd)
	}
}

func TestDiscountCurveInterpolatesNodes(t *testing.T) {
	t.Parallel()

	dates := []time.Time{
		date(2021, time.September, 1),
		date(2022, time.September, 1),
		date(2023, time.September, 1),
	}
	dfs := []float64{1.0, 0.97, 0.93}
	dsc, err := curve.NewDiscountCurve(dates, dfs, rates.Act360, curve.LogLinear)
	if err != nil {
		t.Fatalf("NewDiscountCurve: %v", err)
	}

	for i, d := range dates {
		df, err := dsc.DiscountFactor(d)
		if err != nil {
			t.Fatalf("DF(node %d): %v", i, err)
		}
		if math.Abs(df-dfs[i]) > 1e-14 {
			t.Fatalf("DF(node %d): got %.14f want %.14f", i, df, dfs[i])
		}
	}

	// Log-linear between the first two nodes.
	mid := date(2022, time.March, 1)
	t1 := rates.Act360.YearFraction(dates[0], mid)
	tn := rates.Act360.YearFraction(dates[0], dates[1])
	want := math.Exp(t1 / tn * math.Log(0.97))
	df, err := dsc.DiscountFactor(mid)
	if err != nil {
		t.Fatalf("DF(mid): %v", err)
	}
	if math.Abs(df-want) > 1e-14 {
		t.Fatalf("DF(mid): got %.14f want %.14f", df, want)
	}

	if _, err := dsc.DiscountFactor(date(2030, time.January, 1)); !errors.Is(err, errs.ErrInvalidValue) {
		t.Fatalf("DF beyond range without extrapolation: got %v want ErrInvalidValue", err)
	}
}

func TestDiscountCurveRejectsBadNodes(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	if _, err := curve.NewDiscountCurve(
		[]time.Time{ref, ref.AddDate(1, 0, 0)},
		[]float64{0.99, 0.97},
		rates.Act360, curve.LogLinear,
	); !errors.Is(err, errs.ErrInvalidValue) {
		t.Fatalf("first df != 1: got %v want ErrInvalidValue", err)
	}
	if _, err := curve.NewDiscountCurve(
		[]time.Time{ref, ref},
		[]float64{1.0, 0.97},
		rates.Act360, curve.LogLinear,
	); !errors.Is(err, errs.ErrInvalidValue) {
		t.Fatalf("non ascending dates: got %v want ErrInvalidValue", err)
	}
}

// Rolling a curve forward preserves discount factor ratios: the advanced
// curve evaluated at an original node equals dfs[i] / dfs[j], j being the
// node the new reference date lands on.
func TestDiscountCurveAdvancePreservesRatios(t *testing.T) {
	t.Parallel()

	// A 360 day grid keeps shifted nodes exactly on original nodes.
	ref := date(2021, time.September, 1)
	dates := make([]time.Time, 5)
	for i := range dates {
		dates[i] = ref.AddDate(0, 0, 360*i)
	}
	dfs := []float64{1.0, 0.97, 0.94, 0.90, 0.85}
	dsc, err := curve.NewDiscountCurve(dates, dfs, rates.Act360, curve.LogLinear)
	if err != nil {
		t.Fatalf("NewDiscountCurve: %v", err)
	}

	const j = 2
	adv, err := dsc.AdvanceToDate(dates[j])
	if err != nil {
		t.Fatalf("AdvanceToDate: %v", err)
	}
	if !adv.ReferenceDate().Equal(dates[j]) {
		t.Fatalf("advanced reference date: got %s want %s", adv.ReferenceDate(), dates[j])
	}
	for i := j; i < len(dates); i++ {
		df, err := adv.DiscountFactor(dates[i])
		if err != nil {
			t.Fatalf("advanced DF(node %d): %v", i, err)
		}
		want := dfs[i] / dfs[j]
		if math.Abs(df-want) > 1e-12 {
			t.Fatalf("advanced DF(node %d): got %.14f want %.14f", i, df, want)
		}
	}
}

func TestFlatForwardAdvanceKeepsDiscounting(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	ff := curve.NewFlatForward(ref, 0.03, compoundedDef())

	adv, err := ff.AdvanceToPeriod(rates.NewPeriod(6, rates.Months))
	if err != nil {
		t.Fatalf("AdvanceToPeriod: %v", err)
	}
	target := date(2024, time.September, 1)
	dfOldToTarget, _ := ff.DiscountFactor(target)
	dfOldToRef, _ := ff.DiscountFactor(adv.ReferenceDate())
	dfNew, err := adv.DiscountFactor(target)
	if err != nil {
		t.Fatalf("advanced DiscountFactor: %v", err)
	}
	if want := dfOldToTarget / dfOldToRef; math.Abs(dfNew-want) > 1e-12 {
		t.Fatalf("roll down: got %.14f want %.14f", dfNew, want)
	}
}

func TestZeroRateCurveDiscounting(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.September, 1)
	dates := []time.Time{ref, ref.AddDate(1, 0, 0), ref.AddDate(2, 0, 0)}
	zeros := []float64{0.01, 0.01, 0.02}
	def := compoundedDef()
	zc, err := curve.NewZeroRateCurve(dates, zeros, def, curve.Linear)
	if err != nil {
		t.Fatalf("NewZeroRateCurve: %v", err)
	}

	if df, err := zc.DiscountFactor(ref); err != nil || df != 1.0 {
		t.Fatalf("DF at reference date: got (%v, %v) want (1.0, nil)", df, err)
	}

	tau := rates.Act360.YearFraction(ref, dates[2])
	want := 1.0 / math.Pow(1.02, tau)
	df, err := zc.DiscountFactor(dates[2])
	if err != nil {
		t.Fatalf("DiscountFactor: %v", err)
	}
	if math.Abs(df-want) > 1e-14 {
		t.Fatalf("DF: got %.14f want %.14f", df, want)
	}
}

func TestZeroRateCurveAdvanceMatchesDiscountRatios(t *testing.T) {
	t.Parallel()

	// A 360 day grid keeps shifted nodes exactly on original nodes.
	ref := date(2021, time.September, 1)
	dates := []time.Time{ref, ref.AddDate(0, 0, 360), ref.AddDate(0, 0, 720), ref.AddDate(0, 0, 1080)}
	zeros := []float64{0.01, 0.012, 0.015, 0.018}
	def := compoundedDef()
	zc, err := curve.NewZeroRateCurve(dates, zeros, def, curve.Linear)
	if err != nil {
		t.Fatalf("NewZeroRateCurve: %v", err)
	}

	adv, err := zc.AdvanceToDate(dates[1])
	if err != nil {
		t.Fatalf("AdvanceToDate: %v", err)
	}
	for i := 1; i < len(dates); i++ {
		dfOld, _ := zc.DiscountFactor(dates[i])
		dfAnchor, _ := zc.DiscountFactor(dates[1])
		dfNew, err := adv.DiscountFactor(dates[i])
		if err != nil {
			t.Fatalf("advanced DF(node %d): %v", i, err)
		}
		if want := dfOld / dfAnchor; math.Abs(dfNew-want) > 1e-12 {
			t.Fatalf("advanced DF(node %d): got %.14f want %.14f", i, dfNew, want)
		}
	}
}

func TestTenorBasedCurveIsTimeHomogeneous(t *testing.T) {
	t.Parallel()

	ref := date(2021, time.December, 1)
	tenors := []rates.Period{
		rates.NewPeriod(1, rates.Years),
		rates.NewPeriod(2, rates.Years),
		rates.NewPeriod(3, rates.Years),
	}
	zeros := []float64{0.01, 0.02, 0.03}
	tc, err := curve.NewTenorBasedZeroRateCurve(ref, tenors, zeros, compoundedDef(), curve.Linear, true)
	if err != nil {
		t.Fatalf("NewTenorBasedZeroRateCurve: %v", err)
	}

	adv, err := tc.AdvanceToPeriod(rates.NewPeriod(1, rates.Years))
	if err != nil {
		t.Fatalf("AdvanceToPeriod: %v", err)
	}

	// The 2Y discount factor seen from either anchor matches because the
	// nodes travel with the reference date.
	dfOld, err := tc.DiscountFactor(ref.AddDate(2, 0, 0))
	if err != nil {
		t.Fatalf("DF from original anchor: %v", err)
	}
	dfNew, err := adv.DiscountFactor(adv.ReferenceDate().AddDate(2, 0, 0))
	if err != nil {
		t.Fatalf("DF from advanced anchor: %v", err)
	}
	if math.Abs(dfOld-dfNew) > 1e-10 {
		t.Fatalf("time homogeneity: got %.14f and %.14f", dfOld, dfNew)
	}
}

func TestCompositeCurveAddsLayers(t *testing.T) {
	t.Parallel()

	ref := date(2020, time.January, 1)
	def := compoundedDef()
	spread := curve.NewFlatForward(ref, 0.01, def)
	base := curve.NewFlatForward(ref, 0.02, def)
	composite := curve.NewCompositeCurve(spread, base)

	fwd, err := composite.ForwardRate(ref, date(2022, time.January, 1), rates.Compounded, rates.Annual)
	if err != nil {
		t.Fatalf("ForwardRate: %v", err)
	}
	if math.Abs(fwd-0.03) > 1e-4 {
		t.Fatalf("composite forward: got %.6f want 0.03", fwd)
	}

	df, err := composite.DiscountFactor(date(2021, time.January, 1))
	if err != nil {
		t.Fatalf("DiscountFactor: %v", err)
	}
	if math.Abs(df-0.97020) > 1e-5 {
		t.Fatalf("composite DF: got %.6f want 0.97020", df)
	}

	spreadDF, _ := spread.DiscountFactor(date(2021, time.January, 1))
	baseDF, _ := base.DiscountFactor(date(2021, time.January, 1))
	if df != spreadDF*baseDF {
		t.Fatalf("composite DF must equal the product of its layers")
	}
}

func TestCompositeCurveAdvanceAdvancesBothLayers(t *testing.T) {
	t.Parallel()

	ref := date(2020, time.January, 1)
	def := compoundedDef()
	composite := curve.NewCompositeCurve(
		curve.NewFlatForward(ref, 0.01, def),
		curve.NewFlatForward(ref, 0.02, def),
	)

	adv, err := composite.AdvanceToPeriod(rates.NewPeriod(1, rates.Years))
	if err != nil {
		t.Fatalf("AdvanceToPeriod: %v", err)
	}
	if !adv.ReferenceDate().Equal(date(2021, time.January, 1)) {
		t.Fatalf("advanced reference date: got %s", adv.ReferenceDate())
	}
	if !composite.ReferenceDate().Equal(ref) {
		t.Fatalf("advance must not mutate the source curve")
	}

	fwd, err := adv.ForwardRate(adv.ReferenceDate(), adv.ReferenceDate().AddDate(1, 0, 0), rates.Compounded, rates.Annual)
	if err != nil {
		t.Fatalf("advanced ForwardRate: %v", err)
	}
	if math.Abs(fwd-0.03) > 1e-4 {
		t.Fatalf("advanced composite forward: got %.6f want 0.03", fwd)
	}
}
