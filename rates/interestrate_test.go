package rates_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCompoundFactor(t *testing.T) {
	t.Parallel()

	const r, tau = 0.05, 2.0
	cases := []struct {
		name string
		comp rates.Compounding
		freq rates.Frequency
		want float64
	}{
		{"simple", rates.Simple, rates.Annual, 1.0 + r*tau},
		{"compounded annual", rates.Compounded, rates.Annual, math.Pow(1.05, 2.0)},
		{"compounded semiannual", rates.Compounded, rates.Semiannual, math.Pow(1.025, 4.0)},
		{"continuous", rates.Continuous, rates.Annual, math.Exp(r * tau)},
		{"simple then compounded long", rates.SimpleThenCompounded, rates.Annual, math.Pow(1.05, 2.0)},
		{"compounded then simple long", rates.CompoundedThenSimple, rates.Annual, 1.0 + r*tau},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ir := rates.NewInterestRate(r, rates.Act360, tc.comp, tc.freq)
			got := ir.CompoundFactorFromYF(tau)
			if math.Abs(got-tc.want) > 1e-12 {
				t.Fatalf("compound factor: got %.12f want %.12f", got, tc.want)
			}
		})
	}
}

func TestCompoundFactorSwitchesAtFrequencyThreshold(t *testing.T) {
	t.Parallel()

	ir := rates.NewInterestRate(0.04, rates.Act360, rates.SimpleThenCompounded, rates.Semiannual)
	if got, want := ir.CompoundFactorFromYF(0.25), 1.0+0.04*0.25; math.Abs(got-want) > 1e-12 {
		t.Fatalf("short leg: got %.12f want %.12f", got, want)
	}
	if got, want := ir.CompoundFactorFromYF(1.0), math.Pow(1.02, 2.0); math.Abs(got-want) > 1e-12 {
		t.Fatalf("long leg: got %.12f want %.12f", got, want)
	}
}

func TestImpliedRateRoundTrip(t *testing.T) {
	t.Parallel()

	for _, comp := range []rates.Compounding{rates.Simple, rates.Compounded, rates.Continuous} {
		ir := rates.NewInterestRate(0.0325, rates.Act360, comp, rates.Quarterly)
		cf := ir.CompoundFactorFromYF(1.75)
		implied, err := rates.ImpliedRate(cf, rates.Act360, comp, rates.Quarterly, 1.75)
		if err != nil {
			t.Fatalf("ImpliedRate(%s): %v", comp, err)
		}
		if math.Abs(implied.Rate-0.0325) > 1e-12 {
			t.Fatalf("round trip %s: got %.12f want 0.0325", comp, implied.Rate)
		}
	}
}

func TestImpliedRateRejectsBadInputs(t *testing.T) {
	t.Parallel()

	if _, err := rates.ImpliedRate(-0.5, rates.Act360, rates.Simple, rates.Annual, 1.0); !errors.Is(err, errs.ErrInvalidValue) {
		t.Fatalf("negative compound: got %v want ErrInvalidValue", err)
	}
	if _, err := rates.ImpliedRate(1.1, rates.Act360, rates.Simple, rates.Annual, 0.0); !errors.Is(err, errs.ErrInvalidValue) {
		t.Fatalf("zero time: got %v want ErrInvalidValue", err)
	}
	ir, err := rates.ImpliedRate(1.0, rates.Act360, rates.Simple, rates.Annual, 0.0)
	if err != nil || ir.Rate != 0.0 {
		t.Fatalf("unit compound: got (%v, %v) want zero rate", ir.Rate, err)
	}
}

func TestDiscountFactorBetweenDates(t *testing.T) {
	t.Parallel()

	start := date(2021, time.September, 1)
	end := date(2022, time.September, 1)
	ir := rates.NewInterestRate(0.03, rates.Act360, rates.Simple, rates.Annual)

	tau := 365.0 / 360.0
	want := 1.0 / (1.0 + 0.03*tau)
	if got := ir.DiscountFactor(start, end); math.Abs(got-want) > 1e-14 {
		t.Fatalf("discount factor: got %.14f want %.14f", got, want)
	}
}

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	cases := map[string]rates.Period{
		"3M":  {Length: 3, Unit: rates.Months},
		"1Y":  {Length: 1, Unit: rates.Years},
		"10D": {Length: 10, Unit: rates.Days},
		"2W":  {Length: 2, Unit: rates.Weeks},
	}
	for s, want := range cases {
		got, err := rates.ParsePeriod(s)
		if err != nil {
			t.Fatalf("ParsePeriod(%q): %v", s, err)
		}
		if got != want {
			t.Fatalf("ParsePeriod(%q): got %+v want %+v", s, got, want)
		}
	}
	if _, err := rates.ParsePeriod("XYZ"); !errors.Is(err, errs.ErrInvalidValue) {
		t.Fatalf("ParsePeriod(XYZ): got %v want ErrInvalidValue", err)
	}
}
