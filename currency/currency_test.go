package currency_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/errs"
)

func TestDetails(t *testing.T) {
	t.Parallel()

	d, err := currency.USD.Details()
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if d.NumericCode != 840 || d.Precision != 2 || d.Symbol != "$" {
		t.Fatalf("USD details: got %+v", d)
	}

	if _, err := currency.Currency("XXX").Details(); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("unknown currency: got %v want ErrNotFound", err)
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		ccy    currency.Currency
		amount float64
		want   string
	}{
		{currency.USD, 1234.567, "1234.57"},
		{currency.JPY, 1234.567, "1235"},
		{currency.CLF, 0.123456, "0.1235"},
	}
	for _, tc := range cases {
		got, err := currency.FormatAmount(tc.ccy, tc.amount)
		if err != nil {
			t.Fatalf("FormatAmount(%s): %v", tc.ccy, err)
		}
		if got != tc.want {
			t.Fatalf("FormatAmount(%s): got %q want %q", tc.ccy, got, tc.want)
		}
	}
}

func TestExchangeRateDirectAndInverse(t *testing.T) {
	t.Parallel()

	store := currency.NewExchangeRateStore()
	if err := store.AddExchangeRate(currency.USD, currency.EUR, 0.9); err != nil {
		t.Fatalf("AddExchangeRate: %v", err)
	}

	if rate, err := store.ExchangeRate(currency.USD, currency.USD); err != nil || rate != 1.0 {
		t.Fatalf("same currency: got (%v, %v) want (1.0, nil)", rate, err)
	}
	rate, err := store.ExchangeRate(currency.USD, currency.EUR)
	if err != nil || rate != 0.9 {
		t.Fatalf("direct: got (%v, %v) want (0.9, nil)", rate, err)
	}
	rate, err = store.ExchangeRate(currency.EUR, currency.USD)
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}
	if math.Abs(rate-1.0/0.9) > 1e-14 {
		t.Fatalf("inverse: got %.14f want %.14f", rate, 1.0/0.9)
	}
}

func TestExchangeRateTriangulation(t *testing.T) {
	t.Parallel()

	store := currency.NewExchangeRateStore()
	if err := store.AddExchangeRate(currency.USD, currency.EUR, 0.9); err != nil {
		t.Fatalf("AddExchangeRate: %v", err)
	}
	if err := store.AddExchangeRate(currency.EUR, currency.JPY, 160.0); err != nil {
		t.Fatalf("AddExchangeRate: %v", err)
	}

	rate, err := store.ExchangeRate(currency.USD, currency.JPY)
	if err != nil {
		t.Fatalf("triangulated: %v", err)
	}
	if math.Abs(rate-0.9*160.0) > 1e-10 {
		t.Fatalf("triangulated: got %v want %v", rate, 0.9*160.0)
	}

	if _, err := store.ExchangeRate(currency.USD, currency.KRW); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("unreachable pair: got %v want ErrNotFound", err)
	}
}

func TestCurrencyCurveMapping(t *testing.T) {
	t.Parallel()

	store := currency.NewExchangeRateStore()
	store.AddCurrencyCurve(currency.USD, 0)
	store.AddCurrencyCurve(currency.EUR, 1)

	id, err := store.CurrencyCurve(currency.EUR)
	if err != nil || id != 1 {
		t.Fatalf("CurrencyCurve(EUR): got (%d, %v) want (1, nil)", id, err)
	}
	if _, err := store.CurrencyCurve(currency.JPY); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("unmapped currency: got %v want ErrNotFound", err)
	}
}
