// Package currency defines the currency enum, its ISO 4217 details and the
// exchange rate store used for cross-currency pricing.
package currency

import (
	"github.com/meenmo/almlib/errs"
	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 alphabetic code.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	JPY Currency = "JPY"
	GBP Currency = "GBP"
	CHF Currency = "CHF"
	CLP Currency = "CLP"
	CLF Currency = "CLF"
	BRL Currency = "BRL"
	COP Currency = "COP"
	MXN Currency = "MXN"
	KRW Currency = "KRW"
)

// Details carries the ISO 4217 facts of a currency.
type Details struct {
	Code        Currency
	Name        string
	Symbol      string
	Precision   int32
	NumericCode int
}

var details = map[Currency]Details{
	USD: {USD, "US Dollar", "$", 2, 840},
	EUR: {EUR, "Euro", "€", 2, 978},
	JPY: {JPY, "Japanese Yen", "¥", 0, 392},
	GBP: {GBP, "Pound Sterling", "£", 2, 826},
	CHF: {CHF, "Swiss Franc", "Fr", 2, 756},
	CLP: {CLP, "Chilean Peso", "$", 0, 152},
	CLF: {CLF, "Unidad de Fomento", "UF", 4, 990},
	BRL: {BRL, "Brazilian Real", "R$", 2, 986},
	COP: {COP, "Colombian Peso", "$", 2, 170},
	MXN: {MXN, "Mexican Peso", "$", 2, 484},
	KRW: {KRW, "South Korean Won", "₩", 0, 410},
}

// Details returns the ISO facts of the currency.
func (c Currency) Details() (Details, error) {
	d, ok := details[c]
	if !ok {
		return Details{}, errs.NotFound("currency: no details for %q", string(c))
	}
	return d, nil
}

// Parse validates an alphabetic currency code.
func Parse(s string) (Currency, error) {
	if _, ok := details[Currency(s)]; !ok {
		return "", errs.InvalidValue("currency: unknown code %q", s)
	}
	return Currency(s), nil
}

// FormatAmount renders an amount rounded to the currency's ISO precision,
// e.g. FormatAmount(USD, 1234.567) == "1234.57".
func FormatAmount(c Currency, amount float64) (string, error) {
	d, err := c.Details()
	if err != nil {
		return "", err
	}
	return decimal.NewFromFloat(amount).Round(d.Precision).StringFixed(d.Precision), nil
}
