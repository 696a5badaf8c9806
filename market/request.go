// Package market defines the request/response protocol between cash flows
// and market data, the market store that answers it, and the model that
// resolves request vectors into data vectors.
package market

import (
	"time"

	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
)

// DiscountFactorRequest asks for the discount factor of a curve at a date.
type DiscountFactorRequest struct {
	ProviderID int
	Date       time.Time
}

// ForwardRateRequest asks for the forward rate of an index over a period.
type ForwardRateRequest struct {
	ProviderID  int
	Start       time.Time
	End         time.Time
	Compounding rates.Compounding
	Frequency   rates.Frequency
}

// ExchangeRateRequest asks for an FX rate. A zero SecondCurrency defaults to
// the store's local currency; a zero ReferenceDate asks for spot, otherwise
// the forward FX at that date.
type ExchangeRateRequest struct {
	FirstCurrency  currency.Currency
	SecondCurrency currency.Currency
	ReferenceDate  time.Time
}

// MarketRequest is the per cash flow bundle. The ID matches the cash flow id
// assigned during indexing; nil components were not requested.
type MarketRequest struct {
	ID  int
	DF  *DiscountFactorRequest
	Fwd *ForwardRateRequest
	FX  *ExchangeRateRequest
}

// MarketData is the resolved counterpart of a MarketRequest. Accessors fail
// with ErrValueNotSet when the corresponding request component was absent.
type MarketData struct {
	id  int
	df  *float64
	fwd *float64
	fx  *float64
}

// NewMarketData bundles resolved values; nil marks an absent component.
func NewMarketData(id int, df, fwd, fx *float64) MarketData {
	return MarketData{id: id, df: df, fwd: fwd, fx: fx}
}

func (md MarketData) ID() int { return md.id }

func (md MarketData) DF() (float64, error) {
	if md.df == nil {
		return 0, errs.ValueNotSet("market data %d: no discount factor", md.id)
	}
	return *md.df, nil
}

func (md MarketData) Fwd() (float64, error) {
	if md.fwd == nil {
		return 0, errs.ValueNotSet("market data %d: no forward rate", md.id)
	}
	return *md.fwd, nil
}

func (md MarketData) FX() (float64, error) {
	if md.fx == nil {
		return 0, errs.ValueNotSet("market data %d: no exchange rate", md.id)
	}
	return *md.fx, nil
}
