package market

import (
	"fmt"

	"github.com/meenmo/almlib/errs"
)

// Model resolves market requests into market data.
type Model interface {
	GenNode(req MarketRequest) (MarketData, error)
	GenMarketData(reqs []MarketRequest) ([]MarketData, error)
}

// SimpleModel answers requests directly from the current state of a market
// store: no scenario shifts, no smile, just the curves, fixings and spots as
// loaded.
type SimpleModel struct {
	store *MarketStore
}

// NewSimpleModel wraps a store.
func NewSimpleModel(store *MarketStore) *SimpleModel {
	return &SimpleModel{store: store}
}

// GenNode resolves a single request. Discount factors for dates already past
// the store's reference date resolve to 0: those flows no longer contribute.
// Failures keep their cause chain alongside the evaluation sentinel.
func (m *SimpleModel) GenNode(req MarketRequest) (MarketData, error) {
	var df, fwd, fx *float64

	if req.DF != nil {
		v, err := m.genDF(*req.DF)
		if err != nil {
			return MarketData{}, fmt.Errorf("%w: simple model: request %d: %w", errs.ErrEvaluation, req.ID, err)
		}
		df = &v
	}
	if req.Fwd != nil {
		v, err := m.genFwd(*req.Fwd)
		if err != nil {
			return MarketData{}, fmt.Errorf("%w: simple model: request %d: %w", errs.ErrEvaluation, req.ID, err)
		}
		fwd = &v
	}
	if req.FX != nil {
		v, err := m.genFX(*req.FX)
		if err != nil {
			return MarketData{}, fmt.Errorf("%w: simple model: request %d: %w", errs.ErrEvaluation, req.ID, err)
		}
		fx = &v
	}
	return NewMarketData(req.ID, df, fwd, fx), nil
}

// GenMarketData resolves a request vector elementwise, preserving order so
// position equals cash flow id in both slices.
func (m *SimpleModel) GenMarketData(reqs []MarketRequest) ([]MarketData, error) {
	out := make([]MarketData, len(reqs))
	for i, req := range reqs {
		md, err := m.GenNode(req)
		if err != nil {
			return nil, err
		}
		out[i] = md
	}
	return out, nil
}

func (m *SimpleModel) genDF(req DiscountFactorRequest) (float64, error) {
	ref := m.store.ReferenceDate()
	if req.Date.Before(ref) {
		return 0.0, nil
	}
	if req.Date.Equal(ref) {
		return 1.0, nil
	}
	ts, err := m.store.CurveByID(req.ProviderID)
	if err != nil {
		return 0, err
	}
	return ts.DiscountFactor(req.Date)
}

func (m *SimpleModel) genFwd(req ForwardRateRequest) (float64, error) {
	ix, err := m.store.GetIndex(req.ProviderID)
	if err != nil {
		return 0, err
	}
	return ix.ForwardRate(req.Start, req.End, req.Compounding, req.Frequency)
}

func (m *SimpleModel) genFX(req ExchangeRateRequest) (float64, error) {
	second := req.SecondCurrency
	if second == "" {
		second = m.store.LocalCurrency()
	}
	spot, err := m.store.ExchangeRate(req.FirstCurrency, second)
	if err != nil {
		return 0, err
	}
	if req.ReferenceDate.IsZero() {
		return spot, nil
	}

	// Forward FX via covered parity on the two currencies' curves.
	firstCurve, err := m.store.CurveByCurrency(req.FirstCurrency)
	if err != nil {
		return 0, err
	}
	secondCurve, err := m.store.CurveByCurrency(second)
	if err != nil {
		return 0, err
	}
	dfFirst, err := firstCurve.DiscountFactor(req.ReferenceDate)
	if err != nil {
		return 0, err
	}
	dfSecond, err := secondCurve.DiscountFactor(req.ReferenceDate)
	if err != nil {
		return 0, err
	}
	return spot * dfFirst / dfSecond, nil
}
