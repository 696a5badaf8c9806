package alm

import (
	"time"

	"github.com/meenmo/almlib/currency"
	"github.com/meenmo/almlib/instruments"
	"github.com/meenmo/almlib/visitors"
)

// MaturingRedemptions buckets a book's signed redemption amounts by payment
// date. Flows outside ccy are an error.
func MaturingRedemptions(book []instruments.Instrument, ccy currency.Currency) (map[time.Time]float64, error) {
	agg := visitors.NewCashflowsAggregatorConstVisitor().WithCurrency(ccy)
	for _, in := range book {
		if err := agg.Visit(in); err != nil {
			return nil, err
		}
	}
	return agg.Redemptions(), nil
}

// OutstandingProfile evaluates the cumulative signed principal of a book at
// each query date: every disbursement and redemption paying on or before the
// date, summed. For a receiving book the outstanding is negative while
// principal is deployed and returns to zero at maturity.
func OutstandingProfile(book []instruments.Instrument, dates []time.Time) (map[time.Time]float64, error) {
	agg := visitors.NewCashflowsAggregatorConstVisitor()
	for _, in := range book {
		if err := agg.Visit(in); err != nil {
			return nil, err
		}
	}

	profile := make(map[time.Time]float64, len(dates))
	for _, d := range dates {
		var total float64
		for dt, v := range agg.Disbursements() {
			if !dt.After(d) {
				total += v
			}
		}
		for dt, v := range agg.Redemptions() {
			if !dt.After(d) {
				total += v
			}
		}
		profile[d] = total
	}
	return profile, nil
}
