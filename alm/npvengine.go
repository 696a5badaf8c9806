package alm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meenmo/almlib/instruments"
	"github.com/meenmo/almlib/market"
	"github.com/meenmo/almlib/visitors"
)

const defaultChunkSize = 1000

// NPVEngine prices a portfolio in parallel chunks and merges the per-chunk
// date buckets additively. Instruments are indexed serially so each carries
// its own market-data vector; ids never cross instruments.
type NPVEngine struct {
	store       *market.MarketStore
	instruments []instruments.Instrument
	chunkSize   int
}

// NewNPVEngine builds an engine over a portfolio slice.
func NewNPVEngine(store *market.MarketStore, ins []instruments.Instrument) *NPVEngine {
	return &NPVEngine{store: store, instruments: ins, chunkSize: defaultChunkSize}
}

// WithChunkSize overrides the parallel chunk size.
func (e *NPVEngine) WithChunkSize(n int) *NPVEngine {
	if n > 0 {
		e.chunkSize = n
	}
	return e
}

// Run resolves, fixes and prices the portfolio, returning NPV bucketed by
// payment date. The first per-instrument failure aborts the batch, wrapped
// with the instrument's id.
func (e *NPVEngine) Run(ctx context.Context) (map[time.Time]float64, error) {
	ref := e.store.ReferenceDate()
	model := market.NewSimpleModel(e.store)

	datas := make([][]market.MarketData, len(e.instruments))
	for i, in := range e.instruments {
		indexer := visitors.NewIndexingVisitor(e.store)
		if err := indexer.Visit(in); err != nil {
			return nil, fmt.Errorf("npv engine: instrument %s: %w", in.ID(), err)
		}
		data, err := model.GenMarketData(indexer.Requests())
		if err != nil {
			return nil, fmt.Errorf("npv engine: instrument %s: %w", in.ID(), err)
		}
		datas[i] = data
	}

	fixers, fixCtx := errgroup.WithContext(ctx)
	for start := 0; start < len(e.instruments); start += e.chunkSize {
		start, end := start, min(start+e.chunkSize, len(e.instruments))
		fixers.Go(func() error {
			for i := start; i < end; i++ {
				if err := fixCtx.Err(); err != nil {
					return err
				}
				in := e.instruments[i]
				if err := visitors.NewFixingVisitor(e.store, datas[i]).Visit(in); err != nil {
					return fmt.Errorf("npv engine: instrument %s: %w", in.ID(), err)
				}
			}
			return nil
		})
	}
	if err := fixers.Wait(); err != nil {
		return nil, err
	}

	chunks := (len(e.instruments) + e.chunkSize - 1) / e.chunkSize
	partials := make([]map[time.Time]float64, chunks)
	pricers, priceCtx := errgroup.WithContext(ctx)
	for c := 0; c < chunks; c++ {
		c := c
		pricers.Go(func() error {
			start := c * e.chunkSize
			end := min(start+e.chunkSize, len(e.instruments))
			part := make(map[time.Time]float64)
			for i := start; i < end; i++ {
				if err := priceCtx.Err(); err != nil {
					return err
				}
				in := e.instruments[i]
				byDate := visitors.NewNPVByDateConstVisitor(datas[i], ref)
				if err := byDate.Visit(in); err != nil {
					return fmt.Errorf("npv engine: instrument %s: %w", in.ID(), err)
				}
				for d, npv := range byDate.NPVByDate() {
					part[d] += npv
				}
			}
			partials[c] = part
			return nil
		})
	}
	if err := pricers.Wait(); err != nil {
		return nil, err
	}

	total := make(map[time.Time]float64)
	for _, part := range partials {
		for d, npv := range part {
			total[d] += npv
		}
	}
	return total, nil
}
