package currency

import (
	"sync"

	"github.com/meenmo/almlib/errs"
)

type pair struct {
	first  Currency
	second Currency
}

// ExchangeRateStore holds FX spots keyed by currency pair plus a map from
// currency to the curve id used to project that currency's discounting.
// Rates between unquoted pairs are triangulated by walking the quote graph;
// resolved pairs are cached together with their inverses.
type ExchangeRateStore struct {
	spots          map[pair]float64
	currencyCurves map[Currency]int

	mu    sync.Mutex
	cache map[pair]float64
}

// NewExchangeRateStore builds an empty FX store.
func NewExchangeRateStore() *ExchangeRateStore {
	return &ExchangeRateStore{
		spots:          make(map[pair]float64),
		currencyCurves: make(map[Currency]int),
		cache:          make(map[pair]float64),
	}
}

// AddExchangeRate quotes first/second at the given spot. Re-quoting a pair
// overwrites and drops the triangulation cache.
func (s *ExchangeRateStore) AddExchangeRate(first, second Currency, spot float64) error {
	if spot <= 0 {
		return errs.InvalidValue("fx store: non-positive spot %v for %s/%s", spot, first, second)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spots[pair{first, second}] = spot
	s.cache = make(map[pair]float64)
	return nil
}

// AddCurrencyCurve maps a currency to its discounting curve id.
func (s *ExchangeRateStore) AddCurrencyCurve(c Currency, curveID int) {
	s.currencyCurves[c] = curveID
}

// CurrencyCurve resolves the curve id used to discount a currency.
func (s *ExchangeRateStore) CurrencyCurve(c Currency) (int, error) {
	id, ok := s.currencyCurves[c]
	if !ok {
		return 0, errs.NotFound("fx store: no curve for currency %s", c)
	}
	return id, nil
}

// ExchangeRate resolves the spot between two currencies, triangulating
// through intermediate quotes when the pair is not quoted directly.
func (s *ExchangeRateStore) ExchangeRate(first, second Currency) (float64, error) {
	if first == second {
		return 1.0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rate, ok := s.cache[pair{first, second}]; ok {
		return rate, nil
	}

	// Breadth-first walk over the quote graph, following quotes in both
	// directions.
	type node struct {
		ccy  Currency
		rate float64
	}
	queue := []node{{first, 1.0}}
	visited := map[Currency]bool{first: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for p, spot := range s.spots {
			var next Currency
			var rate float64
			switch {
			case p.first == cur.ccy && !visited[p.second]:
				next, rate = p.second, cur.rate*spot
			case p.second == cur.ccy && !visited[p.first]:
				next, rate = p.first, cur.rate/spot
			default:
				continue
			}
			if next == second {
				s.cache[pair{first, second}] = rate
				s.cache[pair{second, first}] = 1.0 / rate
				return rate, nil
			}
			visited[next] = true
			queue = append(queue, node{next, rate})
		}
	}
	return 0, errs.NotFound("fx store: no exchange rate between %s and %s", first, second)
}

// Advanced rebuilds the store with every quoted spot moved to its forward
// value: spot · DF_first / DF_second, where discount resolves the discount
// factor of a currency to the advance horizon. The curve map carries over.
func (s *ExchangeRateStore) Advanced(discount func(Currency) (float64, error)) (*ExchangeRateStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := NewExchangeRateStore()
	for p, spot := range s.spots {
		dfFirst, err := discount(p.first)
		if err != nil {
			return nil, err
		}
		dfSecond, err := discount(p.second)
		if err != nil {
			return nil, err
		}
		out.spots[p] = spot * dfFirst / dfSecond
	}
	for c, id := range s.currencyCurves {
		out.currencyCurves[c] = id
	}
	return out, nil
}

// Clone copies the quotes and curve map. The cache starts empty; clones are
// used by store advancement where spots may be requoted.
func (s *ExchangeRateStore) Clone() *ExchangeRateStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := NewExchangeRateStore()
	for p, spot := range s.spots {
		out.spots[p] = spot
	}
	for c, id := range s.currencyCurves {
		out.currencyCurves[c] = id
	}
	return out
}
