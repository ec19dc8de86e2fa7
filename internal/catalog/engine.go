package catalog

import (
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/suPer8Hu/car-advisor/internal/metrics"
)

// ErrNoMatch means no record passed the filter. It is an expected outcome, not a failure.
var ErrNoMatch = errors.New("no matching car")

const NoMatchMessage = "Sorry, no suitable car was found for your budget and preferences."

type Engine struct {
	table *Table
	intN  func(n int) int
}

type Option func(*Engine)

// WithIntN replaces the random source. f(n) must return a value in [0, n).
func WithIntN(f func(n int) int) Option {
	return func(e *Engine) { e.intN = f }
}

func NewEngine(table *Table, opts ...Option) *Engine {
	e := &Engine{table: table, intN: rand.IntN}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Candidates returns every record priced at or under budget whose fuel type
// and transmission equal the preferences, ignoring case.
func (e *Engine) Candidates(budget float64, fuel, transmission string) []Record {
	var out []Record
	for _, r := range e.table.records {
		if r.Price <= budget &&
			strings.EqualFold(r.FuelType, fuel) &&
			strings.EqualFold(r.Transmission, transmission) {
			out = append(out, r)
		}
	}
	return out
}

// Recommend picks one candidate uniformly at random, favouring variety over
// the cheapest or closest-to-budget car. Empty candidates give ErrNoMatch.
func (e *Engine) Recommend(budget float64, fuel, transmission string) (Record, error) {
	candidates := e.Candidates(budget, fuel, transmission)
	if len(candidates) == 0 {
		metrics.RecommendationsTotal.WithLabelValues("no_match").Inc()
		return Record{}, ErrNoMatch
	}
	metrics.RecommendationsTotal.WithLabelValues("match").Inc()
	return candidates[e.intN(len(candidates))], nil
}
