package vix

import (
	"sort"
	"time"
)

// DefaultRiskFreeRate is the annualized rate applied to every expiration
// when no override is given. A per-expiry term structure is out of scope;
// the rate is uniform across groups.
const DefaultRiskFreeRate = 0.003

type groupConfig struct {
	riskFreeRate    float64
	includeZeroBids bool
}

// Option adjusts grouping policy.
type Option func(*groupConfig)

// WithRiskFreeRate overrides the annualized risk-free rate applied to every
// group, e.g. 0.05 for 5%.
func WithRiskFreeRate(rate float64) Option {
	return func(cfg *groupConfig) { cfg.riskFreeRate = rate }
}

// WithZeroBidQuotes admits zero-bid quotes into strike aggregation. The
// default policy drops them before pairing, treating a zero bid as an
// illiquid quote.
func WithZeroBidQuotes() Option {
	return func(cfg *groupConfig) { cfg.includeZeroBids = true }
}

// GroupByExpiry partitions a flat contract list into one ExpiryGroup per
// distinct expiration, splitting each group's contracts by kind. Contracts
// keep their arrival order within a group.
func GroupByExpiry(contracts []OptionContract, opts ...Option) map[time.Time]*ExpiryGroup {
	cfg := groupConfig{riskFreeRate: DefaultRiskFreeRate}
	for _, opt := range opts {
		opt(&cfg)
	}

	groups := make(map[time.Time]*ExpiryGroup)
	for _, c := range contracts {
		g, ok := groups[c.ExpiresAt]
		if !ok {
			g = &ExpiryGroup{
				ExpiresAt:       c.ExpiresAt,
				RiskFreeRate:    cfg.riskFreeRate,
				includeZeroBids: cfg.includeZeroBids,
			}
			groups[c.ExpiresAt] = g
		}
		if c.Kind == Call {
			g.Calls = append(g.Calls, c)
		} else {
			g.Puts = append(g.Puts, c)
		}
	}
	return groups
}

// SelectTerms picks the near-term and next-term groups: the two earliest
// expirations present. ok is false when fewer than two distinct
// expirations exist.
func SelectTerms(groups map[time.Time]*ExpiryGroup) (near, next *ExpiryGroup, ok bool) {
	if len(groups) < 2 {
		return nil, nil, false
	}
	expiries := make([]time.Time, 0, len(groups))
	for at := range groups {
		expiries = append(expiries, at)
	}
	sort.Slice(expiries, func(i, j int) bool { return expiries[i].Before(expiries[j]) })
	return groups[expiries[0]], groups[expiries[1]], true
}
