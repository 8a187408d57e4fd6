// Package vix computes a VIX-style volatility index from a snapshot of
// option quotes.
//
// Responsibilities:
//   - Aggregate raw call/put quotes into an ordered, interval-weighted
//     strike ladder per expiration
//   - Derive the implied forward price and the model-free variance of each
//     expiration
//   - Blend the two nearest expirations into one annualized, 30-day
//     interpolated volatility percentage
//
// Design notes:
//   - Every operation is a pure function over immutable in-memory values;
//     the package performs no I/O and holds no shared state, so independent
//     computations are safe to run concurrently
//   - Prices are integer cents throughout; division truncates the way
//     integer cents arithmetic demands
//   - Degenerate inputs (empty chains, zero time to expiration, equal
//     expirations) propagate as zero, infinite, or NaN results instead of
//     raising; callers must check for non-finite values before reporting
package vix

import (
	"math"
	"sync"
	"time"
)

// Annualization constants of the 30-day interpolation, in minutes.
const (
	MinutesPer30Days = 30 * 24 * 60
	MinutesPerYear   = 365 * 24 * 60
)

// ComputeIndex blends the near-term and next-term variances into the final
// index percentage, per the CBOE time-weighted interpolation:
//
//	index = sqrt( ( t1*s1^2 * (nT2-n30)/(nT2-nT1)
//	             + t2*s2^2 * (n30-nT1)/(nT2-nT1) ) * n365/n30 ) * 100
//
// The caller is responsible for nearTerm expiring before nextTerm; the
// precondition is not validated. Equal or indistinguishable expirations
// divide by zero and yield a non-finite result.
func ComputeIndex(nearTerm, nextTerm *ExpiryGroup, now time.Time) Percentage {
	t1 := nearTerm.TimeToExpiration(now)
	nT1 := nearTerm.MinutesToExpiration(now)
	s1 := nearTerm.Variance(now)
	t2 := nextTerm.TimeToExpiration(now)
	nT2 := nextTerm.MinutesToExpiration(now)
	s2 := nextTerm.Variance(now)

	blend := (t1*s1*(nT2-MinutesPer30Days)/(nT2-nT1) +
		t2*s2*(MinutesPer30Days-nT1)/(nT2-nT1)) * MinutesPerYear / MinutesPer30Days
	return Percentage(math.Sqrt(blend) * 100)
}

// SeriesPoint is one replayed index value.
type SeriesPoint struct {
	At    time.Time  `json:"at"`
	Index Percentage `json:"index"`
}

// ComputeSeries evaluates the index at each timestamp using a bounded pool
// of workers. Points come back in the order of times regardless of worker
// count. The groups are read-only during computation; each point builds its
// own strike ladder.
func ComputeSeries(nearTerm, nextTerm *ExpiryGroup, times []time.Time, workers int) []SeriesPoint {
	if len(times) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(times) {
		workers = len(times)
	}

	out := make([]SeriesPoint, len(times))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = SeriesPoint{At: times[i], Index: ComputeIndex(nearTerm, nextTerm, times[i])}
			}
		}()
	}
	for i := range times {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}
