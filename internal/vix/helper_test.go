package vix

import (
	"math"
	"time"
)

var (
	testNow    = time.Date(2009, time.January, 1, 0, 0, 0, 0, time.UTC)
	nearExpiry = time.Date(2009, time.January, 11, 16, 0, 0, 0, time.UTC)
	nextExpiry = time.Date(2009, time.February, 10, 16, 0, 0, 0, time.UTC)
)

// quoteRow is one strike's call and put quote, in cents.
type quoteRow struct {
	strike  Cents
	callBid Cents
	callAsk Cents
	putBid  Cents
	putAsk  Cents
}

// nearChain expires 10 days out; the at-the-money strike is 10000 with a
// call/put mark difference of 10.
var nearChain = []quoteRow{
	{9000, 1040, 1060, 30, 50},
	{9500, 640, 660, 120, 140},
	{10000, 310, 330, 300, 320},
	{10500, 110, 130, 610, 630},
	{11000, 30, 50, 1020, 1040},
}

// nextChain expires 40 days out; the at-the-money strike is 10000 with a
// call/put mark difference of 20.
var nextChain = []quoteRow{
	{9000, 1140, 1160, 120, 140},
	{9500, 790, 810, 260, 280},
	{10000, 490, 510, 470, 490},
	{10500, 270, 290, 750, 770},
	{11000, 130, 150, 1110, 1130},
}

func chainContracts(expiresAt time.Time, rows []quoteRow) []OptionContract {
	var out []OptionContract
	for _, r := range rows {
		out = append(out, NewOptionContract(expiresAt, r.strike, Call, r.callBid, r.callAsk))
		out = append(out, NewOptionContract(expiresAt, r.strike, Put, r.putBid, r.putAsk))
	}
	return out
}

func chainGroup(expiresAt time.Time, rows []quoteRow, opts ...Option) *ExpiryGroup {
	return GroupByExpiry(chainContracts(expiresAt, rows), opts...)[expiresAt]
}

func nearGroup() *ExpiryGroup { return chainGroup(nearExpiry, nearChain) }
func nextGroup() *ExpiryGroup { return chainGroup(nextExpiry, nextChain) }

// approxEqual compares floats to a relative tolerance far looser than the
// accumulation error of the formulas but far tighter than any semantic
// difference.
func approxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return diff <= 1e-12*scale
}
