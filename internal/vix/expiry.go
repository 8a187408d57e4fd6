package vix

import (
	"math"
	"time"
)

// ExpiryGroup is one expiration's full option chain plus the risk-free rate
// used to discount it. Groups are immutable once constructed; every derived
// quantity is recomputed from the contracts on each call.
//
// The zero value of the policy flag keeps the default liquidity policy
// (zero-bid quotes dropped), so groups built by struct literal behave the
// same as groups built by GroupByExpiry without options.
type ExpiryGroup struct {
	ExpiresAt    time.Time
	RiskFreeRate float64
	Calls        []OptionContract
	Puts         []OptionContract

	includeZeroBids bool
}

// MinutesToExpiration is the signed number of whole minutes between now and
// the group's expiration, truncated toward zero. Negative once the
// expiration has passed.
func (g *ExpiryGroup) MinutesToExpiration(now time.Time) float64 {
	return float64(g.ExpiresAt.Sub(now) / time.Minute)
}

// TimeToExpiration is the time to expiration as a fraction of a 365-day
// year.
func (g *ExpiryGroup) TimeToExpiration(now time.Time) float64 {
	return g.MinutesToExpiration(now) / MinutesPerYear
}

// ATMStrike returns the at-the-money strike: the one minimizing the
// absolute call/put mark difference. The lowest such strike wins ties.
// ok is false when the chain has no paired strikes.
func (g *ExpiryGroup) ATMStrike() (atm OptionStrike, ok bool) {
	strikes := g.Strikes()
	if len(strikes) == 0 {
		return OptionStrike{}, false
	}
	atm = strikes[0]
	for _, s := range strikes[1:] {
		if absCents(s.CallPutDifference()) < absCents(atm.CallPutDifference()) {
			atm = s
		}
	}
	return atm, true
}

// ForwardPrice computes the market-implied forward price of the underlying
// at this expiration, in cents:
//
//	F = atmStrike + e^(r*t) * (callMark - putMark)
//
// with the interest-grown difference truncated toward zero, consistent with
// integer cents arithmetic. Returns 0 when the chain has no paired strikes.
func (g *ExpiryGroup) ForwardPrice(now time.Time) Cents {
	interest := math.Exp(g.RiskFreeRate * g.TimeToExpiration(now))
	atm, ok := g.ATMStrike()
	if !ok {
		return 0
	}
	return atm.Price + Cents(interest*float64(atm.CallPutDifference()))
}

// Variance computes the model-free variance swap replication from the VIX
// whitepaper:
//
//	sigma^2 = ( 2 * sum_i( deltaK_i / K_i^2 * Q(K_i) * e^(r*t) ) - (F/K0 - 1)^2 ) / t
//
// K0 is the largest strike strictly below the forward price. Strikes below
// K0 contribute their put leg, strikes at or above the forward price their
// call leg, and K0 contributes both legs, which double-counts the
// at-the-money strike per the replication formula.
//
// The summation converts integer cents to dollars before squaring; without
// the unit conversion the result is off by a factor of 10,000.
//
// Degenerate inputs are propagated, not raised: an empty ladder yields 0,
// a forward price below every strike zeroes the (F/K0 - 1) term, and t = 0
// divides through to an infinite or NaN result the caller must check.
func (g *ExpiryGroup) Variance(now time.Time) float64 {
	t := g.TimeToExpiration(now)
	interest := math.Exp(g.RiskFreeRate * t)
	strikes := g.Strikes()
	fp := g.ForwardPrice(now)

	var below, above []OptionStrike
	for _, s := range strikes {
		if s.Price < fp {
			below = append(below, s)
		} else {
			above = append(above, s)
		}
	}

	var k0 Cents
	var sum float64
	if n := len(below); n > 0 {
		// The ladder is ascending, so the last strike below the forward
		// price is K0. It contributes both legs.
		k := below[n-1]
		k0 = k.Price
		sum += contribution(k.Call, k.DeltaK, interest)
		sum += contribution(k.Put, k.DeltaK, interest)
		for _, s := range below[:n-1] {
			sum += contribution(s.Put, s.DeltaK, interest)
		}
	}
	for _, s := range above {
		sum += contribution(s.Call, s.DeltaK, interest)
	}

	a := 0.0
	if k0 != 0 {
		a = float64(fp)/float64(k0) - 1
	}
	return (2*sum - a*a) / t
}

// contribution is one out-of-the-money option's term of the replication
// sum, in dollar units.
func contribution(o OptionContract, deltaK Cents, interest float64) float64 {
	strike := float64(o.Strike) / 100
	return (float64(deltaK) / 100) / (strike * strike) * (float64(o.Mark()) / 100) * interest
}

func absCents(c Cents) Cents {
	if c < 0 {
		return -c
	}
	return c
}
