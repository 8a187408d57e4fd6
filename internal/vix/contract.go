package vix

import "time"

// Cents is an integer price in the smallest currency unit.
//
// All quote and strike arithmetic is carried out in integer cents; values
// are only converted to floating-point dollars inside the variance formula,
// where the units matter (see Variance).
type Cents int64

// Percentage is an annualized percentage value, e.g. 22.5 for 22.5%.
type Percentage float64

// OptionKind distinguishes calls from puts.
type OptionKind int

const (
	Call OptionKind = iota
	Put
)

func (k OptionKind) String() string {
	switch k {
	case Call:
		return "call"
	case Put:
		return "put"
	}
	return "unknown"
}

// OptionContract is an immutable quoted option.
//
// Invariant: ask >= bid >= 0 is assumed, not enforced. A zero bid marks the
// quote as illiquid and is dropped during strike aggregation under the
// default policy (see WithZeroBidQuotes).
type OptionContract struct {
	ExpiresAt time.Time
	Strike    Cents
	Kind      OptionKind
	Bid       Cents
	Ask       Cents
}

// NewOptionContract builds a contract. All fields are required; there are
// no defaults.
func NewOptionContract(expiresAt time.Time, strike Cents, kind OptionKind, bid, ask Cents) OptionContract {
	return OptionContract{
		ExpiresAt: expiresAt,
		Strike:    strike,
		Kind:      kind,
		Bid:       bid,
		Ask:       ask,
	}
}

// Mark is the mark price: the bid/ask midpoint with truncating integer
// division.
func (c OptionContract) Mark() Cents {
	return (c.Ask + c.Bid) / 2
}
