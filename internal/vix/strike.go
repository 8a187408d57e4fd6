package vix

import "sort"

// OptionStrike pairs the call and the put quoted at one strike within one
// expiration, plus the interval weight DeltaK used by the variance formula.
//
// Strikes exist only transiently: they are rebuilt from the chain's
// contracts on every Strikes call and never mutated after the DeltaK
// fill-in pass.
type OptionStrike struct {
	Price  Cents
	Call   OptionContract
	Put    OptionContract
	DeltaK Cents
}

// CallPutDifference is the signed difference between the call mark and the
// put mark. The strike minimizing its absolute value is the at-the-money
// strike (put-call parity proxy).
func (s OptionStrike) CallPutDifference() Cents {
	return s.Call.Mark() - s.Put.Mark()
}

// Mark is the midpoint of the call mark and the put mark.
func (s OptionStrike) Mark() Cents {
	return (s.Call.Mark() + s.Put.Mark()) / 2
}

// Strikes aggregates the chain's contracts into the ordered strike ladder:
// ascending by price, each price unique, DeltaK populated.
//
// The build is two-phase. Phase one filters illiquid quotes (unless zero-bid
// quotes are admitted), pairs the first call and first put at each strike in
// arrival order, and drops strikes lacking either leg. Phase two assigns
// each interior strike half the distance between its neighbors:
//
//	deltaK[i] = (price[i+1] - price[i-1]) / 2
//
// Boundary strikes, and every strike of a ladder shorter than three, get
// DeltaK 0.
func (g *ExpiryGroup) Strikes() []OptionStrike {
	all := make([]OptionContract, 0, len(g.Calls)+len(g.Puts))
	all = append(all, g.Calls...)
	all = append(all, g.Puts...)

	if !g.includeZeroBids {
		liquid := all[:0]
		for _, c := range all {
			if c.Bid != 0 {
				liquid = append(liquid, c)
			}
		}
		all = liquid
	}

	// Stable sort keeps arrival order within each strike run, so the
	// "first call, first put" selection below is deterministic.
	sort.SliceStable(all, func(i, j int) bool { return all[i].Strike < all[j].Strike })

	var paired []OptionStrike
	for i := 0; i < len(all); {
		j := i
		for j < len(all) && all[j].Strike == all[i].Strike {
			j++
		}

		var call, put OptionContract
		var haveCall, havePut bool
		for _, c := range all[i:j] {
			switch {
			case c.Kind == Call && !haveCall:
				call, haveCall = c, true
			case c.Kind == Put && !havePut:
				put, havePut = c, true
			}
		}
		if haveCall && havePut {
			paired = append(paired, OptionStrike{Price: all[i].Strike, Call: call, Put: put})
		}
		i = j
	}

	// Second pass: sliding window of three over the paired ladder.
	out := make([]OptionStrike, len(paired))
	for i, s := range paired {
		if i > 0 && i+1 < len(paired) {
			s.DeltaK = (paired[i+1].Price - paired[i-1].Price) / 2
		}
		out[i] = s
	}
	return out
}
