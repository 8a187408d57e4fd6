package data

import (
	"math"
	"time"

	"github.com/contactkeval/option-vix/internal/logger"
	"github.com/contactkeval/option-vix/internal/pricing"
	"github.com/contactkeval/option-vix/internal/vix"
)

// syntheticSource generates a deterministic two-expiry chain around a spot
// price, with marks taken from Black-Scholes and a symmetric spread.
type syntheticSource struct {
	spot float64 // dollars
	base time.Time
	rate float64
	vol  float64
}

// NewSyntheticSource builds a synthetic chain source. The chain has strikes
// at 90..110 percent of spot and expirations 10 and 40 days past base.
func NewSyntheticSource(spot float64, base time.Time) Source {
	return &syntheticSource{
		spot: spot,
		base: base,
		rate: vix.DefaultRiskFreeRate,
		vol:  0.25,
	}
}

func (src *syntheticSource) Name() string {
	return "synthetic"
}

func (src *syntheticSource) Quotes() ([]vix.OptionContract, error) {
	moneyness := []float64{0.90, 0.95, 1.00, 1.05, 1.10}
	expiries := []time.Time{
		expiryAt(src.base, 10),
		expiryAt(src.base, 40),
	}

	var out []vix.OptionContract
	for _, expiresAt := range expiries {
		years := float64(expiresAt.Sub(src.base)/time.Minute) / vix.MinutesPerYear

		for _, m := range moneyness {
			strikeDollars := math.Round(src.spot*m*100) / 100
			strike := centsFromFloat(strikeDollars)

			callBid, callAsk := syntheticQuote(pricing.BlackScholesPrice(true, src.spot, strikeDollars, years, src.rate, src.vol))
			putBid, putAsk := syntheticQuote(pricing.BlackScholesPrice(false, src.spot, strikeDollars, years, src.rate, src.vol))

			out = append(out,
				vix.NewOptionContract(expiresAt, strike, vix.Call, callBid, callAsk),
				vix.NewOptionContract(expiresAt, strike, vix.Put, putBid, putAsk),
			)
		}
	}

	logger.Debugf("synthetic chain: %d contracts around spot %.2f", len(out), src.spot)
	return out, nil
}

// syntheticQuote wraps a theoretical dollar price in a symmetric bid/ask
// spread. The mark is floored at two cents so every quote stays liquid.
func syntheticQuote(theo float64) (bid, ask vix.Cents) {
	mark := vix.Cents(math.Round(theo * 100))
	if mark < 2 {
		mark = 2
	}

	spread := mark / 10
	if spread < 1 {
		spread = 1
	}
	return mark - spread, mark + spread
}
