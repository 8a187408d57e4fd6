// Package data provides quote snapshot sources for the index calculation.
//
// Responsibilities:
//   - Load option chain snapshots from local CSV files
//   - Pull chain snapshots from the Massive HTTP API
//   - Generate deterministic synthetic chains for demos and tests
//   - Apply configurable quote admission filters during ingestion
//
// Design notes:
//   - All sources emit contracts with integer cent prices; dollar amounts
//     are converted through shopspring/decimal, never float multiplication
//   - Expiration timestamps are pinned to the 16:00 session close
package data

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/contactkeval/option-vix/internal/vix"
)

// Source supplies one snapshot of an option chain.
type Source interface {
	// Name identifies the source in logs and reports.
	Name() string

	// Quotes returns every contract in the snapshot.
	Quotes() ([]vix.OptionContract, error)
}

var centsPerDollar = decimal.NewFromInt(100)

// ParseCents converts a decimal dollar string to integer cents, rounding to
// the nearest cent.
func ParseCents(s string) (vix.Cents, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return vix.Cents(d.Mul(centsPerDollar).Round(0).IntPart()), nil
}

// centsFromFloat converts a dollar amount to integer cents, rounding to the
// nearest cent.
func centsFromFloat(v float64) vix.Cents {
	return vix.Cents(decimal.NewFromFloat(v).Mul(centsPerDollar).Round(0).IntPart())
}

// dollars converts cents back to a float dollar amount for filter parameters.
func dollars(c vix.Cents) float64 {
	return float64(c) / 100
}
