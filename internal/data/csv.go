package data

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/contactkeval/option-vix/internal/logger"
	"github.com/contactkeval/option-vix/internal/vix"
)

// quoteRecord is one row of a chain snapshot file. Each row quotes the call
// and the put side of a single strike.
type quoteRecord struct {
	Expiration string `csv:"expiration"`
	Days       int    `csv:"days"`
	Strike     string `csv:"strike"`
	CallBid    string `csv:"call_bid"`
	CallAsk    string `csv:"call_ask"`
	PutBid     string `csv:"put_bid"`
	PutAsk     string `csv:"put_ask"`
}

// csvSource loads a chain snapshot from a local CSV file.
type csvSource struct {
	path   string
	base   time.Time
	filter *QuoteFilter
}

// NewCSVSource reads quotes from the file at path. Row expirations are
// resolved as base shifted by the row's day count, at the session close.
// A nil filter admits every row.
func NewCSVSource(path string, base time.Time, filter *QuoteFilter) Source {
	return &csvSource{path: path, base: base, filter: filter}
}

func (src *csvSource) Name() string {
	return "csv:" + src.path
}

func (src *csvSource) Quotes() ([]vix.OptionContract, error) {
	f, err := os.Open(src.path)
	if err != nil {
		return nil, fmt.Errorf("open quote file: %w", err)
	}
	defer f.Close()

	records := []*quoteRecord{}
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("parse quote file: %w", err)
	}

	logger.Debugf("loaded %d quote records from %s", len(records), src.path)

	out := make([]vix.OptionContract, 0, 2*len(records))
	kept := 0

	for i, rec := range records {
		row := i + 2 // 1-based, after the header line

		strike, err := ParseCents(rec.Strike)
		if err != nil {
			return nil, fmt.Errorf("row %d: strike %q: %w", row, rec.Strike, err)
		}
		callBid, err := ParseCents(rec.CallBid)
		if err != nil {
			return nil, fmt.Errorf("row %d: call_bid %q: %w", row, rec.CallBid, err)
		}
		callAsk, err := ParseCents(rec.CallAsk)
		if err != nil {
			return nil, fmt.Errorf("row %d: call_ask %q: %w", row, rec.CallAsk, err)
		}
		putBid, err := ParseCents(rec.PutBid)
		if err != nil {
			return nil, fmt.Errorf("row %d: put_bid %q: %w", row, rec.PutBid, err)
		}
		putAsk, err := ParseCents(rec.PutAsk)
		if err != nil {
			return nil, fmt.Errorf("row %d: put_ask %q: %w", row, rec.PutAsk, err)
		}

		if src.filter != nil {
			keep, err := src.filter.Keep(map[string]interface{}{
				"strike":   dollars(strike),
				"days":     float64(rec.Days),
				"call_bid": dollars(callBid),
				"call_ask": dollars(callAsk),
				"put_bid":  dollars(putBid),
				"put_ask":  dollars(putAsk),
			})
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
			if !keep {
				logger.Tracef("filtered row %d expiry=%s strike=%s", row, rec.Expiration, rec.Strike)
				continue
			}
		}

		expiresAt := expiryAt(src.base, rec.Days)
		out = append(out,
			vix.NewOptionContract(expiresAt, strike, vix.Call, callBid, callAsk),
			vix.NewOptionContract(expiresAt, strike, vix.Put, putBid, putAsk),
		)
		kept++
	}

	logger.Infof("quote file %s: %d rows, %d kept, %d contracts", src.path, len(records), kept, len(out))
	return out, nil
}

// expiryAt shifts a base date by a day count and pins the result to the
// 16:00 session close.
func expiryAt(base time.Time, days int) time.Time {
	d := base.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 16, 0, 0, 0, d.Location())
}
