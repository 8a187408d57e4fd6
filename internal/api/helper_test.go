package api

import (
	"time"

	"github.com/contactkeval/option-vix/internal/vix"
)

var (
	apiNow     = time.Date(2009, time.January, 1, 0, 0, 0, 0, time.UTC)
	nearExpiry = time.Date(2009, time.January, 11, 16, 0, 0, 0, time.UTC)
	nextExpiry = time.Date(2009, time.February, 10, 16, 0, 0, 0, time.UTC)
)

// stubSource feeds a fixed snapshot to the handlers.
type stubSource struct {
	quotes []vix.OptionContract
	err    error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Quotes() ([]vix.OptionContract, error) {
	return s.quotes, s.err
}

type chainRow struct {
	strike  vix.Cents
	callBid vix.Cents
	callAsk vix.Cents
	putBid  vix.Cents
	putAsk  vix.Cents
}

var nearRows = []chainRow{
	{9000, 1040, 1060, 30, 50},
	{9500, 640, 660, 120, 140},
	{10000, 310, 330, 300, 320},
	{10500, 110, 130, 610, 630},
	{11000, 30, 50, 1020, 1040},
}

var nextRows = []chainRow{
	{9000, 1140, 1160, 120, 140},
	{9500, 790, 810, 260, 280},
	{10000, 490, 510, 470, 490},
	{10500, 270, 290, 750, 770},
	{11000, 130, 150, 1110, 1130},
}

func rowContracts(expiresAt time.Time, rows []chainRow) []vix.OptionContract {
	out := make([]vix.OptionContract, 0, 2*len(rows))
	for _, r := range rows {
		out = append(out,
			vix.NewOptionContract(expiresAt, r.strike, vix.Call, r.callBid, r.callAsk),
			vix.NewOptionContract(expiresAt, r.strike, vix.Put, r.putBid, r.putAsk),
		)
	}
	return out
}

func chainQuotes() []vix.OptionContract {
	out := rowContracts(nearExpiry, nearRows)
	return append(out, rowContracts(nextExpiry, nextRows)...)
}
