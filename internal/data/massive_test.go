package data

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/contactkeval/option-vix/internal/vix"
)

func TestMassiveSourceHTTPError(t *testing.T) {
	// fake server returning 500
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"internal error"}`))
	}))
	defer srv.Close()

	src := &massiveSource{
		APIKey:     "test",
		Client:     srv.Client(),
		BaseURL:    srv.URL, // IMPORTANT
		Underlying: "SPX",
	}

	_, err := src.Quotes()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestMassiveSourcePagination(t *testing.T) {
	callCount := 0

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++

		if callCount == 1 {
			w.Write([]byte(`{
				"results": [
					{"details": {"contract_type": "call", "expiration_date": "2009-01-11", "strike_price": 100}, "last_quote": {"bid": 3.1, "ask": 3.3}},
					{"details": {"contract_type": "put", "expiration_date": "2009-01-11", "strike_price": 100}, "last_quote": {"bid": 3.0, "ask": 3.2}}
				],
				"next_url": "` + srv.URL + `/page2"
			}`))
			return
		}

		w.Write([]byte(`{
				"results": [
					{"details": {"contract_type": "call", "expiration_date": "2009-02-10", "strike_price": 105}, "last_quote": {"bid": 2.7, "ask": 2.9}}
				]
			}`))
	}))
	defer srv.Close()

	src := &massiveSource{
		APIKey:     "test",
		Client:     srv.Client(),
		BaseURL:    srv.URL,
		Underlying: "SPX",
	}

	quotes, err := src.Quotes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("expected 3 contracts, got %d", len(quotes))
	}

	first := quotes[0]
	if first.Kind != vix.Call || first.Strike != 10000 {
		t.Fatalf("unexpected first contract: %+v", first)
	}
	if first.Bid != 310 || first.Ask != 330 {
		t.Fatalf("unexpected first quote: bid=%d ask=%d", first.Bid, first.Ask)
	}

	wantExpiry := time.Date(2009, time.January, 11, 16, 0, 0, 0, time.UTC)
	if !first.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expected expiry %s, got %s", wantExpiry, first.ExpiresAt)
	}
}

func TestMassiveSourceSkipsMalformedEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"results": [
				{"details": {"contract_type": "call", "expiration_date": "not-a-date", "strike_price": 100}, "last_quote": {"bid": 3.1, "ask": 3.3}},
				{"details": {"contract_type": "other", "expiration_date": "2009-01-11", "strike_price": 100}, "last_quote": {"bid": 1.0, "ask": 1.2}},
				{"details": {"contract_type": "put", "expiration_date": "2009-01-11", "strike_price": 100}, "last_quote": {"bid": 3.0, "ask": 3.2}}
			]
		}`))
	}))
	defer srv.Close()

	src := &massiveSource{
		APIKey:     "test",
		Client:     srv.Client(),
		BaseURL:    srv.URL,
		Underlying: "SPX",
	}

	quotes, err := src.Quotes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("expected 1 contract, got %d", len(quotes))
	}
	if quotes[0].Kind != vix.Put {
		t.Fatalf("expected surviving contract to be a put, got %s", quotes[0].Kind)
	}
}

func TestMassiveSourceAppliesFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"results": [
				{"details": {"contract_type": "call", "expiration_date": "2009-01-11", "strike_price": 85}, "last_quote": {"bid": 0, "ask": 0.2}},
				{"details": {"contract_type": "call", "expiration_date": "2009-01-11", "strike_price": 100}, "last_quote": {"bid": 3.1, "ask": 3.3}}
			]
		}`))
	}))
	defer srv.Close()

	filter, err := NewQuoteFilter("bid > 0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src := &massiveSource{
		APIKey:     "test",
		Client:     srv.Client(),
		BaseURL:    srv.URL,
		Underlying: "SPX",
		filter:     filter,
	}

	quotes, err := src.Quotes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("expected 1 contract after filtering, got %d", len(quotes))
	}
	if quotes[0].Strike != 10000 {
		t.Fatalf("expected the liquid contract to survive, got strike %d", quotes[0].Strike)
	}
}
