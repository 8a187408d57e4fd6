package data

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/contactkeval/option-vix/internal/logger"
	"github.com/contactkeval/option-vix/internal/vix"
)

// massiveSource pulls an option chain snapshot from the Massive HTTP API.
//
// It uses raw HTTP calls instead of the official Massive SDK, with
// pagination and rate-limit retries handled locally.
type massiveSource struct {
	// APIKey used for authenticating requests with Massive.
	APIKey string

	// Client is the HTTP client used to make API requests.
	Client *http.Client

	// BaseURL is the root endpoint for Massive APIs
	// (e.g., https://api.massive.com).
	BaseURL string

	// Underlying is the ticker whose chain is fetched.
	Underlying string

	filter *QuoteFilter
}

// massiveSnapshot represents a single contract entry returned by Massive's
// option chain snapshot endpoint.
type massiveSnapshot struct {
	Details struct {
		ContractType   string  `json:"contract_type"`
		ExpirationDate string  `json:"expiration_date"`
		StrikePrice    float64 `json:"strike_price"`
	} `json:"details"`
	LastQuote struct {
		Bid float64 `json:"bid"`
		Ask float64 `json:"ask"`
	} `json:"last_quote"`
}

// massiveSnapshotResp models the paginated response returned by Massive's
// option chain snapshot API.
type massiveSnapshotResp struct {
	Results   []massiveSnapshot `json:"results"`
	Status    string            `json:"status"`
	RequestID string            `json:"request_id"`
	NextURL   string            `json:"next_url"`
}

// NewMassiveSource constructs a Massive-backed snapshot source.
//
// It initializes an HTTP client with sensible defaults for:
//   - timeouts
//   - connection pooling
//   - HTTP/2 support
//   - gzip decompression
//
// A nil filter admits every contract.
func NewMassiveSource(apiKey, underlying string, filter *QuoteFilter) Source {
	logger.Infof("initializing Massive snapshot source for %s", underlying)

	return &massiveSource{
		APIKey: apiKey,
		Client: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
				DisableCompression:    false, // must be false to enable gzip auto-decompression
				ForceAttemptHTTP2:     true,
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
			},
		},
		BaseURL:    "https://api.massive.com",
		Underlying: underlying,
		filter:     filter,
	}
}

func (src *massiveSource) Name() string {
	return "massive:" + src.Underlying
}

// Quotes fetches the full chain snapshot for the configured underlying,
// following pagination until the last page.
func (src *massiveSource) Quotes() ([]vix.OptionContract, error) {
	out := []vix.OptionContract{}

	// Build base URL
	u, err := url.Parse(src.BaseURL + "/v3/snapshot/options/" + src.Underlying)
	if err != nil {
		return nil, err
	}

	query := u.Query()
	query.Set("limit", "250")
	query.Set("apiKey", src.APIKey)
	u.RawQuery = query.Encode()
	reqURL := u.String()

	// Handle pagination
	for reqURL != "" {
		logger.Debugf("snapshot request URL: %s", reqURL)

		req, err := http.NewRequest("GET", reqURL, nil)
		if err != nil {
			return nil, err
		}

		req.Header.Set("Authorization", "Bearer "+src.APIKey)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "massive-client/1.0")

		resp, err := src.processGetRequest(req)
		if err != nil {
			return nil, err
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		if len(body) == 0 {
			return nil, fmt.Errorf("empty response body")
		}

		if resp.StatusCode != http.StatusOK {
			var dbg struct {
				Message string `json:"message"`
			}
			_ = json.Unmarshal(body, &dbg)

			logger.Errorf(
				"massive snapshot API error status=%d message=%s",
				resp.StatusCode,
				dbg.Message,
			)
			return nil, fmt.Errorf(
				"massive returned status %d: %s",
				resp.StatusCode,
				dbg.Message,
			)
		}

		var page massiveSnapshotResp
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}

		logger.Tracef("received %d snapshot entries", len(page.Results))

		for _, result := range page.Results {
			// parse expiration
			t, err := time.Parse("2006-01-02", result.Details.ExpirationDate)
			if err != nil {
				continue // skip malformed expiry dates
			}
			expiresAt := time.Date(t.Year(), t.Month(), t.Day(), 16, 0, 0, 0, time.UTC)

			var kind vix.OptionKind
			switch result.Details.ContractType {
			case "call":
				kind = vix.Call
			case "put":
				kind = vix.Put
			default:
				continue // skip non-vanilla contract types
			}

			if src.filter != nil {
				keep, err := src.filter.Keep(map[string]interface{}{
					"strike": result.Details.StrikePrice,
					"days":   time.Until(expiresAt).Hours() / 24,
					"bid":    result.LastQuote.Bid,
					"ask":    result.LastQuote.Ask,
					"type":   result.Details.ContractType,
				})
				if err != nil {
					return nil, err
				}
				if !keep {
					continue
				}
			}

			out = append(out, vix.NewOptionContract(
				expiresAt,
				centsFromFloat(result.Details.StrikePrice),
				kind,
				centsFromFloat(result.LastQuote.Bid),
				centsFromFloat(result.LastQuote.Ask),
			))
		}

		reqURL = page.NextURL
	}

	logger.Infof("massive snapshot %s: %d contracts", src.Underlying, len(out))
	return out, nil
}

// processGetRequest executes an HTTP GET request with rate-limit handling.
//
// Behavior:
//   - Retries indefinitely on HTTP 429
//   - Sleeps until the next minute boundary
//   - Returns immediately on success (<400)
//   - Returns an error for other status codes
func (src *massiveSource) processGetRequest(req *http.Request) (*http.Response, error) {
	for {
		resp, err := src.Client.Do(req)
		if err != nil {
			return nil, err
		}

		// Success
		if resp.StatusCode < 400 {
			return resp, nil
		}

		// Handle per-minute rate limit (commonly 429)
		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()

			// Sleep until the next minute boundary
			now := time.Now()
			sleepDuration := time.Until(
				now.Truncate(time.Minute).Add(time.Minute),
			)

			logger.Infof("rate limit hit, sleeping for %s", sleepDuration)
			time.Sleep(sleepDuration)
			continue
		}

		return resp, fmt.Errorf(
			"unexpected status code: %d",
			resp.StatusCode,
		)
	}
}
