// Package engine orchestrates an index computation run: load a quote
// snapshot, group it by expiration, select the two nearest terms, and
// compute the index once or across a replay ladder.
//
// Design notes:
//   - The calculation package propagates non-finite values; this package is
//     the boundary that checks them and refuses to report them
//   - A Run is deterministic given the source snapshot and the Config
package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/contactkeval/option-vix/internal/data"
	"github.com/contactkeval/option-vix/internal/logger"
	"github.com/contactkeval/option-vix/internal/pricing"
	"github.com/contactkeval/option-vix/internal/vix"
)

// Typed errors allow callers to detect failure categories without string
// matching.
var (
	ErrNoQuotes       = errors.New("no quotes in snapshot")
	ErrTooFewExpiries = errors.New("need quotes for at least two expirations")
	ErrNotFinite      = errors.New("index is not finite")
)

type Engine struct {
	cfg *Config
	src data.Source
}

// Config struct
type Config struct {
	DataPath        string    `json:"data_path,omitempty"`         // CSV snapshot path
	Underlying      string    `json:"underlying,omitempty"`        // ticker for the Massive source
	Spot            float64   `json:"spot,omitempty"`              // spot price for the synthetic source
	At              time.Time `json:"at,omitempty"`                // snapshot timestamp, defaults to now
	Replay          int       `json:"replay,omitempty"`            // replay points, 0 or 1 = single computation
	StepMinutes     int       `json:"step_minutes,omitempty"`      // replay step in minutes, default 60
	Workers         int       `json:"workers,omitempty"`           // replay concurrency, default 4
	RiskFreeRate    float64   `json:"risk_free_rate,omitempty"`    // annual rate, default 0.003
	IncludeZeroBids bool      `json:"include_zero_bids,omitempty"` // admit zero-bid quotes into strikes
	Filter          string    `json:"filter,omitempty"`            // quote admission expression
	ReportDir       string    `json:"report_dir,omitempty"`        // output directory
	Verbosity       int       `json:"verbosity,omitempty"`         // 0=errors,1=info,2=debug,3=trace
}

// Summary describes the distribution of a replay series.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Result is the output of one run.
type Result struct {
	RunID      string            `json:"run_id"`
	Source     string            `json:"source"`
	At         time.Time         `json:"at"`
	NearExpiry time.Time         `json:"near_expiry"`
	NextExpiry time.Time         `json:"next_expiry"`
	Index      vix.Percentage    `json:"index"`
	NearATMVol float64           `json:"near_atm_vol,omitempty"`
	NextATMVol float64           `json:"next_atm_vol,omitempty"`
	Points     []vix.SeriesPoint `json:"points,omitempty"`
	Summary    *Summary          `json:"summary,omitempty"`
}

func NewEngine(cfg *Config, src data.Source) *Engine {
	return &Engine{cfg: cfg, src: src}
}

// Run executes the computation
func (e *Engine) Run() (*Result, error) {
	cfg := e.cfg
	// fill defaults
	if cfg.StepMinutes <= 0 {
		cfg.StepMinutes = 60
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.RiskFreeRate == 0 {
		cfg.RiskFreeRate = vix.DefaultRiskFreeRate
	}
	if cfg.At.IsZero() {
		cfg.At = time.Now().UTC()
	}

	quotes, err := e.src.Quotes()
	if err != nil {
		return nil, fmt.Errorf("load quotes: %w", err)
	}
	if len(quotes) == 0 {
		return nil, ErrNoQuotes
	}

	opts := []vix.Option{vix.WithRiskFreeRate(cfg.RiskFreeRate)}
	if cfg.IncludeZeroBids {
		opts = append(opts, vix.WithZeroBidQuotes())
	}

	groups := vix.GroupByExpiry(quotes, opts...)
	nearTerm, nextTerm, ok := vix.SelectTerms(groups)
	if !ok {
		return nil, fmt.Errorf("%w: snapshot has %d", ErrTooFewExpiries, len(groups))
	}

	logger.Infof(
		"event=terms_selected source=%s near=%s next=%s",
		e.src.Name(),
		nearTerm.ExpiresAt.Format(time.RFC3339),
		nextTerm.ExpiresAt.Format(time.RFC3339),
	)

	res := &Result{
		RunID:      uuid.NewString(),
		Source:     e.src.Name(),
		At:         cfg.At,
		NearExpiry: nearTerm.ExpiresAt,
		NextExpiry: nextTerm.ExpiresAt,
	}

	if cfg.Replay > 1 {
		times := replayTimes(cfg.At, cfg.Replay, time.Duration(cfg.StepMinutes)*time.Minute)
		points := vix.ComputeSeries(nearTerm, nextTerm, times, cfg.Workers)

		kept := make([]vix.SeriesPoint, 0, len(points))
		dropped := 0
		for _, p := range points {
			if isFinite(float64(p.Index)) {
				kept = append(kept, p)
			} else {
				dropped++
			}
		}
		if dropped > 0 {
			logger.Errorf("event=points_dropped count=%d reason=non_finite", dropped)
		}
		if len(kept) == 0 {
			return nil, fmt.Errorf("%w: every replay point degenerate", ErrNotFinite)
		}

		res.Points = kept
		res.Index = kept[0].Index
		res.Summary = Summarize(kept)

		logger.Infof(
			"event=replay_done points=%d mean=%.4f std=%.4f",
			res.Summary.Count, res.Summary.Mean, res.Summary.Std,
		)
	} else {
		index := vix.ComputeIndex(nearTerm, nextTerm, cfg.At)
		if !isFinite(float64(index)) {
			return nil, fmt.Errorf("%w: %f at %s", ErrNotFinite, float64(index), cfg.At.Format(time.RFC3339))
		}
		res.Index = index

		logger.Infof("event=index_computed at=%s index=%.4f", cfg.At.Format(time.RFC3339), float64(index))
	}

	res.NearATMVol = atmImpliedVol(nearTerm, cfg.At, cfg.RiskFreeRate)
	res.NextATMVol = atmImpliedVol(nextTerm, cfg.At, cfg.RiskFreeRate)

	return res, nil
}

// Summarize computes distribution statistics over a replay series.
func Summarize(points []vix.SeriesPoint) *Summary {
	if len(points) == 0 {
		return nil
	}

	xs := make([]float64, len(points))
	min, max := float64(points[0].Index), float64(points[0].Index)
	for i, p := range points {
		x := float64(p.Index)
		xs[i] = x
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}

	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) == 1 {
		// the sample deviation of one point is undefined, report zero
		std = 0
	}

	return &Summary{Count: len(xs), Mean: mean, Std: std, Min: min, Max: max}
}

// atmImpliedVol estimates the Black-Scholes vol implied by the ATM straddle
// of one term. Estimation is best-effort: degenerate terms report zero.
func atmImpliedVol(g *vix.ExpiryGroup, now time.Time, rate float64) float64 {
	atm, ok := g.ATMStrike()
	if !ok {
		return 0
	}

	years := g.TimeToExpiration(now)
	if years <= 0 {
		return 0
	}

	spot := float64(g.ForwardPrice(now)) / 100
	strike := float64(atm.Price) / 100
	call := float64(atm.Call.Mark()) / 100
	put := float64(atm.Put.Mark()) / 100

	iv, err := pricing.ImpliedVolATM(spot, strike, years, rate, call, put)
	if err != nil {
		logger.Debugf("event=atm_vol_unavailable expiry=%s err=%v", g.ExpiresAt.Format("2006-01-02"), err)
		return 0
	}
	return iv
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
