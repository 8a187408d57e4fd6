package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/contactkeval/option-vix/internal/api"
	"github.com/contactkeval/option-vix/internal/data"
	"github.com/contactkeval/option-vix/internal/engine"
	"github.com/contactkeval/option-vix/internal/logger"
	"github.com/contactkeval/option-vix/internal/report"
	"github.com/contactkeval/option-vix/internal/vix"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config (optional, flags override it)")
	dataPath := flag.String("data", "", "path to a CSV quote snapshot")
	underlying := flag.String("underlying", "", "underlying ticker for the market data API")
	spot := flag.Float64("spot", 100, "spot price for the synthetic quote source")
	at := flag.String("at", "", "valuation time, RFC3339 (default: now)")
	replay := flag.Int("replay", 1, "number of valuation steps to replay")
	step := flag.Int("step", 60, "minutes between replay steps")
	workers := flag.Int("workers", 4, "parallel workers for the replay series")
	rate := flag.Float64("rate", vix.DefaultRiskFreeRate, "annualized risk-free rate")
	filterExpr := flag.String("filter", "", "quote filter expression, e.g. 'call_bid > 0 && strike >= 50'")
	zeroBids := flag.Bool("zero-bids", false, "keep quotes whose bid is zero")
	reportDir := flag.String("report", "", "directory for index.json and index_series.csv (defaults to ./reports)")
	rest := flag.Bool("rest", false, "run as REST server instead of a one-shot computation")
	port := flag.String("port", ":8080", "REST server listen address")
	verbosity := flag.Int("v", 1, "log verbosity (0=error 1=info 2=debug 3=trace)")
	flag.Parse()

	// .env is optional; real environments set the variables directly
	_ = godotenv.Load()

	var cfg engine.Config
	if *configPath != "" {
		raw, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("reading config: %v", err)
		}
		if err := json.Unmarshal(raw, &cfg); err != nil {
			log.Fatalf("invalid config: %v", err)
		}
	}

	if cfg.Verbosity == 0 {
		cfg.Verbosity = 1 // Info
	}

	// flags set on the command line win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.DataPath = *dataPath
		case "underlying":
			cfg.Underlying = *underlying
		case "spot":
			cfg.Spot = *spot
		case "at":
			t, err := time.Parse(time.RFC3339, *at)
			if err != nil {
				log.Fatalf("invalid -at timestamp: %v", err)
			}
			cfg.At = t
		case "replay":
			cfg.Replay = *replay
		case "step":
			cfg.StepMinutes = *step
		case "workers":
			cfg.Workers = *workers
		case "rate":
			cfg.RiskFreeRate = *rate
		case "filter":
			cfg.Filter = *filterExpr
		case "zero-bids":
			cfg.IncludeZeroBids = *zeroBids
		case "report":
			cfg.ReportDir = *reportDir
		case "v":
			cfg.Verbosity = *verbosity
		}
	})

	if cfg.DataPath == "" {
		cfg.DataPath = os.Getenv("VIX_DATA")
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = os.Getenv("VIX_REPORT_DIR")
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = "reports"
	}
	if cfg.At.IsZero() {
		cfg.At = time.Now().UTC()
	}

	logger.SetVerbosity(cfg.Verbosity)

	var filter *data.QuoteFilter
	if cfg.Filter != "" {
		f, err := data.NewQuoteFilter(cfg.Filter)
		if err != nil {
			log.Fatalf("invalid filter: %v", err)
		}
		filter = f
	}

	// choose source
	var src data.Source
	apiKey := os.Getenv("MASSIVE_API_KEY")
	switch {
	case cfg.DataPath != "":
		src = data.NewCSVSource(cfg.DataPath, cfg.At, filter)
		log.Printf("[info] csv source enabled: %s", cfg.DataPath)
	case apiKey != "" && cfg.Underlying != "":
		src = data.NewMassiveSource(apiKey, cfg.Underlying, filter)
		log.Printf("[info] massive source enabled for %s", cfg.Underlying)
	default:
		spotPx := cfg.Spot
		if spotPx <= 0 {
			spotPx = 100
		}
		src = data.NewSyntheticSource(spotPx, cfg.At)
		log.Printf("[info] synthetic source enabled (spot %.2f)", spotPx)
	}

	if *rest {
		srv := api.NewServer(&cfg, src)
		log.Printf("[info] starting REST server on %s", *port)
		log.Fatal(http.ListenAndServe(*port, srv.Router()))
		return
	}

	start := time.Now()
	res, err := engine.NewEngine(&cfg, src).Run()
	if err != nil {
		log.Fatalf("index computation failed: %v", err)
	}
	if err := os.MkdirAll(cfg.ReportDir, 0755); err != nil {
		log.Printf("[warn] could not create report dir %s: %v", cfg.ReportDir, err)
	}
	points := res.Points
	if len(points) == 0 {
		points = []vix.SeriesPoint{{At: res.At, Index: res.Index}}
	}
	_ = report.WriteJSON(res, cfg.ReportDir)
	_ = report.WriteCSV(points, cfg.ReportDir)

	// the index value goes to stdout, logs go to stderr
	fmt.Printf("%.4f\n", float64(res.Index))
	log.Printf("[done] finished in %v, wrote %d points to %s", time.Since(start), len(points), cfg.ReportDir)
}
