package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/contactkeval/option-vix/internal/engine"
	"github.com/contactkeval/option-vix/internal/logger"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// per-request copy of the serving config
	cfg := *s.cfg

	if atStr := q.Get("at"); atStr != "" {
		at, err := time.Parse(time.RFC3339, atStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid at timestamp")
			return
		}
		cfg.At = at
	}

	if replayStr := q.Get("replay"); replayStr != "" {
		replay, err := strconv.Atoi(replayStr)
		if err != nil || replay < 0 {
			writeError(w, http.StatusBadRequest, "invalid replay count")
			return
		}
		cfg.Replay = replay
	}

	if stepStr := q.Get("step"); stepStr != "" {
		step, err := strconv.Atoi(stepStr)
		if err != nil || step <= 0 {
			writeError(w, http.StatusBadRequest, "invalid step minutes")
			return
		}
		cfg.StepMinutes = step
	}

	res, err := engine.NewEngine(&cfg, s.src).Run()
	if err != nil {
		logger.Errorf("event=api_index_failed err=%v", err)

		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrNoQuotes) ||
			errors.Is(err, engine.ErrTooFewExpiries) ||
			errors.Is(err, engine.ErrNotFinite) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Data: res,
		Meta: &apiMeta{Source: s.src.Name()},
	})
}

func (s *Server) handleExpiries(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.src.Quotes()
	if err != nil {
		logger.Errorf("event=api_expiries_failed err=%v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	seen := map[time.Time]bool{}
	var expiries []time.Time
	for _, q := range quotes {
		if !seen[q.ExpiresAt] {
			seen[q.ExpiresAt] = true
			expiries = append(expiries, q.ExpiresAt)
		}
	}
	sort.Slice(expiries, func(i, j int) bool { return expiries[i].Before(expiries[j]) })

	out := make([]string, len(expiries))
	for i, e := range expiries {
		out[i] = e.UTC().Format(time.RFC3339)
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Data: map[string]any{
			"count":    len(out),
			"expiries": out,
		},
		Meta: &apiMeta{Source: s.src.Name()},
	})
}
