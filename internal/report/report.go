package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/contactkeval/option-vix/internal/engine"
	"github.com/contactkeval/option-vix/internal/vix"
)

// WriteJSON renders the full run result to index.json in outdir.
func WriteJSON(res *engine.Result, outdir string) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "index.json"), b, 0644)
}

// WriteCSV renders the replay series to index_series.csv in outdir.
func WriteCSV(points []vix.SeriesPoint, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "index_series.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	headers := []string{"at", "index"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{p.At.UTC().Format(time.RFC3339), fmt.Sprintf("%.4f", float64(p.Index))}
		_ = w.Write(row)
	}
	return nil
}
