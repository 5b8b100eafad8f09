package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type SweepRow struct {
	TrackSize       int     `json:"track_size"`
	Farmer          string  `json:"farmer"`
	Fox             string  `json:"fox"`
	TrialsPerWorker int     `json:"trials_per_worker"`
	Workers         int     `json:"workers"`
	Mean            float64 `json:"mean"`
	Spread          Summary `json:"spread"`
	MaxSteps        int     `json:"max_steps"`
}

type SweepReport struct {
	ReportName  string     `json:"report_name"`
	GeneratedAt string     `json:"generated_at_utc"`
	Seed        int64      `json:"seed"`
	Rows        []SweepRow `json:"rows"`
}

var sweepCSVHeader = []string{
	"track_size", "farmer", "fox", "trials_per_worker", "workers",
	"mean", "std", "std_err", "min_worker_mean", "max_worker_mean", "max_steps",
}

func WriteSweepCSV(w io.Writer, rows []SweepRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sweepCSVHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.TrackSize),
			row.Farmer,
			row.Fox,
			strconv.Itoa(row.TrialsPerWorker),
			strconv.Itoa(row.Workers),
			formatFloat(row.Mean),
			formatFloat(row.Spread.Std),
			formatFloat(row.Spread.StdErr),
			formatFloat(row.Spread.Min),
			formatFloat(row.Spread.Max),
			strconv.Itoa(row.MaxSteps),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSweepReport stores the report as <dir>/<name>_Sweep.json and returns the path.
func WriteSweepReport(dir string, report SweepReport) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("report directory is required")
	}
	name := report.ReportName
	if name == "" {
		name = "report"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if report.GeneratedAt == "" {
		report.GeneratedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	path := filepath.Join(dir, name+"_Sweep.json")
	if err := writeJSON(path, report); err != nil {
		return "", err
	}
	return path, nil
}

func ReadSweepReport(path string) (SweepReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SweepReport{}, err
	}
	var report SweepReport
	if err := json.Unmarshal(data, &report); err != nil {
		return SweepReport{}, err
	}
	return report, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
