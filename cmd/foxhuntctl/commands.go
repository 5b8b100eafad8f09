package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"foxhunt/internal/stats"
	"foxhunt/pkg/foxhunt"
)

// runFlags are the per-run settings shared by estimate and sweep. Only flags
// the user set override the loaded config.
type runFlags struct {
	trials  int
	workers int
	farmer  string
	fox     string
	stepCap int
	seed    int64
}

func (f *runFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.trials, "trials", 0, "trials per worker")
	fs.IntVar(&f.workers, "workers", 0, "concurrent workers")
	fs.StringVar(&f.farmer, "farmer", "", "farmer policy name")
	fs.StringVar(&f.fox, "fox", "", "fox policy name")
	fs.IntVar(&f.stepCap, "step-cap", 0, "max steps per trial (0 = default)")
	fs.Int64Var(&f.seed, "seed", 0, "random seed (0 = from clock)")
}

func (f *runFlags) request(cmd *cobra.Command, a *app) foxhunt.EstimateRequest {
	cfg := a.cfg
	req := foxhunt.EstimateRequest{
		TrackSize:       cfg.TrackSize,
		TrialsPerWorker: cfg.TrialsPerWorker,
		Workers:         cfg.Workers,
		Farmer:          cfg.Farmer,
		Fox:             cfg.Fox,
		StepCap:         cfg.StepCap,
		Seed:            cfg.Seed,
	}
	fs := cmd.Flags()
	if fs.Changed("trials") {
		req.TrialsPerWorker = f.trials
	}
	if fs.Changed("workers") {
		req.Workers = f.workers
	}
	if fs.Changed("farmer") {
		req.Farmer = f.farmer
	}
	if fs.Changed("fox") {
		req.Fox = f.fox
	}
	if fs.Changed("step-cap") {
		req.StepCap = f.stepCap
	}
	if fs.Changed("seed") {
		req.Seed = f.seed
	}
	return req
}

func newEstimateCmd(a *app) *cobra.Command {
	var (
		flags     runFlags
		trackSize int
		jsonOut   bool
	)
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the mean capture time for one track size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := flags.request(cmd, a)
			if cmd.Flags().Changed("track-size") {
				req.TrackSize = trackSize
			}

			client, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			summary, err := client.Estimate(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(a, estimateOutput(summary))
			}
			printEstimate(a, summary)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&trackSize, "track-size", "n", 0, "number of track positions")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the estimate as JSON")
	return cmd
}

func newSweepCmd(a *app) *cobra.Command {
	var (
		flags      runFlags
		from       int
		to         int
		step       int
		csvPath    string
		reportDir  string
		reportName string
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Estimate mean capture times over a range of track sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := foxhunt.SweepRequest{
				EstimateRequest: flags.request(cmd, a),
				From:            a.cfg.Sweep.From,
				To:              a.cfg.Sweep.To,
				Step:            a.cfg.Sweep.Step,
			}
			if cmd.Flags().Changed("from") {
				req.From = from
			}
			if cmd.Flags().Changed("to") {
				req.To = to
			}
			if cmd.Flags().Changed("step") {
				req.Step = step
			}
			req.TrackSize = req.From

			client, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "N\tMEAN\tSTDERR\tMAX\tTRIALS\tELAPSED")
			req.OnPoint = func(point foxhunt.EstimateSummary) error {
				fmt.Fprintf(tw, "%d\t%.4f\t%.4f\t%d\t%s\t%s\n",
					point.TrackSize,
					point.Mean,
					point.Spread.StdErr,
					point.MaxSteps,
					humanize.Comma(totalTrials(point.TrialsPerWorker, point.Workers)),
					point.Elapsed.Round(time.Millisecond),
				)
				return tw.Flush()
			}

			summary, err := client.Sweep(cmd.Context(), req)
			if err != nil {
				return err
			}

			rows := sweepRows(summary)
			if csvPath != "" {
				if err := writeSweepCSV(csvPath, rows); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "csv: %s\n", csvPath)
			}
			if reportDir != "" {
				name := reportName
				if name == "" {
					name = summary.SweepID
				}
				path, err := stats.WriteSweepReport(reportDir, stats.SweepReport{
					ReportName: name,
					Seed:       summary.Seed,
					Rows:       rows,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "report: %s\n", path)
			}
			fmt.Fprintf(a.out, "sweep_id=%s points=%d\n", summary.SweepID, len(summary.Points))
			return nil
		},
	}
	flags.register(cmd)
	fs := cmd.Flags()
	fs.IntVar(&from, "from", 0, "first track size")
	fs.IntVar(&to, "to", 0, "last track size")
	fs.IntVar(&step, "step", 0, "track size increment")
	fs.StringVar(&csvPath, "csv", "", "write the sweep table as CSV to this file")
	fs.StringVar(&reportDir, "report-dir", "", "write a JSON sweep report into this directory")
	fs.StringVar(&reportName, "report-name", "", "report file prefix (default: sweep id)")
	return cmd
}

func newRunsCmd(a *app) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored estimates, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("limit must be > 0")
			}
			client, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			records, err := client.Runs(cmd.Context(), foxhunt.RunsRequest{Limit: limit})
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(a, records)
			}
			if len(records) == 0 {
				fmt.Fprintln(a.out, "no runs found")
				return nil
			}
			for _, r := range records {
				created := r.CreatedAtUTC
				if ts, err := time.Parse(time.RFC3339, r.CreatedAtUTC); err == nil {
					created = humanize.Time(ts)
				}
				fmt.Fprintf(a.out, "id=%s created=%q n=%d farmer=%s fox=%s trials=%s mean=%.6f stderr=%.6f seed=%d sweep=%s\n",
					r.ID,
					created,
					r.TrackSize,
					r.Farmer,
					r.Fox,
					humanize.Comma(totalTrials(r.TrialsPerWorker, r.Workers)),
					r.Mean,
					r.StdErr,
					r.Seed,
					orNone(r.SweepID),
				)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max runs to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit runs as JSON")
	return cmd
}

func newPoliciesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List registered farmer and fox policies",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			policies := foxhunt.ListPolicies()
			for _, name := range policies.Farmers {
				fmt.Fprintf(a.out, "farmer\t%s\n", name)
			}
			for _, name := range policies.Foxes {
				fmt.Fprintf(a.out, "fox\t%s\n", name)
			}
			return nil
		},
	}
}

type estimateJSON struct {
	ID              string    `json:"id"`
	TrackSize       int       `json:"track_size"`
	Farmer          string    `json:"farmer"`
	Fox             string    `json:"fox"`
	TrialsPerWorker int       `json:"trials_per_worker"`
	Workers         int       `json:"workers"`
	StepCap         int       `json:"step_cap"`
	Seed            int64     `json:"seed"`
	Mean            float64   `json:"mean"`
	WorkerMeans     []float64 `json:"worker_means"`
	StdErr          float64   `json:"std_err"`
	MaxSteps        int       `json:"max_steps"`
	ElapsedMillis   int64     `json:"elapsed_ms"`
}

func estimateOutput(s foxhunt.EstimateSummary) estimateJSON {
	return estimateJSON{
		ID:              s.ID,
		TrackSize:       s.TrackSize,
		Farmer:          s.Farmer,
		Fox:             s.Fox,
		TrialsPerWorker: s.TrialsPerWorker,
		Workers:         s.Workers,
		StepCap:         s.StepCap,
		Seed:            s.Seed,
		Mean:            s.Mean,
		WorkerMeans:     s.WorkerMeans,
		StdErr:          s.Spread.StdErr,
		MaxSteps:        s.MaxSteps,
		ElapsedMillis:   s.Elapsed.Milliseconds(),
	}
}

func printEstimate(a *app, s foxhunt.EstimateSummary) {
	fmt.Fprintf(a.out, "id=%s n=%d farmer=%s fox=%s trials=%s workers=%d seed=%d\n",
		s.ID, s.TrackSize, s.Farmer, s.Fox,
		humanize.Comma(totalTrials(s.TrialsPerWorker, s.Workers)), s.Workers, s.Seed)
	fmt.Fprintf(a.out, "mean=%.6f stderr=%.6f max_steps=%d elapsed=%s\n",
		s.Mean, s.Spread.StdErr, s.MaxSteps, s.Elapsed.Round(time.Millisecond))
}

func sweepRows(summary foxhunt.SweepSummary) []stats.SweepRow {
	rows := make([]stats.SweepRow, 0, len(summary.Points))
	for _, p := range summary.Points {
		rows = append(rows, stats.SweepRow{
			TrackSize:       p.TrackSize,
			Farmer:          p.Farmer,
			Fox:             p.Fox,
			TrialsPerWorker: p.TrialsPerWorker,
			Workers:         p.Workers,
			Mean:            p.Mean,
			Spread:          p.Spread,
			MaxSteps:        p.MaxSteps,
		})
	}
	return rows
}

func writeSweepCSV(path string, rows []stats.SweepRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := stats.WriteSweepCSV(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(a *app, value any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func totalTrials(trialsPerWorker, workers int) int64 {
	return int64(trialsPerWorker) * int64(workers)
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
