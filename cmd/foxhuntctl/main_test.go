package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"foxhunt/internal/stats"
	"foxhunt/internal/telemetry"
	"foxhunt/pkg/foxhunt"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	base := []string{"--store", "memory", "--log-level", "error"}
	err := run(context.Background(), append(args, base...), &out)
	return out.String(), err
}

func TestPoliciesCommand(t *testing.T) {
	out, err := runCLI(t, "policies")
	if err != nil {
		t.Fatalf("policies: %v", err)
	}
	for _, want := range []string{"farmer\tsweep", "farmer\trandom", "farmer\tascending", "fox\tadjacent", "fox\tadjacent-stay"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestEstimateCommandJSON(t *testing.T) {
	out, err := runCLI(t, "estimate", "-n", "6", "--trials", "40", "--workers", "2", "--seed", "5", "--json")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	var got estimateJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode estimate output: %v\n%s", err, out)
	}
	if got.TrackSize != 6 || got.Workers != 2 || got.TrialsPerWorker != 40 || got.Seed != 5 {
		t.Fatalf("unexpected estimate: %+v", got)
	}
	if got.Farmer != "sweep" || got.Fox != "adjacent" {
		t.Fatalf("expected default policies, got farmer=%s fox=%s", got.Farmer, got.Fox)
	}
	if got.Mean < 1 || got.Mean > float64(2*6-4) || got.MaxSteps > 2*6-4 {
		t.Fatalf("sweep estimate out of bound: %+v", got)
	}
	if len(got.WorkerMeans) != 2 || got.ID == "" {
		t.Fatalf("unexpected estimate record fields: %+v", got)
	}
}

func TestEstimateCommandText(t *testing.T) {
	out, err := runCLI(t, "estimate", "-n", "4", "--trials", "1000", "--workers", "2", "--farmer", "random", "--seed", "9")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if !strings.Contains(out, "trials=2,000") || !strings.Contains(out, "farmer=random") {
		t.Fatalf("unexpected estimate output:\n%s", out)
	}
}

func TestEstimateCommandUsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foxhunt.yaml")
	content := "track_size: 8\ntrials_per_worker: 10\nworkers: 1\nfox: adjacent-stay\nseed: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runCLI(t, "estimate", "--config", path, "--json")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	var got estimateJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode estimate output: %v", err)
	}
	if got.TrackSize != 8 || got.Fox != "adjacent-stay" || got.Workers != 1 || got.Seed != 3 {
		t.Fatalf("config file not applied: %+v", got)
	}
}

func TestEstimateCommandErrors(t *testing.T) {
	if _, err := runCLI(t, "estimate", "--farmer", "oracle", "--trials", "1"); err == nil {
		t.Fatal("expected unknown farmer error")
	}
	if _, err := runCLI(t, "estimate", "-n", "1", "--trials", "1"); err == nil {
		t.Fatal("expected invalid track size error")
	}
	if err := run(context.Background(), []string{"policies", "--log-level", "shouty"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected invalid log level error")
	}
}

func TestSweepCommandWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "sweep.csv")
	reportDir := filepath.Join(dir, "reports")

	out, err := runCLI(t, "sweep",
		"--from", "3", "--to", "5",
		"--trials", "20", "--workers", "2", "--seed", "11",
		"--csv", csvPath,
		"--report-dir", reportDir,
		"--report-name", "small",
	)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if !strings.Contains(out, "points=3") {
		t.Fatalf("unexpected sweep output:\n%s", out)
	}

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 || !strings.HasPrefix(lines[0], "track_size,") || !strings.HasPrefix(lines[1], "3,sweep,adjacent,") {
		t.Fatalf("unexpected csv:\n%s", data)
	}

	report, err := stats.ReadSweepReport(filepath.Join(reportDir, "small_Sweep.json"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if len(report.Rows) != 3 || report.Seed != 11 || report.Rows[2].TrackSize != 5 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestRunsCommandEmptyMemoryStore(t *testing.T) {
	out, err := runCLI(t, "runs")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if !strings.Contains(out, "no runs found") {
		t.Fatalf("unexpected runs output:\n%s", out)
	}
	if _, err := runCLI(t, "runs", "--limit", "0"); err == nil {
		t.Fatal("expected limit error")
	}
}

func TestEstimateCommandWithMetricsAddr(t *testing.T) {
	out, err := runCLI(t, "estimate", "-n", "5", "--trials", "10", "--workers", "2", "--seed", "1", "--metrics-addr", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("estimate with metrics: %v", err)
	}
	if !strings.Contains(out, "mean=") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestMetricsServerExposesRunMetrics(t *testing.T) {
	metrics := telemetry.New()
	server, err := startMetricsServer("127.0.0.1:0", metrics, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("start metrics server: %v", err)
	}
	t.Cleanup(func() {
		_ = server.Shutdown(context.Background())
	})

	client, err := foxhunt.New(foxhunt.Options{StoreKind: "memory", Observer: metrics})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()
	if err := client.Init(context.Background()); err != nil {
		t.Fatalf("init client: %v", err)
	}
	if _, err := client.Estimate(context.Background(), foxhunt.EstimateRequest{
		TrackSize:       5,
		TrialsPerWorker: 10,
		Workers:         2,
		Farmer:          "sweep",
		Fox:             "adjacent",
		Seed:            1,
	}); err != nil {
		t.Fatalf("estimate: %v", err)
	}

	resp, err := http.Get("http://" + server.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("scrape metrics: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	for _, want := range []string{"foxhunt_trials_total 20", `foxhunt_batches_total{outcome="ok"} 2`} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("expected %q in metrics:\n%s", want, body)
		}
	}
}

func TestTotalTrialsWidensBeforeMultiplying(t *testing.T) {
	if got, want := totalTrials(math.MaxInt32, 4), int64(math.MaxInt32)*4; got != want {
		t.Fatalf("unexpected total: got=%d want=%d", got, want)
	}
}
