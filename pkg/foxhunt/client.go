package foxhunt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"foxhunt/internal/farmer"
	"foxhunt/internal/fox"
	"foxhunt/internal/model"
	"foxhunt/internal/platform"
	"foxhunt/internal/rng"
	"foxhunt/internal/storage"
)

const defaultDBPath = "foxhunt.db"

var requestValidate = validator.New()

type Options struct {
	StoreKind string
	DBPath    string
	Logger    *zap.Logger
	// Observer, when set, sees every worker batch of every estimate.
	Observer Observer
}

// Client runs named policy pairs and keeps a summary record of each run.
type Client struct {
	store    storage.Store
	logger   *zap.Logger
	observer Observer
}

type EstimateRequest struct {
	TrackSize       int    `validate:"min=2"`
	TrialsPerWorker int    `validate:"min=1"`
	Workers         int    `validate:"min=1"`
	Farmer          string `validate:"required"`
	Fox             string `validate:"required"`
	StepCap         int    `validate:"min=0"`
	Seed            int64
}

type EstimateSummary struct {
	ID      string
	SweepID string
	Farmer  string
	Fox     string
	Estimate
}

type SweepRequest struct {
	EstimateRequest
	From int
	To   int
	Step int
	// OnPoint sees each point after it is stored.
	OnPoint func(EstimateSummary) error
}

type SweepSummary struct {
	SweepID string
	Seed    int64
	Points  []EstimateSummary
}

type RunsRequest struct {
	Limit int
}

type PolicyList struct {
	Farmers []string
	Foxes   []string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{
		store:    store,
		logger:   logger,
		observer: opts.Observer,
	}, nil
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Estimate(ctx context.Context, req EstimateRequest) (EstimateSummary, error) {
	cfg, err := c.platformConfig(req)
	if err != nil {
		return EstimateSummary{}, err
	}
	est, err := platform.Aggregate(ctx, cfg)
	if err != nil {
		return EstimateSummary{}, err
	}
	return c.save(ctx, req, "", est)
}

// Sweep estimates every track size in [From, To]. Points finished before an
// error are stored and returned alongside it.
func (c *Client) Sweep(ctx context.Context, req SweepRequest) (SweepSummary, error) {
	base := req.EstimateRequest
	if base.TrackSize == 0 {
		base.TrackSize = req.From
	}
	cfg, err := c.platformConfig(base)
	if err != nil {
		return SweepSummary{}, err
	}

	summary := SweepSummary{SweepID: uuid.NewString(), Seed: cfg.Seed}
	_, err = platform.Sweep(ctx, platform.SweepConfig{
		From: req.From,
		To:   req.To,
		Step: req.Step,
		Base: cfg,
		OnPoint: func(est Estimate) error {
			point, err := c.save(ctx, base, summary.SweepID, est)
			if err != nil {
				return err
			}
			summary.Points = append(summary.Points, point)
			if req.OnPoint != nil {
				return req.OnPoint(point)
			}
			return nil
		},
	})
	if err != nil {
		return summary, err
	}
	c.logger.Info("sweep complete",
		zap.String("sweep_id", summary.SweepID),
		zap.Int("from", req.From),
		zap.Int("to", req.To),
		zap.Int("points", len(summary.Points)))
	return summary, nil
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]model.EstimateRecord, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	return c.store.ListEstimates(ctx, req.Limit)
}

func (c *Client) Run(ctx context.Context, id string) (model.EstimateRecord, bool, error) {
	return c.store.GetEstimate(ctx, id)
}

func (c *Client) Policies() PolicyList {
	return ListPolicies()
}

// ListPolicies returns the registered policy names, sorted.
func ListPolicies() PolicyList {
	return PolicyList{
		Farmers: farmer.List(),
		Foxes:   fox.List(),
	}
}

func (c *Client) platformConfig(req EstimateRequest) (platform.Config, error) {
	if err := requestValidate.Struct(req); err != nil {
		return platform.Config{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	farmerFactory, err := farmer.Get(req.Farmer)
	if err != nil {
		return platform.Config{}, err
	}
	foxFactory, err := fox.Get(req.Fox)
	if err != nil {
		return platform.Config{}, err
	}
	seed := req.Seed
	if seed == 0 {
		seed = rng.SeedFromClock()
	}
	return platform.Config{
		TrackSize:       req.TrackSize,
		TrialsPerWorker: req.TrialsPerWorker,
		Workers:         req.Workers,
		Farmer:          farmerFactory,
		Fox:             foxFactory,
		StepCap:         req.StepCap,
		Seed:            seed,
		Logger:          c.logger,
		Observer:        c.observer,
	}, nil
}

func (c *Client) save(ctx context.Context, req EstimateRequest, sweepID string, est Estimate) (EstimateSummary, error) {
	record := model.EstimateRecord{
		ID:              uuid.NewString(),
		SweepID:         sweepID,
		CreatedAtUTC:    time.Now().UTC().Format(time.RFC3339),
		TrackSize:       est.TrackSize,
		Farmer:          req.Farmer,
		Fox:             req.Fox,
		TrialsPerWorker: est.TrialsPerWorker,
		Workers:         est.Workers,
		StepCap:         est.StepCap,
		Seed:            est.Seed,
		Mean:            est.Mean,
		WorkerMeans:     est.WorkerMeans,
		StdErr:          est.Spread.StdErr,
		MaxSteps:        est.MaxSteps,
		ElapsedMillis:   est.Elapsed.Milliseconds(),
	}
	if err := c.store.SaveEstimate(ctx, record); err != nil {
		return EstimateSummary{}, fmt.Errorf("save estimate: %w", err)
	}
	return EstimateSummary{
		ID:       record.ID,
		SweepID:  sweepID,
		Farmer:   req.Farmer,
		Fox:      req.Fox,
		Estimate: est,
	}, nil
}

// IsCapExceeded reports whether err came from a trial that hit its step cap.
func IsCapExceeded(err error) bool {
	return errors.Is(err, ErrTrialCapExceeded)
}
