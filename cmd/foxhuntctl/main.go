package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"foxhunt/internal/config"
	"foxhunt/internal/logging"
	"foxhunt/internal/telemetry"
	"foxhunt/pkg/foxhunt"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	a := &app{out: out}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	err := root.ExecuteContext(ctx)
	// post-run hooks are skipped when a command fails
	if terr := a.teardown(ctx); err == nil {
		err = terr
	}
	return err
}

// app carries state shared by every subcommand of one invocation.
type app struct {
	out io.Writer

	configPath  string
	logLevel    string
	logFormat   string
	storeKind   string
	dbPath      string
	metricsAddr string

	cfg     *config.Config
	logger  *zap.Logger
	metrics *telemetry.Metrics
	server  *metricsServer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "foxhuntctl",
		Short: "Estimate fox capture times on a linear track",
		Long: `foxhuntctl runs many randomized fox-and-farmer pursuits in parallel and
reports the mean number of steps the farmer needs to find the fox.

Settings come from defaults, then --config, then FOXHUNT_* variables, then flags.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: json or console")
	pf.StringVar(&a.storeKind, "store", "", "store backend: memory or sqlite")
	pf.StringVar(&a.dbPath, "db-path", "", "sqlite database path")
	pf.StringVar(&a.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")

	root.AddCommand(
		newEstimateCmd(a),
		newSweepCmd(a),
		newRunsCmd(a),
		newPoliciesCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	if flags.Changed("store") {
		cfg.Store.Kind = a.storeKind
	}
	if flags.Changed("db-path") {
		cfg.Store.Path = a.dbPath
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = a.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	if cfg.Metrics.Addr != "" {
		a.metrics = telemetry.New()
		server, err := startMetricsServer(cfg.Metrics.Addr, a.metrics, logger)
		if err != nil {
			return err
		}
		a.server = server
	}
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	var err error
	if a.server != nil {
		err = a.server.Shutdown(ctx)
		a.server = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

// client opens the configured store. Callers close it.
func (a *app) client(ctx context.Context) (*foxhunt.Client, error) {
	opts := foxhunt.Options{
		StoreKind: a.cfg.Store.Kind,
		DBPath:    a.cfg.Store.Path,
		Logger:    a.logger,
	}
	if a.metrics != nil {
		opts.Observer = a.metrics
	}
	c, err := foxhunt.New(opts)
	if err != nil {
		return nil, err
	}
	if err := c.Init(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}
