package main

import (
	"context"
	"errors"
	"time"

	"github.com/danmuck/chainctl/internal/config"
	"github.com/danmuck/chainctl/internal/discovery"
	"github.com/danmuck/chainctl/internal/logging"
	"github.com/danmuck/chainctl/internal/observability"
	"github.com/danmuck/chainctl/internal/session"
	"github.com/danmuck/chainctl/internal/worker"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type options struct {
	configPath  string
	envFile     string
	scheduler   string
	workers     int
	id          string
	idle        time.Duration
	maxCycles   int
	metricsAddr string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "workerctl",
		Short: "Poll the scheduler for work units and compute their answers",
		Long: `workerctl runs one or more independent workers. Each worker connects to the
scheduler, takes one work unit, folds the unit's op chain over its item,
returns the answer and idles before the next unit. Workers stop when the
scheduler closes a request without sending work.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRun: func(cmd *cobra.Command, args []string) {
			logging.ConfigureRuntime()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "TOML config file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	flags.StringVar(&opts.scheduler, "scheduler", "", "static scheduler host:port (skips discovery)")
	flags.IntVarP(&opts.workers, "workers", "w", 1, "number of independent workers")
	flags.StringVar(&opts.id, "id", "", "worker id prefix (random when empty)")
	flags.DurationVar(&opts.idle, "idle", worker.DefaultIdleDelay, "delay between work units")
	flags.IntVar(&opts.maxCycles, "max-cycles", 0, "stop each worker after this many units (0 = until the scheduler closes)")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

// resolve layers file, dotenv, environment, then explicitly set flags.
func (o *options) resolve(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadEnvFile(o.envFile); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("scheduler") {
		cfg.Scheduler = o.scheduler
	}
	if flags.Changed("workers") {
		cfg.Worker.Count = o.workers
	}
	if flags.Changed("id") {
		cfg.Worker.ID = o.id
	}
	if flags.Changed("idle") {
		cfg.Worker.IdleDelay = o.idle
	}
	if flags.Changed("max-cycles") {
		cfg.Worker.MaxCycles = o.maxCycles
	}
	if flags.Changed("metrics-addr") {
		cfg.Worker.MetricsAddr = o.metricsAddr
	}
	return cfg, cfg.Validate()
}

// run treats a scheduler close, a transport fault, an unanswered discovery
// and cancellation as a normal stop.
func run(ctx context.Context, cfg config.Config) error {
	metricsCtx, stopMetrics := context.WithCancel(ctx)
	defer stopMetrics()

	var g errgroup.Group
	if cfg.Worker.MetricsAddr != "" {
		g.Go(func() error {
			return observability.ServeMetrics(metricsCtx, cfg.Worker.MetricsAddr)
		})
	}

	err := worker.RunPool(ctx, cfg.WorkerConfig(), cfg.Worker.Count)
	stopMetrics()
	if merr := g.Wait(); merr != nil {
		log.Warn().Err(merr).Msg("metrics server stopped")
	}

	var te *session.TransportError
	switch {
	case err == nil:
		log.Info().Int("workers", cfg.Worker.Count).Msg("workers finished")
		return nil
	case errors.As(err, &te):
		log.Warn().Err(err).Msg("scheduler connection lost, stopping")
		return nil
	case errors.Is(err, discovery.ErrDiscoveryTimeout):
		log.Warn().Err(err).Msg("no scheduler answered discovery, stopping")
		return nil
	case errors.Is(err, context.Canceled):
		log.Info().Msg("interrupted")
		return nil
	default:
		return err
	}
}
