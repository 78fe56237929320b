package main

import (
	"io"

	"github.com/danmuck/chainctl/internal/config"
	"github.com/danmuck/chainctl/internal/logging"
	"github.com/danmuck/chainctl/internal/submitter"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	envFile    string
	scheduler  string
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "submitctl",
		Short: "Submit operation-chain jobs to the scheduler and fetch their results",
		Long: `submitctl ships a job (operand list, op chain, iterations) to the scheduler,
queries a job's results by id, or asks the scheduler to shut down.

The scheduler is found by UDP broadcast unless --scheduler or the config
file names it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.ConfigureRuntime()
		},
	}
	cmd.SetOut(out)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "TOML config file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	flags.StringVar(&opts.scheduler, "scheduler", "", "static scheduler host:port (skips discovery)")

	cmd.AddCommand(
		newSubmitCmd(opts),
		newQueryCmd(opts),
		newShutdownCmd(opts),
	)
	return cmd
}

// client resolves file, dotenv, environment, then flags, in that order.
func (o *rootOptions) client() (*submitter.Client, error) {
	if err := config.LoadEnvFile(o.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	if o.scheduler != "" {
		cfg.Scheduler = o.scheduler
	}
	return submitter.New(cfg.SubmitterConfig())
}
