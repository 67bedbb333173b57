package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"gossip/meta"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	logLevel   string
	seed       uint64
	config     meta.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "gossip",
		Short:         "Wedding gossip agents: play local games and compare policies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (defaults are used when empty)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")
	cmd.PersistentFlags().Uint64Var(&opts.seed, "seed", 0, "override the configured seed")

	cmd.AddCommand(playCmd(opts))
	cmd.AddCommand(compareCmd(opts))
	cmd.AddCommand(runsCmd(opts))
	cmd.AddCommand(serveCmd(opts))
	cmd.AddCommand(configCmd(opts))
	return cmd
}

// load reads the config, applies flag overrides and sets up logging.
func (o *options) load(cmd *cobra.Command) error {
	o.config = meta.Default()
	if o.configPath != "" {
		config, err := meta.Load(o.configPath)
		if err != nil {
			return err
		}
		o.config = config
	}
	if o.logLevel != "" {
		o.config.LogLevel = o.logLevel
	}
	if cmd.Flags().Changed("seed") {
		o.config.Seed = o.seed
	}
	if err := o.config.Validate(); err != nil {
		return err
	}

	zerolog.SetGlobalLevel(o.config.Level())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	return nil
}
