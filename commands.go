package main

import (
	"fmt"
	"os"
	"sort"

	"gossip/agent"
	"gossip/communication/server"
	"gossip/experiments"
	"gossip/experiments/metrics"
	"gossip/utils"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func playCmd(opts *options) *cobra.Command {
	var (
		kind        string
		model       string
		temperature float64
		top         int
		out         string
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one local game with every player on the same policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := opts.config
			config.Experiment.Games = 1
			config.Experiment.Workers = 1
			config.Experiment.OutputDir = out
			config.Experiment.Database = ""

			report, err := experiments.RunComparison(cmd.Context(), "play", config, experiments.SinglePolicy(kind, model, temperature))
			if err != nil {
				return err
			}

			g := report.Games[0]
			log.Info().Msgf("%d turns in %s: %d talks, %d listens, %d moves (%d failed), %d new gossip heard",
				g.Turns, g.Duration, g.Talks, g.Listens, g.Moves, g.FailedMoves, g.NewGossip)

			players := report.Players
			sort.Slice(players, func(i, j int) bool { return players[i].Sum > players[j].Sum })
			for _, p := range players[:utils.Clamp(top, 0, len(players))] {
				log.Info().Msgf("player %d knows %d gossip worth %d", p.Player, p.Known, p.Sum)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "policy", experiments.KindHeuristic, "heuristic, random or learned")
	cmd.Flags().StringVar(&model, "model", "", "model file for the learned policy")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "sample the learned policy at this temperature (0 plays the argmax)")
	cmd.Flags().IntVar(&top, "top", 5, "number of best players to report")
	cmd.Flags().StringVar(&out, "out", "", "write CSV records to this directory")
	return cmd
}

func compareCmd(opts *options) *cobra.Command {
	var (
		policiesPath string
		name         string
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare policies over many games",
		RunE: func(cmd *cobra.Command, args []string) error {
			policies := experiments.DefaultPolicies()
			if policiesPath != "" {
				var err error
				if policies, err = experiments.LoadPolicies(policiesPath); err != nil {
					return err
				}
			}

			config := opts.config
			flags := cmd.Flags()
			if flags.Changed("games") {
				config.Experiment.Games, _ = flags.GetInt("games")
			}
			if flags.Changed("workers") {
				config.Experiment.Workers, _ = flags.GetInt("workers")
			}
			if flags.Changed("db") {
				config.Experiment.Database, _ = flags.GetString("db")
			}
			if err := config.Validate(); err != nil {
				return err
			}

			report, err := experiments.RunComparison(cmd.Context(), name, config, policies)
			if err != nil {
				return err
			}
			experiments.LogSummaries(log.Logger, report.Summaries)
			return nil
		},
	}
	cmd.Flags().StringVarP(&policiesPath, "policies", "p", "", "YAML file listing the policies to compare")
	cmd.Flags().StringVar(&name, "name", "compare", "experiment name used for the output directory")
	cmd.Flags().Int("games", 0, "override the configured number of games")
	cmd.Flags().Int("workers", 0, "override the configured number of workers")
	cmd.Flags().String("db", "", "override the configured SQLite path (empty disables it)")
	return cmd
}

func runsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List stored comparisons and their per-policy results",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.config.Experiment.Database == "" {
				return fmt.Errorf("no database configured")
			}
			store, err := metrics.OpenStore(opts.config.Experiment.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Runs()
			if err != nil {
				return err
			}
			for _, run := range runs {
				log.Info().Msgf("run %s %q: %d games, seed %d, started %s", run.ID, run.Name, run.Games, run.Seed, run.StartedAt.Format("2006-01-02 15:04"))
				summaries, err := store.Summaries(run.ID)
				if err != nil {
					return err
				}
				experiments.LogSummaries(log.Logger, summaries)
			}
			return nil
		},
	}
}

func configCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and validate configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := opts.config.YAML()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Loading already validated it
			log.Info().Msg("config is valid")
			return nil
		},
	})
	return cmd
}

func serveCmd(opts *options) *cobra.Command {
	var (
		addr        string
		id          int
		gossip      int
		kind        string
		model       string
		temperature float64
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host one agent over HTTP for a remote engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := opts.config
			p, err := experiments.NewPolicy(config, metrics.PolicyConfig{Name: kind, Kind: kind, ModelPath: model, Temperature: temperature}, config.Seed)
			if err != nil {
				return err
			}
			if id < 0 || id >= config.Players {
				return fmt.Errorf("player id %d outside population of %d", id, config.Players)
			}

			a := agent.NewAgent(id, gossip, p,
				agent.WithPlayers(config.Players),
				agent.WithMemory(config.MemoryCapacity),
				agent.WithNeighborRadius(config.NeighborRadius),
				agent.WithRand(utils.NewRand(config.Seed)),
			)
			return server.NewServer(a, log.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&id, "id", 0, "player id")
	cmd.Flags().IntVar(&gossip, "gossip", 1, "the player's own gossip value")
	cmd.Flags().StringVar(&kind, "policy", experiments.KindHeuristic, "heuristic, random or learned")
	cmd.Flags().StringVar(&model, "model", "", "model file for the learned policy")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "sample the learned policy at this temperature")
	return cmd
}
