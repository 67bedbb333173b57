// Package experiments compares decision policies by playing many local games
// in which the population is split between them.
package experiments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gossip/agent"
	"gossip/engine"
	"gossip/experiments/metrics"
	"gossip/meta"
	"gossip/policy"
	"gossip/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	KindHeuristic = "heuristic"
	KindRandom    = "random"
	KindLearned   = "learned"
)

var ErrNoPolicies = errors.New("comparison needs at least one policy")

// DefaultPolicies pits the heuristic against uniform random play.
func DefaultPolicies() []metrics.PolicyConfig {
	return []metrics.PolicyConfig{
		{ID: 0, Name: "heuristic", Kind: KindHeuristic, MoveProbability: policy.DefaultMoveProbability},
		{ID: 1, Name: "random", Kind: KindRandom},
	}
}

// Report is the outcome of a comparison.
type Report struct {
	RunID     string
	Dir       string // CSV output directory, empty when nothing was written
	Games     []metrics.GameRecord
	Players   []metrics.PlayerRecord
	Summaries []metrics.Summary
}

type contestant struct {
	config metrics.PolicyConfig
	model  *policy.Model
}

// RunComparison plays config.Experiment.Games games on a pool of workers.
// Player i of every game uses policies[i % len(policies)]. Results are
// written as CSV under the output directory and, when a database path is
// configured, to SQLite.
func RunComparison(ctx context.Context, name string, config meta.Config, policies []metrics.PolicyConfig) (*Report, error) {
	contestants, err := prepare(config, policies)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	started := time.Now().UTC()
	games := config.Experiment.Games
	log.Info().Msgf("starting %s comparison %s with %d games...", name, runID, games)

	gameRecords := make([]metrics.GameRecord, games)
	playerRecords := make([][]metrics.PlayerRecord, games)
	errs := make([]error, games)

	task := make(chan int, games)
	for i := 0; i < games; i++ {
		task <- i
	}
	close(task)

	var wg sync.WaitGroup
	for w := 0; w < config.Experiment.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range task {
				if ctx.Err() != nil {
					errs[i] = ctx.Err()
					continue
				}
				gameRecords[i], playerRecords[i], errs[i] = runGame(ctx, config, i, contestants)
				if errs[i] == nil {
					log.Info().Msgf("completed game %d of %d", i+1, games)
				}
			}
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("comparison %s: %w", name, err)
	}
	log.Info().Msgf("completed %s comparison", name)

	report := &Report{RunID: runID, Games: gameRecords}
	for _, records := range playerRecords {
		report.Players = append(report.Players, records...)
	}
	report.Summaries = Summarize(policies, report.Players)

	if config.Experiment.OutputDir != "" {
		writer, err := metrics.NewWriter(config.Experiment.OutputDir, name, runID)
		if err != nil {
			return nil, fmt.Errorf("failed to create experiment writer: %w", err)
		}
		if err := writer.WritePolicyConfigs(policies); err != nil {
			return nil, fmt.Errorf("failed to store policy configs: %w", err)
		}
		if err := writer.WriteGameRecords(report.Games); err != nil {
			return nil, fmt.Errorf("failed to write game records: %w", err)
		}
		if err := writer.WritePlayerRecords(report.Players); err != nil {
			return nil, fmt.Errorf("failed to write player records: %w", err)
		}
		report.Dir = writer.Dir()
		log.Info().Msgf("stored records in %s", report.Dir)
	}

	if config.Experiment.Database != "" {
		store, err := metrics.OpenStore(config.Experiment.Database)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		run := metrics.Run{ID: runID, Name: name, Seed: int64(config.Seed), Games: games, StartedAt: started}
		if err := store.SaveRun(run, policies, report.Games, report.Players); err != nil {
			return nil, fmt.Errorf("failed to store run: %w", err)
		}
		log.Info().Msgf("stored run %s in %s", runID, config.Experiment.Database)
	}

	return report, nil
}

// prepare validates the policies and loads learned models once per run.
func prepare(config meta.Config, policies []metrics.PolicyConfig) ([]contestant, error) {
	if len(policies) == 0 {
		return nil, ErrNoPolicies
	}
	contestants := make([]contestant, len(policies))
	seen := map[int]bool{}
	for i, p := range policies {
		if seen[p.ID] {
			return nil, fmt.Errorf("policy %s: duplicate id %d", p.Name, p.ID)
		}
		seen[p.ID] = true
		contestants[i].config = p
		switch p.Kind {
		case KindHeuristic, KindRandom:
		case KindLearned:
			model, err := policy.LoadModel(p.ModelPath)
			if err != nil {
				return nil, fmt.Errorf("policy %s: %w", p.Name, err)
			}
			if want := agent.Dim(config.MemoryCapacity); model.InputDim() != want {
				return nil, fmt.Errorf("policy %s: %w: model expects %d values, agents produce %d",
					p.Name, policy.ErrDimension, model.InputDim(), want)
			}
			contestants[i].model = model
		default:
			return nil, fmt.Errorf("policy %s: unknown kind %q", p.Name, p.Kind)
		}
	}
	return contestants, nil
}

// runGame plays one game; game seeds are derived from the run seed so a run
// is reproducible.
func runGame(ctx context.Context, config meta.Config, index int, contestants []contestant) (metrics.GameRecord, []metrics.PlayerRecord, error) {
	seed := config.Seed + uint64(index)
	rng := utils.NewRand(seed)
	logger := log.Logger.With().Int("game", index+1).Logger()

	// Distinct gossip values 1..players, dealt at random
	gossip := make([]int, config.Players)
	for i, v := range rng.Perm(config.Players) {
		gossip[i] = v + 1
	}

	players := make([]engine.Player, config.Players)
	for i := range players {
		c := contestants[i%len(contestants)]
		playerSeed := seed*uint64(config.Players) + uint64(i)
		players[i] = agent.NewAgent(i, gossip[i], createPolicy(config, c, playerSeed),
			agent.WithPlayers(config.Players),
			agent.WithMemory(config.MemoryCapacity),
			agent.WithNeighborRadius(config.NeighborRadius),
			agent.WithRand(utils.NewRand(playerSeed)),
			agent.WithLogger(logger),
		)
	}

	e := engine.LocalEngine(players, gossip,
		engine.WithTurns(config.Turns),
		engine.WithReach(config.HearingReach),
		engine.WithSeed(seed),
		engine.WithCollector(metrics.NewCollector()),
		engine.WithLogger(logger),
	)
	gameMetric, results, err := e.Run(ctx)
	if err != nil {
		return metrics.GameRecord{}, nil, fmt.Errorf("game %d: %w", index+1, err)
	}

	records := make([]metrics.PlayerRecord, len(results))
	for i, r := range results {
		records[i] = metrics.PlayerRecord{
			Game:         index + 1,
			Policy:       contestants[r.Player%len(contestants)].config.ID,
			PlayerMetric: r,
		}
	}
	return metrics.GameRecord{ID: index + 1, GameMetric: gameMetric}, records, nil
}

func createPolicy(config meta.Config, c contestant, seed uint64) policy.Policy {
	rng := utils.NewRand(seed ^ 0x9e3779b97f4a7c15)
	switch c.config.Kind {
	case KindRandom:
		return policy.NewRandom(rng)
	case KindLearned:
		options := []policy.Option{}
		if c.config.Temperature > 0 {
			options = append(options, policy.WithSampling(rng, c.config.Temperature))
		}
		return policy.NewLearned(c.model, options...)
	default:
		moveProb := c.config.MoveProbability
		if moveProb <= 0 {
			moveProb = policy.DefaultMoveProbability
		}
		// Gossip runs 1..players, so the schedule tops out at the population size.
		return policy.NewHeuristic(rng, moveProb, policy.WithSchedule(config.Turns, config.Players))
	}
}

// Summarize aggregates player records per policy, ordered by policy id.
func Summarize(policies []metrics.PolicyConfig, records []metrics.PlayerRecord) []metrics.Summary {
	byID := map[int]*metrics.Summary{}
	for _, p := range policies {
		byID[p.ID] = &metrics.Summary{Policy: p.ID, Name: p.Name}
	}
	for _, r := range records {
		s, ok := byID[r.Policy]
		if !ok {
			continue
		}
		s.Players++
		s.MeanKnown += float64(r.Known)
		s.MeanSum += float64(r.Sum)
		s.Nods += r.Nods
		s.Shakes += r.Shakes
	}

	summaries := make([]metrics.Summary, 0, len(byID))
	for _, s := range byID {
		if s.Players > 0 {
			s.MeanKnown /= float64(s.Players)
			s.MeanSum /= float64(s.Players)
		}
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Policy < summaries[j].Policy })
	return summaries
}

// LogSummaries prints one line per policy.
func LogSummaries(logger zerolog.Logger, summaries []metrics.Summary) {
	for _, s := range summaries {
		logger.Info().Msgf("policy %d (%s): %d players, mean known %.2f, mean sum %.1f, nods %d, shakes %d",
			s.Policy, s.Name, s.Players, s.MeanKnown, s.MeanSum, s.Nods, s.Shakes)
	}
}

// NewPolicy builds one policy outside a comparison, loading its model if it
// has one.
func NewPolicy(config meta.Config, p metrics.PolicyConfig, seed uint64) (policy.Policy, error) {
	contestants, err := prepare(config, []metrics.PolicyConfig{p})
	if err != nil {
		return nil, err
	}
	return createPolicy(config, contestants[0], seed), nil
}
