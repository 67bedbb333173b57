package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gossip/agent"
	"gossip/experiments/metrics"
	"gossip/meta"
	"gossip/policy"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func smallConfig(t *testing.T) meta.Config {
	c := meta.Default()
	c.Players = 20
	c.Turns = 8
	c.Experiment.Games = 3
	c.Experiment.Workers = 2
	c.Experiment.OutputDir = ""
	c.Experiment.Database = ""
	return c
}

// writeListenModel writes a model that always listens left and never moves
// the cursor.
func writeListenModel(t *testing.T, inputs int) string {
	t.Helper()
	weights := make([][]float32, int(policy.NumCodes)+policy.NumSwitches)
	for i := range weights {
		weights[i] = make([]float32, inputs)
	}
	bias := make([]float32, len(weights))
	bias[policy.ListenLeft] = 10
	bias[int(policy.NumCodes)+policy.SwitchStay] = 10

	model := policy.Model{Name: "listener", Layers: []policy.Layer{{Weights: weights, Bias: bias}}}
	data, err := yaml.Marshal(model)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "listener.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestRunComparison(t *testing.T) {
	t.Run("records every player of every game", func(t *testing.T) {
		dir := t.TempDir()
		config := smallConfig(t)
		config.Experiment.OutputDir = dir
		config.Experiment.Database = filepath.Join(dir, "results.db")

		report, err := RunComparison(context.Background(), "baseline", config, DefaultPolicies())
		require.NoError(t, err)
		require.NotEmpty(t, report.RunID)
		require.Len(t, report.Games, 3)
		require.Len(t, report.Players, 60)
		for i, g := range report.Games {
			require.Equal(t, i+1, g.ID)
			require.Equal(t, 8, g.Turns)
			require.Equal(t, 20*8, g.Talks+g.Listens+g.Moves+g.Idle, "Every player acts every turn")
		}

		require.Len(t, report.Summaries, 2)
		for _, s := range report.Summaries {
			require.Equal(t, 30, s.Players)
			require.GreaterOrEqual(t, s.MeanKnown, 1.0, "Everyone knows their own gossip")
		}

		for _, name := range []string{"policy_configs.csv", "game_records.csv", "player_records.csv"} {
			require.FileExists(t, filepath.Join(report.Dir, name))
		}
		require.Equal(t, filepath.Join(dir, "baseline", report.RunID), report.Dir)

		store, err := metrics.OpenStore(config.Experiment.Database)
		require.NoError(t, err)
		defer store.Close()
		stored, err := store.Summaries(report.RunID)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		for i, s := range stored {
			require.Equal(t, report.Summaries[i].Policy, s.Policy)
			require.Equal(t, report.Summaries[i].Name, s.Name)
			require.Equal(t, report.Summaries[i].Players, s.Players)
			require.InDelta(t, report.Summaries[i].MeanKnown, s.MeanKnown, 1e-9)
			require.InDelta(t, report.Summaries[i].MeanSum, s.MeanSum, 1e-9)
		}
	})

	t.Run("same seed replays the same games", func(t *testing.T) {
		config := smallConfig(t)
		first, err := RunComparison(context.Background(), "replay", config, DefaultPolicies())
		require.NoError(t, err)
		second, err := RunComparison(context.Background(), "replay", config, DefaultPolicies())
		require.NoError(t, err)

		require.NotEqual(t, first.RunID, second.RunID)
		require.Equal(t, first.Players, second.Players)
		require.Empty(t, first.Dir, "Nothing is written without an output directory")
	})

	t.Run("learned policy plays from a model file", func(t *testing.T) {
		config := smallConfig(t)
		config.MemoryCapacity = 0
		policies := []metrics.PolicyConfig{
			{ID: 3, Name: "heuristic", Kind: KindHeuristic},
			{ID: 7, Name: "listener", Kind: KindLearned, ModelPath: writeListenModel(t, agent.Dim(0))},
		}

		report, err := RunComparison(context.Background(), "learned", config, policies)
		require.NoError(t, err)
		require.Len(t, report.Summaries, 2)
		listener := report.Summaries[1]
		require.Equal(t, 7, listener.Policy)
		require.Zero(t, listener.Nods+listener.Shakes, "A listener never talks")
	})

	t.Run("invalid policies are rejected before playing", func(t *testing.T) {
		config := smallConfig(t)

		_, err := RunComparison(context.Background(), "none", config, nil)
		require.ErrorIs(t, err, ErrNoPolicies)

		_, err = RunComparison(context.Background(), "unknown", config, []metrics.PolicyConfig{{Name: "x", Kind: "oracle"}})
		require.Error(t, err)

		_, err = RunComparison(context.Background(), "duplicate", config, []metrics.PolicyConfig{
			{ID: 1, Name: "a", Kind: KindRandom}, {ID: 1, Name: "b", Kind: KindRandom},
		})
		require.Error(t, err)

		wrongDim := []metrics.PolicyConfig{{Name: "small", Kind: KindLearned, ModelPath: writeListenModel(t, 3)}}
		_, err = RunComparison(context.Background(), "dim", config, wrongDim)
		require.ErrorIs(t, err, policy.ErrDimension)
	})

	t.Run("cancelled context aborts the run", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := RunComparison(ctx, "cancelled", smallConfig(t), DefaultPolicies())
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSummarize(t *testing.T) {
	policies := []metrics.PolicyConfig{{ID: 2, Name: "b"}, {ID: 1, Name: "a"}}
	records := []metrics.PlayerRecord{
		{Policy: 1, PlayerMetric: metrics.PlayerMetric{Known: 2, Sum: 10, Nods: 1}},
		{Policy: 1, PlayerMetric: metrics.PlayerMetric{Known: 4, Sum: 30, Shakes: 2}},
		{Policy: 2, PlayerMetric: metrics.PlayerMetric{Known: 1, Sum: 5}},
		{Policy: 9, PlayerMetric: metrics.PlayerMetric{Known: 100}},
	}

	summaries := Summarize(policies, records)
	require.Equal(t, []metrics.Summary{
		{Policy: 1, Name: "a", Players: 2, MeanKnown: 3, MeanSum: 20, Nods: 1, Shakes: 2},
		{Policy: 2, Name: "b", Players: 1, MeanKnown: 1, MeanSum: 5},
	}, summaries, "Unknown policies are ignored and output is ordered by id")
}
