package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// PolicyConfig describes one contestant of a comparison.
type PolicyConfig struct {
	ID              int     `yaml:"id"`
	Name            string  `yaml:"name"`
	Kind            string  `yaml:"kind"` // heuristic, random or learned
	ModelPath       string  `yaml:"model"`
	MoveProbability float64 `yaml:"move_probability"` // Zero uses the heuristic default
	Temperature     float64 `yaml:"temperature"`      // Zero plays the argmax
}

type GameRecord struct {
	ID int
	GameMetric
}

type PlayerRecord struct {
	Game   int // GameRecord.ID
	Policy int // PolicyConfig.ID
	PlayerMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates <outputDir>/<name>/<runID> for the run's files.
func NewWriter(outputDir, name, runID string) (*Writer, error) {
	baseDir := filepath.Join(outputDir, name, runID)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WritePolicyConfigs(configs []PolicyConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Name,
			config.Kind,
			config.ModelPath,
			strconv.FormatFloat(config.MoveProbability, 'f', -1, 64),
			strconv.FormatFloat(config.Temperature, 'f', -1, 64),
		})
	}
	header := []string{"id", "name", "kind", "model", "move_probability", "temperature"}
	return w.write("policy_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.FormatUint(record.Seed, 10),
			strconv.Itoa(record.Players),
			strconv.Itoa(record.Turns),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.Talks),
			strconv.Itoa(record.Listens),
			strconv.Itoa(record.Moves),
			strconv.Itoa(record.FailedMoves),
			strconv.Itoa(record.Idle),
			strconv.Itoa(record.Deliveries),
			strconv.Itoa(record.NewGossip),
		})
	}
	header := []string{"id", "seed", "players", "turns", "start_time", "end_time", "duration",
		"talks", "listens", "moves", "failed_moves", "idle", "deliveries", "new_gossip"}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WritePlayerRecords(records []PlayerRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Player),
			strconv.Itoa(record.Policy),
			strconv.Itoa(record.Known),
			strconv.Itoa(record.Sum),
			strconv.Itoa(record.Nods),
			strconv.Itoa(record.Shakes),
		})
	}
	header := []string{"game", "player", "policy", "known", "sum", "nods", "shakes"}
	return w.write("player_records.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}
