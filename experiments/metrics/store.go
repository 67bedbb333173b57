package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Run identifies one comparison in the store.
type Run struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Seed      int64     `db:"seed"`
	Games     int       `db:"games"`
	StartedAt time.Time `db:"started_at"`
}

// Summary aggregates a policy's players over a run.
type Summary struct {
	Policy    int     `db:"policy"`
	Name      string  `db:"name"`
	Players   int     `db:"players"`
	MeanKnown float64 `db:"mean_known"`
	MeanSum   float64 `db:"mean_sum"`
	Nods      int     `db:"nods"`
	Shakes    int     `db:"shakes"`
}

// Store keeps comparison results in SQLite.
type Store struct {
	conn *sqlx.DB
}

// OpenStore opens or creates the database at path, creating missing parent
// directories.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		seed INTEGER NOT NULL,
		games INTEGER NOT NULL,
		started_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS policies (
		run_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		model TEXT NOT NULL,
		move_probability REAL NOT NULL,
		temperature REAL NOT NULL,
		PRIMARY KEY (run_id, id)
	);

	CREATE TABLE IF NOT EXISTS games (
		run_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		players INTEGER NOT NULL,
		turns INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		talks INTEGER NOT NULL,
		listens INTEGER NOT NULL,
		moves INTEGER NOT NULL,
		failed_moves INTEGER NOT NULL,
		idle INTEGER NOT NULL,
		deliveries INTEGER NOT NULL,
		new_gossip INTEGER NOT NULL,
		PRIMARY KEY (run_id, id)
	);

	CREATE TABLE IF NOT EXISTS players (
		run_id TEXT NOT NULL,
		game INTEGER NOT NULL,
		player INTEGER NOT NULL,
		policy INTEGER NOT NULL,
		known INTEGER NOT NULL,
		sum INTEGER NOT NULL,
		nods INTEGER NOT NULL,
		shakes INTEGER NOT NULL,
		PRIMARY KEY (run_id, game, player)
	);

	CREATE INDEX IF NOT EXISTS idx_players_policy ON players(run_id, policy);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveRun writes a run and all its records in one transaction.
func (s *Store) SaveRun(run Run, configs []PolicyConfig, games []GameRecord, players []PlayerRecord) error {
	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExec(`INSERT INTO runs (id, name, seed, games, started_at)
		VALUES (:id, :name, :seed, :games, :started_at)`, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO policies
		(run_id, id, name, kind, model, move_probability, temperature)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, c := range configs {
		if _, err := stmt.Exec(run.ID, c.ID, c.Name, c.Kind, c.ModelPath, c.MoveProbability, c.Temperature); err != nil {
			return fmt.Errorf("save policy %d: %w", c.ID, err)
		}
	}

	gameStmt, err := tx.Preparex(`INSERT INTO games
		(run_id, id, seed, players, turns, duration_ms, talks, listens, moves,
		 failed_moves, idle, deliveries, new_gossip)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer gameStmt.Close()
	for _, g := range games {
		if _, err := gameStmt.Exec(run.ID, g.ID, int64(g.Seed), g.Players, g.Turns, g.Duration.Milliseconds(),
			g.Talks, g.Listens, g.Moves, g.FailedMoves, g.Idle, g.Deliveries, g.NewGossip); err != nil {
			return fmt.Errorf("save game %d: %w", g.ID, err)
		}
	}

	playerStmt, err := tx.Preparex(`INSERT INTO players
		(run_id, game, player, policy, known, sum, nods, shakes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer playerStmt.Close()
	for _, p := range players {
		if _, err := playerStmt.Exec(run.ID, p.Game, p.Player, p.Policy, p.Known, p.Sum, p.Nods, p.Shakes); err != nil {
			return fmt.Errorf("save game %d player %d: %w", p.Game, p.Player, err)
		}
	}

	return tx.Commit()
}

// Summaries aggregates a run's players per policy, ordered by policy id.
func (s *Store) Summaries(runID string) ([]Summary, error) {
	var summaries []Summary
	err := s.conn.Select(&summaries, `
		SELECT p.policy AS policy, c.name AS name, COUNT(*) AS players,
			AVG(p.known) AS mean_known, AVG(p.sum) AS mean_sum,
			SUM(p.nods) AS nods, SUM(p.shakes) AS shakes
		FROM players p JOIN policies c ON c.run_id = p.run_id AND c.id = p.policy
		WHERE p.run_id = ?
		GROUP BY p.policy, c.name
		ORDER BY p.policy`, runID)
	return summaries, err
}

// Runs lists stored runs, newest first.
func (s *Store) Runs() ([]Run, error) {
	var runs []Run
	err := s.conn.Select(&runs, "SELECT id, name, seed, games, started_at FROM runs ORDER BY started_at DESC")
	return runs, err
}
