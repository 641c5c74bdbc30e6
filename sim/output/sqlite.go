package output

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/polymorph-sim/polymorph-sim/sim"
)

// RunRow is one run in the history database.
type RunRow struct {
	ID              string `db:"id"`
	Seed            int64  `db:"seed"`
	Replicate       int    `db:"replicate"`
	StartedAt       string `db:"started_at"`
	Reason          string `db:"reason"`
	FinalGeneration int    `db:"final_generation"`
}

// StageRow is one stage observation of a run.
type StageRow struct {
	RunID      string  `db:"run_id"`
	Generation int     `db:"generation"`
	Stage      string  `db:"stage"`
	Population int     `db:"population"`
	CountAA    int     `db:"count_aa"`
	CountAB    int     `db:"count_ab"`
	CountBB    int     `db:"count_bb"`
	PAA        float64 `db:"p_aa"`
	PAB        float64 `db:"p_ab"`
	PBB        float64 `db:"p_bb"`
}

// runningReason marks a run whose outcome has not been recorded yet.
const runningReason = "running"

// startedAtLayout is fixed-width so that text order is time order.
const startedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// now is the clock behind started_at.
var now = time.Now

// History is a SQLite-backed store of runs and their stage observations.
type History struct {
	db *sqlx.DB
}

// OpenHistory opens or creates the SQLite database at path.
func OpenHistory(path string) (*History, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// A single connection keeps writes strictly ordered.
	db.SetMaxOpenConns(1)

	h := &History{db: db}
	if err := h.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return h, nil
}

// Close closes the database connection.
func (h *History) Close() error {
	return h.db.Close()
}

func (h *History) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		replicate INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT 'running',
		final_generation INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS stages (
		run_id TEXT NOT NULL REFERENCES runs(id),
		generation INTEGER NOT NULL,
		stage TEXT NOT NULL,
		population INTEGER NOT NULL,
		count_aa INTEGER NOT NULL,
		count_ab INTEGER NOT NULL,
		count_bb INTEGER NOT NULL,
		p_aa REAL NOT NULL,
		p_ab REAL NOT NULL,
		p_bb REAL NOT NULL,
		PRIMARY KEY (run_id, generation, stage)
	);`
	_, err := h.db.Exec(schema)
	return err
}

// NewRun registers a run and returns the reporter that records into it.
func (h *History) NewRun(key sim.SimulationKey, replicate int) (*HistoryReporter, error) {
	run := RunRow{
		ID:        uuid.New().String(),
		Seed:      int64(key),
		Replicate: replicate,
		StartedAt: now().UTC().Format(startedAtLayout),
		Reason:    runningReason,
	}
	_, err := h.db.NamedExec(`
		INSERT INTO runs (id, seed, replicate, started_at, reason, final_generation)
		VALUES (:id, :seed, :replicate, :started_at, :reason, :final_generation)`, run)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &HistoryReporter{history: h, runID: run.ID}, nil
}

// Runs lists all recorded runs in start order.
func (h *History) Runs() ([]RunRow, error) {
	var runs []RunRow
	if err := h.db.Select(&runs, `SELECT * FROM runs ORDER BY started_at, rowid`); err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	return runs, nil
}

// Stages lists the stage observations of one run in generation order.
func (h *History) Stages(runID string) ([]StageRow, error) {
	var stages []StageRow
	err := h.db.Select(&stages, `
		SELECT * FROM stages WHERE run_id = ?
		ORDER BY generation, CASE stage WHEN 'egg' THEN 0 ELSE 1 END`, runID)
	if err != nil {
		return nil, fmt.Errorf("select stages: %w", err)
	}
	return stages, nil
}

// HistoryReporter records one run's stages and outcome.
type HistoryReporter struct {
	history *History
	runID   string
}

// RunID returns the UUID of the recorded run.
func (r *HistoryReporter) RunID() string {
	return r.runID
}

func (r *HistoryReporter) ReportStage(rep sim.StageReport) error {
	row := StageRow{
		RunID:      r.runID,
		Generation: rep.Generation,
		Stage:      rep.Stage.String(),
		Population: rep.PopulationSize,
		CountAA:    rep.Counts[sim.AA],
		CountAB:    rep.Counts[sim.AB],
		CountBB:    rep.Counts[sim.BB],
		PAA:        rep.Proportions.AA,
		PAB:        rep.Proportions.AB,
		PBB:        rep.Proportions.BB,
	}
	_, err := r.history.db.NamedExec(`
		INSERT INTO stages (run_id, generation, stage, population, count_aa, count_ab, count_bb, p_aa, p_ab, p_bb)
		VALUES (:run_id, :generation, :stage, :population, :count_aa, :count_ab, :count_bb, :p_aa, :p_ab, :p_bb)`, row)
	if err != nil {
		return fmt.Errorf("insert stage: %w", err)
	}
	return nil
}

func (r *HistoryReporter) ReportOutcome(o sim.Outcome) error {
	_, err := r.history.db.Exec(`UPDATE runs SET reason = ?, final_generation = ? WHERE id = ?`,
		string(o.Reason), o.Generation, r.runID)
	if err != nil {
		return fmt.Errorf("update run outcome: %w", err)
	}
	return nil
}
