package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/separk-1/mdp-intervention/sim"
	"github.com/separk-1/mdp-intervention/sim/voi"
)

// Supported database/sql drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Store persists evaluations to SQLite or Postgres through database/sql.
// One evaluation row owns its policy summaries and raw run records.
type Store struct {
	db     *sql.DB
	driver string
}

// Evaluation identifies what produced a stored report.
type Evaluation struct {
	Label  string
	Budget float64
	Config sim.SimConfig
}

// OpenStore opens (and migrates) a results store. For SQLite, dsn is a file
// path whose parent directory is created if needed.
func OpenStore(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = "results.db"
		}
		if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres store requires a DSN")
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q; valid: %s, %s", driver, DriverSQLite, DriverPostgres)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	s := &Store{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == DriverPostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS evaluations (
			` + idColumn + `,
			label TEXT NOT NULL,
			created_at TEXT NOT NULL,
			budget DOUBLE PRECISION NOT NULL,
			num_runs INTEGER NOT NULL,
			max_steps INTEGER NOT NULL,
			seed BIGINT NOT NULL,
			baseline_policy_id INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS policy_summaries (
			evaluation_id BIGINT NOT NULL,
			policy_id INTEGER NOT NULL,
			policy_key TEXT NOT NULL,
			intervene_states TEXT NOT NULL,
			intervention_cost DOUBLE PRECISION NOT NULL,
			avg_total_cost DOUBLE PRECISION NOT NULL,
			std_err DOUBLE PRECISION NOT NULL,
			voi DOUBLE PRECISION NOT NULL,
			voi_per_cost DOUBLE PRECISION NOT NULL,
			terminal_rate DOUBLE PRECISION NOT NULL,
			final_states TEXT NOT NULL,
			PRIMARY KEY (evaluation_id, policy_id)
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			evaluation_id BIGINT NOT NULL,
			policy_id INTEGER NOT NULL,
			run INTEGER NOT NULL,
			final_state TEXT NOT NULL,
			total_cost DOUBLE PRECISION NOT NULL,
			steps INTEGER NOT NULL,
			terminated INTEGER NOT NULL,
			PRIMARY KEY (evaluation_id, policy_id, run)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s store: %w", s.driver, err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SaveEvaluation stores a report and, when batches is non-nil, every run
// record, in one transaction. batches[i] must belong to the row with
// PolicyID i. It returns the new evaluation id.
func (s *Store) SaveEvaluation(ctx context.Context, ev Evaluation, r *voi.Report, batches []*sim.Batch) (id int64, retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, s.rebind(`INSERT INTO evaluations
		(label, created_at, budget, num_runs, max_steps, seed, baseline_policy_id)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		ev.Label, time.Now().UTC().Format(time.RFC3339), ev.Budget,
		ev.Config.NumRuns, ev.Config.MaxSteps, ev.Config.Seed, r.Baseline.PolicyID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert evaluation: %w", err)
	}

	summaryStmt, err := tx.PrepareContext(ctx, s.rebind(`INSERT INTO policy_summaries
		(evaluation_id, policy_id, policy_key, intervene_states, intervention_cost, avg_total_cost,
		 std_err, voi, voi_per_cost, terminal_rate, final_states)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return 0, fmt.Errorf("prepare summaries: %w", err)
	}
	defer func() { _ = summaryStmt.Close() }()
	for _, row := range r.Rows {
		states, err := json.Marshal(row.IntervenedStates)
		if err != nil {
			return 0, fmt.Errorf("encode intervene states: %w", err)
		}
		finals, err := json.Marshal(row.FinalStates)
		if err != nil {
			return 0, fmt.Errorf("encode final states: %w", err)
		}
		if _, err := summaryStmt.ExecContext(ctx, id, row.PolicyID, row.PolicyKey, string(states),
			row.InterventionCost, row.AvgTotalCost, row.StdErr, row.VoI, row.VoIPerCost,
			row.TerminalRate, string(finals)); err != nil {
			return 0, fmt.Errorf("insert summary %d: %w", row.PolicyID, err)
		}
	}

	if len(batches) > 0 {
		runStmt, err := tx.PrepareContext(ctx, s.rebind(`INSERT INTO runs
			(evaluation_id, policy_id, run, final_state, total_cost, steps, terminated)
			VALUES (?, ?, ?, ?, ?, ?, ?)`))
		if err != nil {
			return 0, fmt.Errorf("prepare runs: %w", err)
		}
		defer func() { _ = runStmt.Close() }()
		for policyID, b := range batches {
			for _, rec := range b.Records {
				terminated := 0
				if rec.Terminated {
					terminated = 1
				}
				if _, err := runStmt.ExecContext(ctx, id, policyID, rec.RunIndex, rec.FinalState,
					rec.TotalCost, rec.Steps, terminated); err != nil {
					return 0, fmt.Errorf("insert run %d/%d: %w", policyID, rec.RunIndex, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// StoredSummary is a policy summary row read back from the store.
type StoredSummary struct {
	PolicyID         int
	PolicyKey        string
	IntervenedStates []string
	InterventionCost float64
	AvgTotalCost     float64
	VoI              float64
	VoIPerCost       float64
}

// LoadSummaries returns the summaries of one evaluation ordered by policy id.
func (s *Store) LoadSummaries(ctx context.Context, evaluationID int64) ([]StoredSummary, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT policy_id, policy_key, intervene_states,
		intervention_cost, avg_total_cost, voi, voi_per_cost
		FROM policy_summaries WHERE evaluation_id = ? ORDER BY policy_id`), evaluationID)
	if err != nil {
		return nil, fmt.Errorf("select summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []StoredSummary
	for rows.Next() {
		var ss StoredSummary
		var states string
		if err := rows.Scan(&ss.PolicyID, &ss.PolicyKey, &states, &ss.InterventionCost,
			&ss.AvgTotalCost, &ss.VoI, &ss.VoIPerCost); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if err := json.Unmarshal([]byte(states), &ss.IntervenedStates); err != nil {
			return nil, fmt.Errorf("decode intervene states: %w", err)
		}
		out = append(out, ss)
	}
	return out, rows.Err()
}

// CountRuns returns how many run records an evaluation stored.
func (s *Store) CountRuns(ctx context.Context, evaluationID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM runs WHERE evaluation_id = ?`), evaluationID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}
