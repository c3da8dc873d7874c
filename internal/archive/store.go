package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	uuid "github.com/nu7hatch/gouuid"
)

const queryTimeout = 3 * time.Second

// timeLayout has a fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrRunNotFound is returned when no run with the requested id exists.
var ErrRunNotFound = errors.New("archive: run not found")

// Run is one archived solver invocation.
type Run struct {
	ID         string
	Kind       string
	CreatedAt  time.Time
	Params     map[string]any
	Cost       []float64
	Iterations int
	Duration   time.Duration
	Note       string
}

// Series is a named signal stored alongside a run.
type Series struct {
	Name   string
	Values []float64
}

// Store is a SQLite-backed run archive.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the archive at path and applies pending
// migrations. Use "file:name?mode=memory&cache=shared" for an in-memory
// archive.
func Open(path string) (*Store, error) {
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, err
	}
	// WAL is unavailable for in-memory databases.
	_, _ = d.Exec(`PRAGMA journal_mode=WAL;`)
	if _, err := d.Exec(`PRAGMA busy_timeout=5000;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	if _, err := d.Exec(`PRAGMA foreign_keys=ON;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	if err := applyMigrations(d); err != nil {
		_ = d.Close()
		return nil, err
	}
	return &Store{db: d}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewID returns a fresh random run identifier.
func NewID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return id.String()
}

// SaveRun inserts run together with its series. Empty ID and zero CreatedAt
// are filled in and written back to run.
func (s *Store) SaveRun(ctx context.Context, run *Run, series ...Series) error {
	if run == nil {
		return errors.New("archive: nil run")
	}
	if run.ID == "" {
		run.ID = NewID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	params := run.Params
	if params == nil {
		params = map[string]any{}
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("archive: encode params: %w", err)
	}
	cost := run.Cost
	if cost == nil {
		cost = []float64{}
	}
	costJSON, err := json.Marshal(cost)
	if err != nil {
		return fmt.Errorf("archive: encode cost: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, kind, created_at, params, cost, iterations, duration_ms, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Kind, run.CreatedAt.UTC().Format(timeLayout),
		string(paramsJSON), string(costJSON), run.Iterations,
		run.Duration.Milliseconds(), run.Note,
	)
	if err != nil {
		return err
	}
	for _, sr := range series {
		values := sr.Values
		if values == nil {
			values = []float64{}
		}
		data, err := json.Marshal(values)
		if err != nil {
			return fmt.Errorf("archive: encode series %q: %w", sr.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO series (run_id, name, samples) VALUES (?, ?, ?)`,
			run.ID, sr.Name, string(data),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const runColumns = `id, kind, created_at, params, cost, iterations, duration_ms, note`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		r          Run
		created    string
		params     string
		cost       string
		durationMS int64
	)
	if err := row.Scan(&r.ID, &r.Kind, &created, &params, &cost, &r.Iterations, &durationMS, &r.Note); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("archive: run %s: bad created_at: %w", r.ID, err)
	}
	r.CreatedAt = t
	r.Duration = time.Duration(durationMS) * time.Millisecond
	if err := json.Unmarshal([]byte(params), &r.Params); err != nil {
		return nil, fmt.Errorf("archive: run %s: decode params: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(cost), &r.Cost); err != nil {
		return nil, fmt.Errorf("archive: run %s: decode cost: %w", r.ID, err)
	}
	return &r, nil
}

// GetRun fetches one run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return r, err
}

// ListRuns returns the newest runs first. limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Series returns the signals stored for run id, ordered by name.
func (s *Store) Series(ctx context.Context, id string) ([]Series, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, samples FROM series WHERE run_id = ? ORDER BY name`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Series
	for rows.Next() {
		var (
			sr   Series
			data string
		)
		if err := rows.Scan(&sr.Name, &data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &sr.Values); err != nil {
			return nil, fmt.Errorf("archive: series %q: %w", sr.Name, err)
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its series.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Foreign keys are enabled per connection, so series rows are removed
	// explicitly rather than relying on the cascade.
	if _, err := tx.ExecContext(ctx, `DELETE FROM series WHERE run_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return tx.Commit()
}
