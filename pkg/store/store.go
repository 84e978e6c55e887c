// Package store persists design results and cached irradiance series. The
// engine writes results here for external consumers and never reads them
// back.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"k8s.io/klog/v2"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store wraps a sqlx handle for either supported driver.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open connects to the database and applies the schema.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s store: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One connection keeps in-memory databases alive and serializes writers.
		db.SetMaxOpenConns(1)
	}
	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	klog.V(2).InfoS("Opened result store", "driver", driver)
	return s, nil
}

// New wraps an existing connection. Call Migrate before use.
func New(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS design_results (
	id         VARCHAR(36) PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	name       TEXT NOT NULL,
	payload    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_design_results_created_at ON design_results(created_at);
CREATE TABLE IF NOT EXISTS irradiance_cache (
	cache_key  TEXT PRIMARY KEY,
	fetched_at TIMESTAMP NOT NULL,
	monthly    TEXT NOT NULL
);`

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrating store schema: %w", err)
	}
	return nil
}

// Record is a persisted design result.
type Record struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

type resultRow struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	Name      string    `db:"name"`
	Payload   string    `db:"payload"`
}

// SaveResult stores result as JSON under id. A nil id is replaced by a new
// random one; the id used is returned.
func (s *Store) SaveResult(ctx context.Context, id uuid.UUID, name string, result any) (uuid.UUID, error) {
	if id == uuid.Nil {
		id = uuid.New()
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding result: %w", err)
	}
	q := s.db.Rebind(`INSERT INTO design_results (id, created_at, name, payload) VALUES (?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, q, id.String(), s.now().UTC(), name, string(payload)); err != nil {
		klog.ErrorS(err, "Failed to save design result", "id", id, "name", name)
		return uuid.Nil, fmt.Errorf("saving result %s: %w", id, err)
	}
	return id, nil
}

// GetResult loads a stored result.
func (s *Store) GetResult(ctx context.Context, id uuid.UUID) (*Record, error) {
	var row resultRow
	q := s.db.Rebind(`SELECT id, created_at, name, payload FROM design_results WHERE id = ?`)
	if err := s.db.GetContext(ctx, &row, q, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("result %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("loading result %s: %w", id, err)
	}
	parsed, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("stored result id %q: %w", row.ID, err)
	}
	return &Record{
		ID:        parsed,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		Payload:   json.RawMessage(row.Payload),
	}, nil
}

// ListResults returns the most recent results first, without payloads.
func (s *Store) ListResults(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []resultRow
	q := s.db.Rebind(`SELECT id, created_at, name, '' AS payload FROM design_results ORDER BY created_at DESC LIMIT ?`)
	if err := s.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("stored result id %q: %w", r.ID, err)
		}
		out = append(out, Record{ID: id, Name: r.Name, CreatedAt: r.CreatedAt})
	}
	return out, nil
}
