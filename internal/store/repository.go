package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrQueryNotFound indicates the requested query does not exist.
var ErrQueryNotFound = errors.New("query not found")

// Query is a saved browse target: a ref plus an optional subject filter.
type Query struct {
	ID        string
	Name      string
	Ref       string
	Filter    string
	CreatedAt time.Time

	// RunCount and LastRunAt are populated by List from query_runs.
	RunCount  int
	LastRunAt time.Time
}

// QueryRun records one execution of a saved query.
type QueryRun struct {
	ID          int64
	QueryID     string
	RunAt       time.Time
	ResultCount int
}

// Repository provides CRUD over saved queries and their run history.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a Repository over an open database.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts a new query. A fresh uuid is assigned when ID is empty.
func (r *Repository) Save(q *Query) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO queries (id, name, ref, filter, created_at) VALUES (?, ?, ?, ?, ?)`,
		q.ID, q.Name, q.Ref, q.Filter, q.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert query: %w", err)
	}
	return nil
}

// FindByID retrieves a single query. Returns ErrQueryNotFound when the
// id does not exist.
func (r *Repository) FindByID(id string) (*Query, error) {
	row := r.db.QueryRow(
		`SELECT id, name, ref, filter, created_at FROM queries WHERE id = ?`, id,
	)

	var q Query
	var createdAt int64
	err := row.Scan(&q.ID, &q.Name, &q.Ref, &q.Filter, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrQueryNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find query: %w", err)
	}
	q.CreatedAt = time.Unix(createdAt, 0)
	return &q, nil
}

// List returns all saved queries newest first, each annotated with its
// run count and last run time.
func (r *Repository) List() ([]Query, error) {
	rows, err := r.db.Query(
		`SELECT q.id, q.name, q.ref, q.filter, q.created_at,
			COUNT(r.id), COALESCE(MAX(r.run_at), 0)
		FROM queries q
		LEFT JOIN query_runs r ON r.query_id = q.id
		GROUP BY q.id
		ORDER BY q.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}
	defer rows.Close()

	var queries []Query
	for rows.Next() {
		var q Query
		var createdAt, lastRunAt int64
		if err := rows.Scan(&q.ID, &q.Name, &q.Ref, &q.Filter, &createdAt, &q.RunCount, &lastRunAt); err != nil {
			return nil, fmt.Errorf("failed to scan query: %w", err)
		}
		q.CreatedAt = time.Unix(createdAt, 0)
		if lastRunAt > 0 {
			q.LastRunAt = time.Unix(lastRunAt, 0)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate queries: %w", err)
	}
	return queries, nil
}

// Delete removes a query and, via the cascade, its runs.
func (r *Repository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM queries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete query: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrQueryNotFound, id)
	}
	return nil
}

// RecordRun appends a run entry for a query.
func (r *Repository) RecordRun(queryID string, resultCount int) error {
	_, err := r.db.Exec(
		`INSERT INTO query_runs (query_id, run_at, result_count) VALUES (?, ?, ?)`,
		queryID, time.Now().Unix(), resultCount,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RunsFor lists the runs of one query, newest first.
func (r *Repository) RunsFor(queryID string) ([]QueryRun, error) {
	rows, err := r.db.Query(
		`SELECT id, query_id, run_at, result_count FROM query_runs
		WHERE query_id = ? ORDER BY run_at DESC, id DESC`,
		queryID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []QueryRun
	for rows.Next() {
		var run QueryRun
		var runAt int64
		if err := rows.Scan(&run.ID, &run.QueryID, &runAt, &run.ResultCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.RunAt = time.Unix(runAt, 0)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}
