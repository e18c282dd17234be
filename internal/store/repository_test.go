package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "queries.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewDB_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "queries.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err, "NewDB should succeed with nested non-existent directories")
	defer db.Close()

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestNewDB_RunsMigrations(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"queries", "query_runs"} {
		var name string
		err := db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist after migrations", table)
	}
}

func TestNewDB_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "queries.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening an up-to-date database must not error
	db, err = NewDB(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestRepository_SaveAssignsID(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	q := &Query{Name: "mainline", Ref: "main"}
	require.NoError(t, repo.Save(q))
	require.NotEmpty(t, q.ID)
	require.False(t, q.CreatedAt.IsZero())
}

func TestRepository_FindByID(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	q := &Query{Name: "release", Ref: "v1.0.0", Filter: "fix"}
	require.NoError(t, repo.Save(q))

	got, err := repo.FindByID(q.ID)
	require.NoError(t, err)
	require.Equal(t, "release", got.Name)
	require.Equal(t, "v1.0.0", got.Ref)
	require.Equal(t, "fix", got.Filter)
	require.WithinDuration(t, q.CreatedAt, got.CreatedAt, time.Second)
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	_, err := repo.FindByID("nope")
	require.ErrorIs(t, err, ErrQueryNotFound)
}

func TestRepository_ListWithRunCounts(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	first := &Query{Name: "first", Ref: "main", CreatedAt: time.Now().Add(-time.Hour)}
	second := &Query{Name: "second", Ref: "develop"}
	require.NoError(t, repo.Save(first))
	require.NoError(t, repo.Save(second))

	require.NoError(t, repo.RecordRun(first.ID, 12))
	require.NoError(t, repo.RecordRun(first.ID, 15))

	queries, err := repo.List()
	require.NoError(t, err)
	require.Len(t, queries, 2)

	// Newest first
	require.Equal(t, "second", queries[0].Name)
	require.Equal(t, 0, queries[0].RunCount)
	require.True(t, queries[0].LastRunAt.IsZero())

	require.Equal(t, "first", queries[1].Name)
	require.Equal(t, 2, queries[1].RunCount)
	require.False(t, queries[1].LastRunAt.IsZero())
}

func TestRepository_ListEmpty(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	queries, err := repo.List()
	require.NoError(t, err)
	require.Empty(t, queries)
}

func TestRepository_DeleteCascadesRuns(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	q := &Query{Name: "doomed", Ref: "main"}
	require.NoError(t, repo.Save(q))
	require.NoError(t, repo.RecordRun(q.ID, 3))

	require.NoError(t, repo.Delete(q.ID))

	_, err := repo.FindByID(q.ID)
	require.ErrorIs(t, err, ErrQueryNotFound)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM query_runs`).Scan(&count))
	require.Zero(t, count, "runs should cascade on delete")
}

func TestRepository_DeleteMissing(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	require.ErrorIs(t, repo.Delete("missing"), ErrQueryNotFound)
}

func TestRepository_RunsFor(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	q := &Query{Name: "q", Ref: "main"}
	require.NoError(t, repo.Save(q))
	require.NoError(t, repo.RecordRun(q.ID, 1))
	require.NoError(t, repo.RecordRun(q.ID, 2))

	runs, err := repo.RunsFor(q.ID)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, 2, runs[0].ResultCount, "newest run first")
	require.Equal(t, q.ID, runs[0].QueryID)
}
