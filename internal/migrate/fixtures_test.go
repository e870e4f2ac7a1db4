package migrate

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"job-consolidator/internal/catalog"
	"job-consolidator/internal/database"
	"job-consolidator/internal/logger"
)

// writeSource creates a SQLite file in dir and runs stmts against it.
func writeSource(t *testing.T, dir, file string, stmts ...string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	db, err := sql.Open("sqlite", "file:"+path)
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return path
}

func source(path string, tables map[catalog.Entity][]string) catalog.Source {
	return catalog.Source{Path: path, Tables: tables}
}

func testConfig(t *testing.T, sources ...catalog.Source) Config {
	t.Helper()
	schema, err := database.LoadSchema("")
	require.NoError(t, err)
	return Config{
		DestPath:  filepath.Join(t.TempDir(), "unified_platform.db"),
		Sources:   sources,
		SchemaSQL: schema,
		Out:       &bytes.Buffer{},
	}
}

func openDest(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := database.OpenReadOnly(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func count(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}

func run(t *testing.T, cfg Config) (*Session, error) {
	t.Helper()
	s := NewSession(cfg, logger.Discard())
	_, err := s.Execute(context.Background())
	return s, err
}
