package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"job-consolidator/internal/logger"
	"job-consolidator/internal/models"
	"job-consolidator/internal/runstore"

	_ "modernc.org/sqlite"
)

// ErrDestinationExists is returned by CheckDestination when a rebuild would
// delete an existing file and the caller did not force it.
var ErrDestinationExists = errors.New("destination database already exists")

// DBManager owns the single writable connection to the unified database.
type DBManager struct {
	DB   *sql.DB
	path string
	Log  logger.Logger
}

// NewDBManager returns an unconnected manager for dbPath.
func NewDBManager(dbPath string, log logger.Logger) *DBManager {
	return &DBManager{
		path: dbPath,
		Log:  log,
	}
}

// Path is the file this manager builds or reads.
func (dm *DBManager) Path() string {
	return dm.path
}

func (dm *DBManager) Connect() error {
	if _, err := os.Stat(dm.path); err != nil {
		dm.Log.Debug("No database at %s, it will be created", dm.path)
	}
	db, err := sql.Open("sqlite", "file:"+dm.path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	// single writer; foreign_keys is a per-connection pragma
	db.SetMaxOpenConns(1)

	dm.DB = db
	if err = dm.DB.Ping(); err != nil {
		dm.DB.Close()
		dm.DB = nil
		return fmt.Errorf("failed to ping database: %w", err)
	}
	dm.Log.Debug("Connected to %s", dm.path)
	return nil
}

func (dm *DBManager) Close() error {
	if dm.DB == nil {
		return nil
	}
	err := dm.DB.Close()
	dm.DB = nil
	return err
}

// CheckDestination refuses to continue when the destination exists and force is false.
func CheckDestination(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s (use -force to rebuild)", ErrDestinationExists, path)
	}
	return nil
}

// CreateUnifiedDatabase deletes any existing destination file and creates the
// schema from schemaSQL. An empty script aborts before the file is touched; a
// script that fails to execute leaves no file behind.
func (dm *DBManager) CreateUnifiedDatabase(ctx context.Context, schemaSQL string) error {
	if schemaSQL == "" {
		return ErrSchemaUnavailable
	}
	if err := dm.Close(); err != nil {
		return fmt.Errorf("failed to close previous connection: %w", err)
	}
	if err := RemoveDatabaseFiles(dm.path); err != nil {
		return fmt.Errorf("failed to remove existing destination: %w", err)
	}
	if dir := filepath.Dir(dm.path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create destination dir: %w", err)
		}
	}
	if err := dm.Connect(); err != nil {
		return err
	}

	dm.Log.Info("Creating unified schema at %s", dm.path)
	if _, err := dm.DB.ExecContext(ctx, schemaSQL); err != nil {
		dm.Close()
		RemoveDatabaseFiles(dm.path)
		return fmt.Errorf("failed to apply unified schema: %w", err)
	}
	return nil
}

// SwapInto closes the connection and atomically renames the managed file onto
// target, replacing whatever was there.
func (dm *DBManager) SwapInto(target string) error {
	if err := dm.Close(); err != nil {
		return fmt.Errorf("failed to close staging database: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		os.Remove(target + suffix)
	}
	if err := os.Rename(dm.path, target); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", dm.path, err)
	}
	dm.path = target
	return nil
}

// RemoveDatabaseFiles deletes a SQLite file and its side files. Missing files are fine.
func RemoveDatabaseFiles(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// InitRunStore opens the run history at path, or next to the database when
// path is empty.
func (dm *DBManager) InitRunStore(path string) (*runstore.BuntDBRunStore, error) {
	if path == "" {
		path = filepath.Join(filepath.Dir(dm.path), models.RunStoreFile)
	}
	return runstore.NewBuntDBRunStore(path)
}
