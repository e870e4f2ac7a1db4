// Package runstore keeps the history of migration reports in a buntdb file
// next to the unified database.
package runstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/buntdb"

	"job-consolidator/internal/models"
)

// ErrRunNotFound is returned when no report is stored under an id.
var ErrRunNotFound = errors.New("run not found")

// RunStore records migration reports by run id.
type RunStore interface {
	SaveReport(report models.Report) error
	GetReport(runID string) (*models.Report, error)
	ListReports(limit int) ([]models.Report, error)
	DeleteReport(runID string) error
}

// BuntDBRunStore is a RunStore backed by a single buntdb file.
type BuntDBRunStore struct {
	DB *buntdb.DB
}

const (
	keyPrefix    = "run:"
	startedIndex = "started_at"
	defaultLimit = 50
	maximumLimit = 500
)

// NewBuntDBRunStore opens the buntDB database at the given path and makes sure
// the started_at index exists.
func NewBuntDBRunStore(path string) (*BuntDBRunStore, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open run store %s: %w", path, err)
	}
	if err := db.ReplaceIndex(startedIndex, keyPrefix+"*", buntdb.IndexJSON("started_at")); err != nil {
		db.Close()
		return nil, fmt.Errorf("create run index: %w", err)
	}
	return &BuntDBRunStore{DB: db}, nil
}

func runKey(runID string) string {
	return keyPrefix + runID
}

// SaveReport stores a report under its run id, replacing any previous value.
func (s *BuntDBRunStore) SaveReport(report models.Report) error {
	if report.RunID == "" {
		return errors.New("report has no run id")
	}
	b, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return s.DB.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(runKey(report.RunID), string(b), nil)
		return err
	})
}

// GetReport retrieves a report by run id.
func (s *BuntDBRunStore) GetReport(runID string) (*models.Report, error) {
	var raw string
	err := s.DB.View(func(tx *buntdb.Tx) error {
		val, err := tx.Get(runKey(runID))
		if err != nil {
			return err
		}
		raw = val
		return nil
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	var report models.Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", runID, err)
	}
	return &report, nil
}

// ListReports returns stored reports, newest first.
func (s *BuntDBRunStore) ListReports(limit int) ([]models.Report, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maximumLimit {
		limit = maximumLimit
	}
	var reports []models.Report
	err := s.DB.View(func(tx *buntdb.Tx) error {
		return tx.Descend(startedIndex, func(key, value string) bool {
			if !strings.HasPrefix(key, keyPrefix) {
				return true
			}
			var r models.Report
			if err := json.Unmarshal([]byte(value), &r); err != nil {
				return true
			}
			reports = append(reports, r)
			return len(reports) < limit
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	// equal timestamps keep a stable order
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].StartedAt > reports[j].StartedAt
	})
	return reports, nil
}

// DeleteReport removes a stored report; a missing run is not an error.
func (s *BuntDBRunStore) DeleteReport(runID string) error {
	return s.DB.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(runKey(runID))
		if err != nil && !errors.Is(err, buntdb.ErrNotFound) {
			return err
		}
		return nil
	})
}

func (s *BuntDBRunStore) Close() error {
	return s.DB.Close()
}
