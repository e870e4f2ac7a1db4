// Package migrate consolidates the legacy job-search databases into the
// unified schema. A Session owns all identity maps and counters of one run
// and is discarded afterwards.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"job-consolidator/internal/catalog"
	"job-consolidator/internal/database"
	"job-consolidator/internal/logger"
	"job-consolidator/internal/models"
	"job-consolidator/internal/normalize"
	"job-consolidator/internal/runstore"
)

// ErrStageFailed wraps the error of the stage that aborted a run.
var ErrStageFailed = errors.New("migration stage failed")

// Config describes one migration run.
type Config struct {
	DestPath   string
	Sources    []catalog.Source
	SchemaSQL  string
	Staged     bool      // build at DestPath+".staging" and rename on success
	ReportPath string    // optional JSON report
	Out        io.Writer // summary output, os.Stdout when nil
	Runs       runstore.RunStore
}

type rowResult int

const (
	rowInserted rowResult = iota
	rowDuplicate
	rowSkipped
)

type rowFunc func(ctx context.Context, src catalog.Source, table string, row database.Row) (rowResult, error)

type stage struct {
	name string
	run  func(ctx context.Context) error
}

// Session is one migration run. It owns the destination connection and the
// identity maps shared by all stages.
type Session struct {
	cfg  Config
	log  logger.Logger
	dest *database.DBManager
	db   *sql.DB

	stats models.Stats

	seenCompanies    map[string]int64 // normalized name key -> companies.id
	seenJobs         map[string]int64 // company key + title key -> jobs.id
	seenContacts     map[string]int64 // email or full name -> contacts.id
	seenApplications map[string]int64 // jobs.id + applied day -> applications.id

	profile       models.Profile
	profileFields int

	stages []stage
	now    func() time.Time
}

// NewSession prepares a run; nothing is opened until Execute.
func NewSession(cfg Config, log logger.Logger) *Session {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	s := &Session{
		cfg:              cfg,
		log:              log,
		stats:            models.Stats{Migrated: map[string]int{}},
		seenCompanies:    map[string]int64{},
		seenJobs:         map[string]int64{},
		seenContacts:     map[string]int64{},
		seenApplications: map[string]int64{},
		now:              time.Now,
	}
	migrators := map[catalog.Entity]func(context.Context) error{
		catalog.Companies:    s.migrateCompanies,
		catalog.Jobs:         s.migrateJobs,
		catalog.Contacts:     s.migrateContacts,
		catalog.Applications: s.migrateApplications,
		catalog.Emails:       s.migrateEmails,
		catalog.Metrics:      s.migrateMetrics,
		catalog.Profile:      s.migrateProfile,
	}
	for _, e := range catalog.Entities {
		s.stages = append(s.stages, stage{string(e), migrators[e]})
	}
	return s
}

// Stats returns a copy of the running counters.
func (s *Session) Stats() models.Stats {
	out := s.stats
	out.Migrated = make(map[string]int, len(s.stats.Migrated))
	for k, v := range s.stats.Migrated {
		out.Migrated[k] = v
	}
	out.Errors = append([]string(nil), s.stats.Errors...)
	return out
}

func (s *Session) timestamp() string {
	return s.now().UTC().Format(models.TimestampLayout)
}

func (s *Session) recordError(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	s.stats.Errors = append(s.stats.Errors, msg)
	s.log.Warn("%s", msg)
}

// migrateEntity runs fn over every row of every candidate table for entity.
// Missing files and tables are skipped silently; any other failure is
// recorded and the next table or source is tried.
func (s *Session) migrateEntity(ctx context.Context, entity catalog.Entity, fn rowFunc) error {
	log := logger.Named(s.log, string(entity))
	for _, src := range s.cfg.Sources {
		tables := src.TablesFor(entity)
		if len(tables) == 0 {
			continue
		}
		err := s.migrateSource(ctx, entity, src, tables, fn)
		if errors.Is(err, database.ErrSourceMissing) {
			log.Debug("skipping %s: not found", src.Path)
			continue
		}
		if err != nil {
			s.recordError("%s: %s: %v", entity, src.Path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) migrateSource(ctx context.Context, entity catalog.Entity, src catalog.Source, tables []string, fn rowFunc) error {
	db, err := database.OpenReadOnly(src.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, table := range tables {
		ok, err := database.TableExists(ctx, db, table)
		if err != nil {
			s.recordError("%s: %s.%s: %v", entity, src.Name(), table, err)
			continue
		}
		if !ok {
			continue
		}
		rows, err := database.ReadTable(ctx, db, table)
		if err != nil {
			s.recordError("%s: %s.%s: %v", entity, src.Name(), table, err)
			continue
		}
		before := s.stats.Migrated[string(entity)]
		for i, row := range rows {
			s.stats.TotalProcessed++
			res, err := s.applyRow(ctx, fn, src, table, row)
			if err != nil {
				s.recordError("%s: %s.%s row %d: %v", entity, src.Name(), table, i+1, err)
				continue
			}
			switch res {
			case rowInserted:
				s.stats.TotalMigrated++
				s.stats.Migrated[string(entity)]++
			case rowDuplicate:
				s.stats.DuplicatesRemoved++
			}
		}
		logger.Named(s.log, string(entity)).Info("%s.%s: %d rows read, %d migrated",
			src.Name(), table, len(rows), s.stats.Migrated[string(entity)]-before)
	}
	return nil
}

// applyRow isolates a single row so a mapping bug cannot abort the table.
func (s *Session) applyRow(ctx context.Context, fn rowFunc, src catalog.Source, table string, row database.Row) (res rowResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while mapping row: %v", r)
		}
	}()
	return fn(ctx, src, table, row)
}

// optionalFloat parses an optional numeric column. A value that is not a
// number is stored as NULL and recorded instead of rejecting the row.
func (s *Session) optionalFloat(what string, row database.Row, aliases ...string) *float64 {
	v, err := floatPtr(row, aliases...)
	if err != nil {
		s.recordError("%s: %v, stored as NULL", what, err)
		return nil
	}
	return v
}

func (s *Session) optionalInt(what string, row database.Row, aliases ...string) *int64 {
	v, err := intPtr(row, aliases...)
	if err != nil {
		s.recordError("%s: %v, stored as NULL", what, err)
		return nil
	}
	return v
}

// ensureCompany resolves a raw company name to its id, inserting the company
// on first sight. Empty names resolve to nil.
func (s *Session) ensureCompany(ctx context.Context, raw string) (*int64, string, error) {
	name := normalize.CompanyName(raw)
	if name == "" {
		return nil, "", nil
	}
	key := normalize.Key(name)
	if id, ok := s.seenCompanies[key]; ok {
		return &id, name, nil
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO companies (name) VALUES (?)`, name)
	if err != nil {
		return nil, name, fmt.Errorf("insert company %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, name, err
	}
	s.seenCompanies[key] = id
	s.stats.Migrated[string(catalog.Companies)]++
	s.stats.DerivedCompanies++
	return &id, name, nil
}

func jobKey(company, title string) string {
	return normalize.JobKey(company, title)
}

func (s *Session) runStage(ctx context.Context, st stage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("stage %s panicked: %v\n%s", st.name, r, debug.Stack())
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("destination unavailable: %w", err)
	}
	start := s.now()
	s.log.Info("Migrating %s", st.name)
	if err := st.run(ctx); err != nil {
		return err
	}
	s.log.Info("Finished %s in %s (%d migrated)", st.name, s.now().Sub(start).Round(time.Millisecond), s.stats.Migrated[st.name])
	return nil
}
