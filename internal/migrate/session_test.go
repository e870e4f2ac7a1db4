package migrate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-consolidator/internal/catalog"
	"job-consolidator/internal/database"
	"job-consolidator/internal/logger"
)

const jobsDDL = `CREATE TABLE jobs (company TEXT, title TEXT, location TEXT, url TEXT, salary_min TEXT, date_found TEXT)`

func TestExecute_NoSourcesOnDisk(t *testing.T) {
	cfg := testConfig(t, catalog.Default(t.TempDir())...)

	s, err := run(t, cfg)
	require.NoError(t, err)

	stats := s.Stats()
	assert.Zero(t, stats.TotalProcessed)
	assert.Zero(t, stats.TotalMigrated)
	assert.Empty(t, stats.Errors)

	db := openDest(t, cfg.DestPath)
	for _, table := range database.Tables {
		ok, err := database.TableExists(context.Background(), db, table)
		require.NoError(t, err)
		assert.True(t, ok, table)
		assert.Zero(t, count(t, db, "SELECT COUNT(*) FROM "+table), table)
	}
}

func TestExecute_JobsDeduplicatedAcrossSuffixes(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "jobs.db", jobsDDL,
		`INSERT INTO jobs (company, title) VALUES ('Google', 'Software Engineer')`,
		`INSERT INTO jobs (company, title) VALUES ('Google Inc.', 'Software Engineer')`,
	)
	cfg := testConfig(t, source(path, map[catalog.Entity][]string{catalog.Jobs: {"jobs"}}))

	s, err := run(t, cfg)
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, 1, stats.DuplicatesRemoved)
	assert.Equal(t, 2, stats.TotalProcessed)
	assert.Equal(t, 1, stats.Migrated["jobs"])

	db := openDest(t, cfg.DestPath)
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM jobs`))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM companies WHERE name = 'Google'`))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM jobs j JOIN companies c ON c.id = j.company_id`))
}

func TestExecute_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	src1 := writeSource(t, dir, "source1.db", jobsDDL,
		`INSERT INTO jobs (company, title, location) VALUES ('Meta LLC', 'ML Engineer', 'SF')`,
		`INSERT INTO jobs (company, title, location) VALUES ('Meta', 'ML Engineer', 'sf')`,
	)
	src2 := writeSource(t, dir, "source2.db",
		`CREATE TABLE applications (company TEXT, position TEXT, applied_date TEXT)`,
		`INSERT INTO applications VALUES ('Meta', 'ML Engineer', '2024-01-15')`,
	)
	cfg := testConfig(t,
		source(src1, map[catalog.Entity][]string{catalog.Jobs: {"jobs"}}),
		source(src2, map[catalog.Entity][]string{catalog.Applications: {"applications"}}),
	)

	s, err := run(t, cfg)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, s.Stats().DuplicatesRemoved, 1)
	assert.Zero(t, s.Stats().SynthesizedJobs)

	db := openDest(t, cfg.DestPath)
	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM companies`).Scan(&name))
	assert.Equal(t, "Meta", name)
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM companies`))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM jobs`))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM applications`))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM applications a JOIN jobs j ON j.id = a.job_id WHERE j.title = 'ML Engineer'`))

	var applied string
	require.NoError(t, db.QueryRow(`SELECT applied_date FROM applications`).Scan(&applied))
	assert.Equal(t, "2024-01-15 00:00:00", applied)
}

func TestExecute_ApplicationsSynthesizeMissingJobs(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "job_applications.db",
		`CREATE TABLE applications (company_name TEXT, position TEXT, applied_date TEXT, status TEXT)`,
		`INSERT INTO applications VALUES ('Acme Corp', 'Data Engineer', '2024-02-01 09:30:00', 'rejected')`,
		`INSERT INTO applications VALUES ('Acme', 'data engineer', '2024-02-01 17:00:00', 'applied')`,
		`INSERT INTO applications VALUES ('Acme', 'Data Engineer', '2024-03-01', NULL)`,
		`INSERT INTO applications VALUES (NULL, NULL, NULL, NULL)`,
	)
	cfg := testConfig(t, source(path, map[catalog.Entity][]string{catalog.Applications: {"applications"}}))

	s, err := run(t, cfg)
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, 2, stats.SynthesizedJobs)
	assert.Equal(t, 1, stats.DuplicatesRemoved)
	assert.Equal(t, 3, stats.Migrated["applications"])

	db := openDest(t, cfg.DestPath)
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM jobs WHERE source = ?`, legacyApplicationTag))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM jobs WHERE company = 'Unknown' AND title = 'Unknown'`))
	assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM applications a LEFT JOIN jobs j ON j.id = a.job_id WHERE j.id IS NULL`))

	q, err := CheckQuality(context.Background(), db)
	require.NoError(t, err)
	assert.Zero(t, q.DuplicateJobGroups)
	assert.Zero(t, q.OrphanedApplications)
	assert.Zero(t, q.OrphanedContacts)
}

func TestExecute_CompaniesAndContacts(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "companies.db",
		`CREATE TABLE companies (name TEXT, website TEXT, industry TEXT)`,
		`INSERT INTO companies VALUES ('Stripe, Inc.', 'https://stripe.com', 'Fintech')`,
		`INSERT INTO companies VALUES ('stripe', NULL, NULL)`,
		`INSERT INTO companies VALUES ('', NULL, NULL)`,
		`CREATE TABLE contacts (name TEXT, title TEXT, email TEXT, company TEXT, contacted INTEGER)`,
		`INSERT INTO contacts VALUES ('Ada Lovelace', 'Technical Recruiter', 'ada@stripe.com', 'Stripe', 1)`,
		`INSERT INTO contacts VALUES ('Ada L.', 'Recruiter', 'ADA@stripe.com', 'Stripe', 0)`,
		`INSERT INTO contacts VALUES ('Grace Hopper', 'Engineering Director', NULL, 'Linear Corporation', 0)`,
		`INSERT INTO contacts VALUES ('Grace Hopper', 'CTO', NULL, NULL, 0)`,
	)
	cfg := testConfig(t, source(path, map[catalog.Entity][]string{
		catalog.Companies: {"companies"},
		catalog.Contacts:  {"contacts"},
	}))

	s, err := run(t, cfg)
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, 3, stats.DuplicatesRemoved)
	assert.Len(t, stats.Errors, 1, "empty company name is a row error")
	assert.Equal(t, 1, stats.DerivedCompanies)

	db := openDest(t, cfg.DestPath)
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM companies`))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM companies WHERE name = 'Stripe' AND website = 'https://stripe.com'`))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM companies WHERE name = 'Linear'`))
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM contacts`))

	var kind string
	var contacted bool
	require.NoError(t, db.QueryRow(`SELECT contact_type, contacted FROM contacts WHERE email = 'ada@stripe.com'`).Scan(&kind, &contacted))
	assert.Equal(t, "recruiter", kind)
	assert.True(t, contacted)
	require.NoError(t, db.QueryRow(`SELECT contact_type FROM contacts WHERE full_name = 'Grace Hopper'`).Scan(&kind))
	assert.Equal(t, "hiring_manager", kind)
}

func TestExecute_EmailsClassifiedWithoutDedup(t *testing.T) {
	dir := t.TempDir()
	ddl := `CREATE TABLE emails (message_id TEXT, subject TEXT, sender TEXT, direction TEXT, received_at TEXT)`
	a := writeSource(t, dir, "email_tracking.db", ddl,
		`INSERT INTO emails VALUES ('m1', 'Interview invitation', 'hr@acme.com', NULL, '2024-04-02T10:00:00Z')`,
		`INSERT INTO emails VALUES ('m2', 'Unfortunately we moved on', 'hr@acme.com', 'inbound', NULL)`,
	)
	b := writeSource(t, dir, "gmail_responses.db", ddl,
		`INSERT INTO emails VALUES ('m1', 'Interview invitation', 'hr@acme.com', NULL, '2024-04-02T10:00:00Z')`,
		`INSERT INTO emails VALUES ('m3', 'Following up', 'me@example.com', 'sent', 'not a date')`,
	)
	tables := map[catalog.Entity][]string{catalog.Emails: {"emails"}}
	cfg := testConfig(t, source(a, tables), source(b, tables))

	s, err := run(t, cfg)
	require.NoError(t, err)
	assert.Zero(t, s.Stats().DuplicatesRemoved)

	db := openDest(t, cfg.DestPath)
	assert.Equal(t, 4, count(t, db, `SELECT COUNT(*) FROM emails`))
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM emails WHERE email_type = 'interview' AND received_date = '2024-04-02 10:00:00'`))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM emails WHERE email_type = 'rejection' AND direction = 'received'`))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM emails WHERE direction = 'sent' AND received_date = 'not a date'`))
}

func TestExecute_MetricsIgnoreCollisionsWithinTable(t *testing.T) {
	dir := t.TempDir()
	ddl := `CREATE TABLE metrics (name TEXT, category TEXT, value TEXT, date TEXT)`
	a := writeSource(t, dir, "career_metrics.db", ddl,
		`INSERT INTO metrics VALUES ('applications_sent', 'outreach', '12', '2024-05-01')`,
		`INSERT INTO metrics VALUES ('applications_sent', 'outreach', '14', '2024-05-01')`,
		`INSERT INTO metrics VALUES ('team_size', NULL, '1,200', '2024-05-01')`,
		`INSERT INTO metrics VALUES ('revenue_impact', NULL, 'lots', '2024-05-01')`,
	)
	b := writeSource(t, dir, "profile.db", ddl,
		`INSERT INTO metrics VALUES ('applications_sent', 'outreach', '12', '2024-05-01')`,
	)
	tables := map[catalog.Entity][]string{catalog.Metrics: {"metrics"}}
	cfg := testConfig(t, source(a, tables), source(b, tables))

	s, err := run(t, cfg)
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, 1, stats.DuplicatesRemoved)
	assert.Equal(t, 3, stats.Migrated["metrics"])
	require.Len(t, stats.Errors, 1)
	assert.Contains(t, stats.Errors[0], "not a number")

	db := openDest(t, cfg.DestPath)
	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM metrics WHERE metric_name = 'applications_sent'`))
	var value float64
	var category string
	require.NoError(t, db.QueryRow(`SELECT metric_value, metric_category FROM metrics WHERE metric_name = 'team_size'`).Scan(&value, &category))
	assert.Equal(t, 1200.0, value)
	assert.Equal(t, defaultMetricCategory, category)
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM metrics WHERE source = 'career_metrics.metrics' AND metric_value = 12`))
}

func TestExecute_ProfileFirstWriterWinsPerField(t *testing.T) {
	dir := t.TempDir()
	ddl := `CREATE TABLE profile (full_name TEXT, title TEXT, years_experience INTEGER)`
	a := writeSource(t, dir, "achievements.db", ddl,
		`INSERT INTO profile VALUES ('Sam Rivera', NULL, 15)`,
	)
	b := writeSource(t, dir, "profile.db", ddl,
		`INSERT INTO profile VALUES ('Someone Else', 'Principal', NULL)`,
		`INSERT INTO profile VALUES ('Third Name', 'Staff', 3)`,
	)
	tables := map[catalog.Entity][]string{catalog.Profile: {"profile"}}
	cfg := testConfig(t, source(a, tables), source(b, tables))

	s, err := run(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Stats().DuplicatesRemoved)

	db := openDest(t, cfg.DestPath)
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM profile`))
	var id, years int
	var name, title string
	require.NoError(t, db.QueryRow(`SELECT id, full_name, title, years_experience FROM profile`).Scan(&id, &name, &title, &years))
	assert.Equal(t, 1, id)
	assert.Equal(t, "Sam Rivera", name)
	assert.Equal(t, "Principal", title)
	assert.Equal(t, 15, years)
}

func TestExecute_BrokenSourceIsIsolated(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "jobs.db")
	require.NoError(t, os.WriteFile(broken, []byte("this is not sqlite"), 0600))
	good := writeSource(t, dir, "lever_jobs.db", jobsDDL,
		`INSERT INTO jobs (company, title) VALUES ('Figma', 'Staff Engineer')`,
	)
	tables := map[catalog.Entity][]string{catalog.Jobs: {"jobs"}}
	cfg := testConfig(t, source(broken, tables), source(good, tables))

	s, err := run(t, cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, s.Stats().Errors)

	db := openDest(t, cfg.DestPath)
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM jobs WHERE is_principal_plus = 1`))
}

func TestExecute_StageFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "companies.db",
		`CREATE TABLE companies (name TEXT)`,
		`INSERT INTO companies VALUES ('Anthropic')`,
	)
	cfg := testConfig(t, source(path, map[catalog.Entity][]string{catalog.Companies: {"companies"}}))

	s := NewSession(cfg, logger.Discard())
	s.stages[1].run = func(context.Context) error { return errors.New("boom") }

	report, err := s.Execute(context.Background())
	require.ErrorIs(t, err, ErrStageFailed)
	require.NotNil(t, report)
	assert.False(t, report.Success)
	assert.Equal(t, "jobs", report.FailedStage)
	assert.Contains(t, cfg.Out.(interface{ String() string }).String(), "FAILED at jobs")

	db := openDest(t, cfg.DestPath)
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM companies`), "earlier stages stay written")
}

func TestExecute_StagePanicRecovered(t *testing.T) {
	cfg := testConfig(t)
	s := NewSession(cfg, logger.Discard())
	s.stages[2].run = func(context.Context) error { panic("mapping bug") }

	report, err := s.Execute(context.Background())
	require.ErrorIs(t, err, ErrStageFailed)
	assert.Equal(t, "contacts", report.FailedStage)
}

func TestExecute_MissingSchemaAbortsBeforeWriting(t *testing.T) {
	cfg := testConfig(t)
	cfg.SchemaSQL = ""

	s := NewSession(cfg, logger.Discard())
	report, err := s.Execute(context.Background())
	require.ErrorIs(t, err, database.ErrSchemaUnavailable)
	assert.Equal(t, createSchemaStage, report.FailedStage)

	_, statErr := os.Stat(cfg.DestPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExecute_CancelledContext(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSession(cfg, logger.Discard())
	_, err := s.Execute(ctx)
	require.Error(t, err)
}

func TestExecute_SeparatorInIdentityDoesNotBreakJobID(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "jobs.db", jobsDDL,
		`INSERT INTO jobs (company, title) VALUES ('Acme' || char(31) || 'Labs', 'Engineer')`,
		`INSERT INTO jobs (company, title) VALUES ('Acme', 'Labs' || char(31) || 'Engineer')`,
	)
	cfg := testConfig(t, source(path, map[catalog.Entity][]string{catalog.Jobs: {"jobs"}}))

	s, err := run(t, cfg)
	require.NoError(t, err)
	assert.Empty(t, s.Stats().Errors)
	assert.Equal(t, 1, s.Stats().DuplicatesRemoved)

	db := openDest(t, cfg.DestPath)
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM jobs`))
}

func TestExecute_BadOptionalNumberStoredAsNull(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "jobs.db", jobsDDL,
		`INSERT INTO jobs (company, title, salary_min) VALUES ('Figma', 'Staff Engineer', 'Competitive')`,
		`CREATE TABLE applications (company TEXT, position TEXT, applied_date TEXT, personalization_score TEXT)`,
		`INSERT INTO applications VALUES ('Figma', 'Staff Engineer', '2024-06-01', 'high')`,
	)
	cfg := testConfig(t, source(path, map[catalog.Entity][]string{
		catalog.Jobs:         {"jobs"},
		catalog.Applications: {"applications"},
	}))

	s, err := run(t, cfg)
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, 1, stats.Migrated["jobs"])
	assert.Equal(t, 1, stats.Migrated["applications"])
	assert.Zero(t, stats.SynthesizedJobs, "application links to the migrated job")
	require.Len(t, stats.Errors, 2)
	assert.Contains(t, stats.Errors[0], `not a number: "Competitive", stored as NULL`)

	db := openDest(t, cfg.DestPath)
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM jobs WHERE salary_min IS NULL`))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM applications WHERE personalization_score IS NULL`))
}

func TestNewSession_StagesFollowEntityOrder(t *testing.T) {
	s := NewSession(testConfig(t), logger.Discard())
	require.Len(t, s.stages, len(catalog.Entities))
	for i, e := range catalog.Entities {
		assert.Equal(t, string(e), s.stages[i].name)
		assert.NotNil(t, s.stages[i].run, e)
	}
}
