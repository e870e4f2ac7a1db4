package migrate

import (
	"context"
	"fmt"

	"job-consolidator/internal/catalog"
	"job-consolidator/internal/classify"
	"job-consolidator/internal/database"
	"job-consolidator/internal/models"
	"job-consolidator/internal/normalize"
)

const (
	unknownValue         = "Unknown"
	defaultJobStatus     = "discovered"
	legacyApplicationTag = "legacy_application"
	synthesizedJobStatus = "applied"
)

func (s *Session) migrateJobs(ctx context.Context) error {
	return s.migrateEntity(ctx, catalog.Jobs, s.jobRow)
}

func (s *Session) jobRow(ctx context.Context, src catalog.Source, table string, row database.Row) (rowResult, error) {
	company, title := jobIdentity(row, titleCols)
	key := jobKey(company, title)
	if _, ok := s.seenJobs[key]; ok {
		return rowDuplicate, nil
	}

	job := models.Job{
		JobID:        normalize.JobID(company, title, ""),
		Source:       strOr(row, src.Name(), sourceCols...),
		Title:        title,
		Location:     strPtr(row, locationCols...),
		Description:  strPtr(row, descriptionCols...),
		Requirements: strPtr(row, requirementsCols...),
		URL:          strPtr(row, urlCols...),
		RemoteType:   strPtr(row, remoteTypeCols...),
		Status:       strOr(row, defaultJobStatus, statusCols...),
	}
	what := fmt.Sprintf("jobs: %s.%s %q at %q", src.Name(), table, title, company)
	job.SalaryMin = s.optionalInt(what, row, salaryMinCols...)
	job.SalaryMax = s.optionalInt(what, row, salaryMaxCols...)
	job.RelevanceScore = s.optionalFloat(what, row, relevanceCols...)
	job.PriorityScore = s.optionalFloat(what, row, priorityCols...)
	job.DiscoveredDate = normalizeDate(str(row, discoveredCols...))
	if job.DiscoveredDate == "" {
		job.DiscoveredDate = s.timestamp()
	}

	var err error
	if job.CompanyID, job.Company, err = s.ensureCompany(ctx, company); err != nil {
		return rowSkipped, err
	}
	if _, err := s.insertJob(ctx, key, job); err != nil {
		return rowSkipped, err
	}
	return rowInserted, nil
}

// insertJob writes job, deriving the focus tags from its title, and records
// it in the jobs identity map under key.
func (s *Session) insertJob(ctx context.Context, key string, job models.Job) (int64, error) {
	tags := classify.TagJob(job.Title)
	res, err := s.db.ExecContext(ctx, `INSERT INTO jobs (
		job_id, source, company, company_id, title, location, description, requirements, url,
		salary_min, salary_max, remote_type, relevance_score, priority_score,
		is_ai_ml_focused, is_healthcare, is_principal_plus, status, discovered_date
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.JobID, job.Source, job.Company, job.CompanyID, job.Title, job.Location,
		job.Description, job.Requirements, job.URL,
		job.SalaryMin, job.SalaryMax, job.RemoteType, job.RelevanceScore, job.PriorityScore,
		tags.AIML, tags.Healthcare, tags.PrincipalPlus, job.Status, job.DiscoveredDate,
	)
	if err != nil {
		return 0, fmt.Errorf("insert job %q at %q: %w", job.Title, job.Company, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.seenJobs[key] = id
	return id, nil
}

// jobIdentity extracts the normalized (company, title) pair of a row, falling
// back to "Unknown" for either part.
func jobIdentity(row database.Row, titleAliases []string) (string, string) {
	company := normalize.CompanyName(str(row, companyRefCols...))
	if company == "" {
		company = unknownValue
	}
	title := normalize.JobTitle(str(row, titleAliases...))
	if title == "" {
		title = unknownValue
	}
	return company, title
}
