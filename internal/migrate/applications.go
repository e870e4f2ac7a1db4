package migrate

import (
	"context"
	"fmt"

	"job-consolidator/internal/catalog"
	"job-consolidator/internal/database"
	"job-consolidator/internal/models"
	"job-consolidator/internal/normalize"
)

const defaultApplicationStatus = "applied"

func (s *Session) migrateApplications(ctx context.Context) error {
	return s.migrateEntity(ctx, catalog.Applications, s.applicationRow)
}

func (s *Session) applicationRow(ctx context.Context, src catalog.Source, table string, row database.Row) (rowResult, error) {
	company, position := jobIdentity(row, positionCols)

	applied := normalizeDate(str(row, appliedDateCols...))
	if applied == "" {
		applied = s.timestamp()
	}

	companyID, _, err := s.ensureCompany(ctx, company)
	if err != nil {
		return rowSkipped, err
	}
	jobID, err := s.resolveJob(ctx, company, companyID, position, applied)
	if err != nil {
		return rowSkipped, err
	}

	key := fmt.Sprintf("%d|%s", jobID, dayOf(applied))
	if _, ok := s.seenApplications[key]; ok {
		return rowDuplicate, nil
	}

	a := models.Application{
		JobID:              jobID,
		CompanyID:          companyID,
		CompanyName:        company,
		Position:           position,
		Method:             strPtr(row, methodCols...),
		EmailTo:            strPtr(row, emailToCols...),
		ResumeVersion:      strPtr(row, resumeCols...),
		CoverLetterVersion: strPtr(row, coverLetterCols...),
		EmailSubject:       strPtr(row, subjectCols...),
		EmailBody:          strPtr(row, bodyCols...),
		AppliedDate:        applied,
		Status:             strOr(row, defaultApplicationStatus, statusCols...),
		ResponseReceived:   boolVal(row, responseCols...),
	}
	a.PersonalizationScore = s.optionalFloat(fmt.Sprintf("applications: %s.%s %q at %q", src.Name(), table, position, company), row, personalizeCols...)

	res, err := s.db.ExecContext(ctx, `INSERT INTO applications (
		job_id, company_id, company_name, position, method, email_to, resume_version,
		cover_letter_version, email_subject, email_body, applied_date, status,
		response_received, personalization_score
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.JobID, a.CompanyID, a.CompanyName, a.Position, a.Method, a.EmailTo, a.ResumeVersion,
		a.CoverLetterVersion, a.EmailSubject, a.EmailBody, a.AppliedDate, a.Status,
		a.ResponseReceived, a.PersonalizationScore,
	)
	if err != nil {
		return rowSkipped, fmt.Errorf("insert application for %q at %q: %w", position, company, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return rowSkipped, err
	}
	s.seenApplications[key] = id
	return rowInserted, nil
}

// resolveJob finds the job an application refers to, synthesizing a minimal
// job when none was migrated so the foreign key always holds.
func (s *Session) resolveJob(ctx context.Context, company string, companyID *int64, title, applied string) (int64, error) {
	key := jobKey(company, title)
	if id, ok := s.seenJobs[key]; ok {
		return id, nil
	}
	id, err := s.insertJob(ctx, key, models.Job{
		JobID:          normalize.JobID(company, title, ""),
		Source:         legacyApplicationTag,
		Company:        company,
		CompanyID:      companyID,
		Title:          title,
		Status:         synthesizedJobStatus,
		DiscoveredDate: applied,
	})
	if err != nil {
		return 0, fmt.Errorf("synthesize job: %w", err)
	}
	s.stats.SynthesizedJobs++
	s.stats.Migrated[string(catalog.Jobs)]++
	return id, nil
}
