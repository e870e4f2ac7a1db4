package handlers

import (
	"net/http"
	"strconv"

	"job-consolidator/internal/models"
	"job-consolidator/internal/utils"
)

const applicationSelect = `SELECT id, job_id, company_id, company_name, position, method, email_to,
	resume_version, cover_letter_version, email_subject, email_body, applied_date, status,
	response_received, personalization_score FROM applications`

func scanApplication(s scanner) (models.Application, error) {
	var a models.Application
	err := s.Scan(&a.ID, &a.JobID, &a.CompanyID, &a.CompanyName, &a.Position, &a.Method, &a.EmailTo,
		&a.ResumeVersion, &a.CoverLetterVersion, &a.EmailSubject, &a.EmailBody, &a.AppliedDate,
		&a.Status, &a.ResponseReceived, &a.PersonalizationScore)
	return a, err
}

// ListApplications lists newest applications first. Supports ?status and ?job_id.
func (c *ConsolidatorHandlers) ListApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &where{}
	if v := q.Get("status"); v != "" {
		filter.add("status = ?", v)
	}
	if v := q.Get("job_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid job ID")
			return
		}
		filter.add("job_id = ?", id)
	}
	list(c, w, r, applicationSelect, filter, "applied_date DESC, id", scanApplication)
}
