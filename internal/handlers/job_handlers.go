package handlers

import (
	"net/http"
	"strconv"

	"job-consolidator/internal/models"
	"job-consolidator/internal/utils"
)

const jobSelect = `SELECT id, job_id, source, company, company_id, title, location, description,
	requirements, url, salary_min, salary_max, remote_type, relevance_score, priority_score,
	is_ai_ml_focused, is_healthcare, is_principal_plus, status, discovered_date FROM jobs`

func scanJob(s scanner) (models.Job, error) {
	var j models.Job
	err := s.Scan(&j.ID, &j.JobID, &j.Source, &j.Company, &j.CompanyID, &j.Title, &j.Location,
		&j.Description, &j.Requirements, &j.URL, &j.SalaryMin, &j.SalaryMax, &j.RemoteType,
		&j.RelevanceScore, &j.PriorityScore, &j.IsAIMLFocused, &j.IsHealthcare, &j.IsPrincipalPlus,
		&j.Status, &j.DiscoveredDate)
	return j, err
}

// ListJobs supports ?status, ?company_id and the tag flags ?ai_ml, ?healthcare
// and ?principal.
func (c *ConsolidatorHandlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &where{}
	if v := q.Get("status"); v != "" {
		filter.add("status = ?", v)
	}
	if v := q.Get("company_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid company ID")
			return
		}
		filter.add("company_id = ?", id)
	}
	for param, column := range map[string]string{
		"ai_ml":      "is_ai_ml_focused",
		"healthcare": "is_healthcare",
		"principal":  "is_principal_plus",
	} {
		flag, err := utils.ParseFlag(r, param)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.addFlag(column, flag)
	}
	list(c, w, r, jobSelect, filter, "priority_score DESC, id", scanJob)
}

func (c *ConsolidatorHandlers) GetJob(w http.ResponseWriter, r *http.Request) {
	get(c, w, r, jobSelect, "job", scanJob)
}
