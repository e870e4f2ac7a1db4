package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"job-consolidator/internal/database"
	"job-consolidator/internal/migrate"
	"job-consolidator/internal/models"
	"job-consolidator/internal/runstore"
	"job-consolidator/internal/utils"
)

const metricSelect = `SELECT id, metric_name, metric_category, metric_value, metric_unit, date,
	is_verified, source FROM metrics`

func scanMetric(s scanner) (models.Metric, error) {
	var m models.Metric
	err := s.Scan(&m.ID, &m.MetricName, &m.MetricCategory, &m.MetricValue, &m.MetricUnit, &m.Date,
		&m.IsVerified, &m.Source)
	return m, err
}

// ListMetrics supports ?category.
func (c *ConsolidatorHandlers) ListMetrics(w http.ResponseWriter, r *http.Request) {
	filter := &where{}
	if v := r.URL.Query().Get("category"); v != "" {
		filter.add("metric_category = ?", v)
	}
	list(c, w, r, metricSelect, filter, "date DESC, id", scanMetric)
}

func (c *ConsolidatorHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	err := c.DB.QueryRowContext(r.Context(), `SELECT id, full_name, email, phone, location, title,
		years_experience, linkedin_url, github_url, summary, skills, target_roles FROM profile WHERE id = 1`).Scan(
		&p.ID, &p.FullName, &p.Email, &p.Phone, &p.Location, &p.Title, &p.YearsExperience,
		&p.LinkedInURL, &p.GithubURL, &p.Summary, &p.Skills, &p.TargetRoles,
	)
	if errors.Is(err, sql.ErrNoRows) {
		utils.RespondError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		c.Log.Error("Error querying profile: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

// GetQuality reruns the integrity checks against the current database and
// reports table sizes alongside them.
func (c *ConsolidatorHandlers) GetQuality(w http.ResponseWriter, r *http.Request) {
	q, err := migrate.CheckQuality(r.Context(), c.DB)
	if err != nil {
		c.Log.Error("Error running quality checks: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Database error")
		return
	}
	counts := make(map[string]int, len(database.Tables))
	for _, t := range database.Tables {
		n, err := utils.CountRows(r.Context(), c.DB, t)
		if err != nil {
			c.Log.Error("Error counting %s: %v", t, err)
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		counts[t] = n
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"quality":      q,
		"table_counts": counts,
	})
}

// ListRuns returns stored migration reports, newest first. ?limit caps the count.
func (c *ConsolidatorHandlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	if c.Runs == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "Run history not configured")
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			utils.RespondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}
	reports, err := c.Runs.ListReports(limit)
	if err != nil {
		c.Log.Error("Error listing runs: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Run store error")
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	utils.RespondJSON(w, http.StatusOK, reports)
}

func (c *ConsolidatorHandlers) GetRun(w http.ResponseWriter, r *http.Request) {
	if c.Runs == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "Run history not configured")
		return
	}
	report, err := c.Runs.GetReport(mux.Vars(r)["id"])
	if errors.Is(err, runstore.ErrRunNotFound) {
		utils.RespondError(w, http.StatusNotFound, "Run not found")
		return
	}
	if err != nil {
		c.Log.Error("Error loading run: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Run store error")
		return
	}
	utils.RespondJSON(w, http.StatusOK, report)
}
