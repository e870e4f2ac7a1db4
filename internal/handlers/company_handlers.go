package handlers

import (
	"net/http"

	"job-consolidator/internal/models"
)

const companySelect = `SELECT id, name, website, industry, created_at FROM companies`

func scanCompany(s scanner) (models.Company, error) {
	var c models.Company
	err := s.Scan(&c.ID, &c.Name, &c.Website, &c.Industry, &c.CreatedAt)
	return c, err
}

// ListCompanies lists companies by name. ?q filters on a name substring.
func (c *ConsolidatorHandlers) ListCompanies(w http.ResponseWriter, r *http.Request) {
	filter := &where{}
	if q := r.URL.Query().Get("q"); q != "" {
		filter.add("name LIKE ?", "%"+q+"%")
	}
	list(c, w, r, companySelect, filter, "name COLLATE NOCASE", scanCompany)
}

func (c *ConsolidatorHandlers) GetCompany(w http.ResponseWriter, r *http.Request) {
	get(c, w, r, companySelect, "company", scanCompany)
}
