package handlers

import (
	"net/http"
	"strconv"

	"job-consolidator/internal/models"
	"job-consolidator/internal/utils"
)

const contactSelect = `SELECT id, company_id, full_name, first_name, last_name, title, email,
	linkedin_url, phone, contact_type, contacted, contacted_date, response_received, notes,
	priority_score FROM contacts`

func scanContact(s scanner) (models.Contact, error) {
	var c models.Contact
	err := s.Scan(&c.ID, &c.CompanyID, &c.FullName, &c.FirstName, &c.LastName, &c.Title, &c.Email,
		&c.LinkedInURL, &c.Phone, &c.ContactType, &c.Contacted, &c.ContactedDate,
		&c.ResponseReceived, &c.Notes, &c.PriorityScore)
	return c, err
}

// ListContacts supports ?type and ?company_id.
func (c *ConsolidatorHandlers) ListContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &where{}
	if v := q.Get("type"); v != "" {
		filter.add("contact_type = ?", v)
	}
	if v := q.Get("company_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid company ID")
			return
		}
		filter.add("company_id = ?", id)
	}
	list(c, w, r, contactSelect, filter, "full_name COLLATE NOCASE", scanContact)
}
