package handlers

import (
	"net/http"

	"job-consolidator/internal/models"
)

const emailSelect = `SELECT id, message_id, thread_id, direction, from_email, to_email, subject,
	body_text, email_type, received_date, action_required FROM emails`

func scanEmail(s scanner) (models.Email, error) {
	var e models.Email
	err := s.Scan(&e.ID, &e.MessageID, &e.ThreadID, &e.Direction, &e.FromEmail, &e.ToEmail,
		&e.Subject, &e.BodyText, &e.EmailType, &e.ReceivedDate, &e.ActionRequired)
	return e, err
}

// ListEmails supports ?type (interview, rejection, offer, response) and ?direction.
func (c *ConsolidatorHandlers) ListEmails(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &where{}
	if v := q.Get("type"); v != "" {
		filter.add("email_type = ?", v)
	}
	if v := q.Get("direction"); v != "" {
		filter.add("direction = ?", v)
	}
	list(c, w, r, emailSelect, filter, "received_date DESC, id", scanEmail)
}
