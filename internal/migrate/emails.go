package migrate

import (
	"context"
	"fmt"
	"strings"

	"job-consolidator/internal/catalog"
	"job-consolidator/internal/classify"
	"job-consolidator/internal/database"
	"job-consolidator/internal/models"
)

const (
	directionReceived = "received"
	directionSent     = "sent"
)

// Emails are not deduplicated: the same message found in two sources is
// migrated twice.
func (s *Session) migrateEmails(ctx context.Context) error {
	return s.migrateEntity(ctx, catalog.Emails, s.emailRow)
}

func emailDirection(raw string) string {
	switch strings.ToLower(raw) {
	case "sent", "outgoing", "outbound", "out":
		return directionSent
	}
	return directionReceived
}

func (s *Session) emailRow(ctx context.Context, _ catalog.Source, _ string, row database.Row) (rowResult, error) {
	e := models.Email{
		MessageID:      strPtr(row, messageIDCols...),
		ThreadID:       strPtr(row, threadIDCols...),
		Direction:      emailDirection(str(row, directionCols...)),
		FromEmail:      strPtr(row, fromCols...),
		ToEmail:        strPtr(row, toCols...),
		Subject:        strPtr(row, mailSubjectCols...),
		BodyText:       strPtr(row, bodyTextCols...),
		ActionRequired: boolVal(row, actionCols...),
	}
	e.EmailType = classify.EmailType(deref(e.Subject))
	if d := normalizeDate(str(row, receivedCols...)); d != "" {
		e.ReceivedDate = &d
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO emails (
		message_id, thread_id, direction, from_email, to_email, subject, body_text,
		email_type, received_date, action_required
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.MessageID, e.ThreadID, e.Direction, e.FromEmail, e.ToEmail, e.Subject, e.BodyText,
		e.EmailType, e.ReceivedDate, e.ActionRequired,
	)
	if err != nil {
		return rowSkipped, fmt.Errorf("insert email %q: %w", deref(e.Subject), err)
	}
	return rowInserted, nil
}
