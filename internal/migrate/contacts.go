package migrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"job-consolidator/internal/catalog"
	"job-consolidator/internal/classify"
	"job-consolidator/internal/database"
	"job-consolidator/internal/models"
)

var errNoContactIdentity = errors.New("row has neither email nor name")

func (s *Session) migrateContacts(ctx context.Context) error {
	return s.migrateEntity(ctx, catalog.Contacts, s.contactRow)
}

// contactKey is the lowercased email when present, else the lowercased full
// name. Two different people sharing a name collapse into one contact.
func contactKey(email *string, fullName string) string {
	if email != nil {
		return "email:" + strings.ToLower(*email)
	}
	return "name:" + strings.ToLower(strings.Join(strings.Fields(fullName), " "))
}

func (s *Session) contactRow(ctx context.Context, src catalog.Source, table string, row database.Row) (rowResult, error) {
	c := models.Contact{
		FirstName:        strPtr(row, firstNameCols...),
		LastName:         strPtr(row, lastNameCols...),
		Title:            strPtr(row, contactTitleCols...),
		Email:            strPtr(row, emailCols...),
		LinkedInURL:      strPtr(row, linkedinCols...),
		Phone:            strPtr(row, phoneCols...),
		Contacted:        boolVal(row, contactedCols...),
		ResponseReceived: boolVal(row, responseCols...),
		Notes:            strPtr(row, notesCols...),
	}
	c.FullName = str(row, fullNameCols...)
	if c.FullName == "" {
		c.FullName = strings.TrimSpace(deref(c.FirstName) + " " + deref(c.LastName))
	}
	if c.FullName == "" && c.Email == nil {
		return rowSkipped, errNoContactIdentity
	}
	if c.FullName == "" {
		c.FullName = *c.Email
	}
	if c.FirstName == nil && c.LastName == nil {
		c.FirstName, c.LastName = splitName(c.FullName)
	}

	key := contactKey(c.Email, c.FullName)
	if _, ok := s.seenContacts[key]; ok {
		return rowDuplicate, nil
	}

	c.PriorityScore = s.optionalFloat(fmt.Sprintf("contacts: %s.%s %q", src.Name(), table, c.FullName), row, priorityCols...)
	if d := normalizeDate(str(row, contactedDateCols...)); d != "" {
		c.ContactedDate = &d
	}
	c.ContactType = classify.ContactType(deref(c.Title))
	var err error
	if c.CompanyID, _, err = s.ensureCompany(ctx, str(row, companyRefCols...)); err != nil {
		return rowSkipped, err
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO contacts (
		company_id, full_name, first_name, last_name, title, email, linkedin_url, phone,
		contact_type, contacted, contacted_date, response_received, notes, priority_score
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.CompanyID, c.FullName, c.FirstName, c.LastName, c.Title, c.Email, c.LinkedInURL, c.Phone,
		c.ContactType, c.Contacted, c.ContactedDate, c.ResponseReceived, c.Notes, c.PriorityScore,
	)
	if err != nil {
		return rowSkipped, fmt.Errorf("insert contact %q: %w", c.FullName, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return rowSkipped, err
	}
	s.seenContacts[key] = id
	return rowInserted, nil
}

// splitName splits "First Middle Last" into "First" and "Middle Last".
func splitName(full string) (*string, *string) {
	parts := strings.Fields(full)
	if len(parts) == 0 || strings.Contains(full, "@") {
		return nil, nil
	}
	first := parts[0]
	if len(parts) == 1 {
		return &first, nil
	}
	last := strings.Join(parts[1:], " ")
	return &first, &last
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
