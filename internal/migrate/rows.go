package migrate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"job-consolidator/internal/database"
	"job-consolidator/internal/models"
)

// Column aliases per target field, in priority order. The first alias holding
// a non-blank value wins.
var (
	companyNameCols   = []string{"name", "company_name", "company"}
	companyRefCols    = []string{"company", "company_name", "employer", "organization"}
	websiteCols       = []string{"website", "company_url", "domain"}
	industryCols      = []string{"industry", "sector"}
	titleCols         = []string{"title", "position", "job_title", "role"}
	positionCols      = []string{"position", "title", "job_title", "role"}
	locationCols      = []string{"location", "job_location", "city"}
	descriptionCols   = []string{"description", "job_description", "summary"}
	requirementsCols  = []string{"requirements", "qualifications"}
	urlCols           = []string{"url", "job_url", "link", "apply_url"}
	salaryMinCols     = []string{"salary_min", "min_salary"}
	salaryMaxCols     = []string{"salary_max", "max_salary"}
	remoteTypeCols    = []string{"remote_type", "remote", "work_type"}
	relevanceCols     = []string{"relevance_score", "match_score", "score"}
	priorityCols      = []string{"priority_score", "priority"}
	statusCols        = []string{"status", "application_status"}
	sourceCols        = []string{"source", "platform", "ats"}
	discoveredCols    = []string{"discovered_date", "date_found", "scraped_at", "posted_date", "created_at"}
	fullNameCols      = []string{"full_name", "name", "contact_name"}
	firstNameCols     = []string{"first_name", "firstname"}
	lastNameCols      = []string{"last_name", "lastname", "surname"}
	contactTitleCols  = []string{"title", "job_title", "position", "role"}
	emailCols         = []string{"email", "email_address"}
	linkedinCols      = []string{"linkedin_url", "linkedin", "profile_url"}
	phoneCols         = []string{"phone", "phone_number", "mobile"}
	contactedCols     = []string{"contacted", "outreach_sent"}
	contactedDateCols = []string{"contacted_date", "contacted_at", "last_contacted"}
	responseCols      = []string{"response_received", "replied", "got_response"}
	notesCols         = []string{"notes", "note", "comments"}
	methodCols        = []string{"method", "application_method", "applied_via"}
	emailToCols       = []string{"email_to", "recipient", "to_email"}
	resumeCols        = []string{"resume_version", "resume"}
	coverLetterCols   = []string{"cover_letter_version", "cover_letter"}
	subjectCols       = []string{"email_subject", "subject"}
	bodyCols          = []string{"email_body", "body", "message"}
	appliedDateCols   = []string{"applied_date", "date_applied", "applied_at", "sent_date", "created_at"}
	personalizeCols   = []string{"personalization_score", "personalization"}
	messageIDCols     = []string{"message_id", "gmail_id", "msg_id"}
	threadIDCols      = []string{"thread_id", "conversation_id"}
	directionCols     = []string{"direction"}
	fromCols          = []string{"from_email", "sender", "from_address", "from"}
	toCols            = []string{"to_email", "recipient", "to_address", "to"}
	mailSubjectCols   = []string{"subject", "email_subject"}
	bodyTextCols      = []string{"body_text", "body", "content", "snippet"}
	receivedCols      = []string{"received_date", "received_at", "date", "sent_date", "timestamp"}
	actionCols        = []string{"action_required", "needs_action", "requires_action"}
	metricNameCols    = []string{"metric_name", "name", "metric", "title"}
	metricCatCols     = []string{"metric_category", "category", "type"}
	metricValueCols   = []string{"metric_value", "value", "amount"}
	metricUnitCols    = []string{"metric_unit", "unit"}
	metricDateCols    = []string{"date", "recorded_at", "achieved_date", "created_at"}
	verifiedCols      = []string{"is_verified", "verified"}
)

// str returns the first non-blank aliased value as trimmed text.
func str(row database.Row, aliases ...string) string {
	for _, a := range aliases {
		v, ok := row[a]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(text(v)); s != "" {
			return s
		}
	}
	return ""
}

func strOr(row database.Row, fallback string, aliases ...string) string {
	if s := str(row, aliases...); s != "" {
		return s
	}
	return fallback
}

func strPtr(row database.Row, aliases ...string) *string {
	if s := str(row, aliases...); s != "" {
		return &s
	}
	return nil
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "1"
		}
		return "0"
	case time.Time:
		return t.Format(models.TimestampLayout)
	default:
		return fmt.Sprint(t)
	}
}

// floatPtr parses the first aliased value as a number. Currency symbols,
// thousands separators and a trailing "k" are accepted.
func floatPtr(row database.Row, aliases ...string) (*float64, error) {
	for _, a := range aliases {
		v, ok := row[a]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case int64:
			f := float64(t)
			return &f, nil
		case float64:
			return &t, nil
		}
		s := strings.TrimSpace(text(v))
		if s == "" {
			continue
		}
		f, err := parseNumber(s)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", a, err)
		}
		return &f, nil
	}
	return nil, nil
}

func intPtr(row database.Row, aliases ...string) (*int64, error) {
	f, err := floatPtr(row, aliases...)
	if err != nil || f == nil {
		return nil, err
	}
	i := int64(math.Round(*f))
	return &i, nil
}

func parseNumber(s string) (float64, error) {
	clean := strings.NewReplacer("$", "", ",", "", "_", "", " ", "").Replace(strings.ToLower(s))
	mult := 1.0
	if strings.HasSuffix(clean, "k") {
		mult = 1000
		clean = strings.TrimSuffix(clean, "k")
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f * mult, nil
}

// boolVal reads common truthy encodings; anything else is false.
func boolVal(row database.Row, aliases ...string) bool {
	switch strings.ToLower(str(row, aliases...)) {
	case "1", "true", "yes", "y", "t":
		return true
	}
	return false
}

// normalizeDate parses s in any common layout and renders it with
// models.TimestampLayout. Unparseable values are returned unchanged.
func normalizeDate(s string) string {
	if s == "" {
		return ""
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return s
	}
	return t.Format(models.TimestampLayout)
}

// dayOf truncates a date to its day. normalized must come from normalizeDate.
func dayOf(normalized string) string {
	if len(normalized) >= 10 {
		return normalized[:10]
	}
	return normalized
}
