// Package classify holds the keyword rule lists used to derive labels from
// free text: email type from a subject, focus tags and contact type from a
// title. Rules are evaluated top to bottom and the first match wins.
package classify

import (
	"strings"
	"unicode"
)

const (
	EmailInterview = "interview"
	EmailRejection = "rejection"
	EmailOffer     = "offer"
	EmailResponse  = "response"

	ContactCEO           = "ceo"
	ContactCTO           = "cto"
	ContactRecruiter     = "recruiter"
	ContactHiringManager = "hiring_manager"
	ContactEmployee      = "employee"
)

// Rule labels text containing any of its keywords.
type Rule struct {
	Label    string
	Keywords []string
}

// RuleSet is an ordered list of rules with a fallback label.
// With Words set, keywords must match whole words instead of substrings.
type RuleSet struct {
	Rules    []Rule
	Fallback string
	Words    bool
}

// Classify returns the label of the first matching rule, or the fallback.
func (rs RuleSet) Classify(text string) string {
	if label, ok := rs.Match(text); ok {
		return label
	}
	return rs.Fallback
}

// Match reports the first matching rule label.
func (rs RuleSet) Match(text string) (string, bool) {
	haystack := strings.ToLower(text)
	if rs.Words {
		haystack = wordString(haystack)
	}
	for _, r := range rs.Rules {
		for _, kw := range r.Keywords {
			needle := strings.ToLower(kw)
			if rs.Words {
				needle = wordString(needle)
			}
			if needle != "" && strings.Contains(haystack, needle) {
				return r.Label, true
			}
		}
	}
	return "", false
}

// wordString rewrites s as " w1 w2 ... " so a padded needle only matches whole words.
func wordString(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return ""
	}
	return " " + strings.Join(words, " ") + " "
}

var emailRules = RuleSet{
	Rules: []Rule{
		{Label: EmailInterview, Keywords: []string{"interview"}},
		{Label: EmailRejection, Keywords: []string{"reject", "unfortunately"}},
		{Label: EmailOffer, Keywords: []string{"offer"}},
	},
	Fallback: EmailResponse,
}

// EmailType classifies an email by its subject line.
func EmailType(subject string) string {
	return emailRules.Classify(subject)
}

var (
	aimlRule      = RuleSet{Rules: []Rule{{Label: "ai_ml", Keywords: []string{"ai", "ml", "machine learning"}}}}
	healthRule    = RuleSet{Rules: []Rule{{Label: "healthcare", Keywords: []string{"health", "medical"}}}}
	principalRule = RuleSet{Rules: []Rule{{Label: "principal_plus", Keywords: []string{"principal", "staff", "director"}}}}
)

// JobTags are the heuristic focus flags derived from a job title.
type JobTags struct {
	AIML          bool
	Healthcare    bool
	PrincipalPlus bool
}

// TagJob derives the focus flags by case-insensitive substring search.
func TagJob(title string) JobTags {
	_, aiml := aimlRule.Match(title)
	_, health := healthRule.Match(title)
	_, principal := principalRule.Match(title)
	return JobTags{AIML: aiml, Healthcare: health, PrincipalPlus: principal}
}

var contactRules = RuleSet{
	Rules: []Rule{
		{Label: ContactCEO, Keywords: []string{"ceo", "chief executive", "founder"}},
		{Label: ContactCTO, Keywords: []string{"cto", "chief technology"}},
		{Label: ContactRecruiter, Keywords: []string{"recruiter", "recruiting", "talent", "sourcer"}},
		{Label: ContactHiringManager, Keywords: []string{"manager", "director", "head", "lead", "vp"}},
	},
	Fallback: ContactEmployee,
	Words:    true,
}

// ContactType derives a contact's role from their title. Matching is by
// whole word so "Director" does not read as "cto".
func ContactType(title string) string {
	return contactRules.Classify(title)
}
