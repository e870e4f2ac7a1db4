// Package catalog lists the legacy SQLite databases the consolidation reads
// from and which of their tables hold each entity. The list is a superset:
// any file or table may be missing at run time.
package catalog

import (
	"path/filepath"
)

// Entity names a destination table family.
type Entity string

const (
	Companies    Entity = "companies"
	Jobs         Entity = "jobs"
	Contacts     Entity = "contacts"
	Applications Entity = "applications"
	Emails       Entity = "emails"
	Metrics      Entity = "metrics"
	Profile      Entity = "profile"
)

// Entities is the migration order. Later entities resolve companies and jobs
// through identity maps filled by earlier ones.
var Entities = []Entity{Companies, Jobs, Contacts, Applications, Emails, Metrics, Profile}

// Source is one legacy database file and its candidate tables per entity.
type Source struct {
	Path   string
	Tables map[Entity][]string
}

// TablesFor returns the candidate tables for e, in lookup order.
func (s Source) TablesFor(e Entity) []string {
	return s.Tables[e]
}

// Name is the file stem, used as the origin tag of migrated rows.
func (s Source) Name() string {
	base := filepath.Base(s.Path)
	return base[:len(base)-len(filepath.Ext(base))]
}

type entry struct {
	file   string
	tables map[Entity][]string
}

var legacy = []entry{
	{"unified_jobs.db", map[Entity][]string{
		Companies:    {"companies"},
		Jobs:         {"jobs", "job_postings"},
		Applications: {"applications"},
		Contacts:     {"contacts"},
	}},
	{"job_applications.db", map[Entity][]string{
		Jobs:         {"jobs"},
		Applications: {"applications", "job_applications"},
	}},
	{"jobs.db", map[Entity][]string{
		Companies: {"companies"},
		Jobs:      {"jobs", "discovered_jobs"},
	}},
	{"job_search.db", map[Entity][]string{
		Jobs:         {"jobs", "search_results"},
		Applications: {"applications"},
	}},
	{"greenhouse_jobs.db", map[Entity][]string{
		Jobs: {"jobs", "greenhouse_jobs"},
	}},
	{"lever_jobs.db", map[Entity][]string{
		Jobs: {"jobs", "lever_jobs"},
	}},
	{"ai_jobs.db", map[Entity][]string{
		Jobs: {"ai_jobs", "jobs"},
	}},
	{"healthcare_jobs.db", map[Entity][]string{
		Jobs: {"healthcare_jobs", "jobs"},
	}},
	{"principal_jobs.db", map[Entity][]string{
		Jobs:         {"principal_jobs", "jobs"},
		Applications: {"applications"},
	}},
	{"companies.db", map[Entity][]string{
		Companies: {"companies", "target_companies"},
		Contacts:  {"contacts"},
	}},
	{"target_companies.db", map[Entity][]string{
		Companies: {"target_companies", "companies"},
	}},
	{"contacts.db", map[Entity][]string{
		Contacts: {"contacts", "linkedin_contacts"},
	}},
	{"outreach.db", map[Entity][]string{
		Contacts:     {"contacts", "outreach_contacts"},
		Applications: {"outreach", "applications"},
	}},
	{"recruiters.db", map[Entity][]string{
		Contacts: {"recruiters", "contacts"},
	}},
	{"email_tracking.db", map[Entity][]string{
		Emails:       {"emails", "email_responses"},
		Applications: {"sent_applications"},
	}},
	{"gmail_responses.db", map[Entity][]string{
		Emails: {"emails", "responses"},
	}},
	{"career_metrics.db", map[Entity][]string{
		Metrics: {"metrics", "career_metrics"},
	}},
	{"achievements.db", map[Entity][]string{
		Metrics: {"achievements", "metrics"},
		Profile: {"profile"},
	}},
	{"profile.db", map[Entity][]string{
		Profile: {"profile", "user_profile"},
		Metrics: {"metrics"},
	}},
}

// Default returns the built-in catalog with paths resolved against baseDir.
func Default(baseDir string) []Source {
	sources := make([]Source, 0, len(legacy))
	for _, e := range legacy {
		sources = append(sources, Source{
			Path:   filepath.Join(baseDir, e.file),
			Tables: e.tables,
		})
	}
	return sources
}
