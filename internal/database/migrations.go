package database

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrSchemaUnavailable is returned when the DDL script cannot be loaded.
var ErrSchemaUnavailable = errors.New("unified schema unavailable")

// LoadSchema returns the DDL script at path, or the built-in script when path
// is empty. It never touches the destination database.
func LoadSchema(path string) (string, error) {
	if path == "" {
		return unifiedSchemaSQL, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSchemaUnavailable, err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrSchemaUnavailable, path)
	}
	return string(b), nil
}

// Tables lists every destination table in creation order.
var Tables = []string{"companies", "jobs", "contacts", "applications", "emails", "metrics", "profile"}

// unifiedSchemaSQL creates the consolidated schema. It runs against a freshly
// created file, so there is no IF NOT EXISTS.
const unifiedSchemaSQL = `
-- Table: companies
CREATE TABLE companies (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE COLLATE NOCASE,
    website TEXT,
    industry TEXT,
    created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Table: jobs
CREATE TABLE jobs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    job_id TEXT NOT NULL UNIQUE, -- fingerprint of (company, title)
    source TEXT NOT NULL,
    company TEXT NOT NULL,
    company_id INTEGER,
    title TEXT NOT NULL,
    location TEXT,
    description TEXT,
    requirements TEXT,
    url TEXT,
    salary_min INTEGER,
    salary_max INTEGER,
    remote_type TEXT,
    relevance_score REAL,
    priority_score REAL,
    is_ai_ml_focused INTEGER NOT NULL DEFAULT 0,
    is_healthcare INTEGER NOT NULL DEFAULT 0,
    is_principal_plus INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'discovered',
    discovered_date TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE SET NULL
);
CREATE INDEX idx_jobs_company_id ON jobs(company_id);
CREATE INDEX idx_jobs_company_title ON jobs(company, title);
CREATE INDEX idx_jobs_status ON jobs(status);

-- Table: contacts
CREATE TABLE contacts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    company_id INTEGER,
    full_name TEXT NOT NULL,
    first_name TEXT,
    last_name TEXT,
    title TEXT,
    email TEXT,
    linkedin_url TEXT,
    phone TEXT,
    contact_type TEXT NOT NULL DEFAULT 'employee', -- ceo, cto, recruiter, hiring_manager, employee
    contacted INTEGER NOT NULL DEFAULT 0,
    contacted_date TEXT,
    response_received INTEGER NOT NULL DEFAULT 0,
    notes TEXT,
    priority_score REAL,
    FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE SET NULL
);
CREATE INDEX idx_contacts_company_id ON contacts(company_id);
CREATE INDEX idx_contacts_email ON contacts(email);

-- Table: applications
CREATE TABLE applications (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    job_id INTEGER NOT NULL,
    company_id INTEGER,
    company_name TEXT NOT NULL,
    position TEXT NOT NULL,
    method TEXT,
    email_to TEXT,
    resume_version TEXT,
    cover_letter_version TEXT,
    email_subject TEXT,
    email_body TEXT,
    applied_date TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'applied',
    response_received INTEGER NOT NULL DEFAULT 0,
    personalization_score REAL,
    FOREIGN KEY (job_id) REFERENCES jobs(id) ON DELETE CASCADE,
    FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE SET NULL
);
CREATE INDEX idx_applications_job_id ON applications(job_id);
CREATE INDEX idx_applications_company_id ON applications(company_id);
CREATE INDEX idx_applications_applied_date ON applications(applied_date);

-- Table: emails
CREATE TABLE emails (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    message_id TEXT,
    thread_id TEXT,
    direction TEXT NOT NULL DEFAULT 'received', -- received or sent
    from_email TEXT,
    to_email TEXT,
    subject TEXT,
    body_text TEXT,
    email_type TEXT NOT NULL DEFAULT 'response', -- interview, rejection, offer, response
    received_date TEXT,
    action_required INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX idx_emails_type ON emails(email_type);
CREATE INDEX idx_emails_received_date ON emails(received_date DESC);

-- Table: metrics
CREATE TABLE metrics (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    metric_name TEXT NOT NULL,
    metric_category TEXT NOT NULL DEFAULT 'general',
    metric_value REAL,
    metric_unit TEXT,
    date TEXT NOT NULL,
    is_verified INTEGER NOT NULL DEFAULT 0,
    source TEXT NOT NULL,
    UNIQUE (metric_name, date, source)
);
CREATE INDEX idx_metrics_category ON metrics(metric_category);

-- Table: profile (singleton)
CREATE TABLE profile (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    full_name TEXT,
    email TEXT,
    phone TEXT,
    location TEXT,
    title TEXT,
    years_experience INTEGER,
    linkedin_url TEXT,
    github_url TEXT,
    summary TEXT,
    skills TEXT,
    target_roles TEXT
);
`
