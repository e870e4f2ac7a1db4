package models

// Company represents a consolidated company record.
type Company struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Website   *string `json:"website,omitempty"`
	Industry  *string `json:"industry,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// Job represents a consolidated job posting.
type Job struct {
	ID              int64    `json:"id"`
	JobID           string   `json:"job_id"` // fingerprint of the dedup key
	Source          string   `json:"source"`
	Company         string   `json:"company"`
	CompanyID       *int64   `json:"company_id,omitempty"`
	Title           string   `json:"title"`
	Location        *string  `json:"location,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Requirements    *string  `json:"requirements,omitempty"`
	URL             *string  `json:"url,omitempty"`
	SalaryMin       *int64   `json:"salary_min,omitempty"`
	SalaryMax       *int64   `json:"salary_max,omitempty"`
	RemoteType      *string  `json:"remote_type,omitempty"`
	RelevanceScore  *float64 `json:"relevance_score,omitempty"`
	PriorityScore   *float64 `json:"priority_score,omitempty"`
	IsAIMLFocused   bool     `json:"is_ai_ml_focused"`
	IsHealthcare    bool     `json:"is_healthcare"`
	IsPrincipalPlus bool     `json:"is_principal_plus"`
	Status          string   `json:"status"`
	DiscoveredDate  string   `json:"discovered_date"`
}

// Contact represents a person at a company.
type Contact struct {
	ID               int64    `json:"id"`
	CompanyID        *int64   `json:"company_id,omitempty"`
	FullName         string   `json:"full_name"`
	FirstName        *string  `json:"first_name,omitempty"`
	LastName         *string  `json:"last_name,omitempty"`
	Title            *string  `json:"title,omitempty"`
	Email            *string  `json:"email,omitempty"`
	LinkedInURL      *string  `json:"linkedin_url,omitempty"`
	Phone            *string  `json:"phone,omitempty"`
	ContactType      string   `json:"contact_type"` // ceo, cto, recruiter, hiring_manager, employee
	Contacted        bool     `json:"contacted"`
	ContactedDate    *string  `json:"contacted_date,omitempty"`
	ResponseReceived bool     `json:"response_received"`
	Notes            *string  `json:"notes,omitempty"`
	PriorityScore    *float64 `json:"priority_score,omitempty"`
}

// Application represents one submitted application, always linked to a job.
type Application struct {
	ID                   int64    `json:"id"`
	JobID                int64    `json:"job_id"`
	CompanyID            *int64   `json:"company_id,omitempty"`
	CompanyName          string   `json:"company_name"`
	Position             string   `json:"position"`
	Method               *string  `json:"method,omitempty"`
	EmailTo              *string  `json:"email_to,omitempty"`
	ResumeVersion        *string  `json:"resume_version,omitempty"`
	CoverLetterVersion   *string  `json:"cover_letter_version,omitempty"`
	EmailSubject         *string  `json:"email_subject,omitempty"`
	EmailBody            *string  `json:"email_body,omitempty"`
	AppliedDate          string   `json:"applied_date"`
	Status               string   `json:"status"`
	ResponseReceived     bool     `json:"response_received"`
	PersonalizationScore *float64 `json:"personalization_score,omitempty"`
}

// Email represents a sent or received message.
type Email struct {
	ID             int64   `json:"id"`
	MessageID      *string `json:"message_id,omitempty"`
	ThreadID       *string `json:"thread_id,omitempty"`
	Direction      string  `json:"direction"` // received or sent
	FromEmail      *string `json:"from_email,omitempty"`
	ToEmail        *string `json:"to_email,omitempty"`
	Subject        *string `json:"subject,omitempty"`
	BodyText       *string `json:"body_text,omitempty"`
	EmailType      string  `json:"email_type"` // interview, rejection, offer, response
	ReceivedDate   *string `json:"received_date,omitempty"`
	ActionRequired bool    `json:"action_required"`
}

// Metric represents a single recorded career metric value.
type Metric struct {
	ID             int64    `json:"id"`
	MetricName     string   `json:"metric_name"`
	MetricCategory string   `json:"metric_category"`
	MetricValue    *float64 `json:"metric_value,omitempty"`
	MetricUnit     *string  `json:"metric_unit,omitempty"`
	Date           string   `json:"date"`
	IsVerified     bool     `json:"is_verified"`
	Source         string   `json:"source"`
}

// Profile is the singleton candidate profile (id is always 1).
type Profile struct {
	ID              int64   `json:"id"`
	FullName        *string `json:"full_name,omitempty"`
	Email           *string `json:"email,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Location        *string `json:"location,omitempty"`
	Title           *string `json:"title,omitempty"`
	YearsExperience *int64  `json:"years_experience,omitempty"`
	LinkedInURL     *string `json:"linkedin_url,omitempty"`
	GithubURL       *string `json:"github_url,omitempty"`
	Summary         *string `json:"summary,omitempty"`
	Skills          *string `json:"skills,omitempty"`
	TargetRoles     *string `json:"target_roles,omitempty"`
}

// Stats holds the running counters of one migration session.
type Stats struct {
	TotalProcessed    int            `json:"total_records_processed"`
	TotalMigrated     int            `json:"total_records_migrated"`
	DuplicatesRemoved int            `json:"duplicates_removed"`
	SynthesizedJobs   int            `json:"synthesized_jobs"`
	DerivedCompanies  int            `json:"derived_companies"`
	Migrated          map[string]int `json:"migrated"`
	Errors            []string       `json:"errors"`
}

// SuccessRate is migrated/processed as a percentage; 0 when nothing was processed.
func (s Stats) SuccessRate() float64 {
	if s.TotalProcessed == 0 {
		return 0
	}
	return float64(s.TotalMigrated) / float64(s.TotalProcessed) * 100
}

// QualityReport holds the post-migration integrity checks.
type QualityReport struct {
	DuplicateJobGroups   int `json:"duplicate_job_groups"`
	OrphanedApplications int `json:"orphaned_applications"`
	OrphanedContacts     int `json:"orphaned_contacts"`
}

// Report is the durable outcome of one migration run.
type Report struct {
	RunID       string         `json:"run_id"`
	Destination string         `json:"destination"`
	StartedAt   string         `json:"started_at"`
	FinishedAt  string         `json:"finished_at"`
	Success     bool           `json:"success"`
	FailedStage string         `json:"failed_stage,omitempty"`
	Stats       Stats          `json:"stats"`
	SuccessRate float64        `json:"success_rate"`
	Quality     *QualityReport `json:"quality,omitempty"`
	TableCounts map[string]int `json:"table_counts,omitempty"`
}

// EnvParams is the runtime configuration read from the environment.
type EnvParams struct {
	DataDir      string
	DbPath       string
	SchemaPath   string
	ReportPath   string
	RunStorePath string
	LogLevel     string
	ApiPort      string
	JWTToken     string
	CertFilePath string
	KeyFilePath  string
	StagedBuild  bool
}

// ContextKey for storing request scoped values.
type ContextKey string

const SubjectContextKey ContextKey = "subject"

const (
	DefaultDBPath   = "unified_platform.db"
	DefaultDataDir  = "."
	DefaultApiPort  = "9080"
	RunStoreFile    = "migration_runs.db"
	TimestampLayout = "2006-01-02 15:04:05"
	MaxErrorsShown  = 10
)

const StartupText = `
  _   _       _  __ _          _   ____  _       _    __
 | | | |_ __ (_)/ _(_) ___  __| | |  _ \| | __ _| |_ / _| ___  _ __ _ __ ___
 | | | | '_ \| | |_| |/ _ \/ _' | | |_) | |/ _' | __| |_ / _ \| '__| '_ ' _ \
 | |_| | | | | |  _| |  __/ (_| | |  __/| | (_| | |_|  _| (_) | |  | | | | | |
  \___/|_| |_|_|_| |_|\___|\__,_| |_|   |_|\__,_|\__|_|  \___/|_|  |_| |_| |_|
`
