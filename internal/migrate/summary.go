package migrate

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"job-consolidator/internal/database"
	"job-consolidator/internal/logger"
	"job-consolidator/internal/models"
)

const (
	duplicateJobGroupsSQL = `SELECT COUNT(*) FROM (
		SELECT 1 FROM jobs GROUP BY lower(company), lower(title) HAVING COUNT(*) > 1
	)`
	orphanedApplicationsSQL = `SELECT COUNT(*) FROM applications a
		LEFT JOIN jobs j ON j.id = a.job_id WHERE j.id IS NULL`
	orphanedContactsSQL = `SELECT COUNT(*) FROM contacts c
		LEFT JOIN companies co ON co.id = c.company_id
		WHERE c.company_id IS NOT NULL AND co.id IS NULL`
)

// CheckQuality runs the post-migration integrity queries. A correct run
// reports zero for every field.
func CheckQuality(ctx context.Context, db *sql.DB) (*models.QualityReport, error) {
	q := &models.QualityReport{}
	checks := []struct {
		query string
		dst   *int
	}{
		{duplicateJobGroupsSQL, &q.DuplicateJobGroups},
		{orphanedApplicationsSQL, &q.OrphanedApplications},
		{orphanedContactsSQL, &q.OrphanedContacts},
	}
	for _, c := range checks {
		if err := db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("quality check failed: %w", err)
		}
	}
	return q, nil
}

// TableCounts returns the row count of every destination table.
func TableCounts(ctx context.Context, db *sql.DB) (map[string]int, error) {
	counts := make(map[string]int, len(database.Tables))
	for _, t := range database.Tables {
		var n int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+database.QuoteIdent(t)).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", t, err)
		}
		counts[t] = n
	}
	return counts, nil
}

// PrintSummary renders the run summary to w and mirrors the headline numbers
// to the log.
func PrintSummary(w io.Writer, log logger.Logger, r *models.Report) {
	status := "SUCCESS"
	if !r.Success {
		status = "FAILED"
		if r.FailedStage != "" {
			status += " at " + r.FailedStage
		}
	}
	fmt.Fprintf(w, "\nMigration %s: %s\n", r.RunID, status)
	fmt.Fprintf(w, "Destination: %s\n\n", r.Destination)

	totals := tablewriter.NewWriter(w)
	totals.SetHeader([]string{"Metric", "Value"})
	totals.SetAlignment(tablewriter.ALIGN_LEFT)
	totals.Append([]string{"Records processed", strconv.Itoa(r.Stats.TotalProcessed)})
	totals.Append([]string{"Records migrated", strconv.Itoa(r.Stats.TotalMigrated)})
	totals.Append([]string{"Duplicates removed", strconv.Itoa(r.Stats.DuplicatesRemoved)})
	totals.Append([]string{"Derived companies", strconv.Itoa(r.Stats.DerivedCompanies)})
	totals.Append([]string{"Synthesized jobs", strconv.Itoa(r.Stats.SynthesizedJobs)})
	totals.Append([]string{"Success rate", fmt.Sprintf("%.1f%%", r.SuccessRate)})
	totals.Append([]string{"Errors", strconv.Itoa(len(r.Stats.Errors))})
	totals.Render()

	entities := tablewriter.NewWriter(w)
	entities.SetHeader([]string{"Table", "Migrated", "Rows"})
	for _, t := range database.Tables {
		rows := "-"
		if n, ok := r.TableCounts[t]; ok {
			rows = strconv.Itoa(n)
		}
		entities.Append([]string{t, strconv.Itoa(r.Stats.Migrated[t]), rows})
	}
	entities.Render()

	if r.Quality != nil {
		fmt.Fprintf(w, "Duplicate (company, title) groups: %d\n", r.Quality.DuplicateJobGroups)
		fmt.Fprintf(w, "Applications without a job: %d\n", r.Quality.OrphanedApplications)
		fmt.Fprintf(w, "Contacts with a dangling company: %d\n", r.Quality.OrphanedContacts)
	}

	if n := len(r.Stats.Errors); n > 0 {
		fmt.Fprintf(w, "\nErrors (%d):\n", n)
		for i, e := range r.Stats.Errors {
			if i == models.MaxErrorsShown {
				fmt.Fprintf(w, "  ... and %d more\n", n-i)
				break
			}
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}

	log.Info("Run %s: processed=%d migrated=%d duplicates=%d errors=%d success=%t",
		r.RunID, r.Stats.TotalProcessed, r.Stats.TotalMigrated, r.Stats.DuplicatesRemoved,
		len(r.Stats.Errors), r.Success)
	if r.Quality != nil && (r.Quality.DuplicateJobGroups > 0 || r.Quality.OrphanedApplications > 0) {
		log.Warn("Quality checks failed: %d duplicate job groups, %d orphaned applications",
			r.Quality.DuplicateJobGroups, r.Quality.OrphanedApplications)
	}
}

// WriteReport stores r as indented JSON at path.
func WriteReport(path string, r *models.Report) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(b, '\n'), 0644)
}

// sortedKeys is used for deterministic log output.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
