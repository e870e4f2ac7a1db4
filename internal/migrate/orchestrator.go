package migrate

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"job-consolidator/internal/database"
	"job-consolidator/internal/models"
)

const (
	stagingSuffix     = ".staging"
	createSchemaStage = "create_schema"
	finalizeStage     = "finalize"
)

// Execute runs the whole consolidation: schema, every stage in order, the
// quality checks and the summary. The summary is printed even when the run
// fails. The returned report is never nil.
//
// Without staging a failed stage leaves the partially built destination in
// place. With staging the previous destination survives any failure.
func (s *Session) Execute(ctx context.Context) (*models.Report, error) {
	report := &models.Report{
		RunID:       uuid.New().String(),
		Destination: s.cfg.DestPath,
		StartedAt:   s.timestamp(),
	}
	s.log.Info("Starting migration %s into %s (%d sources)", report.RunID, s.cfg.DestPath, len(s.cfg.Sources))

	err := s.build(ctx, report)
	report.Success = err == nil
	if err != nil {
		s.log.Error("Migration failed: %v", err)
	}
	s.finish(report)
	return report, err
}

func (s *Session) build(ctx context.Context, report *models.Report) error {
	buildPath := s.cfg.DestPath
	if s.cfg.Staged {
		buildPath += stagingSuffix
	}
	s.dest = database.NewDBManager(buildPath, s.log)
	defer s.dest.Close()

	if err := s.dest.CreateUnifiedDatabase(ctx, s.cfg.SchemaSQL); err != nil {
		report.FailedStage = createSchemaStage
		return err
	}
	s.db = s.dest.DB

	for _, st := range s.stages {
		if err := s.runStage(ctx, st); err != nil {
			report.FailedStage = st.name
			s.collect(ctx, report)
			s.discardStaging()
			return fmt.Errorf("%w: %s: %v", ErrStageFailed, st.name, err)
		}
	}

	s.collect(ctx, report)
	if s.cfg.Staged {
		if err := s.dest.SwapInto(s.cfg.DestPath); err != nil {
			report.FailedStage = finalizeStage
			s.discardStaging()
			return err
		}
		s.log.Info("Moved %s into place", buildPath)
	}
	return nil
}

// collect gathers quality and table counts from whatever was written. Failures
// here are recorded but never fail the run.
func (s *Session) collect(ctx context.Context, report *models.Report) {
	if s.db == nil || s.dest.DB == nil {
		return
	}
	q, err := CheckQuality(ctx, s.db)
	if err != nil {
		s.recordError("quality: %v", err)
	} else {
		report.Quality = q
	}
	counts, err := TableCounts(ctx, s.db)
	if err != nil {
		s.recordError("table counts: %v", err)
		return
	}
	report.TableCounts = counts
	for _, t := range sortedKeys(counts) {
		s.log.Debug("%s: %d rows", t, counts[t])
	}
}

func (s *Session) discardStaging() {
	if !s.cfg.Staged {
		return
	}
	path := s.dest.Path()
	s.dest.Close()
	if err := database.RemoveDatabaseFiles(path); err != nil {
		s.log.Warn("Could not remove staging database %s: %v", path, err)
		return
	}
	s.log.Info("Discarded staging database, %s left unchanged", s.cfg.DestPath)
}

func (s *Session) finish(report *models.Report) {
	report.FinishedAt = s.timestamp()
	report.Stats = s.Stats()
	report.SuccessRate = report.Stats.SuccessRate()

	PrintSummary(s.cfg.Out, s.log, report)

	if s.cfg.ReportPath != "" {
		if err := WriteReport(s.cfg.ReportPath, report); err != nil {
			s.log.Error("Failed to write report to %s: %v", s.cfg.ReportPath, err)
		} else {
			s.log.Info("Report written to %s", s.cfg.ReportPath)
		}
	}
	if s.cfg.Runs != nil {
		if err := s.cfg.Runs.SaveReport(*report); err != nil {
			s.log.Error("Failed to record run %s: %v", report.RunID, err)
		}
	}
}
