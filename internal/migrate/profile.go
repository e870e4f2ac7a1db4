package migrate

import (
	"context"
	"fmt"

	"job-consolidator/internal/catalog"
	"job-consolidator/internal/database"
)

var (
	profileNameCols     = []string{"full_name", "name"}
	profileEmailCols    = []string{"email", "email_address"}
	profilePhoneCols    = []string{"phone", "phone_number"}
	profileLocationCols = []string{"location", "city"}
	profileTitleCols    = []string{"title", "current_title", "headline"}
	profileYearsCols    = []string{"years_experience", "experience_years", "years_of_experience"}
	profileLinkedInCols = []string{"linkedin_url", "linkedin"}
	profileGithubCols   = []string{"github_url", "github"}
	profileSummaryCols  = []string{"summary", "bio", "about"}
	profileSkillsCols   = []string{"skills", "core_skills"}
	profileTargetCols   = []string{"target_roles", "target_titles"}
)

// migrateProfile merges every profile row into the singleton. Each field
// keeps the first non-empty value seen in source order.
func (s *Session) migrateProfile(ctx context.Context) error {
	if err := s.migrateEntity(ctx, catalog.Profile, s.profileRow); err != nil {
		return err
	}
	if s.profileFields == 0 {
		return nil
	}
	p := s.profile
	_, err := s.db.ExecContext(ctx, `INSERT INTO profile (
		id, full_name, email, phone, location, title, years_experience,
		linkedin_url, github_url, summary, skills, target_roles
	) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.FullName, p.Email, p.Phone, p.Location, p.Title, p.YearsExperience,
		p.LinkedInURL, p.GithubURL, p.Summary, p.Skills, p.TargetRoles,
	)
	if err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	s.profile.ID = 1
	return nil
}

// profileRow reports rowInserted when it filled at least one field,
// rowDuplicate when every value it carried was already set, and rowSkipped
// when it carried nothing.
func (s *Session) profileRow(_ context.Context, _ catalog.Source, _ string, row database.Row) (rowResult, error) {
	years, err := intPtr(row, profileYearsCols...)
	if err != nil {
		return rowSkipped, err
	}

	filled, offered := 0, 0
	merge := func(dst **string, aliases []string) {
		v := strPtr(row, aliases...)
		if v == nil {
			return
		}
		offered++
		if *dst == nil {
			*dst = v
			filled++
		}
	}
	p := &s.profile
	merge(&p.FullName, profileNameCols)
	merge(&p.Email, profileEmailCols)
	merge(&p.Phone, profilePhoneCols)
	merge(&p.Location, profileLocationCols)
	merge(&p.Title, profileTitleCols)
	merge(&p.LinkedInURL, profileLinkedInCols)
	merge(&p.GithubURL, profileGithubCols)
	merge(&p.Summary, profileSummaryCols)
	merge(&p.Skills, profileSkillsCols)
	merge(&p.TargetRoles, profileTargetCols)
	if years != nil && *years != 0 {
		offered++
		if p.YearsExperience == nil {
			p.YearsExperience = years
			filled++
		}
	}

	s.profileFields += filled
	switch {
	case filled > 0:
		return rowInserted, nil
	case offered > 0:
		return rowDuplicate, nil
	}
	return rowSkipped, nil
}
