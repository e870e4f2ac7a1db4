package migrate

import (
	"context"
	"errors"
	"fmt"

	"job-consolidator/internal/catalog"
	"job-consolidator/internal/database"
	"job-consolidator/internal/normalize"
)

var errNoCompanyName = errors.New("row has no company name")

func (s *Session) migrateCompanies(ctx context.Context) error {
	return s.migrateEntity(ctx, catalog.Companies, s.companyRow)
}

func (s *Session) companyRow(ctx context.Context, _ catalog.Source, _ string, row database.Row) (rowResult, error) {
	name := normalize.CompanyName(str(row, companyNameCols...))
	if name == "" {
		return rowSkipped, errNoCompanyName
	}
	key := normalize.Key(name)
	if _, ok := s.seenCompanies[key]; ok {
		return rowDuplicate, nil
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO companies (name, website, industry) VALUES (?, ?, ?)`,
		name, strPtr(row, websiteCols...), strPtr(row, industryCols...),
	)
	if err != nil {
		return rowSkipped, fmt.Errorf("insert company %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return rowSkipped, err
	}
	s.seenCompanies[key] = id
	return rowInserted, nil
}
