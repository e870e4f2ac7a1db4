package migrate

import (
	"context"
	"errors"
	"fmt"

	"job-consolidator/internal/catalog"
	"job-consolidator/internal/database"
	"job-consolidator/internal/models"
)

const defaultMetricCategory = "general"

var errNoMetricName = errors.New("row has no metric name")

// Metrics are copied row for row. The (metric_name, date, source) constraint
// only drops collisions inside one source table.
func (s *Session) migrateMetrics(ctx context.Context) error {
	return s.migrateEntity(ctx, catalog.Metrics, s.metricRow)
}

func (s *Session) metricRow(ctx context.Context, src catalog.Source, table string, row database.Row) (rowResult, error) {
	m := models.Metric{
		MetricName:     str(row, metricNameCols...),
		MetricCategory: strOr(row, defaultMetricCategory, metricCatCols...),
		MetricUnit:     strPtr(row, metricUnitCols...),
		Date:           normalizeDate(str(row, metricDateCols...)),
		IsVerified:     boolVal(row, verifiedCols...),
		Source:         src.Name() + "." + table,
	}
	if m.MetricName == "" {
		return rowSkipped, errNoMetricName
	}
	var err error
	if m.MetricValue, err = floatPtr(row, metricValueCols...); err != nil {
		return rowSkipped, err
	}
	if m.Date == "" {
		m.Date = s.timestamp()
	}

	res, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO metrics (
		metric_name, metric_category, metric_value, metric_unit, date, is_verified, source
	) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.MetricName, m.MetricCategory, m.MetricValue, m.MetricUnit, m.Date, m.IsVerified, m.Source,
	)
	if err != nil {
		return rowSkipped, fmt.Errorf("insert metric %q: %w", m.MetricName, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return rowDuplicate, nil
	}
	return rowInserted, nil
}
