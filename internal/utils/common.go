package utils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// Paging describes the window of a list response.
type Paging struct {
	Limit    int `json:"limit"`
	Offset   int `json:"offset"`
	Returned int `json:"returned"`
}

// ParsePaging reads limit and offset from the query string.
func ParsePaging(r *http.Request) (Paging, error) {
	p := Paging{Limit: DefaultPageSize}
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return p, fmt.Errorf("invalid limit %q", v)
		}
		p.Limit = min(n, MaxPageSize)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, fmt.Errorf("invalid offset %q", v)
		}
		p.Offset = n
	}
	return p, nil
}

// ParseFlag reads a boolean query parameter. Absent means nil.
func ParseFlag(r *http.Request, name string) (*bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, v)
	}
	return &b, nil
}

// CountRows returns the row count of one of the unified tables.
func CountRows(ctx context.Context, db *sql.DB, table string) (int, error) {
	switch table {
	case "companies", "jobs", "contacts", "applications", "emails", "metrics", "profile":
	default:
		return 0, errors.New("invalid table for row count")
	}

	var n int
	if err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting %s: %w", table, err)
	}
	return n, nil
}
