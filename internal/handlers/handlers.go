package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"job-consolidator/internal/logger"
	"job-consolidator/internal/runstore"
	"job-consolidator/internal/utils"
)

// ConsolidatorHandlers serves read-only views of the unified database and
// the run history. DB should be opened read-only.
type ConsolidatorHandlers struct {
	DB   *sql.DB
	Log  logger.Logger
	Runs runstore.RunStore
}

type scanner interface {
	Scan(dest ...any) error
}

// where accumulates optional filters of a list query.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, arg any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, arg)
}

func (w *where) addFlag(column string, flag *bool) {
	if flag != nil {
		w.add(column+" = ?", *flag)
	}
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// list runs a paged query and scans every row with scan.
func list[T any](c *ConsolidatorHandlers, w http.ResponseWriter, r *http.Request, base string, filter *where, order string, scan func(scanner) (T, error)) {
	paging, err := utils.ParsePaging(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter == nil {
		filter = &where{}
	}
	query := base + filter.String() + " ORDER BY " + order + " LIMIT ? OFFSET ?"
	args := append(filter.args, paging.Limit, paging.Offset)

	rows, err := c.DB.QueryContext(r.Context(), query, args...)
	if err != nil {
		c.Log.Error("Error querying: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			c.Log.Warn("Error scanning row: %v", err)
			continue
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		c.Log.Error("Error iterating rows: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondList(w, items, paging)
}

// get loads a single row by its path id.
func get[T any](c *ConsolidatorHandlers, w http.ResponseWriter, r *http.Request, base, what string, scan func(scanner) (T, error)) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid "+what+" ID")
		return
	}
	item, err := scan(c.DB.QueryRowContext(r.Context(), base+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		utils.RespondError(w, http.StatusNotFound, strings.ToUpper(what[:1])+what[1:]+" not found")
		return
	}
	if err != nil {
		c.Log.Error("Error querying %s %d: %v", what, id, err)
		utils.RespondError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}
