package handlers

import (
	"net/http"

	"job-consolidator/internal/utils"
)

func (c *ConsolidatorHandlers) Hello(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, "OK")
}

func (c *ConsolidatorHandlers) DBPing(w http.ResponseWriter, r *http.Request) {
	if err := c.DB.PingContext(r.Context()); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, "OK")
}
