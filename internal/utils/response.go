package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// APIResponse is the envelope of every inspection API response.
type APIResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Paging  *Paging     `json:"paging,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// RespondJSON sends payload wrapped in the envelope.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	resp := APIResponse{Data: payload}
	if payload == nil {
		resp.Message = http.StatusText(status)
	}
	writeJSON(w, status, resp)
}

// RespondList sends a page of items. A nil slice is sent as [].
func RespondList[T any](w http.ResponseWriter, items []T, p Paging) {
	if items == nil {
		items = []T{}
	}
	p.Returned = len(items)
	writeJSON(w, http.StatusOK, APIResponse{Data: items, Paging: &p})
}

func RespondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{Error: message})
}
