package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OperationResult is the body returned by mutating public operations.
type OperationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// parsePageParams reads pageSize/pageNumber query parameters, clamping the
// size to at least 1 and the page to at least 0.
func parsePageParams(r *http.Request, defaultSize int) (page, size int) {
	size = defaultSize
	page = 0
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			size = parsed
		}
	}
	if raw := r.URL.Query().Get("pageNumber"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		}
	}
	if size < 1 {
		size = 1
	}
	if page < 0 {
		page = 0
	}
	return page, size
}
