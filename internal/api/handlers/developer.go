package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/api/request"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/api/response"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/service"
)

// DeveloperHandler serves the load log.
type DeveloperHandler struct {
	loadLog *service.LoadLogService
}

// NewDeveloperHandler creates a new DeveloperHandler with the provided service dependency.
func NewDeveloperHandler(loadLog *service.LoadLogService) *DeveloperHandler {
	return &DeveloperHandler{loadLog: loadLog}
}

// GetLogs returns one page of load log entries.
//
// Endpoint: GET /api/developer/logs
// Query: level, category, startDate, endDate, source, message, sortDir, cursor, perPage
// Response: 200 OK with model.LogResponse
// Error: 400 Bad Request for invalid filters or cursor
func (h *DeveloperHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	filters, err := request.ParseLogFilters(r.URL.Query())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid filter parameters", err.Error())
		return
	}

	logs, err := h.loadLog.GetLogs(r.Context(), filters)
	if err != nil {
		response.RespondError(w, errorStatus(err), "Failed to retrieve logs", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, logs)
}

// GetLog returns a single load log entry.
//
// Endpoint: GET /api/developer/logs/{logId}
// Response: 200 OK with model.Log
// Error: 404 Not Found if the entry does not exist
func (h *DeveloperHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	entry, err := h.loadLog.GetLog(r.Context(), chi.URLParam(r, "logId"))
	if err != nil {
		response.RespondError(w, errorStatus(err), "Failed to retrieve log", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, entry)
}
