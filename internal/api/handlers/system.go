package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/api/response"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/service"
)

// StoreStatusProvider reports the state of the record store.
type StoreStatusProvider interface {
	Status() model.StoreStatus
}

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
	store         StoreStatusProvider
}

// NewSystemHandler creates a new SystemHandler. store may be nil, in which
// case health reports only the database.
func NewSystemHandler(systemService *service.SystemService, store StoreStatusProvider) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
		store:         store,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Store    string `json:"store,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Store states reported by the health endpoint.
const (
	storeEmpty   = "empty"
	storeLoading = "loading"
	storeReady   = "ready"
	storeError   = "error"
)

// Health checks database connectivity and the record store.
// A failed bulk load degrades health but keeps the endpoint at 200, since the
// dashboard still serves the previously loaded records.
//
// Endpoint: GET /api/system/health
// Response: 200 OK with HealthResponse
// Error: 503 Service Unavailable if the database is unreachable
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	resp := HealthResponse{
		Status:   "healthy",
		Database: "connected",
	}
	if h.store != nil {
		status := h.store.Status()
		switch {
		case status.Loading:
			resp.Store = storeLoading
		case status.Error != nil:
			resp.Store = storeError
			resp.Status = "degraded"
			resp.Error = *status.Error
		case status.LoadedAt != nil:
			resp.Store = storeReady
		default:
			resp.Store = storeEmpty
		}
	}
	response.RespondJSON(w, http.StatusOK, resp)
}

// VersionInfoResponse represents the version check response containing the
// application version, the load log schema version and feature availability.
type VersionInfoResponse struct {
	AppVersion string          `json:"app_version"`
	DbVersion  string          `json:"db_version"`
	Features   map[string]bool `json:"features"`
}

// Version handles GET requests to retrieve version information.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with VersionInfoResponse
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	version, err := h.systemService.CheckVersion()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to get version information", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, VersionInfoResponse{
		AppVersion: version.AppVersion,
		DbVersion:  version.DbVersion,
		Features:   version.Features,
	})
}
