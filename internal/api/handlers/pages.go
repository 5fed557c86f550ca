package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/api/request"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/api/response"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/pages"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/service"
)

// PageHandler serves rendered grids and their exports.
type PageHandler struct {
	dashboard *service.DashboardService
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(dashboard *service.DashboardService) *PageHandler {
	return &PageHandler{dashboard: dashboard}
}

// Page renders one page of a grid. Every query parameter other than search,
// page and pageSize is a filter value; filters the page does not know are
// rejected.
//
// Endpoint: GET /api/dashboard/pages/{page}
// Response: 200 OK with pages.Grid
// Error: 400 Bad Request for bad filters or paging, 404 Not Found for an unknown page
func (h *PageHandler) Page(w http.ResponseWriter, r *http.Request) {
	page := model.PageID(chi.URLParam(r, "page"))

	q, err := request.ParsePageQuery(r.URL.Query())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid page query", err.Error())
		return
	}

	grid, err := h.dashboard.Page(page, q)
	if err != nil {
		response.RespondError(w, errorStatus(err), "failed to render page", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, grid)
}

// Export writes every row matching the query as a download.
//
// Endpoint: GET /api/dashboard/pages/{page}/export?format=csv|xlsx
// Response: 200 OK with the file
// Error: 400 Bad Request for an unknown format or bad filters
func (h *PageHandler) Export(w http.ResponseWriter, r *http.Request) {
	page := model.PageID(chi.URLParam(r, "page"))

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = pages.FormatCSV
	}
	contentType, err := pages.ContentType(format)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid export format", err.Error())
		return
	}

	q, err := request.ParsePageQuery(r.URL.Query())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid page query", err.Error())
		return
	}

	// Render into a buffer so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := h.dashboard.Export(&buf, page, q, format); err != nil {
		response.RespondError(w, errorStatus(err), "failed to export page", err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(page)+"."+format))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
