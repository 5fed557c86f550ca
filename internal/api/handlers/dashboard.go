package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/api/request"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/api/response"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/service"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/validation"
)

// DashboardHandler handles navigation, store status and view selection.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// NavResponse lists the navigation items and the active page.
type NavResponse struct {
	Items      []model.NavItem `json:"items"`
	ActivePage model.PageID    `json:"activePage"`
}

// ReloadResponse reports the outcome of a manual bulk load.
type ReloadResponse struct {
	Status     model.StoreStatus `json:"status"`
	DurationMS int64             `json:"durationMs"`
}

// Nav returns the navigation items.
//
// Endpoint: GET /api/dashboard/nav
// Response: 200 OK with NavResponse
func (h *DashboardHandler) Nav(w http.ResponseWriter, r *http.Request) {
	items, active := h.dashboard.Navigation()
	response.RespondJSON(w, http.StatusOK, NavResponse{Items: items, ActivePage: active})
}

// Status returns the loading flag, the last error, the load time and the
// size of each collection.
//
// Endpoint: GET /api/dashboard/status
// Response: 200 OK with model.StoreStatus
func (h *DashboardHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.dashboard.Status())
}

// Reload runs a bulk load and waits for it.
//
// Endpoint: POST /api/dashboard/reload
// Response: 200 OK with ReloadResponse
// Error: 502 Bad Gateway with the store status as details if the load failed
func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	res := h.dashboard.Reload(r.Context(), service.SourceManual)
	if res.Err != nil {
		response.RespondError(w, errorStatus(res.Err), "failed to load records", h.dashboard.Status())
		return
	}
	response.RespondJSON(w, http.StatusOK, ReloadResponse{
		Status:     h.dashboard.Status(),
		DurationMS: res.Duration.Milliseconds(),
	})
}

// GetView returns the active page and selected portfolio.
//
// Endpoint: GET /api/dashboard/view
// Response: 200 OK with model.ViewState
func (h *DashboardHandler) GetView(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.dashboard.View())
}

// SetView switches the active page.
//
// Endpoint: PUT /api/dashboard/view
// Request body: request.SetViewRequest
// Response: 200 OK with model.ViewState
// Error: 400 Bad Request for a malformed body or unknown page
func (h *DashboardHandler) SetView(w http.ResponseWriter, r *http.Request) {
	var req request.SetViewRequest
	if err := decodeJSON(r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateSetView(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	view, err := h.dashboard.SetActivePage(req.Page)
	if err != nil {
		response.RespondError(w, errorStatus(err), "failed to set active page", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, view)
}

// SelectPortfolio sets or clears the portfolio shown on the holdings page.
// Holdings are fetched in the background; the response carries the new
// selection immediately.
//
// Endpoint: PUT /api/dashboard/view/portfolio
// Request body: request.SelectPortfolioRequest
// Response: 202 Accepted with model.ViewState
// Error: 400 Bad Request for a malformed body or ID
func (h *DashboardHandler) SelectPortfolio(w http.ResponseWriter, r *http.Request) {
	var req request.SelectPortfolioRequest
	if err := decodeJSON(r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateSelectPortfolio(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusAccepted, h.dashboard.SelectPortfolio(r.Context(), req.ID()))
}

// ViewHoldings is the "view holdings" row action of the portfolio headers
// page: it selects the portfolio and switches to the holdings page.
//
// Endpoint: POST /api/dashboard/portfolios/{portfolioId}/holdings
// Response: 202 Accepted with model.ViewState
func (h *DashboardHandler) ViewHoldings(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "portfolioId")
	response.RespondJSON(w, http.StatusAccepted, h.dashboard.ViewHoldings(r.Context(), portfolioID))
}
