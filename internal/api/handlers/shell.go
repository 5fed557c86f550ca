package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/api/response"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/service"
)

//go:embed templates/shell.html
var templateFS embed.FS

var shellTemplate = template.Must(template.ParseFS(templateFS, "templates/shell.html"))

// ShellHandler serves the dashboard page. The shell holds the navigation and
// loads the active grid lazily from the JSON API.
type ShellHandler struct {
	dashboard *service.DashboardService
	title     string
}

// NewShellHandler creates a new ShellHandler.
func NewShellHandler(dashboard *service.DashboardService, title string) *ShellHandler {
	if title == "" {
		title = "Portfolio Admin"
	}
	return &ShellHandler{dashboard: dashboard, title: title}
}

type shellData struct {
	Title      string
	Items      []model.NavItem
	ActivePage model.PageID
	Status     model.StoreStatus
}

// Shell renders the dashboard.
//
// Endpoint: GET /
// Response: 200 OK with text/html
func (h *ShellHandler) Shell(w http.ResponseWriter, r *http.Request) {
	items, active := h.dashboard.Navigation()
	data := shellData{
		Title:      h.title,
		Items:      items,
		ActivePage: active,
		Status:     h.dashboard.Status(),
	}

	var buf bytes.Buffer
	if err := shellTemplate.Execute(&buf, data); err != nil {
		logrus.WithError(err).Error("failed to render dashboard shell")
		response.RespondError(w, http.StatusInternalServerError, "failed to render dashboard", "")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
