package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Portfolio-Admin-Dashboard/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/config"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/metrics"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/service"
)

// Services groups what the router hands to its handlers.
type Services struct {
	System    *service.SystemService
	Dashboard *service.DashboardService
	LoadLog   *service.LoadLogService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, log *logrus.Entry) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	shellHandler := handlers.NewShellHandler(svc.Dashboard, cfg.Dashboard.Title)
	r.Get("/", shellHandler.Shell)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System, svc.Dashboard)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/dashboard", func(r chi.Router) {
			dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)
			r.Get("/nav", dashboardHandler.Nav)
			r.Get("/status", dashboardHandler.Status)
			r.Post("/reload", dashboardHandler.Reload)
			r.Get("/view", dashboardHandler.GetView)
			r.Put("/view", dashboardHandler.SetView)
			r.Put("/view/portfolio", dashboardHandler.SelectPortfolio)

			r.Route("/portfolios/{portfolioId}", func(r chi.Router) {
				r.Use(custommiddleware.ValidatePortfolioIDMiddleware)
				r.Post("/holdings", dashboardHandler.ViewHoldings)
			})

			r.Route("/pages/{page}", func(r chi.Router) {
				pageHandler := handlers.NewPageHandler(svc.Dashboard)
				r.Use(custommiddleware.ValidatePageMiddleware)
				r.Get("/", pageHandler.Page)
				r.Get("/export", pageHandler.Export)
			})
		})

		r.Route("/developer", func(r chi.Router) {
			developerHandler := handlers.NewDeveloperHandler(svc.LoadLog)
			r.Get("/logs", developerHandler.GetLogs)
			r.Get("/logs/{logId}", developerHandler.GetLog)
		})
	})

	return r
}
