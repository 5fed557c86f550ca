// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/api/response"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/validation"
)

// ValidatePageMiddleware checks that the page URL parameter names a dashboard
// page. Unknown pages get 404 Not Found.
//
//	r.Route("/pages/{page}", func(r chi.Router) {
//	    r.Use(middleware.ValidatePageMiddleware)
//	    r.Get("/", handler.Page)
//	})
func ValidatePageMiddleware(next http.Handler) http.Handler {
	return checkParam("page", validation.ValidatePageID, http.StatusNotFound, "unknown page", next)
}

// ValidatePortfolioIDMiddleware rejects a missing or malformed portfolioId
// URL parameter with 400 Bad Request.
func ValidatePortfolioIDMiddleware(next http.Handler) http.Handler {
	return checkParam("portfolioId", validation.ValidatePortfolioID, http.StatusBadRequest, "invalid portfolio ID", next)
}

func checkParam(key string, check func(string) error, status int, message string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := check(chi.URLParam(r, key)); err != nil {
			response.RespondError(w, status, message, err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}
