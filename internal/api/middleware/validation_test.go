package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/testutil"
)

func TestParamValidation(t *testing.T) {
	tests := []struct {
		name       string
		mw         func(http.Handler) http.Handler
		key, value string
		wantStatus int
	}{
		{"known page", middleware.ValidatePageMiddleware, "page", "portfolioHeaders", http.StatusOK},
		{"holdings page", middleware.ValidatePageMiddleware, "page", "portfolios", http.StatusOK},
		{"unknown page", middleware.ValidatePageMiddleware, "page", "funds", http.StatusNotFound},
		{"empty page", middleware.ValidatePageMiddleware, "page", "", http.StatusNotFound},
		{"numeric portfolio ID", middleware.ValidatePortfolioIDMiddleware, "portfolioId", "42", http.StatusOK},
		{"missing portfolio ID", middleware.ValidatePortfolioIDMiddleware, "portfolioId", "", http.StatusBadRequest},
		{"control characters", middleware.ValidatePortfolioIDMiddleware, "portfolioId", "p\x001", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := testutil.NewRequestWithURLParams(http.MethodGet, "/test", map[string]string{tt.key: tt.value})
			w := httptest.NewRecorder()
			tt.mw(next).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, w.Code)
			}
			if wantCalled := tt.wantStatus == http.StatusOK; called != wantCalled {
				t.Errorf("Expected next handler called = %v", wantCalled)
			}
		})
	}
}
