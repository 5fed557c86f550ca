package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
)

// NewRequestWithURLParams builds a request whose chi route context carries
// params, so handlers reading chi.URLParam can be called directly:
//
//	req := testutil.NewRequestWithURLParams(
//	    http.MethodPost,
//	    "/api/dashboard/portfolios/p1/holdings",
//	    map[string]string{"portfolioId": "p1"},
//	)
func NewRequestWithURLParams(method, target string, params map[string]string) *http.Request {
	return withURLParams(httptest.NewRequest(method, target, nil), params)
}

// NewJSONRequest builds a request with a JSON body.
func NewJSONRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	if len(params) == 0 {
		return req
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
