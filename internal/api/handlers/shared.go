package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 16

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	var verr *validation.Error
	switch {
	case errors.Is(err, apperrors.ErrUnknownPage),
		errors.Is(err, apperrors.ErrLogNotFound):
		return http.StatusNotFound
	case errors.As(err, &verr),
		errors.Is(err, apperrors.ErrInvalidFilter),
		errors.Is(err, apperrors.ErrInvalidPagination),
		errors.Is(err, apperrors.ErrInvalidExportFormat),
		errors.Is(err, apperrors.ErrInvalidDateRange),
		errors.Is(err, apperrors.ErrInvalidCursor),
		errors.Is(err, apperrors.ErrEmptyID):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrLoadFailed),
		errors.Is(err, apperrors.ErrHoldingsFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON body into dst, rejecting unknown fields and
// trailing data.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid request body: unexpected trailing data")
	}
	return nil
}
