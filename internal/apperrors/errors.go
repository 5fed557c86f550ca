package apperrors

import "errors"

// Lookup errors indicate that a requested resource does not exist.
var (
	// ErrUnknownPage indicates that a page ID is not part of the dashboard navigation.
	ErrUnknownPage = errors.New("unknown page")

	// ErrLogNotFound indicates that a load log entry with the given ID does not exist.
	ErrLogNotFound = errors.New("log entry not found")
)

// Validation errors indicate that a request cannot be served as sent.
var (
	// ErrInvalidDateRange indicates that the start date is after the end date.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidPagination indicates a page index or page size outside the accepted range.
	ErrInvalidPagination = errors.New("invalid pagination")

	// ErrInvalidFilter indicates a filter parameter the page does not accept.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrInvalidExportFormat indicates an export format other than csv or xlsx.
	ErrInvalidExportFormat = errors.New("invalid export format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	ErrInvalidCursor = errors.New("invalid cursor")
)

// Operation errors indicate that the dashboard could not complete a request.
var (
	// ErrLoadFailed indicates that the bulk load from the admin API failed.
	// The previously loaded collections are kept.
	ErrLoadFailed = errors.New("failed to load records")

	// ErrHoldingsFailed indicates that fetching holdings for a portfolio failed.
	ErrHoldingsFailed = errors.New("failed to load holdings")

	// ErrFailedToRetrieve is a generic failure reading operational data.
	ErrFailedToRetrieve = errors.New("failed to retrieve data")
)
