package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/api/request"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
)

// MaxIDLength bounds identifiers accepted from clients. Upstream IDs are not
// necessarily UUIDs.
const MaxIDLength = 128

// ValidatePageID checks that id names a dashboard page.
func ValidatePageID(id string) error {
	if !model.ValidPage(model.PageID(id)) {
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownPage, id)
	}
	return nil
}

// ValidatePortfolioID checks that a portfolio ID is non-empty, bounded and
// printable.
func ValidatePortfolioID(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.ErrEmptyID
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("portfolio ID must be %d characters or less", MaxIDLength)
	}
	if strings.IndexFunc(id, func(r rune) bool { return !unicode.IsPrint(r) }) >= 0 {
		return fmt.Errorf("portfolio ID contains non-printable characters")
	}
	return nil
}

// ValidateSetView validates a request to switch the active page.
func ValidateSetView(req request.SetViewRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(string(req.Page)) == "" {
		errors["page"] = "page is required"
	} else if !model.ValidPage(req.Page) {
		errors["page"] = fmt.Sprintf("unknown page %q", req.Page)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateSelectPortfolio validates a portfolio selection. Clearing the
// selection is always valid.
func ValidateSelectPortfolio(req request.SelectPortfolioRequest) error {
	errors := make(map[string]string)

	if id := req.ID(); id != "" {
		if err := ValidatePortfolioID(id); err != nil {
			errors["portfolioId"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
