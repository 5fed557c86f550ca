// Package columns turns backend column metadata, or a sample row, into grid
// column descriptors.
package columns

import (
	"encoding/json"
	"regexp"

	"golang.org/x/text/language"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
)

// Grid filter kinds.
const (
	FilterText   = "agTextColumnFilter"
	FilterNumber = "agNumberColumnFilter"

	DatatypeNumber = "number"
)

// DefaultIDPattern matches any name ending in "id", ignoring case, so
// "client_id", "portfolioId" and "uuid" all count as identifiers.
var DefaultIDPattern = regexp.MustCompile(`(?i)(.*_)?id$`)

// IsIDField reports whether a field name looks like an identifier.
// A nil pattern uses DefaultIDPattern.
func IsIDField(field string, pattern *regexp.Regexp) bool {
	if field == "" {
		return false
	}
	if pattern == nil {
		pattern = DefaultIDPattern
	}
	return pattern.MatchString(field)
}

// Meta is the column metadata a backend view may ship with its rows.
// Keys not listed here are carried through to the column unchanged.
type Meta struct {
	Field                    string  `json:"field"`
	HeaderName               *string `json:"headerName,omitempty"`
	Datatype                 string  `json:"datatype,omitempty"`
	Decimals                 *int    `json:"decimals,omitempty"`
	Unit                     string  `json:"unit,omitempty"`
	IsHidden                 bool    `json:"isHidden,omitempty"`
	Hidden                   bool    `json:"hidden,omitempty"`
	Hide                     bool    `json:"hide,omitempty"`
	IsID                     bool    `json:"isId,omitempty"`
	SuppressColumnsToolPanel *bool   `json:"suppressColumnsToolPanel,omitempty"`

	Extra map[string]any `json:"-"`
}

var metaKeys = map[string]bool{
	"field": true, "headerName": true, "datatype": true, "decimals": true, "unit": true,
	"isHidden": true, "hidden": true, "hide": true, "isId": true, "suppressColumnsToolPanel": true,
}

// UnmarshalJSON decodes the known keys and keeps the rest in Extra.
func (m *Meta) UnmarshalJSON(data []byte) error {
	type plain Meta
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k, v := range all {
		if metaKeys[k] {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[k] = v
	}
	*m = Meta(p)
	return nil
}

// Column is a grid column descriptor.
type Column struct {
	Field                    string `json:"field"`
	HeaderName               string `json:"headerName,omitempty"`
	Sortable                 bool   `json:"sortable"`
	Filter                   any    `json:"filter,omitempty"`
	Type                     string `json:"type,omitempty"`
	CellClass                string `json:"cellClass,omitempty"`
	Resizable                bool   `json:"resizable,omitempty"`
	Hide                     bool   `json:"hide,omitempty"`
	SuppressColumnsToolPanel *bool  `json:"suppressColumnsToolPanel,omitempty"`
	Width                    int    `json:"width,omitempty"`
	Pinned                   string `json:"pinned,omitempty"`

	Formatter *NumberFormatter `json:"-"`
	Extra     map[string]any   `json:"-"`
}

// MarshalJSON merges Extra into the descriptor; declared fields win.
func (c Column) MarshalJSON() ([]byte, error) {
	type plain Column
	base, err := json.Marshal(plain(c))
	if err != nil {
		return nil, err
	}
	if len(c.Extra) == 0 {
		return base, nil
	}
	merged := make(map[string]any, len(c.Extra)+8)
	for k, v := range c.Extra {
		merged[k] = v
	}
	var declared map[string]any
	if err := json.Unmarshal(base, &declared); err != nil {
		return nil, err
	}
	for k, v := range declared {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Display returns the value shown in the cell: formatted text for numeric
// columns, the raw value otherwise.
func (c Column) Display(v any) any {
	if c.Formatter != nil {
		return c.Formatter.Format(v)
	}
	return v
}

// Options tune column inference.
type Options struct {
	Locale                     language.Tag
	CompactNumbers             bool
	HideIDsByPattern           bool
	IDPattern                  *regexp.Regexp
	HideFromToolPanelForHidden bool
	HideFromToolPanelForIDs    bool
}

// FromMeta builds column descriptors from backend metadata. Entries without
// a field are dropped.
func FromMeta(meta []Meta, opts Options) []Column {
	out := make([]Column, 0, len(meta))
	for _, m := range meta {
		if m.Field == "" {
			continue
		}

		explicitHidden := m.IsHidden || m.Hidden || m.Hide
		patternHidden := opts.HideIDsByPattern && IsIDField(m.Field, opts.IDPattern)
		hidden := explicitHidden || patternHidden || m.IsID

		col := Column{
			Field:      m.Field,
			HeaderName: m.Field,
			Sortable:   true,
			Extra:      m.Extra,
		}
		if m.HeaderName != nil {
			col.HeaderName = *m.HeaderName
		}
		if hidden {
			col.Hide = true
			if opts.HideFromToolPanelForHidden || opts.HideFromToolPanelForIDs {
				col.SuppressColumnsToolPanel = boolPtr(true)
			}
		}
		if m.SuppressColumnsToolPanel != nil {
			col.SuppressColumnsToolPanel = boolPtr(*m.SuppressColumnsToolPanel)
		}

		if m.Datatype == DatatypeNumber {
			decimals := 0
			if m.Decimals != nil {
				decimals = *m.Decimals
			}
			unit := m.Unit
			if unit == "" {
				unit = UnitNone
			}
			col.Filter = FilterNumber
			col.Type = "numericColumn"
			col.CellClass = "ag-right-aligned-cell"
			col.Formatter = NewNumberFormatter(decimals, unit, opts.Locale, opts.CompactNumbers)
		} else {
			col.Filter = FilterText
		}

		out = append(out, col)
	}
	return out
}

// FromRows derives one text column per key of the first row. Without rows
// there are no columns.
func FromRows(rows []model.Row, opts Options) []Column {
	if len(rows) == 0 || rows[0].IsZero() {
		return []Column{}
	}
	sample := rows[0]

	out := make([]Column, 0, sample.Len())
	for _, field := range sample.Keys() {
		col := Column{
			Field:     field,
			Sortable:  true,
			Filter:    true,
			Resizable: true,
		}
		if opts.HideIDsByPattern && IsIDField(field, opts.IDPattern) {
			col.Hide = true
			if opts.HideFromToolPanelForIDs {
				col.SuppressColumnsToolPanel = boolPtr(true)
			}
		}
		out = append(out, col)
	}
	return out
}

// Resolve uses metadata when the backend supplied any, and falls back to
// inference from rows otherwise.
func Resolve(meta []Meta, rows []model.Row, opts Options) []Column {
	if len(meta) > 0 {
		return FromMeta(meta, opts)
	}
	return FromRows(rows, opts)
}

func boolPtr(b bool) *bool {
	return &b
}
