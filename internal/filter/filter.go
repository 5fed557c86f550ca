// Package filter keeps chains of dependent dropdown filters consistent and
// applies the selected values to grid rows.
package filter

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
)

// Values holds the selected value of each filter, keyed by filter name.
// A missing key or an empty string means the filter is unset.
type Values map[string]string

// Get returns the value of a filter, or "" when unset.
func (v Values) Get(key string) string {
	return v[key]
}

// IsSet reports whether the filter has a value.
func (v Values) IsSet(key string) bool {
	return v[key] != ""
}

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		if val != "" {
			out[k] = val
		}
	}
	return out
}

// Constraint ties an ancestor filter to the field holding its identifier on
// the records of a dependent link.
type Constraint struct {
	Key   string
	Field string
}

// Link is one dependent filter. Its value must name a record of Collection
// (matched on IDField) that also satisfies every set ancestor constraint.
type Link struct {
	Key        string
	Collection string
	IDField    string
	Ancestors  []Constraint
}

// Chain is an ordered set of links where every ancestor precedes its
// descendants.
type Chain []Link

// NewChain validates the ordering of links.
func NewChain(links ...Link) (Chain, error) {
	known := make(map[string]bool, len(links))
	for _, l := range links {
		if l.Key == "" {
			return nil, fmt.Errorf("filter link without key")
		}
		if known[l.Key] {
			return nil, fmt.Errorf("duplicate filter link %q", l.Key)
		}
		for _, a := range l.Ancestors {
			if !known[a.Key] {
				return nil, fmt.Errorf("filter %q depends on %q which is not declared before it", l.Key, a.Key)
			}
		}
		known[l.Key] = true
	}
	return Chain(links), nil
}

// MustChain is NewChain for package-level declarations.
func MustChain(links ...Link) Chain {
	c, err := NewChain(links...)
	if err != nil {
		panic(err)
	}
	return c
}

// Collections maps collection names to their rows.
type Collections map[string][]model.Row

// Revalidate returns a copy of values in which every dependent filter that no
// longer names a record consistent with its set ancestors is reset.
// The keys that were reset are returned in chain order.
//
// Links are visited in chain order, so a link always sees the already
// revalidated values of its ancestors; running Revalidate on its own output
// resets nothing.
func Revalidate(chain Chain, values Values, collections Collections) (Values, []string) {
	out := values.Clone()
	var reset []string

	for _, link := range chain {
		id := out.Get(link.Key)
		if id == "" || len(link.Ancestors) == 0 {
			continue
		}

		active := make([]Constraint, 0, len(link.Ancestors))
		for _, a := range link.Ancestors {
			if out.IsSet(a.Key) {
				active = append(active, a)
			}
		}
		if len(active) == 0 {
			continue
		}

		if !anyMatch(collections[link.Collection], link.IDField, id, active, out) {
			delete(out, link.Key)
			reset = append(reset, link.Key)
		}
	}

	return out, reset
}

func anyMatch(rows []model.Row, idField, id string, constraints []Constraint, values Values) bool {
	for _, r := range rows {
		if r.IsZero() || r.String(idField) != id {
			continue
		}
		ok := true
		for _, c := range constraints {
			if r.String(c.Field) != values.Get(c.Key) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Binding maps a filter to the field it constrains on grid rows.
type Binding struct {
	Key   string
	Field string
}

// Apply keeps the rows whose bound fields equal every set filter value.
func Apply(rows []model.Row, values Values, bindings []Binding) []model.Row {
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		if r.IsZero() {
			continue
		}
		keep := true
		for _, b := range bindings {
			want := values.Get(b.Key)
			if want == "" {
				continue
			}
			if r.String(b.Field) != want {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

// Search keeps the rows where any non-null value contains q, ignoring case
// and surrounding whitespace of q. An empty query keeps every row.
func Search(rows []model.Row, q string) []model.Row {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		if r.IsZero() {
			continue
		}
		if q == "" || rowContains(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func rowContains(r model.Row, q string) bool {
	for _, v := range r.Values() {
		if v == nil {
			continue
		}
		if strings.Contains(strings.ToLower(model.Stringify(v)), q) {
			return true
		}
	}
	return false
}
