// Package options builds the value/label lists behind the dashboard's
// dropdown filters from raw admin rows.
package options

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
)

// Option is one selectable entry of a dropdown.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Spec describes how to turn rows of one entity kind into options.
// ParentFields are the foreign-key fields matched, by position, against the
// parent values passed to Build.
type Spec struct {
	IDField        string
	NameField      string
	FallbackFields []string
	ParentFields   []string
}

// SpecFor derives a Spec from an entity schema and the foreign keys that
// constrain it.
func SpecFor(schema model.Schema, parentFields ...string) Spec {
	s := Spec{IDField: schema.IDField, ParentFields: parentFields}
	if len(schema.LabelFields) > 0 {
		s.NameField = schema.LabelFields[0]
		s.FallbackFields = schema.LabelFields[1:]
	}
	return s
}

// Builder sorts labels with the collation rules of one locale.
type Builder struct {
	tag language.Tag
}

// New returns a Builder for the given locale. An undetermined tag falls back
// to English.
func New(tag language.Tag) *Builder {
	if tag == language.Und {
		tag = language.English
	}
	return &Builder{tag: tag}
}

// Build returns deduplicated options sorted by label.
//
// A row is kept only if, for every non-empty parent value, the matching
// parent field stringifies to that value. An empty parent value imposes no
// constraint. The first row seen for an identifier wins.
func (b *Builder) Build(rows []model.Row, spec Spec, parents ...string) []Option {
	seen := make(map[string]bool)
	out := make([]Option, 0)

	for _, r := range rows {
		if r.IsZero() {
			continue
		}
		if !matchesParents(r, spec.ParentFields, parents) {
			continue
		}
		value := r.String(spec.IDField)
		if seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, Option{Value: value, Label: label(r, spec)})
	}

	b.sort(out)
	return out
}

func (b *Builder) sort(opts []Option) {
	// Collators keep internal buffers and are not safe to share.
	c := collate.New(b.tag)
	sort.SliceStable(opts, func(i, j int) bool {
		return c.CompareString(opts[i].Label, opts[j].Label) < 0
	})
}

func matchesParents(r model.Row, fields []string, parents []string) bool {
	for i, parent := range parents {
		if parent == "" || i >= len(fields) {
			continue
		}
		if r.String(fields[i]) != parent {
			return false
		}
	}
	return true
}

func label(r model.Row, spec Spec) string {
	if spec.NameField != "" && r.Has(spec.NameField) {
		return r.String(spec.NameField)
	}
	for _, f := range spec.FallbackFields {
		if r.Has(f) {
			return r.String(f)
		}
	}
	return r.String(spec.IDField)
}

var (
	clientSpec    = SpecFor(model.ClientSchema)
	teamSpec      = SpecFor(model.TeamSchema, model.FieldClientID)
	userSpec      = SpecFor(model.UserSchema, model.FieldClientID, model.FieldTeamID)
	portfolioSpec = SpecFor(model.PortfolioSchema, model.FieldClientID, model.FieldTeamID, model.FieldUserID)
)

// Clients lists every client.
func (b *Builder) Clients(rows []model.Row) []Option {
	return b.Build(rows, clientSpec)
}

// Teams lists the teams of a client, or all teams when clientID is empty.
func (b *Builder) Teams(rows []model.Row, clientID string) []Option {
	return b.Build(rows, teamSpec, clientID)
}

// Users lists users narrowed by client and team.
func (b *Builder) Users(rows []model.Row, clientID, teamID string) []Option {
	return b.Build(rows, userSpec, clientID, teamID)
}

// Portfolios lists portfolio headers narrowed by client, team and owning user.
func (b *Builder) Portfolios(rows []model.Row, clientID, teamID, userID string) []Option {
	return b.Build(rows, portfolioSpec, clientID, teamID, userID)
}
