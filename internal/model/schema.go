package model

// Schema names the fields of one entity kind as the upstream admin views
// deliver them. LabelFields are tried in order; the identifier is the last
// resort for a display label.
type Schema struct {
	Entity      string
	IDField     string
	LabelFields []string
}

// Label returns the first non-null label field of the row, stringified,
// falling back to the identifier.
func (s Schema) Label(r Row) string {
	for _, f := range s.LabelFields {
		if r.Has(f) {
			return r.String(f)
		}
	}
	return r.String(s.IDField)
}

// ID returns the stringified identifier of the row.
func (s Schema) ID(r Row) string {
	return r.String(s.IDField)
}

// Field names shared by several admin views.
const (
	FieldClientID          = "client_id"
	FieldClientName        = "client_name"
	FieldTeamID            = "team_id"
	FieldTeamName          = "team_name"
	FieldUserID            = "user_id"
	FieldFullName          = "full_name"
	FieldUsername          = "username"
	FieldPortfolioID       = "portfolio_id"
	FieldPortfolioName     = "portfolio_name"
	FieldOwnerUserID       = "owner_user_id"
	FieldSharedWithUserID  = "shared_with_user_id"
	FieldActions           = "__actions"
	ColumnDefsPayloadField = "columnDefs"
)

var (
	// ClientSchema describes rows of /admin-client-view/.
	ClientSchema = Schema{Entity: "client", IDField: FieldClientID, LabelFields: []string{FieldClientName}}

	// TeamSchema describes rows of /admin-teams-view/. Teams belong to a client.
	TeamSchema = Schema{Entity: "team", IDField: FieldTeamID, LabelFields: []string{FieldTeamName}}

	// UserSchema describes rows of /admin-user-view/. Users belong to a client and a team.
	// The full name is preferred over the login name.
	UserSchema = Schema{Entity: "user", IDField: FieldUserID, LabelFields: []string{FieldFullName, FieldUsername}}

	// PortfolioSchema describes rows of /admin-portfolio-view/. Headers carry
	// their owning client, team and user.
	PortfolioSchema = Schema{Entity: "portfolio", IDField: FieldPortfolioID, LabelFields: []string{FieldPortfolioName}}
)
