package options_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/options"
)

func TestBuilder_Teams(t *testing.T) {
	b := options.New(language.English)
	teams := []model.Row{
		model.NewRow("team_id", 10, "client_id", 1, "team_name", "Ops"),
		model.NewRow("team_id", 11, "client_id", 2, "team_name", "Eng"),
	}

	t.Run("filters by client", func(t *testing.T) {
		got := b.Teams(teams, "1")
		assert.Equal(t, []options.Option{{Value: "10", Label: "Ops"}}, got)
	})

	t.Run("empty client imposes no constraint", func(t *testing.T) {
		got := b.Teams(teams, "")
		assert.Equal(t, []options.Option{
			{Value: "11", Label: "Eng"},
			{Value: "10", Label: "Ops"},
		}, got)
	})

	t.Run("string and numeric identifiers compare equal", func(t *testing.T) {
		mixed := []model.Row{
			model.NewRow("team_id", "10", "client_id", "1", "team_name", "Ops"),
		}
		got := b.Teams(mixed, "1")
		require.Len(t, got, 1)
		assert.Equal(t, "10", got[0].Value)
	})
}

func TestBuilder_Clients(t *testing.T) {
	b := options.New(language.English)

	t.Run("first seen wins on duplicate ids", func(t *testing.T) {
		rows := []model.Row{
			model.NewRow("client_id", 1, "client_name", "Acme"),
			model.NewRow("client_id", 1, "client_name", "Acme Duplicate"),
		}
		got := b.Clients(rows)
		assert.Equal(t, []options.Option{{Value: "1", Label: "Acme"}}, got)
	})

	t.Run("falls back to id when name is missing or null", func(t *testing.T) {
		rows := []model.Row{
			model.NewRow("client_id", 7),
			model.NewRow("client_id", 8, "client_name", nil),
		}
		got := b.Clients(rows)
		assert.Equal(t, []options.Option{{Value: "7", Label: "7"}, {Value: "8", Label: "8"}}, got)
	})

	t.Run("zero rows are skipped", func(t *testing.T) {
		rows := []model.Row{{}, model.NewRow("client_id", 1, "client_name", "Acme"), {}}
		got := b.Clients(rows)
		assert.Len(t, got, 1)
	})

	t.Run("nil input yields empty list", func(t *testing.T) {
		got := b.Clients(nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestBuilder_Users(t *testing.T) {
	b := options.New(language.English)
	users := []model.Row{
		model.NewRow("user_id", 1, "client_id", 1, "team_id", 10, "full_name", "Zoe Zimmer", "username", "zz"),
		model.NewRow("user_id", 2, "client_id", 1, "team_id", 11, "username", "amy"),
		model.NewRow("user_id", 3, "client_id", 2, "team_id", 12),
	}

	t.Run("label fallback chain", func(t *testing.T) {
		got := b.Users(users, "", "")
		assert.Equal(t, []options.Option{
			{Value: "3", Label: "3"},
			{Value: "2", Label: "amy"},
			{Value: "1", Label: "Zoe Zimmer"},
		}, got)
	})

	t.Run("client and team narrow together", func(t *testing.T) {
		got := b.Users(users, "1", "11")
		assert.Equal(t, []options.Option{{Value: "2", Label: "amy"}}, got)
	})
}

func TestBuilder_Portfolios(t *testing.T) {
	b := options.New(language.English)
	headers := []model.Row{
		model.NewRow("portfolio_id", "p1", "portfolio_name", "Growth", "client_id", 1, "team_id", 10, "user_id", 100),
		model.NewRow("portfolio_id", "p2", "portfolio_name", "Income", "client_id", 1, "team_id", 10, "user_id", 101),
		model.NewRow("portfolio_id", "p1", "portfolio_name", "Growth (copy)", "client_id", 1, "team_id", 10, "user_id", 100),
	}

	got := b.Portfolios(headers, "1", "10", "101")
	assert.Equal(t, []options.Option{{Value: "p2", Label: "Income"}}, got)

	all := b.Portfolios(headers, "", "", "")
	assert.Equal(t, []options.Option{{Value: "p1", Label: "Growth"}, {Value: "p2", Label: "Income"}}, all)
}

func TestBuilder_OutputInvariants(t *testing.T) {
	b := options.New(language.English)
	rows := []model.Row{
		model.NewRow("client_id", 3, "client_name", "beta"),
		model.NewRow("client_id", 1, "client_name", "Alpha"),
		model.NewRow("client_id", 2, "client_name", "alpha"),
		model.NewRow("client_id", 3, "client_name", "dup"),
		{},
		model.NewRow("client_id", 4, "client_name", "Émile"),
		model.NewRow("client_id", 5, "client_name", "Zed"),
	}

	got := b.Clients(rows)

	seen := map[string]bool{}
	for _, o := range got {
		assert.False(t, seen[o.Value], "duplicate value %s", o.Value)
		seen[o.Value] = true
	}

	c := collate.New(language.English)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, c.CompareString(got[i-1].Label, got[i].Label), 0,
			"labels out of order: %q before %q", got[i-1].Label, got[i].Label)
	}
}

func TestSpecFor(t *testing.T) {
	spec := options.SpecFor(model.UserSchema, "client_id", "team_id")
	assert.Equal(t, "user_id", spec.IDField)
	assert.Equal(t, "full_name", spec.NameField)
	assert.Equal(t, []string{"username"}, spec.FallbackFields)
	assert.Equal(t, []string{"client_id", "team_id"}, spec.ParentFields)
}
