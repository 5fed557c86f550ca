package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/filter"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
)

var testChain = filter.MustChain(
	filter.Link{Key: "client"},
	filter.Link{
		Key: "team", Collection: "teams", IDField: "team_id",
		Ancestors: []filter.Constraint{{Key: "client", Field: "client_id"}},
	},
	filter.Link{
		Key: "user", Collection: "users", IDField: "user_id",
		Ancestors: []filter.Constraint{{Key: "client", Field: "client_id"}, {Key: "team", Field: "team_id"}},
	},
	filter.Link{
		Key: "portfolio", Collection: "headers", IDField: "portfolio_id",
		Ancestors: []filter.Constraint{
			{Key: "client", Field: "client_id"},
			{Key: "team", Field: "team_id"},
			{Key: "user", Field: "user_id"},
		},
	},
)

func testCollections() filter.Collections {
	return filter.Collections{
		"teams": {
			model.NewRow("team_id", 10, "client_id", 1, "team_name", "Ops"),
			model.NewRow("team_id", 11, "client_id", 2, "team_name", "Eng"),
		},
		"users": {
			model.NewRow("user_id", 100, "client_id", 1, "team_id", 10),
			model.NewRow("user_id", 200, "client_id", 2, "team_id", 11),
		},
		"headers": {
			model.NewRow("portfolio_id", "p1", "client_id", 1, "team_id", 10, "user_id", 100),
			model.NewRow("portfolio_id", "p2", "client_id", 2, "team_id", 11, "user_id", 200),
		},
	}
}

func TestRevalidate(t *testing.T) {
	t.Run("team from another client is reset", func(t *testing.T) {
		got, reset := filter.Revalidate(testChain, filter.Values{"client": "1", "team": "11"}, testCollections())
		assert.Equal(t, filter.Values{"client": "1"}, got)
		assert.Equal(t, []string{"team"}, reset)
	})

	t.Run("consistent selection is kept", func(t *testing.T) {
		in := filter.Values{"client": "1", "team": "10", "user": "100", "portfolio": "p1"}
		got, reset := filter.Revalidate(testChain, in, testCollections())
		assert.Equal(t, in, got)
		assert.Empty(t, reset)
	})

	t.Run("grandparent change orphans grandchild", func(t *testing.T) {
		// team is unset, so only client constrains the user
		in := filter.Values{"client": "2", "user": "100"}
		got, reset := filter.Revalidate(testChain, in, testCollections())
		assert.Equal(t, filter.Values{"client": "2"}, got)
		assert.Equal(t, []string{"user"}, reset)
	})

	t.Run("cascade resets every invalid descendant", func(t *testing.T) {
		in := filter.Values{"client": "2", "team": "10", "user": "100", "portfolio": "p1"}
		got, reset := filter.Revalidate(testChain, in, testCollections())
		assert.Equal(t, filter.Values{"client": "2"}, got)
		assert.Equal(t, []string{"team", "user", "portfolio"}, reset)
	})

	t.Run("unset ancestors impose nothing", func(t *testing.T) {
		in := filter.Values{"team": "99"}
		got, reset := filter.Revalidate(testChain, in, testCollections())
		assert.Equal(t, in, got)
		assert.Empty(t, reset)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		in := filter.Values{"client": "1", "team": "11"}
		filter.Revalidate(testChain, in, testCollections())
		assert.Equal(t, "11", in["team"])
	})

	t.Run("idempotent", func(t *testing.T) {
		inputs := []filter.Values{
			{"client": "1", "team": "11", "user": "200", "portfolio": "p2"},
			{"client": "2", "user": "100"},
			{"team": "10", "portfolio": "p2"},
			{},
		}
		for _, in := range inputs {
			once, _ := filter.Revalidate(testChain, in, testCollections())
			twice, reset := filter.Revalidate(testChain, once, testCollections())
			assert.Equal(t, once, twice)
			assert.Empty(t, reset)
		}
	})

	t.Run("zero rows never validate a value", func(t *testing.T) {
		cols := filter.Collections{"teams": {{}, model.NewRow("team_id", 10, "client_id", 1)}}
		got, _ := filter.Revalidate(testChain, filter.Values{"client": "1", "team": "10"}, cols)
		assert.Equal(t, "10", got.Get("team"))
	})
}

func TestNewChain(t *testing.T) {
	t.Run("rejects ancestor declared later", func(t *testing.T) {
		_, err := filter.NewChain(
			filter.Link{Key: "team", Ancestors: []filter.Constraint{{Key: "client", Field: "client_id"}}},
			filter.Link{Key: "client"},
		)
		require.Error(t, err)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := filter.NewChain(filter.Link{Key: "client"}, filter.Link{Key: "client"})
		require.Error(t, err)
	})
}

func TestApply(t *testing.T) {
	rows := []model.Row{
		model.NewRow("team_id", 10, "client_id", 1),
		{},
		model.NewRow("team_id", 11, "client_id", 2),
	}
	bindings := []filter.Binding{{Key: "client", Field: "client_id"}}

	got := filter.Apply(rows, filter.Values{"client": "2"}, bindings)
	require.Len(t, got, 1)
	assert.Equal(t, "11", got[0].String("team_id"))

	all := filter.Apply(rows, filter.Values{}, bindings)
	assert.Len(t, all, 2)
}

func TestSearch(t *testing.T) {
	rows := []model.Row{
		model.NewRow("client_id", 1, "client_name", "Acme Corp"),
		model.NewRow("client_id", 2, "client_name", "Globex", "note", nil),
		{},
	}

	assert.Len(t, filter.Search(rows, "  acme "), 1)
	assert.Len(t, filter.Search(rows, "2"), 1)
	assert.Len(t, filter.Search(rows, ""), 2)
	assert.Empty(t, filter.Search(rows, "null"))
}
