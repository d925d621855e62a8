package ledger

import (
	"strings"
	"testing"

	"github.com/rustyeddy/debtbook/debtor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "sami", NormalizeQuery("  SaMi \t"))
	assert.Equal(t, "", NormalizeQuery("   "))
}

func TestFilter(t *testing.T) {
	recs := []debtor.Record{
		{ID: "1", Name: "Samir", Amount: 900},
		{ID: "2", Name: "Karim", Amount: 500},
		{ID: "3", Name: "Hassan", Amount: 100},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Samir", "Karim", "Hassan"}},
		{"SAM", []string{"Samir"}},
		{"ri", []string{"Karim"}},
		{"a", []string{"Samir", "Karim", "Hassan"}},
		{"zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Filter(recs, tt.query)
			assert.Equal(t, tt.want, names(got))

			q := NormalizeQuery(tt.query)
			for _, r := range recs {
				in := strings.Contains(strings.ToLower(r.Name), q)
				assert.Equal(t, in, contains(got, r.ID), r.Name)
			}
		})
	}
}

func contains(recs []debtor.Record, id string) bool {
	for _, r := range recs {
		if r.ID == id {
			return true
		}
	}
	return false
}

func TestViewFollowsMutations(t *testing.T) {
	l, _ := newTestLedger(t)
	l.SetQuery("  SAM ")
	assert.Equal(t, "sam", l.Query())
	assert.Empty(t, l.View())

	rec, err := l.Add("Sami", 300)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sami"}, names(l.View()))

	_, _, err = l.Rename(rec.ID, "Yacine")
	require.NoError(t, err)
	assert.Empty(t, l.View())
	assert.Equal(t, Summary{}, l.Summary())
}

func TestCustomEntry(t *testing.T) {
	l, _ := newTestLedger(t)
	a, err := l.Add("Ali", 1000)
	require.NoError(t, err)
	b, err := l.Add("Sami", 500)
	require.NoError(t, err)

	assert.True(t, debtor.IsNotFound(l.BeginCustom("missing")))

	require.NoError(t, l.BeginCustom(a.ID))
	require.NoError(t, l.BeginCustom(b.ID))
	target, ok := l.EditingTarget()
	assert.True(t, ok)
	assert.Equal(t, b.ID, target)

	_, err = l.SubmitCustom(b.ID, 0, true)
	assert.True(t, debtor.IsValidation(err))
	_, ok = l.EditingTarget()
	assert.True(t, ok, "a rejected amount keeps the entry open")

	adj, err := l.SubmitCustom(b.ID, 700, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, adj.Record.Amount)
	assert.True(t, adj.PaidOff)
	_, ok = l.EditingTarget()
	assert.False(t, ok)

	adj, err = l.SubmitCustom(a.ID, 250, true)
	require.NoError(t, err)
	assert.Equal(t, 1250.0, adj.Record.Amount)
	assert.False(t, adj.PaidOff)

	require.NoError(t, l.BeginCustom(a.ID))
	assert.True(t, l.CancelCustom())
	assert.False(t, l.CancelCustom())

	require.NoError(t, l.BeginCustom(a.ID))
	require.NoError(t, l.Remove(a.ID))
	_, ok = l.EditingTarget()
	assert.False(t, ok)
}
