package ledger

import (
	"strings"

	"github.com/rustyeddy/debtbook/debtor"
)

// NormalizeQuery lower-cases and trims a search string.
func NormalizeQuery(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Filter returns the records whose name contains query, case-insensitively,
// in their original order. An empty query keeps everything.
func Filter(recs []debtor.Record, query string) []debtor.Record {
	query = NormalizeQuery(query)
	if query == "" {
		return debtor.Clone(recs)
	}
	out := make([]debtor.Record, 0, len(recs))
	for _, r := range recs {
		if strings.Contains(strings.ToLower(r.Name), query) {
			out = append(out, r)
		}
	}
	return out
}

// Summary aggregates a filtered view.
type Summary struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// Summarize counts and totals recs.
func Summarize(recs []debtor.Record) Summary {
	return Summary{Count: len(recs), Total: sum(recs)}
}

// SetQuery stores the normalized search string.
func (l *Ledger) SetQuery(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = NormalizeQuery(text)
}

// Query returns the current normalized search string.
func (l *Ledger) Query() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

// View returns the records matching the current query.
func (l *Ledger) View() []debtor.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Filter(l.records, l.query)
}

// Summary counts and totals the current view.
func (l *Ledger) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Summarize(Filter(l.records, l.query))
}
