// Package backup reads and writes the JSON files users move their ledger
// around with. Import accepts both the current envelope and the bare array
// written by older versions.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rustyeddy/debtbook/debtor"
	"github.com/rustyeddy/debtbook/pkg/id"
	"github.com/shopspring/decimal"
)

// Envelope is the export file layout.
type Envelope struct {
	Debtors     []debtor.Record `json:"debtors"`
	ExportDate  time.Time       `json:"exportDate"`
	TotalDebt   float64         `json:"totalDebt"`
	DebtorCount int             `json:"debtorCount"`
}

// NewEnvelope wraps recs for export.
func NewEnvelope(recs []debtor.Record, now time.Time) Envelope {
	if recs == nil {
		recs = []debtor.Record{}
	}
	total := decimal.Zero
	for _, r := range recs {
		total = total.Add(decimal.NewFromFloat(r.Amount))
	}
	return Envelope{
		Debtors:     recs,
		ExportDate:  now.UTC(),
		TotalDebt:   total.InexactFloat64(),
		DebtorCount: len(recs),
	}
}

// Marshal renders an envelope the way export files are written: indented
// two spaces.
func Marshal(env Envelope) ([]byte, error) {
	return json.MarshalIndent(env, "", "  ")
}

// FileName is the download name for an export made at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("dzair-debt-tracker-backup-%s.json", now.UTC().Format("2006-01-02"))
}

// rawRecord keeps every field optional so missing ones can be told apart
// from zero values.
type rawRecord struct {
	ID           *string          `json:"id"`
	Name         *string          `json:"name"`
	Amount       *json.RawMessage `json:"amount"`
	Date         *time.Time       `json:"date"`
	LastModified *time.Time       `json:"lastModified"`
}

// Parse decodes an import payload. The payload is either an array of
// records or an object whose "debtors" field is that array; anything else
// is rejected whole. now stands in for a missing creation date.
func Parse(data []byte, now time.Time) ([]debtor.Record, error) {
	items, err := unwrap(data)
	if err != nil {
		return nil, err
	}

	out := make([]debtor.Record, 0, len(items))
	for i, item := range items {
		var raw rawRecord
		if err := json.Unmarshal(item, &raw); err != nil {
			return nil, invalid("record %d is not a debtor: %v", i, err)
		}
		rec, err := raw.record(i, now)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func unwrap(data []byte) ([]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, invalid("empty payload")
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, invalid("malformed debtor list: %v", err)
		}
		return items, nil
	case '{':
		var env struct {
			Debtors json.RawMessage `json:"debtors"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, invalid("malformed backup file: %v", err)
		}
		if len(env.Debtors) == 0 || bytes.Equal(env.Debtors, []byte("null")) {
			return nil, invalid("backup file has no debtors list")
		}
		return unwrapArray(env.Debtors)
	default:
		return nil, invalid("expected a debtor list or a backup file")
	}
}

func unwrapArray(data []byte) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, invalid("debtors is not a list")
	}
	return items, nil
}

func (r rawRecord) record(i int, now time.Time) (debtor.Record, error) {
	if r.ID == nil || *r.ID == "" {
		return debtor.Record{}, invalid("record %d has no id", i)
	}
	if r.Name == nil {
		return debtor.Record{}, invalid("record %q has no name", *r.ID)
	}
	if r.Amount == nil {
		return debtor.Record{}, invalid("record %q has no amount", *r.ID)
	}
	var amount float64
	if err := json.Unmarshal(*r.Amount, &amount); err != nil {
		return debtor.Record{}, invalid("record %q amount is not a number", *r.ID)
	}

	rec := debtor.Record{ID: *r.ID, Name: *r.Name, Amount: amount}
	switch {
	case r.Date != nil:
		rec.CreatedAt = *r.Date
	default:
		if t, ok := id.Time(rec.ID); ok {
			rec.CreatedAt = t
		} else {
			rec.CreatedAt = now
		}
	}
	if r.LastModified != nil {
		rec.LastModified = *r.LastModified
	} else {
		rec.LastModified = rec.CreatedAt
	}
	return rec, nil
}

func invalid(format string, args ...any) error {
	return &debtor.ValidationError{Field: "import", Reason: fmt.Sprintf(format, args...)}
}
