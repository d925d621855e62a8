// Package debtor holds the record kept for every person who owes money and
// the error kinds shared by the ledger and its collaborators.
package debtor

import (
	"math"
	"strings"
	"time"
)

// Record is one person and the amount they currently owe.
type Record struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Amount       float64   `json:"amount"`
	CreatedAt    time.Time `json:"date"`
	LastModified time.Time `json:"lastModified"`
}

// Modified reports whether the record was touched after it was created.
func (r Record) Modified() bool {
	return !r.LastModified.IsZero() && !r.LastModified.Equal(r.CreatedAt)
}

// Clamp returns max(0, amount).
func Clamp(amount float64) float64 {
	return math.Max(0, amount)
}

// ValidName trims name and rejects an empty result.
func ValidName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return name, nil
}

// ValidAmount rejects amounts that are not finite or not strictly positive.
func ValidAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return &ValidationError{Field: "amount", Reason: "must be a number"}
	}
	if amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	return nil
}

// Clone returns a copy of recs that shares no backing array with it.
func Clone(recs []Record) []Record {
	out := make([]Record, len(recs))
	copy(out, recs)
	return out
}
