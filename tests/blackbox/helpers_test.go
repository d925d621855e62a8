//go:build blackbox

package blackbox

import (
	"database/sql"
	"encoding/json"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func contains(s, sub string) bool { return strings.Contains(s, sub) }

type storedDebtor struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Date         string  `json:"date"`
	LastModified string  `json:"lastModified"`
}

// readStored opens the ledger file directly and decodes the records key.
func readStored(t *testing.T, dbPath string) ([]storedDebtor, string) {
	t.Helper()

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var raw, ts string
	if err := db.QueryRow(`SELECT value FROM kv WHERE key = 'dzair-debtors'`).Scan(&raw); err != nil {
		t.Fatalf("records key: %v", err)
	}
	if err := db.QueryRow(`SELECT value FROM kv WHERE key = 'dzair-debtors-timestamp'`).Scan(&ts); err != nil {
		t.Fatalf("timestamp key: %v", err)
	}

	var recs []storedDebtor
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		t.Fatalf("decode records: %v\n%s", err, raw)
	}
	return recs, ts
}
