// journal/csv.go
package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/rustyeddy/debtbook/debtor"
)

var csvHeader = []string{"id", "name", "amount", "date", "last_modified"}

// WriteCSV writes recs as CSV with a header row, in the order given.
func WriteCSV(w io.Writer, recs []debtor.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range recs {
		err := cw.Write([]string{
			r.ID,
			r.Name,
			f(r.Amount),
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.LastModified.UTC().Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
