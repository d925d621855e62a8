package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/debtbook/debtor"
)

// FormatDebtorOrg renders a record as an Org-mode block. Facts go in a
// PROPERTIES drawer so the block stays searchable once pasted into notes.
func FormatDebtorOrg(r debtor.Record) string {
	heading := fmt.Sprintf("** Debtor: %s (%s)", r.Name, shortID(r.ID))
	created := r.CreatedAt.UTC().Format(time.RFC3339)

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", r.ID))
	b.WriteString(fmt.Sprintf(":NAME: %s\n", r.Name))
	b.WriteString(fmt.Sprintf(":AMOUNT: %.2f\n", r.Amount))
	b.WriteString(fmt.Sprintf(":CREATED: %s\n", created))
	if r.Modified() {
		b.WriteString(fmt.Sprintf(":LAST_MODIFIED: %s\n", r.LastModified.UTC().Format(time.RFC3339)))
	}
	if r.Amount == 0 {
		b.WriteString(":STATUS: paid\n")
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Notes\n- \n")

	return b.String()
}

// FormatDebtorsOrg renders multiple records separated by blank lines.
func FormatDebtorsOrg(recs []debtor.Record) string {
	var b strings.Builder
	for i, r := range recs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatDebtorOrg(r))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
