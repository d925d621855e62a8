package display

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/rustyeddy/debtbook/debtor"
	"github.com/rustyeddy/debtbook/ledger"
)

// List is everything a renderer needs to draw the debtor list.
type List struct {
	View    []debtor.Record
	Summary ledger.Summary
	// Total and Count cover the whole ledger, not just the view.
	Total   float64
	Count   int
	Query   string
	Editing string
}

// Snapshot collects a List from a ledger.
func Snapshot(l *ledger.Ledger) List {
	editing, _ := l.EditingTarget()
	return List{
		View:    l.View(),
		Summary: l.Summary(),
		Total:   l.Total(),
		Count:   l.Len(),
		Query:   l.Query(),
		Editing: editing,
	}
}

// Empty is the message shown when the view has nothing in it.
func (li List) Empty() string {
	if li.Query != "" && li.Count > 0 {
		return "No debtors match the search."
	}
	return "No debtors added yet."
}

// Highlight wraps every case-insensitive occurrence of query in name with
// open and close.
func Highlight(name, query, open, close string) string {
	query = strings.ToLower(strings.TrimSpace(query))
	lower := strings.ToLower(name)
	// Lower-casing can change byte lengths for a few scripts; offsets into
	// lower would then not line up with name.
	if query == "" || len(lower) != len(name) {
		return name
	}

	var b strings.Builder
	i := 0
	for {
		j := strings.Index(lower[i:], query)
		if j < 0 {
			b.WriteString(name[i:])
			return b.String()
		}
		start := i + j
		end := start + len(query)
		b.WriteString(name[i:start])
		b.WriteString(open)
		b.WriteString(name[start:end])
		b.WriteString(close)
		i = end
	}
}

// WriteTable writes the list as aligned plain-text columns.
func WriteTable(w io.Writer, li List, f Formatter) error {
	if len(li.View) == 0 {
		_, err := fmt.Fprintln(w, li.Empty())
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tAMOUNT\tADDED\tMODIFIED")
	for _, r := range li.View {
		marker := ""
		if r.ID == li.Editing {
			marker = " *"
		}
		modified := ""
		if r.Modified() {
			modified = r.LastModified.Local().Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s%s\t%s\t%s\t%s\n",
			r.ID, r.Name, marker, f.Format(r.Amount), r.CreatedAt.Local().Format("2006-01-02"), modified)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, footer(li, f))
	return err
}

func footer(li List, f Formatter) string {
	if li.Query != "" {
		return fmt.Sprintf("Search results: %d debtors, total %s (of %d, %s)",
			li.Summary.Count, f.Format(li.Summary.Total), li.Count, f.Format(li.Total))
	}
	return fmt.Sprintf("%d debtors, total %s", li.Count, f.Format(li.Total))
}

// Markdown renders the list as a markdown document with matches in bold.
func Markdown(li List, f Formatter) string {
	var b strings.Builder
	b.WriteString("# Debtors\n\n")

	if len(li.View) == 0 {
		b.WriteString(li.Empty())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("| Name | Amount | Added | Modified |\n")
	b.WriteString("|---|---:|---|---|\n")
	for _, r := range li.View {
		name := Highlight(escapeCell(r.Name), li.Query, "**", "**")
		if r.Amount == 0 {
			name += " (paid)"
		}
		modified := ""
		if r.Modified() {
			modified = r.LastModified.Local().Format("2006-01-02")
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			name, f.Format(r.Amount), r.CreatedAt.Local().Format("2006-01-02"), modified)
	}
	b.WriteString("\n")
	b.WriteString(footer(li, f))
	b.WriteString("\n")
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// RenderMarkdown styles markdown for the terminal. style is a glamour
// standard style name ("dark", "light", "notty", ...) or "auto".
func RenderMarkdown(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
