package cmd

import (
	"fmt"

	"github.com/rustyeddy/debtbook/debtor"
	"github.com/rustyeddy/debtbook/display"
	"github.com/rustyeddy/debtbook/intent"
	"github.com/rustyeddy/debtbook/journal"
	"github.com/rustyeddy/debtbook/notify"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List debtors, largest amount first",
	Long: `List debtors ordered by amount, largest first.

Examples:
  debtbook list
  debtbook list --search sam
  debtbook list --pretty`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var showCmd = &cobra.Command{
	Use:   "show [debtor]",
	Short: "Show debtors as Org-mode entries",
	Long: `Print one debtor, or all of them, as Org-mode headings with a
PROPERTIES drawer, ready to paste into notes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

var totalCmd = &cobra.Command{
	Use:   "total",
	Short: "Print the total owed",
	Args:  cobra.NoArgs,
	RunE:  runTotal,
}

var (
	listSearch string
	listPretty bool
	listWidth  int
)

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(totalCmd)

	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "only debtors whose name contains this text")
	listCmd.Flags().BoolVarP(&listPretty, "pretty", "p", false, "render as styled markdown (default from display.pretty)")
	listCmd.Flags().IntVar(&listWidth, "width", 100, "word wrap width for --pretty")
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession(notify.Discard, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.dispatch.Dispatch(intent.Intent{Kind: intent.Search, Query: listSearch}); err != nil {
		return err
	}
	li := display.Snapshot(s.ledger)

	if listPretty || cfg.Display.Pretty {
		out, err := display.RenderMarkdown(display.Markdown(li, s.format), cfg.Display.Style, listWidth)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}
	return display.WriteTable(cmd.OutOrStdout(), li, s.format)
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openSession(notify.Discard, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	var recs []debtor.Record
	if len(args) == 1 {
		rec, err := s.resolve(args[0])
		if err != nil {
			return err
		}
		recs = []debtor.Record{rec}
	} else {
		recs = s.ledger.Records()
	}

	if len(recs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), display.List{}.Empty())
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatDebtorsOrg(recs))
	return nil
}

func runTotal(cmd *cobra.Command, args []string) error {
	s, err := openSession(notify.Discard, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s debtors)\n",
		s.format.Format(s.ledger.Total()), display.FormatNumber(float64(s.ledger.Len())))
	return nil
}
