package cmd

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/debtbook/intent"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <name> <amount>",
	Short: "Add a debtor",
	Long: `Add a debtor with the amount they owe. The amount may be typed with
separators or a currency suffix.

Examples:
  debtbook add "Karim B." 1500
  debtbook add Sami "2,000 DA"`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

var increaseCmd = &cobra.Command{
	Use:   "increase <debtor> [amount]",
	Short: "Increase what a debtor owes",
	Long: `Increase a debtor's amount. Without an amount the smallest quick step
is used. <debtor> is an id, the short id from "list", or a unique name.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error { return runAdjust(cmd, args, true) },
}

var decreaseCmd = &cobra.Command{
	Use:     "decrease <debtor> [amount]",
	Aliases: []string{"pay"},
	Short:   "Record a payment",
	Long: `Decrease a debtor's amount. Amounts never go below zero; a debtor who
reaches zero is marked paid.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error { return runAdjust(cmd, args, false) },
}

var renameCmd = &cobra.Command{
	Use:   "rename <debtor> <new name>",
	Short: "Rename a debtor",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runRename,
}

var rmCmd = &cobra.Command{
	Use:     "rm <debtor>",
	Aliases: []string{"delete"},
	Short:   "Delete a debtor",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every debtor",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var (
	rmYes    bool
	clearYes bool
)

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(increaseCmd)
	rootCmd.AddCommand(decreaseCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(clearCmd)

	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "delete without asking")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "delete without asking")
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cliNotifier(cmd), nil)
	if err != nil {
		return err
	}
	defer s.Close()

	out, err := s.dispatch.Dispatch(intent.Intent{Kind: intent.Add, Name: args[0], Amount: parseLoose(args[1])})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", out.Record.ID, out.Record.Name, s.format.Format(out.Record.Amount))
	return nil
}

func runAdjust(cmd *cobra.Command, args []string, increase bool) error {
	amount := intent.QuickSteps[0]
	if len(args) == 2 {
		v, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		amount = v
	}
	if !increase {
		amount = -amount
	}

	s, err := openSession(cliNotifier(cmd), nil)
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := s.resolve(args[0])
	if err != nil {
		return err
	}

	out, err := s.dispatch.Dispatch(intent.Intent{Kind: intent.Adjust, ID: rec.ID, Amount: amount})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s now owes %s\n", out.Record.Name, s.format.Format(out.Record.Amount))
	return nil
}

func runRename(cmd *cobra.Command, args []string) error {
	s, err := openSession(cliNotifier(cmd), nil)
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := s.resolve(args[0])
	if err != nil {
		return err
	}

	out, err := s.dispatch.Dispatch(intent.Intent{Kind: intent.Rename, ID: rec.ID, Name: strings.Join(args[1:], " ")})
	if err != nil {
		return err
	}
	if !out.Applied {
		fmt.Fprintln(cmd.OutOrStdout(), "Name unchanged.")
	}
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	s, err := openSession(cliNotifier(cmd), confirmer(cmd, rmYes))
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := s.resolve(args[0])
	if err != nil {
		return err
	}

	out, err := s.dispatch.Dispatch(intent.Intent{Kind: intent.Delete, ID: rec.ID})
	if err != nil {
		return err
	}
	if !out.Applied {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
	}
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	s, err := openSession(cliNotifier(cmd), confirmer(cmd, clearYes))
	if err != nil {
		return err
	}
	defer s.Close()

	out, err := s.dispatch.Dispatch(intent.Intent{Kind: intent.ClearAll})
	if err != nil {
		return err
	}
	if !out.Applied {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
	}
	return nil
}
