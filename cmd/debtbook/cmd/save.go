package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/debtbook/intent"
	"github.com/rustyeddy/debtbook/notify"
	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Rewrite the stored ledger now",
	Args:  cobra.NoArgs,
	RunE:  runSave,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show where the ledger lives and when it was last saved",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(infoCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	s, err := openSession(cliNotifier(cmd), nil)
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.dispatch.Dispatch(intent.Intent{Kind: intent.Save})
	return err
}

func runInfo(cmd *cobra.Command, args []string) error {
	s, err := openSession(notify.Discard, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Database:   %s\n", cfg.Storage.Path)
	if cfgFile != "" {
		fmt.Fprintf(w, "Config:     %s\n", cfgFile)
	}
	fmt.Fprintf(w, "Debtors:    %d\n", s.ledger.Len())
	fmt.Fprintf(w, "Total:      %s\n", s.format.Format(s.ledger.Total()))

	info, ok, err := s.ledger.Mirror().LastSaved()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(w, "Last save:  never")
		return nil
	}
	fmt.Fprintf(w, "Last save:  %s (%s ago)\n",
		info.LastSave.Local().Format(time.DateTime), info.Since.Round(time.Second))
	return nil
}
