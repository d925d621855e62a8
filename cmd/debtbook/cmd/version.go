package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number",
	Long:        `Display the current version of the debtbook CLI.`,
	Annotations: map[string]string{skipSetup: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "debtbook version %s\n", version)
		fmt.Fprintln(cmd.OutOrStdout(), "A personal ledger of who owes you what")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
