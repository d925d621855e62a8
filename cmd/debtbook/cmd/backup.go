package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/debtbook/backup"
	"github.com/rustyeddy/debtbook/journal"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the ledger with a JSON backup",
	Long: `Replace every debtor with the contents of a backup file. Both the
current export format and a bare JSON array of debtors are accepted. The
whole file is rejected if any entry is malformed.

Example:
  debtbook import dzair-debt-tracker-backup-2025-07-01.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a JSON backup or a CSV file",
	Long: `Export every debtor. JSON exports can be imported again; CSV is for
spreadsheets.

Examples:
  debtbook export
  debtbook export --format csv --out debtors.csv
  debtbook export --out -`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	importYes    bool
	exportFormat string
	exportOut    string
)

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)

	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "replace without asking")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "json or csv")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file, - for stdout (default dated file name)")
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	recs, err := backup.Parse(data, time.Now())
	if err != nil {
		return err
	}

	n := cliNotifier(cmd)
	s, err := openSession(n, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if current := s.ledger.Len(); current > 0 {
		prompt := fmt.Sprintf("Replace %d debtors with %d from %s?", current, len(recs), args[0])
		if !confirmer(cmd, importYes).Confirm(prompt) {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing imported.")
			return nil
		}
	}

	if err := s.ledger.ReplaceAll(recs); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d debtors\n", len(recs))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openSession(cliNotifier(cmd), nil)
	if err != nil {
		return err
	}
	defer s.Close()

	now := time.Now()
	recs := s.ledger.Records()
	name := backup.FileName(now)

	var buf bytes.Buffer
	switch exportFormat {
	case "json":
		data, err := backup.Marshal(backup.NewEnvelope(recs, now))
		if err != nil {
			return fmt.Errorf("encode backup: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	case "csv":
		if err := journal.WriteCSV(&buf, recs); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		name = strings.TrimSuffix(name, ".json") + ".csv"
	default:
		return fmt.Errorf("unknown format %q (json or csv)", exportFormat)
	}

	out := exportOut
	if out == "" {
		out = name
	}
	if out == "-" {
		_, err := io.Copy(cmd.OutOrStdout(), &buf)
		return err
	}

	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d debtors to %s\n", len(recs), out)
	return nil
}
