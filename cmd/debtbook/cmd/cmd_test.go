package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI against db with stdin as the prompt input.
func run(t *testing.T, db, stdin string, args ...string) (string, string, error) {
	t.Helper()

	// Flags are package variables and survive between Execute calls.
	cfgFile, dbPath, logLevel = "", "", ""
	rmYes, clearYes, importYes = false, false, false
	listSearch, listPretty, listWidth = "", false, 100
	exportFormat, exportOut = "json", ""

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--db", db, "--log-level", "error"}, args...))

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "debtbook.sqlite")
}

func TestAddListTotal(t *testing.T) {
	db := tempDB(t)

	out, _, err := run(t, db, "", "add", "Karim", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "Debtor added and saved.")

	_, _, err = run(t, db, "", "add", "Sami", "1,500")
	require.NoError(t, err)

	out, _, err = run(t, db, "", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "Sami")
	assert.Contains(t, lines[2], "Karim")
	assert.Contains(t, lines[3], "2 debtors")

	out, _, err = run(t, db, "", "list", "--search", "SAM")
	require.NoError(t, err)
	assert.Contains(t, out, "Search results: 1 debtors")
	assert.NotContains(t, out, "Karim")

	out, _, err = run(t, db, "", "total")
	require.NoError(t, err)
	assert.Contains(t, out, "2,000")
	assert.Contains(t, out, "(2 debtors)")
}

func TestAddRejectsBadAmount(t *testing.T) {
	db := tempDB(t)

	_, stderr, err := run(t, db, "", "add", "Karim", "lots")
	require.Error(t, err)
	assert.Contains(t, stderr, "Please enter a valid name and amount")

	out, _, err := run(t, db, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No debtors added yet.")
}

func TestAdjustByName(t *testing.T) {
	db := tempDB(t)
	_, _, err := run(t, db, "", "add", "Ali", "100")
	require.NoError(t, err)

	out, _, err := run(t, db, "", "increase", "ali")
	require.NoError(t, err)
	assert.Contains(t, out, "Ali now owes")
	assert.Contains(t, out, "150")

	out, _, err = run(t, db, "", "pay", "Ali", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "Debt fully paid and saved!")

	_, _, err = run(t, db, "", "decrease", "nobody", "5")
	require.Error(t, err)
}

func TestRemoveConfirmation(t *testing.T) {
	db := tempDB(t)
	_, _, err := run(t, db, "", "add", "Karim", "500")
	require.NoError(t, err)

	out, _, err := run(t, db, "n\n", "rm", "Karim")
	require.NoError(t, err)
	assert.Contains(t, out, "Delete Karim? [y/N]")
	assert.Contains(t, out, "Nothing deleted.")

	out, _, err = run(t, db, "yes\n", "rm", "Karim")
	require.NoError(t, err)
	assert.Contains(t, out, "Debtor deleted and changes saved.")

	out, _, err = run(t, db, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No debtors added yet.")
}

func TestClearWithYes(t *testing.T) {
	db := tempDB(t)
	_, _, err := run(t, db, "", "add", "Karim", "500")
	require.NoError(t, err)

	out, _, err := run(t, db, "", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing deleted.", "EOF on the prompt declines")

	out, _, err = run(t, db, "", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "All data deleted.")
}

func TestRename(t *testing.T) {
	db := tempDB(t)
	_, _, err := run(t, db, "", "add", "Karim", "500")
	require.NoError(t, err)

	out, _, err := run(t, db, "", "rename", "Karim", "Karim", "B.")
	require.NoError(t, err)
	assert.Contains(t, out, "Name updated and saved.")

	out, _, err = run(t, db, "", "rename", "karim b.", "Karim", "B.")
	require.NoError(t, err)
	assert.Contains(t, out, "Name unchanged.")

	out, _, err = run(t, db, "", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "** Debtor: Karim B.")
}

func TestExportImport(t *testing.T) {
	db := tempDB(t)
	_, _, err := run(t, db, "", "add", "Karim", "500")
	require.NoError(t, err)
	_, _, err = run(t, db, "", "add", "Sami", "1500")
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "backup.json")
	out, _, err := run(t, db, "", "export", "--out", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 debtors")

	csv, _, err := run(t, db, "", "export", "--format", "csv", "--out", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(csv, "id,name,amount"))

	other := tempDB(t)
	out, _, err = run(t, other, "", "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 debtors")

	out, _, err = run(t, other, "", "total")
	require.NoError(t, err)
	assert.Contains(t, out, "2,000")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"people":[]}`), 0644))
	_, _, err = run(t, other, "", "import", "--yes", bad)
	require.Error(t, err)
}

func TestInfoAndSave(t *testing.T) {
	db := tempDB(t)

	out, _, err := run(t, db, "", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "Last save:  never")

	_, _, err = run(t, db, "", "add", "Karim", "500")
	require.NoError(t, err)

	out, _, err = run(t, db, "", "save")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved manually.")

	out, _, err = run(t, db, "", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "Debtors:    1")
	assert.NotContains(t, out, "never")
}

func TestConfigInitValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debtbook.yaml")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"config", "init", "--output", path})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, stdout.String(), "Created default configuration")

	stdout.Reset()
	rootCmd.SetArgs([]string{"config", "validate", "--file", path})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, stdout.String(), "Configuration valid")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, tempDB(t), "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "debtbook version "+version)
}
