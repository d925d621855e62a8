//go:build blackbox

package blackbox

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var debtbookBin string

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "debtbook-blackbox-*")
	if err != nil {
		panic(err)
	}

	debtbookBin = filepath.Join(tmp, "debtbook")

	// Build the binary once for all tests.
	cmd := exec.Command("go", "build", "-o", debtbookBin, "../../cmd/debtbook")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic(err)
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

func run(t *testing.T, db string, args ...string) string {
	t.Helper()

	cmd := exec.Command(debtbookBin, append([]string{"--db", db}, args...)...)
	cmd.Env = append(os.Environ(), "DEBTBOOK_LOGGING_LEVEL=error")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("command failed: %v\nargs: %v\noutput:\n%s", err, args, string(out))
	}
	return string(out)
}
