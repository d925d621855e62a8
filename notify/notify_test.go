package notify

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterRoutesBySeverity(t *testing.T) {
	var out, errOut bytes.Buffer
	w := NewWriter(&out, &errOut)

	w.Notify("debtor added", Success)
	w.Notify("storage full", Error)
	w.Notify("debtor deleted", Info)

	assert.Equal(t, "✓ debtor added\n• debtor deleted\n", out.String())
	assert.Equal(t, "✗ storage full\n", errOut.String())
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	n := NewLogger(log)

	n.Notify("quiet", Success)
	n.Notify("loud", Error)

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
	assert.Contains(t, buf.String(), "severity=error")
}

func TestRecorderDrain(t *testing.T) {
	var r Recorder
	Multi(&r, Discard).Notify("saved", Success)

	got := r.Drain()
	assert.Equal(t, []Notice{{Message: "saved", Severity: Success, Level: "success"}}, got)
	assert.Empty(t, r.Drain())
}
