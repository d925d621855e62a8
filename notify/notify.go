// Package notify carries user-facing messages from the ledger to whatever
// surface is hosting it.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(message string, sev Severity)
}

// Func adapts a plain function to a Notifier.
type Func func(message string, sev Severity)

func (f Func) Notify(message string, sev Severity) { f(message, sev) }

// Discard drops every message.
var Discard Notifier = Func(func(string, Severity) {})

// Writer prints messages one per line, prefixed with a marker for the
// severity.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

// NewWriter sends errors and warnings to errOut and everything else to out.
func NewWriter(out, errOut io.Writer) *Writer {
	return &Writer{out: out, err: errOut}
}

func (w *Writer) Notify(message string, sev Severity) {
	w.mu.Lock()
	defer w.mu.Unlock()

	dst := w.out
	if sev == Error || sev == Warning {
		dst = w.err
	}
	fmt.Fprintf(dst, "%s %s\n", marker(sev), message)
}

func marker(sev Severity) string {
	switch sev {
	case Success:
		return "✓"
	case Warning:
		return "!"
	case Error:
		return "✗"
	default:
		return "•"
	}
}

// Logger records messages through slog, mapping severities onto levels.
type Logger struct {
	log *slog.Logger
}

func NewLogger(log *slog.Logger) *Logger {
	return &Logger{log: log}
}

func (l *Logger) Notify(message string, sev Severity) {
	level := slog.LevelInfo
	switch sev {
	case Warning:
		level = slog.LevelWarn
	case Error:
		level = slog.LevelError
	}
	l.log.Log(context.Background(), level, message, "severity", sev.String())
}

// Notice is one recorded message.
type Notice struct {
	Message  string   `json:"message"`
	Severity Severity `json:"-"`
	Level    string   `json:"severity"`
}

// Recorder keeps messages in memory until they are drained. The HTTP host
// uses it to hand notifications back with the response that caused them.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(message string, sev Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Message: message, Severity: sev, Level: sev.String()})
}

// Drain returns the recorded notices and forgets them.
func (r *Recorder) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.notices
	r.notices = nil
	return out
}

// Multi fans a message out to several notifiers.
func Multi(ns ...Notifier) Notifier {
	return Func(func(message string, sev Severity) {
		for _, n := range ns {
			n.Notify(message, sev)
		}
	})
}
