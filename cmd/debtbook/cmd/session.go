package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rustyeddy/debtbook/debtor"
	"github.com/rustyeddy/debtbook/display"
	"github.com/rustyeddy/debtbook/intent"
	"github.com/rustyeddy/debtbook/journal"
	"github.com/rustyeddy/debtbook/ledger"
	"github.com/rustyeddy/debtbook/mirror"
	"github.com/rustyeddy/debtbook/notify"
	"github.com/spf13/cobra"
)

// session is one opened ledger plus the pieces a command needs around it.
type session struct {
	store    *journal.SQLite
	ledger   *ledger.Ledger
	dispatch *intent.Dispatcher
	format   display.Formatter
}

// openSession opens the configured SQLite file and loads the ledger from
// it. confirm is used for destructive intents; nil approves everything.
func openSession(n notify.Notifier, confirm intent.Confirmer) (*session, error) {
	store, err := journal.NewSQLite(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	opts, err := mirrorOptions(n)
	if err != nil {
		store.Close()
		return nil, err
	}

	l, err := ledger.Open(store, ledger.WithLogger(log), ledger.WithMirror(opts...))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	return &session{
		store:    store,
		ledger:   l,
		dispatch: intent.NewDispatcher(l, confirm, n),
		format:   display.NewFormatter(cfg.Display.Currency),
	}, nil
}

func mirrorOptions(n notify.Notifier) ([]mirror.Option, error) {
	debounce, err := cfg.Autosave.DebounceDuration()
	if err != nil {
		return nil, err
	}
	interval, err := cfg.Autosave.IntervalDuration()
	if err != nil {
		return nil, err
	}
	indicator, err := cfg.Autosave.IndicatorDuration()
	if err != nil {
		return nil, err
	}
	return []mirror.Option{
		mirror.WithKeys(cfg.Storage.RecordsKey, cfg.Storage.TimestampKey),
		mirror.WithDebounce(debounce),
		mirror.WithInterval(interval),
		mirror.WithIndicator(indicator),
		mirror.WithNotifier(n),
		mirror.WithLogger(log),
	}, nil
}

func (s *session) Close() {
	s.ledger.Close()
	if err := s.store.Close(); err != nil {
		log.Warn("close db", "error", err)
	}
}

// resolve finds a debtor by full id, by the short id shown in listings, or
// by exact name (case-insensitive) when that name is unique.
func (s *session) resolve(ref string) (debtor.Record, error) {
	if rec, err := s.ledger.Get(ref); err == nil {
		return rec, nil
	}

	var matches []debtor.Record
	for _, r := range s.ledger.Records() {
		if strings.HasSuffix(r.ID, ref) || strings.EqualFold(r.Name, ref) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return debtor.Record{}, &debtor.NotFoundError{ID: ref}
	default:
		return debtor.Record{}, fmt.Errorf("%q matches %d debtors, use the id", ref, len(matches))
	}
}

func cliNotifier(cmd *cobra.Command) notify.Notifier {
	return notify.NewWriter(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// promptConfirmer asks on the command's input and accepts y or yes.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptConfirmer(cmd *cobra.Command) *promptConfirmer {
	return &promptConfirmer{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
}

func (p *promptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// confirmer returns the prompt, or approval without asking when yes is set.
func confirmer(cmd *cobra.Command, yes bool) intent.Confirmer {
	if yes {
		return intent.AlwaysConfirm
	}
	return newPromptConfirmer(cmd)
}

// parseAmount reads a typed amount and rejects anything that is not a
// positive number.
func parseAmount(text string) (float64, error) {
	v := display.ParseAmount(text)
	if err := debtor.ValidAmount(v); err != nil {
		return 0, err
	}
	return v, nil
}

// parseLoose reads a typed amount and leaves validation to the ledger, so
// the user sees the same message the other front ends show.
func parseLoose(text string) float64 {
	return display.ParseAmount(text)
}
