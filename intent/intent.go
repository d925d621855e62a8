// Package intent is the command layer between a user interface and the
// ledger. Interfaces translate clicks, keys and commands into Intents; the
// Dispatcher applies them and reports back through a Notifier.
package intent

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/debtbook/debtor"
	"github.com/rustyeddy/debtbook/ledger"
	"github.com/rustyeddy/debtbook/mirror"
	"github.com/rustyeddy/debtbook/notify"
)

type Kind int

const (
	Add Kind = iota
	Adjust
	BeginCustom
	SubmitCustom
	CancelCustom
	Rename
	Delete
	ClearAll
	Search
	Escape
	Save
	Composing
	Hidden
)

var kindNames = map[Kind]string{
	Add:          "add",
	Adjust:       "adjust",
	BeginCustom:  "begin-custom",
	SubmitCustom: "submit-custom",
	CancelCustom: "cancel-custom",
	Rename:       "rename",
	Delete:       "delete",
	ClearAll:     "clear-all",
	Search:       "search",
	Escape:       "escape",
	Save:         "save",
	Composing:    "composing",
	Hidden:       "hidden",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// QuickSteps are the one-click adjustments offered next to every debtor,
// applied as increases or decreases.
var QuickSteps = []float64{50, 100, 500}

// Intent is one user request. Only the fields its Kind uses are read.
type Intent struct {
	Kind     Kind
	ID       string
	Name     string
	Amount   float64
	Increase bool
	Query    string
}

// Confirmer asks the user to approve a destructive intent.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to a Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm approves everything; used for --yes and for tests.
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })

// Outcome reports what an intent did.
type Outcome struct {
	Record *debtor.Record
	// Applied is false when the intent was a no-op: declined, unchanged
	// rename, nothing to cancel.
	Applied bool
	PaidOff bool
}

// ErrUnknownKind is returned for intents the dispatcher does not handle.
var ErrUnknownKind = errors.New("intent: unknown kind")

type Dispatcher struct {
	ledger  *ledger.Ledger
	confirm Confirmer
	notify  notify.Notifier
}

func NewDispatcher(l *ledger.Ledger, c Confirmer, n notify.Notifier) *Dispatcher {
	if c == nil {
		c = AlwaysConfirm
	}
	if n == nil {
		n = notify.Discard
	}
	return &Dispatcher{ledger: l, confirm: c, notify: n}
}

// Dispatch applies in. Errors are also sent to the notifier before being
// returned, so a caller that only shows notifications loses nothing.
//
// A mutation whose save failed is still applied: the Outcome describes it
// and the error is a *mirror.SaveError. Its success notice is replaced by
// the save failure.
func (d *Dispatcher) Dispatch(in Intent) (Outcome, error) {
	out, err := d.dispatch(in)
	if err != nil {
		d.notify.Notify(message(err), notify.Error)
	}
	return out, err
}

// success sends msg unless the change could not be saved.
func (d *Dispatcher) success(err error, msg string, sev notify.Severity) {
	if err == nil {
		d.notify.Notify(msg, sev)
	}
}

// failed reports whether err rejected the intent outright.
func failed(err error) bool {
	return err != nil && !mirror.IsSaveError(err)
}

func (d *Dispatcher) dispatch(in Intent) (Outcome, error) {
	l := d.ledger

	switch in.Kind {
	case Add:
		rec, err := l.Add(in.Name, in.Amount)
		if failed(err) {
			return Outcome{}, err
		}
		d.success(err, "Debtor added and saved.", notify.Success)
		return Outcome{Record: &rec, Applied: true}, err

	case Adjust:
		adj, err := l.AdjustAmount(in.ID, in.Amount)
		if failed(err) {
			return Outcome{}, err
		}
		return d.adjusted(adj, err), err

	case BeginCustom:
		if err := l.BeginCustom(in.ID); err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: true}, nil

	case SubmitCustom:
		adj, err := l.SubmitCustom(in.ID, in.Amount, in.Increase)
		if failed(err) {
			return Outcome{}, err
		}
		return d.adjusted(adj, err), err

	case CancelCustom:
		return Outcome{Applied: l.CancelCustom()}, nil

	case Rename:
		rec, changed, err := l.Rename(in.ID, in.Name)
		if failed(err) {
			return Outcome{}, err
		}
		if changed {
			d.success(err, "Name updated and saved.", notify.Success)
		}
		return Outcome{Record: &rec, Applied: changed}, err

	case Delete:
		rec, err := l.Get(in.ID)
		if err != nil {
			return Outcome{}, err
		}
		if !d.confirm.Confirm(fmt.Sprintf("Delete %s?", rec.Name)) {
			return Outcome{}, nil
		}
		err = l.Remove(in.ID)
		if failed(err) {
			return Outcome{}, err
		}
		d.success(err, "Debtor deleted and changes saved.", notify.Info)
		return Outcome{Record: &rec, Applied: true}, err

	case ClearAll:
		if !d.confirm.Confirm("Delete all data? This cannot be undone.") {
			return Outcome{}, nil
		}
		err := l.ClearAll()
		d.success(err, "All data deleted.", notify.Info)
		return Outcome{Applied: true}, err

	case Search:
		l.SetQuery(in.Query)
		return Outcome{Applied: true}, nil

	case Escape:
		if l.CancelCustom() {
			return Outcome{Applied: true}, nil
		}
		if l.Query() != "" {
			l.SetQuery("")
			return Outcome{Applied: true}, nil
		}
		return Outcome{}, nil

	case Save:
		if err := l.Save(); err != nil {
			return Outcome{}, err
		}
		d.notify.Notify("Saved manually.", notify.Success)
		return Outcome{Applied: true}, nil

	case Composing:
		l.Composing()
		return Outcome{Applied: true}, nil

	case Hidden:
		if err := l.Mirror().Hidden(); err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: true}, nil
	}

	return Outcome{}, fmt.Errorf("%w: %v", ErrUnknownKind, in.Kind)
}

func (d *Dispatcher) adjusted(adj ledger.Adjustment, err error) Outcome {
	if adj.PaidOff {
		d.success(err, "Debt fully paid and saved!", notify.Success)
	}
	rec := adj.Record
	return Outcome{Record: &rec, Applied: true, PaidOff: adj.PaidOff}
}

func message(err error) string {
	switch {
	case debtor.IsValidation(err):
		return "Please enter a valid name and amount: " + err.Error()
	case debtor.IsNotFound(err):
		return "That debtor no longer exists."
	case mirror.IsSaveError(err):
		return err.Error() + ". Changes are kept until the next save."
	default:
		return err.Error()
	}
}
