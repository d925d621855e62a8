package ledger

import (
	"github.com/rustyeddy/debtbook/debtor"
	"github.com/rustyeddy/debtbook/mirror"
)

// At most one debtor at a time is in custom-amount entry.

// BeginCustom puts the debtor into custom-amount entry, replacing any other.
func (l *Ledger) BeginCustom(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexLocked(id) < 0 {
		return &debtor.NotFoundError{ID: id}
	}
	l.editing = id
	return nil
}

// CancelCustom leaves custom-amount entry. It reports whether an entry was
// open.
func (l *Ledger) CancelCustom() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	was := l.editing != ""
	l.editing = ""
	return was
}

// EditingTarget returns the id in custom-amount entry, if any.
func (l *Ledger) EditingTarget() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.editing, l.editing != ""
}

// SubmitCustom applies a typed amount as an increase or a decrease and
// closes the entry. A bad amount leaves the entry open.
func (l *Ledger) SubmitCustom(id string, amount float64, increase bool) (Adjustment, error) {
	if err := debtor.ValidAmount(amount); err != nil {
		return Adjustment{}, err
	}
	delta := amount
	if !increase {
		delta = -amount
	}
	adj, err := l.AdjustAmount(id, delta)
	if err != nil && !mirror.IsSaveError(err) {
		return Adjustment{}, err
	}

	l.mu.Lock()
	if l.editing == id {
		l.editing = ""
	}
	l.mu.Unlock()
	return adj, err
}
