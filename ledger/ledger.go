// Package ledger owns the authoritative list of debtors. Every mutation
// keeps the list unique by id and sorted by amount, then hands a copy to
// the persistence mirror.
package ledger

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rustyeddy/debtbook/debtor"
	"github.com/rustyeddy/debtbook/journal"
	"github.com/rustyeddy/debtbook/mirror"
	"github.com/rustyeddy/debtbook/pkg/id"
	"github.com/shopspring/decimal"
)

// Ledger mutations apply in memory first and then flush. When the flush
// fails the change is kept and the method returns its usual result together
// with a *mirror.SaveError; mirror.IsSaveError tells that apart from a
// rejected mutation.
type Ledger struct {
	mu      sync.Mutex
	records []debtor.Record
	query   string
	editing string

	mirror *mirror.Mirror
	log    *slog.Logger
	now    func() time.Time
	newID  func(time.Time) string
}

type config struct {
	log        *slog.Logger
	now        func() time.Time
	newID      func(time.Time) string
	mirrorOpts []mirror.Option
}

type Option func(*config)

func WithLogger(l *slog.Logger) Option { return func(c *config) { c.log = l } }

// WithClock replaces time.Now for timestamps and flush times.
func WithClock(now func() time.Time) Option { return func(c *config) { c.now = now } }

// WithIDs replaces the ULID generator.
func WithIDs(fn func(time.Time) string) Option { return func(c *config) { c.newID = fn } }

// WithMirror passes options through to the persistence mirror.
func WithMirror(opts ...mirror.Option) Option {
	return func(c *config) { c.mirrorOpts = append(c.mirrorOpts, opts...) }
}

// Open builds a ledger over store and loads whatever the store already
// holds. An empty store gives an empty ledger.
func Open(store journal.Store, opts ...Option) (*Ledger, error) {
	c := config{
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:   time.Now,
		newID: id.NewAt,
	}
	for _, opt := range opts {
		opt(&c)
	}

	l := &Ledger{log: c.log, now: c.now, newID: c.newID}
	mopts := append([]mirror.Option{mirror.WithLogger(c.log), mirror.WithClock(c.now)}, c.mirrorOpts...)
	l.mirror = mirror.New(store, l.Records, mopts...)

	recs, err := l.mirror.Load()
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	l.records = recs
	sortRecords(l.records)

	l.log.Info("ledger opened", "debtors", len(recs))
	return l, nil
}

// Mirror exposes the persistence mirror so a host can drive its periodic
// and lifecycle flushes.
func (l *Ledger) Mirror() *mirror.Mirror { return l.mirror }

// Close cancels any pending debounced flush. Mutations are already
// persisted when they return.
func (l *Ledger) Close() {
	l.mirror.Stop()
}

// Add creates a debtor owing amount.
func (l *Ledger) Add(name string, amount float64) (debtor.Record, error) {
	name, err := debtor.ValidName(name)
	if err != nil {
		return debtor.Record{}, err
	}
	if err := debtor.ValidAmount(amount); err != nil {
		return debtor.Record{}, err
	}

	l.mu.Lock()
	now := l.now()
	rec := debtor.Record{
		ID:           l.newID(now),
		Name:         name,
		Amount:       amount,
		CreatedAt:    now,
		LastModified: now,
	}
	l.records = append(l.records, rec)
	sortRecords(l.records)
	l.mu.Unlock()

	l.log.Debug("debtor added", "id", rec.ID, "amount", amount)
	return rec, l.persist()
}

// Adjustment is the result of changing a debtor's amount.
type Adjustment struct {
	Record debtor.Record
	// PaidOff is set when the amount reached exactly zero.
	PaidOff bool
}

// AdjustAmount adds delta to the debtor's amount, clamping at zero. A delta
// that is not finite, or that would push the amount out of range, is
// rejected and the record is left as it was.
func (l *Ledger) AdjustAmount(id string, delta float64) (Adjustment, error) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return Adjustment{}, &debtor.ValidationError{Field: "amount", Reason: "must be a number"}
	}

	l.mu.Lock()
	i := l.indexLocked(id)
	if i < 0 {
		l.mu.Unlock()
		return Adjustment{}, &debtor.NotFoundError{ID: id}
	}
	r := &l.records[i]
	next := r.Amount + delta
	if math.IsInf(next, 0) {
		l.mu.Unlock()
		return Adjustment{}, &debtor.ValidationError{Field: "amount", Reason: "out of range"}
	}
	r.Amount = debtor.Clamp(next)
	r.LastModified = l.now()
	out := Adjustment{Record: *r, PaidOff: r.Amount == 0}
	sortRecords(l.records)
	l.mu.Unlock()

	l.log.Debug("debtor adjusted", "id", id, "delta", delta, "amount", out.Record.Amount)
	return out, l.persist()
}

// Rename changes a debtor's name. changed is false, with no error and no
// write, when the trimmed name equals the current one.
func (l *Ledger) Rename(id, newName string) (rec debtor.Record, changed bool, err error) {
	l.mu.Lock()
	i := l.indexLocked(id)
	if i < 0 {
		l.mu.Unlock()
		return debtor.Record{}, false, &debtor.NotFoundError{ID: id}
	}
	r := &l.records[i]
	name, err := debtor.ValidName(newName)
	if err != nil {
		l.mu.Unlock()
		return *r, false, err
	}
	if name == r.Name {
		l.mu.Unlock()
		return *r, false, nil
	}
	r.Name = name
	r.LastModified = l.now()
	rec = *r
	l.mu.Unlock()

	return rec, true, l.persist()
}

// Remove deletes a debtor.
func (l *Ledger) Remove(id string) error {
	l.mu.Lock()
	i := l.indexLocked(id)
	if i < 0 {
		l.mu.Unlock()
		return &debtor.NotFoundError{ID: id}
	}
	l.records = append(l.records[:i], l.records[i+1:]...)
	if l.editing == id {
		l.editing = ""
	}
	l.mu.Unlock()

	l.log.Debug("debtor removed", "id", id)
	return l.persist()
}

// ReplaceAll swaps the whole list, as an import does. The batch is checked
// first and rejected whole; nothing is adopted from a bad batch.
func (l *Ledger) ReplaceAll(recs []debtor.Record) error {
	next, err := normalize(recs)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.records = next
	sortRecords(l.records)
	l.query = ""
	l.editing = ""
	l.mu.Unlock()

	l.log.Info("debtors replaced", "count", len(next))
	return l.persist()
}

// ClearAll drops every debtor.
func (l *Ledger) ClearAll() error {
	l.mu.Lock()
	l.records = []debtor.Record{}
	l.query = ""
	l.editing = ""
	l.mu.Unlock()

	l.log.Info("debtors cleared")
	return l.persist()
}

// Total is the exact sum of every amount.
func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sum(l.records)
}

// Records returns a copy of the list in its sorted order.
func (l *Ledger) Records() []debtor.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return debtor.Clone(l.records)
}

// Get returns one debtor by id.
func (l *Ledger) Get(id string) (debtor.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return debtor.Record{}, &debtor.NotFoundError{ID: id}
	}
	return l.records[i], nil
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Save flushes now, ahead of any pending debounced flush.
func (l *Ledger) Save() error {
	return l.mirror.Flush()
}

// Composing marks a free-text edit in progress; the mirror flushes once the
// edits settle.
func (l *Ledger) Composing() {
	l.mirror.Touch()
}

// persist runs after the lock is released: the mirror takes its snapshot
// through Records.
func (l *Ledger) persist() error {
	if err := l.mirror.Flush(); err != nil {
		l.log.Warn("mutation kept in memory only", "error", err)
		return err
	}
	return nil
}

func (l *Ledger) indexLocked(id string) int {
	for i := range l.records {
		if l.records[i].ID == id {
			return i
		}
	}
	return -1
}

// sortRecords orders by amount, largest first. Equal amounts keep their
// relative order.
func sortRecords(recs []debtor.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Amount > recs[j].Amount
	})
}

func sum(recs []debtor.Record) float64 {
	total := decimal.Zero
	for _, r := range recs {
		total = total.Add(decimal.NewFromFloat(r.Amount))
	}
	return total.InexactFloat64()
}

func normalize(recs []debtor.Record) ([]debtor.Record, error) {
	seen := make(map[string]bool, len(recs))
	out := make([]debtor.Record, 0, len(recs))
	for i, r := range recs {
		if r.ID == "" {
			return nil, &debtor.ValidationError{Field: "id", Reason: fmt.Sprintf("record %d has no id", i)}
		}
		if seen[r.ID] {
			return nil, &debtor.ValidationError{Field: "id", Reason: fmt.Sprintf("duplicate id %q", r.ID)}
		}
		seen[r.ID] = true

		name, err := debtor.ValidName(r.Name)
		if err != nil {
			return nil, &debtor.ValidationError{Field: "name", Reason: fmt.Sprintf("record %q has no name", r.ID)}
		}
		r.Name = name

		// Zero is a legitimate stored amount (a paid-off debt), so only
		// non-numbers are rejected here.
		if math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
			return nil, &debtor.ValidationError{Field: "amount", Reason: fmt.Sprintf("record %q amount is not a number", r.ID)}
		}
		r.Amount = debtor.Clamp(r.Amount)

		if r.LastModified.IsZero() {
			r.LastModified = r.CreatedAt
		}
		out = append(out, r)
	}
	return out, nil
}
