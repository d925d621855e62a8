// Package mirror keeps a durable copy of the ledger's records in a
// key-value store: write-through after every mutation, a debounced flush
// while the user is still typing, a periodic flush, and a flush when the
// host is about to go away.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/rustyeddy/debtbook/debtor"
	"github.com/rustyeddy/debtbook/journal"
	"github.com/rustyeddy/debtbook/notify"
)

const (
	DefaultRecordsKey   = "dzair-debtors"
	DefaultTimestampKey = "dzair-debtors-timestamp"

	DefaultDebounce  = time.Second
	DefaultInterval  = 30 * time.Second
	DefaultIndicator = 2 * time.Second
)

// Snapshot returns the records to persist. It must return a copy.
type Snapshot func() []debtor.Record

type Mirror struct {
	mu       sync.Mutex // held from snapshot to the last store write
	store    journal.Store
	snapshot Snapshot

	recordsKey   string
	timestampKey string
	debounce     time.Duration
	interval     time.Duration

	debounced Slot
	indicator *Indicator
	notifier  notify.Notifier
	log       *slog.Logger
	now       func() time.Time
	onSaved   func(time.Time)
}

type Option func(*Mirror)

func WithKeys(records, timestamp string) Option {
	return func(m *Mirror) {
		m.recordsKey = records
		m.timestampKey = timestamp
	}
}

func WithDebounce(d time.Duration) Option { return func(m *Mirror) { m.debounce = d } }
func WithInterval(d time.Duration) Option { return func(m *Mirror) { m.interval = d } }

// WithIndicator sets how long the saved badge stays up after a flush.
func WithIndicator(d time.Duration) Option {
	return func(m *Mirror) { m.indicator = NewIndicator(d) }
}

func WithNotifier(n notify.Notifier) Option { return func(m *Mirror) { m.notifier = n } }
func WithLogger(l *slog.Logger) Option      { return func(m *Mirror) { m.log = l } }
func WithClock(now func() time.Time) Option { return func(m *Mirror) { m.now = now } }

// OnSaved registers a listener for successful flushes. It runs on its own
// goroutine; a slow or panicking listener never affects the save.
func OnSaved(fn func(time.Time)) Option { return func(m *Mirror) { m.onSaved = fn } }

func New(store journal.Store, snapshot Snapshot, opts ...Option) *Mirror {
	m := &Mirror{
		store:        store,
		snapshot:     snapshot,
		recordsKey:   DefaultRecordsKey,
		timestampKey: DefaultTimestampKey,
		debounce:     DefaultDebounce,
		interval:     DefaultInterval,
		indicator:    NewIndicator(DefaultIndicator),
		notifier:     notify.Discard,
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load reads the stored records once. A store that has never been written
// yields an empty slice.
func (m *Mirror) Load() ([]debtor.Record, error) {
	raw, ok, err := m.store.Get(m.recordsKey)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if !ok || raw == "" {
		return []debtor.Record{}, nil
	}

	var recs []debtor.Record
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		return nil, fmt.Errorf("load records: decode %q: %w", m.recordsKey, err)
	}
	for i := range recs {
		if recs[i].LastModified.IsZero() {
			recs[i].LastModified = recs[i].CreatedAt
		}
	}
	if recs == nil {
		recs = []debtor.Record{}
	}

	m.log.Debug("records loaded", "count", len(recs), "key", m.recordsKey)
	return recs, nil
}

// SaveError is a failed flush. Memory is untouched and the next flush
// tries again.
type SaveError struct {
	Trigger string
	Err     error
}

func (e *SaveError) Error() string { return "could not save: " + e.Err.Error() }
func (e *SaveError) Unwrap() error { return e.Err }

// IsSaveError reports whether err is or wraps a *SaveError.
func IsSaveError(err error) bool {
	var s *SaveError
	return errors.As(err, &s)
}

// Flush writes the full snapshot and the flush time. Any pending debounced
// flush is dropped since this write already covers it. A failure is
// returned as a *SaveError for the caller to report.
func (m *Mirror) Flush() error {
	m.debounced.Cancel()
	return m.flush("write-through", false)
}

// Touch records a free-text edit. The flush runs once edits have been quiet
// for the debounce period. Nobody waits on that flush, so its failure goes
// to the notifier.
func (m *Mirror) Touch() {
	m.debounced.Schedule(m.debounce, func() {
		if err := m.flush("debounced", true); err != nil {
			m.notifier.Notify(err.Error(), notify.Error)
		}
	})
}

// Pending reports whether a debounced flush is waiting.
func (m *Mirror) Pending() bool {
	return m.debounced.Pending()
}

// Hidden is the host's "about to be hidden or unloaded" signal. It flushes
// synchronously when there is anything to keep.
func (m *Mirror) Hidden() error {
	return m.flush("hidden", true)
}

// Run flushes every interval while there are records, until ctx is done.
func (m *Mirror) Run(ctx context.Context) {
	m.log.Info("periodic flush started", "interval", m.interval.String())
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("periodic flush stopped")
			return
		case <-ticker.C:
			if err := m.flush("periodic", true); err != nil {
				m.notifier.Notify(err.Error(), notify.Error)
			}
		}
	}
}

// Stop cancels the pending debounced flush and lowers the saved badge.
func (m *Mirror) Stop() {
	m.debounced.Cancel()
	m.indicator.stop()
}

// Saved reports whether the saved badge is up, and when it was raised.
func (m *Mirror) Saved() (bool, time.Time) {
	return m.indicator.Visible()
}

// BackupInfo describes the last successful flush.
type BackupInfo struct {
	LastSave time.Time     `json:"last_save"`
	Since    time.Duration `json:"since"`
}

// LastSaved reads the flush timestamp back from the store. ok is false when
// nothing has been saved yet.
func (m *Mirror) LastSaved() (BackupInfo, bool, error) {
	raw, ok, err := m.store.Get(m.timestampKey)
	if err != nil {
		return BackupInfo{}, false, fmt.Errorf("read save time: %w", err)
	}
	if !ok {
		return BackupInfo{}, false, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return BackupInfo{}, false, fmt.Errorf("read save time: %w", err)
	}
	at := time.UnixMilli(ms)
	return BackupInfo{LastSave: at, Since: m.now().Sub(at)}, true, nil
}

// flush snapshots and writes under m.mu, so concurrent flushes land in the
// order their snapshots were taken. With skipEmpty an empty snapshot writes
// nothing.
func (m *Mirror) flush(trigger string, skipEmpty bool) error {
	m.mu.Lock()
	recs := m.snapshot()
	if skipEmpty && len(recs) == 0 {
		m.mu.Unlock()
		m.log.Debug("flush skipped, no records", "trigger", trigger)
		return nil
	}
	now, err := m.writeLocked(recs)
	m.mu.Unlock()

	if err != nil {
		m.log.Error("flush failed", "trigger", trigger, "error", err)
		return &SaveError{Trigger: trigger, Err: err}
	}

	m.log.Debug("records flushed", "trigger", trigger, "count", len(recs))
	m.indicator.Show(now)
	if m.onSaved != nil {
		go m.emitSaved(now)
	}
	return nil
}

func (m *Mirror) writeLocked(recs []debtor.Record) (time.Time, error) {
	if recs == nil {
		recs = []debtor.Record{}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return time.Time{}, fmt.Errorf("encode records: %w", err)
	}

	now := m.now()
	if err := m.store.Set(m.recordsKey, string(data)); err != nil {
		return time.Time{}, err
	}
	if err := m.store.Set(m.timestampKey, strconv.FormatInt(now.UnixMilli(), 10)); err != nil {
		return time.Time{}, err
	}
	return now, nil
}

func (m *Mirror) emitSaved(at time.Time) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Warn("saved listener panicked", "panic", r)
		}
	}()
	m.onSaved(at)
}
