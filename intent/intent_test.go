package intent

import (
	"errors"
	"testing"

	"github.com/rustyeddy/debtbook/debtor"
	"github.com/rustyeddy/debtbook/journal"
	"github.com/rustyeddy/debtbook/ledger"
	"github.com/rustyeddy/debtbook/mirror"
	"github.com/rustyeddy/debtbook/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatcher(t *testing.T, c Confirmer) (*Dispatcher, *ledger.Ledger, *notify.Recorder, *journal.Memory) {
	t.Helper()
	store := journal.NewMemory()
	l, err := ledger.Open(store)
	require.NoError(t, err)
	t.Cleanup(l.Close)

	rec := &notify.Recorder{}
	return NewDispatcher(l, c, rec), l, rec, store
}

func messages(ns []notify.Notice) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Message)
	}
	return out
}

func TestAddAndPayOff(t *testing.T) {
	d, l, rec, _ := newDispatcher(t, nil)

	out, err := d.Dispatch(Intent{Kind: Add, Name: "Ali", Amount: 100})
	require.NoError(t, err)
	require.NotNil(t, out.Record)
	assert.True(t, out.Applied)

	out, err = d.Dispatch(Intent{Kind: Adjust, ID: out.Record.ID, Amount: -150})
	require.NoError(t, err)
	assert.True(t, out.PaidOff)
	assert.Equal(t, 0.0, out.Record.Amount)
	assert.Equal(t, 0.0, l.Total())

	notes := rec.Drain()
	assert.Equal(t, []string{"Debtor added and saved.", "Debt fully paid and saved!"}, messages(notes))
	assert.Equal(t, notify.Success, notes[1].Severity)
}

func TestAddInvalidNotifies(t *testing.T) {
	d, l, rec, _ := newDispatcher(t, nil)

	_, err := d.Dispatch(Intent{Kind: Add, Name: "  ", Amount: 10})
	require.Error(t, err)
	assert.True(t, debtor.IsValidation(err))
	assert.Equal(t, 0, l.Len())

	notes := rec.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.Error, notes[0].Severity)
	assert.Contains(t, notes[0].Message, "Please enter a valid name and amount")
}

func TestAdjustMissingDebtor(t *testing.T) {
	d, _, rec, _ := newDispatcher(t, nil)

	_, err := d.Dispatch(Intent{Kind: Adjust, ID: "gone", Amount: 50})
	require.Error(t, err)
	assert.True(t, debtor.IsNotFound(err))
	assert.Equal(t, []string{"That debtor no longer exists."}, messages(rec.Drain()))
}

func TestDeleteDeclined(t *testing.T) {
	var prompts []string
	decline := ConfirmFunc(func(p string) bool {
		prompts = append(prompts, p)
		return false
	})
	d, l, rec, _ := newDispatcher(t, decline)

	r, err := l.Add("Karim", 500)
	require.NoError(t, err)

	out, err := d.Dispatch(Intent{Kind: Delete, ID: r.ID})
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, []string{"Delete Karim?"}, prompts)

	out, err = d.Dispatch(Intent{Kind: ClearAll})
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Equal(t, 1, l.Len())
	assert.Empty(t, rec.Drain())
}

func TestDeleteConfirmed(t *testing.T) {
	d, l, rec, store := newDispatcher(t, AlwaysConfirm)

	a, err := l.Add("Karim", 500)
	require.NoError(t, err)
	_, err = l.Add("Sami", 1500)
	require.NoError(t, err)

	out, err := d.Dispatch(Intent{Kind: Delete, ID: a.ID})
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, "Karim", out.Record.Name)
	assert.Equal(t, 1, l.Len())

	_, err = d.Dispatch(Intent{Kind: ClearAll})
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())

	raw, ok, err := store.Get("dzair-debtors")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)

	assert.Equal(t, []string{"Debtor deleted and changes saved.", "All data deleted."}, messages(rec.Drain()))
}

func TestRenameUnchanged(t *testing.T) {
	d, l, rec, store := newDispatcher(t, nil)

	r, err := l.Add("Karim", 500)
	require.NoError(t, err)
	writes := store.Writes()

	out, err := d.Dispatch(Intent{Kind: Rename, ID: r.ID, Name: " Karim "})
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Equal(t, writes, store.Writes())
	assert.Empty(t, rec.Drain())

	out, err = d.Dispatch(Intent{Kind: Rename, ID: r.ID, Name: "Karim B."})
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, "Karim B.", out.Record.Name)
	assert.Equal(t, []string{"Name updated and saved."}, messages(rec.Drain()))
}

func TestCustomEntry(t *testing.T) {
	d, l, _, _ := newDispatcher(t, nil)

	r, err := l.Add("Sami", 1000)
	require.NoError(t, err)

	_, err = d.Dispatch(Intent{Kind: BeginCustom, ID: r.ID})
	require.NoError(t, err)

	_, err = d.Dispatch(Intent{Kind: SubmitCustom, ID: r.ID, Amount: 0, Increase: true})
	require.Error(t, err)
	target, ok := l.EditingTarget()
	assert.True(t, ok, "a rejected amount keeps the entry open")
	assert.Equal(t, r.ID, target)

	out, err := d.Dispatch(Intent{Kind: SubmitCustom, ID: r.ID, Amount: 250, Increase: true})
	require.NoError(t, err)
	assert.Equal(t, 1250.0, out.Record.Amount)
	_, ok = l.EditingTarget()
	assert.False(t, ok)

	out, err = d.Dispatch(Intent{Kind: CancelCustom})
	require.NoError(t, err)
	assert.False(t, out.Applied)
}

func TestEscapeOrder(t *testing.T) {
	d, l, _, _ := newDispatcher(t, nil)

	r, err := l.Add("Sami", 1000)
	require.NoError(t, err)

	_, err = d.Dispatch(Intent{Kind: Search, Query: "sa"})
	require.NoError(t, err)
	_, err = d.Dispatch(Intent{Kind: BeginCustom, ID: r.ID})
	require.NoError(t, err)

	out, err := d.Dispatch(Intent{Kind: Escape})
	require.NoError(t, err)
	assert.True(t, out.Applied)
	_, editing := l.EditingTarget()
	assert.False(t, editing)
	assert.Equal(t, "sa", l.Query(), "first escape only closes the custom entry")

	out, err = d.Dispatch(Intent{Kind: Escape})
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, "", l.Query())

	out, err = d.Dispatch(Intent{Kind: Escape})
	require.NoError(t, err)
	assert.False(t, out.Applied)
}

func TestSaveAndHidden(t *testing.T) {
	d, l, rec, store := newDispatcher(t, nil)

	_, err := l.Add("Karim", 500)
	require.NoError(t, err)
	writes := store.Writes()

	_, err = d.Dispatch(Intent{Kind: Save})
	require.NoError(t, err)
	assert.Greater(t, store.Writes(), writes)
	assert.Equal(t, []string{"Saved manually."}, messages(rec.Drain()))

	writes = store.Writes()
	_, err = d.Dispatch(Intent{Kind: Hidden})
	require.NoError(t, err)
	assert.Greater(t, store.Writes(), writes)
}

func TestSaveFailureNotifiedOnce(t *testing.T) {
	store := journal.NewMemory()
	rec := &notify.Recorder{}
	l, err := ledger.Open(store, ledger.WithMirror(mirror.WithNotifier(rec)))
	require.NoError(t, err)
	t.Cleanup(l.Close)

	d := NewDispatcher(l, nil, rec)
	_, err = l.Add("Karim", 500)
	require.NoError(t, err)

	store.FailWrites = errors.New("disk full")
	_, err = d.Dispatch(Intent{Kind: Save})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.FailWrites)

	notes := rec.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, "could not save: disk full. Changes are kept until the next save.", notes[0].Message)
	assert.Equal(t, notify.Error, notes[0].Severity)
}

func TestMutationSaveFailureReplacesSuccess(t *testing.T) {
	d, l, rec, store := newDispatcher(t, nil)
	store.FailWrites = errors.New("disk full")

	out, err := d.Dispatch(Intent{Kind: Add, Name: "Karim", Amount: 500})
	require.Error(t, err)
	assert.True(t, mirror.IsSaveError(err))
	assert.True(t, out.Applied)
	require.NotNil(t, out.Record)
	assert.Equal(t, 1, l.Len(), "memory keeps the change")

	notes := rec.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.Error, notes[0].Severity)
	assert.Contains(t, notes[0].Message, "could not save: disk full")

	out, err = d.Dispatch(Intent{Kind: Adjust, ID: out.Record.ID, Amount: -500})
	require.Error(t, err)
	assert.True(t, out.PaidOff)
	notes = rec.Drain()
	require.Len(t, notes, 1)
	assert.NotEqual(t, "Debt fully paid and saved!", notes[0].Message)
	assert.Equal(t, notify.Error, notes[0].Severity)
}

func TestComposingSchedulesFlush(t *testing.T) {
	d, l, _, _ := newDispatcher(t, nil)

	_, err := l.Add("Karim", 500)
	require.NoError(t, err)

	_, err = d.Dispatch(Intent{Kind: Composing})
	require.NoError(t, err)
	assert.True(t, l.Mirror().Pending())
}

func TestUnknownKind(t *testing.T) {
	d, _, rec, _ := newDispatcher(t, nil)

	_, err := d.Dispatch(Intent{Kind: Kind(99)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Contains(t, err.Error(), "kind(99)")
	assert.Len(t, rec.Drain(), 1)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "clear-all", ClearAll.String())
	assert.Equal(t, "submit-custom", SubmitCustom.String())
}
