package usecase_test

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turbostar190/birthify/internal/infra/memory"
	"github.com/turbostar190/birthify/internal/usecase"
)

var testNow = time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

func newTestDialog(t *testing.T) (*usecase.Dialog, *memory.UserRepo, *memory.BirthdayRepo) {
	t.Helper()
	users := memory.NewUserRepo()
	birthdays := memory.NewBirthdayRepo(users)
	d := usecase.NewDialog(users, birthdays, slog.New(slog.NewTextHandler(io.Discard, nil)))
	d.Now = func() time.Time { return testNow }
	return d, users, birthdays
}

func TestDialogStart(t *testing.T) {
	d, _, _ := newTestDialog(t)
	s := &usecase.Session{State: usecase.StateIdle}

	r := d.Handle(s, 42, "/start")
	assert.Equal(t, "Benvenuto nel bot! Comandi disponibili in basso.", r.Text)
	assert.Equal(t, usecase.KeyboardMain, r.Keyboard)

	r = d.Handle(s, 42, "/start")
	assert.Equal(t, "Felice di risentirti nel bot! Comandi disponibili in basso.", r.Text)
}

func TestDialogAddFlow(t *testing.T) {
	d, users, birthdays := newTestDialog(t)
	s := &usecase.Session{State: usecase.StateIdle}

	r := d.Handle(s, 42, "/add")
	assert.Equal(t, usecase.StateAwaitDate, s.State)
	assert.Equal(t, usecase.KeyboardCancel, r.Keyboard)

	r = d.Handle(s, 42, "15/03/1990")
	assert.Equal(t, usecase.StateAwaitName, s.State)
	assert.Equal(t, "Inserisci il nome del festeggiato: ", r.Text)

	r = d.Handle(s, 42, "Mario")
	assert.Equal(t, usecase.StateIdle, s.State)
	assert.Equal(t, "Perfetto! Compleanno inserito!", r.Text)
	assert.Equal(t, usecase.KeyboardMain, r.Keyboard)

	_, ownerID, err := users.EnsureUser(42)
	require.NoError(t, err)
	rows, err := birthdays.ListByOwner(ownerID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Mario", rows[0].Name)
	assert.Equal(t, "1990-03-15", rows[0].Date.Format("2006-01-02"))
}

func TestDialogAddInvalidDateReprompts(t *testing.T) {
	d, _, _ := newTestDialog(t)
	s := &usecase.Session{State: usecase.StateIdle}

	d.Handle(s, 42, "/add")

	r := d.Handle(s, 42, "30/02/2020")
	assert.Equal(t, usecase.StateAwaitDate, s.State)
	assert.Contains(t, r.Text, "Formato non valido!")

	r = d.Handle(s, 42, "01/01/2030")
	assert.Equal(t, usecase.StateAwaitDate, s.State)
	assert.Contains(t, r.Text, "data futura")

	// still recoverable with a valid date
	d.Handle(s, 42, "29/02/2000")
	assert.Equal(t, usecase.StateAwaitName, s.State)
}

func TestDialogCancelLeavesStoreUnchanged(t *testing.T) {
	d, users, birthdays := newTestDialog(t)
	s := &usecase.Session{State: usecase.StateIdle}

	d.Handle(s, 42, "/add")
	d.Handle(s, 42, "15/03/1990")
	r := d.Handle(s, 42, "❌ Annulla")
	assert.Equal(t, "Azione annullata!", r.Text)
	assert.Equal(t, usecase.StateIdle, s.State)
	assert.True(t, s.PendingDate.IsZero())

	_, ownerID, err := users.EnsureUser(42)
	require.NoError(t, err)
	rows, err := birthdays.ListByOwner(ownerID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDialogListOrderingAndAges(t *testing.T) {
	d, users, birthdays := newTestDialog(t)
	s := &usecase.Session{State: usecase.StateIdle}

	_, ownerID, err := users.EnsureUser(42)
	require.NoError(t, err)
	mustInsert(t, birthdays, ownerID, "1990-03-15", "Mario")
	mustInsert(t, birthdays, ownerID, "2005-01-02", "Luigi")
	mustInsert(t, birthdays, ownerID, "1999-12-30", "Anna")

	r := d.Handle(s, 42, "/lista")
	want := "Luigi: 02/01/2005 - 21 anni\n" +
		"Mario: 15/03/1990 - 36 anni\n" +
		"Anna: 30/12/1999 - 26 anni\n"
	assert.Equal(t, want, r.Text)
}

func TestDialogListEmpty(t *testing.T) {
	d, _, _ := newTestDialog(t)
	s := &usecase.Session{State: usecase.StateIdle}

	r := d.Handle(s, 42, "☰ Lista")
	assert.Equal(t, "Non hai ancora inserito nessun compleanno!", r.Text)
}

func TestDialogRemoveFlow(t *testing.T) {
	d, users, birthdays := newTestDialog(t)
	s := &usecase.Session{State: usecase.StateIdle}

	_, ownerID, err := users.EnsureUser(42)
	require.NoError(t, err)
	id := mustInsert(t, birthdays, ownerID, "1990-03-15", "Mario")

	r := d.Handle(s, 42, "/remove")
	assert.Equal(t, usecase.StateAwaitDelete, s.State)
	assert.Contains(t, r.Text, "Quale compleanno vuoi eliminare?")
	assert.Contains(t, r.Text, fmt.Sprintf("/del_%d", id))

	r = d.Handle(s, 42, fmt.Sprintf("/del_%d", id))
	assert.Equal(t, usecase.StateIdle, s.State)
	assert.Equal(t, "Perfetto! Compleanno eliminato!", r.Text)

	rows, err := birthdays.ListByOwner(ownerID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDialogRemoveEmpty(t *testing.T) {
	d, _, _ := newTestDialog(t)
	s := &usecase.Session{State: usecase.StateIdle}

	r := d.Handle(s, 42, "/remove")
	assert.Equal(t, usecase.StateIdle, s.State)
	assert.Equal(t, "Non hai ancora inserito nessun compleanno!", r.Text)
}

func TestDialogRemoveNotOwned(t *testing.T) {
	d, users, birthdays := newTestDialog(t)

	_, ownerA, err := users.EnsureUser(42)
	require.NoError(t, err)
	idA := mustInsert(t, birthdays, ownerA, "1990-03-15", "Mario")

	_, ownerB, err := users.EnsureUser(99)
	require.NoError(t, err)
	mustInsert(t, birthdays, ownerB, "2000-06-15", "Luca")

	// user B tries to delete user A's record via its token
	sB := &usecase.Session{State: usecase.StateIdle}
	d.Handle(sB, 99, "/remove")
	r := d.Handle(sB, 99, fmt.Sprintf("/del_%d", idA))
	assert.Contains(t, r.Text, "Qualcosa è andato storto!")
	assert.Equal(t, usecase.StateIdle, sB.State)

	rows, err := birthdays.ListByOwner(ownerA)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "record of user A must survive")
}

func TestDialogRemoveUnknownReplyReprompts(t *testing.T) {
	d, users, birthdays := newTestDialog(t)
	s := &usecase.Session{State: usecase.StateIdle}

	_, ownerID, err := users.EnsureUser(42)
	require.NoError(t, err)
	id := mustInsert(t, birthdays, ownerID, "1990-03-15", "Mario")

	d.Handle(s, 42, "/remove")
	r := d.Handle(s, 42, "ciao")
	assert.Equal(t, usecase.StateAwaitDelete, s.State)
	assert.Contains(t, r.Text, "Scelta non valida!")

	// the printed token still works afterwards
	r = d.Handle(s, 42, fmt.Sprintf("del_%d", id))
	assert.Equal(t, "Perfetto! Compleanno eliminato!", r.Text)
}

func TestDialogDeleteTwiceFails(t *testing.T) {
	d, users, birthdays := newTestDialog(t)
	s := &usecase.Session{State: usecase.StateIdle}

	_, ownerID, err := users.EnsureUser(42)
	require.NoError(t, err)
	id := mustInsert(t, birthdays, ownerID, "1990-03-15", "Mario")
	mustInsert(t, birthdays, ownerID, "2000-06-15", "Luca")

	d.Handle(s, 42, "/remove")
	r := d.Handle(s, 42, fmt.Sprintf("/del_%d", id))
	assert.Equal(t, "Perfetto! Compleanno eliminato!", r.Text)

	d.Handle(s, 42, "/remove")
	r = d.Handle(s, 42, fmt.Sprintf("/del_%d", id))
	assert.Contains(t, r.Text, "Qualcosa è andato storto!")
}

func mustInsert(t *testing.T, repo *memory.BirthdayRepo, ownerID int64, isoDate, name string) int64 {
	t.Helper()
	d, err := time.Parse("2006-01-02", isoDate)
	require.NoError(t, err)
	id, err := repo.Insert(ownerID, d, name)
	require.NoError(t, err)
	return id
}
