package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertUnknownOwnerFails(t *testing.T) {
	users := NewUserRepo()
	birthdays := NewBirthdayRepo(users)

	_, err := birthdays.Insert(9999, time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC), "Nessuno")
	require.Error(t, err, "insert with nonexistent owner must fail")

	_, ownerID, err := users.EnsureUser(42)
	require.NoError(t, err)
	id, err := birthdays.Insert(ownerID, time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC), "Mario")
	require.NoError(t, err)
	assert.NotZero(t, id)

	rows, err := birthdays.ListByOwner(ownerID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
