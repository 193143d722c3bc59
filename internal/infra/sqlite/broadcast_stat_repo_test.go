package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turbostar190/birthify/internal/usecase"
)

func TestBroadcastStatRepoSaveAndList(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "test.db")
	repo, err := NewBroadcastStatRepo(dsn)
	require.NoError(t, err)

	require.NoError(t, repo.Save(usecase.BroadcastStat{Total: 10, Sent: 9, Failed: 1}))
	require.NoError(t, repo.Save(usecase.BroadcastStat{Total: 12, Sent: 12, Failed: 0}))

	recent, err := repo.ListRecent(5)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// newest first
	assert.Equal(t, 12, recent[0].Total)
	assert.Equal(t, 10, recent[1].Total)
	assert.False(t, recent[0].CreatedAt.IsZero())

	one, err := repo.ListRecent(1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, 12, one[0].Total)
}
