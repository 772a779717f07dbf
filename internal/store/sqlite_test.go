package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uthkarsh2006/contestbot/internal/domain"
)

func openTestRepo(t *testing.T, path string) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), path, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sub(chatID int64, name string) *domain.Subscriber {
	return &domain.Subscriber{
		ChatID:    chatID,
		UserID:    chatID,
		FirstName: name,
		CreatedAt: time.Now().UTC(),
	}
}

func TestAdd_IdempotentPerChatID(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t, filepath.Join(t.TempDir(), "subs.db"))

	added, err := repo.Add(ctx, sub(1, "Ada"))
	require.NoError(t, err)
	require.True(t, added)

	// Same chat_id again, even with different metadata: no-op.
	added, err = repo.Add(ctx, sub(1, "Someone Else"))
	require.NoError(t, err)
	require.False(t, added)

	added, err = repo.Add(ctx, sub(2, "Grace"))
	require.NoError(t, err)
	require.True(t, added)

	subs, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	require.Equal(t, "Ada", subs[0].FirstName, "first registration wins")

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "subs.db")

	repo := openTestRepo(t, path)
	_, err := repo.Add(ctx, sub(7, "Ada"))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened := openTestRepo(t, path)
	subs, err := reopened.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.Equal(t, int64(7), subs[0].ChatID)
}

func TestOpenSQLite_CorruptFileStartsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "subs.db")
	require.NoError(t, os.WriteFile(path, []byte("this is not a database"), 0o644))

	repo := openTestRepo(t, path)
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	// The bad file is kept for post-mortem, not destroyed.
	_, err = os.Stat(path + ".corrupt")
	require.NoError(t, err)
}

func TestListAll_EmptyStore(t *testing.T) {
	repo := openTestRepo(t, filepath.Join(t.TempDir(), "subs.db"))
	subs, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, subs)
}
