package policy

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "policies.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	want := ModelPolicy{
		ModelID:        "llama-7b",
		Priority:       80,
		Pinned:         true,
		ExpectedVRAMMB: 4200,
		TTLSecs:        600,
	}
	require.NoError(t, s.Upsert(ctx, want))

	got, ok, err := s.Get(ctx, "llama-7b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestStoreUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Upsert(ctx, ModelPolicy{ModelID: "m", Priority: 50, Pinned: true}))
	require.NoError(t, s.Upsert(ctx, ModelPolicy{ModelID: "m", Priority: 20}))

	got, ok, err := s.Get(ctx, "m")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 20, got.Priority)
	require.False(t, got.Pinned)
}

func TestStoreListSorted(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Upsert(ctx, ModelPolicy{ModelID: "zeta", Priority: 10}))
	require.NoError(t, s.Upsert(ctx, ModelPolicy{ModelID: "alpha", Priority: 90}))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "alpha", list[0].ModelID)
	require.Equal(t, "zeta", list[1].ModelID)
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Upsert(ctx, ModelPolicy{ModelID: "m", Priority: 50}))
	require.NoError(t, s.Delete(ctx, "m"))

	_, ok, err := s.Get(ctx, "m")
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting an absent row is not an error.
	require.NoError(t, s.Delete(ctx, "ghost"))
}
