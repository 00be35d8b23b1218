package links_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peppidesu/landmower/internal/links"
	"github.com/peppidesu/landmower/internal/queue"
)

func TestStore_Add_DerivesShortAlias(t *testing.T) {
	s := links.New()

	alias, e, created, err := s.Add("https://example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, alias, 4)
	assert.Equal(t, "https://example.com", e.Link)
	assert.Equal(t, uint64(0), e.Metadata.Used)

	aliases := s.FindByLink("https://example.com")
	assert.Equal(t, []string{alias}, aliases)
	assert.NoError(t, s.CheckInvariants())
}

func TestStore_Add_IsIdempotentPerLink(t *testing.T) {
	s := links.New()

	alias1, e1, created, err := s.Add("https://example.com")
	require.NoError(t, err)
	require.True(t, created)

	alias2, e2, created, err := s.Add("https://example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, alias1, alias2)
	assert.Equal(t, e1, e2)

	assert.Equal(t, 1, s.Len())
	assert.Len(t, s.FindByLink("https://example.com"), 1)
	assert.NoError(t, s.CheckInvariants())
}

func TestStore_Add_GrowsAliasOnPrefixCollision(t *testing.T) {
	s := links.New()
	link := "https://example.com"
	hash := links.HashAlias(link)

	// Occupy the 4-character prefix with a different link.
	_, err := s.AddNamed(hash[:4], "https://other.example")
	require.NoError(t, err)

	alias, _, created, err := s.Add(link)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, hash[:5], alias)

	assert.Equal(t, []string{alias}, s.FindByLink(link))
	assert.Equal(t, []string{hash[:4]}, s.FindByLink("https://other.example"))
	assert.NoError(t, s.CheckInvariants())
}

func TestStore_Add_KeyspaceExhausted(t *testing.T) {
	s := links.New()
	link := "https://example.com"
	hash := links.HashAlias(link)

	for i := 4; i <= len(hash); i++ {
		_, err := s.AddNamed(hash[:i], "https://other.example")
		require.NoError(t, err)
	}

	_, _, _, err := s.Add(link)
	assert.ErrorIs(t, err, links.ErrKeyspaceExhausted)
}

func TestStore_AddNamed(t *testing.T) {
	s := links.New()

	e, err := s.AddNamed("test", "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", e.Link)

	got, ok := s.Get("test")
	require.True(t, ok)
	assert.Equal(t, e, got)
	assert.Equal(t, []string{"test"}, s.FindByLink("https://example.com"))
}

func TestStore_AddNamed_AliasInUse(t *testing.T) {
	s := links.New()

	_, err := s.AddNamed("test", "https://example.com")
	require.NoError(t, err)

	_, err = s.AddNamed("test", "https://other.com")
	assert.ErrorIs(t, err, links.ErrAliasInUse)

	// Explicit aliases are never deduped, even for the same link.
	_, err = s.AddNamed("test", "https://example.com")
	assert.ErrorIs(t, err, links.ErrAliasInUse)

	assert.Equal(t, 1, s.Len())
	assert.NoError(t, s.CheckInvariants())
}

func TestStore_AddNamed_MultipleAliasesPerLink(t *testing.T) {
	s := links.New()

	_, err := s.AddNamed("key1", "https://example.com")
	require.NoError(t, err)
	_, err = s.AddNamed("key2", "https://example.com")
	require.NoError(t, err)

	aliases := s.FindByLink("https://example.com")
	assert.ElementsMatch(t, []string{"key1", "key2"}, aliases)
	assert.NoError(t, s.CheckInvariants())
}

func TestStore_Remove(t *testing.T) {
	s := links.New()
	e, err := s.AddNamed("key", "https://example.com")
	require.NoError(t, err)

	removed, ok := s.Remove("key")
	require.True(t, ok)
	assert.Equal(t, e, removed)

	_, ok = s.Get("key")
	assert.False(t, ok)
	assert.Empty(t, s.FindByLink("https://example.com"))
	assert.Equal(t, 0, s.Len())
	assert.NoError(t, s.CheckInvariants())
}

func TestStore_Remove_Nonexistent(t *testing.T) {
	s := links.New()
	_, err := s.AddNamed("key", "https://example.com")
	require.NoError(t, err)

	_, ok := s.Remove("nonexistent")
	assert.False(t, ok)

	// Removing the same alias twice reports absent, not a fault.
	_, ok = s.Remove("key")
	require.True(t, ok)
	_, ok = s.Remove("key")
	assert.False(t, ok)
	assert.NoError(t, s.CheckInvariants())
}

func TestStore_Remove_KeepsSiblingAliases(t *testing.T) {
	s := links.New()
	_, err := s.AddNamed("key1", "https://example.com")
	require.NoError(t, err)
	_, err = s.AddNamed("key2", "https://example.com")
	require.NoError(t, err)

	_, ok := s.Remove("key1")
	require.True(t, ok)

	assert.Equal(t, []string{"key2"}, s.FindByLink("https://example.com"))
	assert.NoError(t, s.CheckInvariants())
}

func TestStore_FindByLink_Nonexistent(t *testing.T) {
	s := links.New()
	assert.Empty(t, s.FindByLink("https://nonexistent.example"))
}

func TestStore_Snapshot(t *testing.T) {
	s := links.New()
	_, err := s.AddNamed("key1", "https://example1.com")
	require.NoError(t, err)
	_, err = s.AddNamed("key2", "https://example2.com")
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Len(t, snap, 2)
	assert.Equal(t, "https://example1.com", snap["key1"].Link)

	// The snapshot is detached from the live store.
	_, ok := s.Remove("key1")
	require.True(t, ok)
	assert.Len(t, snap, 2)

	// Calling again yields current state.
	assert.Len(t, s.Snapshot(), 1)
}

func TestStore_ApplyAccessBatch_SkipsRemovedAliases(t *testing.T) {
	s := links.New()
	_, err := s.AddNamed("kept", "https://example.com")
	require.NoError(t, err)

	merged, discarded := s.ApplyAccessBatch([]queue.Event{
		{Alias: "kept", Timestamp: mustTime(t, "2026-08-20T10:00:00Z")},
		{Alias: "gone", Timestamp: mustTime(t, "2026-08-20T10:00:01Z")},
	})
	assert.Equal(t, 1, merged)
	assert.Equal(t, 1, discarded)

	e, ok := s.Get("kept")
	require.True(t, ok)
	assert.Equal(t, uint64(1), e.Metadata.Used)
	assert.NoError(t, s.CheckInvariants())
}

func TestStore_ApplyAccessBatch_LastUsedNeverRegresses(t *testing.T) {
	s := links.New()
	_, err := s.AddNamed("key", "https://example.com")
	require.NoError(t, err)

	t1 := mustTime(t, "2026-08-20T10:00:00Z")
	t2 := mustTime(t, "2026-08-20T11:00:00Z")

	// Out-of-order delivery: the later timestamp arrives first.
	merged, _ := s.ApplyAccessBatch([]queue.Event{
		{Alias: "key", Timestamp: t2},
		{Alias: "key", Timestamp: t1},
	})
	require.Equal(t, 2, merged)

	e, _ := s.Get("key")
	assert.Equal(t, uint64(2), e.Metadata.Used)
	assert.True(t, e.Metadata.LastUsed.Equal(t2))
}
