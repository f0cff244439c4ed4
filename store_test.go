package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := OpenArchive(filepath.Join(t.TempDir(), "runs", "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := openTestArchive(t)

	_, ok, err := a.Lookup(ctx, "nothing")
	require.NoError(t, err)
	assert.False(t, ok)

	res := sampleResult()
	id, err := a.Save(ctx, "fp-1", res)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	got, ok, err := a.Lookup(ctx, "fp-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, res, got)
}

func TestArchiveSkipsTruncatedRuns(t *testing.T) {
	ctx := context.Background()
	a := openTestArchive(t)

	res := sampleResult()
	res.Truncated = true
	_, err := a.Save(ctx, "fp-2", res)
	require.NoError(t, err)

	_, ok, err := a.Lookup(ctx, "fp-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArchiveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "archive.db")

	a, err := OpenArchive(path)
	require.NoError(t, err)
	_, err = a.Save(ctx, "fp-3", sampleResult())
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := OpenArchive(path)
	require.NoError(t, err)
	defer b.Close()
	_, ok, err := b.Lookup(ctx, "fp-3")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFingerprint(t *testing.T) {
	cat := mustCatalog(t, npc("A", "Likes Forest"), npc("B", "Hates A"))
	pol := Policy{MaxHappiness: 0.9, Ceilings: map[string]float64{"A": 0.8, "B": 0.85}}

	fp := Fingerprint(cat, pol)
	assert.Len(t, fp, 64)
	assert.Equal(t, fp, Fingerprint(cat, pol))
	assert.Equal(t, fp, Fingerprint(cat, pol.withDefaults()), "defaults do not change the fingerprint")

	pol.RequireAllBiomes = true
	assert.NotEqual(t, fp, Fingerprint(cat, pol))

	other := mustCatalog(t, npc("A", "Likes Forest"), npc("B", "Dislikes A"))
	assert.NotEqual(t, fp, Fingerprint(other, Policy{MaxHappiness: 0.9, Ceilings: pol.Ceilings}))
}

func TestOpenArchiveRejectsEmptyPath(t *testing.T) {
	_, err := OpenArchive("")
	require.Error(t, err)
}
