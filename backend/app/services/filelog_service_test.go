package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"quicksort/backend/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLogListNewestFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for _, name := range []string{"one", "two", "three"} {
		require.NoError(t, h.logs.Record(ctx, &models.FileLog{
			BatchID:      "b1",
			Filename:     name,
			OriginalPath: "/in/" + name,
			Action:       models.ActionMoved,
			Status:       models.StatusSuccess,
		}))
	}

	all, err := h.logs.List(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "three", all[0].Filename)
	assert.Equal(t, "one", all[2].Filename)
	assert.False(t, all[0].Timestamp.IsZero())

	two, err := h.logs.List(2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestFileLogListBatch(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for i, batch := range []string{"b1", "b2", "b1"} {
		require.NoError(t, h.logs.Record(ctx, &models.FileLog{
			BatchID:      batch,
			Filename:     fmt.Sprintf("f%d", i),
			OriginalPath: fmt.Sprintf("/in/f%d", i),
			Action:       models.ActionMoved,
			Status:       models.StatusSuccess,
		}))
	}

	got, err := h.logs.ListBatch("b1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "f0", got[0].Filename)
	assert.Equal(t, "f2", got[1].Filename)

	none, err := h.logs.ListBatch("missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFileLogKeepsTimestamp(t *testing.T) {
	h := newHarness(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := &models.FileLog{Filename: "a", OriginalPath: "/a", Action: models.ActionCopied, Status: models.StatusFailed, Timestamp: at}
	require.NoError(t, h.logs.Record(context.Background(), entry))

	got, err := h.logs.List(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, at.Equal(got[0].Timestamp))
}

func TestFileLogStats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	statuses := []string{models.StatusSuccess, models.StatusSuccess, models.StatusFailed, models.StatusPending}
	for _, st := range statuses {
		require.NoError(t, h.logs.Record(ctx, &models.FileLog{Filename: "f", OriginalPath: "/f", Action: models.ActionMoved, Status: st}))
	}

	stats, err := h.logs.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(2), stats.Success)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(1), stats.Pending)

	published := h.published.Entries()
	require.Len(t, published, 4)
	assert.NotZero(t, published[0].ID)
}
