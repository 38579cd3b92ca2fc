package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/refind/core"
	"github.com/poiesic/refind/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingRepository_PutAndGet(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	set := &core.EmbeddingSet{
		ReportId:    "rep-1",
		FaceVectors: [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		ImageVector: []float32{0.5, 0.6},
		TextVector:  []float32{0.7, 0.8, 0.9},
		CreatedAt:   time.Now().UTC(),
	}

	require.NoError(t, stores.Embeddings.PutEmbeddingSet(ctx, set))

	got, err := stores.Embeddings.GetEmbeddingSet(ctx, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, set.ReportId, got.ReportId)
	assert.Len(t, got.FaceVectors, 2)
	assert.Equal(t, set.ImageVector, got.ImageVector)
	assert.Equal(t, set.TextVector, got.TextVector)
}

func TestEmbeddingRepository_PutReplaces(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	first := &core.EmbeddingSet{ReportId: "rep-1", TextVector: []float32{1, 2}}
	second := &core.EmbeddingSet{ReportId: "rep-1", TextVector: []float32{3, 4}}

	require.NoError(t, stores.Embeddings.PutEmbeddingSet(ctx, first))
	require.NoError(t, stores.Embeddings.PutEmbeddingSet(ctx, second))

	got, err := stores.Embeddings.GetEmbeddingSet(ctx, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 4}, got.TextVector)
}

func TestEmbeddingRepository_GetMissing(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	_, err = stores.Embeddings.GetEmbeddingSet(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEmbeddingRepository_EmptyReportId(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	err = stores.Embeddings.PutEmbeddingSet(context.Background(), &core.EmbeddingSet{})
	assert.ErrorIs(t, err, core.ErrEmptyReportId)
}

func TestEmbeddingRepository_ForEach(t *testing.T) {
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	for _, id := range []string{"rep-1", "rep-2"} {
		require.NoError(t, stores.Embeddings.PutEmbeddingSet(ctx, &core.EmbeddingSet{
			ReportId:   id,
			TextVector: []float32{1},
		}))
	}

	var count int
	err = stores.Embeddings.ForEachEmbeddingSet(ctx, func(*core.EmbeddingSet) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
