package chromemDB

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
	"github.com/akolanti/ContractAPI/internal/rag/vectorDB"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChunks() ([]commonModels.Chunk, [][]float32) {
	chunks := []commonModels.Chunk{
		{Id: "chunk_0", Ordinal: 0, Content: "payment terms", PositionHint: 1, Kind: commonModels.ChunkKindText},
		{Id: "chunk_1", Ordinal: 1, Content: "termination", PositionHint: 1, Kind: commonModels.ChunkKindText},
		{Id: "chunk_2", Ordinal: 2, Content: "governing law", PositionHint: 2, Kind: commonModels.ChunkKindText},
	}
	vectors := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	return chunks, vectors
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore("")
	require.NoError(t, err)

	exists, _ := s.CollectionExists(ctx, "msa")
	assert.False(t, exists)

	require.NoError(t, s.CreateCollection(ctx, "msa"))
	chunks, vectors := sampleChunks()
	require.NoError(t, s.UpsertBatch(ctx, "msa", chunks, vectors, "model-a"))

	n, err := s.Count(ctx, "msa")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	hits, err := s.Search(ctx, "msa", []float32{0, 1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 3, "limit is clamped to the collection size")
	assert.Equal(t, "chunk_1", hits[0].Chunk.Id)
	assert.Equal(t, "termination", hits[0].Chunk.Content)
	assert.Equal(t, 1, hits[0].Chunk.Ordinal)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-5)

	stored, err := s.GetChunks(ctx, "msa", []string{"chunk_2", "chunk_9"})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "model-a", stored["chunk_2"].EmbeddingModel)
	assert.Equal(t, 2, stored["chunk_2"].Chunk.PositionHint)

	require.NoError(t, s.DeleteCollection(ctx, "msa"))
	exists, _ = s.CollectionExists(ctx, "msa")
	assert.False(t, exists)
	require.NoError(t, s.DeleteCollection(ctx, "msa"), "deleting a missing collection is not an error")
}

func TestStore_GetChunksSkipsOnlyMissingIds(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore("")
	require.NoError(t, err)
	require.NoError(t, s.CreateCollection(ctx, "msa"))
	chunks, vectors := sampleChunks()
	require.NoError(t, s.UpsertBatch(ctx, "msa", chunks, vectors, "model-a"))

	stored, err := s.GetChunks(ctx, "msa", []string{"chunk_0", "chunk_7"})
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	_, err = s.GetChunks(ctx, "msa", []string{"chunk_0", ""})
	assert.Error(t, err, "an empty id is a lookup failure, not a missing chunk")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.GetChunks(cancelled, "msa", []string{"chunk_0"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_EmptyCollectionSearch(t *testing.T) {
	ctx := context.Background()
	s, _ := NewStore("")
	require.NoError(t, s.CreateCollection(ctx, "empty"))

	hits, err := s.Search(ctx, "empty", []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStore_MissingCollection(t *testing.T) {
	ctx := context.Background()
	s, _ := NewStore("")

	_, err := s.Count(ctx, "nope")
	assert.True(t, errors.Is(err, vectorDB.ErrCollectionNotFound))
	_, err = s.Search(ctx, "nope", []float32{1}, 1)
	assert.True(t, errors.Is(err, vectorDB.ErrCollectionNotFound))
}

func TestStore_UpsertMismatch(t *testing.T) {
	ctx := context.Background()
	s, _ := NewStore("")
	require.NoError(t, s.CreateCollection(ctx, "c"))
	chunks, _ := sampleChunks()
	err := s.UpsertBatch(ctx, "c", chunks, [][]float32{{1, 0, 0}}, "m")
	assert.Error(t, err)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "index")

	s, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.CreateCollection(ctx, "lease"))
	chunks, vectors := sampleChunks()
	require.NoError(t, s.UpsertBatch(ctx, "lease", chunks, vectors, "model-a"))

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	n, err := reopened.Count(ctx, "lease")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNewStore_PathIsAFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	s, err := NewStore(path)
	require.NoError(t, err, "an unreadable store is replaced by a fresh one")
	exists, _ := s.CollectionExists(context.Background(), "anything")
	assert.False(t, exists)

	matches, _ := filepath.Glob(path + ".corrupt-*")
	assert.Len(t, matches, 1)
}
