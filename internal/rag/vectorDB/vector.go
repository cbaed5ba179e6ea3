package vectorDB

import (
	"context"
	"errors"

	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
)

var ErrCollectionNotFound = errors.New("collection not found")

// StoredChunk is a chunk as it was persisted, with the model that embedded it.
type StoredChunk struct {
	Chunk          commonModels.Chunk
	EmbeddingModel string
}

// ScoredChunk is a raw backend hit. Similarity is cosine similarity in [-1,1].
type ScoredChunk struct {
	Chunk      commonModels.Chunk
	Similarity float32
}

type DataProcessor interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, collectionName string) error
	DeleteCollection(ctx context.Context, collectionName string) error
	Count(ctx context.Context, collectionName string) (int, error)

	// GetChunks returns the stored chunks among ids, keyed by chunk id. Missing ids are absent.
	GetChunks(ctx context.Context, collectionName string, ids []string) (map[string]StoredChunk, error)
	UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.Chunk, vectors [][]float32, embeddingModel string) error
	Search(ctx context.Context, collectionName string, vector []float32, limit int) ([]ScoredChunk, error)
}

// payload keys shared by the backends
const (
	KeyChunkId        = "chunk_id"
	KeyChunkOrder     = "chunk_order"
	KeyContent        = "content"
	KeyPageNum        = "page_num"
	KeyElementType    = "element_type"
	KeyEmbeddingModel = "embedding_model"
)
