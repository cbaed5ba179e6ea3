package index

import (
	"context"
	"sync"

	"github.com/akolanti/ContractAPI/internal/domain/analysisModel"
	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
)

// IndexedDocument is the live handle of one collection. Populate takes the write lock and
// Query the read lock, so a query never sees a half populated collection.
type IndexedDocument struct {
	CollectionId     string
	EmbeddingModelId string

	mu     sync.RWMutex
	chunks []commonModels.Chunk
	ready  bool
}

// Chunks returns a copy of the populated chunk sequence.
func (d *IndexedDocument) Chunks() []commonModels.Chunk {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]commonModels.Chunk(nil), d.chunks...)
}

func (d *IndexedDocument) Ready() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ready
}

// DocumentRetriever binds a handle to its index for read-only queries.
type DocumentRetriever struct {
	index *SemanticIndex
	doc   *IndexedDocument
}

func (s *SemanticIndex) Retriever(doc *IndexedDocument) *DocumentRetriever {
	return &DocumentRetriever{index: s, doc: doc}
}

func (r *DocumentRetriever) Query(ctx context.Context, text string, k int) ([]analysisModel.RetrievalResult, error) {
	return r.index.Query(ctx, r.doc, text, k)
}
