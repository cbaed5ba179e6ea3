// Package index is the semantic index: one embedded collection per document, addressed by a
// collection id derived from the document name.
package index

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/domain/analysisModel"
	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
	"github.com/akolanti/ContractAPI/internal/metrics"
	"github.com/akolanti/ContractAPI/internal/rag/chunker"
	"github.com/akolanti/ContractAPI/internal/rag/embedding"
	"github.com/akolanti/ContractAPI/internal/rag/ragErrors"
	"github.com/akolanti/ContractAPI/internal/rag/vectorDB"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	BatchSize   int
	Concurrency int
	// Progress, when set, is called after each stored batch with the running total. Batches
	// run concurrently so it must be safe for concurrent use.
	Progress func(done, total int)
}

type PopulateResult struct {
	Embedded int
	Reused   bool
}

type SemanticIndex struct {
	store    vectorDB.DataProcessor
	embedder embedding.Embedder
	opts     Options
	logger   *logger_i.Logger

	mu      sync.Mutex
	handles map[string]*IndexedDocument
}

func New(store vectorDB.DataProcessor, embedder embedding.Embedder, opts Options) *SemanticIndex {
	if opts.BatchSize <= 0 {
		opts.BatchSize = config.EmbeddingBatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &SemanticIndex{
		store:    store,
		embedder: embedder,
		opts:     opts,
		logger:   logger_i.NewLogger("semantic_index"),
		handles:  make(map[string]*IndexedDocument),
	}
}

func (s *SemanticIndex) EmbeddingModelId() string {
	return s.embedder.ModelId()
}

// extra hits fetched past k so ties at the cutoff can be seen
const queryTieMargin = 8

var unsafeCollectionChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// CollectionIdFor derives the collection id from the document's file name without extension.
func CollectionIdFor(documentName string) string {
	base := filepath.Base(strings.ReplaceAll(documentName, `\`, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	id := strings.Trim(unsafeCollectionChars.ReplaceAllString(base, "_"), "._-")
	if id == "" {
		return "document"
	}
	return id
}

// OpenOrCreate returns the live handle for collectionId, loading a persisted collection or
// creating an empty one. A collection that cannot be loaded is replaced by a fresh one.
func (s *SemanticIndex) OpenOrCreate(ctx context.Context, collectionId string) (*IndexedDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc, ok := s.handles[collectionId]; ok {
		return doc, nil
	}

	log := s.logger.WithTrace(ctx).With("collection", collectionId)
	doc := &IndexedDocument{CollectionId: collectionId, EmbeddingModelId: s.embedder.ModelId()}

	chunks, err := s.load(ctx, collectionId)
	switch {
	case err == nil && chunks != nil:
		log.Info("loaded persisted collection", "chunks", len(chunks))
		doc.chunks = chunks
	default:
		if err != nil {
			log.Error("could not load collection, creating a fresh one", "error", err)
			if delErr := s.store.DeleteCollection(ctx, collectionId); delErr != nil {
				log.Warn("could not remove unreadable collection", "error", delErr)
			}
		}
		if err := s.store.CreateCollection(ctx, collectionId); err != nil {
			return nil, ragErrors.Index(fmt.Errorf("creating collection %s: %w", collectionId, err))
		}
		doc.chunks = []commonModels.Chunk{}
	}
	doc.ready = true

	s.handles[collectionId] = doc
	return doc, nil
}

// load returns nil, nil when the collection does not exist.
func (s *SemanticIndex) load(ctx context.Context, collectionId string) ([]commonModels.Chunk, error) {
	exists, err := s.store.CollectionExists(ctx, collectionId)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	count, err := s.store.Count(ctx, collectionId)
	if err != nil {
		return nil, err
	}

	ids := make([]string, count)
	for i := range ids {
		ids[i] = chunker.ChunkId(i)
	}
	stored, err := s.store.GetChunks(ctx, collectionId, ids)
	if err != nil {
		return nil, err
	}

	chunks := make([]commonModels.Chunk, 0, count)
	for _, id := range ids {
		sc, ok := stored[id]
		if !ok {
			return nil, fmt.Errorf("collection %s is missing %s", collectionId, id)
		}
		if sc.EmbeddingModel != s.embedder.ModelId() {
			return nil, fmt.Errorf("collection %s was embedded with %s", collectionId, sc.EmbeddingModel)
		}
		chunks = append(chunks, sc.Chunk)
	}
	return chunks, nil
}

// Populate stores chunks in the collection, replacing whatever it held. When the collection
// already holds exactly these chunks from the same embedding model nothing is embedded.
// Queries on the handle wait until Populate returns.
func (s *SemanticIndex) Populate(ctx context.Context, doc *IndexedDocument, chunks []commonModels.Chunk) (PopulateResult, error) {
	doc.mu.Lock()
	defer doc.mu.Unlock()

	log := s.logger.WithTrace(ctx).With("collection", doc.CollectionId)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("index_populate", time.Since(start)) }()

	if doc.ready && sameChunks(doc.chunks, chunks) {
		reused, err := s.storedMatches(ctx, doc.CollectionId, chunks)
		if err != nil {
			log.Warn("could not verify stored chunks, rebuilding", "error", err)
		}
		if reused {
			log.Debug("collection already populated", "chunks", len(chunks))
			metrics.CountPopulate("reused")
			return PopulateResult{Reused: true}, nil
		}
	}

	doc.ready = false
	if err := s.rebuild(ctx, doc.CollectionId, chunks); err != nil {
		metrics.CountPopulate("failed")
		log.Error("populate failed", "error", err)
		return PopulateResult{}, ragErrors.Index(err)
	}
	doc.chunks = append([]commonModels.Chunk(nil), chunks...)
	doc.ready = true

	metrics.CountPopulate("embedded")
	log.Info("collection populated", "chunks", len(chunks), "took", time.Since(start))
	return PopulateResult{Embedded: len(chunks)}, nil
}

func (s *SemanticIndex) storedMatches(ctx context.Context, collectionId string, chunks []commonModels.Chunk) (bool, error) {
	count, err := s.store.Count(ctx, collectionId)
	if err != nil {
		return false, err
	}
	if count != len(chunks) {
		return false, nil
	}
	if len(chunks) == 0 {
		return true, nil
	}

	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.Id
	}
	stored, err := s.store.GetChunks(ctx, collectionId, ids)
	if err != nil {
		return false, err
	}
	for _, c := range chunks {
		sc, ok := stored[c.Id]
		if !ok || sc.Chunk.Content != c.Content || sc.EmbeddingModel != s.embedder.ModelId() {
			return false, nil
		}
	}
	return true, nil
}

func (s *SemanticIndex) rebuild(ctx context.Context, collectionId string, chunks []commonModels.Chunk) error {
	if err := s.store.DeleteCollection(ctx, collectionId); err != nil {
		return fmt.Errorf("clearing collection: %w", err)
	}
	if err := s.store.CreateCollection(ctx, collectionId); err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	if len(chunks) == 0 {
		return nil
	}

	isHugeDataSet := len(chunks) > config.HugeDataSetChunkCount
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i := 0; i < len(chunks); i += s.opts.BatchSize {
		batch := chunks[i:min(i+s.opts.BatchSize, len(chunks))]
		g.Go(func() error {
			texts := make([]string, len(batch))
			for j, c := range batch {
				texts[j] = c.Content
			}

			embedStart := time.Now()
			vectors, err := s.embedder.BatchEmbedding(gctx, texts, isHugeDataSet)
			metrics.CaptureExecutionMetrics("embedding", time.Since(embedStart))
			if err != nil {
				return fmt.Errorf("embedding batch failed: %w", err)
			}
			if len(vectors) != len(batch) {
				return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))
			}
			if err := s.store.UpsertBatch(gctx, collectionId, batch, vectors, s.embedder.ModelId()); err != nil {
				return fmt.Errorf("storing batch failed: %w", err)
			}

			n := done.Add(int64(len(batch)))
			if s.opts.Progress != nil {
				s.opts.Progress(int(n), len(chunks))
			}
			return nil
		})
	}
	return g.Wait()
}

// Query returns at most k chunks of the populated set closest to text, highest score first
// with ties broken by chunk ordinal.
func (s *SemanticIndex) Query(ctx context.Context, doc *IndexedDocument, text string, k int) ([]analysisModel.RetrievalResult, error) {
	doc.mu.RLock()
	defer doc.mu.RUnlock()

	if !doc.ready {
		return nil, ragErrors.Index(fmt.Errorf("%w: %s", ragErrors.ErrIndexNotReady, doc.CollectionId))
	}
	if k <= 0 || len(doc.chunks) == 0 {
		return []analysisModel.RetrievalResult{}, nil
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	vector, err := s.embedder.GetEmbedding(ctx, text)
	if err != nil {
		return nil, ragErrors.Index(fmt.Errorf("embedding query: %w", err))
	}
	results, err := s.search(ctx, doc, vector, k)
	if err != nil {
		return nil, err
	}
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Drop deletes the backing collection and forgets the handle.
func (s *SemanticIndex) Drop(ctx context.Context, collectionId string) error {
	s.mu.Lock()
	doc, ok := s.handles[collectionId]
	delete(s.handles, collectionId)
	s.mu.Unlock()

	if ok {
		doc.mu.Lock()
		defer doc.mu.Unlock()
		doc.ready = false
		doc.chunks = nil
	}
	if err := s.store.DeleteCollection(ctx, collectionId); err != nil {
		return ragErrors.Index(fmt.Errorf("dropping %s: %w", collectionId, err))
	}
	s.logger.WithTrace(ctx).Info("collection dropped", "collection", collectionId)
	return nil
}

// search widens the backend limit until every hit tied with the k-th score is fetched. The
// backend picks arbitrarily among equal scores at its cutoff, the ordinal order here does not.
func (s *SemanticIndex) search(ctx context.Context, doc *IndexedDocument, vector []float32, k int) ([]analysisModel.RetrievalResult, error) {
	populated := make(map[string]struct{}, len(doc.chunks))
	for _, c := range doc.chunks {
		populated[c.Id] = struct{}{}
	}

	total := len(doc.chunks)
	limit := min(total, k+queryTieMargin)
	for {
		hits, err := s.store.Search(ctx, doc.CollectionId, vector, limit)
		if err != nil {
			return nil, ragErrors.Index(fmt.Errorf("searching %s: %w", doc.CollectionId, err))
		}

		results := make([]analysisModel.RetrievalResult, 0, len(hits))
		for _, hit := range hits {
			if _, ok := populated[hit.Chunk.Id]; !ok {
				continue
			}
			results = append(results, analysisModel.RetrievalResult{
				Chunk: hit.Chunk,
				Score: normalizeScore(hit.Similarity),
			})
		}
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Score != results[j].Score {
				return results[i].Score > results[j].Score
			}
			return results[i].Chunk.Ordinal < results[j].Chunk.Ordinal
		})

		exhausted := len(hits) < limit || limit >= total
		if exhausted || (len(results) > k && results[len(results)-1].Score < results[k-1].Score) {
			return results, nil
		}
		limit = min(total, limit*2)
	}
}

// normalizeScore maps cosine similarity onto [0,1]. Anti-correlated vectors score 0.
func normalizeScore(similarity float32) float64 {
	score := float64(similarity)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func sameChunks(a, b []commonModels.Chunk) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Id != b[i].Id || a[i].Content != b[i].Content {
			return false
		}
	}
	return true
}
