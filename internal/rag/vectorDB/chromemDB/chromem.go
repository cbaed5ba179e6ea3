// Package chromemDB stores collections in an embedded chromem-go database, persisted to a
// directory. It is the default backend and needs no external service.
package chromemDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
	"github.com/akolanti/ContractAPI/internal/rag/vectorDB"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
	"github.com/philippgille/chromem-go"
)

var errNoEmbeddingFunc = errors.New("chromem store only accepts precomputed embeddings")

type Store struct {
	db     *chromem.DB
	path   string
	logger *logger_i.Logger
}

// NewStore opens the database at path, or an in-memory database when path is empty. A
// directory that cannot be loaded is moved aside and a fresh database is started.
func NewStore(path string) (*Store, error) {
	logger := logger_i.NewLogger("chromem")
	if path == "" {
		logger.Info("using in-memory vector store")
		return &Store{db: chromem.NewDB(), logger: logger}, nil
	}

	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		aside := fmt.Sprintf("%s.corrupt-%d", path, time.Now().Unix())
		logger.Error("could not load vector store, starting fresh", "path", path, "movedTo", aside, "error", err)
		if renameErr := os.Rename(path, aside); renameErr != nil {
			return nil, fmt.Errorf("moving unreadable store %s aside: %w", path, renameErr)
		}
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("creating vector store at %s: %w", path, err)
		}
	}
	logger.Info("vector store loaded", "path", path, "collections", len(db.ListCollections()))
	return &Store{db: db, path: path, logger: logger}, nil
}

func noEmbedding(_ context.Context, _ string) ([]float32, error) {
	return nil, errNoEmbeddingFunc
}

func (s *Store) collection(name string) *chromem.Collection {
	return s.db.GetCollection(name, noEmbedding)
}

func (s *Store) CollectionExists(_ context.Context, collectionName string) (bool, error) {
	return s.collection(collectionName) != nil, nil
}

func (s *Store) CreateCollection(_ context.Context, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}
	_, err := s.db.GetOrCreateCollection(collectionName, map[string]string{"hnsw:space": "cosine"}, noEmbedding)
	return err
}

func (s *Store) DeleteCollection(_ context.Context, collectionName string) error {
	if s.collection(collectionName) == nil {
		return nil
	}
	return s.db.DeleteCollection(collectionName)
}

func (s *Store) Count(_ context.Context, collectionName string) (int, error) {
	c := s.collection(collectionName)
	if c == nil {
		return 0, fmt.Errorf("%w: %s", vectorDB.ErrCollectionNotFound, collectionName)
	}
	return c.Count(), nil
}

func (s *Store) GetChunks(ctx context.Context, collectionName string, ids []string) (map[string]vectorDB.StoredChunk, error) {
	c := s.collection(collectionName)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", vectorDB.ErrCollectionNotFound, collectionName)
	}
	found := make(map[string]vectorDB.StoredChunk, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := c.GetByID(ctx, id)
		if isNotFound(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("chromem get %q failed: %w", id, err)
		}
		found[id] = vectorDB.StoredChunk{
			Chunk:          fromMetadata(doc.ID, doc.Content, doc.Metadata),
			EmbeddingModel: doc.Metadata[vectorDB.KeyEmbeddingModel],
		}
	}
	return found, nil
}

func (s *Store) UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.Chunk, vectors [][]float32, embeddingModel string) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	c := s.collection(collectionName)
	if c == nil {
		return fmt.Errorf("%w: %s", vectorDB.ErrCollectionNotFound, collectionName)
	}

	ids := make([]string, len(chunks))
	metadatas := make([]map[string]string, len(chunks))
	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.Id
		contents[i] = chunk.Content
		metadatas[i] = map[string]string{
			vectorDB.KeyChunkOrder:     strconv.Itoa(chunk.Ordinal),
			vectorDB.KeyPageNum:        strconv.Itoa(chunk.PositionHint),
			vectorDB.KeyElementType:    chunk.Kind,
			vectorDB.KeyEmbeddingModel: embeddingModel,
		}
	}

	if err := c.Add(ctx, ids, vectors, metadatas, contents); err != nil {
		return fmt.Errorf("chromem add failed: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, collectionName string, vector []float32, limit int) ([]vectorDB.ScoredChunk, error) {
	c := s.collection(collectionName)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", vectorDB.ErrCollectionNotFound, collectionName)
	}
	// chromem rejects a result count above the collection size
	n := min(limit, c.Count())
	if n <= 0 {
		return []vectorDB.ScoredChunk{}, nil
	}

	results, err := c.QueryEmbedding(ctx, vector, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query failed: %w", err)
	}

	hits := make([]vectorDB.ScoredChunk, 0, len(results))
	for _, r := range results {
		hits = append(hits, vectorDB.ScoredChunk{
			Chunk:      fromMetadata(r.ID, r.Content, r.Metadata),
			Similarity: r.Similarity,
		})
	}
	return hits, nil
}

// chromem reports a missing id only through its message
func isNotFound(err error) bool {
	return err != nil && strings.HasSuffix(err.Error(), "not found")
}

func fromMetadata(id, content string, meta map[string]string) commonModels.Chunk {
	ordinal, _ := strconv.Atoi(meta[vectorDB.KeyChunkOrder])
	page, _ := strconv.Atoi(meta[vectorDB.KeyPageNum])
	return commonModels.Chunk{
		Id:           id,
		Ordinal:      ordinal,
		Content:      content,
		PositionHint: page,
		Kind:         meta[vectorDB.KeyElementType],
	}
}
