// Package bootstrap builds the analysis service from settings. The API server, the CLI and
// the MCP server share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/data/store"
	"github.com/akolanti/ContractAPI/internal/domain/jobModel"
	"github.com/akolanti/ContractAPI/internal/rag"
	"github.com/akolanti/ContractAPI/internal/rag/agents"
	"github.com/akolanti/ContractAPI/internal/rag/embedding"
	"github.com/akolanti/ContractAPI/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/ContractAPI/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/ContractAPI/internal/rag/index"
	"github.com/akolanti/ContractAPI/internal/rag/ingest"
	"github.com/akolanti/ContractAPI/internal/rag/llm"
	"github.com/akolanti/ContractAPI/internal/rag/llm/gemini"
	"github.com/akolanti/ContractAPI/internal/rag/llm/openaiLLM"
	"github.com/akolanti/ContractAPI/internal/rag/router"
	"github.com/akolanti/ContractAPI/internal/rag/vectorDB"
	"github.com/akolanti/ContractAPI/internal/rag/vectorDB/chromemDB"
	"github.com/akolanti/ContractAPI/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
)

var ErrMissingAPIKey = errors.New("api key not configured")

type Components struct {
	Service   rag.Service
	Index     *index.SemanticIndex
	Extractor ingest.Extractor
}

// Build wires the vector store, embedder, generator, index, router and handlers. progress may
// be nil.
func Build(ctx context.Context, settings *config.Settings, progress func(done, total int)) (*Components, error) {
	log := logger_i.NewLogger("bootstrap")

	dataStore, err := NewVectorStore(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("vector store: %w", err)
	}
	embedder, err := NewEmbedder(ctx, settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}
	provider, err := NewProvider(ctx, settings.Generation)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	idx := index.New(dataStore, embedder, index.Options{
		BatchSize:   settings.Index.BatchSize,
		Concurrency: settings.Index.Concurrency,
		Progress:    progress,
	})
	extractor := ingest.NewFileExtractor()
	service := rag.NewService(extractor, idx, router.New(router.NewLLMClassifier(provider)), agents.NewSet(provider), settings)

	log.Info("services ready",
		"index", settings.Index.Backend,
		"embedding", embedder.ModelId(),
		"generation", settings.Generation.Provider+"/"+settings.Generation.Model)
	return &Components{Service: service, Index: idx, Extractor: extractor}, nil
}

func NewVectorStore(ctx context.Context, settings *config.Settings) (vectorDB.DataProcessor, error) {
	switch settings.Index.Backend {
	case config.IndexBackendChromem:
		s, err := chromemDB.NewStore(settings.Index.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.IndexBackendQdrant:
		holder, err := qdrantDB.GetQuadrantClient(ctx, settings.Index, settings.Embedding.Dimension)
		if err != nil {
			return nil, err
		}
		return holder, nil
	default:
		return nil, fmt.Errorf("unknown index backend %q", settings.Index.Backend)
	}
}

func NewEmbedder(ctx context.Context, settings config.ProviderSettings) (embedding.Embedder, error) {
	if settings.APIKey == "" {
		return nil, fmt.Errorf("%s embeddings: %w", settings.Provider, ErrMissingAPIKey)
	}
	switch settings.Provider {
	case config.ProviderGoogle:
		return googleEmbedding.GetGoogleEmbeddingClient(ctx, settings)
	case config.ProviderOpenAI:
		return openaiEmbedding.NewOpenAIEmbedder(settings), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", settings.Provider)
	}
}

func NewProvider(ctx context.Context, settings config.GenerationSettings) (llm.Provider, error) {
	if settings.APIKey == "" {
		return nil, fmt.Errorf("%s generation: %w", settings.Provider, ErrMissingAPIKey)
	}
	switch settings.Provider {
	case config.ProviderGoogle:
		return gemini.GetGeminiClient(ctx, settings)
	case config.ProviderOpenAI:
		return openaiLLM.NewOpenAIClient(settings), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", settings.Provider)
	}
}

// NewJobStore prefers redis and falls back to memory when it is disabled or offline.
func NewJobStore(ctx context.Context, settings config.RedisSettings) jobModel.JobStore {
	if redisJobs := store.GetRedisJobStore(ctx, settings); redisJobs != nil {
		return redisJobs
	}
	logger_i.NewLogger("bootstrap").Warn("Redis job store offline, using in-memory store")
	return store.InitInMemoryJobStore()
}
