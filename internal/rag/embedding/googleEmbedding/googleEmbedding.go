package googleEmbedding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/customHttpClient"
	"github.com/akolanti/ContractAPI/internal/rag/embedding"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
	"google.golang.org/genai"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

const (
	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

type client struct {
	genAi     *genai.Client
	model     string
	dimension int32
}

func newGoogleEmbedder(ctx context.Context, settings config.ProviderSettings) error {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     settings.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.GetClient(),
	})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
		return err
	}
	embeddingClient = &client{
		genAi:     c,
		model:     settings.Model,
		dimension: settings.Dimension,
	}
	logger.Debug("Google Embedding model name: " + settings.Model)
	logger.Info("Google Embedding client created")
	go closeClient(ctx, embeddingClient)
	return nil
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
}

func GetGoogleEmbeddingClient(ctx context.Context, settings config.ProviderSettings) (embedding.Embedder, error) {
	var initErr error
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		initErr = newGoogleEmbedder(ctx, settings)
	})

	//if init still fails
	if embeddingClient == nil {
		if initErr == nil {
			initErr = errors.New("google embedding client unavailable")
		}
		return nil, initErr
	}
	return &client{genAi: embeddingClient.genAi, model: embeddingClient.model, dimension: embeddingClient.dimension}, nil
}

func (c *client) ModelId() string {
	return "google/" + c.model
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	log := logger.WithTrace(ctx)
	log.Debug("embedding query", "length", len(query))

	result, err := c.doCall(ctx, genai.Text(query), taskQuery)
	if err != nil {
		log.Error("Error getting query embedding from Google", "error", err)
		return nil, err
	}
	if len(result.Embeddings) == 0 {
		return nil, errors.New("google returned no embedding")
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string, isLargeDataSet bool) ([][]float32, error) {
	log := logger.WithTrace(ctx)

	if !isLargeDataSet {
		res, err := c.doCall(ctx, getContent(chunks), taskDocument)
		if err != nil && doRetry(err, log) {
			log.Debug("Retrying", "after", config.EmbeddingRetryDelay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(config.EmbeddingRetryDelay):
			}
			res, err = c.doCall(ctx, getContent(chunks), taskDocument)
		}
		if err != nil {
			log.Error("Error getting Embeddings from Google", "error", err)
			return nil, err
		}

		embeddingResults := make([][]float32, 0, len(res.Embeddings))
		for _, r := range res.Embeddings {
			embeddingResults = append(embeddingResults, r.Values)
		}
		if len(embeddingResults) != len(chunks) {
			return nil, fmt.Errorf("google returned %d embeddings for %d chunks", len(embeddingResults), len(chunks))
		}
		return embeddingResults, nil
	}

	src := genai.EmbeddingsBatchJobSource{InlinedRequests: c.getInlinedBatchRequests(chunks)}
	displayName := fmt.Sprintf("contract-embeddings-%d", time.Now().UnixNano())

	log = log.With("batchJob", displayName, "chunks", len(chunks))
	job, err := c.genAi.Batches.CreateEmbeddings(ctx, &c.model, &src, &genai.CreateEmbeddingsBatchJobConfig{DisplayName: displayName})
	if err != nil {
		log.Error("Error getting batch Embeddings from Google", "error", err)
		return nil, err
	}

	answer, err := c.pollForAnswer(ctx, job.Name, log)
	if err != nil {
		return nil, err
	}
	return downloadAnswerFromClient(answer, len(chunks))
}

func (c *client) doCall(ctx context.Context, content []*genai.Content, task string) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{OutputDimensionality: &c.dimension, TaskType: task})
}
