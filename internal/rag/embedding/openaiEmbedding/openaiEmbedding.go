package openaiEmbedding

import (
	"context"
	"fmt"
	"sort"

	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/customHttpClient"
	"github.com/akolanti/ContractAPI/internal/rag/embedding"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type client struct {
	api       openai.Client
	model     string
	dimension int32
	logger    *logger_i.Logger
}

// NewOpenAIEmbedder builds an embedder on the shared http client. Extra options are applied
// last, which lets tests point the client at a local server.
func NewOpenAIEmbedder(settings config.ProviderSettings, opts ...option.RequestOption) embedding.Embedder {
	base := []option.RequestOption{
		option.WithAPIKey(settings.APIKey),
		option.WithHTTPClient(customHttpClient.GetClient()),
	}
	return &client{
		api:       openai.NewClient(append(base, opts...)...),
		model:     settings.Model,
		dimension: settings.Dimension,
		logger:    logger_i.NewLogger("openai_embedding"),
	}
}

func (c *client) ModelId() string {
	return "openai/" + c.model
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// BatchEmbedding ignores isHugeDataSet, the embeddings endpoint has no separate batch mode.
func (c *client) BatchEmbedding(ctx context.Context, chunks []string, _ bool) ([][]float32, error) {
	if len(chunks) == 0 {
		return [][]float32{}, nil
	}
	return c.embed(ctx, chunks)
}

func (c *client) embed(ctx context.Context, texts []string) ([][]float32, error) {
	log := c.logger.WithTrace(ctx)
	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(c.model),
	}
	if c.dimension > 0 {
		params.Dimensions = openai.Int(int64(c.dimension))
	}

	res, err := c.api.Embeddings.New(ctx, params)
	if err != nil {
		log.Error("Error getting Embeddings from OpenAI", "error", err)
		return nil, err
	}
	if len(res.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d inputs", len(res.Data), len(texts))
	}

	data := res.Data
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	vectors := make([][]float32, len(data))
	for i, d := range data {
		v := make([]float32, len(d.Embedding))
		for j, f := range d.Embedding {
			v[j] = float32(f)
		}
		vectors[i] = v
	}
	return vectors, nil
}
