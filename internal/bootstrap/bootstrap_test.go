package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/data/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAISettings(t *testing.T) *config.Settings {
	s := config.Defaults()
	s.Index.Path = filepath.Join(t.TempDir(), "index")
	s.Embedding = config.ProviderSettings{Provider: config.ProviderOpenAI, Model: config.OpenAIEmbeddingModel, Dimension: 256, APIKey: "sk-test"}
	s.Generation = config.GenerationSettings{Provider: config.ProviderOpenAI, Model: config.OpenAIChatModel, APIKey: "sk-test"}
	return s
}

func TestBuild_OpenAIWithChromem(t *testing.T) {
	c, err := Build(context.Background(), openAISettings(t), nil)
	require.NoError(t, err)
	assert.NotNil(t, c.Service)
	assert.Equal(t, "openai/"+config.OpenAIEmbeddingModel, c.Index.EmbeddingModelId())
}

func TestBuild_MissingKeys(t *testing.T) {
	s := openAISettings(t)
	s.Embedding.APIKey = ""
	_, err := Build(context.Background(), s, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	s = openAISettings(t)
	s.Generation.APIKey = ""
	_, err = Build(context.Background(), s, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewVectorStore_UnknownBackend(t *testing.T) {
	s := openAISettings(t)
	s.Index.Backend = "faiss"
	_, err := NewVectorStore(context.Background(), s)
	assert.Error(t, err)
}

func TestNewJobStore(t *testing.T) {
	_, isMemory := NewJobStore(context.Background(), config.RedisSettings{Enabled: false}).(*store.InMemoryJobStore)
	assert.True(t, isMemory, "disabled redis falls back to memory")

	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, isRedis := NewJobStore(ctx, config.RedisSettings{Enabled: true, Addr: mr.Addr()}).(*store.RedisJobStore)
	assert.True(t, isRedis)
}
