package rag_test

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
)

// MockExtractor implements ingest.Extractor
type MockExtractor struct {
	OnExtract func(ctx context.Context, doc commonModels.DocumentRef) (*commonModels.ExtractedText, error)
}

func (m *MockExtractor) Extract(ctx context.Context, doc commonModels.DocumentRef) (*commonModels.ExtractedText, error) {
	if m.OnExtract != nil {
		return m.OnExtract(ctx, doc)
	}
	return &commonModels.ExtractedText{}, nil
}

// MockEmbedder implements embedding.Embedder with a hashed bag of words, so similar text
// gets similar vectors.
type MockEmbedder struct {
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)

	mu         sync.Mutex
	BatchCalls int
}

func (m *MockEmbedder) vector(text string) []float32 {
	v := make([]float32, 129)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(strings.Trim(w, ".,?!")))
		v[h.Sum32()%128]++
	}
	v[128] = 0.1
	return v
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return m.vector(query), nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
	m.mu.Lock()
	m.BatchCalls++
	m.mu.Unlock()
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	out := make([][]float32, len(chunks))
	for i, c := range chunks {
		out[i] = m.vector(c)
	}
	return out, nil
}

func (m *MockEmbedder) ModelId() string {
	return "mock/bag-of-words"
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate           func(ctx context.Context, system, prompt string) (string, error)
	OnGenerateStructured func(ctx context.Context, system, prompt string) (string, error)

	mu      sync.Mutex
	Prompts []string
}

func (m *MockLLM) Generate(ctx context.Context, system, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, system, prompt)
	}
	return "- mocked llm response", nil
}

func (m *MockLLM) GenerateStructured(ctx context.Context, system, prompt string) (string, error) {
	if m.OnGenerateStructured != nil {
		return m.OnGenerateStructured(ctx, system, prompt)
	}
	return "", context.DeadlineExceeded
}
