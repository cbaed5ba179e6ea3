package mcpServer

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/ContractAPI/internal/domain/analysisModel"
	"github.com/akolanti/ContractAPI/internal/domain/jobModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	lastRequest analysisModel.AnalysisRequest
	response    analysisModel.AnalysisResponse
	err         error
}

func (m *mockService) Analyze(ctx context.Context, req analysisModel.AnalysisRequest) (analysisModel.AnalysisResponse, error) {
	m.lastRequest = req
	return m.response, m.err
}

func (m *mockService) ProcessJob(ctx context.Context, job jobModel.Job) jobModel.Job {
	return job
}

func (m *mockService) DropCollection(ctx context.Context, collectionId string) error {
	return nil
}

func TestNewServer(t *testing.T) {
	server, err := NewServer(nil)
	assert.ErrorIs(t, err, ErrMissingService)
	assert.Nil(t, server)

	server, err = NewServer(&mockService{})
	require.NoError(t, err)
	assert.NotNil(t, server)
}

func TestServer_handleAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the analysis", func(t *testing.T) {
		svc := &mockService{response: analysisModel.AnalysisResponse{
			ResponseText: "- Term: two years",
			CollectionId: "msa",
			Decision:     analysisModel.RouteDecision{Category: analysisModel.CategorySummary, Confidence: 0.9},
		}}
		server, err := NewServer(svc)
		require.NoError(t, err)

		_, out, err := server.handleAnalyze(ctx, nil, AnalyzeInput{DocumentPath: "/docs/msa.pdf", Query: "Summarize"})
		require.NoError(t, err)
		assert.Equal(t, "summary", out.Category)
		assert.Equal(t, "msa", out.CollectionId)
		assert.Equal(t, "/docs/msa.pdf", svc.lastRequest.Document.Path)
		assert.Empty(t, svc.lastRequest.Category, "analyze_contract routes by query")
	})

	t.Run("validates input", func(t *testing.T) {
		server, _ := NewServer(&mockService{})
		_, _, err := server.handleAnalyze(ctx, nil, AnalyzeInput{Query: "x"})
		assert.ErrorIs(t, err, ErrMissingDocument)
		_, _, err = server.handleAnalyze(ctx, nil, AnalyzeInput{DocumentPath: "a.pdf", Query: "  "})
		assert.ErrorIs(t, err, ErrMissingQuery)
	})

	t.Run("surfaces service errors", func(t *testing.T) {
		server, _ := NewServer(&mockService{err: errors.New("extraction failed")})
		_, _, err := server.handleAnalyze(ctx, nil, AnalyzeInput{DocumentPath: "a.pdf", Query: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "extraction failed")
	})
}

func TestServer_handleSearchClauses(t *testing.T) {
	svc := &mockService{response: analysisModel.AnalysisResponse{ResponseText: "**Match 1:** chunk_2 (Page 1)", CollectionId: "lease"}}
	server, err := NewServer(svc)
	require.NoError(t, err)

	_, out, err := server.handleSearchClauses(context.Background(), nil, SearchClausesInput{DocumentPath: "lease.pdf", Topic: "termination"})
	require.NoError(t, err)
	assert.Equal(t, analysisModel.CategoryClauseSearch, svc.lastRequest.Category)
	assert.Equal(t, "termination", svc.lastRequest.QueryText)
	assert.Contains(t, out.Response, "Match 1")
}
