package mcpServer

import (
	"context"
	"strings"

	"github.com/akolanti/ContractAPI/internal/domain/analysisModel"
	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type AnalyzeInput struct {
	DocumentPath string `json:"document_path" jsonschema:"path to the PDF, DOCX or TXT contract"`
	Query        string `json:"query" jsonschema:"question or instruction about the contract"`
}

type AnalyzeOutput struct {
	Response     string  `json:"response"`
	Category     string  `json:"category"`
	Confidence   float64 `json:"confidence"`
	CollectionId string  `json:"collection_id"`
}

type SearchClausesInput struct {
	DocumentPath string `json:"document_path" jsonschema:"path to the PDF, DOCX or TXT contract"`
	Topic        string `json:"topic" jsonschema:"clause topic to look for, e.g. termination"`
}

type SearchClausesOutput struct {
	Response     string `json:"response"`
	CollectionId string `json:"collection_id"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_contract",
		Description: "Analyze a contract: summary, question answering, clause search or risk scan, chosen from the query",
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_clauses",
		Description: "Find the clauses of a contract that match a topic",
	}, s.handleSearchClauses)
}

func (s *Server) handleAnalyze(ctx context.Context, _ *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, AnalyzeOutput, error) {
	req, err := request(input.DocumentPath, input.Query)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}
	res, err := s.service.Analyze(ctx, req)
	if err != nil {
		s.logger.Error("analyze_contract failed", "document", input.DocumentPath, "error", err)
		return nil, AnalyzeOutput{}, err
	}
	return nil, AnalyzeOutput{
		Response:     res.ResponseText,
		Category:     string(res.Decision.Category),
		Confidence:   res.Decision.Confidence,
		CollectionId: res.CollectionId,
	}, nil
}

func (s *Server) handleSearchClauses(ctx context.Context, _ *mcp.CallToolRequest, input SearchClausesInput) (*mcp.CallToolResult, SearchClausesOutput, error) {
	req, err := request(input.DocumentPath, input.Topic)
	if err != nil {
		return nil, SearchClausesOutput{}, err
	}
	req.Category = analysisModel.CategoryClauseSearch
	res, err := s.service.Analyze(ctx, req)
	if err != nil {
		s.logger.Error("search_clauses failed", "document", input.DocumentPath, "error", err)
		return nil, SearchClausesOutput{}, err
	}
	return nil, SearchClausesOutput{Response: res.ResponseText, CollectionId: res.CollectionId}, nil
}

func request(path, query string) (analysisModel.AnalysisRequest, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return analysisModel.AnalysisRequest{}, ErrMissingDocument
	}
	if strings.TrimSpace(query) == "" {
		return analysisModel.AnalysisRequest{}, ErrMissingQuery
	}
	return analysisModel.AnalysisRequest{
		Document:  commonModels.DocumentRef{Name: path, Path: path},
		QueryText: query,
	}, nil
}
