package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/ContractAPI/internal/domain/analysisModel"
	"github.com/akolanti/ContractAPI/internal/metrics"
	"github.com/akolanti/ContractAPI/internal/rag/llm"
	"github.com/akolanti/ContractAPI/internal/rag/ragErrors"
)

const routerInstruction = `You are a routing agent for a contract analysis system.
Based on the user query, decide which specialist should handle it:

1. "summary": requests for contract summaries, overviews, executive summaries
2. "qa": specific questions about contract details, general Q&A
3. "clause_search": finding specific clauses, sections or terms
4. "risk_scan": risk analysis, compliance checks, identifying problematic clauses

Respond with a JSON object only:
{"category": "<one of summary, qa, clause_search, risk_scan>", "confidence": <number between 0 and 1>, "rationale": "<why this category>"}`

// LLMClassifier asks the generation provider for a structured routing decision.
type LLMClassifier struct {
	provider llm.Provider
}

func NewLLMClassifier(provider llm.Provider) *LLMClassifier {
	return &LLMClassifier{provider: provider}
}

type classifierOutput struct {
	Category   string   `json:"category"`
	Confidence *float64 `json:"confidence"`
	Rationale  string   `json:"rationale"`
}

func (c *LLMClassifier) Classify(ctx context.Context, query string) (analysisModel.RouteDecision, error) {
	start := time.Now()
	raw, err := c.provider.GenerateStructured(ctx, routerInstruction, "Route this query: "+query)
	metrics.CaptureExecutionMetrics("llm_classification", time.Since(start))
	if err != nil {
		return analysisModel.RouteDecision{}, fmt.Errorf("%w: %w", ragErrors.ErrClassification, err)
	}
	return ParseDecision(raw)
}

// ParseDecision reads the classifier's JSON, tolerating a markdown code fence around it.
// Range and category checks are left to the router.
func ParseDecision(raw string) (analysisModel.RouteDecision, error) {
	var out classifierOutput
	if err := json.Unmarshal([]byte(stripFence(raw)), &out); err != nil {
		return analysisModel.RouteDecision{}, fmt.Errorf("%w: unparseable output: %w", ragErrors.ErrClassification, err)
	}
	if out.Confidence == nil {
		return analysisModel.RouteDecision{}, fmt.Errorf("%w: missing confidence", ragErrors.ErrClassification)
	}
	return analysisModel.RouteDecision{
		Category:   analysisModel.RouteCategory(strings.TrimSpace(out.Category)),
		Confidence: *out.Confidence,
		Rationale:  out.Rationale,
	}, nil
}

func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
