// Package agents holds the four response handlers. None of them modify the index or the
// chunk sequence they are given.
package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/domain/analysisModel"
	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
	"github.com/akolanti/ContractAPI/internal/metrics"
	"github.com/akolanti/ContractAPI/internal/rag/llm"
	"github.com/akolanti/ContractAPI/internal/rag/ragErrors"
)

var errEmptyOutput = errors.New("model returned no text")

// Retriever is the read-only view of one populated collection.
type Retriever interface {
	Query(ctx context.Context, text string, k int) ([]analysisModel.RetrievalResult, error)
}

// Input carries what a handler may need. Summary and risk scan read Chunks, qa and clause
// search read Retriever.
type Input struct {
	Query     string
	Chunks    []commonModels.Chunk
	Retriever Retriever
}

type Set struct {
	generator llm.Provider
}

func NewSet(generator llm.Provider) *Set {
	return &Set{generator: generator}
}

// Handle dispatches to the handler for category.
func (s *Set) Handle(ctx context.Context, category analysisModel.RouteCategory, in Input) (string, error) {
	switch category {
	case analysisModel.CategorySummary:
		return s.Summarize(ctx, in.Chunks)
	case analysisModel.CategoryQA:
		return s.AnswerQuestion(ctx, in.Retriever, in.Query)
	case analysisModel.CategoryClauseSearch:
		return SearchClauses(ctx, in.Retriever, in.Query)
	case analysisModel.CategoryRiskScan:
		return s.ScanRisks(ctx, in.Chunks)
	default:
		return "", fmt.Errorf("no handler for category %q", category)
	}
}

// Summarize covers at most the first SummaryChunkLimit chunks.
func (s *Set) Summarize(ctx context.Context, chunks []commonModels.Chunk) (string, error) {
	if len(chunks) == 0 {
		return noTextToSummarize, nil
	}
	head := chunks[:min(len(chunks), config.SummaryChunkLimit)]

	contents := make([]string, len(head))
	for i, c := range head {
		contents[i] = c.Content
	}
	return s.generate(ctx, "llm_summary", summaryInstruction, "Summarise this contract:\n\n"+strings.Join(contents, "\n"))
}

func (s *Set) AnswerQuestion(ctx context.Context, retriever Retriever, question string) (string, error) {
	results, err := retriever.Query(ctx, question, config.QATopK)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return cannotAnswer, nil
	}

	var b strings.Builder
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = "[" + r.Chunk.Id + "]"
		fmt.Fprintf(&b, "%s %s\n\n", ids[i], r.Chunk.Content)
	}

	answer, err := s.generate(ctx, "llm_qa", qaInstruction, fmt.Sprintf("Context:\n%s\nQuestion: %s", b.String(), question))
	if err != nil {
		return "", err
	}
	if !strings.Contains(answer, "[chunk_") {
		answer += "\n\nSources: " + strings.Join(ids, ", ")
	}
	return answer, nil
}

// SearchClauses lists the retrieved chunks scoring above the relevance floor. It does not
// call the generator.
func SearchClauses(ctx context.Context, retriever Retriever, topic string) (string, error) {
	results, err := retriever.Query(ctx, topic, config.ClauseSearchTopK)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	rank := 0
	for _, r := range results {
		if r.Score <= config.ClauseRelevanceFloor {
			continue
		}
		rank++
		fmt.Fprintf(&b, "**Match %d:** %s (Page %d)\n", rank, r.Chunk.Id, r.Chunk.PositionHint)
		fmt.Fprintf(&b, "**Relevance Score:** %.2f\n", r.Score)
		fmt.Fprintf(&b, "**Content:** %s\n\n---\n\n", r.Chunk.Content)
	}
	if rank == 0 {
		return fmt.Sprintf(noClausesFormat, topic), nil
	}
	return strings.TrimSpace(fmt.Sprintf("**CLAUSES MATCHING '%s'**\n\n%s", strings.ToUpper(topic), b.String())), nil
}

// ScanRisks assesses the first RiskChunkLimit chunks that mention a risk keyword.
func (s *Set) ScanRisks(ctx context.Context, chunks []commonModels.Chunk) (string, error) {
	risky := RiskyChunks(chunks, config.RiskChunkLimit)
	if len(risky) == 0 {
		return noRisksFound, nil
	}

	var b strings.Builder
	for _, c := range risky {
		fmt.Fprintf(&b, "[%s] %s\n\n", c.Id, c.Content)
	}
	assessment, err := s.generate(ctx, "llm_risk", riskInstruction, "Analyze these clauses for risks:\n\n"+b.String())
	if err != nil {
		return "", err
	}
	return "**RISK ASSESSMENT**\n\n" + assessment, nil
}

// RiskyChunks returns up to limit chunks, in order, containing any risk keyword.
func RiskyChunks(chunks []commonModels.Chunk, limit int) []commonModels.Chunk {
	var out []commonModels.Chunk
	for _, c := range chunks {
		if len(out) == limit {
			break
		}
		lower := strings.ToLower(c.Content)
		for _, kw := range riskKeywords {
			if strings.Contains(lower, kw) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func (s *Set) generate(ctx context.Context, label, instruction, prompt string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics(label, time.Since(start)) }()

	text, err := s.generator.Generate(ctx, instruction, prompt)
	if err != nil {
		return "", ragErrors.Generation(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ragErrors.Generation(errEmptyOutput)
	}
	return text, nil
}
