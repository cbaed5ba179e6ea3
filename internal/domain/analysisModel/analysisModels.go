package analysisModel

import (
	"time"

	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
)

type RouteCategory string

const (
	CategorySummary      RouteCategory = "summary"
	CategoryQA           RouteCategory = "qa"
	CategoryClauseSearch RouteCategory = "clause_search"
	CategoryRiskScan     RouteCategory = "risk_scan"
)

// Categories is the fixed routing set, in fallback precedence order with qa last.
var Categories = []RouteCategory{CategorySummary, CategoryClauseSearch, CategoryRiskScan, CategoryQA}

func (c RouteCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type DecisionSource string

const (
	SourceClassifier DecisionSource = "classifier"
	SourceFallback   DecisionSource = "fallback"
	SourceRequested  DecisionSource = "requested"
)

type RouteDecision struct {
	Category   RouteCategory  `json:"category"`
	Confidence float64        `json:"confidence"`
	Rationale  string         `json:"rationale"`
	Source     DecisionSource `json:"source"`
}

// RetrievalResult pairs a stored chunk with its relevance. Score is in [0,1], higher is closer.
type RetrievalResult struct {
	Chunk commonModels.Chunk `json:"chunk"`
	Score float64            `json:"score"`
}

type Stage string

const (
	StageStart   Stage = "Start"
	StageChunked Stage = "Chunked"
	StageIndexed Stage = "Indexed"
	StageRouted  Stage = "Routed"
	StageHandled Stage = "Handled"
	StageDone    Stage = "Done"
)

type StageOutcome string

const (
	OutcomeOK     StageOutcome = "ok"
	OutcomeFailed StageOutcome = "failed"
)

// StageEvent is diagnostic only; nothing in the pipeline reads it back.
type StageEvent struct {
	Stage    Stage         `json:"stage"`
	At       time.Time     `json:"at"`
	Duration time.Duration `json:"duration"`
	Outcome  StageOutcome  `json:"outcome"`
	Detail   string        `json:"detail,omitempty"`
}

type AnalysisRequest struct {
	Document  commonModels.DocumentRef `json:"document"`
	QueryText string                   `json:"query"`
	// Category, when valid, skips classification and routes straight to that handler.
	Category RouteCategory `json:"category,omitempty"`
}

type AnalysisResponse struct {
	ResponseText string        `json:"response"`
	CollectionId string        `json:"collection_id"`
	Decision     RouteDecision `json:"decision"`
	ChunkCount   int           `json:"chunk_count"`
	Events       []StageEvent  `json:"events"`
}
