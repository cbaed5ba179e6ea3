// Package router classifies a query into exactly one handler category.
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/akolanti/ContractAPI/internal/domain/analysisModel"
	"github.com/akolanti/ContractAPI/internal/metrics"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
)

type State string

const (
	Unclassified State = "Unclassified"
	Classified   State = "Classified"
)

// Classifier is the unreliable first step of routing. Any error, or a decision outside the
// category set, hands the query to Fallback.
type Classifier interface {
	Classify(ctx context.Context, query string) (analysisModel.RouteDecision, error)
}

// Routing is the state of one query moving through the router.
type Routing struct {
	State    State
	Query    string
	Decision analysisModel.RouteDecision
	// ClassifierErr is why the fallback decided, nil when the classifier was accepted
	ClassifierErr error
}

func NewRouting(query string) *Routing {
	return &Routing{State: Unclassified, Query: query}
}

type Router struct {
	classifier Classifier
	logger     *logger_i.Logger
}

func New(classifier Classifier) *Router {
	return &Router{classifier: classifier, logger: logger_i.NewLogger("router")}
}

// Route makes one classification attempt and falls back on any failure. It never errors.
func (r *Router) Route(ctx context.Context, query string) analysisModel.RouteDecision {
	routing := NewRouting(query)
	r.Step(ctx, routing)
	return routing.Decision
}

// Step moves an Unclassified routing to Classified. A Classified routing is left unchanged.
func (r *Router) Step(ctx context.Context, routing *Routing) {
	if routing.State == Classified {
		return
	}
	log := r.logger.WithTrace(ctx)

	decision, err := r.attempt(ctx, routing.Query)
	if err != nil {
		log.Warn("classification rejected, using keyword fallback", "error", err)
		routing.ClassifierErr = err
		decision = Fallback(routing.Query)
	}

	routing.Decision = decision
	routing.State = Classified
	metrics.CountRouteDecision(string(decision.Category), string(decision.Source))
	log.Info("query routed", "category", decision.Category, "confidence", decision.Confidence, "source", decision.Source)
}

func (r *Router) attempt(ctx context.Context, query string) (analysisModel.RouteDecision, error) {
	if r.classifier == nil {
		return analysisModel.RouteDecision{}, fmt.Errorf("no classifier configured")
	}
	decision, err := r.classifier.Classify(ctx, query)
	if err != nil {
		return analysisModel.RouteDecision{}, err
	}
	if err := validate(decision); err != nil {
		return analysisModel.RouteDecision{}, err
	}
	decision.Source = analysisModel.SourceClassifier
	return decision, nil
}

func validate(d analysisModel.RouteDecision) error {
	if !d.Category.Valid() {
		return fmt.Errorf("unknown category %q", d.Category)
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", d.Confidence)
	}
	return nil
}

type keywordRule struct {
	category analysisModel.RouteCategory
	keywords []string
}

// first matching rule wins
var fallbackRules = []keywordRule{
	{analysisModel.CategorySummary, []string{"summary", "overview", "summarize", "executive"}},
	{analysisModel.CategoryClauseSearch, []string{"find", "clause", "section", "locate"}},
	{analysisModel.CategoryRiskScan, []string{"risk", "danger", "problem", "compliance"}},
}

const (
	keywordConfidence = 0.5
	defaultConfidence = 0.0
)

// Fallback decides by case-insensitive substring match against the keyword rules, defaulting
// to qa.
func Fallback(query string) analysisModel.RouteDecision {
	lower := strings.ToLower(query)
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return analysisModel.RouteDecision{
					Category:   rule.category,
					Confidence: keywordConfidence,
					Rationale:  fmt.Sprintf("query contains %q", kw),
					Source:     analysisModel.SourceFallback,
				}
			}
		}
	}
	return analysisModel.RouteDecision{
		Category:   analysisModel.CategoryQA,
		Confidence: defaultConfidence,
		Rationale:  "no routing keyword matched",
		Source:     analysisModel.SourceFallback,
	}
}
