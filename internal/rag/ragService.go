package rag

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/domain/analysisModel"
	"github.com/akolanti/ContractAPI/internal/domain/jobModel"
	"github.com/akolanti/ContractAPI/internal/metrics"
	"github.com/akolanti/ContractAPI/internal/rag/agents"
	"github.com/akolanti/ContractAPI/internal/rag/chunker"
	"github.com/akolanti/ContractAPI/internal/rag/index"
	"github.com/akolanti/ContractAPI/internal/rag/ingest"
	"github.com/akolanti/ContractAPI/internal/rag/ragErrors"
	"github.com/akolanti/ContractAPI/internal/rag/router"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
)

/*
OPAQUE INTERFACE PATTERN

  - Service is the public contract the worker, the CLI and the MCP tools call.
  - service is the private implementation holding the extractor, index, router and handlers,
    so callers cannot reach those dependencies directly.
  - NewService links the two; tests pass in-memory collaborators the same way.
*/

// Service runs the analysis pipeline: Start, Chunked, Indexed, Routed, Handled, Done.
type Service interface {
	Analyze(ctx context.Context, req analysisModel.AnalysisRequest) (analysisModel.AnalysisResponse, error)
	ProcessJob(ctx context.Context, job jobModel.Job) jobModel.Job
	DropCollection(ctx context.Context, collectionId string) error
}

type service struct {
	extractor ingest.Extractor
	index     *index.SemanticIndex
	router    *router.Router
	handlers  *agents.Set
	chunking  config.ChunkingSettings
	timeout   time.Duration
	logger    *logger_i.Logger
}

func NewService(extractor ingest.Extractor, idx *index.SemanticIndex, r *router.Router, handlers *agents.Set, settings *config.Settings) Service {
	return &service{
		extractor: extractor,
		index:     idx,
		router:    r,
		handlers:  handlers,
		chunking:  settings.Chunking,
		timeout:   settings.Analysis.Timeout,
		logger:    logger_i.NewLogger("RAG Service"),
	}
}

// Analyze runs one document and query through the pipeline. The first failing stage aborts
// the request with a *ragErrors.StageError; the events recorded up to it are still returned.
func (s *service) Analyze(ctx context.Context, req analysisModel.AnalysisRequest) (analysisModel.AnalysisResponse, error) {
	log := s.logger.WithTrace(ctx).With("document", req.Document.Name)
	p := &pipeline{log: log}
	p.record(analysisModel.StageStart, time.Now(), nil, "")

	// Chunked
	start := time.Now()
	extracted, err := s.extractor.Extract(ctx, req.Document)
	if err == nil && extracted == nil {
		err = errors.New("extractor returned no text object")
	}
	if err != nil {
		return p.fail(analysisModel.StageChunked, start, ragErrors.ErrExtraction, err)
	}
	chunks, err := chunker.Chunk(extracted.Text, s.chunking.Size, s.chunking.Overlap)
	if err != nil {
		return p.fail(analysisModel.StageChunked, start, chunker.ErrInvalidChunkParams, err)
	}
	p.record(analysisModel.StageChunked, start, nil, plural(len(chunks), "chunk"))

	// Indexed
	start = time.Now()
	collectionId := index.CollectionIdFor(documentIdentity(req))
	doc, err := s.index.OpenOrCreate(ctx, collectionId)
	if err != nil {
		return p.fail(analysisModel.StageIndexed, start, ragErrors.ErrIndex, err)
	}
	populated, err := s.index.Populate(ctx, doc, chunks)
	if err != nil {
		return p.fail(analysisModel.StageIndexed, start, ragErrors.ErrIndex, err)
	}
	p.record(analysisModel.StageIndexed, start, nil, populateDetail(collectionId, populated))

	// Routed
	start = time.Now()
	decision := requestedDecision(req.Category)
	if decision == nil {
		routed := s.router.Route(ctx, req.QueryText)
		decision = &routed
	}
	p.record(analysisModel.StageRouted, start, nil, string(decision.Category)+" via "+string(decision.Source))

	// Handled
	start = time.Now()
	text, err := s.handlers.Handle(ctx, decision.Category, agents.Input{
		Query:     req.QueryText,
		Chunks:    chunks,
		Retriever: s.index.Retriever(doc),
	})
	if err != nil {
		return p.fail(analysisModel.StageHandled, start, failureKind(err), err)
	}
	p.record(analysisModel.StageHandled, start, nil, "")
	p.record(analysisModel.StageDone, time.Now(), nil, "")

	log.Info("analysis complete", "collection", collectionId, "category", decision.Category, "chunks", len(chunks))
	return analysisModel.AnalysisResponse{
		ResponseText: text,
		CollectionId: collectionId,
		Decision:     *decision,
		ChunkCount:   len(chunks),
		Events:       p.events,
	}, nil
}

// ProcessJob runs a queued analysis job under the analysis timeout and removes the uploaded
// file afterwards.
func (s *service) ProcessJob(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.WithTrace(ctx).With("JobId", job.Id)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("analysis", time.Since(start)) }()
	defer removeUpload(job.JobPayload.DocumentPath, log)

	processContext := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		processContext, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	job = logOutput(job, jobModel.Analyzing, log)
	res, err := s.Analyze(processContext, analysisModel.AnalysisRequest{
		Document:  jobRef(job),
		QueryText: job.JobPayload.Query,
	})
	job.JobPayload.Events = res.Events
	if err != nil {
		return s.jobError(job, err, log)
	}

	job.JobPayload.CollectionId = res.CollectionId
	job.JobPayload.Decision = &res.Decision
	return returnOutput(job, res.ResponseText)
}

func (s *service) DropCollection(ctx context.Context, collectionId string) error {
	return s.index.Drop(ctx, collectionId)
}

func removeUpload(path string, log *logger_i.Logger) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Error("Error removing file", "path", path, "error", err)
	}
}
