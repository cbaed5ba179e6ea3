package rag

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/akolanti/ContractAPI/internal/domain/analysisModel"
	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
	"github.com/akolanti/ContractAPI/internal/domain/jobModel"
	"github.com/akolanti/ContractAPI/internal/metrics"
	"github.com/akolanti/ContractAPI/internal/rag/index"
	"github.com/akolanti/ContractAPI/internal/rag/ragErrors"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
)

// pipeline collects the diagnostic stage events of one request. Nothing branches on them.
type pipeline struct {
	events []analysisModel.StageEvent
	log    *logger_i.Logger
}

func (p *pipeline) record(stage analysisModel.Stage, start time.Time, err error, detail string) {
	outcome := analysisModel.OutcomeOK
	if err != nil {
		outcome = analysisModel.OutcomeFailed
		detail = err.Error()
	}
	elapsed := time.Since(start)
	p.events = append(p.events, analysisModel.StageEvent{
		Stage:    stage,
		At:       start,
		Duration: elapsed,
		Outcome:  outcome,
		Detail:   detail,
	})
	metrics.CaptureStageMetrics(string(stage), string(outcome), elapsed)
	p.log.Debug("stage finished", "stage", stage, "outcome", outcome, "took", elapsed)
}

func (p *pipeline) fail(stage analysisModel.Stage, start time.Time, kind error, err error) (analysisModel.AnalysisResponse, error) {
	p.record(stage, start, err, "")
	p.log.Error("pipeline aborted", "stage", stage, "error", err)
	return analysisModel.AnalysisResponse{Events: p.events}, ragErrors.NewStageError(stage, kind, err)
}

// failureKind classifies a handler error for the stage error
func failureKind(err error) error {
	switch {
	case errors.Is(err, ragErrors.ErrGeneration):
		return ragErrors.ErrGeneration
	case errors.Is(err, ragErrors.ErrIndex):
		return ragErrors.ErrIndex
	default:
		return ragErrors.ErrGeneration
	}
}

func requestedDecision(category analysisModel.RouteCategory) *analysisModel.RouteDecision {
	if !category.Valid() {
		return nil
	}
	return &analysisModel.RouteDecision{
		Category:   category,
		Confidence: 1,
		Rationale:  "category requested by caller",
		Source:     analysisModel.SourceRequested,
	}
}

func documentIdentity(req analysisModel.AnalysisRequest) string {
	if req.Document.Name != "" {
		return req.Document.Name
	}
	return req.Document.Path
}

func populateDetail(collectionId string, res index.PopulateResult) string {
	if res.Reused {
		return collectionId + " reused"
	}
	return fmt.Sprintf("%s embedded %s", collectionId, plural(res.Embedded, "chunk"))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func jobRef(job jobModel.Job) commonModels.DocumentRef {
	return commonModels.DocumentRef{Name: job.JobPayload.DocumentName, Path: job.JobPayload.DocumentPath}
}

func returnOutput(job jobModel.Job, ans string) jobModel.Job {
	job.JobPayload.Answer = ans
	job.CurrentStep = jobModel.Complete
	job.Status = jobModel.JobStatusComplete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessJob", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, log *logger_i.Logger) jobModel.Job {
	log.Error("analysis failed", "error", err)

	code, message := http.StatusInternalServerError, "Internal Server Error"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code, message = http.StatusGatewayTimeout, "Analysis timed out"
	case errors.Is(err, ragErrors.ErrExtraction):
		code, message = http.StatusUnprocessableEntity, "Could not extract text from the document"
	case errors.Is(err, ragErrors.ErrGeneration):
		code, message = http.StatusBadGateway, "Text generation failed"
	case errors.Is(err, ragErrors.ErrIndex):
		code, message = http.StatusBadGateway, "Semantic index unavailable"
	}

	job.Error = jobModel.JobError{
		Code:    code,
		Message: message,
		Retry:   ragErrors.Retryable(err) || code == http.StatusGatewayTimeout,
	}
	job.CurrentStep = jobModel.Error
	job.Status = jobModel.JobStatusError
	return job
}
