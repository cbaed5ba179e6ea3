package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/ContractAPI/internal/api"
	"github.com/akolanti/ContractAPI/internal/domain/analysisModel"
	"github.com/akolanti/ContractAPI/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result: api.Result{
			Status:   string(job.Status),
			Step:     string(job.CurrentStep),
			Analysis: ToAnalysisResult(job.JobPayload),
		},
	}
}

// ToAnalysisResult is nil until the job has either a decision or stage events to show.
func ToAnalysisResult(payload jobModel.JobPayload) *api.AnalysisResult {
	if payload.Decision == nil && len(payload.Events) == 0 && payload.Answer == "" {
		return nil
	}

	res := &api.AnalysisResult{
		DocumentName: payload.DocumentName,
		Query:        payload.Query,
		Answer:       payload.Answer,
		CollectionId: payload.CollectionId,
		Events:       ToStageEvents(payload.Events),
	}
	if d := payload.Decision; d != nil {
		res.Category = string(d.Category)
		res.Confidence = d.Confidence
		res.Rationale = d.Rationale
		res.DecidedBy = string(d.Source)
	}
	return res
}

func ToStageEvents(events []analysisModel.StageEvent) []api.StageEvent {
	if len(events) == 0 {
		return nil
	}
	out := make([]api.StageEvent, len(events))
	for i, e := range events {
		out[i] = api.StageEvent{
			Stage:      string(e.Stage),
			Outcome:    string(e.Outcome),
			At:         e.At,
			DurationMs: e.Duration.Milliseconds(),
			Detail:     e.Detail,
		}
	}
	return out
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
