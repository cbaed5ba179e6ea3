package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/ContractAPI/internal/domain/analysisModel"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	AnalysisInit InternalStatus = "Init"
	Extracting   InternalStatus = "Extracting"
	Analyzing    InternalStatus = "Analyzing"
	Error        InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeAnalyze JobType = "Analyze"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	DocumentName string `json:"document_name,omitempty"`
	DocumentPath string `json:"document_path,omitempty"`
	Query        string `json:"query,omitempty"`

	Answer       string                      `json:"answer,omitempty"`
	CollectionId string                      `json:"collection_id,omitempty"`
	Decision     *analysisModel.RouteDecision `json:"decision,omitempty"`
	Events       []analysisModel.StageEvent   `json:"events,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
