package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"0b6f6c9e-6a55-4e43-9f0e-3f1d2c1a9b77"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"422"`
	Message string `json:"message" example:"Could not extract text from the document"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type AnalysisResult struct {
	DocumentName string       `json:"document_name" example:"msa.pdf"`
	Query        string       `json:"query" example:"What is the notice period for termination?"`
	Category     string       `json:"category" example:"qa"`
	Confidence   float64      `json:"confidence" example:"0.92"`
	Rationale    string       `json:"rationale,omitempty"`
	DecidedBy    string       `json:"decided_by" example:"classifier"`
	Answer       string       `json:"answer"`
	CollectionId string       `json:"collection_id" example:"msa"`
	Events       []StageEvent `json:"events,omitempty"`
}

type StageEvent struct {
	Stage      string    `json:"stage" example:"Indexed"`
	Outcome    string    `json:"outcome" example:"ok"`
	At         time.Time `json:"at"`
	DurationMs int64     `json:"duration_ms"`
	Detail     string    `json:"detail,omitempty"`
}

type Result struct {
	Status   string          `json:"status" example:"COMPLETE"`
	Step     string          `json:"step,omitempty" example:"Complete"`
	Analysis *AnalysisResult `json:"analysis,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	JobStore string `json:"job_store" example:"redis"`
}
