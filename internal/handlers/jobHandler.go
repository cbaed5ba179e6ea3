package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/data/store"
	"github.com/akolanti/ContractAPI/internal/domain/jobModel"
	"github.com/akolanti/ContractAPI/internal/job"
	"github.com/akolanti/ContractAPI/internal/rag"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           = logger_i.NewLogger("JobHandler")
	logRH           = logger_i.NewLogger("RequestHandler")
	enqueueTimeout  = config.EnqueueTimeout
)

type JobHandler struct {
	service    *job.Service
	ragService rag.Service
}

func InitJobHandler(jobService *job.Service, ragService rag.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, ragService: ragService}
		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})
}

// CreateNewJob queues the job, waiting at most enqueueTimeout for room in the queue. It
// fails when ctx ends first, leaving nothing stored.
func CreateNewJob(ctx context.Context, newJob newJobData) error {
	logJH.With("traceId", newJob.traceId, "jobId", newJob.id).Info("Creating new analysis job")
	return handlerInstance.pushToJobChannel(ctx, newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func DropCollection(ctx context.Context, collectionId string) error {
	return handlerInstance.ragService.DropCollection(ctx, collectionId)
}

func jobStoreKind() string {
	if handlerInstance == nil {
		return "none"
	}
	if _, ok := handlerInstance.service.JobStore.(*store.RedisJobStore); ok {
		return "redis"
	}
	return "memory"
}

// private methods
func (h *JobHandler) pushToJobChannel(ctx context.Context, newJob newJobData) error {
	_job := jobModel.Job{
		Id:          newJob.id,
		TraceId:     newJob.traceId,
		JobType:     jobModel.JobTypeAnalyze,
		CreatedTime: time.Now(),
		Status:      jobModel.JobStatusQueued,
		CurrentStep: jobModel.AnalysisInit,
		JobPayload: jobModel.JobPayload{
			DocumentName: newJob.documentName,
			DocumentPath: newJob.documentPath,
			Query:        newJob.query,
		},
	}

	ctx, cancel := context.WithTimeout(context.WithValue(ctx, config.TRACE_ID_KEY, newJob.traceId), enqueueTimeout)
	defer cancel()
	if err := h.service.Submit(ctx, _job); err != nil {
		logJH.WithTrace(ctx).Error("Failed to queue job", "jobId", _job.Id, "err", err)
		return err
	}
	return nil
}
