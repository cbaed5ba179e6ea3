package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/domain/jobModel"
	"github.com/akolanti/ContractAPI/internal/metrics"
)

// executeJob marks the job running, runs it and stores the final state. The analysis timeout
// is applied inside ProcessJob; the store writes get their own short deadline.
func executeJob(job jobModel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	log := logger.WithTrace(ctx).With("jobId", job.Id)
	log.Debug("Processing job", "type", job.JobType)

	job.Status = jobModel.JobStatusRunning
	saveJobState(ctx, job)

	switch job.JobType {
	case jobModel.JobTypeAnalyze:
		job = _ragService.ProcessJob(ctx, job)
	default:
		log.Error("Unknown job type", "type", job.JobType)
		job.Status = jobModel.JobStatusError
		job.CurrentStep = jobModel.Error
		job.Error = jobModel.JobError{Code: 400, Message: "unknown job type"}
	}

	job.EndTime = time.Now()
	saveJobState(ctx, job)
	log.Info("Job finished", "status", job.Status, "took", time.Since(start))
}

func removeWorker(reason string) {
	releaseWorker(reason, atomic.AddInt64(&currentWorkerCount, -1))
}

// claimRetirement decrements the worker count only while it is above the minimum. Concurrent
// idle workers each need their own successful swap, so the pool never drops below the minimum.
func claimRetirement() (int64, bool) {
	for {
		count := atomic.LoadInt64(&currentWorkerCount)
		if count <= atomic.LoadInt64(&minWorkerCount) {
			return count, false
		}
		if atomic.CompareAndSwapInt64(&currentWorkerCount, count, count-1) {
			return count - 1, true
		}
	}
}

func releaseWorker(reason string, remaining int64) {
	workerWaitGroup.Done()
	logger.Info("Removed worker", "reason", reason, "workerCount", remaining)
	metrics.DecrementActiveWorkerCount()
}

func saveJobState(ctx context.Context, job jobModel.Job) {
	storeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := _jobService.JobStore.SaveJob(storeCtx, job); err != nil {
		logger.WithTrace(ctx).Error("Failed to update job state", "jobId", job.Id, "err", err)
	}
}
