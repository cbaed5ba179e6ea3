package job

import (
	"context"
	"sync/atomic"

	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/domain/jobModel"
	"github.com/akolanti/ContractAPI/internal/metrics"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
)

// Service is the queue shared by the HTTP handlers and the worker pool.
type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	logger            *logger_i.Logger
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		logger:            logger_i.NewLogger("JobService"),
	}
}

// Submit stores the queued job and hands it to the pool. The send blocks while the buffer is
// full so a burst cannot overwhelm the workers. When ctx ends first the stored job is removed.
func (s *Service) Submit(ctx context.Context, job jobModel.Job) error {
	log := s.logger.WithTrace(ctx).With("jobId", job.Id)
	if err := s.JobStore.SaveJob(ctx, job); err != nil {
		log.Error("Failed to store queued job", "err", err)
	}

	select {
	case s.JobChannel <- job:
	case <-ctx.Done():
		s.JobStore.DeleteJob(context.WithoutCancel(ctx), job.Id)
		log.Warn("Queue full, job dropped", "err", ctx.Err())
		return ctx.Err()
	}
	metrics.IncrementJobsInQueue()
	log.Debug("Queued job")

	// a new worker every few requests, idle ones retire on their own
	count := atomic.AddInt64(&s.RequestCount, 1)
	if count%config.RequestsPerNewWorkerCount == 0 {
		metrics.StartDispatcherSignalCount()
		select {
		case s.DispatcherChannel <- true:
		default:
		}
	}
	return nil
}
