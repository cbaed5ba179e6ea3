package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/data/store"
	"github.com/akolanti/ContractAPI/internal/domain/jobModel"
)

func TestSubmit_QueuesAndStores(t *testing.T) {
	jobStore := store.InitInMemoryJobStore()
	s := InitJobService(ServiceConfig{
		JobChannel:        make(chan jobModel.Job, config.RequestsPerNewWorkerCount+1),
		DispatcherChannel: make(chan bool, 1),
		JobStore:          jobStore,
	})

	for i := int64(0); i < config.RequestsPerNewWorkerCount; i++ {
		if err := s.Submit(context.Background(), jobModel.Job{Id: "j", Status: jobModel.JobStatusQueued}); err != nil {
			t.Fatal(err)
		}
	}

	if len(s.JobChannel) != int(config.RequestsPerNewWorkerCount) {
		t.Errorf("queued %d jobs", len(s.JobChannel))
	}
	if _, ok := jobStore.GetJob(context.Background(), "j"); !ok {
		t.Error("queued job not stored")
	}
	select {
	case <-s.DispatcherChannel:
	default:
		t.Error("dispatcher was not signalled")
	}
}

func TestSubmit_FullQueueRespectsContext(t *testing.T) {
	jobStore := store.InitInMemoryJobStore()
	s := InitJobService(ServiceConfig{
		JobChannel:        make(chan jobModel.Job),
		DispatcherChannel: make(chan bool, 1),
		JobStore:          jobStore,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := s.Submit(ctx, jobModel.Job{Id: "blocked", Status: jobModel.JobStatusQueued}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v; want deadline exceeded", err)
	}
	if _, ok := jobStore.GetJob(context.Background(), "blocked"); ok {
		t.Error("job that never reached the queue is still stored as queued")
	}
}
