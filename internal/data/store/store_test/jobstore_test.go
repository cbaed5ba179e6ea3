package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/data/redisStore"
	"github.com/akolanti/ContractAPI/internal/data/store"
	"github.com/akolanti/ContractAPI/internal/domain/analysisModel"
	"github.com/akolanti/ContractAPI/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func sampleJob(id string) jobModel.Job {
	return jobModel.Job{
		Id:     id,
		Status: jobModel.JobStatusComplete,
		JobPayload: jobModel.JobPayload{
			DocumentName: "msa.pdf",
			Query:        "What is the notice period?",
			Answer:       "Thirty days [chunk_3].",
			CollectionId: "msa",
			Decision: &analysisModel.RouteDecision{
				Category:   analysisModel.CategoryQA,
				Confidence: 0.8,
				Source:     analysisModel.SourceClassifier,
			},
			Events: []analysisModel.StageEvent{{Stage: analysisModel.StageStart, Outcome: analysisModel.OutcomeOK}},
		},
	}
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jobStore := store.NewRedisJobStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	testJob := sampleJob("job_abc_123")

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		got, found := jobStore.GetJob(ctx, testJob.Id)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}
		if got.JobPayload.Answer != testJob.JobPayload.Answer || got.JobPayload.Decision == nil ||
			got.JobPayload.Decision.Category != analysisModel.CategoryQA {
			t.Errorf("Data mismatch! Got %+v", got.JobPayload)
		}
	})

	t.Run("Saved job carries the TTL", func(t *testing.T) {
		if ttl := mr.TTL("job:" + testJob.Id); ttl != config.RedisJobStoreTTL {
			t.Errorf("TTL = %v; want %v", ttl, config.RedisJobStoreTTL)
		}
		mr.FastForward(config.RedisJobStoreTTL + time.Second)
		if _, found := jobStore.GetJob(ctx, testJob.Id); found {
			t.Error("expired job still returned")
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		if _, found := jobStore.GetJob(ctx, "ghost-id"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Corrupt value is not found", func(t *testing.T) {
		_ = mr.Set("job:broken", "{not json")
		if _, found := jobStore.GetJob(ctx, "broken"); found {
			t.Error("corrupt job reported as found")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		_ = jobStore.SaveJob(ctx, testJob)
		jobStore.DeleteJob(ctx, testJob.Id)
		if mr.Exists("job:" + testJob.Id) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jobStore := store.NewRedisJobStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := jobModel.Job{Id: "race-job"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
	wg.Wait()

	if _, found := jobStore.GetJob(ctx, "race-job"); !found {
		t.Error("job missing after concurrent writes")
	}
}

func TestInMemoryJobStore(t *testing.T) {
	ctx := context.Background()
	s := store.InitInMemoryJobStore()

	if _, found := s.GetJob(ctx, "missing"); found {
		t.Fatal("empty store returned a job")
	}
	job := sampleJob("mem-1")
	if err := s.SaveJob(ctx, job); err != nil {
		t.Fatal(err)
	}
	got, found := s.GetJob(ctx, "mem-1")
	if !found || got.JobPayload.CollectionId != "msa" {
		t.Errorf("got %+v, found %v", got, found)
	}
	s.DeleteJob(ctx, "mem-1")
	if _, found := s.GetJob(ctx, "mem-1"); found {
		t.Error("job still present after delete")
	}
}

func TestGetRedisJobStore_Disabled(t *testing.T) {
	if s := store.GetRedisJobStore(context.Background(), config.RedisSettings{Enabled: false}); s != nil {
		t.Error("disabled redis should yield no store")
	}
}
