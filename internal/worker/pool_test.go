package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// testJob sleeps briefly and records its execution
type testJob struct {
	id       int
	executed *atomic.Int32
	fail     bool
}

type testResult struct {
	id  int
	err error
}

func (r *testResult) GetError() error { return r.err }

func (j *testJob) Execute(ctx context.Context) Result {
	j.executed.Add(1)
	if j.fail {
		return &testResult{id: j.id, err: errors.New("job failed")}
	}
	return &testResult{id: j.id}
}

func TestPool_ExecutesAllJobs(t *testing.T) {
	var executed atomic.Int32
	pool := NewPool(3)
	pool.Start()

	for i := 0; i < 20; i++ {
		pool.Submit(&testJob{id: i, executed: &executed})
	}
	results := pool.Wait()

	if executed.Load() != 20 {
		t.Errorf("Expected 20 jobs executed, got %d", executed.Load())
	}
	if len(results) != 20 {
		t.Errorf("Expected 20 results, got %d", len(results))
	}
}

func TestPool_CollectsErrors(t *testing.T) {
	var executed atomic.Int32
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&testJob{id: 0, executed: &executed})
	pool.Submit(&testJob{id: 1, executed: &executed, fail: true})
	results := pool.Wait()

	failures := 0
	for _, r := range results {
		if r.GetError() != nil {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("Expected 1 failed result, got %d", failures)
	}
}

func TestPool_DefaultsToOneWorker(t *testing.T) {
	pool := NewPool(0)
	if pool.workers != 1 {
		t.Errorf("Expected 1 worker for invalid count, got %d", pool.workers)
	}
}

func TestPool_MoreJobsThanQueueCapacity(t *testing.T) {
	// Exercises the submit path under backpressure
	var executed atomic.Int32
	pool := NewPool(2)
	pool.Start()

	for i := 0; i < 100; i++ {
		pool.Submit(&testJob{id: i, executed: &executed})
	}
	results := pool.Wait()

	if len(results) != 100 {
		t.Errorf("Expected 100 results, got %d", len(results))
	}
}

// slowJob blocks until its context is cancelled
type slowJob struct {
	started chan struct{}
}

func (j *slowJob) Execute(ctx context.Context) Result {
	select {
	case j.started <- struct{}{}:
	default:
	}
	select {
	case <-ctx.Done():
		return &testResult{err: ctx.Err()}
	case <-time.After(5 * time.Second):
		return &testResult{}
	}
}

func TestPool_ShutdownCancelsInFlight(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	job := &slowJob{started: make(chan struct{}, 1)}
	pool.Submit(job)

	<-job.started
	pool.Shutdown()

	done := make(chan []Result, 1)
	go func() { done <- pool.Wait() }()

	select {
	case results := <-done:
		if len(results) != 1 {
			t.Fatalf("Expected 1 result, got %d", len(results))
		}
		if results[0].GetError() == nil {
			t.Error("Expected cancelled job to report its context error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected Wait to return promptly after Shutdown")
	}
}
