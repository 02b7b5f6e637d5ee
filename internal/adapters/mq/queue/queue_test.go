package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if c := q.Cap(); c != 2 {
		t.Errorf("expected capacity 2, got %d", c)
	}

	job := NewJob(ReasonManual, true)
	if job.ID == "" || job.EnqueuedAt.IsZero() {
		t.Fatalf("expected job id and timestamp, got %+v", job)
	}
	if !q.Enqueue(ctx, job) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.ID != job.ID || got.Reason != ReasonManual || !got.ClearCache {
		t.Errorf("unexpected job %+v", got)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_FullQueueRefuses(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx := context.Background()

	if !q.Enqueue(ctx, NewJob(ReasonTick, false)) {
		t.Fatal("expected first enqueue to succeed")
	}
	if q.Enqueue(ctx, NewJob(ReasonTick, false)) {
		t.Fatal("expected second enqueue to be refused while a job is pending")
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if q.Enqueue(ctx, NewJob(ReasonPick, false)) {
		t.Fatal("expected enqueue with a cancelled context to fail")
	}
	if c := q.Cap(); c != defaultQueueCapacity {
		t.Errorf("expected default capacity %d, got %d", defaultQueueCapacity, c)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx := context.Background()

	var accepted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if q.Enqueue(ctx, NewJob(ReasonTick, false)) {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := accepted.Load(); got != 4 {
		t.Errorf("expected exactly 4 accepted jobs, got %d", got)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	q.Enqueue(ctx, NewJob(ReasonStartup, false))
	if err := q.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if q.Enqueue(ctx, NewJob(ReasonTick, false)) {
		t.Error("expected enqueue after close to fail")
	}

	// Jobs queued before Close are still delivered, then the channel ends.
	var drained int
	for range q.Dequeue(ctx) {
		drained++
	}
	if drained != 1 {
		t.Errorf("expected 1 drained job, got %d", drained)
	}
}
