package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	// Test empty queue
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	// Test enqueue
	if !q.Enqueue(ctx, Job{Index: 7}) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	// Test dequeue
	job := <-q.Dequeue(ctx)
	if job.Index != 7 {
		t.Errorf("expected job 7, got %d", job.Index)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if q.Capacity() != 2 {
		t.Fatalf("expected capacity 2, got %d", q.Capacity())
	}
	if !q.Enqueue(ctx, Job{Index: 0}) || !q.Enqueue(ctx, Job{Index: 1}) {
		t.Fatal("expected enqueue to succeed")
	}

	// Try to enqueue when full
	if q.Enqueue(ctx, Job{Index: 2}) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_PutBlocksUntilRoom(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx := context.Background()

	if err := q.Put(ctx, Job{Index: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- q.Put(ctx, Job{Index: 1}) }()

	select {
	case err := <-done:
		t.Fatalf("put should block on a full queue, returned %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	jobs := q.Dequeue(ctx)
	if j := <-jobs; j.Index != 0 {
		t.Errorf("expected job 0 first, got %d", j.Index)
	}
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j := <-jobs; j.Index != 1 {
		t.Errorf("expected job 1 second, got %d", j.Index)
	}
}

func TestInMemoryQueue_PutHonoursContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	_ = q.Put(context.Background(), Job{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := q.Put(ctx, Job{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestInMemoryQueue_CloseReleasesBlockedPut(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	_ = q.Put(context.Background(), Job{})

	done := make(chan error, 1)
	go func() { done <- q.Put(context.Background(), Job{}) }()
	time.Sleep(20 * time.Millisecond)

	if err := q.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked put was not released by Close")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(16))
	ctx := context.Background()
	producers, perProducer := 8, 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if err := q.Put(ctx, Job{Index: p*perProducer + i}); err != nil {
					t.Errorf("put failed: %v", err)
					return
				}
			}
		}(p)
	}

	seen := make(map[int]bool)
	jobs := q.Dequeue(ctx)
	for len(seen) < producers*perProducer {
		select {
		case j := <-jobs:
			if seen[j.Index] {
				t.Fatalf("job %d delivered twice", j.Index)
			}
			seen[j.Index] = true
		case <-time.After(time.Second):
			t.Fatalf("timed out with %d jobs received", len(seen))
		}
	}
	wg.Wait()
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx := context.Background()
	_ = q.Enqueue(ctx, Job{Index: 1})

	if err := q.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed")
	}
	if err := q.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
	if q.Enqueue(ctx, Job{}) {
		t.Error("expected enqueue to fail after close")
	}
	if err := q.Put(ctx, Job{}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// Buffered jobs drain before the channel closes.
	var got []int
	for j := range q.Dequeue(ctx) {
		got = append(got, j.Index)
	}
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected the buffered job to drain, got %v", got)
	}
}
