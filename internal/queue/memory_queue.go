package queue

import (
	"context"
	"time"
)

// MemoryQueue is a bounded in-process queue.
type MemoryQueue struct {
	items chan []byte
}

func NewMemoryQueue(capacity int) *MemoryQueue {
	return &MemoryQueue{items: make(chan []byte, capacity)}
}

// Push never blocks; a full queue rejects the payload with ErrQueueFull.
func (q *MemoryQueue) Push(_ context.Context, payload []byte) error {
	select {
	case q.items <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case payload := <-q.items:
		return payload, nil
	case <-timer.C:
		return nil, ErrQueueEmpty
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemoryQueue) Len() int {
	return len(q.items)
}
