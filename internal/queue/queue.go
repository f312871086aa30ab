package queue

import (
	"context"
	"errors"
	"time"
)

// Queue is a FIFO of opaque payloads shared between producers and workers.
type Queue interface {
	Push(ctx context.Context, payload []byte) error

	// Pop blocks up to timeout for a payload and returns ErrQueueEmpty if none
	// arrived.
	Pop(ctx context.Context, timeout time.Duration) ([]byte, error)
}

var ErrQueueEmpty = errors.New("queue is empty")

var ErrQueueFull = errors.New("queue is full")
