package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"task-manager.com/task-manager/internal/notify"
	"task-manager.com/task-manager/internal/queue"
)

const (
	dispatchPollTimeout  = 5 * time.Second
	dispatchRetryBackoff = time.Second
)

// DispatchService drains queued notifications with a fixed pool of workers
// and delivers each one through the mailer.
type DispatchService struct {
	queue  queue.Queue
	mailer notify.Mailer
	logger *slog.Logger

	pollTimeout time.Duration
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

func NewDispatchService(q queue.Queue, mailer notify.Mailer, workers int, logger *slog.Logger) *DispatchService {
	return newDispatchService(q, mailer, workers, dispatchPollTimeout, logger)
}

func newDispatchService(q queue.Queue, mailer notify.Mailer, workers int, pollTimeout time.Duration, logger *slog.Logger) *DispatchService {
	ctx, cancel := context.WithCancel(context.Background())
	d := &DispatchService{
		queue:       q,
		mailer:      mailer,
		logger:      logger,
		pollTimeout: pollTimeout,
		ctx:         ctx,
		cancel:      cancel,
	}

	for i := 1; i <= workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	return d
}

func (d *DispatchService) worker(workerID int) {
	defer d.wg.Done()

	d.logger.Debug("dispatch worker started", "worker", workerID)

	for {
		payload, err := d.queue.Pop(d.ctx, d.pollTimeout)
		if d.ctx.Err() != nil {
			break
		}
		if err != nil {
			if errors.Is(err, queue.ErrQueueEmpty) {
				continue
			}
			d.logger.Error("failed to pop notification", "worker", workerID, "error", err)
			d.backoff()
			continue
		}

		d.deliver(workerID, payload)
	}

	d.logger.Debug("dispatch worker stopped", "worker", workerID)
}

func (d *DispatchService) deliver(workerID int, payload []byte) {
	var msg notify.Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		d.logger.Error("dropping undecodable notification", "worker", workerID, "error", err)
		return
	}

	// In-flight deliveries finish even when Shutdown has started.
	if err := d.mailer.Send(context.WithoutCancel(d.ctx), msg); err != nil {
		d.logger.Error("failed to deliver notification",
			"worker", workerID,
			"to", msg.To,
			"subject", msg.Subject,
			"error", err,
		)
	}
}

func (d *DispatchService) backoff() {
	timer := time.NewTimer(dispatchRetryBackoff)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-d.ctx.Done():
	}
}

// Shutdown stops the workers and waits for in-flight deliveries until ctx
// expires.
func (d *DispatchService) Shutdown(ctx context.Context) {
	d.cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("dispatcher shut down cleanly")
	case <-ctx.Done():
		d.logger.Warn("dispatcher shutdown timed out")
	}
}
