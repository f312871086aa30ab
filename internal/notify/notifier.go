package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"task-manager.com/task-manager/internal/queue"
)

// Notifier hands a message to whatever delivers it. A nil error means the
// message was accepted, not that it was delivered.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// QueueNotifier enqueues messages for DispatchService workers.
type QueueNotifier struct {
	queue queue.Queue
}

func NewQueueNotifier(q queue.Queue) *QueueNotifier {
	return &QueueNotifier{queue: q}
}

func (n *QueueNotifier) Notify(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	if err := n.queue.Push(ctx, payload); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

// MailerNotifier delivers messages synchronously.
type MailerNotifier struct {
	mailer Mailer
}

func NewMailerNotifier(mailer Mailer) *MailerNotifier {
	return &MailerNotifier{mailer: mailer}
}

func (n *MailerNotifier) Notify(ctx context.Context, msg Message) error {
	return n.mailer.Send(ctx, msg)
}
