package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/notify"
)

const (
	defaultQueueSize   = 64
	defaultSendTimeout = 10 * time.Second
)

// NotificationWorker delivers queued messages off the request path.
type NotificationWorker struct {
	sender  notify.Sender
	logger  *zap.Logger
	queue   chan string
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewNotificationWorker builds a worker with a bounded queue.
func NewNotificationWorker(sender notify.Sender, logger *zap.Logger, queueSize int) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &NotificationWorker{
		sender:  sender,
		logger:  logger,
		queue:   make(chan string, queueSize),
		timeout: defaultSendTimeout,
	}
}

// Start consumes the queue until ctx is cancelled, then drains what is left.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				w.drain()
				return
			case text := <-w.queue:
				w.deliver(text)
			}
		}
	}()
}

// Wait blocks until the worker has stopped.
func (w *NotificationWorker) Wait() {
	w.wg.Wait()
}

// Enqueue schedules text for delivery. It never blocks; a full queue drops
// the message and reports false.
func (w *NotificationWorker) Enqueue(text string) bool {
	select {
	case w.queue <- text:
		return true
	default:
		w.logger.Warn("notification queue full; dropping message")
		return false
	}
}

func (w *NotificationWorker) drain() {
	for {
		select {
		case text := <-w.queue:
			w.deliver(text)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(text string) {
	if w.sender == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.sender.Send(ctx, text); err != nil {
		w.logger.Warn("notification delivery failed", zap.Error(err))
	}
}
