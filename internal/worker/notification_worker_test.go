package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (r *recordingSender) Send(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, text)
	return r.err
}

func TestNotificationWorker_DeliversAndDrainsOnShutdown(t *testing.T) {
	sender := &recordingSender{}
	w := NewNotificationWorker(sender, nil, 8)

	for _, msg := range []string{"a", "b", "c"} {
		if !w.Enqueue(msg) {
			t.Fatalf("enqueue %s failed", msg)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()
	w.Wait()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 3 {
		t.Fatalf("expected 3 deliveries, got %v", sender.sent)
	}
}

func TestNotificationWorker_EnqueueDropsWhenFull(t *testing.T) {
	w := NewNotificationWorker(&recordingSender{}, nil, 1)
	if !w.Enqueue("first") {
		t.Fatal("first enqueue should succeed")
	}
	if w.Enqueue("second") {
		t.Fatal("second enqueue should be dropped")
	}
}

func TestNotificationWorker_SendErrorIsSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("telegram down")}
	w := NewNotificationWorker(sender, nil, 1)
	w.Enqueue("x")

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()
	w.Wait()

	if len(sender.sent) != 1 {
		t.Fatalf("expected one attempt, got %d", len(sender.sent))
	}
}
