package channels

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/workintel/workintel/pkg/domain/notify"
)

// flakySender fails the first failures calls, then succeeds.
type flakySender struct {
	mu       sync.Mutex
	failures int
	calls    int
}

func (s *flakySender) Resend(ctx context.Context, record *notify.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return fmt.Errorf("delivery failed (call %d)", s.calls)
	}
	return nil
}

// recordingStore collects attempt history in memory.
type recordingStore struct {
	mu      sync.Mutex
	records []*notify.Record
}

func (s *recordingStore) RecordAttempt(record *notify.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *recordingStore) Attempts(notificationID string) ([]*notify.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*notify.Record
	for _, r := range s.records {
		if r.NotificationID == notificationID {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestQueue(sender Sender, store *recordingStore, deadLetter *DeadLetterStore) *RetryQueue {
	q := NewRetryQueue(sender, store, deadLetter)
	q.retryDelay = time.Millisecond
	return q
}

func TestRetryQueueEventualSuccess(t *testing.T) {
	sender := &flakySender{failures: 1}
	store := &recordingStore{}
	q := newTestQueue(sender, store, nil)

	record := &notify.Record{
		NotificationID: "notif-1",
		Recipient:      "alice@example.com",
		Channel:        notify.ChannelSlack,
		Urgency:        notify.SeverityHigh,
		Message:        "deploy blocked",
		Attempt:        1,
	}
	if err := q.Enqueue(context.Background(), record); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	q.Wait()

	// 1. One failed retry, then a success; nothing after that.
	if sender.calls != 2 {
		t.Errorf("sender called %d times, want 2", sender.calls)
	}

	// 2. Attempt numbers continue from the original delivery.
	attempts, _ := store.Attempts("notif-1")
	if len(attempts) != 2 {
		t.Fatalf("recorded %d attempts, want 2", len(attempts))
	}
	if attempts[0].Attempt != 2 || attempts[0].Succeeded {
		t.Errorf("first retry = %+v", attempts[0])
	}
	if attempts[1].Attempt != 3 || !attempts[1].Succeeded {
		t.Errorf("second retry = %+v", attempts[1])
	}
}

func TestRetryQueueDeadLetters(t *testing.T) {
	dir, err := os.MkdirTemp("", "workintel-deadletter-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "dead_letters.jsonl")

	sender := &flakySender{failures: 100}
	store := &recordingStore{}
	q := newTestQueue(sender, store, NewDeadLetterStore(path))

	record := &notify.Record{
		NotificationID: "notif-9",
		Recipient:      "bob@example.com",
		Channel:        notify.ChannelEmail,
		Message:        "weekly digest",
		Attempt:        1,
	}
	if err := q.Enqueue(context.Background(), record); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	q.Wait()

	// 1. The retry budget is spent in full.
	if sender.calls != 3 {
		t.Errorf("sender called %d times, want 3", sender.calls)
	}
	attempts, _ := store.Attempts("notif-9")
	if len(attempts) != 3 {
		t.Errorf("recorded %d attempts, want 3", len(attempts))
	}

	// 2. The abandoned delivery lands in the dead letter file.
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open dead letters: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		t.Fatal("dead letter file is empty")
	}
	var dl DeadLetter
	if err := json.Unmarshal(scanner.Bytes(), &dl); err != nil {
		t.Fatalf("unmarshal dead letter: %v", err)
	}
	if dl.NotificationID != "notif-9" || dl.Recipient != "bob@example.com" {
		t.Errorf("dead letter = %+v", dl)
	}
	if dl.Attempts != 4 {
		t.Errorf("dead letter attempts = %d, want 4", dl.Attempts)
	}
	if dl.Error == "" {
		t.Error("dead letter has no error")
	}
	if scanner.Scan() {
		t.Error("unexpected extra dead letter line")
	}
}

func TestRetryQueueNilRecord(t *testing.T) {
	q := newTestQueue(&flakySender{}, &recordingStore{}, nil)
	if err := q.Enqueue(context.Background(), nil); err == nil {
		t.Error("nil record accepted")
	}
}

func TestRetryQueueHonorsCancellation(t *testing.T) {
	sender := &flakySender{failures: 100}
	q := newTestQueue(sender, &recordingStore{}, nil)
	q.retryDelay = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, &notify.Record{NotificationID: "notif-x"}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	q.Wait()

	if sender.calls != 0 {
		t.Errorf("sender called %d times after cancellation", sender.calls)
	}
}
