package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/workintel/workintel/pkg/domain"
	"github.com/workintel/workintel/pkg/domain/notify"
)

// DeadLetter is one delivery abandoned after the retry budget ran out.
type DeadLetter struct {
	Timestamp      time.Time      `json:"timestamp"`
	NotificationID string         `json:"notification_id"`
	Recipient      string         `json:"recipient"`
	Channel        notify.Channel `json:"channel"`
	Message        string         `json:"message"`
	Error          string         `json:"error"`
	Attempts       int            `json:"attempts"`
}

// DeadLetterStore appends abandoned deliveries to a JSONL file.
type DeadLetterStore struct {
	path string
	mu   sync.Mutex
}

func NewDeadLetterStore(path string) *DeadLetterStore {
	return &DeadLetterStore{path: path}
}

func (s *DeadLetterStore) Append(dl DeadLetter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(dl)
	if err != nil {
		return fmt.Errorf("marshal dead letter: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open dead letter file: %w", err)
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

// RetryQueue re-attempts failed channel deliveries in the background with
// linear backoff. Each attempt appends a history record; exhausted
// deliveries go to the dead letter store.
type RetryQueue struct {
	sender     Sender
	store      domain.NotificationStore
	deadLetter *DeadLetterStore
	maxRetries int
	retryDelay time.Duration

	wg sync.WaitGroup
}

// Sender resolves a channel and recipient back to a send call. The
// notification service implements this over its adapter set.
type Sender interface {
	Resend(ctx context.Context, record *notify.Record) error
}

func NewRetryQueue(sender Sender, store domain.NotificationStore, deadLetter *DeadLetterStore) *RetryQueue {
	return &RetryQueue{
		sender:     sender,
		store:      store,
		deadLetter: deadLetter,
		maxRetries: 3,
		retryDelay: time.Second,
	}
}

// Enqueue schedules background retries for a failed delivery. It returns
// immediately.
func (q *RetryQueue) Enqueue(ctx context.Context, record *notify.Record) error {
	if record == nil {
		return fmt.Errorf("record is required")
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.deliver(ctx, record)
	}()
	return nil
}

// Wait blocks until all in-flight retries finish. Used on shutdown and in
// tests.
func (q *RetryQueue) Wait() {
	q.wg.Wait()
}

func (q *RetryQueue) deliver(ctx context.Context, record *notify.Record) {
	var lastErr error
	for attempt := 1; attempt <= q.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(q.retryDelay * time.Duration(attempt)):
		}

		err := q.sender.Resend(ctx, record)
		q.recordAttempt(record, record.Attempt+attempt, err)
		if err == nil {
			return
		}
		lastErr = err
	}

	if q.deadLetter != nil && lastErr != nil {
		_ = q.deadLetter.Append(DeadLetter{
			Timestamp:      time.Now(),
			NotificationID: record.NotificationID,
			Recipient:      record.Recipient,
			Channel:        record.Channel,
			Message:        record.Message,
			Error:          lastErr.Error(),
			Attempts:       record.Attempt + q.maxRetries,
		})
	}
}

func (q *RetryQueue) recordAttempt(record *notify.Record, attempt int, err error) {
	if q.store == nil {
		return
	}
	entry := &notify.Record{
		NotificationID: record.NotificationID,
		Recipient:      record.Recipient,
		Channel:        record.Channel,
		Urgency:        record.Urgency,
		Message:        record.Message,
		Attempt:        attempt,
		Succeeded:      err == nil,
		AttemptedAt:    time.Now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	_ = q.store.RecordAttempt(entry)
}
