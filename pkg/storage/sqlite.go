package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/workintel/workintel/pkg/domain"
	"github.com/workintel/workintel/pkg/domain/notify"
)

// SQLiteNotificationStore keeps the append-only dispatch history. Retry
// outcomes insert new rows; nothing is updated in place.
type SQLiteNotificationStore struct {
	db *sql.DB
}

var _ domain.NotificationStore = (*SQLiteNotificationStore)(nil)

func OpenNotificationStore(path string) (*SQLiteNotificationStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open notification store: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS notification_attempts (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		notification_id TEXT NOT NULL,
		recipient       TEXT NOT NULL,
		channel         TEXT DEFAULT '',
		urgency         TEXT NOT NULL,
		message         TEXT DEFAULT '',
		attempt         INTEGER NOT NULL,
		succeeded       INTEGER NOT NULL,
		error           TEXT DEFAULT '',
		attempted_at    DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_na_notification ON notification_attempts(notification_id);
	CREATE INDEX IF NOT EXISTS idx_na_date ON notification_attempts(attempted_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create notification schema: %w", err)
	}

	return &SQLiteNotificationStore{db: db}, nil
}

func (s *SQLiteNotificationStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteNotificationStore) RecordAttempt(record *notify.Record) error {
	if record == nil {
		return fmt.Errorf("record is required")
	}
	_, err := s.db.Exec(
		`INSERT INTO notification_attempts (notification_id, recipient, channel, urgency, message, attempt, succeeded, error, attempted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.NotificationID, record.Recipient, string(record.Channel), string(record.Urgency),
		record.Message, record.Attempt, boolToInt(record.Succeeded), record.Error,
		record.AttemptedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record notification attempt: %w", err)
	}
	return nil
}

// Attempts returns the chronologically ordered attempts for one
// notification. Missing notifications yield an empty slice.
func (s *SQLiteNotificationStore) Attempts(notificationID string) ([]*notify.Record, error) {
	rows, err := s.db.Query(
		`SELECT notification_id, recipient, channel, urgency, message, attempt, succeeded, error, attempted_at
		 FROM notification_attempts
		 WHERE notification_id = ?
		 ORDER BY attempted_at, id`,
		notificationID,
	)
	if err != nil {
		return nil, fmt.Errorf("query notification attempts: %w", err)
	}
	defer rows.Close()

	records := []*notify.Record{}
	for rows.Next() {
		var r notify.Record
		var channel, urgency, attemptedAt string
		var succeeded int
		if err := rows.Scan(&r.NotificationID, &r.Recipient, &channel, &urgency, &r.Message,
			&r.Attempt, &succeeded, &r.Error, &attemptedAt); err != nil {
			return nil, fmt.Errorf("scan notification attempt: %w", err)
		}
		r.Channel = notify.Channel(channel)
		r.Urgency = notify.Severity(urgency)
		r.Succeeded = succeeded != 0
		if ts, err := time.Parse(time.RFC3339Nano, attemptedAt); err == nil {
			r.AttemptedAt = ts
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
