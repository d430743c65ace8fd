package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const sqliteColumns = `id, event_id, aggregate_type, aggregate_id, routing_key,
	payload, metadata, created_at, published_at, next_retry_at, retry_count,
	last_error, dead_lettered_at, dead_letter_reason`

// SQLiteRepository stores the outbox in SQLite. Timestamps are TEXT columns
// written with database.FormatTime.
type SQLiteRepository struct {
	conn database.Connection
	now  func() time.Time
}

// NewSQLiteRepository creates a repository over conn.
func NewSQLiteRepository(conn database.Connection) *SQLiteRepository {
	return &SQLiteRepository{conn: conn, now: time.Now}
}

func (r *SQLiteRepository) Save(ctx context.Context, msgs ...*Message) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	for _, msg := range msgs {
		err := exec.QueryRow(ctx, `
			INSERT INTO outbox (
				event_id, aggregate_type, aggregate_id, routing_key,
				payload, metadata, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			msg.EventID.String(),
			msg.AggregateType,
			msg.AggregateID.String(),
			msg.RoutingKey,
			string(msg.Payload),
			metadataOrEmpty(msg.Metadata),
			database.FormatTime(msg.CreatedAt),
		).Scan(&msg.ID)
		if err != nil {
			return fmt.Errorf("failed to save outbox message %s: %w", msg.EventID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Pending(ctx context.Context, limit int) ([]*Message, error) {
	return r.query(ctx, `
		SELECT `+sqliteColumns+`
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?`,
		database.FormatTime(r.now()), limit,
	)
}

func (r *SQLiteRepository) DeadLettered(ctx context.Context, limit int) ([]*Message, error) {
	return r.query(ctx, `
		SELECT `+sqliteColumns+`
		FROM outbox
		WHERE dead_lettered_at IS NOT NULL
		ORDER BY dead_lettered_at DESC, id DESC
		LIMIT ?`,
		limit,
	)
}

func (r *SQLiteRepository) MarkPublished(ctx context.Context, id int64) error {
	return r.update(ctx, id, `UPDATE outbox SET published_at = ?, next_retry_at = NULL WHERE id = ?`,
		database.FormatTime(r.now()), id)
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error {
	return r.update(ctx, id, `
		UPDATE outbox
		SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
		WHERE id = ?`,
		reason, database.FormatTime(nextRetryAt), id)
}

func (r *SQLiteRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	return r.update(ctx, id, `
		UPDATE outbox
		SET retry_count = retry_count + 1, last_error = ?, dead_lettered_at = ?, dead_letter_reason = ?
		WHERE id = ?`,
		reason, database.FormatTime(r.now()), reason, id)
}

func (r *SQLiteRepository) Requeue(ctx context.Context, id int64) error {
	return r.update(ctx, id, `
		UPDATE outbox
		SET dead_lettered_at = NULL, dead_letter_reason = NULL, retry_count = 0, next_retry_at = NULL
		WHERE id = ? AND dead_lettered_at IS NOT NULL`,
		id)
}

func (r *SQLiteRepository) DeleteOld(ctx context.Context, before time.Time) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	res, err := exec.Exec(ctx, `DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`,
		database.FormatTime(before))
	if err != nil {
		return 0, fmt.Errorf("failed to delete old outbox messages: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) update(ctx context.Context, id int64, query string, args ...any) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	res, err := exec.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update outbox message %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]*Message, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []*Message
	for rows.Next() {
		msg, err := scanSQLiteMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func scanSQLiteMessage(row database.Row) (*Message, error) {
	var (
		msg                              Message
		eventID, aggregateID             string
		payload, metadata, createdAt     string
		publishedAt, nextRetryAt, deadAt *string
	)
	err := row.Scan(
		&msg.ID, &eventID, &msg.AggregateType, &aggregateID, &msg.RoutingKey,
		&payload, &metadata, &createdAt, &publishedAt, &nextRetryAt, &msg.RetryCount,
		&msg.LastError, &deadAt, &msg.DeadLetterReason,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan outbox message: %w", err)
	}

	if msg.EventID, err = uuid.Parse(eventID); err != nil {
		return nil, fmt.Errorf("invalid event_id on message %d: %w", msg.ID, err)
	}
	if msg.AggregateID, err = uuid.Parse(aggregateID); err != nil {
		return nil, fmt.Errorf("invalid aggregate_id on message %d: %w", msg.ID, err)
	}
	msg.Payload = []byte(payload)
	msg.Metadata = []byte(metadata)

	if msg.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		src *string
		dst **time.Time
	}{
		{publishedAt, &msg.PublishedAt},
		{nextRetryAt, &msg.NextRetryAt},
		{deadAt, &msg.DeadLetteredAt},
	} {
		if f.src == nil {
			continue
		}
		t, err := database.ParseTime(*f.src)
		if err != nil {
			return nil, err
		}
		*f.dst = &t
	}
	return &msg, nil
}

func metadataOrEmpty(metadata []byte) string {
	if len(metadata) == 0 {
		return "{}"
	}
	return string(metadata)
}
