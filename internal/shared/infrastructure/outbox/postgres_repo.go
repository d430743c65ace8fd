package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/database"
)

const postgresColumns = `id, event_id, aggregate_type, aggregate_id, routing_key,
	payload, metadata, created_at, published_at, next_retry_at, retry_count,
	last_error, dead_lettered_at, dead_letter_reason`

// PostgresRepository stores the outbox in PostgreSQL.
type PostgresRepository struct {
	conn database.Connection
}

// NewPostgresRepository creates a repository over conn.
func NewPostgresRepository(conn database.Connection) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

func (r *PostgresRepository) Save(ctx context.Context, msgs ...*Message) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	for _, msg := range msgs {
		err := exec.QueryRow(ctx, `
			INSERT INTO outbox (
				event_id, aggregate_type, aggregate_id, routing_key,
				payload, metadata, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			msg.EventID,
			msg.AggregateType,
			msg.AggregateID,
			msg.RoutingKey,
			[]byte(msg.Payload),
			[]byte(metadataOrEmpty(msg.Metadata)),
			msg.CreatedAt,
		).Scan(&msg.ID)
		if err != nil {
			return fmt.Errorf("failed to save outbox message %s: %w", msg.EventID, err)
		}
	}
	return nil
}

func (r *PostgresRepository) Pending(ctx context.Context, limit int) ([]*Message, error) {
	return r.query(ctx, `
		SELECT `+postgresColumns+`
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
		ORDER BY created_at, id
		LIMIT $1`,
		limit,
	)
}

func (r *PostgresRepository) DeadLettered(ctx context.Context, limit int) ([]*Message, error) {
	return r.query(ctx, `
		SELECT `+postgresColumns+`
		FROM outbox
		WHERE dead_lettered_at IS NOT NULL
		ORDER BY dead_lettered_at DESC, id DESC
		LIMIT $1`,
		limit,
	)
}

func (r *PostgresRepository) MarkPublished(ctx context.Context, id int64) error {
	return r.update(ctx, id, `UPDATE outbox SET published_at = NOW(), next_retry_at = NULL WHERE id = $1`, id)
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error {
	return r.update(ctx, id, `
		UPDATE outbox
		SET retry_count = retry_count + 1, last_error = $2, next_retry_at = $3
		WHERE id = $1`,
		id, reason, nextRetryAt)
}

func (r *PostgresRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	return r.update(ctx, id, `
		UPDATE outbox
		SET retry_count = retry_count + 1, last_error = $2, dead_lettered_at = NOW(), dead_letter_reason = $2
		WHERE id = $1`,
		id, reason)
}

func (r *PostgresRepository) Requeue(ctx context.Context, id int64) error {
	return r.update(ctx, id, `
		UPDATE outbox
		SET dead_lettered_at = NULL, dead_letter_reason = NULL, retry_count = 0, next_retry_at = NULL
		WHERE id = $1 AND dead_lettered_at IS NOT NULL`,
		id)
}

func (r *PostgresRepository) DeleteOld(ctx context.Context, before time.Time) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	res, err := exec.Exec(ctx, `DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old outbox messages: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) update(ctx context.Context, id int64, query string, args ...any) error {
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

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*Message, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []*Message
	for rows.Next() {
		var msg Message
		var payload, metadata []byte
		err := rows.Scan(
			&msg.ID, &msg.EventID, &msg.AggregateType, &msg.AggregateID, &msg.RoutingKey,
			&payload, &metadata, &msg.CreatedAt, &msg.PublishedAt, &msg.NextRetryAt, &msg.RetryCount,
			&msg.LastError, &msg.DeadLetteredAt, &msg.DeadLetterReason,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}
		msg.Payload = payload
		msg.Metadata = metadata
		msgs = append(msgs, &msg)
	}
	return msgs, rows.Err()
}
