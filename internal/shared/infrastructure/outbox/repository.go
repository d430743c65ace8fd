package outbox

import (
	"context"
	"errors"
	"time"
)

// Repository persists outbox messages. Save joins the transaction carried by
// ctx so events commit atomically with the aggregate that raised them.
type Repository interface {
	Save(ctx context.Context, msgs ...*Message) error

	// Pending returns unpublished, live messages whose retry time has come,
	// oldest first.
	Pending(ctx context.Context, limit int) ([]*Message, error)

	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error

	// DeadLettered returns dead messages, newest first.
	DeadLettered(ctx context.Context, limit int) ([]*Message, error)

	// Requeue revives a dead message with a fresh retry budget.
	Requeue(ctx context.Context, id int64) error

	// DeleteOld removes published messages older than before.
	DeleteOld(ctx context.Context, before time.Time) (int64, error)
}

// ErrMessageNotFound is returned when an id matches no message.
var ErrMessageNotFound = errors.New("outbox message not found")
