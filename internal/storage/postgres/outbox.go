package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/bernardito-luis/eurodelivery/internal/domain/errors"
	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
)

// outboxWriter enqueues notifications inside the caller's transaction.
type outboxWriter struct {
	tx pgx.Tx
}

func (w *outboxWriter) Enqueue(ctx context.Context, notifications ...model.Notification) error {
	const query = `INSERT INTO notification_outbox (purchase_order_id, recipient, subject, body) VALUES ($1, $2, $3, $4)`
	for _, n := range notifications {
		if _, err := w.tx.Exec(ctx, query, n.OrderID, n.Recipient, n.Subject, n.Body); err != nil {
			return fmt.Errorf("enqueue notification: %w", err)
		}
	}
	return nil
}

type notificationRepository struct {
	storage *Storage
}

func (r *notificationRepository) ClaimBatch(ctx context.Context, relayID string, limit int, staleBefore time.Time) ([]model.Notification, error) {
	const selectQuery = `SELECT id, purchase_order_id, recipient, subject, body, attempts, last_error, created_at
                         FROM notification_outbox
                         WHERE state = 'pending' OR (state = 'sending' AND updated_at < $2)
                         ORDER BY created_at, id
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`
	const claimQuery = `UPDATE notification_outbox SET state='sending', claimed_by=$1, updated_at=NOW() WHERE id = ANY($2)`

	var batch []model.Notification
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit, staleBefore)
		if err != nil {
			return err
		}
		for rows.Next() {
			n := model.Notification{State: model.NotificationSending, ClaimedBy: relayID}
			if err := rows.Scan(&n.ID, &n.OrderID, &n.Recipient, &n.Subject, &n.Body, &n.Attempts, &n.LastError, &n.CreatedAt); err != nil {
				rows.Close()
				return err
			}
			batch = append(batch, n)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(batch))
		for _, n := range batch {
			ids = append(ids, n.ID)
		}
		if _, err := tx.Exec(ctx, claimQuery, relayID, ids); err != nil {
			return fmt.Errorf("claim notifications: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *notificationRepository) Renew(ctx context.Context, id int64, relayID string) error {
	const query = `UPDATE notification_outbox
                   SET updated_at=NOW()
                   WHERE id=$1 AND claimed_by=$2 AND state='sending'`
	tag, err := r.storage.pool.Exec(ctx, query, id, relayID)
	if err != nil {
		return fmt.Errorf("renew notification claim: %w", err)
	}
	return ownedRow(id, tag)
}

func (r *notificationRepository) MarkSent(ctx context.Context, id int64, relayID string) error {
	const query = `UPDATE notification_outbox
                   SET state='sent', attempts=attempts+1, last_error=NULL, updated_at=NOW()
                   WHERE id=$1 AND claimed_by=$2 AND state='sending'`
	tag, err := r.storage.pool.Exec(ctx, query, id, relayID)
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	return ownedRow(id, tag)
}

func (r *notificationRepository) MarkFailed(ctx context.Context, id int64, relayID, reason string, maxAttempts int) error {
	const query = `UPDATE notification_outbox
                   SET attempts=attempts+1,
                       last_error=$2,
                       state=CASE WHEN attempts+1 >= $3 THEN 'failed' ELSE 'pending' END,
                       claimed_by=NULL,
                       updated_at=NOW()
                   WHERE id=$1 AND claimed_by=$4 AND state='sending'`
	tag, err := r.storage.pool.Exec(ctx, query, id, reason, maxAttempts, relayID)
	if err != nil {
		return fmt.Errorf("mark notification failed: %w", err)
	}
	return ownedRow(id, tag)
}

func ownedRow(id int64, tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: notification %d", domainErrors.ErrClaimLost, id)
	}
	return nil
}
